package analytics

import (
	"sort"

	"github.com/stemsi/attendance-dashboard/internal/model"
)

// ParseMetric falls back to MetricScore for unknown values.
func ParseMetric(s string) model.LeaderboardMetric {
	switch m := model.LeaderboardMetric(s); m {
	case model.MetricParticipation, model.MetricRating:
		return m
	}
	return model.MetricScore
}

// Leaderboard ranks every enrolled student by metric, descending, ties broken
// by student name ascending. Students without participation are included.
func Leaderboard(t *model.Table, metric model.LeaderboardMetric) model.Leaderboard {
	metric = ParseMetric(string(metric))
	summaries := Summaries(t)

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := metricValue(summaries[i], metric), metricValue(summaries[j], metric)
		if a != b {
			return a > b
		}
		return summaries[i].Student < summaries[j].Student
	})

	lb := model.Leaderboard{Metric: metric, Entries: summaries}
	for i := range summaries {
		summaries[i].Rank = i + 1
		lb.TotalParticipation += summaries[i].TotalParticipation
		lb.TotalScore += summaries[i].TotalScore
	}
	return lb
}

func metricValue(s model.StudentSummary, m model.LeaderboardMetric) float64 {
	switch m {
	case model.MetricParticipation:
		return float64(s.TotalParticipation)
	case model.MetricRating:
		return s.Rating
	default:
		return s.TotalScore
	}
}

// Summaries computes one StudentSummary per enrolled student in table order.
func Summaries(t *model.Table) []model.StudentSummary {
	g := buildGrid(t)
	byStudent := make(map[string]*totals, len(t.Students))
	for _, r := range t.Records {
		acc, ok := byStudent[r.Student]
		if !ok {
			acc = &totals{}
			byStudent[r.Student] = acc
		}
		acc.add(r)
	}

	out := make([]model.StudentSummary, 0, len(t.Students))
	for _, student := range t.Students {
		out = append(out, summarize(t, g, student, byStudent[student]))
	}
	return out
}

type totals struct {
	participation int
	score         float64
	records       int
}

func (a *totals) add(r model.AttendanceRecord) {
	a.participation += r.Participation
	a.score += r.Score
	a.records++
}

func summarize(t *model.Table, g grid, student string, acc *totals) model.StudentSummary {
	if acc == nil {
		acc = &totals{}
	}
	s := model.StudentSummary{
		Student:            student,
		TotalParticipation: acc.participation,
		TotalScore:         acc.score,
		WeeksTotal:         len(t.Weeks),
		Statuses:           make([]model.AttendanceStatus, 0, len(t.Weeks)),
	}
	for _, w := range t.Weeks {
		c := g.at(student, w.Label)
		if c.participation > 0 {
			s.WeeksSpoken++
		}
		s.Statuses = append(s.Statuses, c.status)
	}
	if acc.records > 0 {
		s.AverageScore = round2(acc.score / float64(acc.records))
	}
	s.Rating = Rating(s.WeeksSpoken, s.TotalParticipation, s.WeeksTotal)
	return s
}
