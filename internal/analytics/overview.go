package analytics

import "github.com/stemsi/attendance-dashboard/internal/model"

// Overview computes the class-wide totals, the average participation per
// week over enrolled students and the attendance breakdown of all records.
func Overview(t *model.Table) model.Overview {
	o := model.Overview{
		Students:         len(t.Students),
		Weeks:            len(t.Weeks),
		Records:          len(t.Records),
		WeeklyAverages:   make([]model.WeekAverage, 0, len(t.Weeks)),
		AttendanceCounts: newStatusCounts(),
	}

	perWeek := make(map[string]int, len(t.Weeks))
	for _, r := range t.Records {
		o.TotalParticipation += r.Participation
		o.TotalScore += r.Score
		o.AttendanceCounts[r.Status]++
		perWeek[r.Week] += r.Participation
	}

	for _, w := range t.Weeks {
		avg := 0.0
		if o.Students > 0 {
			avg = round2(float64(perWeek[w.Label]) / float64(o.Students))
		}
		o.WeeklyAverages = append(o.WeeklyAverages, model.WeekAverage{Week: w.Label, Average: avg})
	}
	return o
}
