package analytics

import (
	"fmt"

	"github.com/stemsi/attendance-dashboard/internal/model"
)

// StudentDetail builds the By Student view. Records holds exactly the rows of
// the student; Trend has one point per table week with gaps filled as implicit
// absences. An unknown student yields an empty, non-enrolled detail.
func StudentDetail(t *model.Table, student string) model.StudentDetail {
	d := model.StudentDetail{
		Student:          student,
		Enrolled:         t.HasStudent(student),
		Records:          make([]model.AttendanceRecord, 0),
		Trend:            make([]model.TrendPoint, 0, len(t.Weeks)),
		AttendanceCounts: newStatusCounts(),
		AbsentTags:       make([]string, 0),
		ExcusedTags:      make([]string, 0),
	}

	acc := &totals{}
	for _, r := range t.Records {
		if r.Student == student {
			d.Records = append(d.Records, r)
			acc.add(r)
		}
	}

	g := buildGrid(t)
	for _, w := range t.Weeks {
		c := g.at(student, w.Label)
		d.Trend = append(d.Trend, model.TrendPoint{
			Week:          w.Label,
			WeekNumber:    w.Number,
			Date:          w.Date,
			Topic:         w.Topic,
			Participation: c.participation,
			Score:         c.score,
			Status:        c.status,
			Note:          c.note,
			Implicit:      !c.present,
		})
		d.AttendanceCounts[c.status]++
		switch c.status {
		case model.StatusAbsent:
			d.AbsentTags = append(d.AbsentTags, WeekTag(w))
		case model.StatusExcused:
			d.ExcusedTags = append(d.ExcusedTags, WeekTag(w))
		}
	}

	d.Summary = summarize(t, g, student, acc)
	if len(t.Weeks) > 0 {
		d.AveragePerWeek = round2(float64(acc.participation) / float64(len(t.Weeks)))
	}
	return d
}

// WeekTag formats a week as "wk 2 (9/11)", falling back to the raw label.
func WeekTag(w model.WeekInfo) string {
	if w.Number == 0 {
		return w.Label
	}
	if w.Date == "" {
		return fmt.Sprintf("wk %d", w.Number)
	}
	return fmt.Sprintf("wk %d (%s)", w.Number, w.Date)
}
