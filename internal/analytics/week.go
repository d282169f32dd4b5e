package analytics

import (
	"sort"

	"github.com/stemsi/attendance-dashboard/internal/model"
)

// WeekDetail builds the By Week view. With participantsOnly, students who did
// not participate that week are dropped; otherwise every enrolled student is
// listed and those without a record appear as implicit absences.
func WeekDetail(t *model.Table, week string, participantsOnly bool) model.WeekSummary {
	info, found := t.Week(week)
	if !found {
		info = model.WeekInfo{Label: week}
	}
	ws := model.WeekSummary{
		Week:             info,
		Found:            found,
		ParticipantsOnly: participantsOnly,
		Entries:          make([]model.WeekEntry, 0),
		AttendanceCounts: newStatusCounts(),
	}
	if !found {
		return ws
	}

	g := buildGrid(t)
	for _, student := range t.Students {
		c := g.at(student, week)
		if c.present {
			ws.AttendanceCounts[c.status]++
		}
		if participantsOnly && c.participation == 0 {
			continue
		}
		ws.Entries = append(ws.Entries, model.WeekEntry{
			Student:       student,
			Participation: c.participation,
			Score:         c.score,
			Status:        c.status,
			Implicit:      !c.present,
		})
	}

	sort.SliceStable(ws.Entries, func(i, j int) bool {
		a, b := ws.Entries[i], ws.Entries[j]
		if a.Participation != b.Participation {
			return a.Participation > b.Participation
		}
		return a.Student < b.Student
	})
	return ws
}
