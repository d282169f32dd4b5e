package analytics

import "github.com/stemsi/attendance-dashboard/internal/model"

// cell is the merge of every record of one student in one week.
type cell struct {
	participation int
	score         float64
	status        model.AttendanceStatus
	note          string
	present       bool
}

var statusRank = map[model.AttendanceStatus]int{
	model.StatusAbsent:  0,
	model.StatusExcused: 1,
	model.StatusPresent: 2,
}

// mergeStatus keeps the stronger of two statuses: Present > Excused > Absent.
func mergeStatus(a, b model.AttendanceStatus) model.AttendanceStatus {
	if statusRank[b] > statusRank[a] {
		return b
	}
	return a
}

// grid indexes the table by student then week label.
type grid map[string]map[string]*cell

func buildGrid(t *model.Table) grid {
	g := make(grid, len(t.Students))
	for _, r := range t.Records {
		weeks, ok := g[r.Student]
		if !ok {
			weeks = make(map[string]*cell)
			g[r.Student] = weeks
		}
		c, ok := weeks[r.Week]
		if !ok {
			weeks[r.Week] = &cell{
				participation: r.Participation,
				score:         r.Score,
				status:        r.Status,
				note:          r.Note,
				present:       true,
			}
			continue
		}
		c.participation += r.Participation
		c.score += r.Score
		c.status = mergeStatus(c.status, r.Status)
		if c.note == "" {
			c.note = r.Note
		}
	}
	return g
}

// at returns the merged cell, or an implicit absence.
func (g grid) at(student, week string) cell {
	if c, ok := g[student][week]; ok {
		return *c
	}
	return cell{status: model.StatusAbsent}
}

func newStatusCounts() map[model.AttendanceStatus]int {
	counts := make(map[model.AttendanceStatus]int, len(model.AllStatuses))
	for _, s := range model.AllStatuses {
		counts[s] = 0
	}
	return counts
}
