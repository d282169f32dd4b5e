package model

// LeaderboardQuery is bound from ?metric=.
type LeaderboardQuery struct {
	Metric LeaderboardMetric `form:"metric" binding:"omitempty,oneof=score participation rating"`
}

// StudentQuery is bound from ?student=.
type StudentQuery struct {
	Student string `form:"student" binding:"required,max=200"`
}

// WeekQuery is bound from ?week=&participants_only=.
type WeekQuery struct {
	Week             string `form:"week" binding:"required,max=200"`
	ParticipantsOnly *bool  `form:"participants_only"`
}

// OnlyParticipants defaults the filter to true, matching the dashboard checkbox.
func (q WeekQuery) OnlyParticipants() bool {
	if q.ParticipantsOnly == nil {
		return true
	}
	return *q.ParticipantsOnly
}
