package model

// LeaderboardMetric selects the ranking key of the leaderboard.
type LeaderboardMetric string

const (
	MetricScore         LeaderboardMetric = "score"
	MetricParticipation LeaderboardMetric = "participation"
	MetricRating        LeaderboardMetric = "rating"
)

// StudentSummary is the per-student aggregate shown on the leaderboard.
type StudentSummary struct {
	Rank               int                `json:"rank"`
	Student            string             `json:"student"`
	TotalParticipation int                `json:"total_participation"`
	TotalScore         float64            `json:"total_score"`
	AverageScore       float64            `json:"average_score"`
	WeeksSpoken        int                `json:"weeks_spoken"`
	WeeksTotal         int                `json:"weeks_total"`
	Rating             float64            `json:"rating"`
	Statuses           []AttendanceStatus `json:"statuses"`
}

// Leaderboard is the ranked view across all enrolled students.
type Leaderboard struct {
	Metric             LeaderboardMetric `json:"metric"`
	Entries            []StudentSummary  `json:"entries"`
	TotalParticipation int               `json:"total_participation"`
	TotalScore         float64           `json:"total_score"`
}

// TrendPoint is one week on a student's timeline.
type TrendPoint struct {
	Week          string           `json:"week"`
	WeekNumber    int              `json:"week_number"`
	Date          string           `json:"date,omitempty"`
	Topic         string           `json:"topic,omitempty"`
	Participation int              `json:"participation"`
	Score         float64          `json:"score"`
	Status        AttendanceStatus `json:"status"`
	Note          string           `json:"note,omitempty"`
	// Implicit marks a week with no record for the student.
	Implicit bool `json:"implicit"`
}

// StudentDetail is the By Student view.
type StudentDetail struct {
	Student          string                   `json:"student"`
	Enrolled         bool                     `json:"enrolled"`
	Records          []AttendanceRecord       `json:"records"`
	Trend            []TrendPoint             `json:"trend"`
	Summary          StudentSummary           `json:"summary"`
	AveragePerWeek   float64                  `json:"average_per_week"`
	AttendanceCounts map[AttendanceStatus]int `json:"attendance_counts"`
	AbsentTags       []string                 `json:"absent_tags"`
	ExcusedTags      []string                 `json:"excused_tags"`
}

// WeekEntry is one student's line in a week view.
type WeekEntry struct {
	Student       string           `json:"student"`
	Participation int              `json:"participation"`
	Score         float64          `json:"score"`
	Status        AttendanceStatus `json:"status"`
	Implicit      bool             `json:"implicit"`
}

// WeekSummary is the By Week view.
type WeekSummary struct {
	Week             WeekInfo                 `json:"week"`
	Found            bool                     `json:"found"`
	ParticipantsOnly bool                     `json:"participants_only"`
	Entries          []WeekEntry              `json:"entries"`
	AttendanceCounts map[AttendanceStatus]int `json:"attendance_counts"`
}

// WeekAverage is the mean participation of the class in one week.
type WeekAverage struct {
	Week    string  `json:"week"`
	Average float64 `json:"average"`
}

// Overview is the class-wide landing view.
type Overview struct {
	Students           int                      `json:"students"`
	Weeks              int                      `json:"weeks"`
	Records            int                      `json:"records"`
	TotalParticipation int                      `json:"total_participation"`
	TotalScore         float64                  `json:"total_score"`
	WeeklyAverages     []WeekAverage            `json:"weekly_averages"`
	AttendanceCounts   map[AttendanceStatus]int `json:"attendance_counts"`
}
