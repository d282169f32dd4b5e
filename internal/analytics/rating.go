package analytics

import "math"

const (
	bonusPerExtraSpeak = 2
	maxBonus           = 10
)

// Rating scores participation fairness out of 100: full credit for each week
// the student spoke at least once, plus 2 points per extra contribution
// capped at 10, with the total capped at 100 and rounded to one decimal.
func Rating(spokeWeeks, totalParticipation, weeksTotal int) float64 {
	if weeksTotal <= 0 {
		return 0
	}
	base := float64(spokeWeeks) / float64(weeksTotal) * 100
	bonus := (totalParticipation - spokeWeeks) * bonusPerExtraSpeak
	if bonus < 0 {
		bonus = 0
	}
	if bonus > maxBonus {
		bonus = maxBonus
	}
	return round1(math.Min(base+float64(bonus), 100))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
