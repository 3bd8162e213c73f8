package utils

import (
	"math"
)

// RoundHalfUp rounds price*rate to the nearest integer currency unit, halves
// away from zero. Documented choice: half-up keeps the conservation invariant
// commission+partner == price exact for every integer price.
func RoundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}

// SplitCommission computes the commission split for a partner ticket.
func SplitCommission(price int64, rate float64) (commission int64, partner int64) {
	commission = RoundHalfUp(float64(price) * rate)
	partner = price - commission
	return commission, partner
}

const pointsPerLevel = 100

// CheckInPoints is the gamification award for one student check-in.
const CheckInPoints = 10

// LevelForPoints maps a running points total to a level, one level per
// hundred points, starting at level 1.
func LevelForPoints(total int) int {
	if total < 0 {
		total = 0
	}
	return total/pointsPerLevel + 1
}
