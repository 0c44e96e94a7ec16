package scene

import (
	"math"
)

const SpeedOfSound = 343.0

// ampFromDB converts a level in decibels to a linear amplitude factor.
func ampFromDB(db float64) float64 {
	return math.Pow(10, db/20)
}
