package scoring

import (
	"math"

	"github.com/kurosh87/optimalflight/internal/circadian"
	"github.com/kurosh87/optimalflight/internal/models"
)

// Recovery rate in days per timezone hour. The body clock re-entrains
// faster when delaying (westbound) than when advancing (eastbound).
const (
	recoveryRateEastbound = 0.9
	recoveryRateWestbound = 0.6
	recoveryRateNeutral   = 0.25
)

// estimateRecoveryDays converts the shift magnitude to an expected number
// of days until the body clock is realigned. Monotone non-decreasing in
// shift magnitude for any fixed direction and user profile, and strictly
// worse eastbound than westbound at equal magnitude.
func estimateRecoveryDays(cc circadian.Context, user *models.UserProfile) float64 {
	var rate float64
	switch cc.Direction {
	case circadian.Eastbound:
		rate = recoveryRateEastbound
	case circadian.Westbound:
		rate = recoveryRateWestbound
	default:
		rate = recoveryRateNeutral
	}

	days := cc.ShiftHours * rate * userRecoveryFactor(user)
	return math.Round(days*10) / 10
}

// userRecoveryFactor scales recovery by sleep quality and adaptability.
// Both run 1-5 with 3 neutral; better values shrink the estimate. The
// factor is independent of shift magnitude so monotonicity holds.
func userRecoveryFactor(user *models.UserProfile) float64 {
	if user == nil {
		return 1
	}
	factor := 1.0
	if user.AdaptabilityLevel >= 1 && user.AdaptabilityLevel <= 5 {
		factor -= 0.05 * float64(user.AdaptabilityLevel-3)
	}
	if user.SleepQuality >= 1 && user.SleepQuality <= 5 {
		factor -= 0.05 * float64(user.SleepQuality-3)
	}
	if factor < 0.6 {
		factor = 0.6
	}
	if factor > 1.4 {
		factor = 1.4
	}
	return factor
}

// directionAdjustment nudges direction-sensitive sub-scores for adaptable
// travelers. It never touches the fixed weights.
func directionAdjustment(cc circadian.Context, user *models.UserProfile) float64 {
	if user == nil || cc.Direction == circadian.Neutral {
		return 0
	}
	adj := 0.0
	if user.AdaptabilityLevel >= 1 && user.AdaptabilityLevel <= 5 {
		adj += 2 * float64(user.AdaptabilityLevel-3)
	}
	if user.SleepQuality >= 1 && user.SleepQuality <= 5 {
		adj += float64(user.SleepQuality - 3)
	}
	return adj
}
