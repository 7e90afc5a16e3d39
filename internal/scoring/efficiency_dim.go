package scoring

import (
	"time"

	"github.com/kurosh87/optimalflight/internal/models"
)

// totalDuration scores door-to-door time. Anything under six hours is
// near-optimal; the score decays toward long-haul territory.
func totalDuration(duration time.Duration) float64 {
	hours := duration.Hours()
	if hours <= 6 {
		return 92
	}
	return clamp(92 - (hours-6)*3.5)
}

// connectionStress compounds stop count with tight-connection anxiety.
func connectionStress(it models.Itinerary) float64 {
	var score float64
	switch it.Stops {
	case 0:
		return 90
	case 1:
		score = 62
	case 2:
		score = 42
	default:
		score = 25
	}
	for _, l := range it.Layovers {
		if l.Duration < 45*time.Minute {
			score -= 12
			break
		}
	}
	return clamp(score)
}

// airportCongestion averages the congestion and stress metrics over every
// airport the itinerary touches. Unknown airports contribute neutrally.
func airportCongestion(profiles models.ItineraryProfiles) float64 {
	total, n := 0.0, 0
	for _, sp := range profiles.Segments {
		for _, p := range []*models.AirportProfile{sp.OriginAirport, sp.DestinationAirport} {
			if p == nil {
				total += neutralScore
			} else {
				total += clamp(92 - p.CongestionRate*60 - p.StressLevel*3)
			}
			n++
		}
	}
	if n == 0 {
		return neutralScore
	}
	return total / float64(n)
}
