package scoring

import (
	"time"

	"github.com/kurosh87/optimalflight/internal/circadian"
	"github.com/kurosh87/optimalflight/internal/models"
)

// routingLogic weighs the direct-versus-connection tradeoff. Direct wins
// except on ultra-long-haul, where a well-placed stop can break the
// journey for very large shifts.
func routingLogic(it models.Itinerary, cc circadian.Context) float64 {
	switch it.Stops {
	case 0:
		if it.Duration >= 15*time.Hour {
			return 74
		}
		return 90
	case 1:
		if cc.ShiftHours >= 9 {
			return 66
		}
		return 58
	default:
		return 40
	}
}

// layoverQuality scores each gap: 90 minutes to 3 hours is the sweet
// spot; sprints and marathons both hurt.
func layoverQuality(it models.Itinerary) float64 {
	if len(it.Layovers) == 0 {
		return 85
	}
	total := 0.0
	for _, l := range it.Layovers {
		total += singleLayoverScore(l.Duration)
	}
	return total / float64(len(it.Layovers))
}

func singleLayoverScore(d time.Duration) float64 {
	switch {
	case d < 45*time.Minute:
		return 25
	case d < 90*time.Minute:
		return 55
	case d <= 3*time.Hour:
		return 90
	case d <= 6*time.Hour:
		return 68
	default:
		return 45
	}
}

// recoveryFacilities scores the layover airports' rest amenities. Absent
// profiles contribute the neutral value.
func recoveryFacilities(it models.Itinerary, profiles models.ItineraryProfiles) float64 {
	if len(it.Layovers) == 0 {
		return 60
	}

	// Layover airport i is the destination of segment i.
	total := 0.0
	for i := range it.Layovers {
		var p *models.AirportProfile
		if i < len(profiles.Segments) {
			p = profiles.Segments[i].DestinationAirport
		}
		if p == nil {
			total += neutralScore
			continue
		}
		s := 45.0
		if p.HasSleepPods {
			s += 18
		}
		if p.HasShowers {
			s += 12
		}
		if p.HasQuietZones {
			s += 12
		}
		s -= p.StressLevel * 2
		total += clamp(s)
	}
	return total / float64(len(it.Layovers))
}

// connectionTiming penalizes tight slack on the shortest connection.
func connectionTiming(it models.Itinerary) float64 {
	if len(it.Layovers) == 0 {
		return 90
	}
	shortest := it.Layovers[0].Duration
	for _, l := range it.Layovers[1:] {
		if l.Duration < shortest {
			shortest = l.Duration
		}
	}
	switch {
	case shortest < 45*time.Minute:
		return 15
	case shortest < time.Hour:
		return 40
	case shortest < 90*time.Minute:
		return 65
	default:
		return 90
	}
}
