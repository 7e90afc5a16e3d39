package scoring

import (
	"time"

	"github.com/kurosh87/optimalflight/internal/circadian"
	"github.com/kurosh87/optimalflight/internal/models"
)

// Advancing the body clock is harder than delaying it, so every
// direction-sensitive circadian sub-score is discounted eastbound even at
// an otherwise ideal clock hour.
func directionHardness(d circadian.Direction) float64 {
	if d == circadian.Eastbound {
		return 0.82
	}
	return 1.0
}

// departureTiming favors local departure hours that set the body clock up
// for the computed travel direction. Eastbound adaptation benefits from a
// later departure; westbound from a morning or midday one.
func departureTiming(cc circadian.Context) float64 {
	h := cc.DepartureHour
	switch cc.Direction {
	case circadian.Eastbound:
		switch {
		case h >= 17 && h < 22:
			return 90
		case h >= 22 || h < 2:
			return 80
		case h >= 12 && h < 17:
			return 68
		case h >= 6 && h < 12:
			return 45
		default:
			return 35
		}
	case circadian.Westbound:
		switch {
		case h >= 8 && h < 12:
			return 90
		case h >= 12 && h < 16:
			return 80
		case h >= 16 && h < 20:
			return 60
		case h >= 5 && h < 8:
			return 55
		default:
			return 40
		}
	default:
		// Little shift to adapt to; timing barely matters.
		if h >= 7 && h < 20 {
			return 75
		}
		return 60
	}
}

// arrivalTiming scores the destination-local arrival hour. A morning
// arrival in the 06:00-10:00 window enables the fastest adaptation.
func arrivalTiming(cc circadian.Context) float64 {
	h := cc.ArrivalHour
	base := 40.0
	switch {
	case h >= 6 && h < 10:
		base = 95
	case h >= 10 && h < 14:
		base = 80
	case h >= 14 && h < 18:
		base = 68
	case h >= 18 && h < 22:
		base = 55
	}
	if cc.Direction == circadian.Westbound && h >= 14 && h < 18 {
		// A westbound afternoon arrival keeps the traveler awake until a
		// normal local bedtime.
		base = 78
	}
	return base
}

// lightExposure estimates how well the flight window supports a light
// management protocol for the travel direction.
func lightExposure(cc circadian.Context, duration time.Duration) float64 {
	longHaul := duration >= 8*time.Hour
	var score float64
	switch cc.Direction {
	case circadian.Eastbound:
		// Overnight flights let the traveler sleep in darkness and meet
		// morning light on arrival.
		if cc.DepartureHour >= 18 || cc.DepartureHour <= 1 {
			score = 82
		} else {
			score = 55
		}
	case circadian.Westbound:
		// Daytime flights keep light exposure late into the body's evening.
		if cc.DepartureHour >= 7 && cc.DepartureHour <= 15 {
			score = 82
		} else {
			score = 55
		}
	default:
		score = 65
	}
	if longHaul {
		score += 6
	}
	return clamp(score)
}

// sleepAlignment measures overlap between the in-flight window and the
// destination's night (22:00-06:00 destination local).
func sleepAlignment(cc circadian.Context, duration time.Duration, arrival time.Time, destTZ *time.Location) float64 {
	switch cc.Direction {
	case circadian.Neutral:
		return 62
	case circadian.Westbound:
		// Westbound the plan is to stay awake until local night, so
		// on-board sleep overlap matters little.
		return 70
	}

	arrDest := arrival.In(destTZ)
	depDest := arrDest.Add(-duration)

	overlap := nightOverlap(depDest, arrDest)
	frac := overlap.Hours() / 6
	if frac > 1 {
		frac = 1
	}
	return clamp(40 + frac*55)
}

// nightOverlap sums the time inside [22:00, 06:00) local across the window.
func nightOverlap(from, to time.Time) time.Duration {
	var total time.Duration
	// Step in 15 minute slices; flight windows are short enough that this
	// stays cheap and avoids midnight-wrap bookkeeping.
	for t := from; t.Before(to); t = t.Add(15 * time.Minute) {
		h := t.Hour()
		if h >= 22 || h < 6 {
			total += 15 * time.Minute
		}
	}
	return total
}

// carrierLighting rewards airlines that run circadian cabin-lighting
// protocols or a dedicated jetlag program.
func carrierLighting(profiles models.ItineraryProfiles) float64 {
	found := false
	score := 0.0
	for _, sp := range profiles.Segments {
		if sp.Airline == nil {
			continue
		}
		found = true
		s := 45.0
		if sp.Airline.CabinLightingTuned {
			s = 82
		}
		if sp.Airline.HasJetlagProgram {
			s += 10
		}
		score += clamp(s)
	}
	if !found {
		return neutralScore
	}
	return score / float64(countAirlines(profiles))
}

func countAirlines(profiles models.ItineraryProfiles) int {
	n := 0
	for _, sp := range profiles.Segments {
		if sp.Airline != nil {
			n++
		}
	}
	return n
}

// preAdaptation scores the route's pre-adjustment potential: routes with a
// curated pre-shift plan give prepared travelers a head start.
func preAdaptation(profiles models.ItineraryProfiles) float64 {
	if profiles.Route == nil {
		return neutralScore
	}
	days := profiles.Route.PreAdjustmentDays
	if days <= 0 {
		return 55
	}
	return clamp(55 + float64(days)*9)
}
