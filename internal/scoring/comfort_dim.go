package scoring

import (
	"strings"

	"github.com/kurosh87/optimalflight/internal/models"
)

// aircraftQuality averages the per-segment jetlag contribution derived
// from each airframe's generation class.
func aircraftQuality(profiles models.ItineraryProfiles) float64 {
	total, n := 0.0, 0
	for _, sp := range profiles.Segments {
		if sp.Aircraft == nil {
			continue
		}
		total += sp.Aircraft.JetlagScore
		n++
	}
	if n == 0 {
		return neutralScore
	}
	return total / float64(n)
}

// serviceQuality blends the carrier's service and reliability ratings.
func serviceQuality(profiles models.ItineraryProfiles) float64 {
	total, n := 0.0, 0
	for _, sp := range profiles.Segments {
		if sp.Airline == nil {
			continue
		}
		s := sp.Airline.ServiceQuality*0.7 + sp.Airline.Reliability*0.3
		total += clamp(s * 20)
		n++
	}
	if n == 0 {
		return neutralScore
	}
	return total / float64(n)
}

// Cabin environment by generation: newer airframes hold a lower cabin
// pressure altitude and higher humidity.
var pressureByGeneration = map[models.AircraftGeneration]float64{
	models.GenerationNextGen:  92,
	models.GenerationModern:   70,
	models.GenerationLegacy:   55,
	models.GenerationOld:      40,
	models.GenerationExcluded: 35,
}

var humidityByGeneration = map[models.AircraftGeneration]float64{
	models.GenerationNextGen:  90,
	models.GenerationModern:   62,
	models.GenerationLegacy:   48,
	models.GenerationOld:      40,
	models.GenerationExcluded: 35,
}

func cabinPressure(profiles models.ItineraryProfiles) float64 {
	return generationAverage(profiles, pressureByGeneration)
}

func cabinHumidity(profiles models.ItineraryProfiles) float64 {
	return generationAverage(profiles, humidityByGeneration)
}

func generationAverage(profiles models.ItineraryProfiles, table map[models.AircraftGeneration]float64) float64 {
	total, n := 0.0, 0
	for _, sp := range profiles.Segments {
		if sp.Aircraft == nil {
			continue
		}
		if s, ok := table[sp.Aircraft.Generation]; ok {
			total += s
			n++
		}
	}
	if n == 0 {
		return neutralScore
	}
	return total / float64(n)
}

func cabinClassScore(cabinClass string) float64 {
	switch strings.ToLower(cabinClass) {
	case "first":
		return 95
	case "business":
		return 85
	case "premium_economy", "premium economy":
		return 65
	case "economy", "":
		return 50
	default:
		return 50
	}
}

// nextGenBonus rewards itineraries flown entirely on next-generation
// airframes.
func nextGenBonus(profiles models.ItineraryProfiles) float64 {
	seen, nextGen := 0, 0
	for _, sp := range profiles.Segments {
		if sp.Aircraft == nil {
			continue
		}
		seen++
		if sp.Aircraft.Generation == models.GenerationNextGen {
			nextGen++
		}
	}
	if seen == 0 {
		return neutralScore
	}
	if nextGen == seen {
		return 100
	}
	if nextGen > 0 {
		return 70
	}
	return 35
}
