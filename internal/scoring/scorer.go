// Package scoring computes the multi-dimensional jetlag assessment for a
// canonical itinerary. Score is a pure function of its inputs: every
// profile and context value is resolved by the caller beforehand.
package scoring

import (
	"math"
	"time"

	"github.com/kurosh87/optimalflight/internal/circadian"
	"github.com/kurosh87/optimalflight/internal/models"
)

// Score combines itinerary shape, circadian context, and enrichment
// profiles into the weighted overall jetlag score, a recommendation tier,
// a recovery estimate, and explanatory insights. A missing profile never
// fails the call; the affected sub-components score neutrally.
func Score(it models.Itinerary, cc circadian.Context, profiles models.ItineraryProfiles, user *models.UserProfile) models.ScoreResult {
	adj := directionAdjustment(cc, user)

	destTZ := circadian.LocationForAirport(it.Last().Destination)
	if tz := it.Last().DestinationTimezone; tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			destTZ = loc
		}
	}

	hardness := directionHardness(cc.Direction)
	circadianFactors := []models.Factor{
		factor(DimCircadian, CircadianWeights[0], clamp(departureTiming(cc)*hardness+adj)),
		factor(DimCircadian, CircadianWeights[1], clamp(arrivalTiming(cc)*hardness+adj)),
		factor(DimCircadian, CircadianWeights[2], clamp(lightExposure(cc, it.Duration)*hardness)),
		factor(DimCircadian, CircadianWeights[3], clamp(sleepAlignment(cc, it.Duration, it.Last().ArrivalLocal, destTZ)*hardness)),
		factor(DimCircadian, CircadianWeights[4], carrierLighting(profiles)),
		factor(DimCircadian, CircadianWeights[5], preAdaptation(profiles)),
	}

	strategyFactors := []models.Factor{
		factor(DimStrategy, StrategyWeights[0], routingLogic(it, cc)),
		factor(DimStrategy, StrategyWeights[1], layoverQuality(it)),
		factor(DimStrategy, StrategyWeights[2], recoveryFacilities(it, profiles)),
		factor(DimStrategy, StrategyWeights[3], connectionTiming(it)),
	}

	comfortFactors := []models.Factor{
		factor(DimComfort, ComfortWeights[0], aircraftQuality(profiles)),
		factor(DimComfort, ComfortWeights[1], serviceQuality(profiles)),
		factor(DimComfort, ComfortWeights[2], cabinPressure(profiles)),
		factor(DimComfort, ComfortWeights[3], cabinClassScore(it.CabinClass)),
		factor(DimComfort, ComfortWeights[4], cabinHumidity(profiles)),
		factor(DimComfort, ComfortWeights[5], nextGenBonus(profiles)),
	}

	efficiencyFactors := []models.Factor{
		factor(DimEfficiency, EfficiencyWeights[0], totalDuration(it.Duration)),
		factor(DimEfficiency, EfficiencyWeights[1], connectionStress(it)),
		factor(DimEfficiency, EfficiencyWeights[2], airportCongestion(profiles)),
	}

	dims := models.DimensionScores{
		Circadian:  weightedSum(circadianFactors),
		Strategy:   weightedSum(strategyFactors),
		Comfort:    weightedSum(comfortFactors),
		Efficiency: weightedSum(efficiencyFactors),
	}

	overall := round1(dims.Circadian*WeightCircadian +
		dims.Strategy*WeightStrategy +
		dims.Comfort*WeightComfort +
		dims.Efficiency*WeightEfficiency)

	allFactors := make([]models.Factor, 0,
		len(circadianFactors)+len(strategyFactors)+len(comfortFactors)+len(efficiencyFactors))
	allFactors = append(allFactors, circadianFactors...)
	allFactors = append(allFactors, strategyFactors...)
	allFactors = append(allFactors, comfortFactors...)
	allFactors = append(allFactors, efficiencyFactors...)

	strengths, weaknesses := buildInsights(allFactors)

	return models.ScoreResult{
		Overall:      overall,
		Dimensions:   dims,
		Tier:         models.TierForScore(overall),
		RecoveryDays: estimateRecoveryDays(cc, user),
		Strengths:    strengths,
		Weaknesses:   weaknesses,
		Tips:         buildTips(it, cc, profiles),
		Personas:     matchPersonas(overall),
		Factors:      allFactors,
	}
}

func factor(dimension string, sw SubWeight, score float64) models.Factor {
	return models.Factor{
		Dimension: dimension,
		Name:      sw.Name,
		Score:     round1(score),
		Weight:    sw.Weight,
	}
}

func weightedSum(factors []models.Factor) float64 {
	total := 0.0
	for _, f := range factors {
		total += f.Score * f.Weight
	}
	return round1(total)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
