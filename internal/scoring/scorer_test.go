package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurosh87/optimalflight/internal/circadian"
	"github.com/kurosh87/optimalflight/internal/models"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

// JFK 19:30 local to LHR 07:30 next morning, seven hours in the air.
func eastboundOvernight(t *testing.T) models.Itinerary {
	t.Helper()
	nyc := mustLoc(t, "America/New_York")
	lon := mustLoc(t, "Europe/London")

	it := models.Itinerary{
		ID:       "jfk-lhr-1",
		Provider: "test",
		Segments: []models.Segment{{
			Airline:             "BA",
			FlightNumber:        "112",
			Aircraft:            "B789",
			Origin:              "JFK",
			Destination:         "LHR",
			DepartureLocal:      time.Date(2025, 6, 10, 19, 30, 0, 0, nyc),
			ArrivalLocal:        time.Date(2025, 6, 11, 7, 30, 0, 0, lon),
			OriginTimezone:      "America/New_York",
			DestinationTimezone: "Europe/London",
		}},
		Duration: 7 * time.Hour,
		Price:    640,
		Currency: "USD",
	}
	return it
}

// LHR 11:00 local to JFK 14:00 local, daytime westbound.
func westboundDaytime(t *testing.T) models.Itinerary {
	t.Helper()
	nyc := mustLoc(t, "America/New_York")
	lon := mustLoc(t, "Europe/London")

	return models.Itinerary{
		ID:       "lhr-jfk-1",
		Provider: "test",
		Segments: []models.Segment{{
			Airline:             "BA",
			FlightNumber:        "117",
			Aircraft:            "B789",
			Origin:              "LHR",
			Destination:         "JFK",
			DepartureLocal:      time.Date(2025, 6, 10, 11, 0, 0, 0, lon),
			ArrivalLocal:        time.Date(2025, 6, 10, 14, 0, 0, 0, nyc),
			OriginTimezone:      "Europe/London",
			DestinationTimezone: "America/New_York",
		}},
		Duration: 8 * time.Hour,
		Price:    610,
		Currency: "USD",
	}
}

func contextFor(t *testing.T, it models.Itinerary) circadian.Context {
	t.Helper()
	cc, err := circadian.ForItinerary(it)
	require.NoError(t, err)
	return cc
}

func TestDimensionWeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, WeightCircadian+WeightStrategy+WeightComfort+WeightEfficiency, 1e-9)

	for name, weights := range map[string][]SubWeight{
		"circadian":  CircadianWeights,
		"strategy":   StrategyWeights,
		"comfort":    ComfortWeights,
		"efficiency": EfficiencyWeights,
	} {
		sum := 0.0
		for _, sw := range weights {
			sum += sw.Weight
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "sub-weights of %s", name)
	}
}

func TestScoreBoundsAndWeightedOverall(t *testing.T) {
	it := eastboundOvernight(t)
	res := Score(it, contextFor(t, it), models.ItineraryProfiles{}, nil)

	for name, score := range map[string]float64{
		"circadian":  res.Dimensions.Circadian,
		"strategy":   res.Dimensions.Strategy,
		"comfort":    res.Dimensions.Comfort,
		"efficiency": res.Dimensions.Efficiency,
		"overall":    res.Overall,
	} {
		assert.GreaterOrEqual(t, score, 0.0, name)
		assert.LessOrEqual(t, score, 100.0, name)
	}

	expected := res.Dimensions.Circadian*WeightCircadian +
		res.Dimensions.Strategy*WeightStrategy +
		res.Dimensions.Comfort*WeightComfort +
		res.Dimensions.Efficiency*WeightEfficiency
	assert.InDelta(t, expected, res.Overall, 0.11) // overall is rounded to one decimal

	for _, f := range res.Factors {
		assert.GreaterOrEqual(t, f.Score, 0.0, f.Name)
		assert.LessOrEqual(t, f.Score, 100.0, f.Name)
	}
}

func TestScoreDeterministic(t *testing.T) {
	it := eastboundOvernight(t)
	cc := contextFor(t, it)
	profiles := models.ItineraryProfiles{
		Segments: []models.SegmentProfiles{{
			Airline: &models.AirlineProfile{Code: "BA", Active: true, ServiceQuality: 4, Reliability: 4},
		}},
	}

	first := Score(it, cc, profiles, nil)
	second := Score(it, cc, profiles, nil)
	assert.Equal(t, first, second)
}

func TestScoreAbsentProfilesSafe(t *testing.T) {
	it := eastboundOvernight(t)
	it.Segments[0].Aircraft = "ZZZZ"
	it.Segments[0].Airline = "ZZ"

	res := Score(it, contextFor(t, it), models.ItineraryProfiles{Segments: []models.SegmentProfiles{{}}}, nil)

	assert.NotZero(t, res.Overall)
	assert.NotEmpty(t, res.Tier)
	assert.Greater(t, res.RecoveryDays, 0.0)

	// Profile-backed sub-components fall back to the neutral mid-range.
	for _, name := range []string{"aircraft_quality", "service_quality", "carrier_lighting", "pre_adaptation"} {
		f := findFactor(t, res.Factors, name)
		assert.InDelta(t, neutralScore, f.Score, 0.01, name)
	}
}

func findFactor(t *testing.T, factors []models.Factor, name string) models.Factor {
	t.Helper()
	for _, f := range factors {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("factor %s not found", name)
	return models.Factor{}
}

func TestRecoveryMonotonicInShift(t *testing.T) {
	prev := 0.0
	for shift := 2.5; shift <= 12; shift += 0.5 {
		cc := circadian.Context{ShiftHours: shift, Direction: circadian.Eastbound}
		days := estimateRecoveryDays(cc, nil)
		assert.GreaterOrEqual(t, days, prev, "shift %.1f", shift)
		prev = days
	}
}

func TestRecoveryDirectionAsymmetry(t *testing.T) {
	for shift := 3.0; shift <= 11; shift++ {
		east := estimateRecoveryDays(circadian.Context{ShiftHours: shift, Direction: circadian.Eastbound}, nil)
		west := estimateRecoveryDays(circadian.Context{ShiftHours: shift, Direction: circadian.Westbound}, nil)
		assert.GreaterOrEqual(t, east, west, "shift %.0f", shift)
	}
}

func TestRecoveryImprovedByUserProfile(t *testing.T) {
	cc := circadian.Context{ShiftHours: 7, Direction: circadian.Eastbound}

	base := estimateRecoveryDays(cc, nil)
	resilient := estimateRecoveryDays(cc, &models.UserProfile{SleepQuality: 5, AdaptabilityLevel: 5})
	fragile := estimateRecoveryDays(cc, &models.UserProfile{SleepQuality: 1, AdaptabilityLevel: 1})

	assert.Less(t, resilient, base)
	assert.Greater(t, fragile, base)
}

func TestTierThresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  models.Tier
	}{
		{92, models.TierOptimal},
		{80, models.TierOptimal},
		{79.9, models.TierExcellent},
		{65, models.TierExcellent},
		{64.9, models.TierGood},
		{50, models.TierGood},
		{49.9, models.TierChallenging},
		{10, models.TierChallenging},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, models.TierForScore(tc.score), "score %.1f", tc.score)
	}
}

// Scenario A/B: the same transatlantic route in both directions. The
// westbound daytime flight should carry the better circadian score and
// the shorter recovery.
func TestTransatlanticDirectionScenarios(t *testing.T) {
	east := eastboundOvernight(t)
	west := westboundDaytime(t)

	ccEast := contextFor(t, east)
	ccWest := contextFor(t, west)
	require.Equal(t, circadian.Eastbound, ccEast.Direction)
	require.Equal(t, circadian.Westbound, ccWest.Direction)
	require.InDelta(t, ccEast.ShiftHours, ccWest.ShiftHours, 0.01)

	resEast := Score(east, ccEast, models.ItineraryProfiles{}, nil)
	resWest := Score(west, ccWest, models.ItineraryProfiles{}, nil)

	assert.Greater(t, resWest.Dimensions.Circadian, resEast.Dimensions.Circadian)
	assert.Greater(t, resEast.RecoveryDays, resWest.RecoveryDays)
}

// Scenario C: a 40 minute connection is penalized against a comfortable
// 2 hour one at the same airport.
func TestShortLayoverPenalized(t *testing.T) {
	build := func(gap time.Duration) models.Itinerary {
		nyc := mustLoc(t, "America/New_York")
		chi := mustLoc(t, "America/Chicago")
		lax := mustLoc(t, "America/Los_Angeles")

		firstArr := time.Date(2025, 6, 10, 11, 0, 0, 0, chi)
		it := models.Itinerary{
			ID:       "two-leg",
			Provider: "test",
			Segments: []models.Segment{
				{
					Airline: "AA", Origin: "JFK", Destination: "ORD",
					DepartureLocal: time.Date(2025, 6, 10, 9, 0, 0, 0, nyc),
					ArrivalLocal:   firstArr,
				},
				{
					Airline: "AA", Origin: "ORD", Destination: "LAX",
					DepartureLocal: firstArr.Add(gap),
					ArrivalLocal:   firstArr.Add(gap + 4*time.Hour).In(lax),
				},
			},
			Stops: 1,
		}
		it.DeriveLayovers()
		it.Duration = it.Last().ArrivalLocal.Sub(it.First().DepartureLocal)
		return it
	}

	tight := build(40 * time.Minute)
	relaxed := build(2 * time.Hour)

	resTight := Score(tight, contextFor(t, tight), models.ItineraryProfiles{}, nil)
	resRelaxed := Score(relaxed, contextFor(t, relaxed), models.ItineraryProfiles{}, nil)

	tightTiming := findFactor(t, resTight.Factors, "connection_timing")
	relaxedTiming := findFactor(t, resRelaxed.Factors, "connection_timing")
	assert.Less(t, tightTiming.Score, relaxedTiming.Score)
	assert.Less(t, resTight.Dimensions.Strategy, resRelaxed.Dimensions.Strategy)
}

// Scenario D: nothing resolvable still scores cleanly.
func TestUnknownCodesScoreWithNeutralDefaults(t *testing.T) {
	it := eastboundOvernight(t)
	it.Segments[0].Aircraft = "Q999"
	it.Segments[0].Airline = "XX"

	require.NotPanics(t, func() {
		res := Score(it, contextFor(t, it), models.ItineraryProfiles{Segments: []models.SegmentProfiles{{}}}, nil)
		assert.Greater(t, res.Overall, 0.0)
		assert.InDelta(t, neutralScore, findFactor(t, res.Factors, "aircraft_quality").Score, 0.01)
		assert.InDelta(t, neutralScore, findFactor(t, res.Factors, "service_quality").Score, 0.01)
	})
}

func TestPersonaMatching(t *testing.T) {
	assert.Contains(t, matchPersonas(85), "Wellness-Focused Travelers")
	assert.Contains(t, matchPersonas(75), "Business Travelers")
	assert.NotContains(t, matchPersonas(75), "Wellness-Focused Travelers")
	assert.Contains(t, matchPersonas(61), "Frequent Flyers")
	assert.Empty(t, matchPersonas(45))
}

func TestInsightsSurfaceExtremes(t *testing.T) {
	factors := []models.Factor{
		{Dimension: DimCircadian, Name: "arrival_timing", Score: 95, Weight: 0.28},
		{Dimension: DimStrategy, Name: "connection_timing", Score: 15, Weight: 0.10},
		{Dimension: DimComfort, Name: "aircraft_quality", Score: 60, Weight: 0.35},
	}
	strengths, weaknesses := buildInsights(factors)

	require.Len(t, strengths, 1)
	assert.Contains(t, strengths[0], "arrival time")
	require.Len(t, weaknesses, 1)
	assert.Contains(t, weaknesses[0], "connection slack")
}

func TestNextGenAircraftImprovesComfort(t *testing.T) {
	it := eastboundOvernight(t)
	cc := contextFor(t, it)

	nextGen := models.ItineraryProfiles{Segments: []models.SegmentProfiles{{
		Aircraft: &models.AircraftProfile{Code: "B789", Generation: models.GenerationNextGen, JetlagScore: 90},
	}}}
	old := models.ItineraryProfiles{Segments: []models.SegmentProfiles{{
		Aircraft: &models.AircraftProfile{Code: "B744", Generation: models.GenerationOld, JetlagScore: 35},
	}}}

	resNew := Score(it, cc, nextGen, nil)
	resOld := Score(it, cc, old, nil)
	assert.Greater(t, resNew.Dimensions.Comfort, resOld.Dimensions.Comfort)
}
