package scoring

// Dimension names used in factor breakdowns.
const (
	DimCircadian  = "circadian"
	DimStrategy   = "strategy"
	DimComfort    = "comfort"
	DimEfficiency = "efficiency"
)

// Top-level dimension weights. They must sum to 1.0.
const (
	WeightCircadian  = 0.45
	WeightStrategy   = 0.25
	WeightComfort    = 0.20
	WeightEfficiency = 0.10
)

// SubWeight pairs a sub-component name with its weight inside a dimension.
// Each dimension's sub-weights must sum to 1.0.
type SubWeight struct {
	Name   string
	Weight float64
}

var CircadianWeights = []SubWeight{
	{"departure_timing", 0.28},
	{"arrival_timing", 0.28},
	{"light_exposure", 0.16},
	{"sleep_alignment", 0.16},
	{"carrier_lighting", 0.08},
	{"pre_adaptation", 0.04},
}

var StrategyWeights = []SubWeight{
	{"routing_logic", 0.30},
	{"layover_quality", 0.30},
	{"recovery_facilities", 0.30},
	{"connection_timing", 0.10},
}

var ComfortWeights = []SubWeight{
	{"aircraft_quality", 0.35},
	{"service_quality", 0.30},
	{"cabin_pressure", 0.15},
	{"cabin_class", 0.10},
	{"cabin_humidity", 0.05},
	{"next_gen_bonus", 0.05},
}

var EfficiencyWeights = []SubWeight{
	{"total_duration", 0.40},
	{"connection_stress", 0.35},
	{"airport_congestion", 0.25},
}

// neutralScore is substituted whenever the enrichment profile a
// sub-component needs is absent.
const neutralScore = 50.0

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
