package models

// Tier is the coarse recommendation label derived from the overall score.
type Tier string

const (
	TierOptimal     Tier = "Optimal"
	TierExcellent   Tier = "Excellent"
	TierGood        Tier = "Good"
	TierChallenging Tier = "Challenging"
)

// TierForScore maps an overall score to its recommendation tier.
func TierForScore(overall float64) Tier {
	switch {
	case overall >= 80:
		return TierOptimal
	case overall >= 65:
		return TierExcellent
	case overall >= 50:
		return TierGood
	default:
		return TierChallenging
	}
}

// Factor is one scored sub-component, kept so callers can explain which
// parts of an itinerary helped or hurt.
type Factor struct {
	Dimension string  `json:"dimension"`
	Name      string  `json:"name"`
	Score     float64 `json:"score"`  // 0-100
	Weight    float64 `json:"weight"` // weight within its dimension
}

// DimensionScores are the four top-level jetlag dimensions, each 0-100.
type DimensionScores struct {
	Circadian  float64 `json:"circadian"`
	Strategy   float64 `json:"strategy"`
	Comfort    float64 `json:"comfort"`
	Efficiency float64 `json:"efficiency"`
}

// ScoreResult is the full jetlag assessment for one itinerary.
type ScoreResult struct {
	Overall      float64         `json:"overall"`
	Dimensions   DimensionScores `json:"dimensions"`
	Tier         Tier            `json:"tier"`
	RecoveryDays float64         `json:"recovery_days"`
	Strengths    []string        `json:"strengths,omitempty"`
	Weaknesses   []string        `json:"weaknesses,omitempty"`
	Tips         []string        `json:"tips,omitempty"`
	Personas     []string        `json:"personas,omitempty"`
	Factors      []Factor        `json:"factors,omitempty"`
}
