package scoring

import (
	"fmt"
	"sort"
	"time"

	"github.com/kurosh87/optimalflight/internal/circadian"
	"github.com/kurosh87/optimalflight/internal/models"
)

var factorLabels = map[string]string{
	"departure_timing":    "departure time",
	"arrival_timing":      "arrival time",
	"light_exposure":      "in-flight light exposure",
	"sleep_alignment":     "sleep opportunity on board",
	"carrier_lighting":    "cabin lighting protocol",
	"pre_adaptation":      "pre-trip adjustment potential",
	"routing_logic":       "routing",
	"layover_quality":     "layover length",
	"recovery_facilities": "airport recovery facilities",
	"connection_timing":   "connection slack",
	"aircraft_quality":    "aircraft type",
	"service_quality":     "airline service",
	"cabin_pressure":      "cabin pressure altitude",
	"cabin_class":         "cabin class",
	"cabin_humidity":      "cabin humidity",
	"next_gen_bonus":      "new-generation aircraft",
	"total_duration":      "total travel time",
	"connection_stress":   "connection stress",
	"airport_congestion":  "airport congestion",
}

const (
	strengthThreshold = 70.0
	weaknessThreshold = 48.0
	maxInsights       = 3
)

// buildInsights surfaces the strongest and weakest sub-components as
// human-readable strengths and weaknesses, ordered by weighted impact.
func buildInsights(factors []models.Factor) (strengths, weaknesses []string) {
	ranked := make([]models.Factor, len(factors))
	copy(ranked, factors)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	for _, f := range ranked {
		if len(strengths) >= maxInsights || f.Score < strengthThreshold {
			break
		}
		strengths = append(strengths, fmt.Sprintf("Favorable %s (%.0f/100)", label(f.Name), f.Score))
	}
	for i := len(ranked) - 1; i >= 0; i-- {
		f := ranked[i]
		if len(weaknesses) >= maxInsights || f.Score > weaknessThreshold {
			break
		}
		weaknesses = append(weaknesses, fmt.Sprintf("Poor %s (%.0f/100)", label(f.Name), f.Score))
	}
	return strengths, weaknesses
}

func label(name string) string {
	if l, ok := factorLabels[name]; ok {
		return l
	}
	return name
}

// buildTips produces actionable advice from the circadian context and
// route enrichment.
func buildTips(it models.Itinerary, cc circadian.Context, profiles models.ItineraryProfiles) []string {
	var tips []string

	switch cc.Direction {
	case circadian.Eastbound:
		tips = append(tips,
			"Shift bedtime earlier in the days before departure",
			"Seek bright morning light at the destination and avoid evening light")
	case circadian.Westbound:
		tips = append(tips,
			"Stay up until a normal local bedtime after arrival",
			"Get afternoon and evening light at the destination")
	default:
		tips = append(tips, "Keep your usual sleep schedule; the time change is minor")
	}

	if profiles.Route != nil && profiles.Route.PreAdjustmentDays > 0 {
		tips = append(tips, fmt.Sprintf(
			"Start adjusting your sleep schedule %d day(s) before this trip",
			profiles.Route.PreAdjustmentDays))
	}
	if it.Duration >= 8*time.Hour {
		tips = append(tips, "Hydrate aggressively and skip alcohol on this long flight")
	}
	for _, l := range it.Layovers {
		if l.Duration < 45*time.Minute {
			tips = append(tips, fmt.Sprintf("The %s connection is tight; carry on luggage only", l.Airport))
			break
		}
	}
	return tips
}

// Traveler personas matched when the overall score clears their threshold.
var personaThresholds = []struct {
	Name      string
	Threshold float64
}{
	{"Wellness-Focused Travelers", 80},
	{"Business Travelers", 70},
	{"Frequent Flyers", 60},
	{"Leisure Travelers", 50},
}

func matchPersonas(overall float64) []string {
	var matched []string
	for _, p := range personaThresholds {
		if overall > p.Threshold {
			matched = append(matched, p.Name)
		}
	}
	return matched
}
