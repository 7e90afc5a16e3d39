package models

// AircraftGeneration is the curated age class of an airframe type.
type AircraftGeneration string

const (
	GenerationNextGen  AircraftGeneration = "next_gen"
	GenerationModern   AircraftGeneration = "modern"
	GenerationLegacy   AircraftGeneration = "legacy"
	GenerationOld      AircraftGeneration = "old"
	GenerationExcluded AircraftGeneration = "excluded"
)

// AircraftProfile describes how a given airframe type affects jetlag.
// JetlagScore is derived from Generation by the enrichment resolver.
type AircraftProfile struct {
	Code        string             `json:"code"`
	Name        string             `json:"name,omitempty"`
	Generation  AircraftGeneration `json:"generation"`
	JetlagScore float64            `json:"jetlag_score"`
}

// AirlineProfile describes carrier quality attributes. Only active
// carriers are served to the scorer; defunct records read as misses.
type AirlineProfile struct {
	Code               string  `json:"code"`
	Name               string  `json:"name,omitempty"`
	Active             bool    `json:"active"`
	ServiceQuality     float64 `json:"service_quality"` // 0-5
	Reliability        float64 `json:"reliability"`     // 0-5
	HasJetlagProgram   bool    `json:"has_jetlag_program"`
	CabinLightingTuned bool    `json:"cabin_lighting_tuned"`
}

// AirportProfile describes recovery facilities and stress at an airport.
type AirportProfile struct {
	Code           string  `json:"code"`
	Name           string  `json:"name,omitempty"`
	HasSleepPods   bool    `json:"has_sleep_pods"`
	HasShowers     bool    `json:"has_showers"`
	HasQuietZones  bool    `json:"has_quiet_zones"`
	StressLevel    float64 `json:"stress_level"`    // 0-10, higher is worse
	CongestionRate float64 `json:"congestion_rate"` // 0-1 share of delayed ops
}

// RouteProfile holds precomputed difficulty for an origin/destination pair.
type RouteProfile struct {
	Origin            string  `json:"origin"`
	Destination       string  `json:"destination"`
	Difficulty        float64 `json:"difficulty"` // 0-10
	PreAdjustmentDays int     `json:"pre_adjustment_days"`
	Direction         string  `json:"direction,omitempty"`
	TimezoneDelta     int     `json:"timezone_delta"`
}

// SegmentProfiles bundles the enrichment lookups for one segment. Every
// field is optional: a nil profile is a valid miss, never an error.
type SegmentProfiles struct {
	Aircraft           *AircraftProfile `json:"aircraft,omitempty"`
	Airline            *AirlineProfile  `json:"airline,omitempty"`
	OriginAirport      *AirportProfile  `json:"origin_airport,omitempty"`
	DestinationAirport *AirportProfile  `json:"destination_airport,omitempty"`
	Route              *RouteProfile    `json:"route,omitempty"`
}

// ItineraryProfiles carries per-segment enrichment plus the end-to-end
// route profile for the full journey.
type ItineraryProfiles struct {
	Segments []SegmentProfiles `json:"segments"`
	Route    *RouteProfile     `json:"route,omitempty"`
}
