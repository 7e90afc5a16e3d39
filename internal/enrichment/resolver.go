// Package enrichment resolves aircraft, airline, airport, and route
// reference profiles for flight segments. Lookups are memoized for the
// lifetime of one Resolver, which lives for exactly one search call.
package enrichment

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/kurosh87/optimalflight/internal/models"
)

// Store is a read-only reference-data source. Implementations return
// (nil, nil) for a missing record; absence is a valid state, not an error.
type Store interface {
	Aircraft(ctx context.Context, code string) (*models.AircraftProfile, error)
	Airline(ctx context.Context, code string) (*models.AirlineProfile, error)
	Airport(ctx context.Context, code string) (*models.AirportProfile, error)
	Route(ctx context.Context, origin, destination string) (*models.RouteProfile, error)
}

// Jetlag contribution per aircraft generation. An aircraft whose record
// has no recognized generation reads as a miss.
var generationScores = map[models.AircraftGeneration]float64{
	models.GenerationNextGen:  90,
	models.GenerationModern:   75,
	models.GenerationLegacy:   55,
	models.GenerationOld:      35,
	models.GenerationExcluded: 20,
}

// GenerationScore returns the fixed jetlag contribution for a generation
// class and whether the class is recognized.
func GenerationScore(gen models.AircraftGeneration) (float64, bool) {
	score, ok := generationScores[gen]
	return score, ok
}

// Resolver memoizes reference-store reads per code. Construct one per
// search call; the memo must never outlive or span calls. Scoring fans
// out across goroutines that share one Resolver, so concurrent lookups
// of the same code are coalesced into a single store read.
type Resolver struct {
	store Store
	group singleflight.Group

	mu       sync.Mutex
	aircraft map[string]*models.AircraftProfile
	airlines map[string]*models.AirlineProfile
	airports map[string]*models.AirportProfile
	routes   map[string]*models.RouteProfile
}

func NewResolver(store Store) *Resolver {
	return &Resolver{
		store:    store,
		aircraft: make(map[string]*models.AircraftProfile),
		airlines: make(map[string]*models.AirlineProfile),
		airports: make(map[string]*models.AirportProfile),
		routes:   make(map[string]*models.RouteProfile),
	}
}

// Resolve looks up every profile relevant to one segment. All fields of
// the result are optional; lookup misses leave them nil.
func (r *Resolver) Resolve(ctx context.Context, seg models.Segment) (models.SegmentProfiles, error) {
	var profiles models.SegmentProfiles
	var err error

	if profiles.Aircraft, err = r.ResolveAircraft(ctx, seg.Aircraft); err != nil {
		return profiles, err
	}
	if profiles.Airline, err = r.ResolveAirline(ctx, seg.Airline); err != nil {
		return profiles, err
	}
	if profiles.OriginAirport, err = r.ResolveAirport(ctx, seg.Origin); err != nil {
		return profiles, err
	}
	if profiles.DestinationAirport, err = r.ResolveAirport(ctx, seg.Destination); err != nil {
		return profiles, err
	}
	if profiles.Route, err = r.ResolveRoute(ctx, seg.Origin, seg.Destination); err != nil {
		return profiles, err
	}
	return profiles, nil
}

// ResolveItinerary resolves every segment plus the end-to-end route.
func (r *Resolver) ResolveItinerary(ctx context.Context, it models.Itinerary) (models.ItineraryProfiles, error) {
	profiles := models.ItineraryProfiles{
		Segments: make([]models.SegmentProfiles, 0, len(it.Segments)),
	}
	for _, seg := range it.Segments {
		sp, err := r.Resolve(ctx, seg)
		if err != nil {
			return models.ItineraryProfiles{}, err
		}
		profiles.Segments = append(profiles.Segments, sp)
	}

	route, err := r.ResolveRoute(ctx, it.First().Origin, it.Last().Destination)
	if err != nil {
		return models.ItineraryProfiles{}, err
	}
	profiles.Route = route
	return profiles, nil
}

// ResolveAircraft maps the stored generation class to its fixed jetlag
// contribution. Unknown code or unclassified generation is a miss.
func (r *Resolver) ResolveAircraft(ctx context.Context, code string) (*models.AircraftProfile, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, nil
	}

	r.mu.Lock()
	cached, ok := r.aircraft[code]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	// The memo re-check inside the flight covers callers that missed the
	// memo before a concurrent flight for the same code completed.
	v, err, _ := r.group.Do("aircraft:"+code, func() (any, error) {
		r.mu.Lock()
		cached, ok := r.aircraft[code]
		r.mu.Unlock()
		if ok {
			return cached, nil
		}

		profile, err := r.store.Aircraft(ctx, code)
		if err != nil {
			return nil, err
		}
		if profile != nil {
			score, classified := GenerationScore(profile.Generation)
			if !classified {
				profile = nil
			} else {
				profile.JetlagScore = score
			}
		}

		r.mu.Lock()
		r.aircraft[code] = profile
		r.mu.Unlock()
		return profile, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.AircraftProfile), nil
}

// ResolveAirline filters to active carriers. A record that exists but is
// marked defunct reads as a miss, not as the stale record.
func (r *Resolver) ResolveAirline(ctx context.Context, code string) (*models.AirlineProfile, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, nil
	}

	r.mu.Lock()
	cached, ok := r.airlines[code]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	v, err, _ := r.group.Do("airline:"+code, func() (any, error) {
		r.mu.Lock()
		cached, ok := r.airlines[code]
		r.mu.Unlock()
		if ok {
			return cached, nil
		}

		profile, err := r.store.Airline(ctx, code)
		if err != nil {
			return nil, err
		}
		if profile != nil && !profile.Active {
			profile = nil
		}

		r.mu.Lock()
		r.airlines[code] = profile
		r.mu.Unlock()
		return profile, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.AirlineProfile), nil
}

func (r *Resolver) ResolveAirport(ctx context.Context, code string) (*models.AirportProfile, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, nil
	}

	r.mu.Lock()
	cached, ok := r.airports[code]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	v, err, _ := r.group.Do("airport:"+code, func() (any, error) {
		r.mu.Lock()
		cached, ok := r.airports[code]
		r.mu.Unlock()
		if ok {
			return cached, nil
		}

		profile, err := r.store.Airport(ctx, code)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.airports[code] = profile
		r.mu.Unlock()
		return profile, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.AirportProfile), nil
}

func (r *Resolver) ResolveRoute(ctx context.Context, origin, destination string) (*models.RouteProfile, error) {
	origin, destination = normalizeCode(origin), normalizeCode(destination)
	if origin == "" || destination == "" {
		return nil, nil
	}
	key := origin + "-" + destination

	r.mu.Lock()
	cached, ok := r.routes[key]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	v, err, _ := r.group.Do("route:"+key, func() (any, error) {
		r.mu.Lock()
		cached, ok := r.routes[key]
		r.mu.Unlock()
		if ok {
			return cached, nil
		}

		profile, err := r.store.Route(ctx, origin, destination)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.routes[key] = profile
		r.mu.Unlock()
		return profile, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.RouteProfile), nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
