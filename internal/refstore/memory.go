package refstore

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/kurosh87/optimalflight/internal/models"
)

// MemoryStore serves reference profiles from in-process maps. Used in
// tests and for running the service without a database.
type MemoryStore struct {
	AircraftProfiles map[string]models.AircraftProfile
	AirlineProfiles  map[string]models.AirlineProfile
	AirportProfiles  map[string]models.AirportProfile
	RouteProfiles    map[string]models.RouteProfile

	reads atomic.Int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		AircraftProfiles: make(map[string]models.AircraftProfile),
		AirlineProfiles:  make(map[string]models.AirlineProfile),
		AirportProfiles:  make(map[string]models.AirportProfile),
		RouteProfiles:    make(map[string]models.RouteProfile),
	}
}

// Reads reports how many lookups hit the store, memoized or not.
func (s *MemoryStore) Reads() int64 {
	return s.reads.Load()
}

func (s *MemoryStore) Aircraft(_ context.Context, code string) (*models.AircraftProfile, error) {
	s.reads.Add(1)
	if p, ok := s.AircraftProfiles[strings.ToUpper(code)]; ok {
		copied := p
		return &copied, nil
	}
	return nil, nil
}

func (s *MemoryStore) Airline(_ context.Context, code string) (*models.AirlineProfile, error) {
	s.reads.Add(1)
	if p, ok := s.AirlineProfiles[strings.ToUpper(code)]; ok {
		copied := p
		return &copied, nil
	}
	return nil, nil
}

func (s *MemoryStore) Airport(_ context.Context, code string) (*models.AirportProfile, error) {
	s.reads.Add(1)
	if p, ok := s.AirportProfiles[strings.ToUpper(code)]; ok {
		copied := p
		return &copied, nil
	}
	return nil, nil
}

func (s *MemoryStore) Route(_ context.Context, origin, destination string) (*models.RouteProfile, error) {
	s.reads.Add(1)
	key := strings.ToUpper(origin) + "-" + strings.ToUpper(destination)
	if p, ok := s.RouteProfiles[key]; ok {
		copied := p
		return &copied, nil
	}
	return nil, nil
}
