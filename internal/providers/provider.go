// Package providers holds the external flight-data clients: a discovery
// provider for itinerary search and a schedule-authoritative provider for
// single-flight lookup. Each client normalizes its own wire shapes into
// the canonical itinerary model.
package providers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/kurosh87/optimalflight/internal/models"
)

// Provider calls are the only blocking I/O in a search; this bounds them.
const CallTimeout = 10 * time.Second

// Query is the normalized form handed to a discovery provider: IATA codes
// only, explicit date window.
type Query struct {
	Origin           string
	Destination      string
	DateFrom         time.Time
	DateTo           time.Time
	MaxStops         *int
	MaxDurationHours *int
}

// CallStats records one upstream request for usage accounting.
type CallStats struct {
	Provider   string
	Endpoint   string
	Params     string
	StatusCode int
	DurationMs int64
	Credits    *int
}

// ParseFailure is one provider item that could not be normalized. The
// item is dropped; the batch continues.
type ParseFailure struct {
	ItemID string
	Err    error
}

// SearchResult carries the successes alongside the dropped items so the
// degradation path stays observable and testable.
type SearchResult struct {
	Itineraries []models.Itinerary
	Dropped     []ParseFailure
	Stats       CallStats
}

// Discovery finds candidate itineraries for a normalized query.
type Discovery interface {
	Name() string
	// ResolveLocation maps a free-text place name to an IATA code the
	// provider understands.
	ResolveLocation(ctx context.Context, term string) (string, error)
	// SearchItineraries may return a non-nil result alongside an error
	// when the upstream produced an HTTP response: the result then
	// carries only Stats, for usage accounting.
	SearchItineraries(ctx context.Context, q Query) (*SearchResult, error)
}

// Schedule looks up one specific scheduled flight. A no-match returns
// (nil, stats, nil), not an error.
type Schedule interface {
	Name() string
	LookupFlight(ctx context.Context, carrier, number string, date time.Time) (*models.Itinerary, *CallStats, error)
}

// StatusError marks a non-2xx response. 4xx statuses are terminal and
// must not be retried; 5xx may be transient.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return "status " + strconv.Itoa(e.Code)
}

// Retryable reports whether err looks transient: network failures and
// 5xx statuses retry, 4xx statuses do not.
func Retryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500
	}
	return true
}

// ProviderError tags an upstream failure with the provider that caused it.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}
