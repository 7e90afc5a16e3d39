package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurosh87/optimalflight/internal/apperr"
	"github.com/kurosh87/optimalflight/internal/cache"
	"github.com/kurosh87/optimalflight/internal/logger"
	"github.com/kurosh87/optimalflight/internal/models"
	"github.com/kurosh87/optimalflight/internal/providers"
	"github.com/kurosh87/optimalflight/internal/refstore"
	"github.com/kurosh87/optimalflight/internal/usage"
)

type fakeDiscovery struct {
	searchCalls int
	failures    []error
	result      *providers.SearchResult
	lastQuery   providers.Query

	resolveCalls int
	resolved     map[string]string
}

func (d *fakeDiscovery) Name() string { return "fake" }

func (d *fakeDiscovery) ResolveLocation(_ context.Context, term string) (string, error) {
	d.resolveCalls++
	if code, ok := d.resolved[term]; ok {
		return code, nil
	}
	return "", apperr.Validation("no airport matches " + term)
}

func (d *fakeDiscovery) SearchItineraries(_ context.Context, q providers.Query) (*providers.SearchResult, error) {
	d.searchCalls++
	d.lastQuery = q
	if len(d.failures) > 0 {
		err := d.failures[0]
		d.failures = d.failures[1:]

		// Response-bearing failures carry stats, like the real client.
		var statusErr *providers.StatusError
		if errors.As(err, &statusErr) {
			return &providers.SearchResult{Stats: providers.CallStats{
				Provider: d.Name(), Endpoint: "/search", StatusCode: statusErr.Code,
			}}, err
		}
		return nil, err
	}
	return d.result, nil
}

type fakeSchedule struct {
	itinerary *models.Itinerary
	err       error
}

func (s *fakeSchedule) Name() string { return "fake-schedule" }

func (s *fakeSchedule) LookupFlight(_ context.Context, carrier, number string, date time.Time) (*models.Itinerary, *providers.CallStats, error) {
	stats := &providers.CallStats{Provider: s.Name(), Endpoint: "/flights/number", StatusCode: 200}
	return s.itinerary, stats, s.err
}

func transatlantic(id string, price float64) models.Itinerary {
	dep := time.Date(2025, 6, 10, 19, 30, 0, 0, time.FixedZone("EDT", -4*3600))
	arr := time.Date(2025, 6, 11, 7, 30, 0, 0, time.FixedZone("BST", 1*3600))
	return models.Itinerary{
		ID:       id,
		Provider: "fake",
		Segments: []models.Segment{{
			Airline: "BA", FlightNumber: "178",
			Origin: "JFK", Destination: "LHR",
			DepartureLocal: dep, ArrivalLocal: arr,
			OriginTimezone: "America/New_York", DestinationTimezone: "Europe/London",
		}},
		Duration: 7 * time.Hour,
		Stops:    0,
		Price:    price,
		Currency: "USD",
	}
}

func newTestOrchestrator(discovery *fakeDiscovery, schedule *fakeSchedule) (*Orchestrator, *cache.MemoryCache, *usage.MemoryRecorder) {
	memCache := cache.NewMemoryCache()
	recorder := usage.NewMemoryRecorder()
	o := New(Deps{
		Discovery: discovery,
		Schedule:  schedule,
		Store:     refstore.NewMemoryStore(),
		Cache:     memCache,
		Usage:     recorder,
		Log:       logger.NewNop(),
	}, Config{MaxRetries: 2, RetryDelays: []time.Duration{time.Millisecond}})
	return o, memCache, recorder
}

func baseRequest() models.SearchRequest {
	return models.SearchRequest{
		Origin:        "JFK",
		Destination:   "LHR",
		DepartureDate: "2025-06-10",
	}
}

func TestSearchRanksWithDeterministicTieBreak(t *testing.T) {
	discovery := &fakeDiscovery{result: &providers.SearchResult{
		Itineraries: []models.Itinerary{
			transatlantic("pricey", 900),
			transatlantic("bargain", 400),
			transatlantic("alpha", 400),
		},
		Stats: providers.CallStats{Provider: "fake", Endpoint: "/search", StatusCode: 200},
	}}
	o, _, recorder := newTestOrchestrator(discovery, &fakeSchedule{})

	outcome, err := o.Search(context.Background(), baseRequest())
	require.NoError(t, err)
	require.Len(t, outcome.Flights, 3)
	assert.False(t, outcome.CacheHit)
	assert.Equal(t, "fake", outcome.Provider)

	// Identical itineraries score identically: the order must fall back
	// to price ascending, then ID.
	assert.Equal(t, "alpha", outcome.Flights[0].Itinerary.ID)
	assert.Equal(t, "bargain", outcome.Flights[1].Itinerary.ID)
	assert.Equal(t, "pricey", outcome.Flights[2].Itinerary.ID)
	for i, f := range outcome.Flights {
		assert.Equal(t, i+1, f.Rank)
		assert.GreaterOrEqual(t, f.Score.Overall, 0.0)
		assert.LessOrEqual(t, f.Score.Overall, 100.0)
		assert.NotEmpty(t, f.PriceFormatted)
	}

	records := recorder.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "fake", records[0].Provider)
}

func TestSearchServesSecondCallFromCache(t *testing.T) {
	discovery := &fakeDiscovery{result: &providers.SearchResult{
		Itineraries: []models.Itinerary{transatlantic("a", 500)},
	}}
	o, _, _ := newTestOrchestrator(discovery, &fakeSchedule{})
	req := baseRequest()

	first, err := o.Search(context.Background(), req)
	require.NoError(t, err)
	require.False(t, first.CacheHit)

	second, err := o.Search(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, 1, discovery.searchCalls, "cache hit must not call the provider")
	assert.Equal(t, first.Flights, second.Flights)
	assert.Equal(t, first.Provider, second.Provider)
}

func TestSearchRecomputesAfterCacheExpiry(t *testing.T) {
	discovery := &fakeDiscovery{result: &providers.SearchResult{
		Itineraries: []models.Itinerary{transatlantic("a", 500)},
	}}
	o, memCache, _ := newTestOrchestrator(discovery, &fakeSchedule{})
	req := baseRequest()

	_, err := o.Search(context.Background(), req)
	require.NoError(t, err)

	memCache.SetClock(func() time.Time { return time.Now().Add(cache.TTL + time.Minute) })

	outcome, err := o.Search(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, outcome.CacheHit, "stale entry must read as a miss")
	assert.Equal(t, 2, discovery.searchCalls)
}

func TestSearchRetriesTransientFailures(t *testing.T) {
	transient := apperr.ProviderUnavailable("upstream 503",
		providers.NewProviderError("fake", &providers.StatusError{Code: 503}))
	discovery := &fakeDiscovery{
		failures: []error{transient},
		result: &providers.SearchResult{
			Itineraries: []models.Itinerary{transatlantic("a", 500)},
		},
	}
	o, _, _ := newTestOrchestrator(discovery, &fakeSchedule{})

	outcome, err := o.Search(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, discovery.searchCalls)
	assert.Len(t, outcome.Flights, 1)
}

func TestSearchDoesNotRetryTerminalFailures(t *testing.T) {
	terminal := apperr.ProviderUnavailable("upstream 400",
		providers.NewProviderError("fake", &providers.StatusError{Code: 400}))
	discovery := &fakeDiscovery{failures: []error{terminal, terminal, terminal}}
	o, _, _ := newTestOrchestrator(discovery, &fakeSchedule{})

	_, err := o.Search(context.Background(), baseRequest())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindProviderUnavailable))
	assert.Equal(t, 1, discovery.searchCalls, "4xx must not be retried")
}

func TestSearchExhaustsRetriesAndFails(t *testing.T) {
	transient := apperr.ProviderUnavailable("upstream 503",
		providers.NewProviderError("fake", &providers.StatusError{Code: 503}))
	discovery := &fakeDiscovery{failures: []error{transient, transient, transient}}
	o, _, _ := newTestOrchestrator(discovery, &fakeSchedule{})

	_, err := o.Search(context.Background(), baseRequest())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindProviderUnavailable))
	assert.Equal(t, 3, discovery.searchCalls)
}

func TestSearchRecordsUsageForFailedCalls(t *testing.T) {
	terminal := apperr.ProviderUnavailable("upstream 400",
		providers.NewProviderError("fake", &providers.StatusError{Code: 400}))
	discovery := &fakeDiscovery{failures: []error{terminal}}
	o, _, recorder := newTestOrchestrator(discovery, &fakeSchedule{})

	_, err := o.Search(context.Background(), baseRequest())
	require.Error(t, err)

	records := recorder.Records()
	require.Len(t, records, 1, "a failed call that reached the provider still burns quota")
	assert.Equal(t, 400, records[0].StatusCode)
	assert.Equal(t, "fake", records[0].Provider)
}

func TestSearchRecordsUsagePerRetryAttempt(t *testing.T) {
	transient := apperr.ProviderUnavailable("upstream 503",
		providers.NewProviderError("fake", &providers.StatusError{Code: 503}))
	discovery := &fakeDiscovery{
		failures: []error{transient},
		result: &providers.SearchResult{
			Itineraries: []models.Itinerary{transatlantic("a", 500)},
			Stats:       providers.CallStats{Provider: "fake", Endpoint: "/search", StatusCode: 200},
		},
	}
	o, _, recorder := newTestOrchestrator(discovery, &fakeSchedule{})

	_, err := o.Search(context.Background(), baseRequest())
	require.NoError(t, err)

	records := recorder.Records()
	require.Len(t, records, 2)
	assert.Equal(t, 503, records[0].StatusCode)
	assert.Equal(t, 200, records[1].StatusCode)
}

func TestSearchDropsUnscoreableItineraries(t *testing.T) {
	broken := transatlantic("broken", 500)
	broken.Segments[0].OriginTimezone = "Not/AZone"

	discovery := &fakeDiscovery{result: &providers.SearchResult{
		Itineraries: []models.Itinerary{transatlantic("ok", 500), broken},
	}}
	o, _, _ := newTestOrchestrator(discovery, &fakeSchedule{})

	outcome, err := o.Search(context.Background(), baseRequest())
	require.NoError(t, err, "one bad itinerary must not fail the batch")
	require.Len(t, outcome.Flights, 1)
	assert.Equal(t, "ok", outcome.Flights[0].Itinerary.ID)
}

func TestSearchEmptyResultIsSuccess(t *testing.T) {
	discovery := &fakeDiscovery{result: &providers.SearchResult{}}
	o, _, _ := newTestOrchestrator(discovery, &fakeSchedule{})

	outcome, err := o.Search(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Empty(t, outcome.Flights)
}

func TestNormalizeWindowsAndDefaults(t *testing.T) {
	discovery := &fakeDiscovery{resolved: map[string]string{"New York": "JFK"}}
	o, _, _ := newTestOrchestrator(discovery, &fakeSchedule{})
	ctx := context.Background()

	tests := []struct {
		name        string
		req         models.SearchRequest
		wantFrom    string
		wantTo      string
		wantFlex    models.Flexibility
		wantResolve int
	}{
		{
			name:     "exact date",
			req:      models.SearchRequest{Origin: "jfk", Destination: "LHR", DepartureDate: "2025-06-10"},
			wantFrom: "2025-06-10", wantTo: "2025-06-10", wantFlex: models.FlexExact,
		},
		{
			name:     "plus minus three",
			req:      models.SearchRequest{Origin: "JFK", Destination: "LHR", DepartureDate: "2025-06-10", Flexibility: models.FlexPlus3},
			wantFrom: "2025-06-10", wantTo: "2025-06-16", wantFlex: models.FlexPlus3,
		},
		{
			name:     "plus minus seven",
			req:      models.SearchRequest{Origin: "JFK", Destination: "LHR", DepartureDate: "2025-06-10", Flexibility: models.FlexPlus7},
			wantFrom: "2025-06-10", wantTo: "2025-06-24", wantFlex: models.FlexPlus7,
		},
		{
			name:     "anytime",
			req:      models.SearchRequest{Origin: "JFK", Destination: "LHR", DepartureDate: "2025-06-10", Flexibility: models.FlexAnytime},
			wantFrom: "2025-06-10", wantTo: "2025-08-09", wantFlex: models.FlexAnytime,
		},
		{
			name:        "free text origin resolved",
			req:         models.SearchRequest{Origin: "New York", Destination: "LHR", DepartureDate: "2025-06-10"},
			wantFrom:    "2025-06-10", wantTo: "2025-06-10", wantFlex: models.FlexExact,
			wantResolve: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := discovery.resolveCalls
			nq, err := o.normalize(ctx, tc.req)
			require.NoError(t, err)
			assert.Equal(t, "JFK", nq.Origin)
			assert.Equal(t, "LHR", nq.Destination)
			assert.Equal(t, tc.wantFrom, nq.DateFrom.Format("2006-01-02"))
			assert.Equal(t, tc.wantTo, nq.DateTo.Format("2006-01-02"))
			assert.Equal(t, tc.wantFlex, nq.Flexibility)
			assert.Equal(t, tc.wantResolve, discovery.resolveCalls-before)
		})
	}
}

func TestNormalizeEmptyDateDefaultsToToday(t *testing.T) {
	o, _, _ := newTestOrchestrator(&fakeDiscovery{}, &fakeSchedule{})

	nq, err := o.normalize(context.Background(), models.SearchRequest{Origin: "JFK", Destination: "LHR"})
	require.NoError(t, err)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), nq.Date)
	assert.Equal(t, models.FlexExact, nq.Flexibility)
}

func TestNormalizeUnresolvableLocation(t *testing.T) {
	o, _, _ := newTestOrchestrator(&fakeDiscovery{}, &fakeSchedule{})

	_, err := o.normalize(context.Background(), models.SearchRequest{Origin: "Atlantis", Destination: "LHR"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestApplyConstraints(t *testing.T) {
	direct := transatlantic("direct", 500)
	oneStop := transatlantic("one-stop", 400)
	oneStop.Stops = 1
	long := transatlantic("long", 300)
	long.Duration = 20 * time.Hour

	batch := []models.Itinerary{direct, oneStop, long}
	intp := func(v int) *int { return &v }

	t.Run("max stops", func(t *testing.T) {
		out := applyConstraints(batch, models.SearchRequest{MaxStops: intp(0)})
		require.Len(t, out, 2)
		assert.Equal(t, "direct", out[0].ID)
		assert.Equal(t, "long", out[1].ID)
	})

	t.Run("max duration", func(t *testing.T) {
		out := applyConstraints(batch, models.SearchRequest{MaxDurationHours: intp(10)})
		require.Len(t, out, 2)
	})

	t.Run("prefer direct keeps only directs", func(t *testing.T) {
		out := applyConstraints(batch, models.SearchRequest{PreferDirect: true})
		require.Len(t, out, 2)
		for _, it := range out {
			assert.Equal(t, 0, it.Stops)
		}
	})

	t.Run("prefer direct with no directs keeps all", func(t *testing.T) {
		out := applyConstraints([]models.Itinerary{oneStop}, models.SearchRequest{PreferDirect: true})
		require.Len(t, out, 1)
		assert.Equal(t, "one-stop", out[0].ID)
	})

	t.Run("no constraints", func(t *testing.T) {
		out := applyConstraints(batch, models.SearchRequest{})
		assert.Len(t, out, 3)
	})
}

func TestLookupByFlightNumber(t *testing.T) {
	it := transatlantic("BA178-20250610", 0)
	schedule := &fakeSchedule{itinerary: &it}
	o, _, recorder := newTestOrchestrator(&fakeDiscovery{}, schedule)

	flight, err := o.LookupByFlightNumber(context.Background(), "BA", "178",
		time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, flight)
	assert.Equal(t, 0, flight.Rank, "singleton lookup carries no rank")
	assert.GreaterOrEqual(t, flight.Score.Overall, 0.0)
	assert.LessOrEqual(t, flight.Score.Overall, 100.0)
	assert.NotEmpty(t, flight.Score.Tier)

	records := recorder.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "fake-schedule", records[0].Provider)
}

func TestLookupByFlightNumberNoMatch(t *testing.T) {
	o, _, _ := newTestOrchestrator(&fakeDiscovery{}, &fakeSchedule{})

	flight, err := o.LookupByFlightNumber(context.Background(), "ZZ", "999",
		time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, flight)
}

func TestLookupByFlightNumberProviderError(t *testing.T) {
	schedule := &fakeSchedule{err: apperr.ProviderUnavailable("boom", errors.New("down"))}
	o, _, _ := newTestOrchestrator(&fakeDiscovery{}, schedule)

	_, err := o.LookupByFlightNumber(context.Background(), "BA", "178",
		time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindProviderUnavailable))
}
