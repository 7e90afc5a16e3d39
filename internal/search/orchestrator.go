// Package search orchestrates the full pipeline: normalize the query,
// consult the cache, call the discovery provider, parse, score each
// itinerary, rank, cache, and record provider usage.
package search

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kurosh87/optimalflight/internal/apperr"
	"github.com/kurosh87/optimalflight/internal/cache"
	"github.com/kurosh87/optimalflight/internal/circadian"
	"github.com/kurosh87/optimalflight/internal/enrichment"
	"github.com/kurosh87/optimalflight/internal/logger"
	"github.com/kurosh87/optimalflight/internal/models"
	"github.com/kurosh87/optimalflight/internal/providers"
	"github.com/kurosh87/optimalflight/internal/ratelimit"
	"github.com/kurosh87/optimalflight/internal/scoring"
	"github.com/kurosh87/optimalflight/internal/usage"
	"github.com/kurosh87/optimalflight/pkg/currency"
)

type Config struct {
	MaxRetries  int
	RetryDelays []time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxRetries: 2,
		RetryDelays: []time.Duration{
			250 * time.Millisecond,
			750 * time.Millisecond,
		},
	}
}

// Deps are the orchestrator's collaborators, injected at startup.
type Deps struct {
	Discovery providers.Discovery
	Schedule  providers.Schedule
	Store     enrichment.Store
	Cache     cache.Cache
	Usage     usage.Recorder
	Limiter   *ratelimit.ProviderLimiter
	Log       *logger.Logger
}

type Orchestrator struct {
	discovery providers.Discovery
	schedule  providers.Schedule
	store     enrichment.Store
	cache     cache.Cache
	usage     usage.Recorder
	limiter   *ratelimit.ProviderLimiter
	log       *logger.Logger
	config    Config
}

func New(deps Deps, cfg Config) *Orchestrator {
	return &Orchestrator{
		discovery: deps.Discovery,
		schedule:  deps.Schedule,
		store:     deps.Store,
		cache:     deps.Cache,
		usage:     deps.Usage,
		limiter:   deps.Limiter,
		log:       deps.Log,
		config:    cfg,
	}
}

// Outcome is a completed search plus the metadata the transport layer reports.
type Outcome struct {
	Flights  []models.ScoredFlight
	CacheHit bool
	Provider string
	Duration time.Duration
}

// Search runs the full pipeline. A provider outage fails the whole call;
// individual unparseable or unscoreable itineraries are dropped silently.
func (o *Orchestrator) Search(ctx context.Context, req models.SearchRequest) (*Outcome, error) {
	start := time.Now()

	nq, err := o.normalize(ctx, req)
	if err != nil {
		return nil, err
	}

	key := cache.Key(nq.Origin, nq.Destination, nq.Date, nq.Flexibility)
	if entry, ok := o.cache.Get(ctx, key); ok {
		return &Outcome{
			Flights:  entry.Results,
			CacheHit: true,
			Provider: entry.Provider,
			Duration: time.Since(start),
		}, nil
	}

	if o.limiter != nil {
		if err := o.limiter.Wait(ctx, o.discovery.Name()); err != nil {
			return nil, apperr.ProviderUnavailable("rate limit wait aborted", err)
		}
	}

	result, err := o.searchWithRetry(ctx, providerQuery(nq, req))
	if err != nil {
		return nil, err
	}
	o.recordUsage(ctx, result.Stats, len(result.Itineraries))
	if len(result.Dropped) > 0 {
		o.log.Warn("dropped unparseable discovery items",
			"provider", o.discovery.Name(), "count", len(result.Dropped))
	}

	itineraries := applyConstraints(result.Itineraries, req)
	scored := o.scoreBatch(ctx, itineraries, req.UserProfile)
	rank(scored)

	elapsed := time.Since(start)
	entry := models.CacheEntry{
		QueryHash:        key,
		Origin:           nq.Origin,
		Destination:      nq.Destination,
		Date:             nq.Date,
		Flexibility:      nq.Flexibility,
		Provider:         o.discovery.Name(),
		Results:          scored,
		ResultCount:      len(scored),
		SearchDurationMs: elapsed.Milliseconds(),
		CreatedAt:        start.UTC(),
		ExpiresAt:        start.UTC().Add(cache.TTL),
	}
	// Fire and forget: a cache failure never fails the search.
	if err := o.cache.Set(ctx, entry); err != nil {
		o.log.CacheError("set", key, err)
	}

	return &Outcome{
		Flights:  scored,
		Provider: o.discovery.Name(),
		Duration: elapsed,
	}, nil
}

// LookupByFlightNumber resolves one scheduled flight and scores it. A
// provider no-match returns (nil, nil); rank stays 0 for a singleton.
func (o *Orchestrator) LookupByFlightNumber(ctx context.Context, carrier, number string, date time.Time) (*models.ScoredFlight, error) {
	if o.limiter != nil {
		if err := o.limiter.Wait(ctx, o.schedule.Name()); err != nil {
			return nil, apperr.ProviderUnavailable("rate limit wait aborted", err)
		}
	}

	it, stats, err := o.schedule.LookupFlight(ctx, carrier, number, date)
	if stats != nil {
		o.recordUsage(ctx, *stats, boolToInt(it != nil))
	}
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, nil
	}

	resolver := enrichment.NewResolver(o.store)
	scored, err := o.scoreOne(ctx, *it, resolver, nil)
	if err != nil {
		return nil, err
	}
	return &scored, nil
}

// scoreBatch fans scoring out across the batch. Each itinerary's
// enrichment and scoring are independent; one failure drops that
// itinerary without cancelling sibling work.
func (o *Orchestrator) scoreBatch(ctx context.Context, itineraries []models.Itinerary, user *models.UserProfile) []models.ScoredFlight {
	resolver := enrichment.NewResolver(o.store)

	type scoredResult struct {
		flight models.ScoredFlight
		id     string
		err    error
	}

	resultCh := make(chan scoredResult, len(itineraries))
	var wg sync.WaitGroup

	for _, it := range itineraries {
		wg.Add(1)
		go func(it models.Itinerary) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					resultCh <- scoredResult{
						id:  it.ID,
						err: apperr.Scoring("panic while scoring", fmt.Errorf("%v", r)),
					}
				}
			}()

			flight, err := o.scoreOne(ctx, it, resolver, user)
			resultCh <- scoredResult{flight: flight, id: it.ID, err: err}
		}(it)
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	scored := make([]models.ScoredFlight, 0, len(itineraries))
	for r := range resultCh {
		if r.err != nil {
			o.log.ItineraryDropped("score", r.id, r.err)
			continue
		}
		scored = append(scored, r.flight)
	}
	return scored
}

func (o *Orchestrator) scoreOne(ctx context.Context, it models.Itinerary, resolver *enrichment.Resolver, user *models.UserProfile) (models.ScoredFlight, error) {
	profiles, err := resolver.ResolveItinerary(ctx, it)
	if err != nil {
		return models.ScoredFlight{}, apperr.Scoring("enrichment failed", err)
	}
	cc, err := circadian.ForItinerary(it)
	if err != nil {
		return models.ScoredFlight{}, apperr.Scoring("circadian context failed", err)
	}

	return models.ScoredFlight{
		Itinerary:      it,
		PriceFormatted: currency.Format(it.Price, it.Currency),
		Score:          scoring.Score(it, cc, profiles, user),
	}, nil
}

// rank sorts by overall score descending with a deterministic tie-break
// (price ascending, then itinerary ID), then assigns dense 1-based ranks.
func rank(flights []models.ScoredFlight) {
	sort.SliceStable(flights, func(i, j int) bool {
		if flights[i].Score.Overall != flights[j].Score.Overall {
			return flights[i].Score.Overall > flights[j].Score.Overall
		}
		if flights[i].Itinerary.Price != flights[j].Itinerary.Price {
			return flights[i].Itinerary.Price < flights[j].Itinerary.Price
		}
		return flights[i].Itinerary.ID < flights[j].Itinerary.ID
	})
	for i := range flights {
		flights[i].Rank = i + 1
	}
}

func (o *Orchestrator) searchWithRetry(ctx context.Context, q providers.Query) (*providers.SearchResult, error) {
	var lastErr error

	for attempt := 0; attempt <= o.config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, apperr.ProviderUnavailable("search cancelled", ctx.Err())
		default:
		}

		if attempt > 0 {
			delayIdx := attempt - 1
			if delayIdx >= len(o.config.RetryDelays) {
				delayIdx = len(o.config.RetryDelays) - 1
			}
			select {
			case <-time.After(o.config.RetryDelays[delayIdx]):
			case <-ctx.Done():
				return nil, apperr.ProviderUnavailable("search cancelled", ctx.Err())
			}
		}

		result, err := o.discovery.SearchItineraries(ctx, q)
		if err == nil {
			return result, nil
		}
		// Failed calls that reached the provider still burn quota.
		if result != nil {
			o.recordUsage(ctx, result.Stats, 0)
		}
		lastErr = err
		if !providers.Retryable(err) {
			break
		}
		o.log.Warn("discovery attempt failed",
			"provider", o.discovery.Name(), "attempt", attempt+1, "error", err.Error())
	}
	return nil, lastErr
}

func (o *Orchestrator) recordUsage(ctx context.Context, stats providers.CallStats, results int) {
	rec := usage.NewRecord(stats.Provider, stats.Endpoint, stats.Params,
		stats.StatusCode, stats.DurationMs, stats.Credits)
	if err := o.usage.Record(ctx, rec); err != nil {
		o.log.Warn("usage record failed", "provider", stats.Provider, "error", err.Error())
	}
	o.log.ProviderCall(stats.Provider, stats.Endpoint, stats.StatusCode, stats.DurationMs, results)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
