package search

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/kurosh87/optimalflight/internal/models"
	"github.com/kurosh87/optimalflight/internal/providers"
)

var iataPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// NormalizedQuery is the immutable, provider-ready form of a search
// request: IATA endpoints and an explicit date window.
type NormalizedQuery struct {
	Origin      string
	Destination string
	Date        string // target date, 2006-01-02
	Flexibility models.Flexibility
	DateFrom    time.Time
	DateTo      time.Time
}

// normalize resolves free-text locations through the discovery provider
// and expands the flexibility mode into a concrete window. A missing date
// defaults to today; a missing flexibility defaults to exact.
func (o *Orchestrator) normalize(ctx context.Context, req models.SearchRequest) (NormalizedQuery, error) {
	origin, err := o.resolveLocation(ctx, req.Origin)
	if err != nil {
		return NormalizedQuery{}, err
	}
	destination, err := o.resolveLocation(ctx, req.Destination)
	if err != nil {
		return NormalizedQuery{}, err
	}

	flexibility := req.Flexibility
	if flexibility == "" {
		flexibility = models.FlexExact
	}

	target := time.Now().UTC().Truncate(24 * time.Hour)
	if req.DepartureDate != "" {
		target, err = time.Parse("2006-01-02", req.DepartureDate)
		if err != nil {
			return NormalizedQuery{}, err
		}
	}

	return NormalizedQuery{
		Origin:      origin,
		Destination: destination,
		Date:        target.Format("2006-01-02"),
		Flexibility: flexibility,
		DateFrom:    target,
		DateTo:      target.AddDate(0, 0, flexibility.WindowDays()),
	}, nil
}

// resolveLocation passes IATA codes through untouched and asks the
// provider to resolve anything else.
func (o *Orchestrator) resolveLocation(ctx context.Context, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if iataPattern.MatchString(trimmed) {
		return strings.ToUpper(trimmed), nil
	}
	return o.discovery.ResolveLocation(ctx, trimmed)
}

// providerQuery converts the normalized query plus request constraints
// into the discovery provider's input.
func providerQuery(nq NormalizedQuery, req models.SearchRequest) providers.Query {
	return providers.Query{
		Origin:           nq.Origin,
		Destination:      nq.Destination,
		DateFrom:         nq.DateFrom,
		DateTo:           nq.DateTo,
		MaxStops:         req.MaxStops,
		MaxDurationHours: req.MaxDurationHours,
	}
}

// applyConstraints enforces the request's stop and duration limits on the
// parsed batch; providers do not reliably honor their query parameters.
func applyConstraints(itins []models.Itinerary, req models.SearchRequest) []models.Itinerary {
	out := make([]models.Itinerary, 0, len(itins))
	hasDirect := false
	for _, it := range itins {
		if req.MaxStops != nil && it.Stops > *req.MaxStops {
			continue
		}
		if req.MaxDurationHours != nil && it.Duration > time.Duration(*req.MaxDurationHours)*time.Hour {
			continue
		}
		if it.Stops == 0 {
			hasDirect = true
		}
		out = append(out, it)
	}

	if req.PreferDirect && hasDirect {
		direct := make([]models.Itinerary, 0, len(out))
		for _, it := range out {
			if it.Stops == 0 {
				direct = append(direct, it)
			}
		}
		return direct
	}
	return out
}
