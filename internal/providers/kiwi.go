package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kurosh87/optimalflight/internal/apperr"
	"github.com/kurosh87/optimalflight/internal/logger"
)

const kiwiDateFormat = "02/01/2006"

// KiwiClient is the discovery provider. Its search payload is
// heterogeneous: most items carry a multi-leg "route" array, some are
// flat single-leg records. Both normalize into the canonical itinerary.
type KiwiClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logger.Logger
}

func NewKiwiClient(baseURL, apiKey string, log *logger.Logger) *KiwiClient {
	return &KiwiClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: CallTimeout},
		log:     log,
	}
}

func (c *KiwiClient) Name() string {
	return "kiwi"
}

type kiwiLocationsResponse struct {
	Locations []struct {
		Code string `json:"code"`
	} `json:"locations"`
}

// ResolveLocation queries the provider's location endpoint for the IATA
// code matching a free-text place name.
func (c *KiwiClient) ResolveLocation(ctx context.Context, term string) (string, error) {
	params := url.Values{}
	params.Set("term", term)
	params.Set("location_types", "airport")
	params.Set("limit", "1")

	body, _, err := c.get(ctx, "/locations/query", params)
	if err != nil {
		return "", err
	}

	var resp kiwiLocationsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", apperr.ProviderUnavailable("malformed locations payload", NewProviderError(c.Name(), err))
	}
	if len(resp.Locations) == 0 {
		return "", apperr.Validation(fmt.Sprintf("no airport matches %q", term))
	}
	return resp.Locations[0].Code, nil
}

type kiwiSearchResponse struct {
	Data     []json.RawMessage `json:"data"`
	Currency string            `json:"currency"`
}

// SearchItineraries runs the discovery search and normalizes every result
// item. Items that fail to parse are collected in Dropped, never fatal.
func (c *KiwiClient) SearchItineraries(ctx context.Context, q Query) (*SearchResult, error) {
	params := url.Values{}
	params.Set("fly_from", q.Origin)
	params.Set("fly_to", q.Destination)
	params.Set("date_from", q.DateFrom.Format(kiwiDateFormat))
	params.Set("date_to", q.DateTo.Format(kiwiDateFormat))
	params.Set("curr", "USD")
	if q.MaxStops != nil {
		params.Set("max_stopovers", strconv.Itoa(*q.MaxStops))
	}
	if q.MaxDurationHours != nil {
		params.Set("max_fly_duration", strconv.Itoa(*q.MaxDurationHours))
	}

	start := time.Now()
	body, status, err := c.get(ctx, "/v2/search", params)
	stats := CallStats{
		Provider:   c.Name(),
		Endpoint:   "/v2/search",
		Params:     params.Encode(),
		StatusCode: status,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		// Any call that produced an HTTP response still counts against
		// quota; hand the stats back alongside the error.
		if status == 0 {
			return nil, err
		}
		return &SearchResult{Stats: stats}, err
	}

	var resp kiwiSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return &SearchResult{Stats: stats}, apperr.ProviderUnavailable("malformed search payload", NewProviderError(c.Name(), err))
	}
	if resp.Currency == "" {
		resp.Currency = "USD"
	}

	result := &SearchResult{Stats: stats}
	for i, raw := range resp.Data {
		it, err := c.normalizeItem(raw, resp.Currency)
		if err != nil {
			itemID := fmt.Sprintf("item[%d]", i)
			c.log.ItineraryDropped("parse", itemID, err)
			result.Dropped = append(result.Dropped, ParseFailure{
				ItemID: itemID,
				Err:    apperr.Parse("unparseable discovery item", err),
			})
			continue
		}
		result.Itineraries = append(result.Itineraries, it)
	}
	return result, nil
}

func (c *KiwiClient) get(ctx context.Context, endpoint string, params url.Values) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, apperr.ProviderUnavailable("build request", NewProviderError(c.Name(), err))
	}
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, apperr.ProviderUnavailable("discovery provider unreachable", NewProviderError(c.Name(), err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, apperr.ProviderUnavailable("read response", NewProviderError(c.Name(), err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, apperr.ProviderUnavailable(
			fmt.Sprintf("discovery provider returned %d", resp.StatusCode),
			NewProviderError(c.Name(), &StatusError{Code: resp.StatusCode}))
	}
	return body, resp.StatusCode, nil
}
