package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kurosh87/optimalflight/internal/apperr"
	"github.com/kurosh87/optimalflight/internal/circadian"
	"github.com/kurosh87/optimalflight/internal/logger"
	"github.com/kurosh87/optimalflight/internal/models"
)

// AeroDataBoxClient is the schedule-authoritative provider used for
// single-flight lookup by carrier and flight number.
type AeroDataBoxClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logger.Logger
}

func NewAeroDataBoxClient(baseURL, apiKey string, log *logger.Logger) *AeroDataBoxClient {
	return &AeroDataBoxClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: CallTimeout},
		log:     log,
	}
}

func (c *AeroDataBoxClient) Name() string {
	return "aerodatabox"
}

type adbFlight struct {
	Number    string      `json:"number"`
	Airline   adbAirline  `json:"airline"`
	Departure adbMovement `json:"departure"`
	Arrival   adbMovement `json:"arrival"`
	Aircraft  adbAircraft `json:"aircraft"`
}

type adbAirline struct {
	IATA string `json:"iata"`
}

type adbMovement struct {
	Airport       adbAirport `json:"airport"`
	ScheduledTime adbTime    `json:"scheduledTime"`
}

type adbAirport struct {
	IATA     string `json:"iata"`
	TimeZone string `json:"timeZone"`
}

type adbTime struct {
	Local string `json:"local"`
}

type adbAircraft struct {
	Model string `json:"model"`
}

// LookupFlight fetches the scheduled flight for a date. A provider
// no-match (404 or empty body) returns nil without error.
func (c *AeroDataBoxClient) LookupFlight(ctx context.Context, carrier, number string, date time.Time) (*models.Itinerary, *CallStats, error) {
	endpoint := fmt.Sprintf("/flights/number/%s%s/%s", carrier, number, date.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, nil, apperr.ProviderUnavailable("build request", NewProviderError(c.Name(), err))
	}
	req.Header.Set("x-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, apperr.ProviderUnavailable("schedule provider unreachable", NewProviderError(c.Name(), err))
	}
	defer resp.Body.Close()

	stats := &CallStats{
		Provider:   c.Name(),
		Endpoint:   "/flights/number",
		Params:     fmt.Sprintf("carrier=%s number=%s date=%s", carrier, number, date.Format("2006-01-02")),
		StatusCode: resp.StatusCode,
		DurationMs: time.Since(start).Milliseconds(),
	}

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
		c.log.Debug("schedule lookup no match",
			"carrier", carrier, "number", number, "date", date.Format("2006-01-02"))
		return nil, stats, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, stats, apperr.ProviderUnavailable(
			fmt.Sprintf("schedule provider returned %d", resp.StatusCode),
			NewProviderError(c.Name(), &StatusError{Code: resp.StatusCode}))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, stats, apperr.ProviderUnavailable("read response", NewProviderError(c.Name(), err))
	}

	var flights []adbFlight
	if err := json.Unmarshal(body, &flights); err != nil {
		return nil, stats, apperr.ProviderUnavailable("malformed schedule payload", NewProviderError(c.Name(), err))
	}
	if len(flights) == 0 {
		return nil, stats, nil
	}

	it, err := c.normalizeFlight(flights[0], carrier, number)
	if err != nil {
		return nil, stats, apperr.Parse("unparseable schedule item", err)
	}
	return &it, stats, nil
}

func (c *AeroDataBoxClient) normalizeFlight(f adbFlight, carrier, number string) (models.Itinerary, error) {
	origin := f.Departure.Airport.IATA
	dest := f.Arrival.Airport.IATA

	dep, err := parseSegmentTime(f.Departure.ScheduledTime.Local, origin)
	if err != nil {
		return models.Itinerary{}, fmt.Errorf("departure time: %w", err)
	}
	arr, err := parseSegmentTime(f.Arrival.ScheduledTime.Local, dest)
	if err != nil {
		return models.Itinerary{}, fmt.Errorf("arrival time: %w", err)
	}

	airline := f.Airline.IATA
	if airline == "" {
		airline = carrier
	}

	originTZ := f.Departure.Airport.TimeZone
	if originTZ == "" {
		originTZ = circadian.TimezoneForAirport(origin)
	}
	destTZ := f.Arrival.Airport.TimeZone
	if destTZ == "" {
		destTZ = circadian.TimezoneForAirport(dest)
	}

	it := models.Itinerary{
		ID:       scheduledFlightID(carrier, number, dep),
		Provider: c.Name(),
		Segments: []models.Segment{{
			Airline:             airline,
			FlightNumber:        number,
			Aircraft:            f.Aircraft.Model,
			Origin:              origin,
			Destination:         dest,
			DepartureLocal:      dep,
			ArrivalLocal:        arr,
			OriginTimezone:      originTZ,
			DestinationTimezone: destTZ,
		}},
		Duration: arr.Sub(dep),
		Stops:    0,
	}
	if err := it.Validate(); err != nil {
		return models.Itinerary{}, err
	}
	return it, nil
}

func scheduledFlightID(carrier, number string, dep time.Time) string {
	return fmt.Sprintf("%s%s-%s", carrier, number, dep.Format("20060102"))
}
