package providers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kurosh87/optimalflight/internal/circadian"
	"github.com/kurosh87/optimalflight/internal/models"
)

// The discovery feed mixes two item shapes. routedItem carries an ordered
// multi-leg route array; flatItem is a legacy single-leg record with the
// leg fields inlined. The presence of a non-empty "route" array is the
// structural marker that selects the normalizer.

type kiwiRoutedItem struct {
	ID       string        `json:"id"`
	Route    []kiwiLeg     `json:"route"`
	Duration *kiwiDuration `json:"duration"`
	Price    float64       `json:"price"`
	DeepLink string        `json:"deep_link"`
	Cabin    string        `json:"selected_cabins,omitempty"`
}

type kiwiLeg struct {
	Airline        string `json:"airline"`
	FlightNo       int    `json:"flight_no"`
	Equipment      string `json:"equipment"`
	FlyFrom        string `json:"flyFrom"`
	FlyTo          string `json:"flyTo"`
	LocalDeparture string `json:"local_departure"`
	LocalArrival   string `json:"local_arrival"`
}

type kiwiDuration struct {
	Total int `json:"total"` // seconds
}

type kiwiFlatItem struct {
	ID             string  `json:"id"`
	Airline        string  `json:"airline"`
	FlightNo       int     `json:"flight_no"`
	Equipment      string  `json:"equipment"`
	FlyFrom        string  `json:"flyFrom"`
	FlyTo          string  `json:"flyTo"`
	LocalDeparture string  `json:"local_departure"`
	LocalArrival   string  `json:"local_arrival"`
	DurationSec    int     `json:"duration"`
	Price          float64 `json:"price"`
	DeepLink       string  `json:"deep_link"`
	Cabin          string  `json:"selected_cabins,omitempty"`
}

// normalizeItem is the single dispatch point: it sniffs the structural
// marker and hands the item to the matching normalizer.
func (c *KiwiClient) normalizeItem(raw json.RawMessage, currency string) (models.Itinerary, error) {
	var probe struct {
		Route []json.RawMessage `json:"route"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return models.Itinerary{}, err
	}
	if len(probe.Route) > 0 {
		return c.normalizeRouted(raw, currency)
	}
	return c.normalizeFlat(raw, currency)
}

func (c *KiwiClient) normalizeRouted(raw json.RawMessage, currency string) (models.Itinerary, error) {
	var item kiwiRoutedItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return models.Itinerary{}, err
	}

	segments := make([]models.Segment, 0, len(item.Route))
	for _, leg := range item.Route {
		seg, err := normalizeLeg(leg)
		if err != nil {
			return models.Itinerary{}, err
		}
		segments = append(segments, seg)
	}

	it := models.Itinerary{
		ID:          item.ID,
		Provider:    c.Name(),
		Segments:    segments,
		Stops:       len(segments) - 1,
		CabinClass:  cabinFromCode(item.Cabin),
		Price:       item.Price,
		Currency:    currency,
		BookingLink: item.DeepLink,
	}
	it.DeriveLayovers()
	if item.Duration != nil && item.Duration.Total > 0 {
		it.Duration = time.Duration(item.Duration.Total) * time.Second
	} else {
		it.Duration = elapsedDuration(segments)
	}
	if err := it.Validate(); err != nil {
		return models.Itinerary{}, err
	}
	return it, nil
}

func (c *KiwiClient) normalizeFlat(raw json.RawMessage, currency string) (models.Itinerary, error) {
	var item kiwiFlatItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return models.Itinerary{}, err
	}

	seg, err := normalizeLeg(kiwiLeg{
		Airline:        item.Airline,
		FlightNo:       item.FlightNo,
		Equipment:      item.Equipment,
		FlyFrom:        item.FlyFrom,
		FlyTo:          item.FlyTo,
		LocalDeparture: item.LocalDeparture,
		LocalArrival:   item.LocalArrival,
	})
	if err != nil {
		return models.Itinerary{}, err
	}

	it := models.Itinerary{
		ID:          item.ID,
		Provider:    c.Name(),
		Segments:    []models.Segment{seg},
		Stops:       0,
		CabinClass:  cabinFromCode(item.Cabin),
		Price:       item.Price,
		Currency:    currency,
		BookingLink: item.DeepLink,
	}
	if item.DurationSec > 0 {
		it.Duration = time.Duration(item.DurationSec) * time.Second
	} else {
		it.Duration = elapsedDuration(it.Segments)
	}
	if err := it.Validate(); err != nil {
		return models.Itinerary{}, err
	}
	return it, nil
}

func normalizeLeg(leg kiwiLeg) (models.Segment, error) {
	if leg.Airline == "" || leg.FlyFrom == "" || leg.FlyTo == "" {
		return models.Segment{}, errors.New("leg missing airline or endpoints")
	}

	dep, err := parseSegmentTime(leg.LocalDeparture, leg.FlyFrom)
	if err != nil {
		return models.Segment{}, fmt.Errorf("departure time %q: %w", leg.LocalDeparture, err)
	}
	arr, err := parseSegmentTime(leg.LocalArrival, leg.FlyTo)
	if err != nil {
		return models.Segment{}, fmt.Errorf("arrival time %q: %w", leg.LocalArrival, err)
	}

	var flightNumber string
	if leg.FlightNo > 0 {
		flightNumber = strconv.Itoa(leg.FlightNo)
	}

	return models.Segment{
		Airline:             leg.Airline,
		FlightNumber:        flightNumber,
		Aircraft:            leg.Equipment,
		Origin:              leg.FlyFrom,
		Destination:         leg.FlyTo,
		DepartureLocal:      dep,
		ArrivalLocal:        arr,
		OriginTimezone:      circadian.TimezoneForAirport(leg.FlyFrom),
		DestinationTimezone: circadian.TimezoneForAirport(leg.FlyTo),
	}, nil
}

func elapsedDuration(segments []models.Segment) time.Duration {
	if len(segments) == 0 {
		return 0
	}
	return segments[len(segments)-1].ArrivalLocal.Sub(segments[0].DepartureLocal)
}

func cabinFromCode(code string) string {
	switch code {
	case "C":
		return "business"
	case "F":
		return "first"
	case "W":
		return "premium_economy"
	case "M", "":
		return "economy"
	default:
		return "economy"
	}
}
