package models

import (
	"errors"
	"fmt"
	"time"
)

// Segment is one operated leg: single carrier, single aircraft, one
// origin/destination pair. Times are in each endpoint's local timezone.
type Segment struct {
	Airline             string    `json:"airline"`
	FlightNumber        string    `json:"flight_number,omitempty"`
	Aircraft            string    `json:"aircraft,omitempty"`
	Origin              string    `json:"origin"`
	Destination         string    `json:"destination"`
	DepartureLocal      time.Time `json:"departure_local"`
	ArrivalLocal        time.Time `json:"arrival_local"`
	OriginTimezone      string    `json:"origin_timezone,omitempty"`
	DestinationTimezone string    `json:"destination_timezone,omitempty"`
}

// Layover is the gap between consecutive segments of one itinerary.
type Layover struct {
	Airport  string        `json:"airport"`
	Duration time.Duration `json:"duration"`
}

// Itinerary is one priced travel option in canonical form. Segments are
// ordered and non-empty; segment N's destination equals segment N+1's origin.
type Itinerary struct {
	ID          string        `json:"id"`
	Provider    string        `json:"provider"`
	Segments    []Segment     `json:"segments"`
	Duration    time.Duration `json:"duration"`
	Stops       int           `json:"stops"`
	CabinClass  string        `json:"cabin_class,omitempty"`
	Layovers    []Layover     `json:"layovers,omitempty"`
	Price       float64       `json:"price"`
	Currency    string        `json:"currency"`
	BookingLink string        `json:"booking_link,omitempty"`
}

// Validate checks the canonical-shape invariants: a non-empty ordered
// segment chain where each segment hands off to the next, and exactly one
// layover per internal boundary.
func (it Itinerary) Validate() error {
	if len(it.Segments) == 0 {
		return errors.New("itinerary has no segments")
	}
	for i := 1; i < len(it.Segments); i++ {
		if it.Segments[i-1].Destination != it.Segments[i].Origin {
			return fmt.Errorf("segment %d arrives at %s but segment %d departs %s",
				i-1, it.Segments[i-1].Destination, i, it.Segments[i].Origin)
		}
	}
	if len(it.Layovers) != len(it.Segments)-1 {
		return fmt.Errorf("expected %d layovers, have %d", len(it.Segments)-1, len(it.Layovers))
	}
	return nil
}

// First returns the initial segment; callers must not pass an empty itinerary.
func (it Itinerary) First() Segment {
	return it.Segments[0]
}

// Last returns the final segment.
func (it Itinerary) Last() Segment {
	return it.Segments[len(it.Segments)-1]
}

// DeriveLayovers recomputes layovers from consecutive segment boundaries.
func (it *Itinerary) DeriveLayovers() {
	if len(it.Segments) < 2 {
		it.Layovers = nil
		return
	}
	layovers := make([]Layover, 0, len(it.Segments)-1)
	for i := 1; i < len(it.Segments); i++ {
		layovers = append(layovers, Layover{
			Airport:  it.Segments[i].Origin,
			Duration: it.Segments[i].DepartureLocal.Sub(it.Segments[i-1].ArrivalLocal),
		})
	}
	it.Layovers = layovers
}

// ScoredFlight is an itinerary with its jetlag assessment and its 1-based
// dense rank within the result batch. Rank is 0 for singleton lookups.
type ScoredFlight struct {
	Itinerary      Itinerary   `json:"itinerary"`
	PriceFormatted string      `json:"price_formatted,omitempty"`
	Score          ScoreResult `json:"score"`
	Rank           int         `json:"rank,omitempty"`
}
