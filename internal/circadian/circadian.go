// Package circadian derives the timezone-shift context that drives jetlag
// scoring: shift magnitude, travel direction, dateline crossing, and the
// local clock hours at each end of a journey.
package circadian

import (
	"fmt"
	"time"

	"github.com/kurosh87/optimalflight/internal/models"
)

// Direction of the body-clock shift.
type Direction string

const (
	Eastbound Direction = "eastbound"
	Westbound Direction = "westbound"
	Neutral   Direction = "neutral"
)

// Shifts of two hours or less barely register circadianly.
const neutralShiftHours = 2.0

// Context describes the circadian geometry of one journey.
type Context struct {
	ShiftHours      float64   `json:"shift_hours"`
	Direction       Direction `json:"direction"`
	CrossesDateline bool      `json:"crosses_dateline"`
	DepartureHour   int       `json:"departure_hour"` // 0-23, origin local
	ArrivalHour     int       `json:"arrival_hour"`   // 0-23, destination local
}

// ComputeContext builds the circadian context from IANA timezone names and
// the travel instants. UTC offsets are evaluated at the instant of travel,
// so daylight-saving state on that date is honored.
func ComputeContext(originTZ, destTZ string, departure, arrival time.Time) (Context, error) {
	originLoc, err := time.LoadLocation(originTZ)
	if err != nil {
		return Context{}, fmt.Errorf("load origin timezone %q: %w", originTZ, err)
	}
	destLoc, err := time.LoadLocation(destTZ)
	if err != nil {
		return Context{}, fmt.Errorf("load destination timezone %q: %w", destTZ, err)
	}

	_, originOffset := departure.In(originLoc).Zone()
	_, destOffset := arrival.In(destLoc).Zone()

	shiftHours := float64(destOffset-originOffset) / 3600

	direction := Neutral
	abs := shiftHours
	if abs < 0 {
		abs = -abs
	}
	if abs > neutralShiftHours {
		if shiftHours > 0 {
			direction = Eastbound
		} else {
			direction = Westbound
		}
	}

	return Context{
		ShiftHours:    abs,
		Direction:     direction,
		DepartureHour: departure.In(originLoc).Hour(),
		ArrivalHour:   arrival.In(destLoc).Hour(),
	}, nil
}

// CrossesDateline applies the longitude heuristic: the journey crosses the
// antimeridian when the endpoints sit on opposite extremes.
func CrossesDateline(originAirport, destAirport string) bool {
	originLon, ok := LongitudeForAirport(originAirport)
	if !ok {
		return false
	}
	destLon, ok := LongitudeForAirport(destAirport)
	if !ok {
		return false
	}
	return (originLon > 150 && destLon < -150) || (originLon < -150 && destLon > 150)
}

// ForItinerary computes the end-to-end context for a canonical itinerary,
// resolving timezones from segment metadata or the airport table.
func ForItinerary(it models.Itinerary) (Context, error) {
	first := it.First()
	last := it.Last()

	originTZ := first.OriginTimezone
	if originTZ == "" {
		originTZ = TimezoneForAirport(first.Origin)
	}
	destTZ := last.DestinationTimezone
	if destTZ == "" {
		destTZ = TimezoneForAirport(last.Destination)
	}
	if originTZ == "" || destTZ == "" {
		return Context{}, fmt.Errorf("no timezone known for %s-%s", first.Origin, last.Destination)
	}

	ctx, err := ComputeContext(originTZ, destTZ, first.DepartureLocal, last.ArrivalLocal)
	if err != nil {
		return Context{}, err
	}
	ctx.CrossesDateline = CrossesDateline(first.Origin, last.Destination)
	return ctx, nil
}
