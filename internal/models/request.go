package models

// Flexibility controls how wide a date window the search covers.
type Flexibility string

const (
	FlexExact   Flexibility = "exact"
	FlexPlus3   Flexibility = "plus_minus_3"
	FlexPlus7   Flexibility = "plus_minus_7"
	FlexAnytime Flexibility = "anytime"
)

// WindowDays returns how many days past the target date the search window extends.
func (f Flexibility) WindowDays() int {
	switch f {
	case FlexPlus3:
		return 6
	case FlexPlus7:
		return 14
	case FlexAnytime:
		return 60
	default:
		return 0
	}
}

func (f Flexibility) Valid() bool {
	switch f {
	case FlexExact, FlexPlus3, FlexPlus7, FlexAnytime, "":
		return true
	}
	return false
}

// UserProfile carries the traveler attributes that shift recovery estimates.
// Both values run 1 (poor) to 5 (excellent); 3 is neutral.
type UserProfile struct {
	SleepQuality      int `json:"sleep_quality" validate:"omitempty,min=1,max=5"`
	AdaptabilityLevel int `json:"adaptability_level" validate:"omitempty,min=1,max=5"`
}

type SearchRequest struct {
	Origin           string       `json:"origin" validate:"required,min=3"`
	Destination      string       `json:"destination" validate:"required,min=3"`
	DepartureDate    string       `json:"departure_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Flexibility      Flexibility  `json:"flexibility,omitempty"`
	MaxStops         *int         `json:"max_stops,omitempty" validate:"omitempty,min=0,max=3"`
	PreferDirect     bool         `json:"prefer_direct,omitempty"`
	MaxDurationHours *int         `json:"max_duration_hours,omitempty" validate:"omitempty,min=1"`
	UserProfile      *UserProfile `json:"user_profile,omitempty"`
}

type FlightLookupRequest struct {
	Carrier      string `json:"carrier" validate:"required,len=2"`
	FlightNumber string `json:"flight_number" validate:"required,numeric"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
}
