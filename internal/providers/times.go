package providers

import (
	"time"

	"github.com/kurosh87/optimalflight/internal/circadian"
)

// Provider feeds disagree on timestamp formats; try the shapes we have
// seen in the wild before giving up.
var timeFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04Z",
	"2006-01-02 15:04",
}

// parseSegmentTime parses a provider timestamp and anchors it in the
// airport's local timezone. Formats without zone information are taken to
// already be airport-local.
func parseSegmentTime(value, airport string) (time.Time, error) {
	loc := circadian.LocationForAirport(airport)

	var lastErr error
	for _, format := range timeFormats {
		if hasZone(format) {
			if t, err := time.Parse(format, value); err == nil {
				return t.In(loc), nil
			} else {
				lastErr = err
			}
		} else {
			if t, err := time.ParseInLocation(format, value, loc); err == nil {
				return t, nil
			} else {
				lastErr = err
			}
		}
	}
	return time.Time{}, lastErr
}

func hasZone(format string) bool {
	for i := len(format) - 1; i >= 0; i-- {
		switch format[i] {
		case 'Z', '7':
			return true
		case 'T', ' ':
			return false
		}
	}
	return false
}
