package circadian

import (
	"strings"
	"time"
)

type airportInfo struct {
	Timezone  string
	Longitude float64
}

// Major airports served by the discovery providers. Longitude is used for
// the dateline heuristic, timezone for local clock math.
var airports = map[string]airportInfo{
	// North America
	"JFK": {"America/New_York", -73.78},
	"EWR": {"America/New_York", -74.17},
	"BOS": {"America/New_York", -71.01},
	"IAD": {"America/New_York", -77.46},
	"ATL": {"America/New_York", -84.43},
	"MIA": {"America/New_York", -80.29},
	"ORD": {"America/Chicago", -87.90},
	"DFW": {"America/Chicago", -97.04},
	"IAH": {"America/Chicago", -95.34},
	"MSP": {"America/Chicago", -93.22},
	"DEN": {"America/Denver", -104.67},
	"PHX": {"America/Phoenix", -112.01},
	"LAX": {"America/Los_Angeles", -118.41},
	"SFO": {"America/Los_Angeles", -122.38},
	"SEA": {"America/Los_Angeles", -122.31},
	"LAS": {"America/Los_Angeles", -115.15},
	"ANC": {"America/Anchorage", -149.99},
	"HNL": {"Pacific/Honolulu", -157.92},
	"YVR": {"America/Vancouver", -123.18},
	"YYZ": {"America/Toronto", -79.63},
	"MEX": {"America/Mexico_City", -99.07},

	// South America
	"GRU": {"America/Sao_Paulo", -46.47},
	"EZE": {"America/Argentina/Buenos_Aires", -58.54},
	"BOG": {"America/Bogota", -74.15},
	"LIM": {"America/Lima", -77.11},
	"SCL": {"America/Santiago", -70.79},

	// Europe
	"LHR": {"Europe/London", -0.46},
	"LGW": {"Europe/London", -0.19},
	"DUB": {"Europe/Dublin", -6.27},
	"CDG": {"Europe/Paris", 2.55},
	"AMS": {"Europe/Amsterdam", 4.76},
	"FRA": {"Europe/Berlin", 8.57},
	"MUC": {"Europe/Berlin", 11.79},
	"ZRH": {"Europe/Zurich", 8.56},
	"VIE": {"Europe/Vienna", 16.57},
	"MAD": {"Europe/Madrid", -3.57},
	"BCN": {"Europe/Madrid", 2.08},
	"LIS": {"Europe/Lisbon", -9.13},
	"FCO": {"Europe/Rome", 12.25},
	"CPH": {"Europe/Copenhagen", 12.66},
	"ARN": {"Europe/Stockholm", 17.92},
	"OSL": {"Europe/Oslo", 11.10},
	"HEL": {"Europe/Helsinki", 24.96},
	"IST": {"Europe/Istanbul", 28.75},

	// Middle East / Africa
	"DXB": {"Asia/Dubai", 55.36},
	"AUH": {"Asia/Dubai", 54.65},
	"DOH": {"Asia/Qatar", 51.61},
	"TLV": {"Asia/Jerusalem", 34.89},
	"CAI": {"Africa/Cairo", 31.41},
	"JNB": {"Africa/Johannesburg", 28.25},
	"CPT": {"Africa/Johannesburg", 18.60},
	"NBO": {"Africa/Nairobi", 36.93},
	"ADD": {"Africa/Addis_Ababa", 38.80},

	// Asia
	"DEL": {"Asia/Kolkata", 77.10},
	"BOM": {"Asia/Kolkata", 72.87},
	"BKK": {"Asia/Bangkok", 100.75},
	"SIN": {"Asia/Singapore", 103.99},
	"KUL": {"Asia/Kuala_Lumpur", 101.71},
	"CGK": {"Asia/Jakarta", 106.66},
	"DPS": {"Asia/Makassar", 115.17},
	"HKG": {"Asia/Hong_Kong", 113.91},
	"PVG": {"Asia/Shanghai", 121.81},
	"PEK": {"Asia/Shanghai", 116.59},
	"CAN": {"Asia/Shanghai", 113.30},
	"TPE": {"Asia/Taipei", 121.23},
	"ICN": {"Asia/Seoul", 126.45},
	"NRT": {"Asia/Tokyo", 140.39},
	"HND": {"Asia/Tokyo", 139.78},
	"KIX": {"Asia/Tokyo", 135.24},
	"MNL": {"Asia/Manila", 121.02},

	// Oceania
	"SYD": {"Australia/Sydney", 151.18},
	"MEL": {"Australia/Melbourne", 144.84},
	"BNE": {"Australia/Brisbane", 153.12},
	"PER": {"Australia/Perth", 115.97},
	"AKL": {"Pacific/Auckland", 174.79},
	"CHC": {"Pacific/Auckland", 172.53},
	"NAN": {"Pacific/Fiji", 177.44},
	"PPT": {"Pacific/Tahiti", -149.61},
}

// TimezoneForAirport returns the IANA timezone name for an airport code,
// or "" when the airport is unknown.
func TimezoneForAirport(code string) string {
	info, ok := airports[strings.ToUpper(code)]
	if !ok {
		return ""
	}
	return info.Timezone
}

// LocationForAirport loads the airport's *time.Location, falling back to
// UTC for unknown airports.
func LocationForAirport(code string) *time.Location {
	tz := TimezoneForAirport(code)
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LongitudeForAirport returns the airport longitude and whether it is known.
func LongitudeForAirport(code string) (float64, bool) {
	info, ok := airports[strings.ToUpper(code)]
	if !ok {
		return 0, false
	}
	return info.Longitude, true
}

// KnownAirport reports whether code is in the reference table.
func KnownAirport(code string) bool {
	_, ok := airports[strings.ToUpper(code)]
	return ok
}
