package models

import "time"

type SearchMetadata struct {
	TotalResults int    `json:"total_results"`
	Provider     string `json:"provider"`
	SearchTimeMs int64  `json:"search_time_ms"`
	CacheHit     bool   `json:"cache_hit"`
}

type SearchResponse struct {
	Criteria SearchRequest  `json:"search_criteria"`
	Metadata SearchMetadata `json:"metadata"`
	Flights  []ScoredFlight `json:"flights"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// CacheEntry is the persisted form of one completed search. Entries are
// immutable; an identical query later writes a fresh entry over this one.
type CacheEntry struct {
	QueryHash        string         `json:"query_hash"`
	Origin           string         `json:"origin"`
	Destination      string         `json:"destination"`
	Date             string         `json:"date"`
	Flexibility      Flexibility    `json:"flexibility"`
	Provider         string         `json:"provider"`
	Results          []ScoredFlight `json:"results"`
	ResultCount      int            `json:"result_count"`
	SearchDurationMs int64          `json:"search_duration_ms"`
	CreatedAt        time.Time      `json:"created_at"`
	ExpiresAt        time.Time      `json:"expires_at"`
}

// Expired reports whether the entry is past its absolute expiry and must
// be treated as a miss.
func (e CacheEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// UsageRecord is one provider call, persisted for quota and cost tracking.
type UsageRecord struct {
	ID            string    `json:"id"`
	Provider      string    `json:"provider"`
	Endpoint      string    `json:"endpoint"`
	RequestParams string    `json:"request_params"`
	StatusCode    int       `json:"status_code"`
	DurationMs    int64     `json:"duration_ms"`
	Credits       *int      `json:"credits,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
