package admin

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/finboard/cachectl/internal/jsonx"
)

// AllKey is the pseudo-key addressing every cache at once. The backend
// accepts it as a refresh target; clearing all caches is not exposed.
const AllKey = "all"

// Timestamp is a moment in time as reported by the backend, which emits
// either integer epoch milliseconds or an RFC 3339 string depending on the
// field and server version. It marshals back out as RFC 3339.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON accepts null, epoch milliseconds (integer or float), and
// RFC 3339 strings.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		t.Time = time.Time{}
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var raw string
		if err := jsonx.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parsing timestamp: %w", err)
		}
		if raw == "" {
			t.Time = time.Time{}
			return nil
		}
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("parsing timestamp %q: %w", raw, err)
		}
		t.Time = parsed
		return nil
	}
	millis, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("parsing timestamp %s: not epoch millis or RFC 3339", s)
		}
		millis = int64(f)
	}
	t.Time = time.UnixMilli(millis).UTC()
	return nil
}

// MarshalJSON emits the timestamp as an RFC 3339 string.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return jsonx.Marshal(t.Time.Format(time.RFC3339))
}

// Entry is the reported state of one server-side cache partition.
type Entry struct {
	// Count is the number of items currently held.
	Count int `json:"count"`

	// LastUpdated is when the cache was last populated. Nil means never.
	LastUpdated *Timestamp `json:"last_updated,omitempty"`

	// CacheDurationMinutes is the configured validity window.
	CacheDurationMinutes int `json:"cache_duration_minutes"`

	// CleanupRunAt is when the last eviction pass ran, if any.
	CleanupRunAt *Timestamp `json:"cleanup_run_at,omitempty"`

	// RemovedCount is the number of items removed by the last eviction
	// pass. Nil when no pass has been reported.
	RemovedCount *int `json:"removed_count,omitempty"`
}

// Stale reports whether the entry's contents have outlived the configured
// validity window as of now. Entries that were never populated are not
// considered stale.
func (e Entry) Stale(now time.Time) bool {
	if e.LastUpdated == nil || e.LastUpdated.IsZero() || e.CacheDurationMinutes <= 0 {
		return false
	}
	window := time.Duration(e.CacheDurationMinutes) * time.Minute
	return now.Sub(e.LastUpdated.Time) > window
}

// Snapshot is the full set of cache entries reported by the status endpoint
// at one instant, keyed by cache key. Treated as immutable after decoding:
// updates replace the whole map.
type Snapshot map[string]Entry

// DecodeSnapshot parses a status-endpoint response body.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := jsonx.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding cache status: %w", err)
	}
	return snap, nil
}

// Keys returns the cache keys in sorted order for stable rendering.
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TotalCount sums item counts across all caches.
func (s Snapshot) TotalCount() int {
	total := 0
	for _, e := range s {
		total += e.Count
	}
	return total
}
