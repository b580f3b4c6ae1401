// Package cookiesync flags likely cross-site identifier sharing by matching
// URL query parameters of third-party requests against the cookies known for
// the active page.
//
// This is a heuristic. Long opaque parameters can produce false positives and
// hashed or otherwise obfuscated identifiers produce false negatives.
package cookiesync

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

// minValueLength filters out trivial/boolean-like values on both sides of
// the comparison.
const minValueLength = 8

// maxHitsPerEvent caps how many matches a single event records.
const maxHitsPerEvent = 3

// suspiciousKeyRe matches common identifier-style parameter names
// (session/user/device/click/advertising ids).
var suspiciousKeyRe = regexp.MustCompile(`(?i)(sid|session|uid|userid|user_id|guid|cid|clientid|deviceid|did|aid|adid|ga|_ga|fbp|fbc)`)

// MatchKind 命中类型
type MatchKind string

const (
	MatchName       MatchKind = "name-match"
	MatchValue      MatchKind = "value-match"
	MatchSuspicious MatchKind = "suspicious-param"
)

// Hit is one matched query parameter.
type Hit struct {
	Kind  MatchKind `json:"kind"`
	Key   string    `json:"key"`
	Value string    `json:"value"`
}

// Event records one suspected cookie-sync request. Immutable once created.
type Event struct {
	URL     string    `json:"url"`
	Matches []Hit     `json:"matches"`
	Time    time.Time `json:"time"`
}

// Snapshot holds the cookie names and values currently known for the active
// page. Values shorter than minValueLength must be dropped when building it.
type Snapshot struct {
	Names  map[string]struct{}
	Values map[string]struct{}
}

// NewSnapshot builds a Snapshot from raw cookie names and values, applying
// the minimum value length filter.
func NewSnapshot(names, values []string) Snapshot {
	s := Snapshot{
		Names:  make(map[string]struct{}, len(names)),
		Values: make(map[string]struct{}, len(values)),
	}
	for _, n := range names {
		if n != "" {
			s.Names[n] = struct{}{}
		}
	}
	for _, v := range values {
		if len(v) >= minValueLength {
			s.Values[v] = struct{}{}
		}
	}
	return s
}

// Inspect checks the query parameters of a third-party request URL against
// the known-cookie snapshot. It returns an Event with up to the first three
// hits, or nil when nothing matched. URL parse failure is a no-op.
//
// Parameters are walked in URL order so "first three hits" is deterministic.
func Inspect(snap Snapshot, rawURL string) *Event {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}

	var hits []Hit
	for _, p := range queryParams(u.RawQuery) {
		if len(p.value) < minValueLength {
			continue
		}
		if _, ok := snap.Names[p.key]; ok {
			hits = append(hits, Hit{Kind: MatchName, Key: p.key, Value: p.value})
		}
		if _, ok := snap.Values[p.value]; ok {
			hits = append(hits, Hit{Kind: MatchValue, Key: p.key, Value: p.value})
		}
		if suspiciousKeyRe.MatchString(p.key) {
			hits = append(hits, Hit{Kind: MatchSuspicious, Key: p.key, Value: p.value})
		}
	}
	if len(hits) == 0 {
		return nil
	}
	if len(hits) > maxHitsPerEvent {
		hits = hits[:maxHitsPerEvent]
	}
	return &Event{URL: rawURL, Matches: hits, Time: time.Now()}
}

type queryParam struct {
	key   string
	value string
}

// queryParams decodes key/value pairs preserving their order of appearance.
// Pairs that fail to decode are skipped.
func queryParams(rawQuery string) []queryParam {
	var params []queryParam
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			continue
		}
		params = append(params, queryParam{key: key, value: value})
	}
	return params
}
