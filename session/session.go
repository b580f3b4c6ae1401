// Package session owns per-session tracking state: counters, the bounded
// recent-request log, the cookie-sync event log and the derived privacy
// score. One Session exists per top-level browsing context.
package session

import (
	"time"

	"privacyguard/cookiesync"
)

// maxRecentRequests 最近请求日志的上限（FIFO 淘汰）
const maxRecentRequests = 50

// maxCookieSyncEvents bounds the rolling cookie-sync log; most-recent-last.
const maxCookieSyncEvents = 20

// StorageArea is a snapshot of one web-storage area.
type StorageArea struct {
	Keys  int   `json:"keys"`
	Bytes int64 `json:"bytes"`
}

// IDBReport is a snapshot of IndexedDB usage.
type IDBReport struct {
	DBs int `json:"dbs"`
}

// StorageReport is the storage footprint delivered by the probing
// collaborator.
type StorageReport struct {
	Local   StorageArea `json:"local"`
	Session StorageArea `json:"session"`
	IDB     IDBReport   `json:"idb"`
}

// RequestEntry is one line of the recent-request log.
type RequestEntry struct {
	URL    string `json:"url"`
	Type   string `json:"type"`
	Action string `json:"action"` // blocked | allowed | allowed-3p
}

// Session holds all mutable state for one browsing context. All fields are
// guarded by the owning manager; the struct itself carries no locks so
// snapshots are plain value copies.
type Session struct {
	ID        string `json:"id"`
	TopURL    string `json:"top_url"`
	TopDomain string `json:"top_domain"`

	ThirdPartyConnections map[string]int64 `json:"third_party_connections"`
	BlockedTrackers       map[string]int64 `json:"blocked_trackers"`
	BlockedTrackersFirst  map[string]int64 `json:"blocked_trackers_first"`
	BlockedTrackersThird  map[string]int64 `json:"blocked_trackers_third"`

	SetCookieCount       int64 `json:"set_cookie_count"`
	SessionCookieSets    int64 `json:"session_cookie_sets"`
	PersistentCookieSets int64 `json:"persistent_cookie_sets"`
	CookieHeaderCount    int64 `json:"cookie_header_count"`
	FirstPartyCookieSets int64 `json:"first_party_cookie_sets"`
	ThirdPartyCookieSets int64 `json:"third_party_cookie_sets"`

	HookRiskEvents          int64 `json:"hook_risk_events"`
	CanvasFingerprintEvents int64 `json:"canvas_fingerprint_events"`

	Storage StorageReport `json:"storage"`

	Requests         []RequestEntry     `json:"requests"`
	CookieSyncEvents []cookiesync.Event `json:"cookie_sync_events"`

	KnownCookies cookiesync.Snapshot `json:"-"`

	PrivacyScore int       `json:"privacy_score"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// newSession returns a fresh Session for a navigation target.
func newSession(id, topURL, topDomain string) Session {
	return Session{
		ID:                    id,
		TopURL:                topURL,
		TopDomain:             topDomain,
		ThirdPartyConnections: make(map[string]int64),
		BlockedTrackers:       make(map[string]int64),
		BlockedTrackersFirst:  make(map[string]int64),
		BlockedTrackersThird:  make(map[string]int64),
		KnownCookies:          cookiesync.NewSnapshot(nil, nil),
		PrivacyScore:          100,
		UpdatedAt:             time.Now(),
	}
}

// logRequest appends to the recent-request ring, dropping the oldest entry
// beyond the cap.
func (s *Session) logRequest(e RequestEntry) {
	s.Requests = append(s.Requests, e)
	if len(s.Requests) > maxRecentRequests {
		s.Requests = s.Requests[1:]
	}
}

// logCookieSync appends to the rolling cookie-sync log, most-recent-last.
func (s *Session) logCookieSync(e cookiesync.Event) {
	s.CookieSyncEvents = append(s.CookieSyncEvents, e)
	if len(s.CookieSyncEvents) > maxCookieSyncEvents {
		s.CookieSyncEvents = s.CookieSyncEvents[1:]
	}
}

// snapshot returns a deep copy safe to hand to the UI collaborator.
func (s *Session) snapshot() Session {
	out := *s
	out.ThirdPartyConnections = copyCounts(s.ThirdPartyConnections)
	out.BlockedTrackers = copyCounts(s.BlockedTrackers)
	out.BlockedTrackersFirst = copyCounts(s.BlockedTrackersFirst)
	out.BlockedTrackersThird = copyCounts(s.BlockedTrackersThird)
	out.Requests = append([]RequestEntry(nil), s.Requests...)
	out.CookieSyncEvents = append([]cookiesync.Event(nil), s.CookieSyncEvents...)
	out.KnownCookies = cookiesync.Snapshot{}
	return out
}

func copyCounts(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func sumCounts(m map[string]int64) int64 {
	var total int64
	for _, v := range m {
		total += v
	}
	return total
}
