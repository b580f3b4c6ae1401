package session

import (
	"net/url"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"

	"privacyguard/classify"
	"privacyguard/cookiesync"
	"privacyguard/domain"
	"privacyguard/logger"
	"privacyguard/stats"
)

// cookieExpiryRe detects persistent cookies: a Max-Age or Expires attribute
// in a Set-Cookie header value, case-insensitive.
var cookieExpiryRe = regexp.MustCompile(`(?i);\s*(max-age|expires)\s*=`)

// CookieSource is the cookie-store collaborator: it returns the cookie
// names and values currently visible for a page origin.
type CookieSource interface {
	Cookies(origin string) (names []string, values []string, err error)
}

// Manager owns the session table and applies the per-session event stream.
//
// Different sessions may be mutated in parallel; events for one session are
// serialized by a per-session lock. Unknown session ids make every mutator a
// no-op since the session may have been torn down mid-flight.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	classifier   *classify.Classifier
	globalStats  *stats.Stats
	cookieSource CookieSource
}

type entry struct {
	mu sync.Mutex
	s  Session
}

// NewManager creates a session manager. globalStats may be nil.
func NewManager(classifier *classify.Classifier, globalStats *stats.Stats) *Manager {
	return &Manager{
		sessions:    make(map[string]*entry),
		classifier:  classifier,
		globalStats: globalStats,
	}
}

// SetCookieSource wires the cookie-store collaborator used to refresh the
// known-cookie snapshot on navigation.
func (m *Manager) SetCookieSource(src CookieSource) {
	m.cookieSource = src
}

// Open creates a session for a top-level page and returns its id.
func (m *Manager) Open(topURL string) string {
	id := uuid.NewString()
	m.Navigate(id, topURL)
	return id
}

// Navigate resets all session state for a navigation to a new top-level
// page. The session is created if it does not exist yet.
func (m *Manager) Navigate(id, topURL string) {
	topDomain := ""
	origin := ""
	if u, err := url.Parse(topURL); err == nil && u.Hostname() != "" {
		topDomain = domain.BaseDomain(u.Hostname())
		origin = u.Scheme + "://" + u.Host
	}

	m.mu.Lock()
	e, ok := m.sessions[id]
	if !ok {
		e = &entry{}
		m.sessions[id] = e
	}
	m.mu.Unlock()

	e.mu.Lock()
	e.s = newSession(id, topURL, topDomain)
	e.mu.Unlock()

	if m.cookieSource != nil && origin != "" {
		names, values, err := m.cookieSource.Cookies(origin)
		if err != nil {
			logger.Debugf("[session] cookie snapshot for %s failed: %v", origin, err)
			return
		}
		m.SetCookieSnapshot(id, names, values)
	}
}

// Close destroys a session.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Stats returns a deep-copy snapshot of the session, or false when the id
// is unknown.
func (m *Manager) Stats(id string) (Session, bool) {
	e, ok := m.lookup(id)
	if !ok {
		return Session{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.s.snapshot(), true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// OnRequest classifies one observed request and applies its side effects.
// The returned decision is the contract the interception collaborator
// enforces: true means block.
func (m *Manager) OnRequest(id, rawURL, resourceType string) bool {
	e, ok := m.lookup(id)
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	s := &e.s

	res := m.classifier.Classify(rawURL, s.TopDomain, resourceType)
	if m.globalStats != nil {
		m.globalStats.IncRequests()
	}

	if res.ThirdParty {
		s.ThirdPartyConnections[res.BaseDomain]++
		// 第三方请求才做 cookie 同步检测
		if ev := cookiesync.Inspect(s.KnownCookies, rawURL); ev != nil {
			s.logCookieSync(*ev)
			if m.globalStats != nil {
				m.globalStats.IncCookieSyncs()
			}
		}
	}

	blocked := false
	if res.Tracker {
		key := res.BaseDomain
		if key == "" {
			key = res.Host
		}
		if key == "" {
			key = res.MatchedDomain
		}
		if key == "" {
			key = "unknown"
		}
		s.BlockedTrackers[key]++
		if res.ThirdParty {
			s.BlockedTrackersThird[key]++
		} else {
			s.BlockedTrackersFirst[key]++
		}
		s.logRequest(RequestEntry{URL: rawURL, Type: resourceType, Action: "blocked"})
		if m.globalStats != nil {
			m.globalStats.RecordBlock(key)
		}
		blocked = true
	} else {
		if res.ThirdParty && resourceType == "script" {
			// heuristic proxy for unvetted third-party code execution
			s.HookRiskEvents++
		}
		action := "allowed"
		if res.ThirdParty {
			action = "allowed-3p"
		}
		s.logRequest(RequestEntry{URL: rawURL, Type: resourceType, Action: action})
	}

	m.recompute(s)
	return blocked
}

// OnResponseHeaders counts Set-Cookie headers on a response, splitting
// session/persistent and first/third-party.
func (m *Manager) OnResponseHeaders(id, rawURL string, setCookie []string) {
	if len(setCookie) == 0 {
		return
	}
	e, ok := m.lookup(id)
	if !ok {
		return
	}

	respBase := ""
	if u, err := url.Parse(rawURL); err == nil {
		respBase = domain.BaseDomain(u.Hostname())
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	s := &e.s

	firstParty := s.TopDomain != "" && respBase == s.TopDomain

	s.SetCookieCount += int64(len(setCookie))
	for _, value := range setCookie {
		if cookieExpiryRe.MatchString(value) {
			s.PersistentCookieSets++
		} else {
			s.SessionCookieSets++
		}
	}
	if firstParty {
		s.FirstPartyCookieSets += int64(len(setCookie))
	} else {
		s.ThirdPartyCookieSets += int64(len(setCookie))
	}

	m.recompute(s)
}

// OnRequestHeaders records whether an outgoing request carried a Cookie
// header.
func (m *Manager) OnRequestHeaders(id string, hasCookie bool) {
	if !hasCookie {
		return
	}
	e, ok := m.lookup(id)
	if !ok {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.s.CookieHeaderCount++
	m.recompute(&e.s)
}

// OnStorageReport stores the latest storage footprint snapshot.
func (m *Manager) OnStorageReport(id string, report StorageReport) {
	e, ok := m.lookup(id)
	if !ok {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.s.Storage = report
	m.recompute(&e.s)
}

// OnCanvasFingerprint records one canvas-readout fingerprinting event.
func (m *Manager) OnCanvasFingerprint(id string) {
	e, ok := m.lookup(id)
	if !ok {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.s.CanvasFingerprintEvents++
	m.recompute(&e.s)
}

// SetCookieSnapshot replaces the known-cookie snapshot for the active page.
func (m *Manager) SetCookieSnapshot(id string, names, values []string) {
	e, ok := m.lookup(id)
	if !ok {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.s.KnownCookies = cookiesync.NewSnapshot(names, values)
	e.s.UpdatedAt = time.Now()
}

func (m *Manager) lookup(id string) (*entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	return e, ok
}

// recompute re-derives the privacy score. Called synchronously after every
// counter mutation so the score is never stale by more than one event.
func (m *Manager) recompute(s *Session) {
	s.PrivacyScore = Score(s)
	s.UpdatedAt = time.Now()
}
