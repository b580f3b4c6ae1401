package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"privacyguard/catalog"
	"privacyguard/classify"
	"privacyguard/config"
)

// fakeCookieSource 固定返回一组 cookie，用于导航时的快照刷新
type fakeCookieSource struct {
	names  []string
	values []string
}

func (f *fakeCookieSource) Cookies(origin string) ([]string, []string, error) {
	return f.names, f.values, nil
}

func newTestManager(t *testing.T, rules, block, allow []string) *Manager {
	t.Helper()

	cat, err := catalog.NewManager(&config.CatalogConfig{
		Enable:   true,
		Engine:   "simple",
		CacheDir: t.TempDir(),
	})
	require.NoError(t, err)
	require.NoError(t, cat.LoadRules(rules))

	lists := catalog.NewUserLists()
	rejected := lists.Set(block, allow)
	require.Empty(t, rejected)

	return NewManager(classify.New(cat, lists), nil)
}

func TestOnRequestBlocksCatalogTracker(t *testing.T) {
	m := newTestManager(t, []string{"||tracker.net^"}, nil, nil)
	id := m.Open("https://shop.example.com/checkout")

	blocked := m.OnRequest(id, "https://ads.tracker.net/pixel.gif", "image")
	assert.True(t, blocked)

	s, ok := m.Stats(id)
	require.True(t, ok)
	assert.Equal(t, "example.com", s.TopDomain)
	assert.Equal(t, int64(1), s.BlockedTrackers["tracker.net"])
	assert.Equal(t, int64(1), s.BlockedTrackersThird["tracker.net"])
	assert.Equal(t, int64(1), s.ThirdPartyConnections["tracker.net"])
	assert.Less(t, s.PrivacyScore, 100)

	require.Len(t, s.Requests, 1)
	assert.Equal(t, "blocked", s.Requests[0].Action)
}

func TestOnRequestAllowlistWinsOverCatalog(t *testing.T) {
	m := newTestManager(t, []string{"||tracker.net^"}, nil, []string{"tracker.net"})
	id := m.Open("https://shop.example.com/")

	blocked := m.OnRequest(id, "https://ads.tracker.net/pixel.gif", "image")
	assert.False(t, blocked)

	s, _ := m.Stats(id)
	assert.Empty(t, s.BlockedTrackers)
	require.Len(t, s.Requests, 1)
	assert.Equal(t, "allowed-3p", s.Requests[0].Action)
}

func TestOnRequestFirstPartyBlocklist(t *testing.T) {
	m := newTestManager(t, nil, []string{"shop.example.com"}, nil)
	id := m.Open("https://shop.example.com/")

	blocked := m.OnRequest(id, "https://www.shop.example.com/beacon", "xhr")
	assert.True(t, blocked)

	s, _ := m.Stats(id)
	assert.Equal(t, int64(1), s.BlockedTrackersFirst["example.com"])
	assert.Empty(t, s.BlockedTrackersThird)
	assert.Empty(t, s.ThirdPartyConnections)
}

func TestOnRequestHookRiskOnAllowedThirdPartyScript(t *testing.T) {
	m := newTestManager(t, nil, nil, nil)
	id := m.Open("https://shop.example.com/")

	m.OnRequest(id, "https://cdn.widgets.com/app.js", "script")
	m.OnRequest(id, "https://cdn.widgets.com/logo.png", "image")
	m.OnRequest(id, "https://shop.example.com/own.js", "script")

	s, _ := m.Stats(id)
	assert.Equal(t, int64(1), s.HookRiskEvents)
}

func TestOnRequestCookieSyncDetection(t *testing.T) {
	m := newTestManager(t, nil, nil, nil)
	m.SetCookieSource(&fakeCookieSource{
		names:  []string{"uid"},
		values: []string{"abc12345xyz"},
	})
	id := m.Open("https://shop.example.com/")

	m.OnRequest(id, "https://sync.partner.net/p?pid=abc12345xyz", "image")

	s, _ := m.Stats(id)
	require.Len(t, s.CookieSyncEvents, 1)
	// Only the cookie-sync penalty applies.
	assert.Equal(t, 85, s.PrivacyScore)
}

func TestOnRequestUnparsableURLStillLogged(t *testing.T) {
	m := newTestManager(t, []string{"||tracker.net^"}, nil, nil)
	id := m.Open("https://shop.example.com/")

	blocked := m.OnRequest(id, "http://[::1]:bad/x", "image")
	assert.False(t, blocked)

	s, _ := m.Stats(id)
	require.Len(t, s.Requests, 1)
	assert.Equal(t, "allowed", s.Requests[0].Action)
	assert.Empty(t, s.ThirdPartyConnections)
}

func TestOnRequestUnknownSessionIsNoop(t *testing.T) {
	m := newTestManager(t, []string{"||tracker.net^"}, nil, nil)

	assert.False(t, m.OnRequest("no-such-id", "https://ads.tracker.net/p", "image"))
	assert.Equal(t, 0, m.Len())
}

func TestRecentRequestsRingBound(t *testing.T) {
	m := newTestManager(t, nil, nil, nil)
	id := m.Open("https://shop.example.com/")

	for i := 0; i < maxRecentRequests+10; i++ {
		m.OnRequest(id, fmt.Sprintf("https://shop.example.com/r/%d", i), "xhr")
	}

	s, _ := m.Stats(id)
	require.Len(t, s.Requests, maxRecentRequests)
	// Oldest entries are evicted first.
	assert.Equal(t, "https://shop.example.com/r/10", s.Requests[0].URL)
}

func TestOnResponseHeadersCookieClassification(t *testing.T) {
	m := newTestManager(t, nil, nil, nil)
	id := m.Open("https://shop.example.com/")

	m.OnResponseHeaders(id, "https://shop.example.com/login", []string{
		"sid=1; Max-Age=3600",
		"csrf=tok",
	})
	m.OnResponseHeaders(id, "https://ads.partner.net/set", []string{
		"pid=2; Expires=Wed, 01 Jan 2031 00:00:00 GMT",
	})

	s, _ := m.Stats(id)
	assert.Equal(t, int64(3), s.SetCookieCount)
	assert.Equal(t, int64(2), s.PersistentCookieSets)
	assert.Equal(t, int64(1), s.SessionCookieSets)
	assert.Equal(t, int64(2), s.FirstPartyCookieSets)
	assert.Equal(t, int64(1), s.ThirdPartyCookieSets)
}

func TestNavigateResetsState(t *testing.T) {
	m := newTestManager(t, []string{"||tracker.net^"}, nil, nil)
	id := m.Open("https://shop.example.com/")

	m.OnRequest(id, "https://ads.tracker.net/pixel.gif", "image")
	s, _ := m.Stats(id)
	require.NotEmpty(t, s.BlockedTrackers)

	m.Navigate(id, "https://news.example.org/")
	s, _ = m.Stats(id)
	assert.Equal(t, "example.org", s.TopDomain)
	assert.Empty(t, s.BlockedTrackers)
	assert.Empty(t, s.Requests)
	assert.Equal(t, 100, s.PrivacyScore)
}

func TestCloseDestroysSession(t *testing.T) {
	m := newTestManager(t, nil, nil, nil)
	id := m.Open("https://shop.example.com/")
	require.Equal(t, 1, m.Len())

	m.Close(id)
	assert.Equal(t, 0, m.Len())
	_, ok := m.Stats(id)
	assert.False(t, ok)
}

func TestOnStorageReportAndCanvas(t *testing.T) {
	m := newTestManager(t, nil, nil, nil)
	id := m.Open("https://shop.example.com/")

	m.OnStorageReport(id, StorageReport{
		Local:   StorageArea{Keys: 30, Bytes: 2048},
		Session: StorageArea{Keys: 10},
	})
	m.OnCanvasFingerprint(id)

	s, _ := m.Stats(id)
	assert.Equal(t, 30, s.Storage.Local.Keys)
	assert.Equal(t, int64(1), s.CanvasFingerprintEvents)
	// 40 storage keys cost 4 points, canvas costs 15.
	assert.Equal(t, 81, s.PrivacyScore)
}
