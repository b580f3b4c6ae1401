package classify

import (
	"testing"

	"privacyguard/catalog"
	"privacyguard/config"
)

func newTestClassifier(t *testing.T, rules, block, allow []string) *Classifier {
	t.Helper()

	cat, err := catalog.NewManager(&config.CatalogConfig{
		Enable:   true,
		Engine:   "simple",
		CacheDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := cat.LoadRules(rules); err != nil {
		t.Fatalf("LoadRules failed: %v", err)
	}

	lists := catalog.NewUserLists()
	if rejected := lists.Set(block, allow); len(rejected) > 0 {
		t.Fatalf("unexpected rejected entries: %v", rejected)
	}
	return New(cat, lists)
}

func TestClassifyPrecedence(t *testing.T) {
	c := newTestClassifier(t,
		[]string{"||tracker.net^", "||allowed.net^"},
		[]string{"blocked.example.org"},
		[]string{"allowed.net"},
	)

	tests := []struct {
		name    string
		url     string
		tracker bool
		matched string
	}{
		{"catalog exact", "https://tracker.net/p", true, "tracker.net"},
		{"catalog ancestor", "https://deep.ads.tracker.net/p", true, "tracker.net"},
		{"allowlist beats catalog", "https://pixel.allowed.net/p", false, ""},
		{"user blocklist", "https://cdn.blocked.example.org/x.js", true, "blocked.example.org"},
		{"no match", "https://plain.example.net/x", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Classify(tt.url, "shop.example", "script")
			if !res.Valid {
				t.Fatal("result should be valid")
			}
			if res.Tracker != tt.tracker {
				t.Errorf("Tracker = %v, want %v", res.Tracker, tt.tracker)
			}
			if res.MatchedDomain != tt.matched {
				t.Errorf("MatchedDomain = %q, want %q", res.MatchedDomain, tt.matched)
			}
			if res.Block() != tt.tracker {
				t.Errorf("Block() = %v, want %v", res.Block(), tt.tracker)
			}
		})
	}
}

func TestClassifyThirdPartyIndependent(t *testing.T) {
	c := newTestClassifier(t, []string{"||shop.example^"}, nil, nil)

	// A first-party tracker: blocked but not third-party.
	res := c.Classify("https://shop.example/beacon", "shop.example", "xhr")
	if !res.Tracker || res.ThirdParty {
		t.Errorf("Tracker = %v, ThirdParty = %v, want true, false", res.Tracker, res.ThirdParty)
	}

	// A third-party non-tracker.
	res = c.Classify("https://cdn.other.example/app.js", "shop.example", "script")
	if res.Tracker || !res.ThirdParty {
		t.Errorf("Tracker = %v, ThirdParty = %v, want false, true", res.Tracker, res.ThirdParty)
	}

	// No top domain means no third-party signal.
	res = c.Classify("https://cdn.other.example/app.js", "", "script")
	if res.ThirdParty {
		t.Error("no top domain must not flag third-party")
	}
}

func TestClassifyInvalidURL(t *testing.T) {
	c := newTestClassifier(t, []string{"||tracker.net^"}, nil, nil)

	res := c.Classify("http://[::1]:bad/x", "shop.example", "image")
	if res.Valid || res.Tracker || res.ThirdParty {
		t.Errorf("invalid URL must classify neutral: %+v", res)
	}
}
