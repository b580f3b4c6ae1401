package session

import (
	"testing"

	"privacyguard/cookiesync"
)

func TestScoreFreshSession(t *testing.T) {
	s := newSession("s1", "https://shop.example/", "shop.example")
	if got := Score(&s); got != 100 {
		t.Errorf("fresh session score = %d, want 100", got)
	}
}

func TestScoreBlockedPenaltyCap(t *testing.T) {
	s := newSession("s1", "https://shop.example/", "shop.example")

	s.BlockedTrackers["tracker.net"] = 20
	at20 := Score(&s)
	if at20 != 60 {
		t.Errorf("score at 20 blocked = %d, want 60", at20)
	}

	s.BlockedTrackers["tracker.net"] = 21
	if got := Score(&s); got != at20 {
		t.Errorf("blocked penalty must cap at 40: score = %d, want %d", got, at20)
	}
}

func TestScoreThirdPartyFloorDivision(t *testing.T) {
	s := newSession("s1", "https://shop.example/", "shop.example")

	s.ThirdPartyConnections["cdn.example"] = 4
	if got := Score(&s); got != 100 {
		t.Errorf("4 third parties score = %d, want 100 (4/5 floors to 0)", got)
	}
	s.ThirdPartyConnections["cdn.example"] = 5
	if got := Score(&s); got != 99 {
		t.Errorf("5 third parties score = %d, want 99", got)
	}
}

func TestScoreHookRiskSteps(t *testing.T) {
	s := newSession("s1", "https://shop.example/", "shop.example")

	// Below 5 events the floored division zeroes the penalty.
	s.HookRiskEvents = 4
	if got := Score(&s); got != 100 {
		t.Errorf("4 hook events score = %d, want 100", got)
	}
	s.HookRiskEvents = 5
	if got := Score(&s); got != 95 {
		t.Errorf("5 hook events score = %d, want 95", got)
	}
	s.HookRiskEvents = 100
	if got := Score(&s); got != 85 {
		t.Errorf("hook penalty must cap at 15: score = %d, want 85", got)
	}
}

func TestScoreFlatPenalties(t *testing.T) {
	s := newSession("s1", "https://shop.example/", "shop.example")

	s.CanvasFingerprintEvents = 3
	if got := Score(&s); got != 85 {
		t.Errorf("canvas penalty is flat 15: score = %d, want 85", got)
	}

	s.CookieSyncEvents = []cookiesync.Event{{URL: "https://sync.tracker.net/p"}}
	if got := Score(&s); got != 70 {
		t.Errorf("cookie-sync penalty is flat 15: score = %d, want 70", got)
	}
}

func TestScoreClampsAtZero(t *testing.T) {
	s := newSession("s1", "https://shop.example/", "shop.example")
	s.BlockedTrackers["a.net"] = 100
	s.ThirdPartyConnections["b.net"] = 1000
	s.SetCookieCount = 1000
	s.Storage.Local.Keys = 1000
	s.CanvasFingerprintEvents = 1
	s.HookRiskEvents = 100
	s.CookieSyncEvents = []cookiesync.Event{{}}

	if got := Score(&s); got != 0 {
		t.Errorf("score = %d, want 0", got)
	}
}
