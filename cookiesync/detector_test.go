package cookiesync

import "testing"

func testSnapshot() Snapshot {
	return NewSnapshot(
		[]string{"_ga", "theme"},
		[]string{"abc12345xyz", "short"},
	)
}

func TestInspectValueMatch(t *testing.T) {
	snap := testSnapshot()

	ev := Inspect(snap, "https://sync.tracker.net/pixel?partner_id=abc12345xyz")
	if ev == nil {
		t.Fatal("expected an event for a known cookie value")
	}
	if len(ev.Matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(ev.Matches))
	}
	hit := ev.Matches[0]
	if hit.Kind != MatchValue || hit.Key != "partner_id" || hit.Value != "abc12345xyz" {
		t.Errorf("unexpected hit: %+v", hit)
	}
}

func TestInspectNameMatch(t *testing.T) {
	snap := testSnapshot()

	ev := Inspect(snap, "https://sync.tracker.net/pixel?theme=darkdarkdark")
	if ev == nil {
		t.Fatal("expected an event for a known cookie name")
	}
	if ev.Matches[0].Kind != MatchName {
		t.Errorf("kind = %q, want %q", ev.Matches[0].Kind, MatchName)
	}
}

func TestInspectSuspiciousParam(t *testing.T) {
	ev := Inspect(Snapshot{}, "https://ads.example.com/b?deviceId=ABCDEF123456")
	if ev == nil {
		t.Fatal("expected an event for a suspicious parameter name")
	}
	if ev.Matches[0].Kind != MatchSuspicious {
		t.Errorf("kind = %q, want %q", ev.Matches[0].Kind, MatchSuspicious)
	}
}

func TestInspectNoMatch(t *testing.T) {
	snap := testSnapshot()

	if ev := Inspect(snap, "https://cdn.example.com/app.js?ref=homepage"); ev != nil {
		t.Errorf("expected no event, got %+v", ev)
	}
}

func TestInspectShortValuesIgnored(t *testing.T) {
	snap := testSnapshot()

	// "_ga" is a known name but the value is below the length floor.
	if ev := Inspect(snap, "https://t.example.com/p?_ga=1"); ev != nil {
		t.Errorf("short values must not produce hits, got %+v", ev)
	}
	// "short" was dropped at snapshot build time.
	if _, ok := snap.Values["short"]; ok {
		t.Error("snapshot must filter values below the length floor")
	}
}

func TestInspectHitCap(t *testing.T) {
	snap := testSnapshot()

	// Each parameter matches both by value and as suspicious; the event keeps
	// only the first three hits in URL order.
	ev := Inspect(snap, "https://s.example.com/?uid=abc12345xyz&guid=abc12345xyz")
	if ev == nil {
		t.Fatal("expected an event")
	}
	if len(ev.Matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(ev.Matches))
	}
	if ev.Matches[0].Key != "uid" || ev.Matches[0].Kind != MatchValue {
		t.Errorf("first hit = %+v", ev.Matches[0])
	}
	if ev.Matches[2].Key != "guid" || ev.Matches[2].Kind != MatchValue {
		t.Errorf("third hit = %+v", ev.Matches[2])
	}
}

func TestInspectUndecodablePairSkipped(t *testing.T) {
	snap := testSnapshot()

	ev := Inspect(snap, "https://s.example.com/?bad=%zz&id=abc12345xyz")
	if ev == nil {
		t.Fatal("expected an event from the decodable pair")
	}
	for _, h := range ev.Matches {
		if h.Key == "bad" {
			t.Errorf("undecodable pair must be skipped, got %+v", h)
		}
	}
}

func TestInspectNoQuery(t *testing.T) {
	if ev := Inspect(testSnapshot(), "https://sync.tracker.net/pixel"); ev != nil {
		t.Errorf("URL without query must not produce an event, got %+v", ev)
	}
}
