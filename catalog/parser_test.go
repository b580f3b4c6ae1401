package catalog

import (
	"strings"
	"testing"
)

func TestParseHostRules(t *testing.T) {
	input := strings.Join([]string{
		"[Adblock Plus 2.0]",
		"! Title: EasyPrivacy",
		"||tracker.net^",
		"||ads.example.com^$third-party",
		"||*.wildcard.com^",
		"||bad_chars.com^",
		"||nodot^",
		"||UPPER.Tracker.ORG^",
		"||tracker.net^",
		"/banner/*/img^",
		"@@||allowed.example.com^",
		"||path.example.com/ads^",
		"plain.domain.com",
		"",
	}, "\n")

	hosts := ParseHostRules(strings.NewReader(input))

	want := []string{"tracker.net", "ads.example.com", "upper.tracker.org"}
	if len(hosts) != len(want) {
		t.Fatalf("ParseHostRules returned %v, want %v", hosts, want)
	}
	for i, h := range want {
		if hosts[i] != h {
			t.Errorf("hosts[%d] = %q, want %q", i, hosts[i], h)
		}
	}
}

func TestParseHostRulesCRLF(t *testing.T) {
	hosts := ParseHostRules(strings.NewReader("||tracker.net^\r\n||other.org^\r\n"))
	if len(hosts) != 2 || hosts[0] != "tracker.net" || hosts[1] != "other.org" {
		t.Errorf("CRLF input parsed as %v", hosts)
	}
}

func TestParseHostRulesEmpty(t *testing.T) {
	hosts := ParseHostRules(strings.NewReader("! only comments\n[section]\n"))
	if len(hosts) != 0 {
		t.Errorf("expected no hosts, got %v", hosts)
	}
}
