// Package domain implements hostname normalization and approximate
// registrable-domain (eTLD+1) extraction over a bounded suffix table.
package domain

import (
	"strings"

	lru "github.com/hashicorp/golang-lru"
)

// knownSuffixes 已知的两段式公共后缀（有界启发式，非完整 PSL）
var knownSuffixes = map[string]struct{}{
	"co.uk":  {},
	"com.br": {},
	"com.au": {},
	"com.ar": {},
	"co.jp":  {},
	"co.kr":  {},
	"co.in":  {},
}

const baseDomainCacheSize = 4096

// baseCache memoizes BaseDomain results. Hostnames repeat heavily within a
// browsing session, so a small LRU in front of the split/join work pays off.
var baseCache, _ = lru.New(baseDomainCacheSize)

// BaseDomain returns the registrable domain for a hostname.
//
// The hostname is lower-cased and split on dots, empty labels dropped. Two or
// fewer labels are returned as-is. Otherwise the last two and last three
// labels are checked against the known-suffix table to decide whether the
// registrable unit spans two, three or four trailing labels. Unknown suffixes
// degrade to the last-two-labels heuristic. Pure and total: never fails, no
// network lookup.
func BaseDomain(hostname string) string {
	if hostname == "" {
		return ""
	}
	if v, ok := baseCache.Get(hostname); ok {
		return v.(string)
	}
	base := computeBaseDomain(hostname)
	baseCache.Add(hostname, base)
	return base
}

func computeBaseDomain(hostname string) string {
	raw := strings.Split(strings.ToLower(hostname), ".")
	parts := raw[:0]
	for _, p := range raw {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) <= 2 {
		return strings.Join(parts, ".")
	}

	last2 := strings.Join(parts[len(parts)-2:], ".")
	if _, ok := knownSuffixes[last2]; ok {
		return strings.Join(parts[len(parts)-3:], ".")
	}
	if len(parts) >= 4 {
		last3 := strings.Join(parts[len(parts)-3:], ".")
		if _, ok := knownSuffixes[last3]; ok {
			return strings.Join(parts[len(parts)-4:], ".")
		}
	}
	return last2
}

// IsSubdomainOf reports whether host equals domain or is one of its
// subdomains. The dot boundary matters: "evil-example.com" does not match
// "example.com".
func IsSubdomainOf(host, domain string) bool {
	host = strings.ToLower(host)
	domain = strings.ToLower(domain)
	return host == domain || strings.HasSuffix(host, "."+domain)
}
