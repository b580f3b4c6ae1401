// Package classify resolves tracker and third-party status for observed
// network requests against the tracker catalog and the user's
// personalization lists.
package classify

import (
	"net/url"

	"privacyguard/catalog"
	"privacyguard/domain"
	"privacyguard/internal/util"
)

// Result is the outcome of classifying one request.
type Result struct {
	// Valid is false when the request URL did not parse; such a request
	// contributes no classification signal.
	Valid bool

	Host       string
	BaseDomain string

	// ThirdParty 与 Tracker 相互独立
	ThirdParty bool
	Tracker    bool

	// MatchedDomain is the list entry or catalog domain that matched.
	MatchedDomain string

	ResourceType string
}

// Block reports the binary block/allow decision the interception
// collaborator enforces.
func (r Result) Block() bool { return r.Tracker }

// Classifier applies the layered precedence policy. Holds references to
// process-wide state; safe for concurrent use.
type Classifier struct {
	catalog *catalog.Manager
	lists   *catalog.UserLists
}

// New creates a Classifier over the given catalog and user lists.
func New(cat *catalog.Manager, lists *catalog.UserLists) *Classifier {
	return &Classifier{catalog: cat, lists: lists}
}

// Classify decides tracker and third-party status for a request.
//
// Decision order, first match wins:
//  1. allowlist entry covers the host: never a tracker
//  2. blocklist entry covers the host: tracker, entry recorded
//  3. catalog exact or ancestor match: tracker, matched domain recorded
//  4. otherwise not a tracker
//
// Third-party status is independent: the request is third-party iff its base
// domain and topDomain are both non-empty and differ.
func (c *Classifier) Classify(rawURL, topDomain, resourceType string) Result {
	res := Result{ResourceType: resourceType}

	u, err := url.Parse(rawURL)
	if err != nil {
		return res
	}
	host := util.NormalizeHost(u.Hostname())
	if host == "" {
		return res
	}

	res.Valid = true
	res.Host = host
	res.BaseDomain = domain.BaseDomain(host)
	res.ThirdParty = topDomain != "" && res.BaseDomain != "" && topDomain != res.BaseDomain

	if c.lists.AllowMatch(host) {
		return res
	}
	if entry, ok := c.lists.BlockMatch(host); ok {
		res.Tracker = true
		res.MatchedDomain = entry
		return res
	}
	if ok, matched := c.catalog.CheckHost(host); ok {
		res.Tracker = true
		res.MatchedDomain = matched
	}
	return res
}
