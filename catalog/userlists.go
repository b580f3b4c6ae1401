package catalog

import (
	"sort"
	"strings"
	"sync"

	"github.com/AdguardTeam/golibs/netutil"
	radix "github.com/hashicorp/go-immutable-radix"

	"privacyguard/internal/util"
)

// UserLists holds the session-scoped personalization sets: a user blocklist
// and a user allowlist of plain hostnames. A list entry matches the exact
// host and all of its subdomains.
//
// Both lists are replaced wholesale on every update and readers always see
// either the old or the new set (pointer swap under the lock), never a
// half-updated one.
type UserLists struct {
	mu    sync.RWMutex
	block *listSet
	allow *listSet
}

// listSet 不可变的名单快照：原始条目 + 反转域名的 Radix 树
type listSet struct {
	entries []string
	tree    *radix.Tree
}

// NewUserLists creates empty user lists.
func NewUserLists() *UserLists {
	empty := newListSet(nil)
	return &UserLists{block: empty, allow: empty}
}

// Set replaces both lists. Entries are lower-cased, trimmed, deduplicated and
// validated; entries that fail validation (no dot, invalid characters, bad
// labels) are returned in rejected and never stored.
func (u *UserLists) Set(blocklist, allowlist []string) (rejected []string) {
	block, rej1 := normalizeEntries(blocklist)
	allow, rej2 := normalizeEntries(allowlist)
	rejected = append(rej1, rej2...)

	newBlock := newListSet(block)
	newAllow := newListSet(allow)

	u.mu.Lock()
	u.block = newBlock
	u.allow = newAllow
	u.mu.Unlock()
	return rejected
}

// AllowMatch reports whether host is covered by an allowlist entry.
func (u *UserLists) AllowMatch(host string) bool {
	u.mu.RLock()
	set := u.allow
	u.mu.RUnlock()
	_, ok := set.match(host)
	return ok
}

// BlockMatch returns the blocklist entry covering host, if any.
func (u *UserLists) BlockMatch(host string) (string, bool) {
	u.mu.RLock()
	set := u.block
	u.mu.RUnlock()
	return set.match(host)
}

// Entries returns copies of the current blocklist and allowlist, sorted.
func (u *UserLists) Entries() (blocklist, allowlist []string) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	blocklist = append([]string(nil), u.block.entries...)
	allowlist = append([]string(nil), u.allow.entries...)
	return blocklist, allowlist
}

func normalizeEntries(entries []string) (kept, rejected []string) {
	seen := make(map[string]struct{}, len(entries))
	for _, raw := range entries {
		e := util.NormalizeHost(raw)
		if e == "" {
			continue
		}
		if _, dup := seen[e]; dup {
			continue
		}
		if !strings.Contains(e, ".") || !util.IsValidDomain(e) || netutil.ValidateDomainName(e) != nil {
			rejected = append(rejected, raw)
			continue
		}
		seen[e] = struct{}{}
		kept = append(kept, e)
	}
	sort.Strings(kept)
	return kept, rejected
}

func newListSet(entries []string) *listSet {
	tree := radix.New()
	for _, e := range entries {
		// 颠倒域名标签并追加终结点，保证点边界匹配
		// "example.com" -> "com.example."
		tree, _, _ = tree.Insert([]byte(reverseLabels(e)+"."), e)
	}
	return &listSet{entries: entries, tree: tree}
}

// match looks host up against the reversed-label tree. The trailing dot on
// both keys and lookups keeps "evil-example.com" from matching an entry
// "example.com" while "a.example.com" still does.
func (s *listSet) match(host string) (string, bool) {
	host = util.NormalizeHost(host)
	if host == "" || s.tree.Len() == 0 {
		return "", false
	}
	_, v, found := s.tree.Root().LongestPrefix([]byte(reverseLabels(host) + "."))
	if !found {
		return "", false
	}
	return v.(string), true
}

func reverseLabels(domain string) string {
	parts := strings.Split(domain, ".")
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}
