package catalog

import (
	"strings"

	"privacyguard/internal/util"
)

// SimpleEngine 基于域名集合的目录匹配引擎。
//
// Lookup is exact-first, then walks ancestor domains by stripping the
// leftmost label one at a time. The closest ancestor to the full hostname
// wins and the bare TLD is never consulted.
type SimpleEngine struct {
	hosts map[string]struct{}
}

// NewSimpleEngine creates an empty SimpleEngine.
func NewSimpleEngine() *SimpleEngine {
	return &SimpleEngine{hosts: make(map[string]struct{})}
}

// LoadRules implements the Engine interface. Lines are filter-list text;
// only ||domain^ host-anchor rules are admitted.
func (e *SimpleEngine) LoadRules(lines []string) error {
	hosts := ParseHostRules(strings.NewReader(strings.Join(lines, "\n")))
	set := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		set[h] = struct{}{}
	}
	e.hosts = set
	return nil
}

// CheckHost implements the Engine interface.
func (e *SimpleEngine) CheckHost(host string) (bool, string) {
	host = util.NormalizeHost(host)
	if host == "" {
		return false, ""
	}
	if _, ok := e.hosts[host]; ok {
		return true, host
	}
	// 祖先匹配：逐级剥离最左侧的标签，不包含裸 TLD
	parts := strings.Split(host, ".")
	for i := 1; i < len(parts)-1; i++ {
		cand := strings.Join(parts[i:], ".")
		if _, ok := e.hosts[cand]; ok {
			return true, cand
		}
	}
	return false, ""
}

// Count implements the Engine interface.
func (e *SimpleEngine) Count() int {
	return len(e.hosts)
}
