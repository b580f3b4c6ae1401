package catalog

import (
	"strings"

	"github.com/AdguardTeam/urlfilter"
	"github.com/AdguardTeam/urlfilter/filterlist"

	"privacyguard/internal/util"
)

// URLFilterEngine wraps the AdGuard urlfilter DNS engine. Unlike
// SimpleEngine it understands the full network-rule syntax, including @@
// exception rules, so it is the engine of choice when the rule sources carry
// more than bare host anchors.
type URLFilterEngine struct {
	engine    *urlfilter.DNSEngine
	ruleCount int
}

// NewURLFilterEngine creates an empty URLFilterEngine.
func NewURLFilterEngine() (*URLFilterEngine, error) {
	return &URLFilterEngine{}, nil
}

// LoadRules implements the Engine interface.
func (e *URLFilterEngine) LoadRules(lines []string) error {
	rulesText := strings.Join(lines, "\n")

	stringList := filterlist.NewString(&filterlist.StringConfig{
		RulesText:      rulesText,
		ID:             1,
		IgnoreCosmetic: true,
	})

	storage, err := filterlist.NewRuleStorage([]filterlist.Interface{stringList})
	if err != nil {
		return err
	}

	e.engine = urlfilter.NewDNSEngine(storage)
	e.ruleCount = e.engine.RulesCount
	return nil
}

// CheckHost implements the Engine interface. Exception (@@) rules report the
// host as not matched.
func (e *URLFilterEngine) CheckHost(host string) (bool, string) {
	if e.engine == nil {
		return false, ""
	}
	host = util.NormalizeHost(host)

	result, matched := e.engine.Match(host)
	if !matched || result == nil || result.NetworkRule == nil {
		return false, ""
	}
	ruleText := result.NetworkRule.Text()
	if strings.HasPrefix(ruleText, "@@") {
		return false, ""
	}
	return true, strings.TrimSuffix(strings.TrimPrefix(ruleText, "||"), "^")
}

// Count implements the Engine interface.
func (e *URLFilterEngine) Count() int {
	if e.engine == nil {
		return 0
	}
	return e.ruleCount
}
