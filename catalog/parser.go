package catalog

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// hostRuleRe captures the hostname from a ||domain^ host-anchor rule.
var hostRuleRe = regexp.MustCompile(`^\|\|([^\^/\*]+)\^`)

// hostCharsRe is the character set admitted for extracted hostnames.
var hostCharsRe = regexp.MustCompile(`^[a-z0-9.-]+$`)

// ParseHostRules 从过滤列表文本中提取主机锚定规则（||domain^）的域名。
//
// Only the exact host-anchor form is accepted. Comments ("!"), section
// headers ("["), rules containing wildcards and every other rule syntax are
// ignored. Extracted hostnames must match [a-z0-9.-] and contain at least one
// dot; anything else is silently skipped so a garbled list line can never
// admit a partial hostname.
func ParseHostRules(r io.Reader) []string {
	var hosts []string
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "!") || strings.HasPrefix(line, "[") {
			continue
		}
		m := hostRuleRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		host := strings.ToLower(m[1])
		if strings.Contains(host, "*") {
			continue
		}
		if !hostCharsRe.MatchString(host) || !strings.Contains(host, ".") {
			continue
		}
		if _, dup := seen[host]; dup {
			continue
		}
		seen[host] = struct{}{}
		hosts = append(hosts, host)
	}
	return hosts
}
