package catalog

// Engine is the interface for tracker-catalog match engines.
type Engine interface {
	// CheckHost 检查主机名是否命中目录，命中时返回匹配的域名
	CheckHost(host string) (matched bool, domain string)
	LoadRules(lines []string) error
	Count() int
}
