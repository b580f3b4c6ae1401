package util

import (
	"net/url"
	"strings"
)

// NormalizeHost 规范化主机名：转小写并去掉首尾的点和空白
func NormalizeHost(host string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(host)), ".")
}

// HostFromURL 从 URL 中提取主机名，解析失败返回空字符串
func HostFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return NormalizeHost(u.Hostname())
}

// IsValidDomain 验证域名格式
func IsValidDomain(domain string) bool {
	domain = strings.TrimRight(domain, ".")
	if len(domain) == 0 || len(domain) > 255 {
		return false
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}

	for _, label := range labels {
		if len(label) == 0 || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}

		for _, ch := range label {
			if !((ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
				(ch >= '0' && ch <= '9') || ch == '-') {
				return false
			}
		}
	}

	return true
}
