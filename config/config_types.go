package config

// Config 主配置结构
type Config struct {
	Catalog CatalogConfig `yaml:"catalog" json:"catalog"`
	WebUI   WebUIConfig   `yaml:"webui" json:"webui"`
	System  SystemConfig  `yaml:"system" json:"system"`
	Stats   StatsConfig   `yaml:"stats" json:"stats"`
}

// CatalogConfig 追踪器目录配置
type CatalogConfig struct {
	Enable bool   `yaml:"enable" json:"enable"`
	Engine string `yaml:"engine,omitempty" json:"engine"` // simple | urlfilter

	// 规则列表来源，支持 http(s):// 和 file:// 两种形式
	RuleURLs []string `yaml:"rule_urls,omitempty" json:"rule_urls"`

	CacheDir            string `yaml:"cache_dir,omitempty" json:"cache_dir"`
	UpdateIntervalHours int    `yaml:"update_interval_hours,omitempty" json:"update_interval_hours"`
	MaxListSizeMB       int    `yaml:"max_list_size_mb,omitempty" json:"max_list_size_mb"`
	DownloadTimeoutSec  int    `yaml:"download_timeout_sec,omitempty" json:"download_timeout_sec"`
	MaxConcurrent       int    `yaml:"max_concurrent_downloads,omitempty" json:"max_concurrent_downloads"`
}

// WebUIConfig Web API 管理界面配置
type WebUIConfig struct {
	Enabled    bool `yaml:"enabled" json:"enabled"`
	ListenPort int  `yaml:"listen_port,omitempty" json:"listen_port"`
}

// SystemConfig 系统配置
type SystemConfig struct {
	LogLevel string `yaml:"log_level,omitempty" json:"log_level"`
}

// StatsConfig 全局统计配置
type StatsConfig struct {
	TopBlockedWindowHours   int `yaml:"top_blocked_window_hours,omitempty" json:"top_blocked_window_hours"`
	TopBlockedBucketMinutes int `yaml:"top_blocked_bucket_minutes,omitempty" json:"top_blocked_bucket_minutes"`
	TopBlockedShardCount    int `yaml:"top_blocked_shard_count,omitempty" json:"top_blocked_shard_count"`
	TopBlockedMaxPerBucket  int `yaml:"top_blocked_max_per_bucket,omitempty" json:"top_blocked_max_per_bucket"`
}
