package config

// setDefaultValues 设置配置文件中缺失字段的默认值
func setDefaultValues(cfg *Config) {
	setCatalogDefaults(&cfg.Catalog)
	setWebUIDefaults(&cfg.WebUI)
	setSystemDefaults(&cfg.System)
	setStatsDefaults(&cfg.Stats)
}

// setCatalogDefaults 设置追踪器目录配置的默认值
func setCatalogDefaults(c *CatalogConfig) {
	if c.Engine == "" {
		c.Engine = "simple"
	}
	if c.CacheDir == "" {
		c.CacheDir = "catalog_cache"
	}
	if c.UpdateIntervalHours == 0 {
		c.UpdateIntervalHours = 24
	}
	if c.MaxListSizeMB == 0 {
		c.MaxListSizeMB = 50
	}
	if c.DownloadTimeoutSec == 0 {
		c.DownloadTimeoutSec = 15
	}
	if c.MaxConcurrent == 0 {
		c.MaxConcurrent = 5
	}
}

// setWebUIDefaults 设置 Web API 配置的默认值
func setWebUIDefaults(w *WebUIConfig) {
	if w.ListenPort == 0 {
		w.ListenPort = 8787
	}
}

// setSystemDefaults 设置系统配置的默认值
func setSystemDefaults(s *SystemConfig) {
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
}

// setStatsDefaults 设置全局统计配置的默认值
func setStatsDefaults(s *StatsConfig) {
	if s.TopBlockedWindowHours == 0 {
		s.TopBlockedWindowHours = 24
	}
	if s.TopBlockedBucketMinutes == 0 {
		s.TopBlockedBucketMinutes = 60
	}
	if s.TopBlockedShardCount == 0 {
		s.TopBlockedShardCount = 8
	}
	if s.TopBlockedMaxPerBucket == 0 {
		s.TopBlockedMaxPerBucket = 10000
	}
}
