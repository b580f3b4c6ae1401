package stats

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"privacyguard/config"
	"privacyguard/logger"
)

// Stats 进程级运行统计（跨会话）
type Stats struct {
	mu           sync.Mutex
	blockedTotal int64
	blockedToday int64
	requests     int64
	cookieSyncs  int64
	lastReset    time.Time

	blockedDomains *BlockedDomainsTracker

	startTime time.Time
}

// NewStats 创建新的统计实例
func NewStats(cfg *config.StatsConfig) *Stats {
	// 预热 gopsutil 的 CPU 使用率计算，第一次调用 Percent 会返回 0
	go func() {
		if _, err := cpu.Percent(time.Second, false); err != nil {
			logger.Warnf("failed to initialize CPU usage sampling: %v", err)
		}
	}()

	return &Stats{
		lastReset:      time.Now(),
		blockedDomains: NewBlockedDomainsTracker(cfg),
		startTime:      time.Now(),
	}
}

// IncRequests 增加请求计数
func (s *Stats) IncRequests() {
	atomic.AddInt64(&s.requests, 1)
}

// IncCookieSyncs 增加 cookie 同步事件计数
func (s *Stats) IncCookieSyncs() {
	atomic.AddInt64(&s.cookieSyncs, 1)
}

// RecordBlock 记录一次拦截
func (s *Stats) RecordBlock(domain string) {
	atomic.AddInt64(&s.blockedTotal, 1)
	s.blockedDomains.RecordBlock(domain)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if now.Day() != s.lastReset.Day() || now.Month() != s.lastReset.Month() || now.Year() != s.lastReset.Year() {
		atomic.StoreInt64(&s.blockedToday, 0)
		s.lastReset = now
	}
	atomic.AddInt64(&s.blockedToday, 1)
}

// GetTopBlockedDomains 获取拦截次数最多的 k 个域名
func (s *Stats) GetTopBlockedDomains(k int) []BlockedDomainCount {
	return s.blockedDomains.GetTopBlockedDomains(k)
}

// Stop 停止后台轮换
func (s *Stats) Stop() {
	s.blockedDomains.Stop()
}

// Reset 清空统计
func (s *Stats) Reset() {
	atomic.StoreInt64(&s.blockedTotal, 0)
	atomic.StoreInt64(&s.blockedToday, 0)
	atomic.StoreInt64(&s.requests, 0)
	atomic.StoreInt64(&s.cookieSyncs, 0)
	s.blockedDomains.Reset()
}

// GetStats 获取所有统计数据
func (s *Stats) GetStats() map[string]interface{} {
	topBlocked := s.GetTopBlockedDomains(10)

	// 使用非阻塞方式获取 CPU 使用率，避免阻塞统计调用
	cpuUsage := []float64{0.0}
	cpuUsageCh := make(chan []float64, 1)
	go func() {
		usage, err := cpu.Percent(time.Millisecond*200, false)
		if err != nil || len(usage) == 0 {
			cpuUsageCh <- []float64{0.0}
			return
		}
		cpuUsageCh <- usage
	}()
	select {
	case cpuUsage = <-cpuUsageCh:
	case <-time.After(100 * time.Millisecond):
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		logger.Warnf("failed to read memory info: %v", err)
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	sysStats := map[string]interface{}{
		"cpu_cores":       runtime.NumCPU(),
		"cpu_usage_pct":   cpuUsage[0],
		"mem_total_mb":    uint64(0),
		"mem_used_mb":     uint64(0),
		"mem_usage_pct":   0.0,
		"go_mem_alloc_mb": memStats.Alloc / 1024 / 1024,
		"goroutines":      runtime.NumGoroutine(),
	}
	if memInfo != nil {
		sysStats["mem_total_mb"] = memInfo.Total / 1024 / 1024
		sysStats["mem_used_mb"] = memInfo.Used / 1024 / 1024
		sysStats["mem_usage_pct"] = memInfo.UsedPercent
	}

	return map[string]interface{}{
		"requests_total":     atomic.LoadInt64(&s.requests),
		"blocked_total":      atomic.LoadInt64(&s.blockedTotal),
		"blocked_today":      atomic.LoadInt64(&s.blockedToday),
		"cookie_sync_events": atomic.LoadInt64(&s.cookieSyncs),
		"top_blocked":        topBlocked,
		"system_stats":       sysStats,
		"uptime_seconds":     time.Since(s.startTime).Seconds(),
	}
}
