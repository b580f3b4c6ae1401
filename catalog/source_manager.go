package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"privacyguard/config"
)

// SourceStatus 规则来源的对外状态
type SourceStatus struct {
	URL        string    `json:"url"`
	Status     string    `json:"status"` // "active", "failed", "bad"
	RuleCount  int       `json:"rule_count"`
	LastUpdate time.Time `json:"last_update"`
	LastError  string    `json:"last_error"`
}

// SourceInfo 单个规则来源的持久化元数据
type SourceInfo struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"last_modified"`
	CacheFile    string    `json:"cache_file"`
	RuleCount    int       `json:"rule_count"`
	LastUpdate   time.Time `json:"last_update"`
	LastError    string    `json:"last_error"`
	FailCount    int       `json:"fail_count"`
	Status       string    `json:"status"`
}

// SourceManager 管理规则来源及其下载缓存的元数据
type SourceManager struct {
	sources  map[string]*SourceInfo
	metaFile string
	mu       sync.RWMutex
}

// NewSourceManager 创建来源管理器并从缓存目录恢复元数据
func NewSourceManager(cfg *config.CatalogConfig) (*SourceManager, error) {
	if err := os.MkdirAll(cfg.CacheDir, 0755); err != nil {
		return nil, err
	}

	sm := &SourceManager{
		sources:  make(map[string]*SourceInfo),
		metaFile: filepath.Join(cfg.CacheDir, "sources_meta.json"),
	}

	// 元数据文件缺失或损坏时直接从零开始
	_ = sm.loadMeta()

	for _, url := range cfg.RuleURLs {
		sm.AddSource(url)
	}

	return sm, nil
}

func (sm *SourceManager) loadMeta() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	data, err := os.ReadFile(sm.metaFile)
	if err != nil {
		return err
	}

	var sources []*SourceInfo
	if err := json.Unmarshal(data, &sources); err != nil {
		return err
	}
	for _, s := range sources {
		sm.sources[s.URL] = s
	}
	return nil
}

func (sm *SourceManager) saveMeta() error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sources := make([]*SourceInfo, 0, len(sm.sources))
	for _, s := range sm.sources {
		sources = append(sources, s)
	}

	data, err := json.MarshalIndent(sources, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(sm.metaFile, data, 0644)
}

// AddSource 注册一个新的规则来源
func (sm *SourceManager) AddSource(url string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sources[url]; exists {
		return
	}
	h := sha256.Sum256([]byte(url))
	sm.sources[url] = &SourceInfo{
		URL:       url,
		Status:    "active",
		CacheFile: "rules_" + hex.EncodeToString(h[:16]) + ".txt",
	}
}

// GetAllSources 返回全部来源（副本切片，元素为共享指针）
func (sm *SourceManager) GetAllSources() []*SourceInfo {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sources := make([]*SourceInfo, 0, len(sm.sources))
	for _, s := range sm.sources {
		sources = append(sources, s)
	}
	return sources
}

// UpdateSourceStatus 记录一次下载的结果
func (sm *SourceManager) UpdateSourceStatus(url string, ruleCount int, err error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, ok := sm.sources[url]
	if !ok {
		return
	}
	if err != nil {
		s.LastError = err.Error()
		s.FailCount++
		s.Status = "failed"
		if s.FailCount >= 5 {
			s.Status = "bad"
		}
		return
	}
	s.RuleCount = ruleCount
	s.LastUpdate = time.Now()
	s.LastError = ""
	s.FailCount = 0
	s.Status = "active"
}

// GetStatuses 返回全部来源的对外状态
func (sm *SourceManager) GetStatuses() []SourceStatus {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	statuses := make([]SourceStatus, 0, len(sm.sources))
	for _, s := range sm.sources {
		statuses = append(statuses, SourceStatus{
			URL:        s.URL,
			Status:     s.Status,
			RuleCount:  s.RuleCount,
			LastUpdate: s.LastUpdate,
			LastError:  s.LastError,
		})
	}
	return statuses
}
