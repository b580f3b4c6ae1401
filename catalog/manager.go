package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"privacyguard/config"
	"privacyguard/logger"
)

// Manager owns the process-wide tracker catalog. The active engine is
// replaced wholesale on reload (three phases: download and parse without the
// lock, build a fresh engine, swap under the lock) so in-flight
// classification only ever sees a complete rule set.
type Manager struct {
	cfg        *config.CatalogConfig
	engine     Engine
	sourcesMgr *SourceManager
	loader     *RuleLoader
	mu         sync.RWMutex
	lastUpdate time.Time
}

// Status 目录的当前状态
type Status struct {
	Enabled    bool           `json:"enabled"`
	Engine     string         `json:"engine"`
	TotalRules int            `json:"total_rules"`
	LastUpdate string         `json:"last_update"`
	Sources    []SourceStatus `json:"sources"`
}

// NewManager creates a catalog manager. The catalog starts empty; call
// Start (or Update) to populate it.
func NewManager(cfg *config.CatalogConfig) (*Manager, error) {
	engine, err := newEngine(cfg.Engine)
	if err != nil {
		return nil, err
	}

	sourcesMgr, err := NewSourceManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating source manager: %w", err)
	}

	return &Manager{
		cfg:        cfg,
		engine:     engine,
		sourcesMgr: sourcesMgr,
		loader:     NewRuleLoader(cfg),
	}, nil
}

func newEngine(name string) (Engine, error) {
	switch strings.ToLower(name) {
	case "urlfilter":
		return NewURLFilterEngine()
	case "simple", "":
		return NewSimpleEngine(), nil
	default:
		return nil, fmt.Errorf("unknown catalog engine: %s", name)
	}
}

// Start performs the initial load (cache first, then a network refresh) and
// schedules periodic updates. A failed load is non-fatal: classification
// degrades to user lists only.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		if err := m.LoadFromCache(); err != nil {
			logger.Warnf("[catalog] cache load failed: %v", err)
		}
		if _, err := m.Update(ctx, false); err != nil {
			logger.Warnf("[catalog] initial update failed: %v", err)
		}
	}()

	if m.cfg.UpdateIntervalHours > 0 {
		ticker := time.NewTicker(time.Duration(m.cfg.UpdateIntervalHours) * time.Hour)
		go func() {
			for {
				select {
				case <-ticker.C:
					if _, err := m.Update(ctx, false); err != nil {
						logger.Warnf("[catalog] periodic update failed: %v", err)
					}
				case <-ctx.Done():
					ticker.Stop()
					return
				}
			}
		}()
	}
}

// Update refreshes all sources and swaps in a freshly built engine. With
// force=false, sources younger than the update interval are skipped.
func (m *Manager) Update(ctx context.Context, force bool) (UpdateResult, error) {
	startTime := time.Now()

	// Phase 1: download without holding the lock
	sources := m.sourcesMgr.GetAllSources()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var failedSources []string

	for _, source := range sources {
		wg.Add(1)
		go func(s *SourceInfo) {
			defer wg.Done()

			if !force && time.Since(s.LastUpdate) < time.Duration(m.cfg.UpdateIntervalHours)*time.Hour {
				return
			}

			lineCount, err := m.loader.UpdateFromSource(ctx, s)
			m.sourcesMgr.UpdateSourceStatus(s.URL, lineCount, err)
			if err != nil {
				logger.Warnf("[catalog] source %s failed: %v", s.URL, err)
				mu.Lock()
				failedSources = append(failedSources, s.URL)
				mu.Unlock()
			}
		}(source)
	}
	wg.Wait()

	if err := m.sourcesMgr.saveMeta(); err != nil {
		logger.Warnf("[catalog] failed to save source metadata: %v", err)
	}

	// Phase 2: parse everything into a new engine instance, still unlocked
	allLines := m.loader.LoadAllLines(m.sourcesMgr.GetAllSources())

	newEngine, err := newEngine(m.cfg.Engine)
	if err != nil {
		return UpdateResult{}, err
	}
	if err := newEngine.LoadRules(allLines); err != nil {
		return UpdateResult{}, err
	}

	// Phase 3: swap
	m.mu.Lock()
	m.engine = newEngine
	m.lastUpdate = time.Now()
	m.mu.Unlock()

	result := UpdateResult{
		TotalRules:      newEngine.Count(),
		Sources:         len(sources),
		FailedSources:   failedSources,
		DurationSeconds: time.Since(startTime).Seconds(),
	}
	logger.Infof("[catalog] loaded %d tracker hosts from %d sources in %.1fs",
		result.TotalRules, result.Sources, result.DurationSeconds)
	return result, nil
}

// LoadRules replaces the catalog with an explicit precompiled rule list,
// bypassing the configured sources. The swap is atomic.
func (m *Manager) LoadRules(lines []string) error {
	newEngine, err := newEngine(m.cfg.Engine)
	if err != nil {
		return err
	}
	if err := newEngine.LoadRules(lines); err != nil {
		return err
	}

	m.mu.Lock()
	m.engine = newEngine
	m.lastUpdate = time.Now()
	m.mu.Unlock()
	return nil
}

// LoadFromCache rebuilds the engine from cached rule files only.
func (m *Manager) LoadFromCache() error {
	allLines := m.loader.LoadAllLines(m.sourcesMgr.GetAllSources())
	if len(allLines) == 0 {
		return nil
	}

	newEngine, err := newEngine(m.cfg.Engine)
	if err != nil {
		return err
	}
	if err := newEngine.LoadRules(allLines); err != nil {
		return err
	}

	m.mu.Lock()
	m.engine = newEngine
	m.mu.Unlock()
	return nil
}

// CheckHost 检查主机名是否命中目录（精确或祖先匹配）
func (m *Manager) CheckHost(host string) (bool, string) {
	if !m.cfg.Enable {
		return false, ""
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.engine.CheckHost(host)
}

// Count returns the number of loaded tracker hosts.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.engine.Count()
}

// SetEnabled dynamically enables or disables catalog matching.
func (m *Manager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.Enable = enabled
}

// GetStatus returns the catalog status for the admin API.
func (m *Manager) GetStatus() Status {
	m.mu.RLock()
	count := m.engine.Count()
	lastUpdate := m.lastUpdate
	m.mu.RUnlock()

	return Status{
		Enabled:    m.cfg.Enable,
		Engine:     m.cfg.Engine,
		TotalRules: count,
		LastUpdate: lastUpdate.Format(time.RFC3339),
		Sources:    m.sourcesMgr.GetStatuses(),
	}
}
