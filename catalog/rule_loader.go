package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"privacyguard/config"
	"privacyguard/logger"
)

// RuleLoader downloads rule lists and reads them back from the on-disk
// cache. Downloads honor ETag/Last-Modified so unchanged lists cost a 304.
type RuleLoader struct {
	client      *http.Client
	sem         *semaphore.Weighted
	cacheDir    string
	maxListSize int64
}

// NewRuleLoader 创建规则下载器
func NewRuleLoader(cfg *config.CatalogConfig) *RuleLoader {
	return &RuleLoader{
		client: &http.Client{
			Timeout: time.Duration(cfg.DownloadTimeoutSec) * time.Second,
		},
		sem:         semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		cacheDir:    cfg.CacheDir,
		maxListSize: int64(cfg.MaxListSizeMB) * 1024 * 1024,
	}
}

// UpdateResult 一次规则更新的汇总结果
type UpdateResult struct {
	TotalRules      int      `json:"total_rules"`
	Sources         int      `json:"sources"`
	FailedSources   []string `json:"failed_sources"`
	DurationSeconds float64  `json:"duration_seconds"`
}

// UpdateFromSource refreshes a single source. Local file:// sources are read
// in place; remote sources are downloaded into the cache directory.
// Returns the number of lines fetched.
func (rl *RuleLoader) UpdateFromSource(ctx context.Context, source *SourceInfo) (int, error) {
	if isLocalSource(source.URL) {
		return rl.countLocalFile(strings.TrimPrefix(source.URL, "file://"))
	}

	if err := rl.sem.Acquire(ctx, 1); err != nil {
		return 0, err
	}
	defer rl.sem.Release(1)

	return rl.downloadRemoteFile(ctx, source)
}

func (rl *RuleLoader) downloadRemoteFile(ctx context.Context, source *SourceInfo) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		return 0, err
	}
	if source.ETag != "" {
		req.Header.Set("If-None-Match", source.ETag)
	}
	if source.LastModified != "" {
		req.Header.Set("If-Modified-Since", source.LastModified)
	}

	resp, err := rl.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return source.RuleCount, nil
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("bad status: %s", resp.Status)
	}

	cachePath := filepath.Join(rl.cacheDir, source.CacheFile)
	file, err := os.Create(cachePath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	limited := &io.LimitedReader{R: resp.Body, N: rl.maxListSize}
	lineCount, err := countLines(io.TeeReader(limited, file))
	if err != nil {
		return 0, err
	}
	if limited.N == 0 {
		return 0, fmt.Errorf("list exceeds %d MB limit", rl.maxListSize/1024/1024)
	}

	source.ETag = resp.Header.Get("ETag")
	source.LastModified = resp.Header.Get("Last-Modified")

	return lineCount, nil
}

func (rl *RuleLoader) countLocalFile(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	return countLines(file)
}

func countLines(r io.Reader) (int, error) {
	buf := make([]byte, 32*1024)
	count := 0
	for {
		c, err := r.Read(buf)
		count += strings.Count(string(buf[:c]), "\n")
		switch {
		case err == io.EOF:
			return count, nil
		case err != nil:
			return count, err
		}
	}
}

// LoadAllLines reads the cached (or local) rule text of all active sources.
func (rl *RuleLoader) LoadAllLines(sources []*SourceInfo) []string {
	var allLines []string
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, source := range sources {
		wg.Add(1)
		go func(s *SourceInfo) {
			defer wg.Done()

			path := filepath.Join(rl.cacheDir, s.CacheFile)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				if isLocalSource(s.URL) {
					path = strings.TrimPrefix(s.URL, "file://")
				} else {
					return
				}
			}

			lines, err := readLines(path)
			if err != nil {
				logger.Warnf("[catalog] failed to read cached rules %s: %v", path, err)
				return
			}
			mu.Lock()
			allLines = append(allLines, lines...)
			mu.Unlock()
		}(source)
	}
	wg.Wait()
	return allLines
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(data), "\n"), nil
}

func isLocalSource(url string) bool {
	return strings.HasPrefix(url, "file://") || !strings.HasPrefix(url, "http")
}
