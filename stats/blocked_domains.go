package stats

import (
	"container/heap"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"privacyguard/config"
)

// BlockedDomainsTracker 统计最近一段时间内各追踪器域名的拦截次数。
// Counts live in time buckets rotated on a fixed cadence; each bucket is
// sharded to keep write contention low.
type BlockedDomainsTracker struct {
	cfg      *config.StatsConfig
	mu       sync.RWMutex
	buckets  []*blockedBucket
	current  int
	stopChan chan struct{}
}

type blockedBucket struct {
	timestamp time.Time
	shards    []*blockedShard
}

type blockedShard struct {
	mu      sync.RWMutex
	domains map[string]*int64
	size    int
}

// BlockedDomainCount 用于排序的结构体
type BlockedDomainCount struct {
	Domain string `json:"domain"`
	Count  int64  `json:"count"`
}

// NewBlockedDomainsTracker 创建拦截域名追踪器
func NewBlockedDomainsTracker(cfg *config.StatsConfig) *BlockedDomainsTracker {
	numBuckets := (cfg.TopBlockedWindowHours * 60) / cfg.TopBlockedBucketMinutes
	if numBuckets < 1 {
		numBuckets = 1
	}

	tracker := &BlockedDomainsTracker{
		cfg:      cfg,
		buckets:  make([]*blockedBucket, numBuckets),
		stopChan: make(chan struct{}),
	}
	for i := 0; i < numBuckets; i++ {
		tracker.buckets[i] = newBlockedBucket(cfg.TopBlockedShardCount)
	}
	tracker.buckets[0].timestamp = time.Now()

	go tracker.startRotation()

	return tracker
}

func newBlockedBucket(shardCount int) *blockedBucket {
	bucket := &blockedBucket{
		shards: make([]*blockedShard, shardCount),
	}
	for i := 0; i < shardCount; i++ {
		bucket.shards[i] = &blockedShard{domains: make(map[string]*int64)}
	}
	return bucket
}

// Stop 停止桶轮换
func (t *BlockedDomainsTracker) Stop() {
	close(t.stopChan)
}

// RecordBlock 记录一次被拦截的域名
func (t *BlockedDomainsTracker) RecordBlock(domain string) {
	t.mu.RLock()
	currentBucket := t.buckets[t.current]
	t.mu.RUnlock()

	h := fnv.New32a()
	h.Write([]byte(domain))
	shard := currentBucket.shards[int(h.Sum32())%len(currentBucket.shards)]

	// Fast path: counter exists
	shard.mu.RLock()
	counter, exists := shard.domains[domain]
	shard.mu.RUnlock()

	if exists {
		atomic.AddInt64(counter, 1)
		return
	}

	shard.mu.Lock()
	// Double check
	if counter, exists = shard.domains[domain]; exists {
		shard.mu.Unlock()
		atomic.AddInt64(counter, 1)
		return
	}
	if shard.size < t.cfg.TopBlockedMaxPerBucket {
		newCounter := int64(1)
		shard.domains[domain] = &newCounter
		shard.size++
	}
	// Else: bucket full, ignore
	shard.mu.Unlock()
}

// GetTopBlockedDomains 获取窗口内拦截次数最多的 k 个域名
func (t *BlockedDomainsTracker) GetTopBlockedDomains(k int) []BlockedDomainCount {
	if k <= 0 {
		return nil
	}
	aggregated := make(map[string]int64)

	t.mu.RLock()
	for _, bucket := range t.buckets {
		for _, shard := range bucket.shards {
			shard.mu.RLock()
			for domain, counter := range shard.domains {
				aggregated[domain] += atomic.LoadInt64(counter)
			}
			shard.mu.RUnlock()
		}
	}
	t.mu.RUnlock()

	// Top-K via min-heap
	h := &blockedMinHeap{}
	heap.Init(h)

	for domain, count := range aggregated {
		if h.Len() < k {
			heap.Push(h, BlockedDomainCount{Domain: domain, Count: count})
			continue
		}
		top := (*h)[0]
		if count > top.Count || (count == top.Count && domain < top.Domain) {
			heap.Pop(h)
			heap.Push(h, BlockedDomainCount{Domain: domain, Count: count})
		}
	}

	result := make([]BlockedDomainCount, h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		result[i] = heap.Pop(h).(BlockedDomainCount)
	}
	return result
}

func (t *BlockedDomainsTracker) startRotation() {
	ticker := time.NewTicker(time.Duration(t.cfg.TopBlockedBucketMinutes) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.rotateBucket()
		case <-t.stopChan:
			return
		}
	}
}

func (t *BlockedDomainsTracker) rotateBucket() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.current = (t.current + 1) % len(t.buckets)

	bucket := t.buckets[t.current]
	bucket.timestamp = time.Now()
	for _, shard := range bucket.shards {
		shard.mu.Lock()
		shard.domains = make(map[string]*int64)
		shard.size = 0
		shard.mu.Unlock()
	}
}

// Reset 清空全部统计
func (t *BlockedDomainsTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, bucket := range t.buckets {
		for _, shard := range bucket.shards {
			shard.mu.Lock()
			shard.domains = make(map[string]*int64)
			shard.size = 0
			shard.mu.Unlock()
		}
	}
}

type blockedMinHeap []BlockedDomainCount

func (h blockedMinHeap) Len() int { return len(h) }
func (h blockedMinHeap) Less(i, j int) bool {
	if h[i].Count != h[j].Count {
		return h[i].Count < h[j].Count
	}
	return h[i].Domain > h[j].Domain // Higher domain is "smaller/worse" in min-heap
}
func (h blockedMinHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *blockedMinHeap) Push(x interface{}) {
	*h = append(*h, x.(BlockedDomainCount))
}

func (h *blockedMinHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
