package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"privacyguard/config"
)

func testStatsConfig() *config.StatsConfig {
	return &config.StatsConfig{
		TopBlockedWindowHours:   24,
		TopBlockedBucketMinutes: 60,
		TopBlockedShardCount:    8,
		TopBlockedMaxPerBucket:  10000,
	}
}

func TestStatsCounters(t *testing.T) {
	s := NewStats(testStatsConfig())
	defer s.Stop()

	s.IncRequests()
	s.IncRequests()
	s.IncCookieSyncs()
	s.RecordBlock("tracker.net")

	got := s.GetStats()
	assert.Equal(t, int64(2), got["requests_total"])
	assert.Equal(t, int64(1), got["blocked_total"])
	assert.Equal(t, int64(1), got["blocked_today"])
	assert.Equal(t, int64(1), got["cookie_sync_events"])
}

func TestTopBlockedDomains(t *testing.T) {
	s := NewStats(testStatsConfig())
	defer s.Stop()

	for i := 0; i < 5; i++ {
		s.RecordBlock("tracker.net")
	}
	for i := 0; i < 3; i++ {
		s.RecordBlock("beacon.example.org")
	}
	s.RecordBlock("pixel.io")

	top := s.GetTopBlockedDomains(2)
	require.Len(t, top, 2)
	assert.Equal(t, "tracker.net", top[0].Domain)
	assert.Equal(t, int64(5), top[0].Count)
	assert.Equal(t, "beacon.example.org", top[1].Domain)
	assert.Equal(t, int64(3), top[1].Count)
}

func TestStatsReset(t *testing.T) {
	s := NewStats(testStatsConfig())
	defer s.Stop()

	s.IncRequests()
	s.RecordBlock("tracker.net")
	s.Reset()

	got := s.GetStats()
	assert.Equal(t, int64(0), got["requests_total"])
	assert.Equal(t, int64(0), got["blocked_total"])
	assert.Empty(t, s.GetTopBlockedDomains(10))
}
