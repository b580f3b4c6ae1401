package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserListsSetNormalizes(t *testing.T) {
	u := NewUserLists()
	rejected := u.Set(
		[]string{"  Tracker.NET ", "tracker.net", "", "dup.example.com", "dup.example.com"},
		[]string{"Allowed.ORG."},
	)
	assert.Empty(t, rejected)

	blocklist, allowlist := u.Entries()
	assert.Equal(t, []string{"dup.example.com", "tracker.net"}, blocklist)
	assert.Equal(t, []string{"allowed.org"}, allowlist)
}

func TestUserListsRejectsInvalidEntries(t *testing.T) {
	u := NewUserLists()
	rejected := u.Set(
		[]string{"nodot", "bad_chars.com", "-leading.example.com", "ok.example.com"},
		nil,
	)
	assert.Len(t, rejected, 3)

	blocklist, _ := u.Entries()
	assert.Equal(t, []string{"ok.example.com"}, blocklist)
}

func TestUserListsSubdomainContainment(t *testing.T) {
	u := NewUserLists()
	u.Set([]string{"example.com"}, []string{"cdn.example.org"})

	entry, ok := u.BlockMatch("example.com")
	assert.True(t, ok)
	assert.Equal(t, "example.com", entry)

	entry, ok = u.BlockMatch("a.b.example.com")
	assert.True(t, ok)
	assert.Equal(t, "example.com", entry)

	// Suffix without the dot boundary must not match.
	_, ok = u.BlockMatch("evil-example.com")
	assert.False(t, ok)
	_, ok = u.BlockMatch("notexample.com")
	assert.False(t, ok)

	assert.True(t, u.AllowMatch("static.cdn.example.org"))
	assert.False(t, u.AllowMatch("example.org"))
}

func TestUserListsClosestEntryWins(t *testing.T) {
	u := NewUserLists()
	u.Set([]string{"example.com", "ads.example.com"}, nil)

	entry, ok := u.BlockMatch("pixel.ads.example.com")
	assert.True(t, ok)
	assert.Equal(t, "ads.example.com", entry)
}

func TestUserListsReplaceIsWholesale(t *testing.T) {
	u := NewUserLists()
	u.Set([]string{"old.example.com"}, nil)
	u.Set([]string{"new.example.com"}, nil)

	_, ok := u.BlockMatch("old.example.com")
	assert.False(t, ok, "old entries must be gone after replacement")
	_, ok = u.BlockMatch("new.example.com")
	assert.True(t, ok)
}
