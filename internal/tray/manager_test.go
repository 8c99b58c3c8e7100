package tray

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"messaging-service/internal/models"
)

func newTestManager(t *testing.T) (*Manager, *FileStore) {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewManager(7, store), store
}

func TestOpenCreatesVisibleEntry(t *testing.T) {
	m, _ := newTestManager(t)

	m.Open(10)

	entries := m.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, 10, entries[0].ConversationID)
	require.False(t, entries[0].Minimized)
	require.Zero(t, entries[0].Unread)
}

func TestOpenExistingClearsBadgeAndUnminimizes(t *testing.T) {
	m, _ := newTestManager(t)

	m.Open(10)
	m.ToggleMinimize(10)
	m.SetUnread(10, 4)

	m.Open(10)

	entries := m.Entries()
	require.Len(t, entries, 1)
	require.False(t, entries[0].Minimized)
	require.Zero(t, entries[0].Unread)
}

func TestCloseRemovesEntry(t *testing.T) {
	m, _ := newTestManager(t)

	m.Open(10)
	m.Open(11)
	m.Close(10)

	entries := m.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, 11, entries[0].ConversationID)
	require.False(t, m.Has(10))
}

func TestAutoOpenFreshWindowStartsSeen(t *testing.T) {
	m, _ := newTestManager(t)

	m.AutoOpenOnInboundMessage(10, "Ada")

	entries := m.Entries()
	require.Len(t, entries, 1)
	require.False(t, entries[0].Minimized)
	require.Zero(t, entries[0].Unread)
	require.Equal(t, "Ada", entries[0].Title)
}

func TestAutoOpenMinimizedWindowIncrementsBadge(t *testing.T) {
	m, _ := newTestManager(t)

	m.Open(10)
	m.ToggleMinimize(10)

	m.AutoOpenOnInboundMessage(10, "Ada")

	entries := m.Entries()
	require.False(t, entries[0].Minimized)
	require.Equal(t, 1, entries[0].Unread)
}

func TestAutoOpenVisibleWindowLeavesBadge(t *testing.T) {
	m, _ := newTestManager(t)

	m.Open(10)
	m.AutoOpenOnInboundMessage(10, "Ada")

	entries := m.Entries()
	require.False(t, entries[0].Minimized)
	require.Zero(t, entries[0].Unread)
}

func TestPersistenceAcrossManagers(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	m := NewManager(7, store)
	m.Open(10)
	m.ToggleMinimize(10)
	m.SetTitle(10, "Ada")

	reloaded := NewManager(7, store)
	entries := reloaded.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, 10, entries[0].ConversationID)
	require.True(t, entries[0].Minimized)
	require.Equal(t, "Ada", entries[0].Title)
}

func TestCorruptTrayFileDiscarded(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "7.json"), []byte("{not json"), 0o644))

	store, err := NewFileStore(dir)
	require.NoError(t, err)

	m := NewManager(7, store)
	require.Empty(t, m.Entries())
}

func TestTrayFilesAreSeparatedPerUser(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	a := NewManager(1, store)
	a.Open(10)
	b := NewManager(2, store)
	b.Open(20)

	require.Equal(t, []models.TrayEntry{{ConversationID: 10}}, NewManager(1, store).Entries())
	require.Equal(t, []models.TrayEntry{{ConversationID: 20}}, NewManager(2, store).Entries())
}
