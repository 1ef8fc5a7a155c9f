package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/samvad-hq/ledger-demo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func openTestBolt(t *testing.T, opts Options) *boltStore {
	t.Helper()
	storeRaw, err := openBolt(filepath.Join(t.TempDir(), "journal.db"), opts)
	require.NoError(t, err)
	store := storeRaw.(*boltStore)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBoltStoreRecordsEntriesInOrder(t *testing.T) {
	store := openTestBolt(t, normalizeOptions(Options{}))

	legs := []domain.Leg{
		{Kind: domain.LegCredit, Amount: 100},
		{Kind: domain.LegDebit, Amount: 50, Account: "acc2"},
	}
	for i := range legs {
		require.NoError(t, store.Record(domain.JournalEntry{Kind: domain.EntryLeg, Leg: &legs[i]}))
	}
	require.NoError(t, store.Record(domain.JournalEntry{Kind: domain.EntryHTTP, Method: "GET", URL: "http://x", StatusCode: 200}))

	entries, err := store.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	require.NotNil(t, entries[0].Leg)
	assert.Equal(t, domain.LegCredit, entries[0].Leg.Kind)
	require.NotNil(t, entries[1].Leg)
	assert.Equal(t, "acc2", entries[1].Leg.Account)
	assert.Equal(t, domain.EntryHTTP, entries[2].Kind)
	assert.Equal(t, 200, entries[2].StatusCode)
	for _, e := range entries {
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.RecordedAt.IsZero())
	}
}

func TestBoltStoreExpiresEntries(t *testing.T) {
	store := openTestBolt(t, Options{
		EntryTTL:        1 * time.Second,
		CleanupInterval: 1 * time.Second,
	})

	require.NoError(t, store.Record(domain.JournalEntry{ID: "id1", Kind: domain.EntryLeg}))
	entries, err := store.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Fast-forward cleanup cadence and let the entry expire.
	store.lastCleanup.Store(time.Now().Add(-2 * time.Second).Unix())
	time.Sleep(1100 * time.Millisecond)

	entries, err = store.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries, "expired entry should be hidden")

	// The next write sweeps the expired key.
	require.NoError(t, store.Record(domain.JournalEntry{ID: "id2", Kind: domain.EntryLeg}))
	err = store.db.View(func(tx *bolt.Tx) error {
		assert.Nil(t, tx.Bucket([]byte(journalBucket)).Get([]byte("id1")), "id1 should be removed by cleanup")
		return nil
	})
	require.NoError(t, err)
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	require.NoError(t, err)
	assert.NoError(t, store.Record(domain.JournalEntry{}))

	entries, err := store.Entries()
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	_, err := NewStore("redis", "", Options{})
	assert.Error(t, err)
	_, err = NewStore("bbolt", " ", Options{})
	assert.Error(t, err, "bbolt requires a path")
}
