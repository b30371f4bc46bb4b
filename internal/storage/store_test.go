package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestStore_SaveLoadDelete(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Load(KeyVoterDNI)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Save(KeyVoterDNI, "12345678"))
			value, ok, err := store.Load(KeyVoterDNI)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "12345678", value)

			// Overwrite
			require.NoError(t, store.Save(KeyVoterDNI, "87654321"))
			value, _, err = store.Load(KeyVoterDNI)
			require.NoError(t, err)
			assert.Equal(t, "87654321", value)

			require.NoError(t, store.Delete(KeyVoterDNI))
			_, ok, err = store.Load(KeyVoterDNI)
			require.NoError(t, err)
			assert.False(t, ok)

			// Deleting an absent key is fine.
			require.NoError(t, store.Delete(KeyVoterDNI))
		})
	}
}

func TestStore_ClearRemovesEverything(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Save(KeyVoter, `{"dni":"12345678"}`))
			require.NoError(t, store.Save(KeyVoterDNI, "12345678"))
			require.NoError(t, store.Save(KeySessionStart, "1700000000000"))

			require.NoError(t, store.Clear())

			for _, key := range []string{KeyVoter, KeyVoterDNI, KeySessionStart} {
				_, ok, err := store.Load(key)
				require.NoError(t, err)
				assert.False(t, ok)
			}
		})
	}
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	store, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(KeySessionStart, "1700000000000"))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Load(KeySessionStart)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1700000000000", value)
}
