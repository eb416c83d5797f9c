package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageBackend_IsValid(t *testing.T) {
	for _, b := range []StorageBackend{StorageFile, StorageSQLite, StoragePostgres, StorageMemory} {
		assert.True(t, b.IsValid(), b)
		assert.NotEqual(t, unknownDescription, b.Description())
	}

	assert.False(t, StorageBackend("mongo").IsValid())
	assert.Equal(t, unknownDescription, StorageBackend("mongo").Description())
}

func TestStorageBackend_IsLocalFile(t *testing.T) {
	assert.True(t, StorageFile.IsLocalFile())
	assert.True(t, StorageSQLite.IsLocalFile())
	assert.False(t, StoragePostgres.IsLocalFile())
	assert.False(t, StorageMemory.IsLocalFile())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, StorageFile, s.Storage.Backend)
	assert.Empty(t, s.Storage.Path)
	assert.Equal(t, ":3000", s.HTTP.Addr)
	assert.Equal(t, 0, s.HTTP.RateLimit)
	assert.Equal(t, 20, s.HTTP.Burst)
}
