package storage

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndOpen(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	rel, err := store.Save("2025/lr-1.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	require.Equal(t, "2025/lr-1.pdf", rel)

	file, err := store.Open(rel)
	require.NoError(t, err)
	defer file.Close()

	data, err := io.ReadAll(file)
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4", string(data))
}

func TestLocalStorageOpenMissing(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open("2025/missing.pdf")
	require.Error(t, err)
}

func TestLocalStorageDeleteIdempotent(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("2025/lr-1.pdf", []byte("x"))
	require.NoError(t, err)
	require.NoError(t, store.Delete("2025/lr-1.pdf"))
	require.NoError(t, store.Delete("2025/lr-1.pdf"))
}
