package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", time.Hour)

	token, expiresAt, err := signer.Generate("ar-1", "2025/lr-1.pdf")
	require.NoError(t, err)
	require.True(t, expiresAt.After(time.Now()))

	archiveID, relPath, _, err := signer.Parse(token, false)
	require.NoError(t, err)
	require.Equal(t, "ar-1", archiveID)
	require.Equal(t, "2025/lr-1.pdf", relPath)
}

func TestSignedURLRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", time.Hour)
	token, _, err := signer.Generate("ar-1", "2025/lr-1.pdf")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[0] = "ar-2"
	_, _, _, err = signer.Parse(strings.Join(parts, "."), false)
	require.Error(t, err)
}

func TestSignedURLRejectsWrongSecret(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", time.Hour)
	token, _, err := signer.Generate("ar-1", "2025/lr-1.pdf")
	require.NoError(t, err)

	other := NewSignedURLSigner("other-secret", time.Hour)
	_, _, _, err = other.Parse(token, false)
	require.Error(t, err)
}

func TestSignedURLExpiry(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", time.Nanosecond)
	token, _, err := signer.Generate("ar-1", "2025/lr-1.pdf")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, _, _, err = signer.Parse(token, false)
	require.Error(t, err)

	_, relPath, _, err := signer.Parse(token, true)
	require.NoError(t, err)
	require.Equal(t, "2025/lr-1.pdf", relPath)
}
