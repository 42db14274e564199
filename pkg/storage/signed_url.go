package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignedURLSigner mints and verifies download tokens of the form
// <archiveID>.<unix expiry>.<base64 path>.<hmac>. The token is the sole
// credential for the download route, so verification must not depend on any
// authenticated session.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewSignedURLSigner constructs a signer. A non-positive TTL falls back to
// 24 hours.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SignedURLSigner{secret: []byte(secret), ttl: ttl}
}

// Generate returns a signed token for the archive and its stored path.
func (s *SignedURLSigner) Generate(archiveID, relPath string) (string, time.Time, error) {
	if archiveID == "" || relPath == "" {
		return "", time.Time{}, fmt.Errorf("archiveID and relPath required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}

	expiresAt := time.Now().Add(s.ttl)
	encodedPath := base64.RawURLEncoding.EncodeToString([]byte(relPath))
	expiry := strconv.FormatInt(expiresAt.Unix(), 10)
	signature := s.sign(archiveID, expiry, encodedPath)

	token := strings.Join([]string{archiveID, expiry, encodedPath, signature}, ".")
	return token, expiresAt, nil
}

// Parse verifies a token and returns the embedded metadata. With allowExpired
// the timestamp check is skipped so housekeeping can still resolve old tokens.
func (s *SignedURLSigner) Parse(token string, allowExpired bool) (archiveID, relPath string, expiresAt time.Time, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return "", "", time.Time{}, fmt.Errorf("invalid token format")
	}
	archiveID, expiry, encodedPath, signature := parts[0], parts[1], parts[2], parts[3]

	if !hmac.Equal([]byte(s.sign(archiveID, expiry, encodedPath)), []byte(signature)) {
		return "", "", time.Time{}, fmt.Errorf("invalid token signature")
	}

	rawPath, err := base64.RawURLEncoding.DecodeString(encodedPath)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("decode path: %w", err)
	}
	expUnix, err := strconv.ParseInt(expiry, 10, 64)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("invalid timestamp")
	}
	expiresAt = time.Unix(expUnix, 0)

	if !allowExpired && time.Now().After(expiresAt) {
		return "", "", time.Time{}, fmt.Errorf("token expired")
	}
	return archiveID, string(rawPath), expiresAt, nil
}

func (s *SignedURLSigner) sign(archiveID, expiry, encodedPath string) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%s|%s", archiveID, expiry, encodedPath)
	return hex.EncodeToString(mac.Sum(nil))
}
