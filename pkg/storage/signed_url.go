package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrTokenMalformed = errors.New("malformed download token")
	ErrTokenSignature = errors.New("invalid download token signature")
	ErrTokenExpired   = errors.New("download token expired")
)

// DownloadClaims is the information carried by a signed download token.
type DownloadClaims struct {
	ExportID  string
	Path      string
	ExpiresAt time.Time
}

// SignedURLSigner issues HMAC-SHA256 download tokens of the form id.exp.path.sig.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner constructs a signer; a non-positive ttl falls back to a day.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SignedURLSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Generate signs a token for the export file.
func (s *SignedURLSigner) Generate(exportID, path string) (string, time.Time, error) {
	if exportID == "" || path == "" {
		return "", time.Time{}, fmt.Errorf("export id and path required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	exp := strconv.FormatInt(expiresAt.Unix(), 10)
	encodedPath := base64.RawURLEncoding.EncodeToString([]byte(path))
	sig := s.sign(exportID, exp, encodedPath)
	return strings.Join([]string{exportID, exp, encodedPath, sig}, "."), expiresAt, nil
}

// Parse verifies the token and returns its claims.
func (s *SignedURLSigner) Parse(token string) (DownloadClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 || parts[0] == "" {
		return DownloadClaims{}, ErrTokenMalformed
	}
	exportID, exp, encodedPath, sig := parts[0], parts[1], parts[2], parts[3]

	expUnix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return DownloadClaims{}, ErrTokenMalformed
	}
	rawPath, err := base64.RawURLEncoding.DecodeString(encodedPath)
	if err != nil {
		return DownloadClaims{}, ErrTokenMalformed
	}
	if !hmac.Equal([]byte(s.sign(exportID, exp, encodedPath)), []byte(sig)) {
		return DownloadClaims{}, ErrTokenSignature
	}
	claims := DownloadClaims{ExportID: exportID, Path: string(rawPath), ExpiresAt: time.Unix(expUnix, 0)}
	if s.now().After(claims.ExpiresAt) {
		return claims, ErrTokenExpired
	}
	return claims, nil
}

func (s *SignedURLSigner) sign(exportID, exp, encodedPath string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(exportID + "|" + exp + "|" + encodedPath))
	return hex.EncodeToString(mac.Sum(nil))
}
