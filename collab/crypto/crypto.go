// Package crypto is a thin external-collaborator surface over a
// third-party crypto engine: Base64, a digest/HMAC surface, and HKDF key
// derivation. It exists to give a crypto-engine dependency a concrete,
// exercised home — not to be a general cryptography library.
package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"

	"golang.org/x/crypto/hkdf"
)

// EncodeBase64 is the standard (padded) Base64 alphabet; this surface
// has no exotic alphabet requirements, so stdlib encoding/base64 is used
// directly — no third-party library wraps it more idiomatically.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeBase64 reverses EncodeBase64.
func DecodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// Digest returns the SHA-256 digest of data.
func Digest(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// HMAC returns the SHA-256 HMAC of data under key.
func HMAC(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// VerifyHMAC reports whether mac is the correct SHA-256 HMAC of data
// under key, using a constant-time comparison.
func VerifyHMAC(key, data, mac []byte) bool {
	return hmac.Equal(mac, HMAC(key, data))
}

// DeriveSigningKey derives a keyLen-byte signing key from secret via
// HKDF-SHA256, bound to info as the HKDF "info" parameter (domain
// separation between unrelated uses of the same secret).
func DeriveSigningKey(secret, info []byte, keyLen int) ([]byte, error) {
	reader := hkdf.New(sha256.New, secret, nil, info)
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}
