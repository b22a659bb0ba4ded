package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
)

// GenerateToken returns a random URL-safe token with 256 bits of entropy.
func GenerateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken is the storage form of a token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// EncodeUID turns a numeric id into the opaque reference used in links.
func EncodeUID(id uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(id), 10)))
}

var errBadUID = errors.New("malformed uid")

// DecodeUID reverses EncodeUID.
func DecodeUID(uid string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return 0, errBadUID
	}
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, errBadUID
	}
	return uint(id), nil
}
