package ir

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// DomainBook prefixes Book fingerprints. The version suffix allows the
// encoding to change without colliding with old fingerprints.
const DomainBook = "hvm/book/v1"

// hashWithDomain computes BLAKE2b-256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h, _ := blake2b.New256(nil) // only fails for oversized keys
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// BookHash fingerprints a Book by its binary encoding. Two Books hash equal
// exactly when a foreign runtime would load identical programs.
func BookHash(b *Book) (string, error) {
	data, err := b.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("BookHash: %w", err)
	}
	return hashWithDomain(DomainBook, data), nil
}

// MustBookHash is like BookHash but panics on error.
// Use only in tests or when the Book is known to be valid.
func MustBookHash(b *Book) string {
	h, err := BookHash(b)
	if err != nil {
		panic(err)
	}
	return h
}
