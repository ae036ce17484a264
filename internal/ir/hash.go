package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes.
// Version suffix enables future algorithm migration.
const (
	DomainDocument = "sceneforge/document/v1"
	DomainShape    = "sceneforge/shape/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// DocumentHash returns the content hash of a serialized document.
func DocumentHash(serialized []byte) string {
	return hashWithDomain(DomainDocument, serialized)
}

// ShapeHash returns the content hash of a shape's paths, ignoring its
// asset id. Two shapes with equal hashes render identically.
func ShapeHash(s Shape) (string, error) {
	data, err := Marshal(List(s.Paths))
	if err != nil {
		return "", fmt.Errorf("ShapeHash: failed to marshal: %w", err)
	}
	return PathsHash(data), nil
}

// PathsHash hashes the compact serialized "paths" array of a shape, as read
// back from a data file.
func PathsHash(compact []byte) string {
	return hashWithDomain(DomainShape, compact)
}
