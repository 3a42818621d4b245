package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes. The version suffix allows the input
// shape to change without colliding with old values.
const (
	DomainFingerprint = "soqlgen/fingerprint/v1"
	DomainSchema      = "soqlgen/schema/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint identifies a (question, query) pair. Two requests with the
// same normalized question that rendered the same query share a fingerprint.
func Fingerprint(normalizedQuestion, query string) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"question": normalizedQuestion,
		"query":    query,
		"version":  FingerprintVersion,
	})
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainFingerprint, canonical), nil
}

// SchemaDigest hashes a canonical description of a schema graph.
func SchemaDigest(description map[string]any) (string, error) {
	canonical, err := MarshalCanonical(description)
	if err != nil {
		return "", fmt.Errorf("SchemaDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSchema, canonical), nil
}
