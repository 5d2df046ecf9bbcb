package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
const (
	DomainValue      = "thevalue/value/v1"
	DomainEvaluation = "thevalue/evaluation/v1"
)

// hashWithDomain returns hex(SHA256(domain || 0x00 || data)).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint is the content hash of a value's canonical form. Equal
// fingerprints mean equal canonical JSON.
func Fingerprint(v any) (string, error) {
	b, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("Fingerprint: %w", err)
	}
	return hashWithDomain(DomainValue, b), nil
}

// EvaluationID identifies one member evaluation within a run. It is stable
// across re-runs of the same scenario under the same run ID.
func EvaluationID(runID string, seq int64, member string, input, args any) (string, error) {
	b, err := MarshalCanonical(map[string]any{
		"run_id": runID,
		"seq":    seq,
		"member": member,
		"input":  input,
		"args":   args,
	})
	if err != nil {
		return "", fmt.Errorf("EvaluationID: %w", err)
	}
	return hashWithDomain(DomainEvaluation, b), nil
}

// MustFingerprint is like Fingerprint but panics on error.
func MustFingerprint(v any) string {
	id, err := Fingerprint(v)
	if err != nil {
		panic(err)
	}
	return id
}

// MustEvaluationID is like EvaluationID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustEvaluationID(runID string, seq int64, member string, input, args any) string {
	id, err := EvaluationID(runID, seq, member, input, args)
	if err != nil {
		panic(err)
	}
	return id
}
