package dbmigrate

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Fingerprint is the base64 encoded sha256 digest of a normalized artifact
// body.
type Fingerprint string

// String returns the string representation of the Fingerprint.
func (f Fingerprint) String() string {
	return string(f)
}

// ComputeFingerprint returns the Fingerprint of body.  Line endings are
// normalized to LF, trailing whitespace is removed from every line and leading
// and trailing blank lines are dropped.  Comments are part of the fingerprint.
func ComputeFingerprint(body string) Fingerprint {
	sum := sha256.Sum256([]byte(NormalizeBody(body)))
	return Fingerprint(base64.StdEncoding.EncodeToString(sum[:]))
}

// NormalizeBody applies the normalization used by ComputeFingerprint.
func NormalizeBody(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")

	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\f\v")
	}

	start, end := 0, len(lines)
	for start < end && lines[start] == "" {
		start++
	}
	for end > start && lines[end-1] == "" {
		end--
	}

	return strings.Join(lines[start:end], "\n")
}
