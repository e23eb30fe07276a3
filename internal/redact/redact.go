// Package redact scrubs personally identifiable information from free
// text before it is persisted.
package redact

import "regexp"

// Marker replaces every matched substring. It contains no digits and
// no '@', so no stage can re-match it: Redact is idempotent.
const Marker = "[REDACTED]"

// Stage is one pattern pass of the redaction pipeline.
type Stage struct {
	Name    string
	pattern *regexp.Regexp
}

// Pattern returns the stage's regular expression source.
func (s Stage) Pattern() string {
	return s.pattern.String()
}

// stages run strictly in slice order. Later stages operate on the
// already-redacted string, so the wider numeric shapes must run before
// the narrower ones that would otherwise consume part of their input.
// The two bare phone shapes (10-digit, then 7-digit) keep this
// relative order; reordering the list changes redaction coverage.
var stages = []Stage{
	{"phone_international", regexp.MustCompile(`\+\d{1,2}[-.\s]?\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`)},
	{"phone_parenthesized", regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`)},
	{"phone_ten_digit", regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`)},
	{"phone_seven_digit", regexp.MustCompile(`\b\d{3}[-.\s]?\d{4}\b`)},
	{"ssn", regexp.MustCompile(`\b\d{3}[-\s]?\d{2}[-\s]?\d{4}\b`)},
	{"email", regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},
	{"credit_card", regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`)},
}

// Redact replaces phone numbers, SSN-shaped sequences, email addresses
// and credit-card-shaped sequences with Marker. Pure and total: empty
// input returns itself, and re-running on redacted text is a no-op.
func Redact(text string) string {
	if text == "" {
		return text
	}
	for _, s := range stages {
		text = s.pattern.ReplaceAllString(text, Marker)
	}
	return text
}

// Stages exposes the ordered pipeline for inspection.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}
