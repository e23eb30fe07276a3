// Package fault carries classified operation failures as data.
// Every producer/store failure is a *Detail with an explicit Kind, so
// callers branch on the classification instead of inspecting strings,
// and "unexpected" errors are an ordinary kind rather than a panic.
package fault

import "fmt"

// Kind classifies a failure for retry and reporting decisions.
type Kind int

const (
	// KindValidation marks user-caused input errors. Never retried.
	KindValidation Kind = iota
	// KindTransient marks temporarily unavailable infrastructure.
	// Eligible for bounded retry or queue redelivery.
	KindTransient
	// KindPermanent marks infrastructure rejections that will not
	// succeed on retry (permission denied, malformed backend request).
	KindPermanent
	// KindConfig marks a missing/invalid process configuration, such
	// as an unconfigured persistence backend.
	KindConfig
	// KindUnclassified is the fallback arm for unexpected failures
	// caught at any layer.
	KindUnclassified
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransient:
		return "transient"
	case KindPermanent:
		return "permanent"
	case KindConfig:
		return "config"
	default:
		return "unclassified"
	}
}

// Detail is a classified failure. Message is a short, stable summary
// suitable as a response title; Reason elaborates for humans.
type Detail struct {
	Kind    Kind
	Message string
	Reason  string
}

// Error implements the error interface so a Detail can travel through
// error-typed plumbing without losing its classification.
func (d *Detail) Error() string {
	if d.Reason == "" {
		return d.Message
	}
	return d.Message + ": " + d.Reason
}

// Retryable reports whether retrying the failed operation may help.
func (d *Detail) Retryable() bool {
	return d.Kind == KindTransient
}

// New builds a Detail of the given kind.
func New(kind Kind, message, reason string) *Detail {
	return &Detail{Kind: kind, Message: message, Reason: reason}
}

// Validation builds a user-caused input failure.
func Validation(message, reason string) *Detail {
	return New(KindValidation, message, reason)
}

// Transientf builds a retryable infrastructure failure.
func Transientf(message, format string, args ...interface{}) *Detail {
	return New(KindTransient, message, fmt.Sprintf(format, args...))
}

// Permanentf builds a non-retryable infrastructure failure.
func Permanentf(message, format string, args ...interface{}) *Detail {
	return New(KindPermanent, message, fmt.Sprintf(format, args...))
}

// Configf builds a missing-configuration failure.
func Configf(message, format string, args ...interface{}) *Detail {
	return New(KindConfig, message, fmt.Sprintf(format, args...))
}

// Unclassifiedf builds the fallback failure for unexpected errors.
func Unclassifiedf(message, format string, args ...interface{}) *Detail {
	return New(KindUnclassified, message, fmt.Sprintf(format, args...))
}

// From adopts an arbitrary error as a Detail. A *Detail passes through
// unchanged; anything else becomes KindUnclassified.
func From(err error) *Detail {
	if err == nil {
		return nil
	}
	if d, ok := err.(*Detail); ok {
		return d
	}
	return Unclassifiedf("Unexpected error", "%v", err)
}
