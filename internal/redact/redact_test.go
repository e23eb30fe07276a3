package redact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedact(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Empty",
			input:    "",
			expected: "",
		},
		{
			name:     "NoSensitiveData",
			input:    "service restarted cleanly, no errors reported",
			expected: "service restarted cleanly, no errors reported",
		},
		// Phone shapes
		{
			name:     "PhoneInternational",
			input:    "reach me at +1-555-555-0199 tomorrow",
			expected: "reach me at " + Marker + " tomorrow",
		},
		{
			name:     "PhoneParenthesized",
			input:    "office: (555) 555-0199",
			expected: "office: " + Marker,
		},
		{
			name:     "PhoneTenDigit",
			input:    "call me at 555-123-4567",
			expected: "call me at " + Marker,
		},
		{
			name:     "PhoneTenDigitDots",
			input:    "fax 555.123.4567 please",
			expected: "fax " + Marker + " please",
		},
		{
			name:     "PhoneSevenDigit",
			input:    "ext 555-0199",
			expected: "ext " + Marker,
		},
		// SSN
		{
			name:     "SSN",
			input:    "ssn 123-45-6789 on file",
			expected: "ssn " + Marker + " on file",
		},
		{
			name:     "SSNBareDigits",
			input:    "ssn 123456789 on file",
			expected: "ssn " + Marker + " on file",
		},
		// Email
		{
			name:     "Email",
			input:    "contact alice.smith+logs@example.co.uk now",
			expected: "contact " + Marker + " now",
		},
		// Credit card
		{
			name:     "CreditCardDashes",
			input:    "card 4111-1111-1111-1111 charged",
			expected: "card " + Marker + " charged",
		},
		{
			name:     "CreditCardSpaces",
			input:    "card 4111 1111 1111 1111 charged",
			expected: "card " + Marker + " charged",
		},
		// Multiple families in one text
		{
			name:     "MixedFamilies",
			input:    "user bob@example.com called from (555) 555-0199 about ssn 123-45-6789",
			expected: "user " + Marker + " called from " + Marker + " about ssn " + Marker,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Redact(tc.input))
		})
	}
}

func TestRedactIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text without secrets",
		"call me at 555-123-4567",
		"mail bob@example.com, card 4111-1111-1111-1111, ssn 123-45-6789",
		Marker,
		strings.Repeat(Marker+" and more ", 3),
	}

	for _, input := range inputs {
		once := Redact(input)
		assert.Equal(t, once, Redact(once), "redact must be idempotent for %q", input)
	}
}

func TestRedactMarkerNotRematched(t *testing.T) {
	// The marker must not match any pattern family.
	assert.Equal(t, Marker, Redact(Marker))
}

func TestStagesOrder(t *testing.T) {
	stages := Stages()
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name
		assert.NotEmpty(t, s.Pattern())
	}

	// The broad ten-digit shape must run before the seven-digit shape,
	// and phones before SSN/email/credit card passes.
	assert.Equal(t, []string{
		"phone_international",
		"phone_parenthesized",
		"phone_ten_digit",
		"phone_seven_digit",
		"ssn",
		"email",
		"credit_card",
	}, names)
}
