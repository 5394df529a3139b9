package logging

import (
	"reflect"
	"strings"
	"testing"

	"aya-hq/companion/pkg/config"
)

func TestRedactor_DefaultPatterns(t *testing.T) {
	r := NewRedactor(nil)

	tests := []struct {
		name    string
		input   string
		want    string
		matched []string
	}{
		{
			name:    "email",
			input:   "reach me at jane.doe@example.org please",
			want:    "reach me at [REDACTED_EMAIL] please",
			matched: []string{PatternEmail},
		},
		{
			name:    "phone",
			input:   "my number is (212) 555-0147",
			want:    "my number is [REDACTED_PHONE]",
			matched: []string{PatternPhone},
		},
		{
			name:    "ssn before phone",
			input:   "ssn 123-45-6789",
			want:    "ssn [REDACTED_SSN]",
			matched: []string{PatternSSN},
		},
		{
			name:    "medical record number",
			input:   "my MRN: 00451234",
			want:    "my [REDACTED_MRN]",
			matched: []string{PatternMRN},
		},
		{
			name:    "date of birth",
			input:   "born 03/15/1998",
			want:    "born [REDACTED_DATE]",
			matched: []string{PatternDate},
		},
		{
			name:    "bearer token",
			input:   "Authorization: Bearer abc.def-123",
			want:    "Authorization: Bearer [REDACTED]",
			matched: []string{PatternBearerToken},
		},
		{
			name:    "databricks token",
			input:   "token dapi0123456789abcdef0123",
			want:    "token [REDACTED_API_KEY]",
			matched: []string{PatternAPIKey},
		},
		{
			name:  "clean text",
			input: "What support groups are available?",
			want:  "What support groups are available?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, matched := r.Redact(tt.input)
			if got != tt.want {
				t.Errorf("Redact() = %q, want %q", got, tt.want)
			}
			if !reflect.DeepEqual(matched, tt.matched) {
				t.Errorf("Redact() matched = %v, want %v", matched, tt.matched)
			}
		})
	}
}

func TestRedactor_MultipleTypes(t *testing.T) {
	r := NewRedactor(nil)

	got, matched := r.Redact("email a@b.io or call 212-555-0147")
	if strings.Contains(got, "a@b.io") || strings.Contains(got, "555-0147") {
		t.Fatalf("Redact() leaked PII: %q", got)
	}
	want := []string{PatternEmail, PatternPhone}
	if !reflect.DeepEqual(matched, want) {
		t.Errorf("matched = %v, want %v", matched, want)
	}
}

func TestRedactor_CustomPatterns(t *testing.T) {
	r := NewRedactor([]config.RedactPattern{
		{Name: "patient_id", Pattern: `PT-\d{6}`},
		{Name: PatternEmail, Pattern: `\S+@\S+`, Replacement: "<email>"},
		{Name: "broken", Pattern: `([`},
	})

	names := r.Patterns()
	if names[len(names)-1] != "patient_id" {
		t.Errorf("custom pattern not appended: %v", names)
	}
	for _, n := range names {
		if n == "broken" {
			t.Error("invalid pattern should be skipped")
		}
	}
	if len(names) != len(defaultPatterns)+1 {
		t.Errorf("len(Patterns()) = %d, want %d", len(names), len(defaultPatterns)+1)
	}

	if got := r.RedactString("id PT-123456"); got != "id [REDACTED]" {
		t.Errorf("custom redaction = %q", got)
	}
	if got := r.RedactString("x@y.z"); got != "<email>" {
		t.Errorf("overridden email redaction = %q", got)
	}
}

func TestRedactor_Nil(t *testing.T) {
	var r *Redactor
	got, matched := r.Redact("a@b.io")
	if got != "a@b.io" || matched != nil {
		t.Errorf("nil Redactor changed input: %q %v", got, matched)
	}
}

func TestIsSensitiveKey(t *testing.T) {
	tests := map[string]bool{
		"api_key":       true,
		"Authorization": true,
		"db_password":   true,
		"session":       false,
		"locale":        false,
	}
	for key, want := range tests {
		if got := isSensitiveKey(key); got != want {
			t.Errorf("isSensitiveKey(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestMaskValue(t *testing.T) {
	if got := maskValue("abc"); got != "***" {
		t.Errorf("maskValue(short) = %q", got)
	}
	if got := maskValue("dapi123456"); got != "dapi***" {
		t.Errorf("maskValue(long) = %q", got)
	}
}
