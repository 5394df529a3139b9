package logging

import (
	"regexp"
	"strings"

	"aya-hq/companion/pkg/config"
)

// Built-in pattern names.
const (
	PatternBearerToken = "bearer_token"
	PatternAPIKey      = "api_key"
	PatternEmail       = "email"
	PatternCreditCard  = "credit_card"
	PatternSSN         = "ssn"
	PatternMRN         = "medical_record_number"
	PatternDate        = "date"
	PatternPhone       = "phone"
	PatternIPv4        = "ipv4"
	PatternPassword    = "password"
)

// Redactor finds and replaces personally identifiable information in text.
// Patterns run in a fixed order; earlier replacements never contain input
// for later patterns.
type Redactor struct {
	patterns []*redactPattern
}

type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// defaultPatterns run before any custom pattern, in this order. Overlapping
// shapes are ordered most specific first (SSN before phone).
var defaultPatterns = []struct {
	name, regex, replacement string
}{
	{PatternBearerToken, `Bearer\s+[A-Za-z0-9\-._~+/]+=*`, "Bearer [REDACTED]"},
	{PatternAPIKey, `\b(?:sk|dapi)[-_]?[A-Za-z0-9]{16,}\b|(?i:api[-_]?key)[\s:=]+\S+`, "[REDACTED_API_KEY]"},
	{PatternEmail, `[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`, "[REDACTED_EMAIL]"},
	{PatternCreditCard, `\b(?:\d[ -]?){12,15}\d\b`, "[REDACTED_CARD]"},
	{PatternSSN, `\b\d{3}[-\s]\d{2}[-\s]\d{4}\b`, "[REDACTED_SSN]"},
	{PatternMRN, `(?i)\b(?:MRN|medical record(?: number)?)[\s:#-]*\d{5,10}\b`, "[REDACTED_MRN]"},
	{PatternDate, `\b(?:\d{1,2}[/-]\d{1,2}[/-](?:19|20)\d{2}|(?:19|20)\d{2}-\d{2}-\d{2})\b`, "[REDACTED_DATE]"},
	{PatternPhone, `(?:\+?1[-.\s]?)?(?:\(\d{3}\)|\b\d{3})[-.\s]?\d{3}[-.\s]?\d{4}\b`, "[REDACTED_PHONE]"},
	{PatternIPv4, `\b(?:\d{1,3}\.){3}\d{1,3}\b`, "[REDACTED_IP]"},
	{PatternPassword, `(?i)\b(password|passwd|pwd)[:=]\s*\S+`, "$1=[REDACTED]"},
}

// NewRedactor creates a Redactor with the built-in patterns followed by
// custom ones. A custom pattern with a built-in name replaces it in place.
// Invalid custom patterns are skipped; config validation reports them.
func NewRedactor(custom []config.RedactPattern) *Redactor {
	r := &Redactor{}
	for _, p := range defaultPatterns {
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.name,
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		})
	}

	for _, p := range custom {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil || p.Pattern == "" {
			continue
		}
		rp := &redactPattern{name: p.Name, regex: regex, replacement: p.Replacement}
		if rp.replacement == "" {
			rp.replacement = "[REDACTED]"
		}
		if i := r.index(p.Name); i >= 0 {
			r.patterns[i] = rp
			continue
		}
		r.patterns = append(r.patterns, rp)
	}

	return r
}

func (r *Redactor) index(name string) int {
	for i, p := range r.patterns {
		if p.name == name {
			return i
		}
	}
	return -1
}

// Patterns returns the pattern names in evaluation order.
func (r *Redactor) Patterns() []string {
	names := make([]string, len(r.patterns))
	for i, p := range r.patterns {
		names[i] = p.name
	}
	return names
}

// RedactString redacts PII from a string value.
func (r *Redactor) RedactString(value string) string {
	out, _ := r.Redact(value)
	return out
}

// Redact returns value with PII replaced and the names of the patterns that
// matched, in evaluation order.
func (r *Redactor) Redact(value string) (string, []string) {
	if r == nil || value == "" {
		return value, nil
	}

	var found []string
	for _, p := range r.patterns {
		if !p.regex.MatchString(value) {
			continue
		}
		found = append(found, p.name)
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value, found
}

var sensitiveKeys = []string{
	"password", "passwd", "pwd",
	"secret", "token", "api_key", "apikey",
	"auth", "authorization",
	"ssn", "credit_card", "private_key",
}

// isSensitiveKey reports whether a log attribute key names secret data.
func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// maskValue hides a secret, keeping a short prefix for identification.
func maskValue(v string) string {
	if len(v) <= 4 {
		return "***"
	}
	return v[:4] + "***"
}
