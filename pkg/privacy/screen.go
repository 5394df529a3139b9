package privacy

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"aya-hq/companion/pkg/config"
	"aya-hq/companion/pkg/locale"
	"aya-hq/companion/pkg/telemetry/logging"
	"aya-hq/companion/pkg/telemetry/metrics"
)

// Detection reports what the screen found in a message.
type Detection struct {
	// HasPII is true when any pattern matched.
	HasPII bool `json:"has_pii"`

	// DetectedTypes lists matched pattern names in evaluation order.
	DetectedTypes []string `json:"detected_types"`

	// RedactionNotice tells the user what was removed, in their language.
	// Empty when nothing was found.
	RedactionNotice string `json:"redaction_notice,omitempty"`

	// OriginalLength and SanitizedLength count characters.
	OriginalLength  int `json:"original_length"`
	SanitizedLength int `json:"sanitized_length"`
}

// Screener redacts personal information from user messages before they
// are stored or sent to the model.
type Screener struct {
	redactor *logging.Redactor
	enabled  bool
	metrics  *metrics.Collector
}

// NewScreener creates a screener using the built-in patterns plus
// cfg.Patterns. collector may be nil.
func NewScreener(cfg config.PrivacyConfig, collector *metrics.Collector) *Screener {
	return &Screener{
		redactor: logging.NewRedactor(cfg.Patterns),
		enabled:  cfg.Enabled,
		metrics:  collector,
	}
}

// Enabled reports whether messages are screened.
func (s *Screener) Enabled() bool {
	return s != nil && s.enabled
}

// Screen returns text with PII replaced and a Detection describing the
// change. A disabled or nil screener returns text unchanged.
func (s *Screener) Screen(text, loc string) (string, Detection) {
	d := Detection{OriginalLength: utf8.RuneCountInString(text)}
	if !s.Enabled() {
		d.SanitizedLength = d.OriginalLength
		return text, d
	}

	sanitized, found := s.redactor.Redact(text)
	d.SanitizedLength = utf8.RuneCountInString(sanitized)
	if len(found) == 0 {
		return text, d
	}

	d.HasPII = true
	d.DetectedTypes = found
	d.RedactionNotice = Notice(found, loc)
	s.metrics.RecordPIIDetections(found)
	return sanitized, d
}

var typeNames = map[string]string{
	logging.PatternEmail:       "email addresses",
	logging.PatternPhone:       "phone numbers",
	logging.PatternSSN:         "social security numbers",
	logging.PatternMRN:         "medical identifiers",
	logging.PatternDate:        "dates",
	logging.PatternCreditCard:  "payment card numbers",
	logging.PatternIPv4:        "network addresses",
	logging.PatternBearerToken: "credentials",
	logging.PatternAPIKey:      "credentials",
	logging.PatternPassword:    "credentials",
}

var genericNotices = map[locale.Code]string{
	locale.Spanish:    "Detectamos y eliminamos información personal para proteger su confidencialidad.",
	locale.Arabic:     "اكتشفنا معلومات شخصية وقمنا بإزالتها لحماية سريتك.",
	locale.Chinese:    "我们检测到并删除了个人信息，以保护您的隐私。",
	locale.Portuguese: "Detectamos e removemos informações pessoais para proteger sua confidencialidade.",
}

// Notice builds the user-facing redaction notice for the detected types.
// English notices name the kinds of information removed; other locales get
// a general sentence.
func Notice(types []string, loc string) string {
	if len(types) == 0 {
		return ""
	}
	if msg, ok := genericNotices[locale.Resolve(loc).Code]; ok {
		return msg
	}

	var names []string
	seen := make(map[string]bool)
	for _, t := range types {
		name, ok := typeNames[t]
		if !ok {
			name = strings.ReplaceAll(t, "_", " ")
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	var list string
	switch len(names) {
	case 1:
		list = names[0]
	case 2:
		list = names[0] + " and " + names[1]
	default:
		list = strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
	return fmt.Sprintf("We detected and removed %s to protect confidentiality.", list)
}
