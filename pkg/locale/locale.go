package locale

// Code is a two-letter language tag from the supported set.
type Code string

// Supported language codes.
const (
	English    Code = "en"
	Spanish    Code = "es"
	Arabic     Code = "ar"
	Chinese    Code = "zh"
	Portuguese Code = "pt"
)

// Default is the locale used for any unsupported tag.
const Default = English

// Direction is the text direction a client should render a locale in.
type Direction string

const (
	// LTR is left-to-right text.
	LTR Direction = "ltr"
	// RTL is right-to-left text.
	RTL Direction = "rtl"
)

// Resolution is the result of resolving a language tag.
type Resolution struct {
	// Code is the resolved locale. Always a member of the supported set.
	Code Code

	// Instruction is the sentence appended to the system message telling
	// the model which language and tone to answer in.
	Instruction string

	// Direction is the text direction for Code.
	Direction Direction
}

type entry struct {
	instruction string
	direction   Direction
}

// table is built once and never written to.
var table = map[Code]entry{
	English: {
		instruction: "Respond in English with a warm, supportive tone. Use clear, accessible language.",
		direction:   LTR,
	},
	Spanish: {
		instruction: "Responde en español con un tono cálido y de apoyo. Usa un lenguaje claro y accesible.",
		direction:   LTR,
	},
	Arabic: {
		instruction: "أجب باللغة العربية بنبرة دافئة وداعمة. استخدم لغة واضحة ومفهومة.",
		direction:   RTL,
	},
	Chinese: {
		instruction: "用中文回答，语调温暖支持。使用清晰易懂的语言。",
		direction:   LTR,
	},
	Portuguese: {
		instruction: "Responda em português com um tom caloroso e de apoio. Use linguagem clara e acessível.",
		direction:   LTR,
	},
}

// supported lists the codes in a stable order.
var supported = []Code{English, Spanish, Arabic, Chinese, Portuguese}

// Resolve looks up tag by exact match. Unknown tags resolve to English.
func Resolve(tag string) Resolution {
	code := Code(tag)
	e, ok := table[code]
	if !ok {
		code = Default
		e = table[Default]
	}
	return Resolution{Code: code, Instruction: e.instruction, Direction: e.direction}
}

// Instruction returns the locale instruction for tag.
func Instruction(tag string) string {
	return Resolve(tag).Instruction
}

// IsSupported reports whether tag is an exact member of the supported set.
func IsSupported(tag string) bool {
	_, ok := table[Code(tag)]
	return ok
}

// Supported returns the supported codes in a stable order.
func Supported() []Code {
	out := make([]Code, len(supported))
	copy(out, supported)
	return out
}

// Pick returns the value for the resolved locale of tag from a per-locale
// table, falling back to the English value.
func Pick(tag string, values map[Code]string) string {
	if v, ok := values[Code(tag)]; ok {
		return v
	}
	return values[Default]
}
