package chat

import (
	"strings"

	"aya-hq/companion/pkg/locale"
)

// Action types.
const (
	ActionCall     = "call"
	ActionSchedule = "schedule"
	ActionResource = "resource"
)

// Link targets offered to the user.
const (
	PhoneHref       = "tel:+1-212-639-2000"
	AppointmentsURL = "https://mskcc.org/appointments"
	ProgramURL      = "https://mskcc.org/aya-program"
)

// Action is a button the client renders under an assistant message.
type Action struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Citation points the user at a source for the answer.
type Citation struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

var callLabels = map[locale.Code]string{
	locale.English:    "Call MSK Now",
	locale.Spanish:    "Llamar a MSK",
	locale.Arabic:     "اتصل بـ MSK",
	locale.Chinese:    "致电MSK",
	locale.Portuguese: "Ligar para MSK",
}

var scheduleLabels = map[locale.Code]string{
	locale.English:    "Schedule Online",
	locale.Spanish:    "Agendar en Línea",
	locale.Arabic:     "حجز موعد عبر الإنترنت",
	locale.Chinese:    "在线预约",
	locale.Portuguese: "Agendar Online",
}

var resourceLabels = map[locale.Code]string{
	locale.English:    "View Resources",
	locale.Spanish:    "Ver Recursos",
	locale.Arabic:     "عرض الموارد",
	locale.Chinese:    "查看资源",
	locale.Portuguese: "Ver Recursos",
}

var citationTitles = map[locale.Code]string{
	locale.English:    "MSK Young Adult Program",
	locale.Spanish:    "Programa de Adultos Jóvenes MSK",
	locale.Arabic:     "برنامج البالغين الشباب في MSK",
	locale.Chinese:    "MSK青年成人项目",
	locale.Portuguese: "Programa de Jovens Adultos MSK",
}

var errorMessages = map[locale.Code]string{
	locale.English:    "I apologize, but I encountered an issue processing your request. Please try again or call MSK directly for assistance.",
	locale.Spanish:    "Me disculpo, pero encontré un problema procesando su solicitud. Por favor intente nuevamente o llame a MSK directamente para asistencia.",
	locale.Arabic:     "أعتذر، ولكنني واجهت مشكلة في معالجة طلبك. يرجى المحاولة مرة أخرى أو الاتصال بـ MSK مباشرة للحصول على المساعدة.",
	locale.Chinese:    "抱歉，我在处理您的请求时遇到了问题。请重试或直接致电MSK寻求帮助。",
	locale.Portuguese: "Peço desculpas, mas encontrei um problema ao processar sua solicitação. Tente novamente ou ligue diretamente para o MSK para obter assistência.",
}

var (
	scheduleKeywords = []string{"appointment", "schedule", "consulta", "cita", "موعد", "预约"}
	resourceKeywords = []string{"resource", "information", "recurso", "información", "مورد", "معلومات", "资源", "信息"}
)

// CallAction returns the phone action for loc.
func CallAction(loc string) Action {
	return Action{Type: ActionCall, Label: locale.Pick(loc, callLabels), Href: PhoneHref}
}

// Actions derives the buttons for an assistant reply. The call action is
// always first; schedule and resource actions follow when the reply
// mentions them.
func Actions(reply, loc string) []Action {
	actions := []Action{CallAction(loc)}

	lower := strings.ToLower(reply)
	if containsAny(lower, scheduleKeywords) {
		actions = append(actions, Action{
			Type:  ActionSchedule,
			Label: locale.Pick(loc, scheduleLabels),
			Href:  AppointmentsURL,
		})
	}
	if containsAny(lower, resourceKeywords) {
		actions = append(actions, Action{
			Type:  ActionResource,
			Label: locale.Pick(loc, resourceLabels),
			Href:  ProgramURL,
		})
	}
	return actions
}

// ProgramCitation returns the program page citation for loc.
func ProgramCitation(loc string) Citation {
	return Citation{Title: locale.Pick(loc, citationTitles), URL: ProgramURL}
}

// ErrorMessage returns the apology shown when a reply could not be produced.
func ErrorMessage(loc string) string {
	return locale.Pick(loc, errorMessages)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
