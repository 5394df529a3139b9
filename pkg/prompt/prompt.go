// Package prompt assembles the message list sent to the model: one system
// message carrying the assistant persona, its safety rules and the locale
// instruction, followed by the caller's conversation history.
package prompt

import (
	"strings"

	"aya-hq/companion/pkg/providers"
)

// Persona describes who the assistant is and what it is for.
const Persona = `You are the AYA Companion, a supportive assistant for the Adolescent and Young Adult (AYA) cancer program at Memorial Sloan Kettering Cancer Center.

Your role:
- Provide clear, accurate information about program services, appointments, costs, locations and support resources
- Be warm, supportive and professional
- Offer general, publicly available, evidence-based information, never personalized medical advice
- Point people to concrete next steps: program names, contact options and resources`

// SafetyRules are the behavioral rules the model must follow.
const SafetyRules = `CRITICAL GUIDELINES:
- NEVER provide medical diagnoses, treatment recommendations, or personalized medical advice
- Redirect questions about symptoms, diagnoses or treatment to the user's care team or healthcare provider
- For medical emergencies, immediately direct the user to call 911 or go to the nearest emergency room
- If crisis language appears, share the 988 Suicide & Crisis Lifeline
- NEVER ask for, repeat, or retain personal information such as names, dates of birth, medical record numbers, addresses or phone numbers
- If personal information has been shared, acknowledge that privacy measures are in place and do not reference it
- For questions outside the program's scope, say so politely and redirect to the main hospital line or an appropriate resource`

// SystemMessage builds the system message content for a locale instruction.
func SystemMessage(instruction string) string {
	var b strings.Builder
	b.Grow(len(Persona) + len(SafetyRules) + len(instruction) + 4)
	b.WriteString(Persona)
	b.WriteString("\n\n")
	b.WriteString(SafetyRules)
	b.WriteString("\n\n")
	b.WriteString(instruction)
	return b.String()
}

// Format returns a new slice: the system message followed by every history
// entry whose role is exactly user or assistant, in order. Other roles are
// dropped. history is not modified.
func Format(history []providers.Message, instruction string) []providers.Message {
	out := make([]providers.Message, 1, 1+len(history))
	out[0] = providers.Message{Role: providers.RoleSystem, Content: SystemMessage(instruction)}

	for _, m := range history {
		if IsConversational(m.Role) {
			out = append(out, m)
		}
	}
	return out
}

// IsConversational reports whether role is forwarded to the model as history.
func IsConversational(role string) bool {
	return role == providers.RoleUser || role == providers.RoleAssistant
}
