package triage

import (
	"fmt"
	"strings"
)

// EmergencyInstruction is appended to every emergency or critical template.
const EmergencyInstruction = "Call your local emergency number immediately (112 in India, 1122 in Pakistan) or go to the nearest emergency department. Do not wait for symptoms to pass."

const disclaimer = "_This guidance is informational and is not a diagnosis. Consult a qualified doctor for medical advice._"

// Response is the structured reply produced offline. Its markdown form uses
// the same sections and risk line as a live reply.
type Response struct {
	Intent          Intent   `json:"intent"`
	Category        string   `json:"category"`
	Title           string   `json:"title"`
	Analysis        string   `json:"analysis"`
	RiskScore       int      `json:"risk_score"`
	Medicines       []string `json:"medicines,omitempty"`
	WhenToSeeDoctor []string `json:"when_to_see_doctor,omitempty"`
	HomeRemedies    []string `json:"home_remedies,omitempty"`
	RedFlags        []string `json:"red_flags,omitempty"`
	CallEmergency   bool     `json:"call_emergency"`
}

// Markdown renders the response. Section order is fixed.
func (r Response) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", r.Title)
	if r.CallEmergency {
		fmt.Fprintf(&b, "> **EMERGENCY:** %s\n\n", EmergencyInstruction)
	}
	b.WriteString(r.Analysis)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "**Risk Assessment: %d/10**\n", r.RiskScore)

	writeList(&b, "Suggested Medicines", r.Medicines)
	writeList(&b, "When to See a Doctor", r.WhenToSeeDoctor)
	writeList(&b, "Home Care", r.HomeRemedies)
	writeList(&b, "Red Flags", r.RedFlags)

	b.WriteString("\n")
	b.WriteString(disclaimer)
	return b.String()
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s\n", heading)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
}
