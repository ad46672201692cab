package triage

import "strings"

// Intent is the classified purpose of one user message.
type Intent string

const (
	SymptomReport         Intent = "symptom_report"
	GeneralHealthQuestion Intent = "general_health_question"
	MedicationInquiry     Intent = "medication_inquiry"
	FollowUp              Intent = "follow_up"
	Emergency             Intent = "emergency"
	OffTopic              Intent = "off_topic"
)

// Intents lists the closed taxonomy in the order the prompt presents it.
func Intents() []Intent {
	return []Intent{SymptomReport, GeneralHealthQuestion, MedicationInquiry, FollowUp, Emergency, OffTopic}
}

// IntentRule matches when the normalised text contains any keyword.
type IntentRule struct {
	Intent   Intent
	Keywords []string
}

// IntentRules is tried top to bottom; the first match wins and anything that
// matches nothing is a symptom report. FollowUp is never chosen offline: it
// depends on conversation state the rule table does not see.
var IntentRules = []IntentRule{
	{Emergency, []string{"chest pain", "can't breathe", "cant breathe", "unconscious", "stroke"}},
	{MedicationInquiry, []string{"medicine", "tablet", "drug", "dose", "paracetamol", "ibuprofen", "side effect"}},
	{GeneralHealthQuestion, []string{"what is", "what are", "how does", "explain", "difference between", "why do"}},
	{OffTopic, []string{"weather", "cricket", "poem", "joke", "news"}},
}

var defaultEngine = NewEngine()

// Classify picks exactly one intent for a message using the default tables.
func Classify(text string) Intent {
	return defaultEngine.Classify(text)
}

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "`", "'")

func normalise(text string) string {
	return apostrophes.Replace(strings.ToLower(text))
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
