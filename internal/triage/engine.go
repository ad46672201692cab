package triage

import "strings"

// Engine is the deterministic offline responder. It holds no state besides
// its rule tables, so one Engine is safe for concurrent use.
type Engine struct {
	intents  []IntentRule
	symptoms []Rule
	byIntent map[Intent]Template
}

func NewEngine() *Engine {
	return &Engine{
		intents:  IntentRules,
		symptoms: SymptomRules,
		byIntent: map[Intent]Template{
			Emergency:             emergency,
			MedicationInquiry:     medication,
			GeneralHealthQuestion: generalQuestion,
			OffTopic:              offTopic,
		},
	}
}

// Classify returns the intent for text using the engine's intent table.
func (e *Engine) Classify(text string) Intent {
	norm := normalise(text)
	for _, r := range e.intents {
		if containsAny(norm, r.Keywords) {
			return r.Intent
		}
	}
	return SymptomReport
}

// Respond classifies text and builds the structured response.
func (e *Engine) Respond(text string) Response {
	intent := e.Classify(text)
	if tpl, ok := e.byIntent[intent]; ok {
		return tpl(text)
	}
	return e.matchSymptom(text)
}

// Reply is Respond rendered as markdown.
func (e *Engine) Reply(text string) string {
	return e.Respond(text).Markdown()
}

func (e *Engine) matchSymptom(text string) Response {
	norm := normalise(text)
	for _, r := range e.symptoms {
		if containsAny(norm, r.Keywords) {
			return r.Template(strings.TrimSpace(text))
		}
	}
	return generic(strings.TrimSpace(text))
}
