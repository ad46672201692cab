package locale

import (
	"errors"
	"fmt"
	"strings"
)

// Language selects the speech locale and the reply-language constraint.
type Language string

const (
	English Language = "English"
	Hindi   Language = "Hindi"
	Urdu    Language = "Urdu"
)

const Default = English

var ErrUnknownLanguage = errors.New("unsupported language")

var all = []Language{English, Hindi, Urdu}

// All returns the selectable languages in display order.
func All() []Language {
	return append([]Language(nil), all...)
}

// Code is the BCP-47 tag used for both recognition and synthesis.
func (l Language) Code() string {
	switch l {
	case Hindi:
		return "hi-IN"
	case Urdu:
		return "ur-PK"
	default:
		return "en-IN"
	}
}

// Script names the writing system replies must use.
func (l Language) Script() string {
	switch l {
	case Hindi:
		return "Devanagari"
	case Urdu:
		return "Urdu (Perso-Arabic Nastaliq)"
	default:
		return "Latin"
	}
}

func (l Language) Valid() bool {
	for _, x := range all {
		if x == l {
			return true
		}
	}
	return false
}

// Parse accepts a language name or locale code, case-insensitively.
func Parse(s string) (Language, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, l := range all {
		if v == strings.ToLower(string(l)) || v == strings.ToLower(l.Code()) {
			return l, nil
		}
	}
	switch v {
	case "en":
		return English, nil
	case "hi":
		return Hindi, nil
	case "ur":
		return Urdu, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
}
