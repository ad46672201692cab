package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/suPer8Hu/health-triage/internal/locale"
	"github.com/suPer8Hu/health-triage/internal/triage"
)

func TestBuildSystemInstruction_Language(t *testing.T) {
	for _, lang := range locale.All() {
		s := BuildSystemInstruction(lang)
		assert.Contains(t, s, "Reply ONLY in "+string(lang))
		assert.Contains(t, s, lang.Script())
	}
}

func TestBuildSystemInstruction_AllIntents(t *testing.T) {
	s := BuildSystemInstruction(locale.Hindi)
	for _, intent := range triage.Intents() {
		f, ok := formats[intent]
		if assert.True(t, ok, intent) {
			assert.Contains(t, s, f)
		}
	}
	for _, heading := range []string{"SYMPTOM REPORT", "GENERAL HEALTH QUESTION", "MEDICATION INQUIRY", "FOLLOW-UP", "EMERGENCY", "OFF-TOPIC"} {
		assert.Equal(t, 1, strings.Count(s, heading+" ("), heading)
	}
}

func TestBuildSystemInstruction_Stateless(t *testing.T) {
	assert.Equal(t, BuildSystemInstruction(locale.Urdu), BuildSystemInstruction(locale.Urdu))
	assert.NotEqual(t, BuildSystemInstruction(locale.Urdu), BuildSystemInstruction(locale.English))
	assert.Equal(t, BuildSystemInstruction(locale.Default), BuildSystemInstruction(locale.Language("bogus")))
}
