package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	prompt, err := BuildPrompt("¿Qué son las carillas?", "Las carillas son láminas finas.", "es")
	require.NoError(t, err)

	assert.Contains(t, prompt, "Respond in Spanish (language code: es)")
	assert.Contains(t, prompt, "Context:\n---\nLas carillas son láminas finas.\n---")
	assert.Contains(t, prompt, "Question: ¿Qué son las carillas?")
	assert.Contains(t, prompt, `"Sources:"`)
	assert.True(t, len(prompt) > 0 && prompt[len(prompt)-1] == ':')
}

func TestBuildPromptUnknownLanguage(t *testing.T) {
	prompt, err := BuildPrompt("q", "", "xx")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Respond in xx (language code: xx)")
}

func TestBuildPromptDoesNotEscape(t *testing.T) {
	prompt, err := BuildPrompt(`<b>"quoted"</b> & more`, "ctx", "en")
	require.NoError(t, err)
	assert.Contains(t, prompt, `<b>"quoted"</b> & more`)
}

func TestAnswerTrims(t *testing.T) {
	gen := &fakeGenerator{reply: "\n Answer \n"}
	text, err := NewAnswerGenerator(gen).Answer(context.Background(), "q", "c", "en")
	require.NoError(t, err)
	assert.Equal(t, "Answer", text)
}
