package service

import (
	"context"
	"strings"
	"text/template"

	"github.com/liliang-cn/askclinic/internal/domain"
	"github.com/liliang-cn/askclinic/internal/llm"
)

var promptTemplate = template.Must(template.New("prompt").Parse(
	`You are SAVA CLINIC's expert health assistant. Answer the user's question clearly and professionally, using ONLY the context below. If the context does not contain the answer, say so politely and suggest contacting the clinic through its website or WhatsApp.
IMPORTANT: Respond in {{.LangName}} (language code: {{.Lang}}).
CRITICAL: Do not include any citation, source, footnote or "Sources:" section in your answer.

Context:
---
{{.Context}}
---

Question: {{.Question}}

Response (in {{.Lang}}):`))

type promptData struct {
	Question string
	Context  string
	Lang     string
	LangName string
}

// AnswerGenerator renders the prompt and calls the chat model
type AnswerGenerator struct {
	generator llm.Generator
}

// NewAnswerGenerator creates a new answer generator
func NewAnswerGenerator(generator llm.Generator) *AnswerGenerator {
	return &AnswerGenerator{generator: generator}
}

// Answer generates a reply to question grounded on contextText.
func (g *AnswerGenerator) Answer(ctx context.Context, question, contextText, lang string) (string, error) {
	prompt, err := BuildPrompt(question, contextText, lang)
	if err != nil {
		return "", err
	}
	text, err := g.generator.Generate(ctx, prompt)
	if err != nil {
		return "", domain.NewStageError(domain.StageGenerate, err)
	}
	return strings.TrimSpace(text), nil
}

// BuildPrompt renders the answer prompt.
func BuildPrompt(question, contextText, lang string) (string, error) {
	name := lang
	if l, ok := domain.LookupLanguage(lang); ok {
		name = l.Name
	}

	var b strings.Builder
	err := promptTemplate.Execute(&b, promptData{
		Question: question,
		Context:  contextText,
		Lang:     lang,
		LangName: name,
	})
	return b.String(), err
}
