package services

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driven"
)

// sectorLine asks for aviation reporting vocabulary in every analysis.
const sectorLine = "Use standard aviation terminology aligned with ICAO and Transport Canada language conventions. " +
	"Keep units, acronyms, and severity labels consistent with aviation safety reporting practices. "

// analysisLanguageLines instruct the model on the output language of a report.
var analysisLanguageLines = map[string]string{
	domain.LanguageEnglish: "Write the full analysis in clear, professional English.",
	domain.LanguageFrench:  "Rédige toute l'analyse en français professionnel et clair.",
}

// judgeLanguageLines instruct the model on the language of a rationale.
var judgeLanguageLines = map[string]string{
	domain.LanguageEnglish: "Write the answer in clear, professional English.",
	domain.LanguageFrench:  "Répondez en français clair et professionnel.",
}

// languageLine returns the line for language, falling back to English.
func languageLine(lines map[string]string, language string) string {
	if line, ok := lines[language]; ok {
		return line
	}
	return lines[domain.LanguageEnglish]
}

var promptFuncs = template.FuncMap{
	"join": strings.Join,
}

// promptRenderer executes named templates from a prompt store.
type promptRenderer struct {
	store driven.PromptStore
}

func (p promptRenderer) render(name string, data any) (string, error) {
	if p.store == nil {
		return "", fmt.Errorf("no prompt store for %q", name)
	}
	text, err := p.store.Load(name)
	if err != nil {
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
	tmpl, err := template.New(name).Funcs(promptFuncs).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse prompt %q: %w", name, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render prompt %q: %w", name, err)
	}
	return strings.TrimSpace(b.String()), nil
}

// analysisPrompt holds the fields of driven.PromptAnalysis.
type analysisPrompt struct {
	Method       string
	SessionID    string
	SectorLine   string
	LanguageLine string
	Text         string
}

// feedbackPrompt holds the fields of driven.PromptFeedback.
type feedbackPrompt struct {
	Feedback string
}

// judgePrompt holds the fields of driven.PromptSimilarityJudge.
type judgePrompt struct {
	LanguageLine string
	Query        string
	Candidate    string
}

// classifyPrompt holds the fields of driven.PromptClassify.
type classifyPrompt struct {
	Occurrences   []string
	Severities    []string
	Probabilities []string
	Body          string
}
