package domain

import (
	"strings"
	"unicode"
)

// SeverityOptions is the closed risk severity scale.
var SeverityOptions = []string{"Minor", "Moderate", "Major", "Critical"}

// ProbabilityOptions is the closed risk probability scale.
var ProbabilityOptions = []string{"Rare", "Unlikely", "Possible", "Likely", "Frequent"}

// Section titles written into a report body by ApplyClassification.
const (
	ClassificationTitle = "Classification (TC / SMS)"
	RiskAssessmentTitle = "Risk Assessment"
)

// Classifier sources.
const (
	ClassifierSourceLLM  = "llm"
	ClassifierSourceRule = "keyword"
)

// FallbackOccurrence is used when no keyword rule matches.
const FallbackOccurrence = "Other operational incident"

const (
	defaultOccurrence  = "Accident - crash"
	defaultSeverity    = "Moderate"
	defaultProbability = "Possible"
)

// Classification places a report in the controlled vocabulary.
type Classification struct {
	Occurrence  string `json:"occurrence"`
	Severity    string `json:"severity"`
	Probability string `json:"probability"`

	// Source records which classifier produced the values ("llm" or "keyword").
	Source string `json:"source,omitempty"`
}

// DefaultClassification returns the values a fresh session starts with.
func DefaultClassification() Classification {
	return Classification{
		Occurrence:  defaultOccurrence,
		Severity:    defaultSeverity,
		Probability: defaultProbability,
	}
}

// IsOccurrence reports whether v is in the occurrence vocabulary.
func IsOccurrence(v string) bool { return contains(OccurrenceList, v) }

// IsSeverity reports whether v is a recognised severity.
func IsSeverity(v string) bool { return contains(SeverityOptions, v) }

// IsProbability reports whether v is a recognised probability.
func IsProbability(v string) bool { return contains(ProbabilityOptions, v) }

// Validate returns ErrInvalidInput when any value is outside the vocabulary.
func (c Classification) Validate() error {
	switch {
	case !IsOccurrence(c.Occurrence):
		return invalid("unknown occurrence %q", c.Occurrence)
	case !IsSeverity(c.Severity):
		return invalid("unknown severity %q", c.Severity)
	case !IsProbability(c.Probability):
		return invalid("unknown probability %q", c.Probability)
	}
	return nil
}

// MergeClassification accepts each proposed value that is in the vocabulary
// and keeps the current value otherwise. Severity and probability are
// title-cased before the check.
func MergeClassification(current, proposed Classification) Classification {
	merged := current
	merged.Source = proposed.Source

	if occ := strings.TrimSpace(proposed.Occurrence); IsOccurrence(occ) {
		merged.Occurrence = occ
	}
	if sev := titleCase(strings.TrimSpace(proposed.Severity)); IsSeverity(sev) {
		merged.Severity = sev
	}
	if prob := titleCase(strings.TrimSpace(proposed.Probability)); IsProbability(prob) {
		merged.Probability = prob
	}
	return merged
}

// ClassifyByKeywords is the deterministic fallback rule. The first matching
// phrase group decides the occurrence. The parsed severity section is not
// consulted.
func ClassifyByKeywords(body string) Classification {
	t := strings.ToLower(body)

	occ := FallbackOccurrence
	switch {
	case strings.Contains(t, "runway excursion") || strings.Contains(t, "veer"):
		occ = "Runway excursion"
	case strings.Contains(t, "bird"):
		occ = "Bird strike"
	case strings.Contains(t, "engine failure") || strings.Contains(t, "engine shut down"):
		occ = "Engine failure"
	case strings.Contains(t, "hard landing"):
		occ = "Hard landing"
	}

	sev := "Moderate"
	for _, kw := range []string{"evacuat", "injur", "fire"} {
		if strings.Contains(t, kw) {
			sev = "Major"
			break
		}
	}

	return Classification{
		Occurrence:  occ,
		Severity:    sev,
		Probability: "Possible",
		Source:      ClassifierSourceRule,
	}
}

// ApplyClassification upserts the classification and risk assessment
// sections into a report body.
func ApplyClassification(body string, c Classification) string {
	classBlock := "- **Occurrence**: " + strings.TrimSpace(c.Occurrence)
	riskBlock := "- **Risk Severity**: " + strings.TrimSpace(c.Severity) +
		"\n- **Risk Probability**: " + strings.TrimSpace(c.Probability)

	body = UpsertSection(body, ClassificationTitle, classBlock)
	return UpsertSection(body, RiskAssessmentTitle, riskBlock)
}

// ApplyClassificationToDisplay applies a classification to a displayed
// report, keeping its presentation header.
func ApplyClassificationToDisplay(text string, c Classification) string {
	header := EnvelopeLine(text)
	body := ApplyClassification(StripEnvelope(text), c)
	if header == "" {
		return body
	}
	return header + "\n\n" + body
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// titleCase upper-cases the first letter of every word and lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
