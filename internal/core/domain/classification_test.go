package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccurrenceList(t *testing.T) {
	require.Len(t, OccurrenceList, 150)

	seen := make(map[string]bool, len(OccurrenceList))
	for _, occ := range OccurrenceList {
		assert.False(t, seen[occ], "duplicate occurrence %q", occ)
		seen[occ] = true
	}

	for _, occ := range []string{
		FallbackOccurrence,
		"Runway excursion",
		"Bird strike",
		"Engine failure",
		"Hard landing",
		"Accident - crash",
		"Conflict - near collision  (VFR or IFR)",
		"Flight plan – route",
	} {
		assert.True(t, IsOccurrence(occ), occ)
	}
}

func TestClassifyByKeywords(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected Classification
	}{
		{
			name:     "runway excursion",
			body:     "The aircraft had a RUNWAY EXCURSION after touchdown.",
			expected: Classification{Occurrence: "Runway excursion", Severity: "Moderate", Probability: "Possible"},
		},
		{
			name:     "veer takes priority over bird",
			body:     "Aircraft veered left after a bird was sighted.",
			expected: Classification{Occurrence: "Runway excursion", Severity: "Moderate", Probability: "Possible"},
		},
		{
			name:     "bird",
			body:     "Bird ingestion on climb-out.",
			expected: Classification{Occurrence: "Bird strike", Severity: "Moderate", Probability: "Possible"},
		},
		{
			name:     "engine failure with fire",
			body:     "Engine failure followed by fire warning.",
			expected: Classification{Occurrence: "Engine failure", Severity: "Major", Probability: "Possible"},
		},
		{
			name:     "engine shut down",
			body:     "Crew performed an engine shut down in flight.",
			expected: Classification{Occurrence: "Engine failure", Severity: "Moderate", Probability: "Possible"},
		},
		{
			name:     "hard landing with injuries",
			body:     "Hard landing, two passengers injured.",
			expected: Classification{Occurrence: "Hard landing", Severity: "Major", Probability: "Possible"},
		},
		{
			name:     "evacuation without occurrence keyword",
			body:     "Cabin evacuated on the apron.",
			expected: Classification{Occurrence: FallbackOccurrence, Severity: "Major", Probability: "Possible"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyByKeywords(tt.body)
			assert.Equal(t, tt.expected.Occurrence, got.Occurrence)
			assert.Equal(t, tt.expected.Severity, got.Severity)
			assert.Equal(t, tt.expected.Probability, got.Probability)
			assert.Equal(t, ClassifierSourceRule, got.Source)
		})
	}
}

// The fallback does not read the parsed severity section.
func TestClassifyByKeywords_IgnoresParsedSeverity(t *testing.T) {
	body := "### Incident Summary\nTire blew on landing.\n### Severity Level\nMajor"

	require.Equal(t, "Major", ExtractSections(body).Severity)

	got := ClassifyByKeywords(body)
	assert.Equal(t, "Other operational incident", got.Occurrence)
	assert.Equal(t, "Moderate", got.Severity)
	assert.Equal(t, "Possible", got.Probability)
}

func TestMergeClassification(t *testing.T) {
	current := DefaultClassification()

	t.Run("accepts valid values with title-casing", func(t *testing.T) {
		got := MergeClassification(current, Classification{
			Occurrence:  " Bird strike ",
			Severity:    "major",
			Probability: "LIKELY",
			Source:      ClassifierSourceLLM,
		})
		assert.Equal(t, Classification{
			Occurrence:  "Bird strike",
			Severity:    "Major",
			Probability: "Likely",
			Source:      ClassifierSourceLLM,
		}, got)
	})

	t.Run("discards unknown values", func(t *testing.T) {
		got := MergeClassification(current, Classification{
			Occurrence:  "Alien abduction",
			Severity:    "Catastrophic",
			Probability: "",
		})
		assert.Equal(t, current.Occurrence, got.Occurrence)
		assert.Equal(t, current.Severity, got.Severity)
		assert.Equal(t, current.Probability, got.Probability)
	})

	t.Run("occurrence is not case-folded", func(t *testing.T) {
		got := MergeClassification(current, Classification{Occurrence: "bird strike"})
		assert.Equal(t, current.Occurrence, got.Occurrence)
	})
}

func TestClassification_Validate(t *testing.T) {
	assert.NoError(t, DefaultClassification().Validate())

	err := Classification{Occurrence: "x", Severity: "Minor", Probability: "Rare"}.Validate()
	assert.True(t, errors.Is(err, ErrInvalidInput))

	err = Classification{Occurrence: "Bird strike", Severity: "minor", Probability: "Rare"}.Validate()
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestApplyClassification(t *testing.T) {
	c := Classification{Occurrence: "Bird strike", Severity: "Major", Probability: "Likely"}

	got := ApplyClassification("### Incident Summary\nx", c)
	assert.Equal(t,
		"### Incident Summary\nx\n\n"+
			"### Classification (TC / SMS)\n- **Occurrence**: Bird strike\n\n"+
			"### Risk Assessment\n- **Risk Severity**: Major\n- **Risk Probability**: Likely", got)

	c2 := Classification{Occurrence: "Hard landing", Severity: "Minor", Probability: "Rare"}
	again := ApplyClassification(got, c2)
	assert.Contains(t, again, "- **Occurrence**: Hard landing")
	assert.Contains(t, again, "- **Risk Severity**: Minor\n- **Risk Probability**: Rare")
	assert.NotContains(t, again, "Bird strike")
	assert.Equal(t, 1, countOccurrences(again, "### Risk Assessment"))
}

func TestApplyClassificationToDisplay_KeepsHeader(t *testing.T) {
	display := WithEnvelope("a.pdf", MethodFiveWhys, LanguageEnglish, "### Incident Summary\nx")

	got := ApplyClassificationToDisplay(display, DefaultClassification())

	assert.Equal(t, Envelope("a.pdf", MethodFiveWhys, LanguageEnglish), EnvelopeLine(got))
	assert.Contains(t, got, "- **Occurrence**: Accident - crash")
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Major", titleCase("mAJOR"))
	assert.Equal(t, "Very Likely", titleCase("very likely"))
	assert.Equal(t, "", titleCase(""))
}

func countOccurrences(s, sub string) int {
	n := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			n++
		}
	}
	return n
}
