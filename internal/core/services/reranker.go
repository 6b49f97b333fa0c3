package services

import (
	"context"
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/safety-analyzer/internal/core/domain"
	"github.com/custodia-labs/safety-analyzer/internal/core/ports/driven"
	"github.com/custodia-labs/safety-analyzer/internal/logger"
)

// Judge call parameters.
const (
	judgeMaxTokens   = 180
	judgeTemperature = 0.2
)

// jsonObjectPattern matches from the first "{" to the last "}".
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// Reranker scores the relevance of candidate reports with the LLM and
// blends it with vector similarity.
type Reranker struct {
	llm     driven.LLMService
	prompts promptRenderer
}

// NewReranker creates a reranker. A nil LLM makes every judgment zero.
func NewReranker(llm driven.LLMService, prompts driven.PromptStore) *Reranker {
	return &Reranker{
		llm:     llm,
		prompts: promptRenderer{store: prompts},
	}
}

// Enabled reports whether judgments can be produced.
func (r *Reranker) Enabled() bool {
	return r != nil && r.llm != nil
}

// Judge asks the LLM why the candidate resembles the query. Only the summary
// and action sections of both reports are compared. Any failure yields a
// zero judgment.
func (r *Reranker) Judge(ctx context.Context, queryMarkdown, candidateMarkdown, language string) domain.Judgment {
	if !r.Enabled() {
		return domain.Judgment{}
	}

	prompt, err := r.prompts.render(driven.PromptSimilarityJudge, judgePrompt{
		LanguageLine: languageLine(judgeLanguageLines, language),
		Query:        domain.OverlapText(queryMarkdown),
		Candidate:    domain.OverlapText(candidateMarkdown),
	})
	if err != nil {
		logger.Warn("Relevance judge skipped: %v", err)
		return domain.Judgment{}
	}

	raw, err := r.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   judgeMaxTokens,
		Temperature: driven.Temperature(judgeTemperature),
		JSON:        true,
	})
	if err != nil {
		logger.Warn("Relevance judge failed: %v", err)
		return domain.Judgment{}
	}
	return ParseJudgment(raw)
}

// ParseJudgment reads {"why": ..., "confidence": ...} from a model response.
// Text around the object is ignored. Confidence is clamped to [0,1]; a
// response without a numeric confidence yields a zero judgment.
func ParseJudgment(raw string) domain.Judgment {
	var data map[string]any
	if err := decodeJSONObject(raw, &data); err != nil {
		return domain.Judgment{}
	}

	conf, ok := toFloat(data["confidence"])
	if !ok {
		return domain.Judgment{}
	}

	return domain.Judgment{
		Rationale:  strings.TrimSpace(toString(data["why"])),
		Confidence: clamp01(conf),
	}
}

// Blend combines vector scores and judged confidences into the final order,
// weight*vector + (1-weight)*confidence, sorted descending. Ties keep the
// vector order. Missing judgments count as zero.
func Blend(scored []domain.ScoredReport, judgments []domain.Judgment, weight float64) []domain.SimilarMatch {
	matches := make([]domain.SimilarMatch, len(scored))
	for i, s := range scored {
		var j domain.Judgment
		if i < len(judgments) {
			j = judgments[i]
		}
		matches[i] = domain.SimilarMatch{
			Report:      s.Report,
			VectorScore: s.Score,
			Confidence:  j.Confidence,
			Rationale:   j.Rationale,
			FinalScore:  weight*s.Score + (1-weight)*j.Confidence,
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].FinalScore > matches[b].FinalScore
	})
	return matches
}

// decodeJSONObject unmarshals the first {...} span of raw, or raw itself
// when it has none.
func decodeJSONObject(raw string, v any) error {
	raw = strings.TrimSpace(raw)
	if m := jsonObjectPattern.FindString(raw); m != "" {
		raw = m
	}
	return json.Unmarshal([]byte(raw), v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		b, err := json.Marshal(s)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func clamp01(f float64) float64 {
	switch {
	case f != f: // NaN
		return 0
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
