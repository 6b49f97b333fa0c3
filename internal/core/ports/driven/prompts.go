package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// Templates use text/template syntax; each constant documents its fields.
const (
	// PromptAnalysis produces the structured root-cause report.
	// Fields: .Method .SessionID .LanguageLine .SectorLine .Text
	PromptAnalysis = "analysis"

	// PromptFeedback is appended to the analysis prompt to revise a report.
	// Fields: .Feedback
	PromptFeedback = "feedback"

	// PromptSimilarityJudge compares two reports and returns {"why","confidence"}.
	// Fields: .LanguageLine .Query .Candidate
	PromptSimilarityJudge = "similarity_judge"

	// PromptClassify picks occurrence, severity and probability as strict JSON.
	// Fields: .Occurrences .Severities .Probabilities .Body
	PromptClassify = "classify"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service uses built-in default prompts.
	SetPromptStore(store PromptStore)
}
