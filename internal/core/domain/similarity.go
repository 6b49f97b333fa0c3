package domain

// ScoredReport is a vector-similarity hit.
type ScoredReport struct {
	Report *Report

	// Score is the dot product of unit vectors, i.e. cosine similarity.
	Score float64
}

// Judgment is the relevance verdict for one candidate.
type Judgment struct {
	// Rationale is a short explanation, empty when judging failed.
	Rationale string

	// Confidence is in [0,1]; 0 when judging failed.
	Confidence float64
}

// SimilarMatch is a ranked similar report.
type SimilarMatch struct {
	Report *Report

	VectorScore float64
	Confidence  float64
	Rationale   string

	// FinalScore blends VectorScore and Confidence.
	FinalScore float64
}

// SimilarOptions configures a similar-report search.
type SimilarOptions struct {
	// Limit caps the number of returned matches. Zero uses the configured default.
	Limit int

	// ExcludeDocKey drops candidates of this document (self-match filter).
	// When empty it is derived from the query's presentation header.
	ExcludeDocKey string

	// Rerank enables LLM relevance judging.
	Rerank bool

	// Language of the rationale text.
	Language string
}
