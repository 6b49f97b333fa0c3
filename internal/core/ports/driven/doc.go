// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ReportStore: Versioned report persistence
//   - TextExtractor: Plain text from PDF documents
//   - ConfigStore: Application configuration
//   - PromptStore: Editable prompt templates
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model calls. Without it, analysis is unavailable,
//     relevance judging is skipped and classification uses keyword rules.
//   - EmbeddingService: Generates vector embeddings. Without it, reports are
//     stored with an empty vector and similarity search returns nothing.
//   - Exporter: Secondary output formats.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
