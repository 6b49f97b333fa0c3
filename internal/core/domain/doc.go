// Package domain defines the core business entities for the safety analyzer.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - Report: A stored analysis, one current row per document key
//   - Sections: The five fields carried by the report markdown grammar
//   - Classification: Occurrence, severity and probability from the controlled vocabulary
//   - Session: Per-user state for one selected file
//
// # Markdown Grammar
//
// Analysis output is markdown whose "### " headings act as a record schema.
// ExtractSections recognises a fixed header set; new fields are added by
// extending that set, never by reading deeper into prose.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, github.com/google/uuid
//   - Cannot Import: Any internal/ package
package domain
