// Package domain defines the core business entities for Stratum.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ContentElement: The tagged-variant tree node (chunk, leaf section,
//     container section, content root)
//   - SearchRequest / SearchResponse: The retrieval query surface
//   - IndexStatistics, DeletionResult, ExpansionMethod
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
