// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the engine to function:
//
//   - ElementStore: Authoritative in-memory content element map
//   - TextIndex: Inverted text + keyword index (bleve). Text search is always required.
//
// # Optional Interfaces
//
// These can be nil - the engine degrades gracefully:
//
//   - PersistentStore: Durable element records (SQLite). Without it, the
//     index instance is memory-only and lost on process exit.
//   - EmbeddingService: Generates vector embeddings. Without it, hybrid
//     search runs text-only.
//   - KeywordExtractor: Extracts query keywords. Without it, keyword
//     search returns empty result sets.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
