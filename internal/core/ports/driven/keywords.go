package driven

// KeywordExtractor derives keyword terms from a query for
// intersection-counting search. Optional - when nil, keyword search
// returns empty result sets.
type KeywordExtractor interface {
	// ExtractKeywords returns the deduplicated keyword terms of a query.
	// An empty result disables keyword search for that query.
	ExtractKeywords(query string) []string

	// MatchCountToScore converts a per-candidate keyword match count
	// into a score. Must be monotonically increasing in count.
	MatchCountToScore(count int) float64
}
