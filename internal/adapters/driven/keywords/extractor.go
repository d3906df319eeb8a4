// Package keywords provides the default query keyword extractor:
// lowercase tokenization with stopword removal and a saturating
// match-count score.
package keywords

import (
	"strings"
	"unicode"

	"github.com/custodia-labs/stratum/internal/core/ports/driven"
)

var _ driven.KeywordExtractor = (*Extractor)(nil)

// stopwords are common English function words that carry no keyword
// signal.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "but": {}, "by": {}, "for": {}, "from": {}, "has": {},
	"have": {}, "in": {}, "is": {}, "it": {}, "its": {}, "of": {},
	"on": {}, "or": {}, "that": {}, "the": {}, "to": {}, "was": {},
	"were": {}, "what": {}, "which": {}, "will": {}, "with": {},
}

// Extractor tokenizes queries into lowercase keyword terms.
type Extractor struct {
	minTermLength int
}

// NewExtractor returns an extractor that drops stopwords and terms
// shorter than two characters.
func NewExtractor() *Extractor {
	return &Extractor{minTermLength: 2}
}

// ExtractKeywords splits the query on non-letter, non-digit runes,
// lowercases each term and drops stopwords, short terms and duplicates.
// Order follows first appearance in the query.
func (x *Extractor) ExtractKeywords(query string) []string {
	fields := strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(fields))
	var out []string
	for _, f := range fields {
		term := strings.ToLower(f)
		if len(term) < x.minTermLength {
			continue
		}
		if _, stop := stopwords[term]; stop {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}

// MatchCountToScore maps a keyword match count into (0,1), saturating
// as the count grows: 1 match scores 0.5, 3 matches 0.75.
func (x *Extractor) MatchCountToScore(count int) float64 {
	if count <= 0 {
		return 0
	}
	return float64(count) / float64(count+1)
}
