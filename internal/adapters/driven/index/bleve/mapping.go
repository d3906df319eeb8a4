package bleve

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Index document field names.
const (
	fieldContent     = "content"
	fieldKeywords    = "keywords"
	fieldElementType = "element_type"
)

// buildIndexMapping maps the three indexed fields: analyzed content,
// exact-match keyword tags and the element type tag. Everything else
// lives in the element store, not the index.
func buildIndexMapping() mapping.IndexMapping {
	contentField := bleve.NewTextFieldMapping()
	contentField.Analyzer = standard.Name
	contentField.Store = false

	keywordsField := bleve.NewTextFieldMapping()
	keywordsField.Analyzer = keyword.Name
	keywordsField.Store = false

	typeField := bleve.NewTextFieldMapping()
	typeField.Analyzer = keyword.Name
	typeField.Store = false

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt(fieldContent, contentField)
	doc.AddFieldMappingsAt(fieldKeywords, keywordsField)
	doc.AddFieldMappingsAt(fieldElementType, typeField)

	idx := bleve.NewIndexMapping()
	idx.DefaultMapping = doc
	idx.DefaultAnalyzer = standard.Name
	return idx
}
