// Package bleve implements the text index port on a Bleve inverted index.
//
// Writes buffer into a bleve.Batch held by the single writer; Commit
// executes the batch, so uncommitted adds and deletes are structurally
// invisible to searches. A commit generation counter stands in for
// reader reopening: searches always observe exactly the latest committed
// state.
package bleve

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/blevesearch/bleve/v2"

	"github.com/custodia-labs/stratum/internal/core/domain"
	"github.com/custodia-labs/stratum/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.TextIndex = (*Index)(nil)

// IndexFileName is the bleve directory created under a persistent
// instance's path.
const IndexFileName = "index.bleve"

// Index is a single-writer/multi-reader text index backed by Bleve.
type Index struct {
	mu     sync.Mutex
	idx    bleve.Index
	batch  *bleve.Batch
	gen    atomic.Uint64
	path   string
	closed bool
}

// New opens or creates the index. An empty path selects a memory-only
// index that is lost on process exit; otherwise the bleve directory
// lives under path. Construction failure is fatal for the instance.
func New(path string) (*Index, error) {
	var (
		idx bleve.Index
		err error
	)

	if path == "" {
		idx, err = bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
	} else {
		if err = os.MkdirAll(path, 0700); err != nil {
			return nil, fmt.Errorf("create index directory: %w", err)
		}
		blevePath := filepath.Join(path, IndexFileName)
		idx, err = bleve.Open(blevePath)
		if err != nil {
			idx, err = bleve.New(blevePath, buildIndexMapping())
			if err != nil {
				return nil, fmt.Errorf("create index at %s: %w", blevePath, err)
			}
		}
	}

	i := &Index{
		idx:  idx,
		path: path,
	}
	i.batch = idx.NewBatch()
	return i, nil
}

// Index buffers an add/replace for the element. Visible after Commit.
func (i *Index) Index(_ context.Context, element *domain.ContentElement) error {
	if element == nil || element.ID == "" {
		return domain.ErrInvalidInput
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return domain.ErrIndexClosed
	}

	doc := map[string]interface{}{
		fieldContent:     element.SearchableText(),
		fieldElementType: string(element.Type),
	}
	if len(element.Keywords) > 0 {
		tags := make([]string, len(element.Keywords))
		for n, kw := range element.Keywords {
			tags[n] = strings.ToLower(kw)
		}
		doc[fieldKeywords] = tags
	}

	if err := i.batch.Index(element.ID, doc); err != nil {
		return fmt.Errorf("buffer index of %q: %w", element.ID, err)
	}
	return nil
}

// Delete buffers a delete-by-id. Unknown ids are a no-op at commit time.
func (i *Index) Delete(_ context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return domain.ErrIndexClosed
	}

	i.batch.Delete(id)
	return nil
}

// Commit executes the buffered batch and advances the read generation.
// Committing an empty batch only advances the generation.
func (i *Index) Commit(_ context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return domain.ErrIndexClosed
	}

	if i.batch.Size() > 0 {
		if err := i.idx.Batch(i.batch); err != nil {
			return fmt.Errorf("commit batch: %w", err)
		}
		i.batch.Reset()
	}
	i.gen.Add(1)
	return nil
}

// Generation returns the commit generation searches currently observe.
func (i *Index) Generation() uint64 {
	return i.gen.Load()
}

// Search runs an analyzed match over the content field. The analyzer
// tokenizes the query, so literal special characters cannot produce a
// parse failure; a query with no usable tokens matches nothing.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]driven.TextHit, error) {
	if limit <= 0 {
		return nil, nil
	}
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	q := bleve.NewMatchQuery(query)
	q.SetField(fieldContent)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)

	res, err := i.searchLocked(ctx, req)
	if err != nil {
		return nil, err
	}

	hits := make([]driven.TextHit, 0, len(res.Hits))
	for _, hit := range res.Hits {
		hits = append(hits, driven.TextHit{ID: hit.ID, Score: hit.Score})
	}
	return hits, nil
}

// KeywordMatches returns ids whose keyword field contains the term
// exactly. Terms are lowercased on both the write and read side.
func (i *Index) KeywordMatches(ctx context.Context, keyword string, limit int) ([]string, error) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" || limit <= 0 {
		return nil, nil
	}

	q := bleve.NewTermQuery(keyword)
	q.SetField(fieldKeywords)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)

	res, err := i.searchLocked(ctx, req)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// searchLocked guards against concurrent Close; bleve searches are
// otherwise safe to run concurrently with batch writes.
func (i *Index) searchLocked(ctx context.Context, req *bleve.SearchRequest) (*bleve.SearchResult, error) {
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return nil, domain.ErrIndexClosed
	}
	idx := i.idx
	i.mu.Unlock()

	return idx.SearchInContext(ctx, req)
}

// DocCount returns the number of committed documents.
func (i *Index) DocCount(_ context.Context) (uint64, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return 0, domain.ErrIndexClosed
	}
	return i.idx.DocCount()
}

// Path returns the instance directory, empty for memory-only indexes.
func (i *Index) Path() string {
	return i.path
}

// Close releases the index. Buffered writes that were never committed
// are discarded.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return nil
	}
	i.closed = true
	return i.idx.Close()
}
