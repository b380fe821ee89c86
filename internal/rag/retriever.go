package rag

import (
	"context"

	"github.com/casetrail/casetrail/internal/model"
)

// Searcher is the read side of the chunk index. Implementations degrade
// to empty results on failure rather than returning errors.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) []model.Chunk
}

// SearchResult is an ordered, deduplicated set of retrieved chunks.
type SearchResult struct {
	Chunks []model.Chunk
}

func (r SearchResult) Empty() bool {
	return len(r.Chunks) == 0
}

type Retriever struct {
	store Searcher
}

func NewRetriever(store Searcher) *Retriever {
	return &Retriever{store: store}
}

// Retrieve runs each query in order and merges the results, keeping the
// first occurrence of every chunk_id and dropping later duplicates, then
// caps the merged set at overallLimit. Query order and per-query
// relevance order are both preserved.
func (r *Retriever) Retrieve(ctx context.Context, queries []string, perQueryLimit, overallLimit int) SearchResult {
	seen := make(map[string]struct{})
	merged := make([]model.Chunk, 0, overallLimit)
	for _, query := range queries {
		for _, chunk := range r.store.Search(ctx, query, perQueryLimit) {
			if _, ok := seen[chunk.ChunkID]; ok {
				continue
			}
			seen[chunk.ChunkID] = struct{}{}
			merged = append(merged, chunk)
		}
	}
	if overallLimit > 0 && len(merged) > overallLimit {
		merged = merged[:overallLimit]
	}
	return SearchResult{Chunks: merged}
}

// PerQueryLimit allots each expanded query a share of the overall budget,
// padded by one so deduplication still has enough raw candidates.
func PerQueryLimit(queryCount, overallLimit int) int {
	if queryCount <= 1 {
		return overallLimit
	}
	return overallLimit/queryCount + 1
}
