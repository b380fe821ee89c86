package searchstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/casetrail/casetrail/internal/model"
)

// Characters that carry meaning in the store's query language. Backslash
// must come first so escapes are not themselves re-escaped.
var specialChars = []string{
	`\`, `?`, `!`, `"`, `'`, `+`, `-`, `=`, `&`, `|`, `>`, `<`,
	`(`, `)`, `{`, `}`, `[`, `]`, `^`, `~`, `*`, `:`, `/`,
}

// Result reports an index write. Count is the number of rows attempted,
// even when some of them failed.
type Result struct {
	Success bool
	Count   int
	Err     error
}

// Gateway wraps the searchable store: it owns query escaping, write-error
// aggregation, and the degrade-to-empty policy for failed searches.
type Gateway struct {
	client Client
}

func NewGateway(client Client) *Gateway {
	return &Gateway{client: client}
}

func (g *Gateway) Index(ctx context.Context, chunks []model.Chunk, metadata map[string]string) Result {
	if g == nil || g.client == nil {
		return Result{Err: ErrNotConfigured}
	}
	if len(chunks) == 0 {
		return Result{Success: true}
	}
	meta := "{}"
	if len(metadata) > 0 {
		if data, err := json.Marshal(metadata); err == nil {
			meta = string(data)
		}
	}
	rows := make([]Row, 0, len(chunks))
	for _, chunk := range chunks {
		rows = append(rows, Row{
			ChunkID:       chunk.ChunkID,
			DocID:         chunk.DocID,
			Filename:      chunk.Filename,
			OriginPointer: chunk.OriginPointer,
			Text:          chunk.Text,
			Metadata:      meta,
		})
	}
	rowErrs := g.client.Insert(ctx, rows)
	if len(rowErrs) > 0 {
		logutil.GetLogger(ctx).Error("chunk index write failed",
			zap.Int("attempted", len(rows)),
			zap.Int("failed", len(rowErrs)),
			zap.String("chunk_id", rowErrs[0].ChunkID),
			zap.Error(rowErrs[0].Err),
		)
		return Result{
			Count: len(rows),
			Err:   fmt.Errorf("index chunks: %d of %d rows failed: %w", len(rowErrs), len(rows), rowErrs[0].Err),
		}
	}
	logutil.GetLogger(ctx).Info("chunks indexed", zap.Int("count", len(rows)))
	return Result{Success: true, Count: len(rows)}
}

// Search returns up to limit chunks in the store's relevance order. Any
// store failure degrades to no results; search never takes the caller down.
func (g *Gateway) Search(ctx context.Context, query string, limit int) []model.Chunk {
	if g == nil || g.client == nil {
		return []model.Chunk{}
	}
	rows, err := g.client.Search(ctx, EscapeQuery(query), limit)
	if err != nil {
		logutil.GetLogger(ctx).Warn("chunk search failed", zap.String("query", query), zap.Error(err))
		return []model.Chunk{}
	}
	chunks := make([]model.Chunk, 0, len(rows))
	for _, row := range rows {
		chunks = append(chunks, model.Chunk{
			ChunkID:       row.ChunkID,
			DocID:         row.DocID,
			Filename:      row.Filename,
			OriginPointer: row.OriginPointer,
			Text:          row.Text,
		})
	}
	return chunks
}

// EscapeQuery neutralizes every character the store's query syntax treats
// as an operator.
func EscapeQuery(query string) string {
	for _, c := range specialChars {
		query = strings.ReplaceAll(query, c, `\`+c)
	}
	return query
}
