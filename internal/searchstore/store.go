package searchstore

import (
	"context"
	"errors"
)

// ErrNotConfigured marks an absent searchable store; search degrades to
// empty results and indexing reports a failure.
var ErrNotConfigured = errors.New("search store not configured")

// Row is the record schema of the searchable store.
type Row struct {
	ChunkID       string `db:"chunk_id"`
	DocID         string `db:"doc_id"`
	Filename      string `db:"filename"`
	OriginPointer string `db:"origin_pointer"`
	Text          string `db:"text"`
	Metadata      string `db:"metadata"`
}

// RowError reports a per-row insert failure. The underlying store does not
// guarantee batch atomicity, so a batch can partially land.
type RowError struct {
	ChunkID string
	Err     error
}

// Client is the narrow interface onto the external searchable store.
type Client interface {
	Insert(ctx context.Context, rows []Row) []RowError
	Search(ctx context.Context, query string, limit int) ([]Row, error)
}
