package searchstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"

	"github.com/casetrail/casetrail/internal/pkg/dbutil"
)

// PostgresClient indexes chunk rows in a Postgres table with a GIN
// full-text index over the text column.
type PostgresClient struct {
	db    *sqlx.DB
	table string
}

func NewPostgresClient(db *sql.DB, table string) *PostgresClient {
	return &PostgresClient{db: sqlx.NewDb(db, "postgres"), table: table}
}

func (c *PostgresClient) Insert(ctx context.Context, rows []Row) []RowError {
	var rowErrs []RowError
	for _, row := range rows {
		data := map[string]interface{}{
			"chunk_id":       row.ChunkID,
			"doc_id":         row.DocID,
			"filename":       row.Filename,
			"origin_pointer": row.OriginPointer,
			"text":           row.Text,
			"metadata":       row.Metadata,
		}
		sqlStr, args, err := builder.BuildInsert(c.table, []map[string]interface{}{data})
		if err != nil {
			rowErrs = append(rowErrs, RowError{ChunkID: row.ChunkID, Err: err})
			continue
		}
		// Re-indexing the same document must be idempotent by chunk_id.
		sqlStr += " ON CONFLICT (chunk_id) DO NOTHING"
		sqlStr, args = dbutil.Finalize(sqlStr, args)
		if _, err := c.db.ExecContext(ctx, sqlStr, args...); err != nil {
			rowErrs = append(rowErrs, RowError{ChunkID: row.ChunkID, Err: err})
		}
	}
	return rowErrs
}

func (c *PostgresClient) Search(ctx context.Context, query string, limit int) ([]Row, error) {
	sqlStr := fmt.Sprintf(`SELECT chunk_id, doc_id, filename, origin_pointer, text, metadata
FROM %s
WHERE to_tsvector('english', text) @@ plainto_tsquery('english', $1)
ORDER BY ts_rank(to_tsvector('english', text), plainto_tsquery('english', $1)) DESC
LIMIT $2`, c.table)
	rows := make([]Row, 0, limit)
	if err := c.db.SelectContext(ctx, &rows, sqlStr, query, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *PostgresClient) DeleteByDoc(ctx context.Context, docID string) error {
	sqlStr, args, err := builder.BuildDelete(c.table, map[string]interface{}{"doc_id": docID})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = c.db.ExecContext(ctx, sqlStr, args...)
	return err
}
