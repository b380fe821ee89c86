package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/casetrail/casetrail/internal/model"
	"github.com/casetrail/casetrail/internal/pkg/dbutil"
	"github.com/casetrail/casetrail/internal/pkg/timeutil"
)

var indexStateFields = []string{"doc_id", "status", "last_error", "attempts", "mtime"}

// IndexStateRepo tracks per-document chunk indexing outcomes so a
// background job can retry documents whose indexing failed.
type IndexStateRepo struct {
	db *sql.DB
}

func NewIndexStateRepo(db *sql.DB) *IndexStateRepo {
	return &IndexStateRepo{db: db}
}

// MarkFailed records a failed indexing attempt, bumping the attempt
// counter across retries.
func (r *IndexStateRepo) MarkFailed(ctx context.Context, docID string, cause error) error {
	attempts := 0
	if prev, err := r.get(ctx, docID); err == nil {
		attempts = prev.Attempts
	}
	if err := r.delete(ctx, docID); err != nil {
		return err
	}
	lastError := ""
	if cause != nil {
		lastError = cause.Error()
	}
	data := map[string]interface{}{
		"doc_id":     docID,
		"status":     model.IndexStateFailed,
		"last_error": lastError,
		"attempts":   attempts + 1,
		"mtime":      timeutil.NowUnix(),
	}
	sqlStr, args, err := builder.BuildInsert("chunk_index_state", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// MarkDone clears any failure record for the document.
func (r *IndexStateRepo) MarkDone(ctx context.Context, docID string) error {
	return r.delete(ctx, docID)
}

func (r *IndexStateRepo) ListFailed(ctx context.Context, limit uint) ([]model.IndexState, error) {
	where := map[string]interface{}{
		"status":   model.IndexStateFailed,
		"_orderby": "mtime asc",
	}
	if limit > 0 {
		where["_limit"] = []uint{0, limit}
	}
	sqlStr, args, err := builder.BuildSelect("chunk_index_state", where, indexStateFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	states := make([]model.IndexState, 0)
	for rows.Next() {
		var st model.IndexState
		if err := rows.Scan(&st.DocID, &st.Status, &st.LastError, &st.Attempts, &st.Mtime); err != nil {
			return nil, err
		}
		states = append(states, st)
	}
	return states, rows.Err()
}

func (r *IndexStateRepo) get(ctx context.Context, docID string) (*model.IndexState, error) {
	sqlStr, args, err := builder.BuildSelect("chunk_index_state", map[string]interface{}{"doc_id": docID}, indexStateFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, sql.ErrNoRows
	}
	var st model.IndexState
	if err := rows.Scan(&st.DocID, &st.Status, &st.LastError, &st.Attempts, &st.Mtime); err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *IndexStateRepo) delete(ctx context.Context, docID string) error {
	sqlStr, args := dbutil.Finalize("DELETE FROM chunk_index_state WHERE doc_id=?", []interface{}{docID})
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}
