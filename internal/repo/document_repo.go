package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/didi/gendry/builder"

	"github.com/casetrail/casetrail/internal/model"
	"github.com/casetrail/casetrail/internal/pkg/dbutil"
	appErr "github.com/casetrail/casetrail/internal/pkg/errors"
)

var documentFields = []string{"id", "owner_id", "filename", "origin_pointer", "ledger_receipt", "metadata", "ctime"}

type DocumentRepo struct {
	db *sql.DB
}

func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

func (r *DocumentRepo) Create(ctx context.Context, doc *model.Document) error {
	metadata, err := encodeMetadata(doc.Metadata)
	if err != nil {
		return err
	}
	data := map[string]interface{}{
		"id":             doc.ID,
		"owner_id":       doc.OwnerID,
		"filename":       doc.Filename,
		"origin_pointer": doc.OriginPointer,
		"ledger_receipt": doc.LedgerReceipt,
		"metadata":       metadata,
		"ctime":          doc.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("case_documents", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *DocumentRepo) GetByID(ctx context.Context, ownerID, docID string) (*model.Document, error) {
	where := map[string]interface{}{
		"id":       docID,
		"owner_id": ownerID,
	}
	return r.getOne(ctx, where)
}

// GetAnyByID looks up a document without an owner filter. Only internal
// jobs use this; request handlers always scope by owner.
func (r *DocumentRepo) GetAnyByID(ctx context.Context, docID string) (*model.Document, error) {
	return r.getOne(ctx, map[string]interface{}{"id": docID})
}

func (r *DocumentRepo) GetByReceipt(ctx context.Context, ownerID, receipt string) (*model.Document, error) {
	where := map[string]interface{}{
		"ledger_receipt": receipt,
		"owner_id":       ownerID,
	}
	return r.getOne(ctx, where)
}

func (r *DocumentRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.Document, error) {
	sqlStr, args, err := builder.BuildSelect("case_documents", where, documentFields)
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
		return nil, appErr.ErrNotFound
	}
	return scanDocument(rows)
}

func (r *DocumentRepo) ListByOwner(ctx context.Context, ownerID string, limit uint) ([]model.Document, error) {
	where := map[string]interface{}{
		"owner_id": ownerID,
		"_orderby": "ctime desc",
	}
	if limit > 0 {
		where["_limit"] = []uint{0, limit}
	}
	sqlStr, args, err := builder.BuildSelect("case_documents", where, documentFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	docs := make([]model.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

func scanDocument(rows *sql.Rows) (*model.Document, error) {
	var doc model.Document
	var metadata string
	if err := rows.Scan(&doc.ID, &doc.OwnerID, &doc.Filename, &doc.OriginPointer, &doc.LedgerReceipt, &metadata, &doc.Ctime); err != nil {
		return nil, err
	}
	doc.Metadata = decodeMetadata(metadata)
	return &doc, nil
}

func encodeMetadata(metadata map[string]string) (string, error) {
	if len(metadata) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeMetadata(raw string) map[string]string {
	metadata := make(map[string]string)
	if raw == "" {
		return metadata
	}
	// Rows written by this service always hold valid JSON; tolerate
	// anything else by returning an empty map.
	_ = json.Unmarshal([]byte(raw), &metadata)
	return metadata
}
