package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/casetrail/casetrail/internal/extract"
	"github.com/casetrail/casetrail/internal/filestore"
	"github.com/casetrail/casetrail/internal/ledger"
	"github.com/casetrail/casetrail/internal/model"
	appErr "github.com/casetrail/casetrail/internal/pkg/errors"
	"github.com/casetrail/casetrail/internal/pkg/timeutil"
	"github.com/casetrail/casetrail/internal/rag"
	"github.com/casetrail/casetrail/internal/repo"
)

const (
	maxUploadBytes = 32 << 20

	docCacheSize = 4096
	docCacheTTL  = 10 * time.Minute
)

type DocumentService struct {
	docs       *repo.DocumentRepo
	indexState *repo.IndexStateRepo
	blobs      filestore.Store
	ledger     ledger.Writer
	rag        *rag.Service
	// Documents are immutable after ingestion, so cached rows never go
	// stale. Keyed by owner|doc id.
	docCache *expirable.LRU[string, *model.Document]
}

func NewDocumentService(docs *repo.DocumentRepo, indexState *repo.IndexStateRepo, blobs filestore.Store, lw ledger.Writer, ragSvc *rag.Service) *DocumentService {
	return &DocumentService{
		docs:       docs,
		indexState: indexState,
		blobs:      blobs,
		ledger:     lw,
		rag:        ragSvc,
		docCache:   expirable.NewLRU[string, *model.Document](docCacheSize, nil, docCacheTTL),
	}
}

func docCacheKey(ownerID, docID string) string {
	return ownerID + "|" + docID
}

type IngestResult struct {
	Document   *model.Document
	ChunkCount int
	Indexed    bool
	IndexError string
}

// Ingest stores the raw bytes, anchors a receipt on the ledger, records
// the document, and chunks it into the search index. Blob storage and the
// primary record are mandatory; the ledger write and indexing are
// best-effort and never fail the upload.
func (s *DocumentService) Ingest(ctx context.Context, ownerID, filename string, content []byte) (*IngestResult, error) {
	if filename == "" || len(content) == 0 {
		return nil, appErr.ErrInvalid
	}
	if len(content) > maxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", appErr.ErrInvalid, maxUploadBytes)
	}
	text, err := extract.Text(filename, content)
	if err != nil {
		return nil, err
	}
	metadata := extract.CaseFields(text)

	pointer, err := s.blobs.Put(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("store blob: %w", err)
	}

	receipt := s.anchor(ctx, ownerID, pointer)

	doc := &model.Document{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		Filename:      filename,
		OriginPointer: pointer,
		LedgerReceipt: receipt,
		Metadata:      metadata,
		Ctime:         timeutil.NowUnix(),
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, err
	}
	s.docCache.Add(docCacheKey(ownerID, doc.ID), doc)

	result := &IngestResult{Document: doc}
	count, err := s.rag.ChunkAndIndex(ctx, text, doc.ID, filename, pointer, metadata)
	result.ChunkCount = count
	if err != nil {
		result.IndexError = err.Error()
		logutil.GetLogger(ctx).Error("chunk indexing failed, document kept",
			zap.String("doc_id", doc.ID), zap.Error(err))
		if serr := s.indexState.MarkFailed(ctx, doc.ID, err); serr != nil {
			logutil.GetLogger(ctx).Error("record index failure", zap.String("doc_id", doc.ID), zap.Error(serr))
		}
		return result, nil
	}
	result.Indexed = true
	if serr := s.indexState.MarkDone(ctx, doc.ID); serr != nil {
		logutil.GetLogger(ctx).Error("clear index state", zap.String("doc_id", doc.ID), zap.Error(serr))
	}
	return result, nil
}

func (s *DocumentService) anchor(ctx context.Context, ownerID, pointer string) string {
	if s.ledger == nil {
		return ""
	}
	receipt, err := s.ledger.Write(ctx, ownerID, pointer)
	if err != nil {
		logutil.GetLogger(ctx).Warn("ledger write failed, continuing without receipt",
			zap.String("pointer", pointer), zap.Error(err))
		return ""
	}
	return receipt
}

func (s *DocumentService) Get(ctx context.Context, ownerID, docID string) (*model.Document, error) {
	key := docCacheKey(ownerID, docID)
	if doc, ok := s.docCache.Get(key); ok {
		return doc, nil
	}
	doc, err := s.docs.GetByID(ctx, ownerID, docID)
	if err != nil {
		return nil, err
	}
	s.docCache.Add(key, doc)
	return doc, nil
}

func (s *DocumentService) GetByReceipt(ctx context.Context, ownerID, receipt string) (*model.Document, error) {
	return s.docs.GetByReceipt(ctx, ownerID, receipt)
}

func (s *DocumentService) List(ctx context.Context, ownerID string, limit uint) ([]model.Document, error) {
	return s.docs.ListByOwner(ctx, ownerID, limit)
}

// OpenBlob returns the original bytes of a document the owner uploaded.
func (s *DocumentService) OpenBlob(ctx context.Context, ownerID, docID string) (*model.Document, []byte, error) {
	doc, err := s.docs.GetByID(ctx, ownerID, docID)
	if err != nil {
		return nil, nil, err
	}
	content, err := s.blobs.Open(ctx, doc.OriginPointer)
	if err != nil {
		return nil, nil, fmt.Errorf("open blob: %w", err)
	}
	return doc, content, nil
}

// RetryFailedIndexing re-runs chunk indexing for documents whose last
// attempt failed. Called from the background retry job.
func (s *DocumentService) RetryFailedIndexing(ctx context.Context, limit uint) error {
	states, err := s.indexState.ListFailed(ctx, limit)
	if err != nil {
		return err
	}
	for _, st := range states {
		if err := s.reindex(ctx, st.DocID); err != nil {
			logutil.GetLogger(ctx).Warn("reindex attempt failed",
				zap.String("doc_id", st.DocID), zap.Int("attempts", st.Attempts), zap.Error(err))
			if serr := s.indexState.MarkFailed(ctx, st.DocID, err); serr != nil {
				logutil.GetLogger(ctx).Error("record index failure", zap.String("doc_id", st.DocID), zap.Error(serr))
			}
			continue
		}
		if serr := s.indexState.MarkDone(ctx, st.DocID); serr != nil {
			logutil.GetLogger(ctx).Error("clear index state", zap.String("doc_id", st.DocID), zap.Error(serr))
		}
	}
	return nil
}

func (s *DocumentService) reindex(ctx context.Context, docID string) error {
	doc, err := s.docs.GetAnyByID(ctx, docID)
	if err != nil {
		return err
	}
	content, err := s.blobs.Open(ctx, doc.OriginPointer)
	if err != nil {
		return fmt.Errorf("open blob: %w", err)
	}
	text, err := extract.Text(doc.Filename, content)
	if err != nil {
		return err
	}
	count, err := s.rag.ChunkAndIndex(ctx, text, doc.ID, doc.Filename, doc.OriginPointer, doc.Metadata)
	if err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("document reindexed",
		zap.String("doc_id", doc.ID), zap.Int("chunks", count))
	return nil
}
