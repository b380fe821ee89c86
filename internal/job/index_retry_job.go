package job

import (
	"context"

	"github.com/casetrail/casetrail/internal/service"
)

const retryBatchSize = 50

// IndexRetryJob re-runs chunk indexing for documents whose last indexing
// attempt failed, a batch at a time.
type IndexRetryJob struct {
	docs *service.DocumentService
}

func NewIndexRetryJob(docs *service.DocumentService) *IndexRetryJob {
	return &IndexRetryJob{docs: docs}
}

func (j *IndexRetryJob) Name() string {
	return "chunk_index_retry"
}

func (j *IndexRetryJob) Run(ctx context.Context) error {
	if j.docs == nil {
		return nil
	}
	return j.docs.RetryFailedIndexing(ctx, retryBatchSize)
}
