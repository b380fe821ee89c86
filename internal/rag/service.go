package rag

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/casetrail/casetrail/internal/ai"
	"github.com/casetrail/casetrail/internal/model"
	"github.com/casetrail/casetrail/internal/searchstore"
)

type Config struct {
	ChunkSize    int
	ChunkOverlap int
	SearchLimit  int
}

// Service is the ingestion-to-answer pipeline: chunking and indexing on
// the write path; classify, expand, retrieve, and synthesize on the read
// path. It holds no mutable state and is safe for concurrent requests.
type Service struct {
	classifier  *Classifier
	expander    *Expander
	retriever   *Retriever
	synthesizer *Synthesizer
	gateway     *searchstore.Gateway
	cfg         Config
}

func NewService(gen ai.IGenerator, gateway *searchstore.Gateway, cfg Config) *Service {
	return &Service{
		classifier:  NewClassifier(gen),
		expander:    NewExpander(gen),
		retriever:   NewRetriever(gateway),
		synthesizer: NewSynthesizer(gen),
		gateway:     gateway,
		cfg:         cfg,
	}
}

// ChunkAndIndex splits text into chunks and writes them to the search
// index. It returns the number of rows attempted even when indexing
// fails, so callers can report partial progress.
func (s *Service) ChunkAndIndex(ctx context.Context, text, docID, filename, originPointer string, metadata map[string]string) (int, error) {
	chunks, err := ChunkText(text, docID, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, nil
	}
	for i := range chunks {
		chunks[i].Filename = filename
		chunks[i].OriginPointer = originPointer
	}
	res := s.gateway.Index(ctx, chunks, metadata)
	if res.Err != nil {
		return res.Count, res.Err
	}
	return res.Count, nil
}

// FindChunks is the retrieval half of the pipeline: classify, expand,
// then run the deduplicated multi-query search.
func (s *Service) FindChunks(ctx context.Context, query string, limit int) []model.Chunk {
	if limit <= 0 {
		limit = s.cfg.SearchLimit
	}
	intent := s.classifier.Classify(ctx, query)
	result := s.retrieve(ctx, query, intent, limit)
	return result.Chunks
}

// Answer runs the full read pipeline and returns the grounded answer
// along with the chunks that supported it.
func (s *Service) Answer(ctx context.Context, query string, history []model.ChatTurn) (string, []model.Chunk) {
	intent := s.classifier.Classify(ctx, query)
	result := s.retrieve(ctx, query, intent, s.cfg.SearchLimit)
	answer := s.synthesizer.Synthesize(ctx, query, result, history, intent)
	return answer, result.Chunks
}

func (s *Service) retrieve(ctx context.Context, query string, intent Intent, limit int) SearchResult {
	queries := s.expander.Expand(ctx, query, intent)
	perQuery := PerQueryLimit(len(queries), limit)
	result := s.retriever.Retrieve(ctx, queries, perQuery, limit)
	logutil.GetLogger(ctx).Info("chunks retrieved",
		zap.String("intent", string(intent.Type)),
		zap.Int("queries", len(queries)),
		zap.Int("chunks", len(result.Chunks)),
	)
	return result
}
