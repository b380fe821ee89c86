package rag

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/casetrail/casetrail/internal/model"
	appErr "github.com/casetrail/casetrail/internal/pkg/errors"
)

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+|[^.!?]+$`)

// SplitSentences segments text at sentence boundaries. Trailing text
// without terminal punctuation counts as a sentence.
func SplitSentences(text string) []string {
	matches := sentenceRe.FindAllString(text, -1)
	sentences := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		sentences = append(sentences, m)
	}
	return sentences
}

// ChunkText splits text into size-bounded chunks along sentence
// boundaries. Each chunk after the first is seeded with the trailing
// overlap characters of its predecessor. A single sentence longer than
// chunkSize is kept whole in its own chunk; sentences are never split.
// Output is deterministic for identical input.
func ChunkText(text, docID string, chunkSize, overlap int) ([]model.Chunk, error) {
	if strings.TrimSpace(docID) == "" {
		return nil, fmt.Errorf("chunk: doc id is required: %w", appErr.ErrInvalid)
	}
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk: chunk size must be positive, got %d: %w", chunkSize, appErr.ErrInvalid)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("chunk: overlap must be in [0, chunk size): %w", appErr.ErrInvalid)
	}

	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil, nil
	}

	var chunks []model.Chunk
	current := ""
	seq := 0
	for _, sentence := range sentences {
		if len(current)+len(sentence) <= chunkSize {
			current += sentence + " "
			continue
		}
		if current == "" {
			// Oversized single sentence: keep it whole.
			current = sentence + " "
			continue
		}
		chunks = append(chunks, newChunk(docID, seq, current))
		seq++
		tail := current
		if len(tail) > overlap {
			tail = tail[len(tail)-overlap:]
		}
		current = tail + sentence + " "
	}
	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, newChunk(docID, seq, current))
	}
	return chunks, nil
}

func newChunk(docID string, seq int, text string) model.Chunk {
	return model.Chunk{
		ChunkID: fmt.Sprintf("%s_%d", docID, seq),
		DocID:   docID,
		Text:    strings.TrimSpace(text),
	}
}
