package rag

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casetrail/casetrail/internal/model"
	appErr "github.com/casetrail/casetrail/internal/pkg/errors"
)

func TestSplitSentences(t *testing.T) {
	sentences := SplitSentences("First one. Second one! Third one? trailing text without punctuation")
	require.Equal(t, []string{
		"First one.",
		"Second one!",
		"Third one?",
		"trailing text without punctuation",
	}, sentences)
}

func TestChunkTextEmptyInput(t *testing.T) {
	chunks, err := ChunkText("", "D1", 1000, 100)
	require.NoError(t, err)
	require.Empty(t, chunks)

	chunks, err = ChunkText("   \n\t  ", "D1", 1000, 100)
	require.NoError(t, err)
	require.Empty(t, chunks)
}

func TestChunkTextSingleChunk(t *testing.T) {
	chunks, err := ChunkText("First sentence. Second one. Third.", "D1", 1000, 100)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	require.Equal(t, "D1_0", chunks[0].ChunkID)
	require.Equal(t, "D1", chunks[0].DocID)
	require.Equal(t, "First sentence. Second one. Third.", chunks[0].Text)
}

func TestChunkTextBoundsAndIDs(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&sb, "Sentence number %02d here. ", i)
	}
	chunks, err := ChunkText(sb.String(), "case-7", 60, 10)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	seen := make(map[string]struct{})
	for i, chunk := range chunks {
		require.Equal(t, fmt.Sprintf("case-7_%d", i), chunk.ChunkID)
		_, dup := seen[chunk.ChunkID]
		require.False(t, dup)
		seen[chunk.ChunkID] = struct{}{}
		require.LessOrEqual(t, len(chunk.Text), 60)
	}

	joined := strings.Join(chunksText(chunks), " ")
	for i := 0; i < 10; i++ {
		require.Contains(t, joined, fmt.Sprintf("Sentence number %02d here.", i))
	}
}

func TestChunkTextOverlapSeed(t *testing.T) {
	chunks, err := ChunkText("Alpha beta gamma one two. Delta epsilon zeta.", "D1", 30, 5)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	require.Equal(t, "Alpha beta gamma one two.", chunks[0].Text)
	require.Equal(t, "two. Delta epsilon zeta.", chunks[1].Text)
}

func TestChunkTextOversizedSentence(t *testing.T) {
	long := "This single sentence is far longer than the configured chunk size and must stay whole."
	chunks, err := ChunkText(long, "D1", 20, 5)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	require.Equal(t, long, chunks[0].Text)
}

func TestChunkTextValidation(t *testing.T) {
	_, err := ChunkText("text.", "", 100, 10)
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = ChunkText("text.", "D1", 0, 0)
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = ChunkText("text.", "D1", 100, 100)
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = ChunkText("text.", "D1", 100, -1)
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestChunkTextDeterministic(t *testing.T) {
	text := "One sentence here. Another sentence there. Yet another one follows. And a final closing line."
	first, err := ChunkText(text, "D9", 50, 10)
	require.NoError(t, err)
	second, err := ChunkText(text, "D9", 50, 10)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func chunksText(chunks []model.Chunk) []string {
	texts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		texts = append(texts, chunk.Text)
	}
	return texts
}
