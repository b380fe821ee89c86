package searchstore

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casetrail/casetrail/internal/model"
)

type captureClient struct {
	rows     []Row
	rowErrs  []RowError
	results  []Row
	searches []string
	err      error
}

func (c *captureClient) Insert(ctx context.Context, rows []Row) []RowError {
	c.rows = append(c.rows, rows...)
	return c.rowErrs
}

func (c *captureClient) Search(ctx context.Context, query string, limit int) ([]Row, error) {
	c.searches = append(c.searches, query)
	return c.results, c.err
}

func TestEscapeQuery(t *testing.T) {
	require.Equal(t, `what about \(theft\)\?`, EscapeQuery("what about (theft)?"))
	require.Equal(t, `a\\b`, EscapeQuery(`a\b`))
	require.Equal(t, "plain words", EscapeQuery("plain words"))
}

func TestEscapeQueryNeutralizesAllSpecials(t *testing.T) {
	query := `\?!"'+-=&|><(){}[]^~*:/`
	escaped := EscapeQuery(query)
	for i := 0; i < len(escaped); i++ {
		if strings.ContainsRune(`?!"'+-=&|><(){}[]^~*:/`, rune(escaped[i])) {
			require.Greater(t, i, 0)
			require.Equal(t, byte('\\'), escaped[i-1], "unescaped special at %d in %q", i, escaped)
		}
	}
}

func TestGatewaySearchEscapesQuery(t *testing.T) {
	client := &captureClient{results: []Row{{ChunkID: "d1_0", DocID: "d1", Text: "t"}}}
	g := NewGateway(client)

	chunks := g.Search(context.Background(), "what about (theft)?", 10)
	require.Len(t, chunks, 1)
	require.Equal(t, []string{`what about \(theft\)\?`}, client.searches)
}

func TestGatewaySearchDegradesOnError(t *testing.T) {
	client := &captureClient{err: fmt.Errorf("store down")}
	g := NewGateway(client)

	chunks := g.Search(context.Background(), "anything", 10)
	require.NotNil(t, chunks)
	require.Empty(t, chunks)
}

func TestGatewaySearchWithoutClient(t *testing.T) {
	g := NewGateway(nil)
	chunks := g.Search(context.Background(), "anything", 10)
	require.NotNil(t, chunks)
	require.Empty(t, chunks)
}

func TestGatewayIndex(t *testing.T) {
	client := &captureClient{}
	g := NewGateway(client)

	res := g.Index(context.Background(), []model.Chunk{
		{ChunkID: "d1_0", DocID: "d1", Filename: "f.pdf", OriginPointer: "cas://sha256/abc", Text: "one"},
		{ChunkID: "d1_1", DocID: "d1", Filename: "f.pdf", OriginPointer: "cas://sha256/abc", Text: "two"},
	}, map[string]string{"fir_no": "123/IPC/2021"})
	require.True(t, res.Success)
	require.NoError(t, res.Err)
	require.Equal(t, 2, res.Count)
	require.Len(t, client.rows, 2)
	require.Equal(t, `{"fir_no":"123/IPC/2021"}`, client.rows[0].Metadata)
}

func TestGatewayIndexEmptyMetadata(t *testing.T) {
	client := &captureClient{}
	g := NewGateway(client)

	res := g.Index(context.Background(), []model.Chunk{{ChunkID: "d1_0", DocID: "d1", Text: "one"}}, nil)
	require.True(t, res.Success)
	require.Equal(t, "{}", client.rows[0].Metadata)
}

func TestGatewayIndexPartialFailure(t *testing.T) {
	client := &captureClient{rowErrs: []RowError{{ChunkID: "d1_1", Err: fmt.Errorf("duplicate")}}}
	g := NewGateway(client)

	res := g.Index(context.Background(), []model.Chunk{
		{ChunkID: "d1_0", DocID: "d1", Text: "one"},
		{ChunkID: "d1_1", DocID: "d1", Text: "two"},
	}, nil)
	require.False(t, res.Success)
	require.Error(t, res.Err)
	require.Equal(t, 2, res.Count)
	require.Contains(t, res.Err.Error(), "1 of 2 rows failed")
}

func TestGatewayIndexNoChunks(t *testing.T) {
	g := NewGateway(&captureClient{})
	res := g.Index(context.Background(), nil, nil)
	require.True(t, res.Success)
	require.Zero(t, res.Count)
}

func TestGatewayIndexWithoutClient(t *testing.T) {
	g := NewGateway(nil)
	res := g.Index(context.Background(), []model.Chunk{{ChunkID: "d1_0"}}, nil)
	require.ErrorIs(t, res.Err, ErrNotConfigured)
}
