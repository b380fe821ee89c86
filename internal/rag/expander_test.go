package rag

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandWithoutModel(t *testing.T) {
	e := NewExpander(nil)
	queries := e.Expand(context.Background(), "who stole the car", GeneralIntent("who stole the car"))
	require.Equal(t, []string{"who stole the car"}, queries)
}

func TestExpandGeneralRefinesQuery(t *testing.T) {
	e := NewExpander(&fakeGen{out: "  car theft FIR Ramesh  \n"})
	queries := e.Expand(context.Background(), "who stole the car", GeneralIntent("who stole the car"))
	require.Equal(t, []string{"car theft FIR Ramesh"}, queries)
}

func TestExpandRefineFallsBackOnError(t *testing.T) {
	e := NewExpander(&fakeGen{err: fmt.Errorf("boom")})
	queries := e.Expand(context.Background(), "who stole the car", GeneralIntent("who stole the car"))
	require.Equal(t, []string{"who stole the car"}, queries)
}

func TestExpandRefineFallsBackOnEmptyOutput(t *testing.T) {
	e := NewExpander(&fakeGen{out: "   "})
	queries := e.Expand(context.Background(), "who stole the car", GeneralIntent("who stole the car"))
	require.Equal(t, []string{"who stole the car"}, queries)
}

func TestExpandComparisonMultiQuery(t *testing.T) {
	e := NewExpander(&fakeGen{out: "```json\n[\"FIR 123 facts\", \"FIR 456 facts\", \"shared entities\"]\n```"})
	intent := Intent{Type: IntentComparison, SearchTerms: "FIR 123 FIR 456"}
	queries := e.Expand(context.Background(), "compare FIR 123 and FIR 456", intent)
	require.Equal(t, []string{"FIR 123 facts", "FIR 456 facts", "shared entities"}, queries)
}

func TestExpandMultiQueryFallsBackOnGarbage(t *testing.T) {
	e := NewExpander(&fakeGen{out: "no list here"})
	intent := Intent{Type: IntentPattern, SearchTerms: "burglary"}
	queries := e.Expand(context.Background(), "any burglary patterns", intent)
	require.Equal(t, []string{"any burglary patterns"}, queries)
}

func TestExpandMultiQueryDropsBlankEntries(t *testing.T) {
	e := NewExpander(&fakeGen{out: `["first query", "  ", "second query"]`})
	intent := Intent{Type: IntentRelationship, SearchTerms: "x"}
	queries := e.Expand(context.Background(), "how are they connected", intent)
	require.Equal(t, []string{"first query", "second query"}, queries)
}
