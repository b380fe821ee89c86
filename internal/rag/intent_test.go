package rag

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeGen struct {
	out   string
	err   error
	calls int
	fn    func(prompt string) (string, error)
}

func (f *fakeGen) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.fn != nil {
		return f.fn(prompt)
	}
	return f.out, f.err
}

func TestClassifyWithoutModel(t *testing.T) {
	c := NewClassifier(nil)
	intent := c.Classify(context.Background(), "who stole the car")
	require.Equal(t, IntentGeneral, intent.Type)
	require.Equal(t, "who stole the car", intent.SearchTerms)
}

func TestClassifyModelError(t *testing.T) {
	c := NewClassifier(&fakeGen{err: fmt.Errorf("boom")})
	intent := c.Classify(context.Background(), "who stole the car")
	require.Equal(t, IntentGeneral, intent.Type)
	require.Equal(t, "who stole the car", intent.SearchTerms)
}

func TestClassifyUnparseableOutput(t *testing.T) {
	c := NewClassifier(&fakeGen{out: "sorry, I cannot help with that"})
	intent := c.Classify(context.Background(), "who stole the car")
	require.Equal(t, IntentGeneral, intent.Type)
}

func TestClassifyUnknownType(t *testing.T) {
	c := NewClassifier(&fakeGen{out: `{"type": "prediction", "search_terms": "x"}`})
	intent := c.Classify(context.Background(), "who stole the car")
	require.Equal(t, IntentGeneral, intent.Type)
}

func TestClassifyComparison(t *testing.T) {
	out := "```json\n" + `{
  "type": "comparison",
  "search_terms": "FIR 123 FIR 456 theft",
  "cases_to_compare": ["FIR 123", "FIR 456"],
  "entities_to_track": ["Ramesh Kumar"]
}` + "\n```"
	c := NewClassifier(&fakeGen{out: out})
	intent := c.Classify(context.Background(), "compare FIR 123 with FIR 456")
	require.Equal(t, IntentComparison, intent.Type)
	require.Equal(t, "FIR 123 FIR 456 theft", intent.SearchTerms)
	require.Equal(t, []string{"FIR 123", "FIR 456"}, intent.CasesToCompare)
	// entities only belong to entity/relationship intents
	require.Empty(t, intent.EntitiesToTrack)
}

func TestClassifyEntityKeepsTrackedEntities(t *testing.T) {
	c := NewClassifier(&fakeGen{out: `{"type": "entity", "search_terms": "Ramesh Kumar", "entities_to_track": ["Ramesh Kumar"]}`})
	intent := c.Classify(context.Background(), "what do we know about Ramesh Kumar")
	require.Equal(t, IntentEntity, intent.Type)
	require.Equal(t, []string{"Ramesh Kumar"}, intent.EntitiesToTrack)
	require.Empty(t, intent.CasesToCompare)
}

func TestClassifyEmptySearchTermsFallsBackToQuery(t *testing.T) {
	c := NewClassifier(&fakeGen{out: `{"type": "general", "search_terms": ""}`})
	intent := c.Classify(context.Background(), "what happened on 01 March 2021")
	require.Equal(t, IntentGeneral, intent.Type)
	require.Equal(t, "what happened on 01 March 2021", intent.SearchTerms)
}

func TestClassifyKeepsNoStateBetweenCalls(t *testing.T) {
	outputs := []string{
		`{"type": "pattern", "search_terms": "burglary pattern"}`,
		`{"type": "timeline", "search_terms": "burglary timeline"}`,
	}
	gen := &fakeGen{}
	gen.fn = func(prompt string) (string, error) {
		return outputs[gen.calls-1], nil
	}
	c := NewClassifier(gen)

	first := c.Classify(context.Background(), "any burglary patterns?")
	second := c.Classify(context.Background(), "any burglary patterns?")
	require.Equal(t, IntentPattern, first.Type)
	require.Equal(t, IntentTimeline, second.Type)
	require.Equal(t, 2, gen.calls)
}
