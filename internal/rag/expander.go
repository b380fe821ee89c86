package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/casetrail/casetrail/internal/ai"
)

const multiQueryCount = 3

type Expander struct {
	gen ai.IGenerator
}

func NewExpander(gen ai.IGenerator) *Expander {
	return &Expander{gen: gen}
}

// Expand turns a user query into one or more search strings. The result
// is never empty: every failure path falls back to the query itself.
func (e *Expander) Expand(ctx context.Context, query string, intent Intent) []string {
	if e == nil || e.gen == nil {
		return []string{query}
	}
	switch intent.Type {
	case IntentComparison, IntentPattern, IntentRelationship:
		return e.multiQuery(ctx, query, intent)
	default:
		return []string{e.refineQuery(ctx, query)}
	}
}

func (e *Expander) multiQuery(ctx context.Context, query string, intent Intent) []string {
	var angle string
	switch intent.Type {
	case IntentComparison:
		angle = "Each query should target a different angle: case identifiers, unique facts of each case, and entities shared across the cases."
	case IntentPattern:
		angle = "Each query should target a different angle: recurring behaviors, methods or techniques, and sequences or characteristics."
	default:
		angle = "Each query should target a different angle: involved entities, connections between them, and related events."
	}
	prompt := fmt.Sprintf(`Generate %d different search queries to find relevant information about this question related to case files.
%s
Format the output as a JSON array of strings, each representing a different query approach.
No explanation or commentary, just the JSON array.

User question: %q`, multiQueryCount, angle, query)

	out, err := e.gen.Generate(ctx, prompt)
	if err != nil {
		logutil.GetLogger(ctx).Warn("multi-query expansion unavailable", zap.Error(err))
		return []string{query}
	}
	queries, err := parseQueryList(out)
	if err != nil || len(queries) == 0 {
		logutil.GetLogger(ctx).Warn("multi-query output unparseable", zap.Error(err))
		return []string{query}
	}
	logutil.GetLogger(ctx).Debug("query expanded",
		zap.String("query", query), zap.Int("expansions", len(queries)))
	return queries
}

func (e *Expander) refineQuery(ctx context.Context, query string) string {
	prompt := fmt.Sprintf(`Extract the most relevant search keywords from this case file query.
Focus on entities, actions, dates, locations, and specific case details.
Return only search terms without explanation or commentary.

User query: %q`, query)

	out, err := e.gen.Generate(ctx, prompt)
	if err != nil {
		logutil.GetLogger(ctx).Warn("query refinement unavailable", zap.Error(err))
		return query
	}
	refined := strings.TrimSpace(out)
	if refined == "" {
		return query
	}
	return refined
}

func parseQueryList(raw string) ([]string, error) {
	clean := extractJSONArray(raw)
	if clean == "" {
		return nil, fmt.Errorf("no json array in model output")
	}
	var queries []string
	if err := json.Unmarshal([]byte(clean), &queries); err != nil {
		return nil, fmt.Errorf("parse query list: %w", err)
	}
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}
