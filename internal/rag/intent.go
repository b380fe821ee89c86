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

type IntentType string

const (
	IntentComparison   IntentType = "comparison"
	IntentPattern      IntentType = "pattern"
	IntentTimeline     IntentType = "timeline"
	IntentEntity       IntentType = "entity"
	IntentRelationship IntentType = "relationship"
	IntentGeneral      IntentType = "general"
)

// Intent is the classified purpose of a query. Only the fields relevant
// to the category are populated: CasesToCompare for comparison queries,
// EntitiesToTrack for entity and relationship queries.
type Intent struct {
	Type            IntentType
	SearchTerms     string
	CasesToCompare  []string
	EntitiesToTrack []string
}

// GeneralIntent is the conservative fallback used whenever classification
// is unavailable or unparseable.
func GeneralIntent(query string) Intent {
	return Intent{Type: IntentGeneral, SearchTerms: query}
}

const intentPromptTemplate = `Analyze this query about case files and categorize its intent. Output a JSON object with the following structure:
{
  "type": "[one of: comparison, pattern, timeline, entity, relationship, general]",
  "search_terms": "extracted keywords for search",
  "cases_to_compare": ["case1", "case2"],
  "entities_to_track": ["entity1", "entity2"]
}

Only include relevant fields based on the query type.

Example intents:
- comparison: Looking for similarities or differences between specific cases
- pattern: Seeking recurring patterns across cases
- timeline: Requesting chronological analysis
- entity: Asking about specific persons, organizations, etc.
- relationship: Inquiring about connections between entities
- general: General case information queries

Output the JSON object only, no explanation.

User query: %q`

// Classifier is stateless: every query is classified fresh, nothing is
// retained between calls.
type Classifier struct {
	gen ai.IGenerator
}

func NewClassifier(gen ai.IGenerator) *Classifier {
	return &Classifier{gen: gen}
}

// Classify never fails: when the model is absent, errors, or returns
// something unparseable, the query is treated as a general lookup.
func (c *Classifier) Classify(ctx context.Context, query string) Intent {
	if c == nil || c.gen == nil {
		return GeneralIntent(query)
	}
	out, err := c.gen.Generate(ctx, fmt.Sprintf(intentPromptTemplate, query))
	if err != nil {
		logutil.GetLogger(ctx).Warn("intent classification unavailable", zap.Error(err))
		return GeneralIntent(query)
	}
	intent, err := parseIntent(query, out)
	if err != nil {
		logutil.GetLogger(ctx).Warn("intent output unparseable, using general",
			zap.String("query", query), zap.Error(err))
		return GeneralIntent(query)
	}
	logutil.GetLogger(ctx).Debug("query intent classified",
		zap.String("query", query), zap.String("intent", string(intent.Type)))
	return intent
}

type intentPayload struct {
	Type            string   `json:"type"`
	SearchTerms     string   `json:"search_terms"`
	CasesToCompare  []string `json:"cases_to_compare"`
	EntitiesToTrack []string `json:"entities_to_track"`
}

var validIntentTypes = map[IntentType]bool{
	IntentComparison:   true,
	IntentPattern:      true,
	IntentTimeline:     true,
	IntentEntity:       true,
	IntentRelationship: true,
	IntentGeneral:      true,
}

func parseIntent(query, raw string) (Intent, error) {
	clean := extractJSONObject(raw)
	if clean == "" {
		return Intent{}, fmt.Errorf("no json object in model output")
	}
	var payload intentPayload
	decoder := json.NewDecoder(strings.NewReader(clean))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		return Intent{}, fmt.Errorf("parse intent: %w", err)
	}
	intentType := IntentType(strings.ToLower(strings.TrimSpace(payload.Type)))
	if !validIntentTypes[intentType] {
		return Intent{}, fmt.Errorf("unknown intent type %q", payload.Type)
	}
	intent := Intent{Type: intentType, SearchTerms: strings.TrimSpace(payload.SearchTerms)}
	if intent.SearchTerms == "" {
		intent.SearchTerms = query
	}
	// Keep only the fields the category actually carries.
	switch intentType {
	case IntentComparison:
		intent.CasesToCompare = payload.CasesToCompare
	case IntentEntity, IntentRelationship:
		intent.EntitiesToTrack = payload.EntitiesToTrack
	}
	return intent, nil
}
