package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/casetrail/casetrail/internal/ai"
	"github.com/casetrail/casetrail/internal/model"
)

const (
	// NoInfoMessage is returned without touching the model when retrieval
	// came back empty.
	NoInfoMessage = "No relevant information was found in the indexed case files for this question."
	// UnavailableMessage is returned when no generative model is configured.
	UnavailableMessage = "The answer service is not configured. Ask an administrator to enable the AI provider."

	sectionSeparator = "\n\n============================\n\n"
)

const comparisonRole = `You are an advanced case analysis assistant specialized in comparing legal cases.
When analyzing similarities and differences between cases, focus on:
- Procedural similarities/differences
- Factual parallels
- Related entities across cases
- Similar legal arguments or precedents
- Timeline alignment or divergence
- Evidence patterns`

const patternRole = `You are an advanced case analysis assistant specialized in identifying patterns across cases.
Identify recurring elements such as:
- Behavioral patterns of involved parties
- Procedural similarities
- Common tactics or methodologies
- Temporal patterns or sequences
- Geographic connections
- Recurring entities or relationships`

const chronologyRole = `You are an advanced case analysis assistant specialized in analyzing relationships and chronology.
Focus on:
- Chronological sequence of events across cases
- Connections between entities
- Cause-effect relationships
- Network analysis of involved parties
- Temporal proximity of related events`

const generalRole = `You are an advanced case analysis assistant specialized in extracting insights from legal case files.
Provide accurate, concise answers based solely on the case file content.`

type Synthesizer struct {
	gen ai.IGenerator
}

func NewSynthesizer(gen ai.IGenerator) *Synthesizer {
	return &Synthesizer{gen: gen}
}

// Synthesize builds a grounded prompt from the retrieved chunks and asks
// the model for an answer. Model failures never escape: they come back as
// fixed or descriptive messages.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, result SearchResult, history []model.ChatTurn, intent Intent) string {
	if result.Empty() {
		return NoInfoMessage
	}
	if s == nil || s.gen == nil {
		return UnavailableMessage
	}
	prompt := buildPrompt(query, result.Chunks, history, intent)
	answer, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, ai.ErrUnavailable) {
			return UnavailableMessage
		}
		logutil.GetLogger(ctx).Error("answer generation failed", zap.Error(err))
		return "Error generating answer: " + err.Error()
	}
	return answer
}

func buildPrompt(query string, chunks []model.Chunk, history []model.ChatTurn, intent Intent) string {
	var sb strings.Builder
	sb.WriteString(systemRole(intent.Type))
	sb.WriteString(`

Format your response as a professional report on the case file contents.
Use only the information from the provided case files to answer the question.
If you cannot find the answer in the case files, admit that you don't know rather than making up information.
`)
	if transcript := renderHistory(history); transcript != "" {
		sb.WriteString("\nConversation history:\n")
		sb.WriteString(transcript)
		sb.WriteString("\n")
	}
	sb.WriteString("\nHere are the relevant case file contents:\n\n")
	sb.WriteString(groupedContext(chunks))
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(query)
	sb.WriteString("\n\nAnswer:")
	return sb.String()
}

func systemRole(intentType IntentType) string {
	switch intentType {
	case IntentComparison:
		return comparisonRole
	case IntentPattern:
		return patternRole
	case IntentTimeline, IntentRelationship:
		return chronologyRole
	default:
		return generalRole
	}
}

// groupedContext concatenates chunk texts per document under a section
// header, keeping documents in first-seen order.
func groupedContext(chunks []model.Chunk) string {
	var docOrder []string
	grouped := make(map[string][]model.Chunk)
	for _, chunk := range chunks {
		if _, ok := grouped[chunk.DocID]; !ok {
			docOrder = append(docOrder, chunk.DocID)
		}
		grouped[chunk.DocID] = append(grouped[chunk.DocID], chunk)
	}

	sections := make([]string, 0, len(docOrder))
	for _, docID := range docOrder {
		docChunks := grouped[docID]
		filename := docChunks[0].Filename
		if filename == "" {
			filename = "Unknown"
		}
		texts := make([]string, 0, len(docChunks))
		for _, chunk := range docChunks {
			texts = append(texts, chunk.Text)
		}
		sections = append(sections, fmt.Sprintf("CASE FILE: %s\nCASE ID: %s\nCONTENT:\n%s",
			filename, docID, strings.Join(texts, "\n\n")))
	}
	return strings.Join(sections, sectionSeparator)
}

func renderHistory(history []model.ChatTurn) string {
	if len(history) == 0 {
		return ""
	}
	lines := make([]string, 0, len(history))
	for _, turn := range history {
		lines = append(lines, turn.Role+": "+turn.Content)
	}
	return strings.Join(lines, "\n")
}
