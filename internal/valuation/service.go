// Package valuation produces short narrative rent assessments for uploaded
// documents. Estimates are indicative only and are computed on demand, not
// stored.
package valuation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lease-backend/internal/analyses"
	"lease-backend/internal/documents"
	"lease-backend/internal/llm"
	"lease-backend/internal/shared/telemetry"
)

// FallbackNarrative is returned when the oracle cannot be reached.
const FallbackNarrative = "A valuation estimate isn't available right now. Please try again in a moment."

var (
	// ErrNotFound indicates the document was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")
)

// Result is one valuation run.
type Result struct {
	DocumentID string `json:"documentId"`
	Narrative  string `json:"narrative"`
	Degraded   bool   `json:"degraded"`
}

// Service computes narrative valuations.
type Service struct {
	Docs     *documents.Service
	Analyses *analyses.Service
	LLM      llm.Client
}

// Estimate produces a narrative valuation for a document. Oracle failures
// yield the fallback narrative, never an error.
func (s *Service) Estimate(ctx context.Context, sessionID, documentID, requestID string) (Result, error) {
	if sessionID == "" || documentID == "" {
		return Result{}, fmt.Errorf("session and document id required: %w", ErrInvalidInput)
	}

	doc, err := s.Docs.Get(ctx, sessionID, documentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return Result{}, ErrNotFound
		}
		return Result{}, err
	}
	text, err := s.Docs.Text(ctx, sessionID, doc.ID)
	if err != nil {
		return Result{}, err
	}

	client := llm.NewRetrying(s.LLM, requestID)
	narrative, err := client.Complete(ctx, llm.CompleteInput{
		System: llm.ValuationSystemPrompt(),
		User:   s.buildUserPrompt(ctx, sessionID, doc.ID, text),
	})
	if err != nil {
		telemetry.Warn("valuation.fallback", map[string]any{
			"document_id": doc.ID,
			"error":       err.Error(),
		})
		return Result{DocumentID: doc.ID, Narrative: FallbackNarrative, Degraded: true}, nil
	}
	return Result{DocumentID: doc.ID, Narrative: narrative}, nil
}

// buildUserPrompt leads with the extracted address and rent when available;
// those two fields anchor any rent assessment.
func (s *Service) buildUserPrompt(ctx context.Context, sessionID, documentID, text string) string {
	var b strings.Builder
	if s.Analyses != nil {
		if analysis, err := s.Analyses.LatestForDocument(ctx, sessionID, documentID); err == nil {
			if addr := analysis.FieldMap.String("address"); addr != "" {
				fmt.Fprintf(&b, "Address: %s\n", addr)
			}
			if rent := analysis.FieldMap.String("rent"); rent != "" {
				fmt.Fprintf(&b, "Rent: %s\n", rent)
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
		}
	}
	b.WriteString("Document excerpt:\n")
	b.WriteString(llm.TruncateForPrompt(text, "", llm.ValuationCharBudget))
	return b.String()
}
