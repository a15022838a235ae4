package qa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"lease-backend/internal/analyses"
	"lease-backend/internal/documents"
	"lease-backend/internal/llm"
	"lease-backend/internal/shared/telemetry"
)

// FallbackAnswer is stored and returned when the oracle cannot be reached.
// The exchange is recorded either way so history stays complete.
const FallbackAnswer = "Sorry, I couldn't reach the analysis service to answer that. Please try again in a moment."

const maxQuestionLen = 2000

// Service answers free-form questions about a document, grounded in its
// extracted text plus the latest structured analysis when one exists.
type Service struct {
	Repo     Repo
	Docs     *documents.Service
	Analyses *analyses.Service
	LLM      llm.Client
}

// Ask answers a question about a document and records the exchange.
func (s *Service) Ask(ctx context.Context, sessionID, documentID, question, mode, requestID string) (Exchange, error) {
	question = strings.TrimSpace(question)
	if sessionID == "" || documentID == "" {
		return Exchange{}, fmt.Errorf("session and document id required: %w", ErrInvalidInput)
	}
	if question == "" {
		return Exchange{}, fmt.Errorf("question is required: %w", ErrInvalidInput)
	}
	if len(question) > maxQuestionLen {
		return Exchange{}, fmt.Errorf("question too long: %w", ErrInvalidInput)
	}
	switch mode {
	case "":
		mode = ModeStandard
	case ModeStandard, ModePersona:
	default:
		return Exchange{}, fmt.Errorf("unknown mode %q: %w", mode, ErrInvalidInput)
	}

	doc, err := s.Docs.Get(ctx, sessionID, documentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return Exchange{}, ErrNotFound
		}
		return Exchange{}, err
	}
	text, err := s.Docs.Text(ctx, sessionID, doc.ID)
	if err != nil {
		return Exchange{}, err
	}

	exchange := Exchange{
		ID:         uuid.NewString(),
		DocumentID: doc.ID,
		SessionID:  sessionID,
		Mode:       mode,
		Question:   question,
		AskedAt:    time.Now().UTC(),
	}

	client := llm.NewRetrying(s.LLM, requestID)
	answer, err := client.Complete(ctx, llm.CompleteInput{
		System: llm.QASystemPrompt(mode == ModePersona),
		User:   s.buildUserPrompt(ctx, sessionID, doc.ID, text, question),
	})
	if err != nil {
		telemetry.Warn("qa.fallback", map[string]any{
			"document_id": doc.ID,
			"mode":        mode,
			"error":       err.Error(),
		})
		answer = FallbackAnswer
	}
	exchange.Answer = answer

	if err := s.Repo.Create(ctx, exchange); err != nil {
		return Exchange{}, err
	}
	return exchange, nil
}

// History returns all exchanges for a document in ask order.
func (s *Service) History(ctx context.Context, sessionID, documentID string) ([]Exchange, error) {
	if sessionID == "" || documentID == "" {
		return nil, fmt.Errorf("session and document id required: %w", ErrInvalidInput)
	}
	if _, err := s.Docs.Get(ctx, sessionID, documentID); err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.Repo.ListByDocument(ctx, sessionID, documentID)
}

// buildUserPrompt assembles the question context: extracted terms first when
// an analysis exists, then the truncated document text.
func (s *Service) buildUserPrompt(ctx context.Context, sessionID, documentID, text, question string) string {
	var b strings.Builder
	if s.Analyses != nil {
		if analysis, err := s.Analyses.LatestForDocument(ctx, sessionID, documentID); err == nil {
			if snippet := analysis.FieldMap.Snippet(); snippet != "" {
				b.WriteString("Extracted terms:\n")
				b.WriteString(snippet)
				b.WriteString("\n\n")
			}
		}
	}
	b.WriteString("Document text:\n")
	b.WriteString(llm.TruncateForPrompt(text, "", llm.AnswerCharBudget))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
