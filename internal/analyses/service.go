package analyses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lease-backend/internal/documents"
	"lease-backend/internal/fields"
	"lease-backend/internal/ingest"
	"lease-backend/internal/llm"
	"lease-backend/internal/shared/telemetry"
)

// Service runs structured field extraction over uploaded documents. Runs are
// synchronous: the caller waits for the oracle and gets either a populated
// field map or a degraded all-null one, never a hard failure for oracle
// trouble.
type Service struct {
	Repo     Repo
	Docs     *documents.Service
	LLM      llm.Client
	Provider string
	Model    string
}

// Run performs an extraction for a document and stores the result.
func (s *Service) Run(ctx context.Context, sessionID, documentID, requestID string) (Analysis, error) {
	if sessionID == "" || documentID == "" {
		return Analysis{}, fmt.Errorf("session and document id required: %w", ErrInvalidInput)
	}

	doc, err := s.Docs.Get(ctx, sessionID, documentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	text, err := s.Docs.Text(ctx, sessionID, doc.ID)
	if err != nil {
		return Analysis{}, err
	}
	tables, err := s.Docs.Tables(ctx, sessionID, doc.ID)
	if err != nil {
		return Analysis{}, err
	}

	analysis := Analysis{
		ID:         uuid.NewString(),
		DocumentID: doc.ID,
		SessionID:  sessionID,
		Provider:   s.Provider,
		Model:      s.Model,
		Status:     StatusCompleted,
		CreatedAt:  time.Now().UTC(),
	}

	client := llm.NewRetrying(s.LLM, requestID)
	raw, err := client.ExtractFields(ctx, llm.ExtractInput{
		DocumentText: text,
		TableText:    ingest.RenderTables(tables),
	})
	if err != nil {
		analysis.degrade(errorCode(err), err)
	} else if fm, parseErr := fields.Parse(raw); parseErr != nil {
		analysis.degrade(ErrCodeOracleMalformed, parseErr)
	} else {
		analysis.FieldMap = fm
	}

	now := time.Now().UTC()
	analysis.CompletedAt = &now

	if err := s.Repo.Create(ctx, analysis); err != nil {
		return Analysis{}, err
	}

	telemetry.Info("analysis.completed", map[string]any{
		"analysis_id": analysis.ID,
		"document_id": analysis.DocumentID,
		"status":      analysis.Status,
		"error_code":  analysis.ErrorCode,
	})
	return analysis, nil
}

// Get returns an analysis by ID.
func (s *Service) Get(ctx context.Context, sessionID, analysisID string) (Analysis, error) {
	if sessionID == "" || analysisID == "" {
		return Analysis{}, fmt.Errorf("session and analysis id required: %w", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, sessionID, analysisID)
}

// LatestForDocument returns the most recent analysis of a document.
func (s *Service) LatestForDocument(ctx context.Context, sessionID, documentID string) (Analysis, error) {
	if sessionID == "" || documentID == "" {
		return Analysis{}, fmt.Errorf("session and document id required: %w", ErrInvalidInput)
	}
	return s.Repo.GetLatestByDocument(ctx, sessionID, documentID)
}

func (a *Analysis) degrade(code string, cause error) {
	a.Status = StatusDegraded
	a.ErrorCode = code
	a.FieldMap = fields.Empty()
	telemetry.Warn("analysis.degraded", map[string]any{
		"analysis_id": a.ID,
		"document_id": a.DocumentID,
		"error_code":  code,
		"error":       cause.Error(),
	})
}

func errorCode(err error) string {
	if errors.Is(err, llm.ErrMalformedResponse) {
		return ErrCodeOracleMalformed
	}
	return ErrCodeOracleUnavailable
}
