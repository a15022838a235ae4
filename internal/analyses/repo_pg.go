package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"lease-backend/internal/fields"
)

// PGRepo implements Repo using Postgres. Field maps are stored as JSONB.
type PGRepo struct {
	DB *sql.DB
}

const analysisColumns = `id, document_id, session_id, provider, model, status, error_code, field_map, created_at, completed_at`

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (
    id,
    document_id,
    session_id,
    provider,
    model,
    status,
    error_code,
    field_map,
    created_at,
    completed_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	var errorCode sql.NullString
	if analysis.ErrorCode != "" {
		errorCode = sql.NullString{String: analysis.ErrorCode, Valid: true}
	}
	var fieldMap []byte
	if analysis.FieldMap != nil {
		encoded, err := json.Marshal(analysis.FieldMap)
		if err != nil {
			return fmt.Errorf("encode field map: %w", err)
		}
		fieldMap = encoded
	}
	var completedAt sql.NullTime
	if analysis.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *analysis.CompletedAt, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		analysis.ID,
		analysis.DocumentID,
		analysis.SessionID,
		analysis.Provider,
		analysis.Model,
		analysis.Status,
		errorCode,
		fieldMap,
		analysis.CreatedAt,
		completedAt,
	)
	return err
}

// GetByID returns an analysis by ID, scoped to the session.
func (r *PGRepo) GetByID(ctx context.Context, sessionID, analysisID string) (Analysis, error) {
	const query = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE session_id = $1 AND id = $2
LIMIT 1`
	return scanAnalysis(r.DB.QueryRowContext(ctx, query, sessionID, analysisID))
}

// GetLatestByDocument returns the most recent analysis for a document.
func (r *PGRepo) GetLatestByDocument(ctx context.Context, sessionID, documentID string) (Analysis, error) {
	const query = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE session_id = $1 AND document_id = $2
ORDER BY created_at DESC
LIMIT 1`
	return scanAnalysis(r.DB.QueryRowContext(ctx, query, sessionID, documentID))
}

func scanAnalysis(row *sql.Row) (Analysis, error) {
	var analysis Analysis
	var errorCode sql.NullString
	var fieldMap []byte
	var completedAt sql.NullTime
	err := row.Scan(
		&analysis.ID,
		&analysis.DocumentID,
		&analysis.SessionID,
		&analysis.Provider,
		&analysis.Model,
		&analysis.Status,
		&errorCode,
		&fieldMap,
		&analysis.CreatedAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	if errorCode.Valid {
		analysis.ErrorCode = errorCode.String
	}
	if len(fieldMap) > 0 {
		// Parse re-normalizes the stored JSON so nested values come back as
		// the concrete types the formatter renders.
		fm, err := fields.Parse(fieldMap)
		if err != nil {
			return Analysis{}, fmt.Errorf("decode field map: %w", err)
		}
		analysis.FieldMap = fm
	}
	if completedAt.Valid {
		analysis.CompletedAt = &completedAt.Time
	}
	return analysis, nil
}
