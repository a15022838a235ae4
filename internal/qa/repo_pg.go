package qa

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new exchange.
func (r *PGRepo) Create(ctx context.Context, exchange Exchange) error {
	const query = `
INSERT INTO qa_exchanges (
    id,
    document_id,
    session_id,
    mode,
    question,
    answer,
    asked_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		exchange.ID,
		exchange.DocumentID,
		exchange.SessionID,
		exchange.Mode,
		exchange.Question,
		exchange.Answer,
		exchange.AskedAt,
	)
	return err
}

// ListByDocument returns exchanges for a document in ask order.
func (r *PGRepo) ListByDocument(ctx context.Context, sessionID, documentID string) ([]Exchange, error) {
	const query = `
SELECT id, document_id, session_id, mode, question, answer, asked_at
FROM qa_exchanges
WHERE session_id = $1 AND document_id = $2
ORDER BY asked_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, sessionID, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Exchange{}
	for rows.Next() {
		var e Exchange
		if err := rows.Scan(&e.ID, &e.DocumentID, &e.SessionID, &e.Mode, &e.Question, &e.Answer, &e.AskedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
