package analyses

import (
	"time"

	"lease-backend/internal/fields"
)

const (
	StatusCompleted = "completed"
	StatusDegraded  = "degraded"
)

// Error codes recorded on degraded analyses.
const (
	ErrCodeOracleUnavailable = "oracle_unavailable"
	ErrCodeOracleMalformed   = "oracle_malformed"
)

// Analysis is one structured extraction run over a document. Degraded runs
// carry an all-null field map plus the error code that caused the fallback;
// they are stored like any other run so the UI can show what happened.
type Analysis struct {
	ID          string          `json:"id"`
	DocumentID  string          `json:"documentId"`
	SessionID   string          `json:"-"`
	Provider    string          `json:"provider"`
	Model       string          `json:"model"`
	Status      string          `json:"status"`
	ErrorCode   string          `json:"errorCode,omitempty"`
	FieldMap    fields.FieldMap `json:"fieldMap"`
	CreatedAt   time.Time       `json:"createdAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}
