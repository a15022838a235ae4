package qa

import "time"

const (
	ModeStandard = "standard"
	ModePersona  = "persona"
)

// Exchange is one question and its answer for a document.
type Exchange struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	SessionID  string    `json:"-"`
	Mode       string    `json:"mode"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	AskedAt    time.Time `json:"askedAt"`
}
