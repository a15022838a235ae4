package analyses

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"lease-backend/internal/documents"
	"lease-backend/internal/fields"
	"lease-backend/internal/llm"
	"lease-backend/internal/shared/storage/object/local"
)

type stubLLM struct {
	raw json.RawMessage
	err error
}

func (s stubLLM) ExtractFields(ctx context.Context, input llm.ExtractInput) (json.RawMessage, error) {
	return s.raw, s.err
}

func (s stubLLM) Complete(ctx context.Context, input llm.CompleteInput) (string, error) {
	return "", s.err
}

func newTestService(t *testing.T, client llm.Client) (*Service, string) {
	t.Helper()
	docSvc := &documents.Service{
		Store: local.New(t.TempDir()),
		Repo:  documents.NewMemoryRepo(),
	}
	doc, err := docSvc.Upload(context.Background(), "sess-1", "lease.txt",
		strings.NewReader("Tenant: Jane Doe\nRent: $2,000/month"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	svc := &Service{
		Repo:     NewMemoryRepo(),
		Docs:     docSvc,
		LLM:      client,
		Provider: "openai",
		Model:    "gpt-4o-mini",
	}
	return svc, doc.ID
}

func TestRunStoresExtractedFields(t *testing.T) {
	svc, docID := newTestService(t, stubLLM{raw: json.RawMessage(`{"rent": "$2,000/month", "tenant": "Jane Doe"}`)})

	analysis, err := svc.Run(context.Background(), "sess-1", docID, "req-1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if analysis.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", analysis.Status)
	}
	if analysis.FieldMap["rent"] != "$2,000/month" {
		t.Fatalf("unexpected field map %v", analysis.FieldMap)
	}
	if analysis.FieldMap["deposit"] != nil {
		t.Fatalf("expected null deposit, got %v", analysis.FieldMap["deposit"])
	}
	if analysis.CompletedAt == nil {
		t.Fatal("expected completedAt set")
	}

	stored, err := svc.Get(context.Background(), "sess-1", analysis.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.ID != analysis.ID {
		t.Fatalf("stored analysis mismatch")
	}
}

func TestRunDegradesWhenOracleUnavailable(t *testing.T) {
	svc, docID := newTestService(t, stubLLM{err: llm.ErrOracleUnavailable})

	analysis, err := svc.Run(context.Background(), "sess-1", docID, "req-1")
	if err != nil {
		t.Fatalf("expected degraded result, not error: %v", err)
	}
	if analysis.Status != StatusDegraded {
		t.Fatalf("expected degraded, got %s", analysis.Status)
	}
	if analysis.ErrorCode != ErrCodeOracleUnavailable {
		t.Fatalf("expected oracle_unavailable, got %s", analysis.ErrorCode)
	}
	if !analysis.FieldMap.IsEmpty() {
		t.Fatalf("expected all-null field map, got %v", analysis.FieldMap)
	}
}

func TestRunDegradesOnMalformedOutput(t *testing.T) {
	svc, docID := newTestService(t, stubLLM{raw: json.RawMessage(`"not an object"`)})

	analysis, err := svc.Run(context.Background(), "sess-1", docID, "req-1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if analysis.ErrorCode != ErrCodeOracleMalformed {
		t.Fatalf("expected oracle_malformed, got %s", analysis.ErrorCode)
	}
	if len(fields.Format(analysis.FieldMap)) != 0 {
		t.Fatal("degraded analysis should render no lines")
	}
}

func TestRunUnknownDocument(t *testing.T) {
	svc, _ := newTestService(t, stubLLM{raw: json.RawMessage(`{}`)})

	if _, err := svc.Run(context.Background(), "sess-1", "missing", "req-1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLatestForDocument(t *testing.T) {
	svc, docID := newTestService(t, stubLLM{raw: json.RawMessage(`{"rent": "$1"}`)})

	first, err := svc.Run(context.Background(), "sess-1", docID, "req-1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	second, err := svc.Run(context.Background(), "sess-1", docID, "req-2")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	latest, err := svc.LatestForDocument(context.Background(), "sess-1", docID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != second.ID || latest.ID == first.ID {
		t.Fatalf("expected newest analysis, got %s", latest.ID)
	}
}
