package qa

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"lease-backend/internal/documents"
	"lease-backend/internal/llm"
	"lease-backend/internal/shared/storage/object/local"
)

type stubLLM struct {
	answer string
	err    error
	lastIn llm.CompleteInput
	calls  int
}

func (s *stubLLM) ExtractFields(ctx context.Context, input llm.ExtractInput) (json.RawMessage, error) {
	return nil, s.err
}

func (s *stubLLM) Complete(ctx context.Context, input llm.CompleteInput) (string, error) {
	s.calls++
	s.lastIn = input
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

func newTestService(t *testing.T, client llm.Client) (*Service, string) {
	t.Helper()
	docSvc := &documents.Service{
		Store: local.New(t.TempDir()),
		Repo:  documents.NewMemoryRepo(),
	}
	doc, err := docSvc.Upload(context.Background(), "sess-1", "lease.txt",
		strings.NewReader("Pets: cats allowed with a $300 pet deposit."))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	svc := &Service{
		Repo: NewMemoryRepo(),
		Docs: docSvc,
		LLM:  client,
	}
	return svc, doc.ID
}

func TestAskRecordsExchange(t *testing.T) {
	stub := &stubLLM{answer: "Cats are allowed with a $300 deposit."}
	svc, docID := newTestService(t, stub)

	exchange, err := svc.Ask(context.Background(), "sess-1", docID, "Are pets allowed?", ModeStandard, "req-1")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if exchange.Answer != "Cats are allowed with a $300 deposit." {
		t.Fatalf("unexpected answer %q", exchange.Answer)
	}
	if !strings.Contains(stub.lastIn.User, "Are pets allowed?") {
		t.Fatal("question missing from prompt")
	}
	if !strings.Contains(stub.lastIn.User, "cats allowed") {
		t.Fatal("document text missing from prompt")
	}

	history, err := svc.History(context.Background(), "sess-1", docID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].Question != "Are pets allowed?" {
		t.Fatalf("unexpected history %+v", history)
	}
}

func TestAskPersonaModeSwitchesSystemPrompt(t *testing.T) {
	stub := &stubLLM{answer: "Look, cats are fine, just budget for the deposit."}
	svc, docID := newTestService(t, stub)

	if _, err := svc.Ask(context.Background(), "sess-1", docID, "Are pets allowed?", ModePersona, "req-1"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if !strings.Contains(stub.lastIn.System, "Alex Morgan") {
		t.Fatalf("expected persona system prompt, got %q", stub.lastIn.System)
	}

	if _, err := svc.Ask(context.Background(), "sess-1", docID, "Are pets allowed?", ModeStandard, "req-2"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if strings.Contains(stub.lastIn.System, "Alex Morgan") {
		t.Fatal("standard mode should not use the persona prompt")
	}
}

func TestAskFallsBackWhenOracleDown(t *testing.T) {
	stub := &stubLLM{err: llm.ErrOracleUnavailable}
	svc, docID := newTestService(t, stub)

	exchange, err := svc.Ask(context.Background(), "sess-1", docID, "What is the rent?", "", "req-1")
	if err != nil {
		t.Fatalf("expected fallback answer, not error: %v", err)
	}
	if exchange.Answer != FallbackAnswer {
		t.Fatalf("expected fallback answer, got %q", exchange.Answer)
	}

	// Fallback exchanges land in history too.
	history, err := svc.History(context.Background(), "sess-1", docID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].Answer != FallbackAnswer {
		t.Fatalf("unexpected history %+v", history)
	}
}

func TestAskValidation(t *testing.T) {
	svc, docID := newTestService(t, &stubLLM{answer: "x"})

	if _, err := svc.Ask(context.Background(), "sess-1", docID, "   ", ModeStandard, "req"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank question, got %v", err)
	}
	if _, err := svc.Ask(context.Background(), "sess-1", docID, "q", "sarcastic", "req"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown mode, got %v", err)
	}
	long := strings.Repeat("?", maxQuestionLen+1)
	if _, err := svc.Ask(context.Background(), "sess-1", docID, long, ModeStandard, "req"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for long question, got %v", err)
	}
	if _, err := svc.Ask(context.Background(), "sess-1", "missing", "q", ModeStandard, "req"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown document, got %v", err)
	}
}
