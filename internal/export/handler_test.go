package export_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"lease-backend/internal/bootstrap"
	"lease-backend/internal/llm"
	"lease-backend/internal/shared/config"
)

type stubOracle struct{}

func (stubOracle) ExtractFields(ctx context.Context, input llm.ExtractInput) (json.RawMessage, error) {
	return json.RawMessage(`{"rent": "$2,000/month", "tenant": "Jane Doe"}`), nil
}

func (stubOracle) Complete(ctx context.Context, input llm.CompleteInput) (string, error) {
	return "About market rate for the area; treat this as a rough estimate.", nil
}

func setupApp(t *testing.T) (*bootstrap.App, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	app, err := bootstrap.Build(config.Config{
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	}, bootstrap.WithLLM(stubOracle{}))
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fw, _ := writer.CreateFormFile("file", "lease.txt")
	_, _ = fw.Write([]byte("Tenant: Jane Doe\nRent: $2,000/month"))
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Session-Id", "test-session")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload failed: %d", rec.Code)
	}
	var created struct {
		DocumentID string `json:"documentId"`
	}
	_ = json.NewDecoder(rec.Body).Decode(&created)
	return app, created.DocumentID
}

func get(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-Session-Id", "test-session")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSummaryPDFDownload(t *testing.T) {
	app, docID := setupApp(t)

	// Run an analysis first so the summary has field lines.
	payload, _ := json.Marshal(map[string]string{"documentId": docID})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Id", "test-session")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("analysis failed: %d", rec.Code)
	}

	resp := get(t, app.Router, "/api/v1/documents/"+docID+"/summary.pdf")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %s", ct)
	}
	if !bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("expected PDF magic bytes")
	}
}

func TestSummaryPDFWithValuation(t *testing.T) {
	app, docID := setupApp(t)

	plain := get(t, app.Router, "/api/v1/documents/"+docID+"/summary.pdf")
	withVal := get(t, app.Router, "/api/v1/documents/"+docID+"/summary.pdf?include=valuation")
	if withVal.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", withVal.Code)
	}
	if withVal.Body.Len() <= plain.Body.Len() {
		t.Fatal("expected valuation section to grow the PDF")
	}
}

func TestTablesXLSXDownload(t *testing.T) {
	app, docID := setupApp(t)

	resp := get(t, app.Router, "/api/v1/documents/"+docID+"/tables.xlsx")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("unexpected content type %s", ct)
	}
}

func TestSummaryPDFUnknownDocument(t *testing.T) {
	app, _ := setupApp(t)

	resp := get(t, app.Router, "/api/v1/documents/does-not-exist/summary.pdf")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
