package documents_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"lease-backend/internal/bootstrap"
	"lease-backend/internal/shared/config"
)

func buildTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
		MaxUploadBytes:  1 << 20,
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func uploadFile(t *testing.T, router *gin.Engine, name, content string) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write([]byte(content)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	addSessionHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestDocumentsUploadAndCurrent(t *testing.T) {
	app := buildTestApp(t)
	router := app.Router

	resp := uploadFile(t, router, "lease.txt", "Rent: $2,000/month\nTenant: Jane Doe")
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		DocumentID string `json:"documentId"`
		FileName   string `json:"fileName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.DocumentID == "" {
		t.Fatal("expected documentId, got empty")
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/documents/current", nil)
	addSessionHeader(reqGet)
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)

	if respGet.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respGet.Code)
	}

	var current struct {
		DocumentID string `json:"documentId"`
		FileName   string `json:"fileName"`
	}
	if err := json.NewDecoder(respGet.Body).Decode(&current); err != nil {
		t.Fatalf("decode current response: %v", err)
	}
	if current.FileName != "lease.txt" {
		t.Fatalf("expected fileName lease.txt, got %s", current.FileName)
	}
}

func TestDocumentsTextEndpoint(t *testing.T) {
	app := buildTestApp(t)
	router := app.Router

	resp := uploadFile(t, router, "lease.txt", "Deposit: one month's rent")
	var created struct {
		DocumentID string `json:"documentId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+created.DocumentID+"/text", nil)
	addSessionHeader(req)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Text != "Deposit: one month's rent" {
		t.Fatalf("unexpected text %q", got.Text)
	}
}

func TestDocumentsUploadUnsupportedFormat(t *testing.T) {
	app := buildTestApp(t)

	resp := uploadFile(t, app.Router, "scan.png", "\x89PNG\r\n\x1a\nnot really an image")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error.Code != "unsupported_format" {
		t.Fatalf("expected unsupported_format, got %q", body.Error.Code)
	}
}

func TestDocumentsSessionIsolation(t *testing.T) {
	app := buildTestApp(t)
	router := app.Router

	resp := uploadFile(t, router, "lease.txt", "content")
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload failed: %d", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/current", nil)
	req.Header.Set("X-Session-Id", "another-session")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another session, got %d", rec.Code)
	}
}

func addSessionHeader(req *http.Request) {
	req.Header.Set("X-Session-Id", "test-session")
}
