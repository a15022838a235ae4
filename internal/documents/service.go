package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"lease-backend/internal/ingest"
	"lease-backend/internal/shared/storage/object"
	"lease-backend/internal/shared/telemetry"
)

// Service contains business logic for documents: persisting uploads and the
// text/tables derived from them at upload time.
type Service struct {
	Store object.ObjectStore
	Repo  DocumentsRepo
}

// Upload stores the raw file, extracts text and tables synchronously, and
// records the document. Extraction failures fail the upload so the caller
// gets an immediate, actionable error rather than a document that can never
// be analyzed.
func (s *Service) Upload(ctx context.Context, sessionID, fileName string, r io.Reader) (Document, error) {
	if strings.TrimSpace(fileName) == "" {
		return Document{}, fmt.Errorf("file name required: %w", ErrInvalidInput)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return Document{}, fmt.Errorf("empty file: %w", ErrInvalidInput)
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, sessionID, fileName, bytes.NewReader(data))
	if err != nil {
		return Document{}, err
	}

	res, err := ingest.Load(ctx, data, mimeType, fileName)
	if err != nil {
		return Document{}, err
	}

	now := time.Now().UTC()
	doc := Document{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		FileName:   fileName,
		MimeType:   mimeType,
		SizeBytes:  size,
		StorageKey: storageKey,
		TableCount: len(res.Tables),
		CreatedAt:  now,
	}

	textKey := storageKey + ".extracted.txt"
	if _, err := s.Store.SaveWithKey(ctx, textKey, "text/plain; charset=utf-8", strings.NewReader(res.Text)); err != nil {
		return Document{}, fmt.Errorf("save extracted text: %w", err)
	}
	doc.ExtractedTextKey = textKey
	doc.ExtractedAt = &now

	if len(res.Tables) > 0 {
		payload, err := json.Marshal(res.Tables)
		if err != nil {
			return Document{}, fmt.Errorf("encode tables: %w", err)
		}
		if _, err := s.Store.SaveWithKey(ctx, tablesKey(storageKey), "application/json", bytes.NewReader(payload)); err != nil {
			return Document{}, fmt.Errorf("save tables: %w", err)
		}
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}

	telemetry.Info("document.uploaded", map[string]any{
		"document_id": doc.ID,
		"mime_type":   doc.MimeType,
		"size_bytes":  doc.SizeBytes,
		"table_count": doc.TableCount,
	})
	return doc, nil
}

// Current returns the most recent document for a session.
func (s *Service) Current(ctx context.Context, sessionID string) (Document, error) {
	if sessionID == "" {
		return Document{}, fmt.Errorf("session id required: %w", ErrInvalidInput)
	}
	return s.Repo.GetCurrentBySession(ctx, sessionID)
}

// Get returns a document by ID, scoped to the session.
func (s *Service) Get(ctx context.Context, sessionID, documentID string) (Document, error) {
	if sessionID == "" || documentID == "" {
		return Document{}, fmt.Errorf("session and document id required: %w", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, sessionID, documentID)
}

// List returns documents for a session, newest first.
func (s *Service) List(ctx context.Context, sessionID string, limit, offset int) ([]Document, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id required: %w", ErrInvalidInput)
	}
	return s.Repo.ListBySession(ctx, sessionID, limit, offset)
}

// Text returns the extracted plain text of a document.
func (s *Service) Text(ctx context.Context, sessionID, documentID string) (string, error) {
	doc, err := s.Get(ctx, sessionID, documentID)
	if err != nil {
		return "", err
	}
	if doc.ExtractedTextKey == "" {
		return "", fmt.Errorf("document has no extracted text: %w", ErrNotFound)
	}
	rc, err := s.Store.Open(ctx, doc.ExtractedTextKey)
	if err != nil {
		return "", fmt.Errorf("open extracted text: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read extracted text: %w", err)
	}
	return string(data), nil
}

// Tables returns the tables detected in a document at upload time. A
// document without tables yields an empty slice, not an error.
func (s *Service) Tables(ctx context.Context, sessionID, documentID string) ([]ingest.Table, error) {
	doc, err := s.Get(ctx, sessionID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.TableCount == 0 || doc.StorageKey == "" {
		return []ingest.Table{}, nil
	}
	rc, err := s.Store.Open(ctx, tablesKey(doc.StorageKey))
	if err != nil {
		return nil, fmt.Errorf("open tables: %w", err)
	}
	defer rc.Close()

	var tables []ingest.Table
	if err := json.NewDecoder(rc).Decode(&tables); err != nil {
		return nil, fmt.Errorf("decode tables: %w", err)
	}
	return tables, nil
}

func tablesKey(storageKey string) string {
	return storageKey + ".tables.json"
}
