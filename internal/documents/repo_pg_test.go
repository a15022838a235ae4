package documents

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateInsertsExtractionColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	doc := Document{
		ID:               "doc-1",
		SessionID:        "sess-1",
		FileName:         "lease.pdf",
		MimeType:         "application/pdf",
		SizeBytes:        1234,
		StorageKey:       "objects/abc/lease.pdf",
		ExtractedTextKey: "objects/abc/lease.pdf.extracted.txt",
		TableCount:       2,
		ExtractedAt:      &now,
		CreatedAt:        now,
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			doc.ID,
			doc.SessionID,
			doc.FileName,
			doc.MimeType,
			doc.SizeBytes,
			"local",
			sqlmock.AnyArg(), // storage_key
			sqlmock.AnyArg(), // extracted_text_key
			doc.TableCount,
			sqlmock.AnyArg(), // extracted_at
			doc.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("sess-1", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), "sess-1", "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListScansRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	cols := []string{"id", "session_id", "file_name", "mime_type", "size_bytes", "storage_provider", "storage_key", "extracted_text_key", "table_count", "extracted_at", "created_at"}
	rows := sqlmock.NewRows(cols).
		AddRow("doc-2", "sess-1", "b.txt", "text/plain", 10, "local", "k2", "k2.extracted.txt", 0, now, now).
		AddRow("doc-1", "sess-1", "a.pdf", "application/pdf", 20, "local", "k1", nil, 1, nil, now.Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("sess-1", 20, 0).
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	docs, err := repo.ListBySession(context.Background(), "sess-1", 20, 0)
	if err != nil {
		t.Fatalf("ListBySession: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[1].ExtractedTextKey != "" || docs[1].ExtractedAt != nil {
		t.Fatalf("expected null extraction columns to stay zero, got %+v", docs[1])
	}
	if docs[0].TableCount != 0 || docs[1].TableCount != 1 {
		t.Fatalf("table counts wrong: %+v", docs)
	}
}
