package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresBackend_EnsureExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	b := (&PostgresStore{DB: db}).Document("products")

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents (name, body) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`)).
		WithArgs("products", "[]").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := b.EnsureExists(context.Background()); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresBackend_ReadMissingAndSuccess(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	b := &PostgresBackend{DB: db, Name: "carts"}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT body FROM documents WHERE name=$1`)).
		WithArgs("carts").
		WillReturnRows(sqlmock.NewRows([]string{"body"}))

	if _, err := b.Read(context.Background()); !errors.Is(err, ErrDocumentMissing) {
		t.Fatalf("expected ErrDocumentMissing, got %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT body FROM documents WHERE name=$1`)).
		WithArgs("carts").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow([]byte(`[{"id": "42", "products": []}]`)))

	got, err := b.Read(context.Background())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != `[{"id": "42", "products": []}]` {
		t.Fatalf("unexpected body: %s", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresBackend_WriteNoRowsAndSuccess(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	b := &PostgresBackend{DB: db, Name: "products"}

	// no row for the document -> ErrDocumentMissing
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE documents SET body=$2, updated_at=now() WHERE name=$1`)).
		WithArgs("products", "[]").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := b.Write(context.Background(), []byte("[]")); !errors.Is(err, ErrDocumentMissing) {
		t.Fatalf("expected ErrDocumentMissing, got %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE documents SET body=$2, updated_at=now() WHERE name=$1`)).
		WithArgs("products", `[{"id":1}]`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := b.Write(context.Background(), []byte(`[{"id":1}]`)); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresStore_Migrate(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := &PostgresStore{DB: db}

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS documents`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCollection_OverPostgres_InsertWritesWholeDocument(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	c := NewCollection[testRecord]("products", (&PostgresStore{DB: db}).Document("products"), Options{})

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT body FROM documents WHERE name=$1`)).
		WithArgs("products").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow([]byte(`[{"id": 1, "name": "a"}]`)))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE documents SET body=$2, updated_at=now() WHERE name=$1`)).
		WithArgs("products", "[\n  {\n    \"id\": 1,\n    \"name\": \"a\"\n  },\n  {\n    \"id\": 2,\n    \"name\": \"b\"\n  }\n]").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, err := c.Insert(context.Background(), testRecord{Name: "b"})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if rec.ID.String() != "2" || !rec.ID.Numeric() {
		t.Fatalf("expected numeric id 2, got %v", rec.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
