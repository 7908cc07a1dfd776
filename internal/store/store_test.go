package store

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

// exercise runs the shared Store contract against s.
func exercise(t *testing.T, s Store) {
	t.Helper()

	got, err := s.Get("missing")
	if err != nil {
		t.Fatalf("Get missing failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing session, got %+v", got)
	}

	rec := Record{Expression: "1+2", Status: "EVALUATED", Result: "3"}
	if err := s.Put("b", rec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err = s.Get("b")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected record, got nil")
	}
	if got.Expression != "1+2" || got.Status != "EVALUATED" || got.Result != "3" || got.ErrorMessage != "" {
		t.Errorf("unexpected record: %+v", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be stamped")
	}

	// Overwrite
	rec = Record{Expression: "5/0", Status: "ERROR", Result: "3", ErrorMessage: "cannot divide by 0"}
	if err := s.Put("b", rec); err != nil {
		t.Fatalf("Put overwrite failed: %v", err)
	}
	got, _ = s.Get("b")
	if got.Status != "ERROR" || got.ErrorMessage != "cannot divide by 0" {
		t.Errorf("overwrite not applied: %+v", got)
	}

	if err := s.Put("a", Record{Status: "IDLE"}); err != nil {
		t.Fatalf("Put a failed: %v", err)
	}
	ids, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("expected [a b], got %v", ids)
	}

	if err := s.Delete("b"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	got, err = s.Get("b")
	if err != nil {
		t.Fatalf("Get after delete failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	exercise(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "calc.db"))
	if err != nil {
		t.Fatalf("Failed to create SQLite store: %v", err)
	}
	defer s.Close()
	exercise(t, s)
}

func TestSQLitePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.db")

	s, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to create SQLite store: %v", err)
	}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := s.Put("work", Record{Expression: "12+34", Status: "EVALUATED", Result: "46", UpdatedAt: at}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	s.Close()

	s2, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("Failed to reopen SQLite store: %v", err)
	}
	defer s2.Close()

	got, err := s2.Get("work")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if got == nil || got.Result != "46" {
		t.Fatalf("expected result 46 after reopen, got %+v", got)
	}
	if !got.UpdatedAt.Equal(at) {
		t.Errorf("expected UpdatedAt %v, got %v", at, got.UpdatedAt)
	}

	version, err := s2.getMetadataUnlocked("schema_version")
	if err != nil {
		t.Fatalf("reading schema version failed: %v", err)
	}
	if version != SchemaVersion {
		t.Errorf("expected schema version %s, got %s", SchemaVersion, version)
	}
}

func TestSQLiteRejectsUnknownSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.db")

	db, err := sql.Open(driverName, path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	_, err = db.Exec(`
		CREATE TABLE metadata (key TEXT PRIMARY KEY, value TEXT NOT NULL);
		INSERT INTO metadata (key, value) VALUES ('schema_version', '99');
	`)
	db.Close()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if s, err := NewSQLite(path); err == nil {
		s.Close()
		t.Fatal("expected error for unknown schema version")
	}
}

func TestNewSessionID(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	if a == "" || a == b {
		t.Errorf("expected distinct ids, got %q and %q", a, b)
	}
}
