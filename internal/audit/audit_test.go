package audit

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestLog_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO logs`).
		WithArgs("domain_added", "example.com added").
		WillReturnResult(sqlmock.NewResult(1, 1))

	l := New(db)
	l.Append(context.Background(), "domain_added", "example.com added")

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestLog_Append_PersistenceFailureIsFatal(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO logs`).
		WithArgs("domain_added", "x").
		WillReturnError(context.DeadlineExceeded)

	l := New(db)
	var fatalCalled bool
	l.fatalf = func(format string, args ...any) { fatalCalled = true }

	l.Append(context.Background(), "domain_added", "x")

	if !fatalCalled {
		t.Error("expected fatal escalation on failed audit write")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestLog_Clear(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM logs`).WillReturnResult(sqlmock.NewResult(0, 3))

	l := New(db)
	if err := l.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestLog_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT event_name, event_details, timestamp FROM logs`).
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows([]string{"event_name", "event_details", "timestamp"}).
			AddRow("delete_domain", "example.com deleted", now).
			AddRow("domain_added", "example.com added", now.Add(-time.Minute)))

	l := New(db)
	entries, err := l.List(context.Background(), 50, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].EventName != "delete_domain" || entries[1].EventName != "domain_added" {
		t.Errorf("unexpected order: %+v", entries)
	}
	if entries[1].Timestamp.After(entries[0].Timestamp) {
		t.Errorf("expected newest first")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestLog_List_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT event_name, event_details, timestamp FROM logs`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"event_name", "event_details", "timestamp"}))

	l := New(db)
	entries, err := l.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty list, got %d", len(entries))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
