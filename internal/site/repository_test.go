// internal/site/repository_test.go
//
// Unit-tests for the site repository using sqlmock.
//
// Run: go test ./internal/site -v

package site

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

const byUIDQuery = `
        SELECT id, uid, name, host, is_global,
               suspended_at, deleted_at, created_at, updated_at
        FROM   site
        WHERE  uid = ?
          AND  suspended_at IS NULL
          AND  deleted_at   IS NULL
        LIMIT  1`

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "mysql")), mock
}

func TestByUID_Found(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(byUIDQuery)).
		WithArgs("acme").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "uid", "name", "host", "is_global",
			"suspended_at", "deleted_at", "created_at", "updated_at",
		}).AddRow(7, "acme", "Acme Travel", "acme.example.com", false, nil, nil, now, now))

	rec, err := repo.ByUID(context.Background(), "acme")
	if err != nil {
		t.Fatalf("ByUID error: %v", err)
	}
	if rec.UID != "acme" || rec.Name != "Acme Travel" || rec.Global {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestByUID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(byUIDQuery)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.ByUID(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAllActive(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	const allActiveQuery = `
        SELECT id, uid, name, host, is_global,
               suspended_at, deleted_at, created_at, updated_at
        FROM   site
        WHERE  suspended_at IS NULL
          AND  deleted_at   IS NULL`

	mock.ExpectQuery(regexp.QuoteMeta(allActiveQuery)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "uid", "name", "host", "is_global",
			"suspended_at", "deleted_at", "created_at", "updated_at",
		}).
			AddRow(1, "acme", "Acme Travel", "acme.example.com", false, nil, nil, now, now).
			AddRow(2, "hub", "The Hub", "", true, nil, nil, now, now))

	rows, err := repo.AllActive(context.Background())
	if err != nil {
		t.Fatalf("AllActive error: %v", err)
	}
	if len(rows) != 2 || rows[0].UID != "acme" || rows[1].UID != "hub" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestContext_DisplayName(t *testing.T) {
	global := NewContext(&Record{UID: "hub", Name: "The Hub", Global: true})
	if got := global.DisplayName(); got != "hub" {
		t.Fatalf("global DisplayName = %q, want uid", got)
	}

	regular := NewContext(&Record{UID: "acme", Name: "Acme Travel"})
	if got := regular.DisplayName(); got != "Acme Travel" {
		t.Fatalf("DisplayName = %q, want configured name", got)
	}
}

func TestContext_RootURL(t *testing.T) {
	c := NewContext(&Record{UID: "acme", Host: "acme.example.com"})
	if got := c.RootURL("https://fallback.example.com"); got != "https://acme.example.com" {
		t.Fatalf("RootURL = %q", got)
	}

	bare := NewContext(&Record{UID: "acme"})
	if got := bare.RootURL("https://fallback.example.com"); got != "https://fallback.example.com" {
		t.Fatalf("fallback RootURL = %q", got)
	}
}
