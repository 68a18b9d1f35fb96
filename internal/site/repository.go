// internal/site/repository.go
//
// SQL-backed site lookup.
//
// Context
// -------
// Request initialization resolves the declared site identifier exactly once
// per request.  The repository answers that lookup from the control-plane
// `site` table; suspended or deleted rows are invisible.  Callers treat the
// result as immutable for the request's lifetime and never cache it across
// requests.
package site

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound reports that no active site matches the identifier.
var ErrNotFound = errors.New("site: not found")

// Lookup is the site resolution service consumed by request initialization.
type Lookup interface {
	ByUID(ctx context.Context, uid string) (*Record, error)
}

// Repository implements Lookup against a sqlx pool.
type Repository struct {
	db *sqlx.DB
}

// NewRepository wraps the control-plane pool.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// ByUID fetches a single active site row.  A missing row maps to
// ErrNotFound; other failures are returned wrapped for logging.
func (r *Repository) ByUID(ctx context.Context, uid string) (*Record, error) {
	const q = `
        SELECT id, uid, name, host, is_global,
               suspended_at, deleted_at, created_at, updated_at
        FROM   site
        WHERE  uid = ?
          AND  suspended_at IS NULL
          AND  deleted_at   IS NULL
        LIMIT  1`

	var rec Record
	if err := r.db.GetContext(ctx, &rec, q, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("site: lookup %q: %w", uid, err)
	}
	return &rec, nil
}

// AllActive returns every site that is neither suspended nor deleted.  Used
// by admin dashboards and batch jobs, not by the request path.
func (r *Repository) AllActive(ctx context.Context) ([]Record, error) {
	const q = `
        SELECT id, uid, name, host, is_global,
               suspended_at, deleted_at, created_at, updated_at
        FROM   site
        WHERE  suspended_at IS NULL
          AND  deleted_at   IS NULL`

	var rows []Record
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("site: list active: %w", err)
	}
	return rows, nil
}
