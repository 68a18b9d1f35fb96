package site

import "time"

// Record mirrors one row in the persistent `site` table.  The two nullable
// timestamps capture operational state:
//
//   - SuspendedAt – site is temporarily disabled (e.g., billing).
//   - DeletedAt   – site is permanently removed.
//
// Either timestamp being non-NULL keeps the row out of lookup results.
type Record struct {
	ID          uint64     `db:"id"`
	UID         string     `db:"uid"`
	Name        string     `db:"name"`
	Host        string     `db:"host"`
	Global      bool       `db:"is_global"`
	SuspendedAt *time.Time `db:"suspended_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}
