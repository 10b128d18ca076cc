// Package repository implements relational persistence for the registry
// entities, including the table-per-subtype mapping of specialized
// equipment onto a shared base table.
package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// Repository is the uniform contract every entity repository implements.
//
// Create rejects entities that already carry an identifier with
// ErrAlreadyIdentified and returns the stored entity with its identifier
// populated. FindByID reports a missing row as ErrNotFound. FindAll and
// FindBy return an empty slice, not an error, when nothing matches.
// FindBy only accepts attribute names from the entity's allow-list and
// fails with ErrInvalidAttribute otherwise. Update requires an
// identified entity and fails with ErrNotFound when no row matches.
// Delete reports whether a row was removed; a missing row is a normal
// false result.
type Repository[E any] interface {
	Create(ctx context.Context, entity E) (E, error)
	FindByID(ctx context.Context, id uuid.UUID) (E, error)
	FindAll(ctx context.Context) ([]E, error)
	FindBy(ctx context.Context, attribute, value string) ([]E, error)
	Update(ctx context.Context, entity E) (E, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// psql builds read queries with Postgres placeholders. Write statements
// are plain SQL; only the read paths need composable WHERE clauses.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Per-operation deadlines. Every repository call is a single round trip
// (two, inside one transaction, for the specialized creates).
const (
	defaultTimeout = 5 * time.Second
	listTimeout    = 10 * time.Second
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
