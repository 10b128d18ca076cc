package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"asset-registry-api/internal/model"
)

func setupTestDB(t testing.TB) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock
}

// stubRepository backs relationship resolution in entry request tests
// without touching SQL.
type stubRepository[E any] struct {
	entities map[uuid.UUID]E
}

func newStubRepository[E any]() *stubRepository[E] {
	return &stubRepository[E]{entities: make(map[uuid.UUID]E)}
}

func (s *stubRepository[E]) Create(ctx context.Context, entity E) (E, error) {
	return entity, nil
}

func (s *stubRepository[E]) FindByID(ctx context.Context, id uuid.UUID) (E, error) {
	entity, ok := s.entities[id]
	if !ok {
		var zero E
		return zero, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return entity, nil
}

func (s *stubRepository[E]) FindAll(ctx context.Context) ([]E, error) {
	all := []E{}
	for _, entity := range s.entities {
		all = append(all, entity)
	}
	return all, nil
}

func (s *stubRepository[E]) FindBy(ctx context.Context, attribute, value string) ([]E, error) {
	return s.FindAll(ctx)
}

func (s *stubRepository[E]) Update(ctx context.Context, entity E) (E, error) {
	return entity, nil
}

func (s *stubRepository[E]) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := s.entities[id]
	delete(s.entities, id)
	return ok, nil
}

func testProvider(id uuid.UUID) *model.Provider {
	return &model.Provider{
		ID:           id,
		Name:         "Acme Medical Supplies",
		TaxID:        "NIT-900123456",
		ContactEmail: "sales@acme.example",
	}
}
