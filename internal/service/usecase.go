// Package service is the thin use-case layer between the HTTP surface
// and the repositories. It exists so callers never depend on concrete
// repository types.
package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"asset-registry-api/internal/repository"
)

// UseCase forwards each operation to the repository for one entity kind.
type UseCase[E any] struct {
	name   string
	repo   repository.Repository[E]
	logger *log.Logger
}

// NewUseCase creates a use case over repo. name labels log lines.
func NewUseCase[E any](name string, repo repository.Repository[E], logger *log.Logger) *UseCase[E] {
	if logger == nil {
		logger = log.Default()
	}
	return &UseCase[E]{name: name, repo: repo, logger: logger}
}

func (u *UseCase[E]) Create(ctx context.Context, entity E) (E, error) {
	created, err := u.repo.Create(ctx, entity)
	if err == nil {
		u.logger.Printf("%s created", u.name)
	}
	return created, err
}

func (u *UseCase[E]) FindByID(ctx context.Context, id uuid.UUID) (E, error) {
	return u.repo.FindByID(ctx, id)
}

func (u *UseCase[E]) FindAll(ctx context.Context) ([]E, error) {
	return u.repo.FindAll(ctx)
}

func (u *UseCase[E]) FindBy(ctx context.Context, attribute, value string) ([]E, error) {
	return u.repo.FindBy(ctx, attribute, value)
}

func (u *UseCase[E]) Update(ctx context.Context, entity E) (E, error) {
	return u.repo.Update(ctx, entity)
}

func (u *UseCase[E]) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	removed, err := u.repo.Delete(ctx, id)
	if err == nil && removed {
		u.logger.Printf("%s deleted: id=%s", u.name, id)
	}
	return removed, err
}
