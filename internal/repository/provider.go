package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"asset-registry-api/internal/model"
)

// providerRepository persists model.Provider rows.
type providerRepository struct {
	DB *sql.DB
}

// NewProviderRepository creates a Repository over the provider table.
func NewProviderRepository(db *sql.DB) Repository[model.Provider] {
	return &providerRepository{DB: db}
}

var providerFields = allowedFields{
	"name":          {column: "name"},
	"tax_id":        {column: "tax_id"},
	"contact_email": {column: "contact_email"},
}

func (r *providerRepository) baseSelect() sq.SelectBuilder {
	return psql.Select("id", "name", "tax_id", "contact_email").From("provider")
}

func scanProvider(s rowScanner) (model.Provider, error) {
	var p model.Provider
	err := s.Scan(&p.ID, &p.Name, &p.TaxID, &p.ContactEmail)
	return p, err
}

func (r *providerRepository) Create(ctx context.Context, entity model.Provider) (model.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if entity.ID != uuid.Nil {
		return model.Provider{}, fmt.Errorf("%w: provider %s", ErrAlreadyIdentified, entity.ID)
	}

	query := `
		INSERT INTO provider (name, tax_id, contact_email)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.DB.QueryRowContext(ctx, query, entity.Name, entity.TaxID, entity.ContactEmail).Scan(&entity.ID)
	if err != nil {
		return model.Provider{}, persistence("failed to create provider", err)
	}

	return entity, nil
}

func (r *providerRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := r.baseSelect().Where(sq.Expr("id = ?", id)).ToSql()
	if err != nil {
		return model.Provider{}, persistence("failed to build provider query", err)
	}

	p, err := scanProvider(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Provider{}, fmt.Errorf("%w: provider %s", ErrNotFound, id)
		}
		return model.Provider{}, persistence("failed to get provider by ID", err)
	}
	return p, nil
}

func (r *providerRepository) FindAll(ctx context.Context) ([]model.Provider, error) {
	return r.list(ctx, r.baseSelect())
}

func (r *providerRepository) FindBy(ctx context.Context, attribute, value string) ([]model.Provider, error) {
	cond, err := providerFields.where(attribute, value)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, r.baseSelect().Where(cond))
}

func (r *providerRepository) list(ctx context.Context, qb sq.SelectBuilder) ([]model.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, persistence("failed to build provider query", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistence("failed to query providers", err)
	}
	defer rows.Close()

	providers := []model.Provider{}
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, persistence("failed to scan provider", err)
		}
		providers = append(providers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("provider row iteration error", err)
	}

	return providers, nil
}

func (r *providerRepository) Update(ctx context.Context, entity model.Provider) (model.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		UPDATE provider
		SET name = $1, tax_id = $2, contact_email = $3
		WHERE id = $4`

	result, err := r.DB.ExecContext(ctx, query, entity.Name, entity.TaxID, entity.ContactEmail, entity.ID)
	if err != nil {
		return model.Provider{}, persistence("failed to update provider", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return model.Provider{}, persistence("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return model.Provider{}, fmt.Errorf("%w: provider %s", ErrNotFound, entity.ID)
	}

	return entity, nil
}

func (r *providerRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctx, `DELETE FROM provider WHERE id = $1`, id)
	if err != nil {
		return false, persistence("failed to delete provider", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, persistence("failed to get rows affected", err)
	}
	return rowsAffected > 0, nil
}
