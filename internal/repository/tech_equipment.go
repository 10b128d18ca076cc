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

// techEquipmentRepository persists tech equipment across two tables: the
// shared equipment table and the tech_equipment specialization table
// keyed by the same identifier. Creation and deletion span both rows
// inside one transaction so a specialization row never exists without
// its base row.
type techEquipmentRepository struct {
	DB *sql.DB
}

// NewTechEquipmentRepository creates a Repository over the
// tech_equipment and equipment tables.
func NewTechEquipmentRepository(db *sql.DB) Repository[model.TechEquipment] {
	return &techEquipmentRepository{DB: db}
}

var techEquipmentFields = allowedFields{
	"serial":                 {column: "e.serial"},
	"brand":                  {column: "e.brand"},
	"provider.name":          {column: "p.name"},
	"provider.contact_email": {column: "p.contact_email"},
}

func (r *techEquipmentRepository) baseSelect() sq.SelectBuilder {
	return psql.Select(
		"te.os", "te.ram_gb",
		"e.id", "e.serial", "e.brand", "e.model", "e.type", "e.state", "e.image_path",
		"p.id", "p.name", "p.tax_id", "p.contact_email",
	).
		From("tech_equipment te").
		Join("equipment e ON e.id = te.id").
		Join("provider p ON p.id = e.provider_id")
}

func scanTechEquipment(s rowScanner) (model.TechEquipment, error) {
	var te model.TechEquipment
	var p model.Provider
	err := s.Scan(
		&te.OS, &te.RAMGB,
		&te.ID, &te.Serial, &te.Brand, &te.Model, &te.Type, &te.State, &te.ImagePath,
		&p.ID, &p.Name, &p.TaxID, &p.ContactEmail,
	)
	te.Provider = &p
	return te, err
}

// Create inserts the base equipment row and the tech specialization row
// as one atomic unit. If the specialization insert fails the base row is
// rolled back with it.
func (r *techEquipmentRepository) Create(ctx context.Context, entity model.TechEquipment) (model.TechEquipment, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	if entity.ID != uuid.Nil {
		return model.TechEquipment{}, fmt.Errorf("%w: tech equipment %s", ErrAlreadyIdentified, entity.ID)
	}

	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		id, err := insertEquipmentTx(ctx, tx, entity.Equipment)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO tech_equipment (id, os, ram_gb) VALUES ($1, $2, $3)`,
			id, entity.OS, entity.RAMGB,
		)
		if err != nil {
			return err
		}

		entity.ID = id
		return nil
	})
	if err != nil {
		return model.TechEquipment{}, persistence("failed to create tech equipment", err)
	}

	return entity, nil
}

func (r *techEquipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (model.TechEquipment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := r.baseSelect().Where(sq.Expr("e.id = ?", id)).ToSql()
	if err != nil {
		return model.TechEquipment{}, persistence("failed to build tech equipment query", err)
	}

	te, err := scanTechEquipment(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TechEquipment{}, fmt.Errorf("%w: tech equipment %s", ErrNotFound, id)
		}
		return model.TechEquipment{}, persistence("failed to get tech equipment by ID", err)
	}
	return te, nil
}

func (r *techEquipmentRepository) FindAll(ctx context.Context) ([]model.TechEquipment, error) {
	return r.list(ctx, r.baseSelect())
}

func (r *techEquipmentRepository) FindBy(ctx context.Context, attribute, value string) ([]model.TechEquipment, error) {
	cond, err := techEquipmentFields.where(attribute, value)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, r.baseSelect().Where(cond))
}

func (r *techEquipmentRepository) list(ctx context.Context, qb sq.SelectBuilder) ([]model.TechEquipment, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, persistence("failed to build tech equipment query", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistence("failed to query tech equipment", err)
	}
	defer rows.Close()

	equipment := []model.TechEquipment{}
	for rows.Next() {
		te, err := scanTechEquipment(rows)
		if err != nil {
			return nil, persistence("failed to scan tech equipment", err)
		}
		equipment = append(equipment, te)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("tech equipment row iteration error", err)
	}

	return equipment, nil
}

// Update touches only the specialization columns. Base-table fields of a
// tech equipment are updated through the equipment repository.
func (r *techEquipmentRepository) Update(ctx context.Context, entity model.TechEquipment) (model.TechEquipment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `UPDATE tech_equipment SET os = $1, ram_gb = $2 WHERE id = $3`

	result, err := r.DB.ExecContext(ctx, query, entity.OS, entity.RAMGB, entity.ID)
	if err != nil {
		return model.TechEquipment{}, persistence("failed to update tech equipment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return model.TechEquipment{}, persistence("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return model.TechEquipment{}, fmt.Errorf("%w: tech equipment %s", ErrNotFound, entity.ID)
	}

	return entity, nil
}

// Delete removes the specialization row and its base row together so a
// base row never survives as an orphan.
func (r *techEquipmentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	var removed bool
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM tech_equipment WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return nil
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM equipment WHERE id = $1`, id); err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, persistence("failed to delete tech equipment", err)
	}

	return removed, nil
}
