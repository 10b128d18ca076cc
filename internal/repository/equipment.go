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

// equipmentRepository persists the root equipment table. Every read
// joins the provider table so returned entities carry a fully populated
// Provider reference.
type equipmentRepository struct {
	DB *sql.DB
}

// NewEquipmentRepository creates a Repository over the equipment table.
func NewEquipmentRepository(db *sql.DB) Repository[model.Equipment] {
	return &equipmentRepository{DB: db}
}

var equipmentFields = allowedFields{
	"serial":                 {column: "e.serial"},
	"brand":                  {column: "e.brand"},
	"provider.name":          {column: "p.name"},
	"provider.contact_email": {column: "p.contact_email"},
}

func (r *equipmentRepository) baseSelect() sq.SelectBuilder {
	return psql.Select(
		"e.id", "e.serial", "e.brand", "e.model", "e.type", "e.state", "e.image_path",
		"p.id", "p.name", "p.tax_id", "p.contact_email",
	).
		From("equipment e").
		Join("provider p ON p.id = e.provider_id")
}

func scanEquipment(s rowScanner) (model.Equipment, error) {
	var e model.Equipment
	var p model.Provider
	err := s.Scan(
		&e.ID, &e.Serial, &e.Brand, &e.Model, &e.Type, &e.State, &e.ImagePath,
		&p.ID, &p.Name, &p.TaxID, &p.ContactEmail,
	)
	e.Provider = &p
	return e, err
}

// providerIDArg extracts the foreign-key value for a provider reference.
// A missing reference is written as NULL and rejected by the schema's
// NOT NULL constraint.
func providerIDArg(p *model.Provider) any {
	if p == nil || p.ID == uuid.Nil {
		return nil
	}
	return p.ID
}

// insertEquipmentTx inserts the base equipment row inside an existing
// transaction and returns the storage-generated identifier. The
// specialized repositories use it for the base half of their two-table
// creates.
func insertEquipmentTx(ctx context.Context, tx *sql.Tx, entity model.Equipment) (uuid.UUID, error) {
	query := `
		INSERT INTO equipment (serial, brand, model, type, state, provider_id, image_path)
		VALUES ($1, $2, $3, $4::equipment_type, $5::equipment_status, $6, $7)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRowContext(ctx, query,
		entity.Serial,
		entity.Brand,
		entity.Model,
		string(entity.Type),
		string(entity.State),
		providerIDArg(entity.Provider),
		entity.ImagePath,
	).Scan(&id)
	return id, err
}

func (r *equipmentRepository) Create(ctx context.Context, entity model.Equipment) (model.Equipment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if entity.ID != uuid.Nil {
		return model.Equipment{}, fmt.Errorf("%w: equipment %s", ErrAlreadyIdentified, entity.ID)
	}

	query := `
		INSERT INTO equipment (serial, brand, model, type, state, provider_id, image_path)
		VALUES ($1, $2, $3, $4::equipment_type, $5::equipment_status, $6, $7)
		RETURNING id`

	err := r.DB.QueryRowContext(ctx, query,
		entity.Serial,
		entity.Brand,
		entity.Model,
		string(entity.Type),
		string(entity.State),
		providerIDArg(entity.Provider),
		entity.ImagePath,
	).Scan(&entity.ID)
	if err != nil {
		return model.Equipment{}, persistence("failed to create equipment", err)
	}

	return entity, nil
}

func (r *equipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Equipment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := r.baseSelect().Where(sq.Expr("e.id = ?", id)).ToSql()
	if err != nil {
		return model.Equipment{}, persistence("failed to build equipment query", err)
	}

	e, err := scanEquipment(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Equipment{}, fmt.Errorf("%w: equipment %s", ErrNotFound, id)
		}
		return model.Equipment{}, persistence("failed to get equipment by ID", err)
	}
	return e, nil
}

func (r *equipmentRepository) FindAll(ctx context.Context) ([]model.Equipment, error) {
	return r.list(ctx, r.baseSelect())
}

func (r *equipmentRepository) FindBy(ctx context.Context, attribute, value string) ([]model.Equipment, error) {
	cond, err := equipmentFields.where(attribute, value)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, r.baseSelect().Where(cond))
}

func (r *equipmentRepository) list(ctx context.Context, qb sq.SelectBuilder) ([]model.Equipment, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, persistence("failed to build equipment query", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistence("failed to query equipment", err)
	}
	defer rows.Close()

	equipment := []model.Equipment{}
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, persistence("failed to scan equipment", err)
		}
		equipment = append(equipment, e)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("equipment row iteration error", err)
	}

	return equipment, nil
}

func (r *equipmentRepository) Update(ctx context.Context, entity model.Equipment) (model.Equipment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		UPDATE equipment
		SET serial = $1, brand = $2, model = $3, type = $4::equipment_type,
		    state = $5::equipment_status, provider_id = $6, image_path = $7
		WHERE id = $8`

	result, err := r.DB.ExecContext(ctx, query,
		entity.Serial,
		entity.Brand,
		entity.Model,
		string(entity.Type),
		string(entity.State),
		providerIDArg(entity.Provider),
		entity.ImagePath,
		entity.ID,
	)
	if err != nil {
		return model.Equipment{}, persistence("failed to update equipment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return model.Equipment{}, persistence("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return model.Equipment{}, fmt.Errorf("%w: equipment %s", ErrNotFound, entity.ID)
	}

	return entity, nil
}

func (r *equipmentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	if err != nil {
		return false, persistence("failed to delete equipment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, persistence("failed to get rows affected", err)
	}
	return rowsAffected > 0, nil
}
