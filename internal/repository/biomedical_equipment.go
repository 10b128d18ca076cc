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

// biomedicalEquipmentRepository persists biomedical equipment across the
// shared equipment table and the biomedical_equipment specialization
// table, mirroring the tech repository's two-table transactional writes.
type biomedicalEquipmentRepository struct {
	DB *sql.DB
}

// NewBiomedicalEquipmentRepository creates a Repository over the
// biomedical_equipment and equipment tables.
func NewBiomedicalEquipmentRepository(db *sql.DB) Repository[model.BiomedicalEquipment] {
	return &biomedicalEquipmentRepository{DB: db}
}

var biomedicalEquipmentFields = allowedFields{
	"serial":                 {column: "e.serial"},
	"brand":                  {column: "e.brand"},
	"provider.name":          {column: "p.name"},
	"provider.contact_email": {column: "p.contact_email"},
	"risk_class":             {column: "be.risk_class", exact: true},
}

func (r *biomedicalEquipmentRepository) baseSelect() sq.SelectBuilder {
	return psql.Select(
		"be.risk_class", "be.calibration_cert",
		"e.id", "e.serial", "e.brand", "e.model", "e.type", "e.state", "e.image_path",
		"p.id", "p.name", "p.tax_id", "p.contact_email",
	).
		From("biomedical_equipment be").
		Join("equipment e ON e.id = be.id").
		Join("provider p ON p.id = e.provider_id")
}

func scanBiomedicalEquipment(s rowScanner) (model.BiomedicalEquipment, error) {
	var be model.BiomedicalEquipment
	var p model.Provider
	err := s.Scan(
		&be.RiskClass, &be.CalibrationCert,
		&be.ID, &be.Serial, &be.Brand, &be.Model, &be.Type, &be.State, &be.ImagePath,
		&p.ID, &p.Name, &p.TaxID, &p.ContactEmail,
	)
	be.Provider = &p
	return be, err
}

// Create inserts the base equipment row and the biomedical
// specialization row as one atomic unit.
func (r *biomedicalEquipmentRepository) Create(ctx context.Context, entity model.BiomedicalEquipment) (model.BiomedicalEquipment, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	if entity.ID != uuid.Nil {
		return model.BiomedicalEquipment{}, fmt.Errorf("%w: biomedical equipment %s", ErrAlreadyIdentified, entity.ID)
	}

	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		id, err := insertEquipmentTx(ctx, tx, entity.Equipment)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO biomedical_equipment (id, risk_class, calibration_cert) VALUES ($1, $2::risk_class, $3)`,
			id, string(entity.RiskClass), entity.CalibrationCert,
		)
		if err != nil {
			return err
		}

		entity.ID = id
		return nil
	})
	if err != nil {
		return model.BiomedicalEquipment{}, persistence("failed to create biomedical equipment", err)
	}

	return entity, nil
}

func (r *biomedicalEquipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (model.BiomedicalEquipment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := r.baseSelect().Where(sq.Expr("e.id = ?", id)).ToSql()
	if err != nil {
		return model.BiomedicalEquipment{}, persistence("failed to build biomedical equipment query", err)
	}

	be, err := scanBiomedicalEquipment(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BiomedicalEquipment{}, fmt.Errorf("%w: biomedical equipment %s", ErrNotFound, id)
		}
		return model.BiomedicalEquipment{}, persistence("failed to get biomedical equipment by ID", err)
	}
	return be, nil
}

func (r *biomedicalEquipmentRepository) FindAll(ctx context.Context) ([]model.BiomedicalEquipment, error) {
	return r.list(ctx, r.baseSelect())
}

func (r *biomedicalEquipmentRepository) FindBy(ctx context.Context, attribute, value string) ([]model.BiomedicalEquipment, error) {
	cond, err := biomedicalEquipmentFields.where(attribute, value)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, r.baseSelect().Where(cond))
}

func (r *biomedicalEquipmentRepository) list(ctx context.Context, qb sq.SelectBuilder) ([]model.BiomedicalEquipment, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, persistence("failed to build biomedical equipment query", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistence("failed to query biomedical equipment", err)
	}
	defer rows.Close()

	equipment := []model.BiomedicalEquipment{}
	for rows.Next() {
		be, err := scanBiomedicalEquipment(rows)
		if err != nil {
			return nil, persistence("failed to scan biomedical equipment", err)
		}
		equipment = append(equipment, be)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("biomedical equipment row iteration error", err)
	}

	return equipment, nil
}

// Update touches only the specialization columns.
func (r *biomedicalEquipmentRepository) Update(ctx context.Context, entity model.BiomedicalEquipment) (model.BiomedicalEquipment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `UPDATE biomedical_equipment SET risk_class = $1::risk_class, calibration_cert = $2 WHERE id = $3`

	result, err := r.DB.ExecContext(ctx, query, string(entity.RiskClass), entity.CalibrationCert, entity.ID)
	if err != nil {
		return model.BiomedicalEquipment{}, persistence("failed to update biomedical equipment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return model.BiomedicalEquipment{}, persistence("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return model.BiomedicalEquipment{}, fmt.Errorf("%w: biomedical equipment %s", ErrNotFound, entity.ID)
	}

	return entity, nil
}

// Delete removes the specialization row and its base row together.
func (r *biomedicalEquipmentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	var removed bool
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM biomedical_equipment WHERE id = $1`, id)
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
		return false, persistence("failed to delete biomedical equipment", err)
	}

	return removed, nil
}
