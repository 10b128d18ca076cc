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

// entryRequestRepository persists entry requests. Writes store only the
// three foreign-key identifiers; reads rehydrate the referenced
// Equipment and Person objects by delegating to their repositories. A
// foreign key that no longer resolves is surfaced as a
// DanglingReferenceError, never as a partially populated object.
type entryRequestRepository struct {
	DB        *sql.DB
	equipment Repository[model.Equipment]
	persons   Repository[model.Person]
}

// NewEntryRequestRepository creates a Repository over the entry_request
// table, resolving relationships through the given repositories.
func NewEntryRequestRepository(db *sql.DB, equipment Repository[model.Equipment], persons Repository[model.Person]) Repository[model.EntryRequest] {
	return &entryRequestRepository{
		DB:        db,
		equipment: equipment,
		persons:   persons,
	}
}

// status is an enumerated column, so it matches exactly.
var entryRequestFields = allowedFields{
	"purpose": {column: "r.purpose"},
	"status":  {column: "r.status", exact: true},
}

func (r *entryRequestRepository) baseSelect() sq.SelectBuilder {
	return psql.Select(
		"r.id", "r.purpose", "r.requested_at", "r.status",
		"r.equipment_id", "r.requester_id", "r.internal_responsible_id",
	).From("entry_request r")
}

// entryRequestRow holds one scanned row before its references are
// resolved.
type entryRequestRow struct {
	request               model.EntryRequest
	equipmentID           uuid.UUID
	requesterID           uuid.UUID
	internalResponsibleID uuid.UUID
}

func scanEntryRequest(s rowScanner) (entryRequestRow, error) {
	var row entryRequestRow
	var requestedAt sql.NullTime
	err := s.Scan(
		&row.request.ID, &row.request.Purpose, &requestedAt, &row.request.Status,
		&row.equipmentID, &row.requesterID, &row.internalResponsibleID,
	)
	if requestedAt.Valid {
		row.request.RequestedAt = requestedAt.Time
	}
	return row, err
}

// resolve rehydrates the three references of a scanned row. A reference
// whose row is gone is a data-integrity failure, not a normal not-found.
func (r *entryRequestRepository) resolve(ctx context.Context, row entryRequestRow) (model.EntryRequest, error) {
	equipment, err := r.equipment.FindByID(ctx, row.equipmentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.EntryRequest{}, &DanglingReferenceError{Kind: "equipment", ID: row.equipmentID}
		}
		return model.EntryRequest{}, err
	}

	requester, err := r.persons.FindByID(ctx, row.requesterID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.EntryRequest{}, &DanglingReferenceError{Kind: "person", ID: row.requesterID}
		}
		return model.EntryRequest{}, err
	}

	internalResponsible, err := r.persons.FindByID(ctx, row.internalResponsibleID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.EntryRequest{}, &DanglingReferenceError{Kind: "person", ID: row.internalResponsibleID}
		}
		return model.EntryRequest{}, err
	}

	request := row.request
	request.Equipment = &equipment
	request.Requester = &requester
	request.InternalResponsible = &internalResponsible
	return request, nil
}

func equipmentIDArg(e *model.Equipment) any {
	if e == nil || e.ID == uuid.Nil {
		return nil
	}
	return e.ID
}

func personIDArg(p *model.Person) any {
	if p == nil || p.ID == uuid.Nil {
		return nil
	}
	return p.ID
}

// Create persists the foreign-key identifiers plus purpose, timestamp
// and status. It never cascade-creates the referenced entities.
func (r *entryRequestRepository) Create(ctx context.Context, entity model.EntryRequest) (model.EntryRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if entity.ID != uuid.Nil {
		return model.EntryRequest{}, fmt.Errorf("%w: entry request %s", ErrAlreadyIdentified, entity.ID)
	}

	query := `
		INSERT INTO entry_request (equipment_id, requester_id, internal_responsible_id, purpose, requested_at, status)
		VALUES ($1, $2, $3, $4, $5, $6::request_status)
		RETURNING id`

	var requestedAt any
	if !entity.RequestedAt.IsZero() {
		requestedAt = entity.RequestedAt
	}

	err := r.DB.QueryRowContext(ctx, query,
		equipmentIDArg(entity.Equipment),
		personIDArg(entity.Requester),
		personIDArg(entity.InternalResponsible),
		entity.Purpose,
		requestedAt,
		string(entity.Status),
	).Scan(&entity.ID)
	if err != nil {
		return model.EntryRequest{}, persistence("failed to create entry request", err)
	}

	return entity, nil
}

func (r *entryRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (model.EntryRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	query, args, err := r.baseSelect().Where(sq.Expr("r.id = ?", id)).ToSql()
	if err != nil {
		return model.EntryRequest{}, persistence("failed to build entry request query", err)
	}

	row, err := scanEntryRequest(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.EntryRequest{}, fmt.Errorf("%w: entry request %s", ErrNotFound, id)
		}
		return model.EntryRequest{}, persistence("failed to get entry request by ID", err)
	}

	return r.resolve(ctx, row)
}

func (r *entryRequestRepository) FindAll(ctx context.Context) ([]model.EntryRequest, error) {
	return r.list(ctx, r.baseSelect())
}

func (r *entryRequestRepository) FindBy(ctx context.Context, attribute, value string) ([]model.EntryRequest, error) {
	cond, err := entryRequestFields.where(attribute, value)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, r.baseSelect().Where(cond))
}

func (r *entryRequestRepository) list(ctx context.Context, qb sq.SelectBuilder) ([]model.EntryRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, persistence("failed to build entry request query", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistence("failed to query entry requests", err)
	}

	scanned := []entryRequestRow{}
	for rows.Next() {
		row, err := scanEntryRequest(rows)
		if err != nil {
			rows.Close()
			return nil, persistence("failed to scan entry request", err)
		}
		scanned = append(scanned, row)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, persistence("entry request row iteration error", err)
	}
	// Release the connection before the delegated lookups reuse the pool.
	rows.Close()

	requests := []model.EntryRequest{}
	for _, row := range scanned {
		request, err := r.resolve(ctx, row)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	return requests, nil
}

// Update rewrites the foreign-key identifiers and scalar fields of an
// existing entry request.
func (r *entryRequestRepository) Update(ctx context.Context, entity model.EntryRequest) (model.EntryRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		UPDATE entry_request
		SET equipment_id = $1, requester_id = $2, internal_responsible_id = $3,
		    purpose = $4, requested_at = $5, status = $6::request_status
		WHERE id = $7`

	var requestedAt any
	if !entity.RequestedAt.IsZero() {
		requestedAt = entity.RequestedAt
	}

	result, err := r.DB.ExecContext(ctx, query,
		equipmentIDArg(entity.Equipment),
		personIDArg(entity.Requester),
		personIDArg(entity.InternalResponsible),
		entity.Purpose,
		requestedAt,
		string(entity.Status),
		entity.ID,
	)
	if err != nil {
		return model.EntryRequest{}, persistence("failed to update entry request", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return model.EntryRequest{}, persistence("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return model.EntryRequest{}, fmt.Errorf("%w: entry request %s", ErrNotFound, entity.ID)
	}

	return entity, nil
}

func (r *entryRequestRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctx, `DELETE FROM entry_request WHERE id = $1`, id)
	if err != nil {
		return false, persistence("failed to delete entry request", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, persistence("failed to get rows affected", err)
	}
	return rowsAffected > 0, nil
}
