package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"asset-registry-api/internal/model"
)

func testTechEquipment(id uuid.UUID, provider *model.Provider) model.TechEquipment {
	return model.TechEquipment{
		Equipment: model.Equipment{
			ID:        id,
			Serial:    "PC-2024-0042",
			Brand:     "Lenovo",
			Model:     "ThinkCentre M90q",
			Type:      model.TypeComputing,
			State:     model.StatusNew,
			Provider:  provider,
			ImagePath: "images/pc-2024-0042.png",
		},
		OS:    "Debian 12",
		RAMGB: 32,
	}
}

func techEquipmentRows(te model.TechEquipment) *sqlmock.Rows {
	p := te.Provider
	return sqlmock.NewRows([]string{
		"os", "ram_gb",
		"id", "serial", "brand", "model", "type", "state", "image_path",
		"id", "name", "tax_id", "contact_email",
	}).AddRow(
		te.OS, te.RAMGB,
		te.ID, te.Serial, te.Brand, te.Model, string(te.Type), string(te.State), te.ImagePath,
		p.ID, p.Name, p.TaxID, p.ContactEmail,
	)
}

func TestCreateTechEquipment_Atomic(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewTechEquipmentRepository(db)

	provider := testProvider(uuid.New())
	entity := testTechEquipment(uuid.Nil, provider)
	generatedID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO equipment (serial, brand, model, type, state, provider_id, image_path)`)).
		WithArgs(entity.Serial, entity.Brand, entity.Model, "COMPUTING", "NEW", provider.ID, entity.ImagePath).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(generatedID))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tech_equipment (id, os, ram_gb) VALUES ($1, $2, $3)`)).
		WithArgs(generatedID, entity.OS, entity.RAMGB).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	created, err := repo.Create(context.Background(), entity)

	assert.NoError(t, err)
	assert.Equal(t, generatedID, created.ID)
	assert.Equal(t, entity.OS, created.OS)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTechEquipment_SpecializationFailureRollsBack(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewTechEquipmentRepository(db)

	provider := testProvider(uuid.New())
	entity := testTechEquipment(uuid.Nil, provider)
	generatedID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO equipment`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(generatedID))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tech_equipment`)).
		WillReturnError(errors.New(`pq: null value in column "os" violates not-null constraint`))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), entity)

	assert.Error(t, err)
	var perr *PersistenceError
	assert.True(t, errors.As(err, &perr))
	// The base row insert must be rolled back with the failed
	// specialization insert.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTechEquipment_BaseInsertFailureRollsBack(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewTechEquipmentRepository(db)

	entity := testTechEquipment(uuid.Nil, testProvider(uuid.New()))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO equipment`)).
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "equipment_serial_key"`))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), entity)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTechEquipment_AlreadyIdentified(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewTechEquipmentRepository(db)

	entity := testTechEquipment(uuid.New(), testProvider(uuid.New()))

	_, err := repo.Create(context.Background(), entity)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyIdentified))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindTechEquipmentByID_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewTechEquipmentRepository(db)

	expected := testTechEquipment(uuid.New(), testProvider(uuid.New()))

	mock.ExpectQuery(regexp.QuoteMeta(`FROM tech_equipment te JOIN equipment e ON e.id = te.id JOIN provider p ON p.id = e.provider_id WHERE e.id = $1`)).
		WithArgs(expected.ID).
		WillReturnRows(techEquipmentRows(expected))

	entity, err := repo.FindByID(context.Background(), expected.ID)

	assert.NoError(t, err)
	assert.Equal(t, expected.OS, entity.OS)
	assert.Equal(t, expected.RAMGB, entity.RAMGB)
	assert.Equal(t, expected.Serial, entity.Serial)
	assert.NotNil(t, entity.Provider)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindTechEquipmentByID_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewTechEquipmentRepository(db)

	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM tech_equipment te`)).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), id)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUpdateTechEquipment_SpecializationOnly(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewTechEquipmentRepository(db)

	entity := testTechEquipment(uuid.New(), testProvider(uuid.New()))
	entity.OS = "Debian 13"
	entity.RAMGB = 64

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE tech_equipment SET os = $1, ram_gb = $2 WHERE id = $3`)).
		WithArgs(entity.OS, entity.RAMGB, entity.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := repo.Update(context.Background(), entity)

	assert.NoError(t, err)
	assert.Equal(t, "Debian 13", updated.OS)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTechEquipment_RemovesBothRows(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewTechEquipmentRepository(db)

	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tech_equipment WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM equipment WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	removed, err := repo.Delete(context.Background(), id)

	assert.NoError(t, err)
	assert.True(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTechEquipment_Missing(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	repo := NewTechEquipmentRepository(db)

	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tech_equipment WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	removed, err := repo.Delete(context.Background(), id)

	assert.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
