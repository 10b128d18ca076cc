package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"asset-registry-api/internal/model"
)

type entryRequestFixture struct {
	equipment  *stubRepository[model.Equipment]
	persons    *stubRepository[model.Person]
	repo       Repository[model.EntryRequest]
	eq         model.Equipment
	requester  model.Person
	respons    model.Person
	requestID  uuid.UUID
	requested  time.Time
}

func setupEntryRequestRepo(t *testing.T, db *sql.DB) entryRequestFixture {
	t.Helper()

	equipment := newStubRepository[model.Equipment]()
	persons := newStubRepository[model.Person]()

	eq := testEquipment(uuid.New(), testProvider(uuid.New()))
	requester := model.Person{ID: uuid.New(), FullName: "Ana Ruiz", Document: "CC-52111222", Role: model.RoleDoctor}
	respons := model.Person{ID: uuid.New(), FullName: "Luis Prada", Document: "CC-79333444", Role: model.RoleBoss}

	equipment.entities[eq.ID] = eq
	persons.entities[requester.ID] = requester
	persons.entities[respons.ID] = respons

	return entryRequestFixture{
		equipment: equipment,
		persons:   persons,
		repo:      NewEntryRequestRepository(db, equipment, persons),
		eq:        eq,
		requester: requester,
		respons:   respons,
		requestID: uuid.New(),
		requested: time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC),
	}
}

func (f entryRequestFixture) rows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "purpose", "requested_at", "status",
		"equipment_id", "requester_id", "internal_responsible_id",
	}).AddRow(
		f.requestID, "Monthly calibration", f.requested, "APPROVED",
		f.eq.ID, f.requester.ID, f.respons.ID,
	)
}

func TestCreateEntryRequest_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	f := setupEntryRequestRepo(t, db)

	request := model.EntryRequest{
		Equipment:           &f.eq,
		Requester:           &f.requester,
		InternalResponsible: &f.respons,
		Purpose:             "Monthly calibration",
		RequestedAt:         f.requested,
		Status:              model.RequestSubmitted,
	}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO entry_request (equipment_id, requester_id, internal_responsible_id, purpose, requested_at, status)`)).
		WithArgs(f.eq.ID, f.requester.ID, f.respons.ID, request.Purpose, request.RequestedAt, "SUBMITTED").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(f.requestID))

	created, err := f.repo.Create(context.Background(), request)

	assert.NoError(t, err)
	assert.Equal(t, f.requestID, created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEntryRequest_AlreadyIdentified(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	f := setupEntryRequestRepo(t, db)

	request := model.EntryRequest{
		ID:                  uuid.New(),
		Equipment:           &f.eq,
		Requester:           &f.requester,
		InternalResponsible: &f.respons,
		Purpose:             "Monthly calibration",
		Status:              model.RequestDraft,
	}

	_, err := f.repo.Create(context.Background(), request)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyIdentified))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindEntryRequestByID_ResolvesReferences(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	f := setupEntryRequestRepo(t, db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM entry_request r WHERE r.id = $1`)).
		WithArgs(f.requestID).
		WillReturnRows(f.rows())

	request, err := f.repo.FindByID(context.Background(), f.requestID)

	assert.NoError(t, err)
	assert.Equal(t, f.requestID, request.ID)
	assert.NotNil(t, request.Equipment)
	assert.Equal(t, f.eq.Serial, request.Equipment.Serial)
	assert.NotNil(t, request.Requester)
	assert.Equal(t, f.requester.FullName, request.Requester.FullName)
	assert.NotNil(t, request.InternalResponsible)
	assert.Equal(t, f.respons.FullName, request.InternalResponsible.FullName)
	assert.Equal(t, model.RequestApproved, request.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindEntryRequestByID_DanglingEquipment(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	f := setupEntryRequestRepo(t, db)

	// The equipment row referenced by the stored request is gone.
	delete(f.equipment.entities, f.eq.ID)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM entry_request r WHERE r.id = $1`)).
		WithArgs(f.requestID).
		WillReturnRows(f.rows())

	_, err := f.repo.FindByID(context.Background(), f.requestID)

	assert.Error(t, err)
	var dangling *DanglingReferenceError
	assert.True(t, errors.As(err, &dangling))
	assert.Equal(t, "equipment", dangling.Kind)
	assert.Equal(t, f.eq.ID, dangling.ID)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestFindEntryRequestByID_DanglingPerson(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	f := setupEntryRequestRepo(t, db)

	delete(f.persons.entities, f.requester.ID)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM entry_request r WHERE r.id = $1`)).
		WithArgs(f.requestID).
		WillReturnRows(f.rows())

	_, err := f.repo.FindByID(context.Background(), f.requestID)

	assert.Error(t, err)
	var dangling *DanglingReferenceError
	assert.True(t, errors.As(err, &dangling))
	assert.Equal(t, "person", dangling.Kind)
	assert.Equal(t, f.requester.ID, dangling.ID)
}

func TestFindEntryRequestByID_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	f := setupEntryRequestRepo(t, db)

	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM entry_request r WHERE r.id = $1`)).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := f.repo.FindByID(context.Background(), id)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFindEntryRequestsBy_StatusExact(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	f := setupEntryRequestRepo(t, db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM entry_request r WHERE r.status::text = $1`)).
		WithArgs("APPROVED").
		WillReturnRows(f.rows())

	requests, err := f.repo.FindBy(context.Background(), "status", "APPROVED")

	assert.NoError(t, err)
	assert.Len(t, requests, 1)
	assert.Equal(t, model.RequestApproved, requests[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindEntryRequestsBy_UnknownAttribute(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	f := setupEntryRequestRepo(t, db)

	requests, err := f.repo.FindBy(context.Background(), "requester.fullname", "ana")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidAttribute))
	assert.Nil(t, requests)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEntryRequest_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	f := setupEntryRequestRepo(t, db)

	request := model.EntryRequest{
		ID:                  f.requestID,
		Equipment:           &f.eq,
		Requester:           &f.requester,
		InternalResponsible: &f.respons,
		Purpose:             "Extended maintenance window",
		RequestedAt:         f.requested,
		Status:              model.RequestScheduled,
	}

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE entry_request`)).
		WithArgs(f.eq.ID, f.requester.ID, f.respons.ID, request.Purpose, request.RequestedAt, "SCHEDULED", request.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := f.repo.Update(context.Background(), request)

	assert.NoError(t, err)
	assert.Equal(t, model.RequestScheduled, updated.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEntryRequest_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	f := setupEntryRequestRepo(t, db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM entry_request WHERE id = $1`)).
		WithArgs(f.requestID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	removed, err := f.repo.Delete(context.Background(), f.requestID)

	assert.NoError(t, err)
	assert.True(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
