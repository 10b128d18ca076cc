package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"asset-registry-api/internal/model"
)

// recordingRepository captures calls so tests can assert pass-through
// behavior without SQL.
type recordingRepository[E any] struct {
	created   []E
	createErr error
	findByID  func(id uuid.UUID) (E, error)
}

func (r *recordingRepository[E]) Create(ctx context.Context, entity E) (E, error) {
	if r.createErr != nil {
		var zero E
		return zero, r.createErr
	}
	r.created = append(r.created, entity)
	return entity, nil
}

func (r *recordingRepository[E]) FindByID(ctx context.Context, id uuid.UUID) (E, error) {
	if r.findByID != nil {
		return r.findByID(id)
	}
	var zero E
	return zero, nil
}

func (r *recordingRepository[E]) FindAll(ctx context.Context) ([]E, error) {
	return r.created, nil
}

func (r *recordingRepository[E]) FindBy(ctx context.Context, attribute, value string) ([]E, error) {
	return r.created, nil
}

func (r *recordingRepository[E]) Update(ctx context.Context, entity E) (E, error) {
	return entity, nil
}

func (r *recordingRepository[E]) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return true, nil
}

// recordingNotifier collects notifications sent by the entry-request use
// case. Create notifies asynchronously, so access is synchronized.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []RequestNotification
	err  error
	done chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{done: make(chan struct{}, 1)}
}

func (n *recordingNotifier) SendRequestNotification(ctx context.Context, notification RequestNotification) error {
	n.mu.Lock()
	n.sent = append(n.sent, notification)
	n.mu.Unlock()
	n.done <- struct{}{}
	return n.err
}

func (n *recordingNotifier) wait(t *testing.T) RequestNotification {
	t.Helper()
	select {
	case <-n.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sent[len(n.sent)-1]
}

func TestUseCase_CreatePassesThrough(t *testing.T) {
	repo := &recordingRepository[model.Person]{}
	uc := NewUseCase("person", repo, nil)

	person := model.Person{FullName: "Maria Gonzalez", Document: "CC-1032456789", Role: model.RoleNurse}

	created, err := uc.Create(context.Background(), person)

	assert.NoError(t, err)
	assert.Equal(t, person, created)
	assert.Len(t, repo.created, 1)
}

func TestUseCase_CreatePropagatesError(t *testing.T) {
	repoErr := errors.New("storage unavailable")
	repo := &recordingRepository[model.Person]{createErr: repoErr}
	uc := NewUseCase("person", repo, nil)

	_, err := uc.Create(context.Background(), model.Person{})

	assert.ErrorIs(t, err, repoErr)
	assert.Empty(t, repo.created)
}

func TestEntryRequestUseCase_CreateNotifies(t *testing.T) {
	repo := &recordingRepository[model.EntryRequest]{}
	notifier := newRecordingNotifier()
	uc := NewEntryRequestUseCase(repo, notifier, nil)

	request := model.EntryRequest{
		Equipment: &model.Equipment{ID: uuid.New(), Serial: "EQ-2024-0001"},
		Purpose:   "Monthly calibration",
		Status:    model.RequestSubmitted,
	}

	created, err := uc.Create(context.Background(), request)

	assert.NoError(t, err)
	assert.Equal(t, request.Purpose, created.Purpose)

	sent := notifier.wait(t)
	assert.Equal(t, NotificationTypeRequestCreated, sent.Type)
	assert.Equal(t, "EQ-2024-0001", sent.EquipmentSerial)
	assert.Equal(t, "Monthly calibration", sent.Purpose)
	assert.Equal(t, "SUBMITTED", sent.Metadata["status"])
}

func TestEntryRequestUseCase_CreateFailureDoesNotNotify(t *testing.T) {
	repoErr := errors.New("storage unavailable")
	repo := &recordingRepository[model.EntryRequest]{createErr: repoErr}
	notifier := newRecordingNotifier()
	uc := NewEntryRequestUseCase(repo, notifier, nil)

	_, err := uc.Create(context.Background(), model.EntryRequest{})

	assert.ErrorIs(t, err, repoErr)

	select {
	case <-notifier.done:
		t.Fatal("notification sent despite failed create")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEntryRequestUseCase_NotifierErrorNotSurfaced(t *testing.T) {
	repo := &recordingRepository[model.EntryRequest]{}
	notifier := newRecordingNotifier()
	notifier.err = errors.New("webhook down")
	uc := NewEntryRequestUseCase(repo, notifier, nil)

	_, err := uc.Create(context.Background(), model.EntryRequest{Purpose: "Monthly calibration"})

	assert.NoError(t, err)
	notifier.wait(t)
}
