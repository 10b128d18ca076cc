package service

import (
	"context"
	"log"
	"time"

	"asset-registry-api/internal/model"
	"asset-registry-api/internal/repository"
)

// NotificationService interface for sending entry-request notifications
type NotificationService interface {
	SendRequestNotification(ctx context.Context, notification RequestNotification) error
}

// RequestNotification represents a notification about an entry request
type RequestNotification struct {
	Type            NotificationType
	RequestID       string
	EquipmentSerial string
	Purpose         string
	Message         string
	Metadata        map[string]string
}

// NotificationType represents the type of notification
type NotificationType string

const (
	NotificationTypeRequestCreated NotificationType = "request_created"
	NotificationTypeRequestUpdated NotificationType = "request_updated"
	NotificationTypeRequestDeleted NotificationType = "request_deleted"
)

const notifyTimeout = 5 * time.Second

// EntryRequestUseCase adds asynchronous webhook notification on top of
// the plain pass-through operations. Notification failures are logged,
// never surfaced to the caller.
type EntryRequestUseCase struct {
	*UseCase[model.EntryRequest]
	notifier NotificationService
}

// NewEntryRequestUseCase creates the entry-request use case.
func NewEntryRequestUseCase(repo repository.Repository[model.EntryRequest], notifier NotificationService, logger *log.Logger) *EntryRequestUseCase {
	return &EntryRequestUseCase{
		UseCase:  NewUseCase("entry request", repo, logger),
		notifier: notifier,
	}
}

func (u *EntryRequestUseCase) Create(ctx context.Context, entity model.EntryRequest) (model.EntryRequest, error) {
	created, err := u.UseCase.Create(ctx, entity)
	if err != nil {
		return created, err
	}

	go u.notify(RequestNotification{
		Type:      NotificationTypeRequestCreated,
		RequestID: created.ID.String(),
		EquipmentSerial: func() string {
			if created.Equipment != nil {
				return created.Equipment.Serial
			}
			return ""
		}(),
		Purpose: created.Purpose,
		Message: "Entry request created",
		Metadata: map[string]string{
			"status": string(created.Status),
		},
	})

	return created, nil
}

func (u *EntryRequestUseCase) notify(n RequestNotification) {
	if u.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := u.notifier.SendRequestNotification(ctx, n); err != nil {
		u.logger.Printf("Failed to send %s notification for request %s: %v", n.Type, n.RequestID, err)
	}
}
