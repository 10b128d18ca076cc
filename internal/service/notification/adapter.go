package notification

import (
	"context"

	"asset-registry-api/internal/notification"
	"asset-registry-api/internal/service"
)

// ServiceAdapter adapts the notification client to the service layer interface
type ServiceAdapter struct {
	client notification.Notifier
}

// NewServiceAdapter creates a new notification service adapter
func NewServiceAdapter(client notification.Notifier) *ServiceAdapter {
	return &ServiceAdapter{client: client}
}

// SendRequestNotification sends an entry-request notification
func (a *ServiceAdapter) SendRequestNotification(ctx context.Context, requestNotification service.RequestNotification) error {
	clientNotification := notification.Notification{
		Level:     mapNotificationLevel(requestNotification.Type),
		RequestID: requestNotification.RequestID,
		Message:   requestNotification.Message,
		Metadata:  requestNotification.Metadata,
	}

	if clientNotification.Metadata == nil {
		clientNotification.Metadata = make(map[string]string)
	}
	if requestNotification.EquipmentSerial != "" {
		clientNotification.Metadata["equipment_serial"] = requestNotification.EquipmentSerial
	}
	if requestNotification.Purpose != "" {
		clientNotification.Metadata["purpose"] = requestNotification.Purpose
	}
	clientNotification.Metadata["notification_type"] = string(requestNotification.Type)

	return a.client.SendNotificationWithContext(ctx, clientNotification)
}

// mapNotificationLevel maps service notification types to client notification levels
func mapNotificationLevel(notificationType service.NotificationType) notification.NotificationLevel {
	switch notificationType {
	case service.NotificationTypeRequestDeleted:
		return notification.LevelWarning
	default:
		return notification.LevelInfo
	}
}
