package dto

import (
	"time"

	"github.com/praxislab/praxis-go-api/internal/models"
)

// NotificationCreateRequest describes the payload to create a notification.
// The actor is always the authenticated caller, never part of the payload.
type NotificationCreateRequest struct {
	RecipientID  uint   `json:"recipient_id" validate:"required"`
	Type         string `json:"type" validate:"required,max=64"`
	ReferenceID  uint   `json:"reference_id" validate:"required"`
	ReferenceURL string `json:"reference_url" validate:"omitempty,url,max=512"`
}

// NotificationResponse represents notification data returned to clients.
type NotificationResponse struct {
	ID           uint      `json:"id"`
	RecipientID  uint      `json:"recipient_id"`
	ActorID      uint      `json:"actor_id"`
	Type         string    `json:"type"`
	ReferenceID  uint      `json:"reference_id"`
	ReferenceURL string    `json:"reference_url,omitempty"`
	IsRead       bool      `json:"is_read"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewNotificationResponse converts a notification model to a DTO.
func NewNotificationResponse(model models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:           model.ID,
		RecipientID:  model.RecipientID,
		ActorID:      model.ActorID,
		Type:         model.Type,
		ReferenceID:  model.ReferenceID,
		ReferenceURL: model.ReferenceURL,
		IsRead:       model.IsRead,
		CreatedAt:    model.CreatedAt,
	}
}

// NewNotificationResponseSlice converts a slice of models into DTOs.
func NewNotificationResponseSlice(notifications []models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		out = append(out, NewNotificationResponse(notification))
	}
	return out
}

// UnreadCountResponse reports the number of unread notifications.
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
