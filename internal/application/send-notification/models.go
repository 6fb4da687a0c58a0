// internal/application/send-notification/models.go
package sendnotification

import "builder-network/internal/models"

type Input struct {
	Application *models.Application
	Record      *models.Record
}

type Output struct {
	NotificationID string `json:"notificationId"`
	EmailStatus    string `json:"emailStatus"`
	AlertStatus    string `json:"alertStatus"`
	MessageID      string `json:"messageId,omitempty"`
	SentAt         string `json:"sentAt"` // ISO 8601
}

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

const (
	subjectPrefix     = "New Builder Application: "
	snsSubjectMaxLen  = 100
	submittedAtLayout = "Jan 2, 2006 3:04:05 PM MST"
)
