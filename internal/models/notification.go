package models

// NotificationSeverity classifies operator-visible messages.
type NotificationSeverity string

const (
	SeverityNormal      NotificationSeverity = "normal"
	SeverityDestructive NotificationSeverity = "destructive"
)

// Notification is a fire-and-forget operator-visible message.
type Notification struct {
	Title    string               `json:"title"`
	Body     string               `json:"body"`
	Severity NotificationSeverity `json:"severity"`
}
