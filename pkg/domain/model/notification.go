package model

// NotificationLevel is the severity of a user facing notification
type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationWarning NotificationLevel = "warning"
	NotificationError   NotificationLevel = "error"
)

// Notification is a message for the alert surface (chat, log)
type Notification struct {
	Level   NotificationLevel
	Title   string
	Message string
}
