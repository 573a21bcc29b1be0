package shared

import "fmt"

// NotificationKind classifies user-facing notifications.
type NotificationKind string

const (
	// NoticeError is a blocking alert for failed operations.
	NoticeError NotificationKind = "error"
	// NoticeWarning is a blocking alert for aborted or clamped operations.
	NoticeWarning NotificationKind = "warning"
	// NoticeInfo is a non-blocking informational message.
	NoticeInfo NotificationKind = "info"
)

// Notification represents a one-time message shown to the cashier.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
}

// Errorf builds an error notification.
func Errorf(format string, args ...any) *Notification {
	return &Notification{Kind: NoticeError, Message: fmt.Sprintf(format, args...)}
}

// Warnf builds a warning notification.
func Warnf(format string, args ...any) *Notification {
	return &Notification{Kind: NoticeWarning, Message: fmt.Sprintf(format, args...)}
}

// Infof builds an informational notification.
func Infof(format string, args ...any) *Notification {
	return &Notification{Kind: NoticeInfo, Message: fmt.Sprintf(format, args...)}
}
