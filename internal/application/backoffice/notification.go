package backoffice

import (
	"sync"
	"time"
)

// NotificationLevel is the severity of a user-facing notification
type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyError   NotificationLevel = "error"
	NotifyInfo    NotificationLevel = "info"
)

// Notification is a transient message for the operator
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
	Time    time.Time         `json:"time"`
}

// Notifier delivers user-facing notifications
type Notifier interface {
	Notify(level NotificationLevel, message string)
}

// NotificationLog is a Notifier that buffers notifications until drained
type NotificationLog struct {
	mu    sync.Mutex
	items []Notification
}

// NewNotificationLog creates an empty notification log
func NewNotificationLog() *NotificationLog {
	return &NotificationLog{}
}

// Notify implements Notifier
func (l *NotificationLog) Notify(level NotificationLevel, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, Notification{
		Level:   level,
		Message: message,
		Time:    time.Now(),
	})
}

// Drain returns the buffered notifications and empties the log
func (l *NotificationLog) Drain() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := l.items
	l.items = nil
	if items == nil {
		return []Notification{}
	}
	return items
}

// Pending returns a copy of the buffered notifications without draining them
func (l *NotificationLog) Pending() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Notification, len(l.items))
	copy(out, l.items)
	return out
}

// Count returns how many buffered notifications have the given level
func (l *NotificationLog) Count(level NotificationLevel) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, item := range l.items {
		if item.Level == level {
			n++
		}
	}
	return n
}
