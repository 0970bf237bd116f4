package session

import (
	"fmt"
	"time"

	"github.com/yeremiapane/waiter-terminal/utils"
)

const (
	NotifySuccess = "success"
	NotifyError   = "error"
	NotifyInfo    = "info"
)

// Notification is an ephemeral user-facing status message.
type Notification struct {
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Keep the ring small; the terminal only ever shows the most recent ones.
const maxNotifications = 50

func (s *Store) pushNotification(level, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, Notification{
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	})
	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}
}

func (s *Store) notifySuccess(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if utils.InfoLogger != nil {
		utils.InfoLogger.Printf("%s", msg)
	}
	s.pushNotification(NotifySuccess, msg)
}

func (s *Store) notifyError(err error) {
	if utils.ErrorLogger != nil {
		utils.ErrorLogger.Printf("%v", err)
	}
	s.pushNotification(NotifyError, err.Error())
}

// Notifications returns a copy of the current messages, newest last.
func (s *Store) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// LastNotification returns the most recent message, if any.
func (s *Store) LastNotification() (Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.notifications) == 0 {
		return Notification{}, false
	}
	return s.notifications[len(s.notifications)-1], true
}
