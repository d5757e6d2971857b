package notification

import (
	"fmt"
)

// NotificationManager routes notices to a registered notifier using the
// template registered for each notice type.
type NotificationManager struct {
	notifier Notifier
	registry map[NoticeType]NoticeTemplate
}

// NewNotificationManager creates a manager with the default notice templates registered
func NewNotificationManager(notifier Notifier) *NotificationManager {
	nm := &NotificationManager{
		notifier: notifier,
		registry: make(map[NoticeType]NoticeTemplate),
	}

	nm.RegisterNotification(WelcomeNotice, NoticeTemplate{
		Subject: "Your account has been created",
		Text:    "Hello {{.FirstName}},\n\nAn account with username {{.Username}} has been created for you.\n",
	})
	nm.RegisterNotification(PasswordChangedNotice, NoticeTemplate{
		Subject: "Your password has been changed",
		Text:    "Hello {{.Username}},\n\nYour password has just been changed by an administrator.\n",
	})

	return nm
}

// RegisterNotification adds or replaces the template for a notice type
func (nm *NotificationManager) RegisterNotification(noticeType NoticeType, template NoticeTemplate) {
	nm.registry[noticeType] = template
}

// Send delivers a notice of the given type
func (nm *NotificationManager) Send(noticeType NoticeType, data NotificationData) error {
	template, exists := nm.registry[noticeType]
	if !exists {
		return fmt.Errorf("no template registered for notice type: %s", noticeType)
	}
	return nm.notifier.Send(noticeType, data, template)
}
