package notification

// NoticeType identifies a kind of notice (e.g. "welcome_user")
type NoticeType string

const (
	WelcomeNotice         NoticeType = "welcome_user"
	PasswordChangedNotice NoticeType = "password_changed"
)

// NotificationData carries the recipient and template data for one notice
type NotificationData struct {
	To   string            // Recipient identifier (e.g. email address)
	Data map[string]string // Template data
}

// NoticeTemplate holds the subject and body templates for a notice
type NoticeTemplate struct {
	Subject string
	Text    string
	Html    string
}

// Notifier delivers a rendered notice over one transport
type Notifier interface {
	Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error
}
