package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockNotifier records the last notice it was asked to deliver
type mockNotifier struct {
	noticeType NoticeType
	data       NotificationData
	template   NoticeTemplate
	sent       int
}

func (m *mockNotifier) Send(noticeType NoticeType, data NotificationData, template NoticeTemplate) error {
	m.noticeType = noticeType
	m.data = data
	m.template = template
	m.sent++
	return nil
}

func TestManagerSendsRegisteredNotice(t *testing.T) {
	mock := &mockNotifier{}
	nm := NewNotificationManager(mock)

	err := nm.Send(WelcomeNotice, NotificationData{
		To:   "ada@example.com",
		Data: map[string]string{"Username": "ada", "FirstName": "Ada"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, mock.sent)
	assert.Equal(t, WelcomeNotice, mock.noticeType)
	assert.Equal(t, "ada@example.com", mock.data.To)
	assert.Equal(t, "Your account has been created", mock.template.Subject)
}

func TestManagerRejectsUnknownNoticeType(t *testing.T) {
	nm := NewNotificationManager(&mockNotifier{})

	err := nm.Send(NoticeType("no_such_notice"), NotificationData{To: "x@example.com"})
	assert.Error(t, err)
}

func TestManagerTemplateOverride(t *testing.T) {
	mock := &mockNotifier{}
	nm := NewNotificationManager(mock)

	nm.RegisterNotification(WelcomeNotice, NoticeTemplate{Subject: "Welcome aboard"})

	err := nm.Send(WelcomeNotice, NotificationData{To: "x@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Welcome aboard", mock.template.Subject)
}
