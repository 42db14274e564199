package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maher-jaber/rh-altra-api/internal/models"
	"github.com/maher-jaber/rh-altra-api/pkg/jobs"
)

type notificationRepoStub struct {
	created   []*models.Notification
	createErr error
}

func (n *notificationRepoStub) Create(ctx context.Context, notification *models.Notification) error {
	if n.createErr != nil {
		return n.createErr
	}
	n.created = append(n.created, notification)
	return nil
}

func (n *notificationRepoStub) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error) {
	result := make([]models.Notification, 0, len(n.created))
	for _, notification := range n.created {
		if notification.RecipientID == filter.RecipientID {
			result = append(result, *notification)
		}
	}
	return result, nil
}

func (n *notificationRepoStub) MarkRead(ctx context.Context, id, recipientID string) error {
	return nil
}

func (n *notificationRepoStub) CountUnread(ctx context.Context, recipientID string) (int, error) {
	count := 0
	for _, notification := range n.created {
		if notification.RecipientID == recipientID && !notification.Read {
			count++
		}
	}
	return count, nil
}

type usersStub struct {
	users []models.User
}

func (u *usersStub) GetByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	return u.users, nil
}

type publisherStub struct {
	published []string
	err       error
}

func (p *publisherStub) Publish(ctx context.Context, recipientID string, event any) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, recipientID)
	return nil
}

type mailerStub struct {
	sent []string
	err  error
}

func (m *mailerStub) Send(ctx context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

func newNotifier(repo *notificationRepoStub, users *usersStub, publisher *publisherStub, mail *mailerStub) *NotifierService {
	return NewNotifierService(repo, users, publisher, mail, jobs.QueueConfig{Workers: 1, BufferSize: 4}, nil)
}

func testMessage(recipients ...string) NotificationMessage {
	return NotificationMessage{
		RecipientIDs: recipients,
		Category:     models.CategoryRequestSubmitted,
		Title:        "Leave request awaiting your approval",
		Body:         "User emp-1 submitted a leave request.",
		Settings:     models.DefaultWorkflowSettings(),
	}
}

func TestDeliverFansOutAllChannels(t *testing.T) {
	repo := &notificationRepoStub{}
	users := &usersStub{users: []models.User{
		{ID: "mgr-1", Email: "mgr1@example.com", Role: models.RoleManager},
		{ID: "mgr-2", Email: "mgr2@example.com", Role: models.RoleManager},
	}}
	publisher := &publisherStub{}
	mail := &mailerStub{}
	svc := newNotifier(repo, users, publisher, mail)

	svc.Deliver(context.Background(), testMessage("mgr-1", "mgr-2"))

	require.Len(t, repo.created, 2)
	require.ElementsMatch(t, []string{"mgr-1", "mgr-2"}, publisher.published)
	require.ElementsMatch(t, []string{"mgr1@example.com", "mgr2@example.com"}, mail.sent)
}

func TestDeliverEmailFailureStillPersistsInbox(t *testing.T) {
	repo := &notificationRepoStub{}
	users := &usersStub{users: []models.User{{ID: "mgr-1", Email: "mgr1@example.com", Role: models.RoleManager}}}
	publisher := &publisherStub{}
	mail := &mailerStub{err: errors.New("smtp down")}
	svc := newNotifier(repo, users, publisher, mail)

	svc.Deliver(context.Background(), testMessage("mgr-1"))

	require.Len(t, repo.created, 1)
	require.Equal(t, []string{"mgr-1"}, publisher.published)
	require.Empty(t, mail.sent)
}

func TestDeliverInboxFailureStillPublishesAndMails(t *testing.T) {
	repo := &notificationRepoStub{createErr: errors.New("db down")}
	users := &usersStub{users: []models.User{{ID: "mgr-1", Email: "mgr1@example.com", Role: models.RoleManager}}}
	publisher := &publisherStub{}
	mail := &mailerStub{}
	svc := newNotifier(repo, users, publisher, mail)

	svc.Deliver(context.Background(), testMessage("mgr-1"))

	require.Empty(t, repo.created)
	require.Equal(t, []string{"mgr-1"}, publisher.published)
	require.Equal(t, []string{"mgr1@example.com"}, mail.sent)
}

func TestDeliverRespectsEmailPreferences(t *testing.T) {
	repo := &notificationRepoStub{}
	users := &usersStub{users: []models.User{{ID: "mgr-1", Email: "mgr1@example.com", Role: models.RoleManager}}}
	publisher := &publisherStub{}
	mail := &mailerStub{}
	svc := newNotifier(repo, users, publisher, mail)

	msg := testMessage("mgr-1")
	msg.Settings.EmailPrefs = map[models.UserRole]models.EmailPreference{
		models.RoleManager: {All: false},
	}
	svc.Deliver(context.Background(), msg)

	require.Len(t, repo.created, 1)
	require.Equal(t, []string{"mgr-1"}, publisher.published)
	require.Empty(t, mail.sent)
}

func TestCountUnread(t *testing.T) {
	repo := &notificationRepoStub{}
	users := &usersStub{users: []models.User{{ID: "mgr-1", Email: "mgr1@example.com", Role: models.RoleManager}}}
	svc := newNotifier(repo, users, &publisherStub{}, &mailerStub{})

	svc.Deliver(context.Background(), testMessage("mgr-1"))
	svc.Deliver(context.Background(), testMessage("mgr-1"))

	count, err := svc.CountUnread(context.Background(), "mgr-1")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}
