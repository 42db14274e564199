package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/maher-jaber/rh-altra-api/internal/models"
	appErrors "github.com/maher-jaber/rh-altra-api/pkg/errors"
	"github.com/maher-jaber/rh-altra-api/pkg/jobs"
)

type notificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) error
	CountUnread(ctx context.Context, recipientID string) (int, error)
}

type recipientReader interface {
	GetByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

type realtimePublisher interface {
	Publish(ctx context.Context, recipientID string, event any) error
}

type emailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NotificationMessage is the unit of asynchronous dispatch. It carries the
// settings snapshot captured when the triggering transition committed, so
// preference resolution is consistent with the decision that produced it.
type NotificationMessage struct {
	RecipientIDs []string
	Category     models.NotificationCategory
	Title        string
	Body         string
	DeepLink     *string
	Payload      map[string]interface{}
	Settings     models.WorkflowSettings
}

// NotifierService fans a workflow event out to the in-app inbox, the
// real-time topic and email. Every channel is best-effort and independent per
// recipient: a failure is logged and absorbed, never raised to the caller,
// because the triggering business transition has already committed.
type NotifierService struct {
	repo      notificationStore
	users     recipientReader
	publisher realtimePublisher
	mailer    emailSender
	queue     *jobs.Queue
	logger    *zap.Logger
}

// NewNotifierService constructs the dispatcher and its worker queue.
func NewNotifierService(repo notificationStore, users recipientReader, publisher realtimePublisher, mailer emailSender, queueCfg jobs.QueueConfig, logger *zap.Logger) *NotifierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &NotifierService{
		repo:      repo,
		users:     users,
		publisher: publisher,
		mailer:    mailer,
		logger:    logger,
	}
	queueCfg.Logger = logger
	svc.queue = jobs.NewQueue("notifications", svc.handleJob, queueCfg)
	return svc
}

// Start begins background dispatch workers.
func (s *NotifierService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *NotifierService) Stop() {
	s.queue.Stop()
}

// Dispatch enqueues a message for asynchronous delivery. Queue errors are
// logged and dropped: losing a notification never invalidates the workflow.
func (s *NotifierService) Dispatch(msg NotificationMessage) {
	if len(msg.RecipientIDs) == 0 {
		return
	}
	job := jobs.Job{Type: string(msg.Category), Payload: msg}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue notification", zap.String("category", string(msg.Category)), zap.Error(err))
	}
}

func (s *NotifierService) handleJob(ctx context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(NotificationMessage)
	if !ok {
		s.logger.Error("unexpected notification payload", zap.String("job_id", job.ID))
		return nil
	}
	s.Deliver(ctx, msg)
	// Failures are absorbed per channel; returning nil avoids a retry that
	// would duplicate the channels that did succeed.
	return nil
}

// Deliver performs the fan-out for one message. Exported so the dispatch path
// can be exercised synchronously in tests.
func (s *NotifierService) Deliver(ctx context.Context, msg NotificationMessage) {
	recipients, err := s.users.GetByIDs(ctx, msg.RecipientIDs)
	if err != nil {
		s.logger.Warn("failed to resolve notification recipients", zap.Error(err))
		return
	}

	var payload []byte
	if len(msg.Payload) > 0 {
		payload, err = json.Marshal(msg.Payload)
		if err != nil {
			s.logger.Warn("failed to encode notification payload", zap.Error(err))
			payload = nil
		}
	}

	for _, recipient := range recipients {
		s.deliverTo(ctx, recipient, msg, payload)
	}
}

func (s *NotifierService) deliverTo(ctx context.Context, recipient models.User, msg NotificationMessage, payload []byte) {
	notification := &models.Notification{
		RecipientID: recipient.ID,
		Category:    msg.Category,
		Title:       msg.Title,
		Body:        msg.Body,
		DeepLink:    msg.DeepLink,
		Payload:     payload,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.Warn("failed to persist notification",
			zap.String("recipient_id", recipient.ID),
			zap.String("category", string(msg.Category)),
			zap.Error(err))
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, recipient.ID, notification); err != nil {
			s.logger.Warn("failed to publish realtime notification",
				zap.String("recipient_id", recipient.ID),
				zap.Error(err))
		}
	}

	if s.mailer != nil && msg.Settings.EmailAllowed(recipient.Role, msg.Category) {
		body := fmt.Sprintf("%s\n\n%s", msg.Title, msg.Body)
		if err := s.mailer.Send(ctx, recipient.Email, msg.Title, body); err != nil {
			s.logger.Warn("failed to send notification email",
				zap.String("recipient_id", recipient.ID),
				zap.Error(err))
		}
	}
}

// List returns the recipient's inbox.
func (s *NotifierService) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error) {
	notifications, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return notifications, nil
}

// MarkRead flags one notification read for its recipient.
func (s *NotifierService) MarkRead(ctx context.Context, id, recipientID string) error {
	if err := s.repo.MarkRead(ctx, id, recipientID); err != nil {
		return appErrors.Clone(appErrors.ErrNotFound, "notification not found")
	}
	return nil
}

// CountUnread returns the unread badge count.
func (s *NotifierService) CountUnread(ctx context.Context, recipientID string) (int, error) {
	count, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count notifications")
	}
	return count, nil
}
