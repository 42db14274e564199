package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/maher-jaber/rh-altra-api/internal/models"
	"github.com/maher-jaber/rh-altra-api/internal/repository"
	appErrors "github.com/maher-jaber/rh-altra-api/pkg/errors"
)

// approvalStore is the narrow persistence surface the state machine needs.
// Transition must be guarded by the expected source status and report
// sql.ErrNoRows when a concurrent actor already moved the row.
type approvalStore interface {
	GetCore(ctx context.Context, id string) (*models.RequestCore, error)
	Transition(ctx context.Context, params repository.TransitionParams) error
}

type notificationDispatcher interface {
	Dispatch(msg NotificationMessage)
}

type settingsSnapshotter interface {
	Snapshot(ctx context.Context) models.WorkflowSettings
}

type archiveFinalizer interface {
	Finalize(ctx context.Context, requestID, signerName string, signature []byte)
}

// KindDescriptor parameterizes the shared workflow for one request kind.
// SubmitCheck runs extra submission preconditions (the leave certificate
// rule); nil means no extra check.
type KindDescriptor struct {
	Kind     models.RequestKind
	DualTier bool
	Archival bool
	DeepLink string
	Label    string
}

type kindBinding struct {
	descriptor  KindDescriptor
	store       approvalStore
	submitCheck func(ctx context.Context, id string) error
}

// ApprovalService is the workflow engine shared by leave requests, advances
// and exit permissions.
//
// Manager-tier decisions follow either-approver semantics: a request with two
// assigned approvers is satisfied by whichever of them acts first. It is NOT
// an AND-gate; the second approver's later attempt fails with
// INVALID_TRANSITION because the guarded status update no longer matches.
type ApprovalService struct {
	kinds     map[models.RequestKind]kindBinding
	audit     *AuditTrail
	notifier  notificationDispatcher
	settings  settingsSnapshotter
	finalizer archiveFinalizer
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewApprovalService constructs the engine. Kinds are registered afterwards.
func NewApprovalService(audit *AuditTrail, notifier notificationDispatcher, settings settingsSnapshotter, logger *zap.Logger) *ApprovalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApprovalService{
		kinds:    make(map[models.RequestKind]kindBinding),
		audit:    audit,
		notifier: notifier,
		settings: settings,
		logger:   logger,
	}
}

// RegisterKind binds a descriptor to its persistence store.
func (s *ApprovalService) RegisterKind(descriptor KindDescriptor, store approvalStore, submitCheck func(ctx context.Context, id string) error) {
	s.kinds[descriptor.Kind] = kindBinding{descriptor: descriptor, store: store, submitCheck: submitCheck}
}

// SetFinalizer attaches the archival hook invoked on final leave approval.
func (s *ApprovalService) SetFinalizer(finalizer archiveFinalizer) {
	s.finalizer = finalizer
}

// SetMetrics attaches transition instrumentation.
func (s *ApprovalService) SetMetrics(metrics *MetricsService) {
	s.metrics = metrics
}

func (s *ApprovalService) observe(kind models.RequestKind, to models.RequestStatus) {
	s.metrics.ObserveTransition(string(kind), string(to))
}

func (s *ApprovalService) binding(kind models.RequestKind) (kindBinding, error) {
	binding, ok := s.kinds[kind]
	if !ok {
		return kindBinding{}, appErrors.Clone(appErrors.ErrInternal, fmt.Sprintf("unregistered request kind: %s", kind))
	}
	return binding, nil
}

func (s *ApprovalService) loadCore(ctx context.Context, binding kindBinding, id string) (*models.RequestCore, error) {
	core, err := binding.store.GetCore(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load request")
	}
	return core, nil
}

func mapTransitionErr(err error, table string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.ErrInvalidTransition
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update "+table)
}

// Submit moves a draft to SUBMITTED. Only the requester may submit, and the
// kind's extra submission check (leave certificate) runs first.
func (s *ApprovalService) Submit(ctx context.Context, kind models.RequestKind, id string, actor *models.JWTClaims) error {
	binding, err := s.binding(kind)
	if err != nil {
		return err
	}
	core, err := s.loadCore(ctx, binding, id)
	if err != nil {
		return err
	}
	if core.Status != models.StatusDraft || core.RequesterID != actor.UserID {
		return appErrors.ErrInvalidTransition
	}
	if binding.submitCheck != nil {
		if err := binding.submitCheck(ctx, id); err != nil {
			return err
		}
	}

	if err := binding.store.Transition(ctx, repository.TransitionParams{
		ID:         id,
		FromStatus: models.StatusDraft,
		ToStatus:   models.StatusSubmitted,
	}); err != nil {
		return mapTransitionErr(err, string(kind))
	}

	s.observe(kind, models.StatusSubmitted)
	s.audit.Record(ctx, id, kind, models.AuditActionSubmit, actor.UserID, nil)
	s.notifyApprovers(ctx, binding.descriptor, core, models.CategoryRequestSubmitted,
		fmt.Sprintf("%s awaiting your approval", binding.descriptor.Label),
		fmt.Sprintf("%s submitted a %s.", actor.FullName, binding.descriptor.Label))
	return nil
}

// ManagerDecide records the manager-tier verdict. The actor must occupy one of
// the approver slots or hold an administrative role. For single-tier kinds an
// approval is terminal; for dual-tier kinds it moves to MANAGER_APPROVED.
func (s *ApprovalService) ManagerDecide(ctx context.Context, kind models.RequestKind, id string, actor *models.JWTClaims, decision models.Decision, comment string) error {
	binding, err := s.binding(kind)
	if err != nil {
		return err
	}
	core, err := s.loadCore(ctx, binding, id)
	if err != nil {
		return err
	}
	if core.Status != models.StatusSubmitted {
		return appErrors.ErrInvalidTransition
	}
	if !core.IsApprover(actor.UserID) && !actor.Role.IsAdministrative() {
		return appErrors.ErrInvalidTransition
	}

	target := models.StatusRejected
	action := models.AuditActionManagerReject
	if decision == models.DecisionApprove {
		action = models.AuditActionManagerApprove
		if binding.descriptor.DualTier {
			target = models.StatusManagerApproved
		} else {
			target = models.StatusApproved
		}
	}

	now := time.Now().UTC()
	params := repository.TransitionParams{
		ID:              id,
		FromStatus:      models.StatusSubmitted,
		ToStatus:        target,
		ManagerDecideBy: &actor.UserID,
		ManagerDecideAt: &now,
		Manager2Tier:    core.Manager2ID != nil && *core.Manager2ID == actor.UserID,
	}
	if comment != "" {
		params.ManagerComment = &comment
	}
	if err := binding.store.Transition(ctx, params); err != nil {
		return mapTransitionErr(err, string(kind))
	}

	s.observe(kind, target)
	s.audit.Record(ctx, id, kind, action, actor.UserID, params.ManagerComment)
	s.notifyRequester(ctx, binding.descriptor, core, models.CategoryRequestDecided,
		fmt.Sprintf("%s %s", binding.descriptor.Label, decisionVerb(decision, target)),
		decisionBody(binding.descriptor.Label, actor.FullName, decision, comment))
	return nil
}

// FinalDecide records the administrative sign-off on dual-tier kinds. On
// approval the archival finalizer runs after the transition has committed;
// its failure never reverts the approval.
func (s *ApprovalService) FinalDecide(ctx context.Context, kind models.RequestKind, id string, actor *models.JWTClaims, decision models.Decision, comment, signerName string, signature []byte) error {
	binding, err := s.binding(kind)
	if err != nil {
		return err
	}
	if !binding.descriptor.DualTier {
		return appErrors.ErrInvalidTransition
	}
	core, err := s.loadCore(ctx, binding, id)
	if err != nil {
		return err
	}
	if core.Status != models.StatusManagerApproved || !actor.Role.IsAdministrative() {
		return appErrors.ErrInvalidTransition
	}

	target := models.StatusRejected
	action := models.AuditActionFinalReject
	if decision == models.DecisionApprove {
		target = models.StatusApproved
		action = models.AuditActionFinalApprove
	}

	now := time.Now().UTC()
	params := repository.TransitionParams{
		ID:            id,
		FromStatus:    models.StatusManagerApproved,
		ToStatus:      target,
		FinalDecideBy: &actor.UserID,
		FinalDecideAt: &now,
	}
	if comment != "" {
		params.FinalComment = &comment
	}
	if decision == models.DecisionApprove {
		if signerName == "" {
			signerName = actor.FullName
		}
		params.SignerName = &signerName
		params.SignedAt = &now
	}
	if err := binding.store.Transition(ctx, params); err != nil {
		return mapTransitionErr(err, string(kind))
	}

	s.observe(kind, target)
	s.audit.Record(ctx, id, kind, action, actor.UserID, params.FinalComment)
	if decision == models.DecisionApprove && binding.descriptor.Archival && s.finalizer != nil {
		s.audit.Record(ctx, id, kind, models.AuditActionSign, actor.UserID, nil)
		s.finalizer.Finalize(ctx, id, signerName, signature)
	}
	s.notifyRequester(ctx, binding.descriptor, core, models.CategoryRequestFinalized,
		fmt.Sprintf("%s %s", binding.descriptor.Label, decisionVerb(decision, target)),
		decisionBody(binding.descriptor.Label, actor.FullName, decision, comment))
	return nil
}

// Cancel withdraws a draft or submitted request. Requester only.
func (s *ApprovalService) Cancel(ctx context.Context, kind models.RequestKind, id string, actor *models.JWTClaims) error {
	binding, err := s.binding(kind)
	if err != nil {
		return err
	}
	core, err := s.loadCore(ctx, binding, id)
	if err != nil {
		return err
	}
	if core.RequesterID != actor.UserID {
		return appErrors.ErrInvalidTransition
	}
	if core.Status != models.StatusDraft && core.Status != models.StatusSubmitted {
		return appErrors.ErrInvalidTransition
	}
	wasSubmitted := core.Status == models.StatusSubmitted

	if err := binding.store.Transition(ctx, repository.TransitionParams{
		ID:         id,
		FromStatus: core.Status,
		ToStatus:   models.StatusCancelled,
	}); err != nil {
		return mapTransitionErr(err, string(kind))
	}

	s.observe(kind, models.StatusCancelled)
	s.audit.Record(ctx, id, kind, models.AuditActionCancel, actor.UserID, nil)
	if wasSubmitted {
		s.notifyApprovers(ctx, binding.descriptor, core, models.CategoryRequestCancelled,
			fmt.Sprintf("%s cancelled", binding.descriptor.Label),
			fmt.Sprintf("%s withdrew their %s.", actor.FullName, binding.descriptor.Label))
	}
	return nil
}

func (s *ApprovalService) notifyApprovers(ctx context.Context, descriptor KindDescriptor, core *models.RequestCore, category models.NotificationCategory, title, body string) {
	recipients := make([]string, 0, 2)
	if core.ManagerID != nil {
		recipients = append(recipients, *core.ManagerID)
	}
	if core.Manager2ID != nil {
		recipients = append(recipients, *core.Manager2ID)
	}
	s.dispatch(ctx, descriptor, core, recipients, category, title, body)
}

func (s *ApprovalService) notifyRequester(ctx context.Context, descriptor KindDescriptor, core *models.RequestCore, category models.NotificationCategory, title, body string) {
	s.dispatch(ctx, descriptor, core, []string{core.RequesterID}, category, title, body)
}

func (s *ApprovalService) dispatch(ctx context.Context, descriptor KindDescriptor, core *models.RequestCore, recipients []string, category models.NotificationCategory, title, body string) {
	if s.notifier == nil || len(recipients) == 0 {
		return
	}
	deepLink := descriptor.DeepLink + core.ID
	s.notifier.Dispatch(NotificationMessage{
		RecipientIDs: recipients,
		Category:     category,
		Title:        title,
		Body:         body,
		DeepLink:     &deepLink,
		Payload: map[string]interface{}{
			"request_id":   core.ID,
			"request_kind": descriptor.Kind,
		},
		Settings: s.settings.Snapshot(ctx),
	})
}

func decisionVerb(decision models.Decision, target models.RequestStatus) string {
	if decision == models.DecisionApprove {
		if target == models.StatusManagerApproved {
			return "approved by your manager"
		}
		return "approved"
	}
	return "rejected"
}

func decisionBody(label, actorName string, decision models.Decision, comment string) string {
	verb := "approved"
	if decision == models.DecisionReject {
		verb = "rejected"
	}
	body := fmt.Sprintf("%s %s your %s.", actorName, verb, label)
	if comment != "" {
		body += " Comment: " + comment
	}
	return body
}
