package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maher-jaber/rh-altra-api/internal/models"
	"github.com/maher-jaber/rh-altra-api/internal/repository"
	appErrors "github.com/maher-jaber/rh-altra-api/pkg/errors"
)

type approvalStoreStub struct {
	cores map[string]*models.RequestCore
}

func newApprovalStoreStub() *approvalStoreStub {
	return &approvalStoreStub{cores: make(map[string]*models.RequestCore)}
}

func (s *approvalStoreStub) put(core *models.RequestCore) {
	s.cores[core.ID] = core
}

func (s *approvalStoreStub) GetCore(ctx context.Context, id string) (*models.RequestCore, error) {
	core, ok := s.cores[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *core
	return &copy, nil
}

func (s *approvalStoreStub) Transition(ctx context.Context, params repository.TransitionParams) error {
	core, ok := s.cores[params.ID]
	if !ok || core.Status != params.FromStatus {
		return sql.ErrNoRows
	}
	core.Status = params.ToStatus
	if params.Manager2Tier {
		core.Manager2Comment = params.ManagerComment
	} else if params.ManagerComment != nil {
		core.ManagerComment = params.ManagerComment
	}
	if params.FinalComment != nil {
		core.FinalComment = params.FinalComment
	}
	core.ManagerDecideBy = params.ManagerDecideBy
	core.FinalDecideBy = params.FinalDecideBy
	core.SignerName = params.SignerName
	core.SignedAt = params.SignedAt
	return nil
}

type auditRepoStub struct {
	entries []*models.AuditEntry
}

func (a *auditRepoStub) Create(ctx context.Context, entry *models.AuditEntry) error {
	a.entries = append(a.entries, entry)
	return nil
}

func (a *auditRepoStub) ListByRequest(ctx context.Context, requestID string) ([]models.AuditEntry, error) {
	result := make([]models.AuditEntry, 0, len(a.entries))
	for i := len(a.entries) - 1; i >= 0; i-- {
		if a.entries[i].RequestID == requestID {
			result = append(result, *a.entries[i])
		}
	}
	return result, nil
}

type dispatcherStub struct {
	messages []NotificationMessage
}

func (d *dispatcherStub) Dispatch(msg NotificationMessage) {
	d.messages = append(d.messages, msg)
}

type snapshotStub struct{}

func (snapshotStub) Snapshot(ctx context.Context) models.WorkflowSettings {
	return models.DefaultWorkflowSettings()
}

type finalizerStub struct {
	calls []string
}

func (f *finalizerStub) Finalize(ctx context.Context, requestID, signerName string, signature []byte) {
	f.calls = append(f.calls, requestID)
}

type approvalFixture struct {
	svc       *ApprovalService
	store     *approvalStoreStub
	audit     *auditRepoStub
	dispatch  *dispatcherStub
	finalizer *finalizerStub
}

func newApprovalFixture(t *testing.T) *approvalFixture {
	t.Helper()
	store := newApprovalStoreStub()
	audit := &auditRepoStub{}
	dispatch := &dispatcherStub{}
	finalizer := &finalizerStub{}

	svc := NewApprovalService(NewAuditTrail(audit, nil), dispatch, snapshotStub{}, nil)
	svc.SetFinalizer(finalizer)
	svc.RegisterKind(KindDescriptor{
		Kind:     models.KindLeave,
		DualTier: true,
		Archival: true,
		DeepLink: "/leaves/",
		Label:    "leave request",
	}, store, nil)
	svc.RegisterKind(KindDescriptor{
		Kind:     models.KindAdvance,
		DeepLink: "/advances/",
		Label:    "salary advance request",
	}, store, nil)

	return &approvalFixture{svc: svc, store: store, audit: audit, dispatch: dispatch, finalizer: finalizer}
}

func claims(userID string, role models.UserRole) *models.JWTClaims {
	return &models.JWTClaims{UserID: userID, Role: role, FullName: "User " + userID}
}

func strptr(s string) *string { return &s }

func seedCore(store *approvalStoreStub, id string, status models.RequestStatus) *models.RequestCore {
	core := &models.RequestCore{
		ID:          id,
		RequesterID: "emp-1",
		ManagerID:   strptr("mgr-1"),
		Manager2ID:  strptr("mgr-2"),
		Status:      status,
	}
	store.put(core)
	return core
}

func TestSubmitMovesDraftAndNotifiesApprovers(t *testing.T) {
	f := newApprovalFixture(t)
	seedCore(f.store, "r1", models.StatusDraft)

	err := f.svc.Submit(context.Background(), models.KindLeave, "r1", claims("emp-1", models.RoleEmployee))
	require.NoError(t, err)
	require.Equal(t, models.StatusSubmitted, f.store.cores["r1"].Status)

	require.Len(t, f.audit.entries, 1)
	require.Equal(t, models.AuditActionSubmit, f.audit.entries[0].Action)

	require.Len(t, f.dispatch.messages, 1)
	require.ElementsMatch(t, []string{"mgr-1", "mgr-2"}, f.dispatch.messages[0].RecipientIDs)
	require.Equal(t, models.CategoryRequestSubmitted, f.dispatch.messages[0].Category)
}

func TestSubmitByNonRequesterFails(t *testing.T) {
	f := newApprovalFixture(t)
	seedCore(f.store, "r1", models.StatusDraft)

	err := f.svc.Submit(context.Background(), models.KindLeave, "r1", claims("mgr-1", models.RoleManager))
	requireCode(t, err, appErrors.ErrInvalidTransition.Code)
	require.Equal(t, models.StatusDraft, f.store.cores["r1"].Status)
	require.Empty(t, f.audit.entries)
	require.Empty(t, f.dispatch.messages)
}

func TestManagerDecideOnDraftFailsWithoutSideEffects(t *testing.T) {
	f := newApprovalFixture(t)
	seedCore(f.store, "r1", models.StatusDraft)

	err := f.svc.ManagerDecide(context.Background(), models.KindLeave, "r1", claims("mgr-1", models.RoleManager), models.DecisionApprove, "")
	requireCode(t, err, appErrors.ErrInvalidTransition.Code)
	require.Equal(t, models.StatusDraft, f.store.cores["r1"].Status)
	require.Empty(t, f.audit.entries)
	require.Empty(t, f.dispatch.messages)
}

func TestManagerDecideEitherApproverSuffices(t *testing.T) {
	f := newApprovalFixture(t)
	seedCore(f.store, "r1", models.StatusSubmitted)

	// The second approver acts first; that satisfies the manager tier.
	err := f.svc.ManagerDecide(context.Background(), models.KindLeave, "r1", claims("mgr-2", models.RoleManager), models.DecisionApprove, "fine by me")
	require.NoError(t, err)
	require.Equal(t, models.StatusManagerApproved, f.store.cores["r1"].Status)
	require.Equal(t, "fine by me", *f.store.cores["r1"].Manager2Comment)

	// The first approver now finds the request already decided.
	err = f.svc.ManagerDecide(context.Background(), models.KindLeave, "r1", claims("mgr-1", models.RoleManager), models.DecisionApprove, "")
	requireCode(t, err, appErrors.ErrInvalidTransition.Code)
}

func TestManagerDecideByStrangerFails(t *testing.T) {
	f := newApprovalFixture(t)
	seedCore(f.store, "r1", models.StatusSubmitted)

	err := f.svc.ManagerDecide(context.Background(), models.KindLeave, "r1", claims("mgr-9", models.RoleManager), models.DecisionApprove, "")
	requireCode(t, err, appErrors.ErrInvalidTransition.Code)
}

func TestManagerDecideAdminOverride(t *testing.T) {
	f := newApprovalFixture(t)
	seedCore(f.store, "r1", models.StatusSubmitted)

	err := f.svc.ManagerDecide(context.Background(), models.KindLeave, "r1", claims("hr-1", models.RoleHR), models.DecisionApprove, "")
	require.NoError(t, err)
	require.Equal(t, models.StatusManagerApproved, f.store.cores["r1"].Status)
}

func TestManagerDecideSingleTierIsTerminal(t *testing.T) {
	f := newApprovalFixture(t)
	seedCore(f.store, "a1", models.StatusSubmitted)

	err := f.svc.ManagerDecide(context.Background(), models.KindAdvance, "a1", claims("mgr-1", models.RoleManager), models.DecisionApprove, "")
	require.NoError(t, err)
	require.Equal(t, models.StatusApproved, f.store.cores["a1"].Status)
	require.Empty(t, f.finalizer.calls)

	require.Len(t, f.dispatch.messages, 1)
	require.Equal(t, []string{"emp-1"}, f.dispatch.messages[0].RecipientIDs)
	require.Equal(t, models.CategoryRequestDecided, f.dispatch.messages[0].Category)
}

func TestManagerReject(t *testing.T) {
	f := newApprovalFixture(t)
	seedCore(f.store, "r1", models.StatusSubmitted)

	err := f.svc.ManagerDecide(context.Background(), models.KindLeave, "r1", claims("mgr-1", models.RoleManager), models.DecisionReject, "not now")
	require.NoError(t, err)
	require.Equal(t, models.StatusRejected, f.store.cores["r1"].Status)
	require.Equal(t, models.AuditActionManagerReject, f.audit.entries[0].Action)
}

func TestFinalDecideApprovesAndFinalizes(t *testing.T) {
	f := newApprovalFixture(t)
	seedCore(f.store, "r1", models.StatusManagerApproved)

	err := f.svc.FinalDecide(context.Background(), models.KindLeave, "r1", claims("hr-1", models.RoleHR), models.DecisionApprove, "", "Jane HR", nil)
	require.NoError(t, err)
	require.Equal(t, models.StatusApproved, f.store.cores["r1"].Status)
	require.Equal(t, "Jane HR", *f.store.cores["r1"].SignerName)
	require.Equal(t, []string{"r1"}, f.finalizer.calls)

	require.Len(t, f.dispatch.messages, 1)
	require.Equal(t, models.CategoryRequestFinalized, f.dispatch.messages[0].Category)
}

func TestFinalDecideRequiresAdministrativeRole(t *testing.T) {
	f := newApprovalFixture(t)
	seedCore(f.store, "r1", models.StatusManagerApproved)

	err := f.svc.FinalDecide(context.Background(), models.KindLeave, "r1", claims("mgr-1", models.RoleManager), models.DecisionApprove, "", "", nil)
	requireCode(t, err, appErrors.ErrInvalidTransition.Code)
	require.Empty(t, f.finalizer.calls)
}

func TestFinalDecideOnSingleTierKindFails(t *testing.T) {
	f := newApprovalFixture(t)
	seedCore(f.store, "a1", models.StatusManagerApproved)

	err := f.svc.FinalDecide(context.Background(), models.KindAdvance, "a1", claims("hr-1", models.RoleHR), models.DecisionApprove, "", "", nil)
	requireCode(t, err, appErrors.ErrInvalidTransition.Code)
}

func TestFinalDecideSecondDecisionFails(t *testing.T) {
	f := newApprovalFixture(t)
	seedCore(f.store, "r1", models.StatusManagerApproved)

	require.NoError(t, f.svc.FinalDecide(context.Background(), models.KindLeave, "r1", claims("hr-1", models.RoleHR), models.DecisionReject, "no budget", "", nil))
	err := f.svc.FinalDecide(context.Background(), models.KindLeave, "r1", claims("adm-1", models.RoleAdmin), models.DecisionApprove, "", "", nil)
	requireCode(t, err, appErrors.ErrInvalidTransition.Code)
	require.Equal(t, models.StatusRejected, f.store.cores["r1"].Status)
	require.Empty(t, f.finalizer.calls)
}

func TestCancelSubmittedNotifiesApprovers(t *testing.T) {
	f := newApprovalFixture(t)
	seedCore(f.store, "r1", models.StatusSubmitted)

	err := f.svc.Cancel(context.Background(), models.KindLeave, "r1", claims("emp-1", models.RoleEmployee))
	require.NoError(t, err)
	require.Equal(t, models.StatusCancelled, f.store.cores["r1"].Status)
	require.Len(t, f.dispatch.messages, 1)
	require.Equal(t, models.CategoryRequestCancelled, f.dispatch.messages[0].Category)
}

func TestCancelDraftIsSilent(t *testing.T) {
	f := newApprovalFixture(t)
	seedCore(f.store, "r1", models.StatusDraft)

	err := f.svc.Cancel(context.Background(), models.KindLeave, "r1", claims("emp-1", models.RoleEmployee))
	require.NoError(t, err)
	require.Equal(t, models.StatusCancelled, f.store.cores["r1"].Status)
	require.Empty(t, f.dispatch.messages)
}

func TestCancelTerminalStateFails(t *testing.T) {
	f := newApprovalFixture(t)
	seedCore(f.store, "r1", models.StatusApproved)

	err := f.svc.Cancel(context.Background(), models.KindLeave, "r1", claims("emp-1", models.RoleEmployee))
	requireCode(t, err, appErrors.ErrInvalidTransition.Code)
	require.Equal(t, models.StatusApproved, f.store.cores["r1"].Status)
}

func TestCancelByOtherUserFails(t *testing.T) {
	f := newApprovalFixture(t)
	seedCore(f.store, "r1", models.StatusSubmitted)

	err := f.svc.Cancel(context.Background(), models.KindLeave, "r1", claims("mgr-1", models.RoleManager))
	requireCode(t, err, appErrors.ErrInvalidTransition.Code)
}

func TestWorkflowAuditTrailOrder(t *testing.T) {
	f := newApprovalFixture(t)
	seedCore(f.store, "r1", models.StatusDraft)
	ctx := context.Background()

	require.NoError(t, f.svc.Submit(ctx, models.KindLeave, "r1", claims("emp-1", models.RoleEmployee)))
	require.NoError(t, f.svc.ManagerDecide(ctx, models.KindLeave, "r1", claims("mgr-1", models.RoleManager), models.DecisionApprove, ""))
	require.NoError(t, f.svc.FinalDecide(ctx, models.KindLeave, "r1", claims("hr-1", models.RoleHR), models.DecisionApprove, "", "Jane HR", nil))

	trail := NewAuditTrail(f.audit, nil)
	entries, err := trail.List(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, entries, 4)
	// Newest first: SIGN_HR, FINAL_APPROVE, MANAGER_APPROVE, SUBMIT.
	require.Equal(t, models.AuditActionSign, entries[0].Action)
	require.Equal(t, models.AuditActionFinalApprove, entries[1].Action)
	require.Equal(t, models.AuditActionManagerApprove, entries[2].Action)
	require.Equal(t, models.AuditActionSubmit, entries[3].Action)
}
