package wizard

import (
	"context"
	"errors"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduforge-api/internal/application/navigation"
	"eduforge-api/internal/domain/entity"
	"eduforge-api/internal/infrastructure/persistence/memory"
	apperrors "eduforge-api/pkg/errors"
	"eduforge-api/pkg/metrics"
)

func activeSessions(t *testing.T) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metrics.WizardActiveSessions.Write(&m))
	return m.GetGauge().GetValue()
}

type serviceFixture struct {
	svc       *Service
	store     *memory.Store
	publisher *memory.Publisher
}

func newServiceFixture() *serviceFixture {
	store := memory.NewStore()
	pub := &memory.Publisher{}
	svc := NewService(store, store.WizardSessions(), store.Projects(), pub, NewNavigator(entity.WizardSteps()))
	return &serviceFixture{svc: svc, store: store, publisher: pub}
}

func (f *serviceFixture) advanceTo(t *testing.T, id string, index int) {
	t.Helper()
	for i := 0; i < index; i++ {
		_, err := f.svc.Advance(context.Background(), "t1", id, nil)
		require.NoError(t, err)
	}
}

func TestService_StartNewSession(t *testing.T) {
	f := newServiceFixture()

	s, err := f.svc.Start(context.Background(), StartInput{TenantID: "t1", UserID: "u1"})

	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, 0, s.CurrentStepIndex)
	assert.False(t, s.IsEditing)
	assert.True(t, s.IsActive())
}

func TestService_StartEditSessionPrefillsAndResumes(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	project := entity.NewProjectFromWizard("t1", "u1", entity.WizardFormData{entity.FieldTitle: "Algebra"})
	require.NoError(t, f.store.Projects().Create(ctx, project))

	s, err := f.svc.Start(ctx, StartInput{
		TenantID:   "t1",
		UserID:     "u1",
		ProjectID:  project.ID,
		ResumeStep: entity.StepLearningObjectives,
	})

	require.NoError(t, err)
	assert.True(t, s.IsEditing)
	assert.Equal(t, project.ID, s.EditProjectID())
	assert.Equal(t, 2, s.CurrentStepIndex)
	assert.Equal(t, "Algebra", s.FormData.String(entity.FieldTitle))
}

func TestService_StartEditUnknownProject(t *testing.T) {
	f := newServiceFixture()

	_, err := f.svc.Start(context.Background(), StartInput{TenantID: "t1", ProjectID: "missing"})

	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
}

func TestService_StartEditOtherTenantProject(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	project := entity.NewProjectFromWizard("t2", "u9", nil)
	require.NoError(t, f.store.Projects().Create(ctx, project))

	_, err := f.svc.Start(ctx, StartInput{TenantID: "t1", ProjectID: project.ID})

	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
}

func TestService_AdvancePersistsMergedData(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	s, err := f.svc.Start(ctx, StartInput{TenantID: "t1", UserID: "u1"})
	require.NoError(t, err)

	res, err := f.svc.Advance(ctx, "t1", s.ID, entity.WizardFormData{entity.FieldTitle: "Fractions"})
	require.NoError(t, err)
	assert.True(t, res.Transition.Moved())

	_, err = f.svc.Advance(ctx, "t1", s.ID, entity.WizardFormData{entity.FieldEducationalContext: "grade 5"})
	require.NoError(t, err)

	stored, err := f.svc.Get(ctx, "t1", s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.CurrentStepIndex)
	assert.Equal(t, "Fractions", stored.FormData.String(entity.FieldTitle))
	assert.Equal(t, "grade 5", stored.FormData.String(entity.FieldEducationalContext))
	assert.Len(t, stored.VisitedSteps, 2)
}

func TestService_GetScopedByTenant(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	s, err := f.svc.Start(ctx, StartInput{TenantID: "t1"})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, "t2", s.ID)
	assert.ErrorIs(t, err, apperrors.ErrWizardSessionNotFound)

	_, err = f.svc.Advance(ctx, "t2", s.ID, nil)
	assert.ErrorIs(t, err, apperrors.ErrWizardSessionNotFound)
}

func TestService_RetreatEditingAtFirstStepExits(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	project := entity.NewProjectFromWizard("t1", "u1", nil)
	require.NoError(t, f.store.Projects().Create(ctx, project))
	s, err := f.svc.Start(ctx, StartInput{TenantID: "t1", ProjectID: project.ID})
	require.NoError(t, err)

	rec := navigation.NewRecorder()
	res, err := f.svc.Retreat(ctx, "t1", s.ID, "", rec)

	require.NoError(t, err)
	assert.True(t, res.Transition.Exited())
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, "/projects/"+project.ID, last)
	assert.Equal(t, 0, res.Session.CurrentStepIndex)
}

func TestService_RetreatExplicitProjectOverridesSession(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	project := entity.NewProjectFromWizard("t1", "u1", nil)
	require.NoError(t, f.store.Projects().Create(ctx, project))
	s, err := f.svc.Start(ctx, StartInput{TenantID: "t1", ProjectID: project.ID})
	require.NoError(t, err)

	res, err := f.svc.Retreat(ctx, "t1", s.ID, "p1", nil)

	require.NoError(t, err)
	assert.Equal(t, "/projects/p1", res.Transition.Route)
}

func TestService_RetreatNewSessionAtFirstStepIsNoop(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	s, err := f.svc.Start(ctx, StartInput{TenantID: "t1"})
	require.NoError(t, err)

	rec := navigation.NewRecorder()
	res, err := f.svc.Retreat(ctx, "t1", s.ID, "", rec)

	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, res.Transition.Outcome)
	assert.Empty(t, rec.Paths())
}

func TestService_CompleteRequiresLastStep(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	s, err := f.svc.Start(ctx, StartInput{TenantID: "t1"})
	require.NoError(t, err)
	f.advanceTo(t, s.ID, 5)

	_, err = f.svc.Complete(ctx, "t1", s.ID, nil)

	assert.ErrorIs(t, err, apperrors.ErrWizardIncomplete)
	stored, err := f.svc.Get(ctx, "t1", s.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsActive())
}

func TestService_CompleteCreatesProject(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	s, err := f.svc.Start(ctx, StartInput{TenantID: "t1", UserID: "u1"})
	require.NoError(t, err)
	_, err = f.svc.Advance(ctx, "t1", s.ID, entity.WizardFormData{
		entity.FieldTitle:       "Photosynthesis",
		entity.FieldProjectType: "course",
	})
	require.NoError(t, err)
	f.advanceTo(t, s.ID, 5)

	res, err := f.svc.Complete(ctx, "t1", s.ID, entity.WizardFormData{"reviewed": true})

	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "Photosynthesis", res.Project.Title)
	assert.Equal(t, entity.ProjectTypeCourse, res.Project.ProjectType)
	assert.Equal(t, entity.StageProjectConfig, res.Project.PipelineStatus)
	assert.Equal(t, true, res.Project.Configuration["reviewed"])
	assert.Equal(t, "/projects/"+res.Project.ID+"/project_config", res.Route)
	assert.Equal(t, entity.WizardSessionStatusCompleted, res.Session.Status)

	stored, err := f.store.Projects().GetByID(ctx, res.Project.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "u1", stored.OwnerID)

	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, entity.EventProjectConfigured, events[0].Type)
	assert.Equal(t, res.Project.ID, events[0].ProjectID)
}

func TestService_CompleteEditUpdatesExistingProject(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	project := entity.NewProjectFromWizard("t1", "u1", entity.WizardFormData{entity.FieldTitle: "Old"})
	project.SetPipelineProgress(entity.StageQualityReview, 55)
	require.NoError(t, f.store.Projects().Create(ctx, project))

	s, err := f.svc.Start(ctx, StartInput{TenantID: "t1", ProjectID: project.ID, ResumeStep: entity.StepFinalReview})
	require.NoError(t, err)

	res, err := f.svc.Complete(ctx, "t1", s.ID, entity.WizardFormData{entity.FieldTitle: "New"})

	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, project.ID, res.Project.ID)
	assert.Equal(t, "New", res.Project.Title)
	assert.Equal(t, entity.StageQualityReview, res.Project.PipelineStatus, "editing keeps the pipeline position")
	assert.Equal(t, "/projects/"+project.ID+"/quality_review", res.Route)
}

func TestService_ClosedSessionRejectsTransitions(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	s, err := f.svc.Start(ctx, StartInput{TenantID: "t1"})
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, "t1", s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WizardSessionStatusCancelled, cancelled.Status)

	_, err = f.svc.Advance(ctx, "t1", s.ID, nil)
	assert.ErrorIs(t, err, apperrors.ErrWizardSessionClosed)
	_, err = f.svc.Complete(ctx, "t1", s.ID, nil)
	assert.ErrorIs(t, err, apperrors.ErrWizardSessionClosed)
	_, err = f.svc.Cancel(ctx, "t1", s.ID)
	assert.ErrorIs(t, err, apperrors.ErrWizardSessionClosed)
}

func TestService_PublishFailureDoesNotFailCompletion(t *testing.T) {
	f := newServiceFixture()
	f.publisher.Err = errors.New("stream down")
	ctx := context.Background()
	s, err := f.svc.Start(ctx, StartInput{TenantID: "t1"})
	require.NoError(t, err)
	f.advanceTo(t, s.ID, 6)

	res, err := f.svc.Complete(ctx, "t1", s.ID, nil)

	require.NoError(t, err)
	assert.NotEmpty(t, res.Project.ID)
}

func TestService_NilPublisher(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, store.WizardSessions(), store.Projects(), nil, NewNavigator(entity.WizardSteps()))
	ctx := context.Background()
	s, err := svc.Start(ctx, StartInput{TenantID: "t1"})
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		_, err = svc.Advance(ctx, "t1", s.ID, nil)
		require.NoError(t, err)
	}

	_, err = svc.Complete(ctx, "t1", s.ID, nil)
	assert.NoError(t, err)
}

func TestService_ActiveSessionsGaugeTracksThisProcess(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	base := activeSessions(t)

	a, err := f.svc.Start(ctx, StartInput{TenantID: "t1"})
	require.NoError(t, err)
	b, err := f.svc.Start(ctx, StartInput{TenantID: "t1"})
	require.NoError(t, err)
	assert.Equal(t, base+2, activeSessions(t))

	_, err = f.svc.Cancel(ctx, "t1", a.ID)
	require.NoError(t, err)
	f.advanceTo(t, b.ID, 6)
	_, err = f.svc.Complete(ctx, "t1", b.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, base, activeSessions(t))

	// 已关闭的会话不会再次递减
	_, err = f.svc.Cancel(ctx, "t1", a.ID)
	assert.ErrorIs(t, err, apperrors.ErrWizardSessionClosed)
	assert.Equal(t, base, activeSessions(t))
}
