package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduforge-api/internal/application/navigation"
	"eduforge-api/internal/domain/entity"
)

func newSession(index int, editing bool) *entity.WizardSession {
	s := entity.NewWizardSession("t1", "u1")
	s.CurrentStepIndex = index
	s.IsEditing = editing
	return s
}

func TestAdvance_IncrementsBelowLastStep(t *testing.T) {
	nav := NewNavigator(entity.WizardSteps())
	n := nav.TotalSteps()

	for i := 0; i < n-1; i++ {
		s := newSession(i, false)
		tr := nav.Advance(s, nil)
		assert.Equal(t, i+1, s.CurrentStepIndex)
		assert.True(t, tr.Moved())
	}
}

func TestAdvance_SaturatesAtLastStep(t *testing.T) {
	nav := NewNavigator(entity.WizardSteps())
	s := newSession(nav.TotalSteps()-1, false)

	tr := nav.Advance(s, entity.WizardFormData{"reviewed": true})

	assert.Equal(t, nav.TotalSteps()-1, s.CurrentStepIndex)
	assert.Equal(t, OutcomeSaturated, tr.Outcome)
	assert.Equal(t, true, s.FormData["reviewed"], "data is merged even when saturated")
}

func TestAdvance_MergesPartialData(t *testing.T) {
	nav := NewNavigator(entity.WizardSteps())
	s := newSession(0, false)
	s.FormData = entity.WizardFormData{"a": 1, "b": 2}

	nav.Advance(s, entity.WizardFormData{"b": 3})

	assert.Equal(t, entity.WizardFormData{"a": 1, "b": 3}, s.FormData)
	assert.Equal(t, []string{string(entity.StepProjectType)}, []string(s.VisitedSteps))
}

func TestRetreat_DecrementsAboveFirstStep(t *testing.T) {
	nav := NewNavigator(entity.WizardSteps())

	for i := 1; i < nav.TotalSteps(); i++ {
		s := newSession(i, true)
		rec := navigation.NewRecorder()
		tr := nav.Retreat(s, "p1", rec)
		assert.Equal(t, i-1, s.CurrentStepIndex)
		assert.True(t, tr.Moved())
		assert.Empty(t, rec.Paths(), "no navigation while stepping back")
	}
}

func TestRetreat_FirstStepNotEditingIsNoop(t *testing.T) {
	nav := NewNavigator(entity.WizardSteps())
	s := newSession(0, false)
	rec := navigation.NewRecorder()

	tr := nav.Retreat(s, "p1", rec)

	assert.Equal(t, 0, s.CurrentStepIndex)
	assert.Equal(t, OutcomeNoop, tr.Outcome)
	assert.Empty(t, rec.Paths())
}

func TestRetreat_FirstStepEditingWithoutProjectIsNoop(t *testing.T) {
	nav := NewNavigator(entity.WizardSteps())
	s := newSession(0, true)
	rec := navigation.NewRecorder()

	tr := nav.Retreat(s, "", rec)

	assert.Equal(t, OutcomeNoop, tr.Outcome)
	assert.Empty(t, rec.Paths())
}

func TestRetreat_FirstStepEditingExitsToProject(t *testing.T) {
	nav := NewNavigator(entity.WizardSteps())
	s := newSession(0, true)
	rec := navigation.NewRecorder()

	tr := nav.Retreat(s, "p1", rec)

	assert.Equal(t, 0, s.CurrentStepIndex)
	assert.True(t, tr.Exited())
	assert.Equal(t, "/projects/p1", tr.Route)
	assert.Equal(t, []string{"/projects/p1"}, rec.Paths())
}

func TestRetreat_NilSinkStillReportsRoute(t *testing.T) {
	nav := NewNavigator(entity.WizardSteps())
	s := newSession(0, true)

	tr := nav.Retreat(s, "p1", nil)

	assert.Equal(t, "/projects/p1", tr.Route)
}

func TestSevenAdvancesReachLastStepAndStay(t *testing.T) {
	nav := NewNavigator(entity.WizardSteps())
	require.Equal(t, 7, nav.TotalSteps())
	s := newSession(0, false)

	for i := 0; i < 7; i++ {
		nav.Advance(s, nil)
	}
	assert.Equal(t, 6, s.CurrentStepIndex)
	assert.True(t, nav.IsLastStep(s))

	nav.Advance(s, nil)
	assert.Equal(t, 6, s.CurrentStepIndex)
	assert.Len(t, s.VisitedSteps, 7)
}

func TestDerivedProperties(t *testing.T) {
	nav := NewNavigator(entity.WizardSteps())
	s := newSession(0, false)

	id, ok := nav.CurrentStepID(s)
	require.True(t, ok)
	assert.Equal(t, entity.StepProjectType, id)
	assert.True(t, nav.IsFirstStep(s))
	assert.False(t, nav.IsLastStep(s))
	assert.Equal(t, 14, nav.ProgressPercent(s))

	s.CurrentStepIndex = 6
	assert.Equal(t, 100, nav.ProgressPercent(s))
	step, ok := nav.CurrentStep(s)
	require.True(t, ok)
	assert.Equal(t, "Final Review", step.Title)
}

func TestEmptyCatalog(t *testing.T) {
	nav := NewNavigator(nil)
	s := newSession(0, false)

	_, ok := nav.CurrentStepID(s)
	assert.False(t, ok)
	assert.Equal(t, 0, nav.TotalSteps())
	assert.Equal(t, 0, nav.ProgressPercent(s))

	tr := nav.Advance(s, entity.WizardFormData{"a": 1})
	assert.Equal(t, 0, s.CurrentStepIndex)
	assert.Equal(t, OutcomeSaturated, tr.Outcome)
}

func TestResumeIndex(t *testing.T) {
	nav := NewNavigator(entity.WizardSteps())

	assert.Equal(t, 0, nav.ResumeIndex(""))
	assert.Equal(t, 4, nav.ResumeIndex(entity.StepCulturalAccessibility))
	assert.Equal(t, 0, nav.ResumeIndex("unknown-step"))
}
