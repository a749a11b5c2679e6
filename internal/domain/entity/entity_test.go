package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineStages_PositionsStrictlyIncreasingAndUnique(t *testing.T) {
	stages := PipelineStages()
	require.Len(t, stages, 6)

	seen := map[StageID]bool{}
	for i, s := range stages {
		assert.Equal(t, i, s.Position)
		assert.False(t, seen[s.ID], "duplicate stage id %s", s.ID)
		seen[s.ID] = true
	}
	assert.Equal(t, StageProjectConfig, FirstStage().ID)
}

func TestPipelineStages_ReturnsCopy(t *testing.T) {
	stages := PipelineStages()
	stages[0].Title = "mutated"

	assert.Equal(t, "Project Configuration", PipelineStages()[0].Title)
}

func TestLookupStage(t *testing.T) {
	s, ok := LookupStage(StageQualityReview)
	require.True(t, ok)
	assert.Equal(t, 3, s.Position)

	_, ok = LookupStage("bogus_stage")
	assert.False(t, ok)
	assert.False(t, IsKnownStage("bogus_stage"))
}

func TestWizardSteps_Order(t *testing.T) {
	want := []StepID{
		"project-type", "educational-context", "learning-objectives", "pedagogical-approach",
		"cultural-accessibility", "content-structure", "final-review",
	}
	steps := WizardSteps()
	require.Len(t, steps, len(want))
	for i, id := range want {
		assert.Equal(t, id, steps[i].ID)
		assert.Equal(t, i, StepIndex(steps, id))
	}
	assert.Equal(t, -1, StepIndex(steps, "nope"))
}

func TestWizardFormData_MergePreservesExistingFields(t *testing.T) {
	base := WizardFormData{"a": 1, "b": 2}

	merged := base.Merge(WizardFormData{"b": 3})

	assert.Equal(t, WizardFormData{"a": 1, "b": 3}, merged)
	assert.Equal(t, WizardFormData{"a": 1, "b": 2}, base, "receiver must not be mutated")
}

func TestWizardFormData_MergeNilAndUnknownFields(t *testing.T) {
	var empty WizardFormData

	merged := empty.Merge(WizardFormData{"custom_field": "kept"})
	assert.Equal(t, "kept", merged["custom_field"])

	assert.Equal(t, WizardFormData{"x": true}, WizardFormData{"x": true}.Merge(nil))
}

func TestWizardFormData_MissingFields(t *testing.T) {
	data := WizardFormData{FieldContentStructure: []any{"intro"}}

	assert.Equal(t, []string{FieldDurationEstimate}, data.MissingFields(StepContentStructure))
	assert.Empty(t, data.MissingFields(StepFinalReview))
}

func TestNewProjectFromWizard(t *testing.T) {
	data := WizardFormData{
		FieldTitle:       "  Fractions 101 ",
		FieldProjectType: "lesson_plan",
		"extra":          42,
	}

	p := NewProjectFromWizard("t1", "u1", data)

	assert.Equal(t, "Fractions 101", p.Title)
	assert.Equal(t, ProjectTypeLessonPlan, p.ProjectType)
	assert.Equal(t, StageProjectConfig, p.PipelineStatus)
	assert.Equal(t, 42, p.Configuration["extra"])

	data["extra"] = 0
	assert.Equal(t, 42, p.Configuration["extra"], "configuration must be a copy")
}

func TestNewProjectFromWizard_DefaultTitle(t *testing.T) {
	p := NewProjectFromWizard("t1", "u1", nil)
	assert.Equal(t, "Untitled Project", p.Title)
}

func TestProject_SetPipelineProgressClamps(t *testing.T) {
	p := &Project{}

	p.SetPipelineProgress(StageRefinement, 140)
	assert.Equal(t, StageRefinement, p.PipelineStatus)
	assert.Equal(t, 100.0, p.CompletionPercentage)

	p.SetPipelineProgress(StageExport, -3)
	assert.Equal(t, 0.0, p.CompletionPercentage)
}

func TestNewEditWizardSession_ClampsResumeIndex(t *testing.T) {
	project := &Project{ID: "p1", Configuration: WizardFormData{FieldTitle: "Existing"}}

	s := NewEditWizardSession("t1", "u1", project, 99, 7)

	assert.True(t, s.IsEditing)
	assert.Equal(t, "p1", s.EditProjectID())
	assert.Equal(t, 6, s.CurrentStepIndex)
	assert.Equal(t, "Existing", s.FormData.String(FieldTitle))

	assert.Equal(t, 0, NewEditWizardSession("t1", "u1", project, -1, 7).CurrentStepIndex)
}

func TestWizardSession_MarkVisitedIsIdempotent(t *testing.T) {
	s := NewWizardSession("t1", "u1")

	s.MarkVisited(StepProjectType)
	s.MarkVisited(StepProjectType)
	s.MarkVisited(StepEducationalContext)

	assert.Equal(t, []string{"project-type", "educational-context"}, []string(s.VisitedSteps))
}

func TestWizardSession_Lifecycle(t *testing.T) {
	s := NewWizardSession("t1", "u1")
	require.True(t, s.IsActive())
	assert.Empty(t, s.EditProjectID())

	s.Complete("p9")
	assert.False(t, s.IsActive())
	assert.Equal(t, "p9", s.EditProjectID())
	assert.Equal(t, WizardSessionStatusCompleted, s.Status)
}
