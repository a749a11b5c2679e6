// Package entity 定义领域实体
package entity

// StepID 向导步骤标识
type StepID string

const (
	StepProjectType           StepID = "project-type"
	StepEducationalContext    StepID = "educational-context"
	StepLearningObjectives    StepID = "learning-objectives"
	StepPedagogicalApproach   StepID = "pedagogical-approach"
	StepCulturalAccessibility StepID = "cultural-accessibility"
	StepContentStructure      StepID = "content-structure"
	StepFinalReview           StepID = "final-review"
)

// WizardStepDefinition 向导步骤定义
type WizardStepDefinition struct {
	ID    StepID `json:"id"`
	Title string `json:"title"`
}

var wizardSteps = []WizardStepDefinition{
	{ID: StepProjectType, Title: "Project Type"},
	{ID: StepEducationalContext, Title: "Educational Context"},
	{ID: StepLearningObjectives, Title: "Learning Objectives"},
	{ID: StepPedagogicalApproach, Title: "Pedagogical Approach"},
	{ID: StepCulturalAccessibility, Title: "Cultural & Accessibility"},
	{ID: StepContentStructure, Title: "Content Structure"},
	{ID: StepFinalReview, Title: "Final Review"},
}

// WizardSteps 返回向导步骤目录的副本
func WizardSteps() []WizardStepDefinition {
	out := make([]WizardStepDefinition, len(wizardSteps))
	copy(out, wizardSteps)
	return out
}

// StepIndex 返回步骤在目录中的下标，未找到返回 -1
func StepIndex(steps []WizardStepDefinition, id StepID) int {
	for i, s := range steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}
