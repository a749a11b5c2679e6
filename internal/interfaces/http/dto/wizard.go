// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"eduforge-api/internal/application/wizard"
	"eduforge-api/internal/domain/entity"
)

// StartWizardRequest 开始向导请求，project_id 非空时进入编辑模式
type StartWizardRequest struct {
	ProjectID  string        `json:"project_id,omitempty" binding:"omitempty,max=64"`
	ResumeStep entity.StepID `json:"resume_step,omitempty"`
}

// AdvanceWizardRequest 前进请求
type AdvanceWizardRequest struct {
	Data entity.WizardFormData `json:"data,omitempty"`
}

// RetreatWizardRequest 后退请求
type RetreatWizardRequest struct {
	ProjectID string `json:"project_id,omitempty" binding:"omitempty,max=64"`
}

// CompleteWizardRequest 完成请求
type CompleteWizardRequest struct {
	Data entity.WizardFormData `json:"data,omitempty"`
}

// WizardStepResponse 步骤响应
type WizardStepResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// WizardSessionResponse 向导会话视图
type WizardSessionResponse struct {
	ID               string                `json:"id"`
	Status           string                `json:"status"`
	CurrentStep      *WizardStepResponse   `json:"current_step"`
	CurrentStepIndex int                   `json:"current_step_index"`
	IsFirstStep      bool                  `json:"is_first_step"`
	IsLastStep       bool                  `json:"is_last_step"`
	TotalSteps       int                   `json:"total_steps"`
	ProgressPercent  int                   `json:"progress_percent"`
	FormData         entity.WizardFormData `json:"form_data"`
	MissingFields    []string              `json:"missing_fields,omitempty"`
	VisitedSteps     []string              `json:"visited_steps"`
	IsEditing        bool                  `json:"is_editing"`
	ProjectID        string                `json:"project_id,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// WizardTransitionResponse 一次导航的结果
type WizardTransitionResponse struct {
	Session    *WizardSessionResponse `json:"session"`
	Moved      bool                   `json:"moved"`
	Exited     bool                   `json:"exited"`
	Outcome    string                 `json:"outcome"`
	NavigateTo string                 `json:"navigate_to,omitempty"`
}

// WizardCompleteResponse 完成向导的结果
type WizardCompleteResponse struct {
	Session    *WizardSessionResponse `json:"session"`
	Project    *ProjectResponse       `json:"project"`
	Created    bool                   `json:"created"`
	NavigateTo string                 `json:"navigate_to"`
}

// ToWizardSessionResponse 按步骤目录渲染会话
func ToWizardSessionResponse(s *entity.WizardSession, nav *wizard.Navigator) *WizardSessionResponse {
	if s == nil {
		return nil
	}
	resp := &WizardSessionResponse{
		ID:               s.ID,
		Status:           string(s.Status),
		CurrentStepIndex: s.CurrentStepIndex,
		IsFirstStep:      nav.IsFirstStep(s),
		IsLastStep:       nav.IsLastStep(s),
		TotalSteps:       nav.TotalSteps(),
		ProgressPercent:  nav.ProgressPercent(s),
		FormData:         s.FormData,
		VisitedSteps:     []string(s.VisitedSteps),
		IsEditing:        s.IsEditing,
		ProjectID:        s.EditProjectID(),
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
	if resp.FormData == nil {
		resp.FormData = entity.WizardFormData{}
	}
	if resp.VisitedSteps == nil {
		resp.VisitedSteps = []string{}
	}
	if step, ok := nav.CurrentStep(s); ok {
		resp.CurrentStep = &WizardStepResponse{ID: string(step.ID), Title: step.Title}
		resp.MissingFields = s.FormData.MissingFields(step.ID)
	}
	return resp
}

// ToWizardTransitionResponse 渲染导航结果
func ToWizardTransitionResponse(res *wizard.Result, nav *wizard.Navigator) *WizardTransitionResponse {
	return &WizardTransitionResponse{
		Session:    ToWizardSessionResponse(res.Session, nav),
		Moved:      res.Transition.Moved(),
		Exited:     res.Transition.Exited(),
		Outcome:    string(res.Transition.Outcome),
		NavigateTo: res.Transition.Route,
	}
}

// ToWizardCompleteResponse 渲染完成结果
func ToWizardCompleteResponse(res *wizard.CompleteResult, nav *wizard.Navigator) *WizardCompleteResponse {
	return &WizardCompleteResponse{
		Session:    ToWizardSessionResponse(res.Session, nav),
		Project:    ToProjectResponse(res.Project),
		Created:    res.Created,
		NavigateTo: res.Route,
	}
}
