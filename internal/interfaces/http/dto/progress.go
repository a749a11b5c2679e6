// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"eduforge-api/internal/application/progress"
	"eduforge-api/internal/domain/entity"
)

// StageResponse 阶段响应
type StageResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
	State    string `json:"state,omitempty"`
}

// ProjectProgressResponse 项目进度响应
type ProjectProgressResponse struct {
	ProjectID            string           `json:"project_id"`
	PipelineStatus       string           `json:"pipeline_status"`
	CompletionPercentage float64          `json:"completion_percentage"`
	CurrentStageTitle    string           `json:"current_stage_title"`
	CurrentStage         *StageResponse   `json:"current_stage"`
	CompletedStages      []*StageResponse `json:"completed_stages"`
	UpcomingStages       []*StageResponse `json:"upcoming_stages"`
	Stages               []*StageResponse `json:"stages"`
	ContinueRoute        string           `json:"continue_route"`
}

// NavigateResponse 跳转目标
type NavigateResponse struct {
	NavigateTo string `json:"navigate_to"`
}

// DashboardProjectResponse 仪表盘中的项目卡片
type DashboardProjectResponse struct {
	Project           *ProjectResponse `json:"project"`
	CurrentStageTitle string           `json:"current_stage_title"`
	CompletedStages   int              `json:"completed_stages"`
	TotalStages       int              `json:"total_stages"`
	ContinueRoute     string           `json:"continue_route"`
}

// DashboardResponse 仪表盘响应
type DashboardResponse struct {
	Loading     bool                        `json:"loading"`
	Error       string                      `json:"error,omitempty"`
	RefreshedAt *time.Time                  `json:"refreshed_at,omitempty"`
	Projects    []*DashboardProjectResponse `json:"projects"`
}

// ToStageResponse 将阶段定义转换为响应
func ToStageResponse(s entity.StageDefinition) *StageResponse {
	return &StageResponse{ID: string(s.ID), Title: s.Title, Position: s.Position}
}

// ToStageListResponse 将阶段列表转换为响应
func ToStageListResponse(stages []entity.StageDefinition) []*StageResponse {
	out := make([]*StageResponse, 0, len(stages))
	for _, s := range stages {
		out = append(out, ToStageResponse(s))
	}
	return out
}

// ToProjectProgressResponse 推导项目进度
func ToProjectProgressResponse(p *entity.Project, r *progress.Resolver) *ProjectProgressResponse {
	resp := &ProjectProgressResponse{
		ProjectID:            p.ID,
		PipelineStatus:       string(p.PipelineStatus),
		CompletionPercentage: p.CompletionPercentage,
		CurrentStageTitle:    r.StageTitle(p),
		CompletedStages:      ToStageListResponse(r.ResolveCompletedStages(p)),
		UpcomingStages:       ToStageListResponse(r.ResolveUpcomingStages(p)),
		ContinueRoute:        r.ResolveContinuationRoute(p),
	}
	if current, ok := r.ResolveCurrentStage(p); ok {
		resp.CurrentStage = ToStageResponse(current)
	}
	classified := r.Classify(p)
	resp.Stages = make([]*StageResponse, 0, len(classified))
	for _, sp := range classified {
		s := ToStageResponse(sp.Stage)
		s.State = string(sp.State)
		resp.Stages = append(resp.Stages, s)
	}
	return resp
}

// ToDashboardResponse 渲染项目列表快照
func ToDashboardResponse(snap progress.ProjectSnapshot, r *progress.Resolver) *DashboardResponse {
	resp := &DashboardResponse{
		Loading:  snap.Loading,
		Projects: make([]*DashboardProjectResponse, 0, len(snap.Projects)),
	}
	if snap.Err != nil {
		resp.Error = "failed to load projects"
	}
	if !snap.RefreshedAt.IsZero() {
		t := snap.RefreshedAt
		resp.RefreshedAt = &t
	}
	total := len(r.Stages())
	for _, p := range snap.Projects {
		resp.Projects = append(resp.Projects, &DashboardProjectResponse{
			Project:           ToProjectResponse(p),
			CurrentStageTitle: r.StageTitle(p),
			CompletedStages:   len(r.ResolveCompletedStages(p)),
			TotalStages:       total,
			ContinueRoute:     r.ResolveContinuationRoute(p),
		})
	}
	return resp
}
