// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"eduforge-api/internal/domain/entity"
)

// UpdateProjectRequest 更新项目请求
type UpdateProjectRequest struct {
	Title       *string             `json:"title,omitempty" binding:"omitempty,min=1,max=255"`
	Description *string             `json:"description,omitempty" binding:"omitempty,max=5000"`
	ProjectType *entity.ProjectType `json:"project_type,omitempty" binding:"omitempty,oneof=lesson_plan course assessment"`
}

// ApplyToProject 应用更新到项目实体
func (r *UpdateProjectRequest) ApplyToProject(p *entity.Project) {
	if r.Title != nil {
		p.Title = *r.Title
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.ProjectType != nil {
		p.ProjectType = *r.ProjectType
	}
	p.UpdatedAt = time.Now()
}

// UpdatePipelineStatusRequest 更新流水线状态请求
type UpdatePipelineStatusRequest struct {
	PipelineStatus       entity.StageID `json:"pipeline_status" binding:"required"`
	CompletionPercentage float64        `json:"completion_percentage" binding:"gte=0,lte=100"`
}

// ProjectResponse 项目响应
type ProjectResponse struct {
	ID                   string                `json:"id"`
	TenantID             string                `json:"tenant_id,omitempty"`
	OwnerID              string                `json:"owner_id,omitempty"`
	Title                string                `json:"title"`
	Description          string                `json:"description,omitempty"`
	ProjectType          string                `json:"project_type,omitempty"`
	PipelineStatus       string                `json:"pipeline_status"`
	CompletionPercentage float64               `json:"completion_percentage"`
	Configuration        entity.WizardFormData `json:"configuration,omitempty"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}

// ProjectListResponse 项目列表响应
type ProjectListResponse struct {
	Projects []*ProjectResponse `json:"projects"`
}

// ToProjectResponse 将项目实体转换为响应
func ToProjectResponse(p *entity.Project) *ProjectResponse {
	if p == nil {
		return nil
	}
	return &ProjectResponse{
		ID:                   p.ID,
		TenantID:             p.TenantID,
		OwnerID:              p.OwnerID,
		Title:                p.Title,
		Description:          p.Description,
		ProjectType:          string(p.ProjectType),
		PipelineStatus:       string(p.PipelineStatus),
		CompletionPercentage: p.CompletionPercentage,
		Configuration:        p.Configuration,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

// ToProjectListResponse 将项目列表转换为响应
func ToProjectListResponse(projects []*entity.Project) *ProjectListResponse {
	out := make([]*ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, ToProjectResponse(p))
	}
	return &ProjectListResponse{Projects: out}
}
