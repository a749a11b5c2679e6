// Package entity 定义领域实体
package entity

import (
	"time"
)

// ProjectType 项目类型
type ProjectType string

const (
	ProjectTypeLessonPlan ProjectType = "lesson_plan"
	ProjectTypeCourse     ProjectType = "course"
	ProjectTypeAssessment ProjectType = "assessment"
)

// Project 教学内容项目实体
type Project struct {
	ID                   string         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID             string         `json:"tenant_id" gorm:"type:varchar(64);index;not null"`
	OwnerID              string         `json:"owner_id,omitempty" gorm:"type:varchar(64);index"`
	Title                string         `json:"title" gorm:"type:varchar(255);not null"`
	Description          string         `json:"description,omitempty" gorm:"type:text"`
	ProjectType          ProjectType    `json:"project_type,omitempty" gorm:"type:varchar(50)"`
	PipelineStatus       StageID        `json:"pipeline_status" gorm:"type:varchar(50);index;not null;default:'project_config'"`
	CompletionPercentage float64        `json:"completion_percentage" gorm:"default:0"`
	Configuration        WizardFormData `json:"configuration,omitempty" gorm:"type:jsonb;serializer:json"`
	CreatedAt            time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt            time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Project) TableName() string {
	return "projects"
}

// NewProjectFromWizard 用向导表单创建新项目，进入流水线首个阶段
func NewProjectFromWizard(tenantID, ownerID string, data WizardFormData) *Project {
	now := time.Now()
	p := &Project{
		TenantID:       tenantID,
		OwnerID:        ownerID,
		PipelineStatus: FirstStage().ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	p.ApplyConfiguration(data)
	return p
}

// ApplyConfiguration 用向导表单覆盖项目配置与基础信息
func (p *Project) ApplyConfiguration(data WizardFormData) {
	p.Configuration = data.Clone()
	if title := data.String(FieldTitle); title != "" {
		p.Title = title
	}
	if p.Title == "" {
		p.Title = "Untitled Project"
	}
	if desc := data.String(FieldDescription); desc != "" {
		p.Description = desc
	}
	if pt := data.String(FieldProjectType); pt != "" {
		p.ProjectType = ProjectType(pt)
	}
	p.UpdatedAt = time.Now()
}

// SetPipelineProgress 更新流水线状态，完成度限制在 [0,100]
func (p *Project) SetPipelineProgress(stage StageID, completion float64) {
	switch {
	case completion < 0:
		completion = 0
	case completion > 100:
		completion = 100
	}
	p.PipelineStatus = stage
	p.CompletionPercentage = completion
	p.UpdatedAt = time.Now()
}
