// Package entity 定义领域实体
package entity

import (
	"slices"
	"time"

	"github.com/lib/pq"
)

// WizardSessionStatus 向导会话状态
type WizardSessionStatus string

const (
	WizardSessionStatusActive    WizardSessionStatus = "active"
	WizardSessionStatusCompleted WizardSessionStatus = "completed"
	WizardSessionStatusCancelled WizardSessionStatus = "cancelled"
)

// WizardSession 项目创建/编辑向导会话
// 不变式：0 <= CurrentStepIndex < len(WizardSteps())
type WizardSession struct {
	ID               string              `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID         string              `json:"tenant_id" gorm:"type:varchar(64);index;not null"`
	UserID           string              `json:"user_id,omitempty" gorm:"type:varchar(64);index"`
	ProjectID        *string             `json:"project_id,omitempty" gorm:"type:uuid;index"`
	FormData         WizardFormData      `json:"form_data" gorm:"type:jsonb;serializer:json;not null"`
	CurrentStepIndex int                 `json:"current_step_index" gorm:"not null;default:0"`
	IsEditing        bool                `json:"is_editing" gorm:"not null;default:false"`
	VisitedSteps     pq.StringArray      `json:"visited_steps" gorm:"type:text[]"`
	Status           WizardSessionStatus `json:"status" gorm:"type:varchar(32);not null;default:'active'"`
	CreatedAt        time.Time           `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time           `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (WizardSession) TableName() string {
	return "wizard_sessions"
}

// NewWizardSession 创建新建项目的向导会话
func NewWizardSession(tenantID, userID string) *WizardSession {
	now := time.Now()
	return &WizardSession{
		TenantID:     tenantID,
		UserID:       userID,
		FormData:     WizardFormData{},
		VisitedSteps: pq.StringArray{},
		Status:       WizardSessionStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewEditWizardSession 创建编辑已有项目的向导会话，表单预填项目配置
// resumeIndex 超出范围时被夹到合法区间
func NewEditWizardSession(tenantID, userID string, project *Project, resumeIndex, totalSteps int) *WizardSession {
	s := NewWizardSession(tenantID, userID)
	pid := project.ID
	s.ProjectID = &pid
	s.IsEditing = true
	s.FormData = project.Configuration.Clone()
	if s.FormData == nil {
		s.FormData = WizardFormData{}
	}
	s.CurrentStepIndex = clampIndex(resumeIndex, totalSteps)
	return s
}

// IsActive 检查会话是否仍可操作
func (s *WizardSession) IsActive() bool {
	return s.Status == WizardSessionStatusActive
}

// EditProjectID 返回编辑目标项目 ID，新建模式返回空串
func (s *WizardSession) EditProjectID() string {
	if s.ProjectID == nil {
		return ""
	}
	return *s.ProjectID
}

// MarkVisited 记录步骤已访问
func (s *WizardSession) MarkVisited(id StepID) {
	if slices.Contains(s.VisitedSteps, string(id)) {
		return
	}
	s.VisitedSteps = append(s.VisitedSteps, string(id))
}

// Complete 标记会话完成并关联项目
func (s *WizardSession) Complete(projectID string) {
	s.ProjectID = &projectID
	s.Status = WizardSessionStatusCompleted
	s.UpdatedAt = time.Now()
}

// Cancel 标记会话取消
func (s *WizardSession) Cancel() {
	s.Status = WizardSessionStatusCancelled
	s.UpdatedAt = time.Now()
}

func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
