// Package entity 定义领域实体
package entity

import "time"

// PipelineEventType 流水线事件类型
type PipelineEventType string

const (
	// EventProjectConfigured 向导完成，项目配置已写入
	EventProjectConfigured PipelineEventType = "project.configured"
	// EventStageSelected 用户在进度视图中选择了某个阶段
	EventStageSelected PipelineEventType = "pipeline.stage_selected"
)

// PipelineEvent 下游内容生产服务消费的事件
type PipelineEvent struct {
	Type       PipelineEventType `json:"type"`
	TenantID   string            `json:"tenant_id"`
	ProjectID  string            `json:"project_id"`
	Stage      StageID           `json:"stage"`
	UserID     string            `json:"user_id,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewPipelineEvent 创建事件
func NewPipelineEvent(t PipelineEventType, tenantID, userID, projectID string, stage StageID) *PipelineEvent {
	return &PipelineEvent{
		Type:       t,
		TenantID:   tenantID,
		ProjectID:  projectID,
		Stage:      stage,
		UserID:     userID,
		OccurredAt: time.Now(),
	}
}
