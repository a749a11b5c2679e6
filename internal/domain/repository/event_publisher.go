// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"eduforge-api/internal/domain/entity"
)

// EventPublisher 流水线事件发布接口
type EventPublisher interface {
	// PublishPipelineEvent 发布事件，返回消息 ID
	PublishPipelineEvent(ctx context.Context, event *entity.PipelineEvent) (string, error)
}
