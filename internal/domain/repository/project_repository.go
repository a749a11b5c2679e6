// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"eduforge-api/internal/domain/entity"
)

// ProjectFilter 项目过滤条件
type ProjectFilter struct {
	TenantID       string
	OwnerID        string
	PipelineStatus entity.StageID
}

// ProjectRepository 项目仓储接口
// 未找到记录时 GetByID 返回 (nil, nil)
type ProjectRepository interface {
	// Create 创建项目
	Create(ctx context.Context, project *entity.Project) error

	// GetByID 根据 ID 获取项目
	GetByID(ctx context.Context, id string) (*entity.Project, error)

	// Update 更新项目
	Update(ctx context.Context, project *entity.Project) error

	// Delete 删除项目
	Delete(ctx context.Context, id string) error

	// List 获取项目列表，按更新时间倒序
	List(ctx context.Context, filter *ProjectFilter, pagination Pagination) (*PagedResult[*entity.Project], error)

	// UpdatePipelineStatus 更新流水线阶段与完成度
	UpdatePipelineStatus(ctx context.Context, id string, stage entity.StageID, completion float64) error
}
