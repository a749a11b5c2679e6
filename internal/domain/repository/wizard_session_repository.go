// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"eduforge-api/internal/domain/entity"
)

// WizardSessionRepository 向导会话仓储接口
// 未找到记录时读取方法返回 (nil, nil)
type WizardSessionRepository interface {
	Create(ctx context.Context, session *entity.WizardSession) error
	GetByID(ctx context.Context, id string) (*entity.WizardSession, error)
	// GetByIDForUpdate 在事务中加行锁读取，串行化同一会话的并发操作
	GetByIDForUpdate(ctx context.Context, id string) (*entity.WizardSession, error)
	Update(ctx context.Context, session *entity.WizardSession) error
}
