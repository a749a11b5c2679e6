// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eduforge-api/internal/domain/entity"
	"eduforge-api/internal/domain/repository"
)

// WizardSessionRepository 向导会话仓储实现
type WizardSessionRepository struct {
	client *Client
}

var _ repository.WizardSessionRepository = (*WizardSessionRepository)(nil)

// NewWizardSessionRepository 创建向导会话仓储
func NewWizardSessionRepository(client *Client) *WizardSessionRepository {
	return &WizardSessionRepository{client: client}
}

func (r *WizardSessionRepository) Create(ctx context.Context, session *entity.WizardSession) error {
	ctx, span := tracer.Start(ctx, "postgres.WizardSessionRepository.Create")
	defer span.End()

	if err := getDB(ctx, r.client.db).Create(session).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create wizard session: %w", err)
	}
	return nil
}

func (r *WizardSessionRepository) GetByID(ctx context.Context, id string) (*entity.WizardSession, error) {
	ctx, span := tracer.Start(ctx, "postgres.WizardSessionRepository.GetByID")
	defer span.End()

	return r.first(getDB(ctx, r.client.db), id, span)
}

func (r *WizardSessionRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.WizardSession, error) {
	ctx, span := tracer.Start(ctx, "postgres.WizardSessionRepository.GetByIDForUpdate")
	defer span.End()

	db := getDB(ctx, r.client.db).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.first(db, id, span)
}

func (r *WizardSessionRepository) Update(ctx context.Context, session *entity.WizardSession) error {
	ctx, span := tracer.Start(ctx, "postgres.WizardSessionRepository.Update")
	defer span.End()

	if err := getDB(ctx, r.client.db).Save(session).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update wizard session: %w", err)
	}
	return nil
}

func (r *WizardSessionRepository) first(db *gorm.DB, id string, span trace.Span) (*entity.WizardSession, error) {
	var session entity.WizardSession
	if err := db.First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get wizard session: %w", err)
	}
	return &session, nil
}
