package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"

	"eduforge-api/internal/domain/entity"
)

func TestGormLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logger.LogLevel
	}{
		{"silent", logger.Silent},
		{"ERROR", logger.Error},
		{"info", logger.Info},
		{"warn", logger.Warn},
		{"", logger.Warn},
		{"verbose", logger.Warn},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, gormLogLevel(tt.in), tt.in)
	}
}

func TestModels(t *testing.T) {
	models := Models()

	assert.Len(t, models, 2)
	assert.IsType(t, &entity.Project{}, models[0])
	assert.IsType(t, &entity.WizardSession{}, models[1])
}

func TestGetTxFromContext_Empty(t *testing.T) {
	assert.Nil(t, getTxFromContext(context.Background()))
}
