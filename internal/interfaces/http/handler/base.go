package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"eduforge-api/internal/interfaces/http/dto"
	"eduforge-api/pkg/errors"
	"eduforge-api/pkg/logger"
)

// writeError 业务错误按错误码返回，其他错误记录日志后返回 500
func writeError(ctx context.Context, c *gin.Context, err error, message string) {
	if errors.IsAppError(err) {
		appErr := errors.AsAppError(err)
		if appErr.HTTPStatus >= 500 {
			logger.Error(ctx, message, err)
		}
		dto.AppError(c, appErr)
		return
	}
	logger.Error(ctx, message, err)
	dto.InternalError(c, message)
}
