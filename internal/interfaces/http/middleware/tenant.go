// Package middleware 提供 HTTP 中间件
package middleware

import (
	"github.com/gin-gonic/gin"

	"eduforge-api/pkg/logger"
)

// TenantConfig 租户中间件配置
type TenantConfig struct {
	// HeaderName 从 Header 中获取租户 ID 的字段名
	HeaderName string
	// UserHeaderName 从 Header 中获取用户 ID 的字段名
	UserHeaderName string
	// DefaultTenantID 默认租户 ID（用于开发环境）
	DefaultTenantID string
}

// Tenant 请求作用域中间件
// 从可信网关注入的 Header 读取租户和用户，缺少租户时返回 400
func Tenant(cfg TenantConfig) gin.HandlerFunc {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Tenant-ID"
	}
	if cfg.UserHeaderName == "" {
		cfg.UserHeaderName = "X-User-ID"
	}

	return func(c *gin.Context) {
		tenantID := c.GetHeader(cfg.HeaderName)
		if tenantID == "" {
			tenantID = cfg.DefaultTenantID
		}
		if tenantID == "" {
			c.AbortWithStatusJSON(400, gin.H{
				"code":     400,
				"message":  "missing " + cfg.HeaderName + " header",
				"trace_id": c.GetString("trace_id"),
			})
			return
		}
		userID := c.GetHeader(cfg.UserHeaderName)

		c.Set("tenant_id", tenantID)
		ctx := logger.WithContext(c.Request.Context(), logger.TenantIDKey, tenantID)
		if userID != "" {
			c.Set("user_id", userID)
			ctx = logger.WithContext(ctx, logger.UserIDKey, userID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetTenantIDFromGin 从 Gin Context 中获取租户 ID
func GetTenantIDFromGin(c *gin.Context) string {
	return c.GetString("tenant_id")
}

// GetUserIDFromGin 从 Gin Context 中获取用户 ID
func GetUserIDFromGin(c *gin.Context) string {
	return c.GetString("user_id")
}
