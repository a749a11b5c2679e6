package handler

import (
	"github.com/gin-gonic/gin"

	"eduforge-api/internal/application/progress"
	"eduforge-api/internal/interfaces/http/dto"
	"eduforge-api/internal/interfaces/http/middleware"
)

// DashboardHandler 项目仪表盘
type DashboardHandler struct {
	feed     *progress.ProjectFeed
	resolver *progress.Resolver
}

// NewDashboardHandler 创建仪表盘处理器
func NewDashboardHandler(feed *progress.ProjectFeed, resolver *progress.Resolver) *DashboardHandler {
	return &DashboardHandler{feed: feed, resolver: resolver}
}

// GetDashboard 当前用户的项目及其进度
// @Summary 项目仪表盘
// @Description 默认返回缓存快照并在后台刷新，refresh=true 时同步加载
// @Tags Dashboard
// @Produce json
// @Param refresh query bool false "同步刷新"
// @Success 200 {object} dto.Response[dto.DashboardResponse]
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := middleware.GetTenantIDFromGin(c)
	userID := middleware.GetUserIDFromGin(c)

	if dto.BindBoolQuery(c, "refresh") {
		snap, err := h.feed.Refresh(ctx, tenantID, userID)
		if err != nil && len(snap.Projects) == 0 {
			writeError(ctx, c, err, "failed to load projects")
			return
		}
		dto.Success(c, dto.ToDashboardResponse(snap, h.resolver))
		return
	}

	dto.Success(c, dto.ToDashboardResponse(h.feed.Snapshot(ctx, tenantID, userID), h.resolver))
}
