package handler

import (
	"github.com/gin-gonic/gin"

	"eduforge-api/internal/application/navigation"
	"eduforge-api/internal/application/progress"
	"eduforge-api/internal/domain/entity"
	"eduforge-api/internal/domain/repository"
	"eduforge-api/internal/interfaces/http/dto"
	"eduforge-api/internal/interfaces/http/middleware"
	"eduforge-api/pkg/logger"
	"eduforge-api/pkg/metrics"
)

// ProgressHandler 项目流水线进度处理器
type ProgressHandler struct {
	projectRepo repository.ProjectRepository
	resolver    *progress.Resolver
	publisher   repository.EventPublisher
}

// NewProgressHandler 创建进度处理器，publisher 可为空
func NewProgressHandler(projectRepo repository.ProjectRepository, resolver *progress.Resolver, publisher repository.EventPublisher) *ProgressHandler {
	return &ProgressHandler{
		projectRepo: projectRepo,
		resolver:    resolver,
		publisher:   publisher,
	}
}

// GetProgress 获取项目阶段进度
// @Summary 项目进度
// @Description 返回已完成、当前与待进行的阶段
// @Tags Progress
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[dto.ProjectProgressResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/progress [get]
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	project, ok := loadProject(c, h.projectRepo)
	if !ok {
		return
	}
	dto.Success(c, dto.ToProjectProgressResponse(project, h.resolver))
}

// Continue 获取继续工作的路由
// @Summary 继续工作
// @Tags Progress
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[dto.NavigateResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/continue [get]
func (h *ProgressHandler) Continue(c *gin.Context) {
	project, ok := loadProject(c, h.projectRepo)
	if !ok {
		return
	}
	dto.Success(c, &dto.NavigateResponse{NavigateTo: h.resolver.ResolveContinuationRoute(project)})
}

// SelectStage 选择阶段并返回跳转路由，不校验阶段是否已解锁
// @Summary 选择阶段
// @Tags Progress
// @Produce json
// @Param pid path string true "项目 ID"
// @Param stage path string true "阶段 ID"
// @Success 200 {object} dto.Response[dto.NavigateResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/stages/{stage}/select [post]
func (h *ProgressHandler) SelectStage(c *gin.Context) {
	project, ok := loadProject(c, h.projectRepo)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	stage := dto.BindStageID(c)

	route := h.resolver.SelectStage(project.ID, stage, navigation.Discard{})

	label := string(stage)
	if !entity.IsKnownStage(stage) {
		label = "unknown"
	}
	metrics.PipelineStageSelectionsTotal.WithLabelValues(label).Inc()

	if h.publisher != nil {
		event := entity.NewPipelineEvent(entity.EventStageSelected, project.TenantID, middleware.GetUserIDFromGin(c), project.ID, stage)
		if _, err := h.publisher.PublishPipelineEvent(ctx, event); err != nil {
			logger.Warn(ctx, "failed to publish stage selection", "error", err.Error(), "stage", string(stage))
		}
	}

	dto.Success(c, &dto.NavigateResponse{NavigateTo: route})
}
