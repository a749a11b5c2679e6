// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"eduforge-api/internal/application/progress"
	"eduforge-api/internal/domain/entity"
	"eduforge-api/internal/domain/repository"
	"eduforge-api/internal/interfaces/http/dto"
	"eduforge-api/internal/interfaces/http/middleware"
	"eduforge-api/pkg/errors"
	"eduforge-api/pkg/logger"
)

// ProjectHandler 项目处理器
type ProjectHandler struct {
	projectRepo repository.ProjectRepository
	feed        *progress.ProjectFeed
}

// NewProjectHandler 创建项目处理器，feed 可为空
func NewProjectHandler(projectRepo repository.ProjectRepository, feed *progress.ProjectFeed) *ProjectHandler {
	return &ProjectHandler{
		projectRepo: projectRepo,
		feed:        feed,
	}
}

// ListProjects 获取项目列表
// @Summary 获取项目列表
// @Description 获取当前租户的项目列表，可按流水线阶段过滤
// @Tags Projects
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Param stage query string false "流水线阶段"
// @Success 200 {object} dto.Response[dto.ProjectListResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := middleware.GetTenantIDFromGin(c)

	filter := &repository.ProjectFilter{
		TenantID:       tenantID,
		PipelineStatus: entity.StageID(c.Query("stage")),
	}
	if filter.PipelineStatus != "" && !entity.IsKnownStage(filter.PipelineStatus) {
		dto.AppError(c, errors.ErrInvalidStage.WithDetail(string(filter.PipelineStatus)))
		return
	}

	pageReq := dto.BindPage(c)
	result, err := h.projectRepo.List(ctx, filter, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		writeError(ctx, c, err, "failed to list projects")
		return
	}

	meta := dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total))
	dto.SuccessWithPage(c, dto.ToProjectListResponse(result.Items), meta)
}

// GetProject 获取项目详情
// @Summary 获取项目详情
// @Tags Projects
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[dto.ProjectResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := loadProject(c, h.projectRepo)
	if !ok {
		return
	}
	dto.Success(c, dto.ToProjectResponse(project))
}

// UpdateProject 更新项目
// @Summary 更新项目
// @Tags Projects
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.UpdateProjectRequest true "更新内容"
// @Success 200 {object} dto.Response[dto.ProjectResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	project, ok := loadProject(c, h.projectRepo)
	if !ok {
		return
	}

	req.ApplyToProject(project)
	if err := h.projectRepo.Update(ctx, project); err != nil {
		writeError(ctx, c, err, "failed to update project")
		return
	}
	h.invalidate(project.TenantID)

	dto.Success(c, dto.ToProjectResponse(project))
}

// DeleteProject 删除项目
// @Summary 删除项目
// @Tags Projects
// @Param pid path string true "项目 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	ctx := c.Request.Context()

	project, ok := loadProject(c, h.projectRepo)
	if !ok {
		return
	}

	if err := h.projectRepo.Delete(ctx, project.ID); err != nil {
		writeError(ctx, c, err, "failed to delete project")
		return
	}
	h.invalidate(project.TenantID)

	logger.Info(ctx, "project deleted", "project_id", project.ID)
	dto.NoContent(c)
}

// UpdatePipelineStatus 更新流水线阶段与完成度
// @Summary 更新流水线状态
// @Tags Projects
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.UpdatePipelineStatusRequest true "阶段与完成度"
// @Success 200 {object} dto.Response[dto.ProjectResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/pipeline-status [put]
func (h *ProjectHandler) UpdatePipelineStatus(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpdatePipelineStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if !entity.IsKnownStage(req.PipelineStatus) {
		dto.AppError(c, errors.ErrInvalidStage.WithDetail(string(req.PipelineStatus)))
		return
	}

	project, ok := loadProject(c, h.projectRepo)
	if !ok {
		return
	}

	if err := h.projectRepo.UpdatePipelineStatus(ctx, project.ID, req.PipelineStatus, req.CompletionPercentage); err != nil {
		writeError(ctx, c, err, "failed to update pipeline status")
		return
	}
	project.SetPipelineProgress(req.PipelineStatus, req.CompletionPercentage)
	h.invalidate(project.TenantID)

	dto.Success(c, dto.ToProjectResponse(project))
}

func (h *ProjectHandler) invalidate(tenantID string) {
	if h.feed != nil {
		h.feed.Invalidate(tenantID)
	}
}

// loadProject 读取路径中的项目，其他租户的项目视为不存在
// 返回 false 时已写入错误响应
func loadProject(c *gin.Context, repo repository.ProjectRepository) (*entity.Project, bool) {
	id := dto.BindProjectID(c)
	ctx := logger.WithContext(c.Request.Context(), logger.ProjectIDKey, id)
	c.Request = c.Request.WithContext(ctx)

	if _, err := uuid.Parse(id); err != nil {
		dto.AppError(c, errors.ErrProjectNotFound)
		return nil, false
	}

	project, err := getTenantProject(ctx, repo, middleware.GetTenantIDFromGin(c), id)
	if err != nil {
		writeError(ctx, c, err, "failed to get project")
		return nil, false
	}
	if project == nil {
		dto.AppError(c, errors.ErrProjectNotFound)
		return nil, false
	}
	return project, true
}

func getTenantProject(ctx context.Context, repo repository.ProjectRepository, tenantID, id string) (*entity.Project, error) {
	project, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil || project.TenantID != tenantID {
		return nil, nil
	}
	return project, nil
}
