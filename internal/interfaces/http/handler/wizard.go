package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"eduforge-api/internal/application/navigation"
	"eduforge-api/internal/application/progress"
	"eduforge-api/internal/application/wizard"
	"eduforge-api/internal/interfaces/http/dto"
	"eduforge-api/internal/interfaces/http/middleware"
	"eduforge-api/pkg/errors"
	"eduforge-api/pkg/logger"
)

// WizardHandler 项目向导会话处理器
type WizardHandler struct {
	svc  *wizard.Service
	feed *progress.ProjectFeed
}

// NewWizardHandler 创建向导处理器，feed 可为空
func NewWizardHandler(svc *wizard.Service, feed *progress.ProjectFeed) *WizardHandler {
	return &WizardHandler{svc: svc, feed: feed}
}

// StartSession 开始向导
// @Summary 开始向导
// @Description project_id 为空时新建项目，否则编辑已有项目
// @Tags Wizard
// @Accept json
// @Produce json
// @Param body body dto.StartWizardRequest false "起始参数"
// @Success 201 {object} dto.Response[dto.WizardSessionResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/wizard-sessions [post]
func (h *WizardHandler) StartSession(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.StartWizardRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			dto.BadRequest(c, "invalid request body: "+err.Error())
			return
		}
	}
	if req.ProjectID != "" {
		if _, err := uuid.Parse(req.ProjectID); err != nil {
			dto.AppError(c, errors.ErrProjectNotFound)
			return
		}
	}

	session, err := h.svc.Start(ctx, wizard.StartInput{
		TenantID:   middleware.GetTenantIDFromGin(c),
		UserID:     middleware.GetUserIDFromGin(c),
		ProjectID:  req.ProjectID,
		ResumeStep: req.ResumeStep,
	})
	if err != nil {
		writeError(ctx, c, err, "failed to start wizard session")
		return
	}

	dto.Created(c, dto.ToWizardSessionResponse(session, h.svc.Navigator()))
}

// GetSession 获取向导会话视图
// @Summary 获取向导会话
// @Tags Wizard
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[dto.WizardSessionResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/wizard-sessions/{sid} [get]
func (h *WizardHandler) GetSession(c *gin.Context) {
	sessionID, ok := bindSessionID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	session, err := h.svc.Get(ctx, middleware.GetTenantIDFromGin(c), sessionID)
	if err != nil {
		writeError(ctx, c, err, "failed to get wizard session")
		return
	}

	dto.Success(c, dto.ToWizardSessionResponse(session, h.svc.Navigator()))
}

// Advance 保存当前步骤并前进
// @Summary 向导前进
// @Tags Wizard
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.AdvanceWizardRequest false "当前步骤数据"
// @Success 200 {object} dto.Response[dto.WizardTransitionResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/wizard-sessions/{sid}/advance [post]
func (h *WizardHandler) Advance(c *gin.Context) {
	sessionID, ok := bindSessionID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var req dto.AdvanceWizardRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			dto.BadRequest(c, "invalid request body: "+err.Error())
			return
		}
	}

	res, err := h.svc.Advance(ctx, middleware.GetTenantIDFromGin(c), sessionID, req.Data)
	if err != nil {
		writeError(ctx, c, err, "failed to advance wizard")
		return
	}

	dto.Success(c, dto.ToWizardTransitionResponse(res, h.svc.Navigator()))
}

// Retreat 后退一步，编辑模式在首步退出到项目详情
// @Summary 向导后退
// @Tags Wizard
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.RetreatWizardRequest false "退出目标项目"
// @Success 200 {object} dto.Response[dto.WizardTransitionResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/wizard-sessions/{sid}/retreat [post]
func (h *WizardHandler) Retreat(c *gin.Context) {
	sessionID, ok := bindSessionID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var req dto.RetreatWizardRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			dto.BadRequest(c, "invalid request body: "+err.Error())
			return
		}
	}

	rec := navigation.NewRecorder()
	res, err := h.svc.Retreat(ctx, middleware.GetTenantIDFromGin(c), sessionID, req.ProjectID, rec)
	if err != nil {
		writeError(ctx, c, err, "failed to retreat wizard")
		return
	}

	resp := dto.ToWizardTransitionResponse(res, h.svc.Navigator())
	if last, ok := rec.Last(); ok {
		resp.NavigateTo = last
	}
	dto.Success(c, resp)
}

// Complete 在最后一步提交向导
// @Summary 完成向导
// @Description 新建或更新项目并返回继续工作的路由
// @Tags Wizard
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.CompleteWizardRequest false "最后一步数据"
// @Success 200 {object} dto.Response[dto.WizardCompleteResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/wizard-sessions/{sid}/complete [post]
func (h *WizardHandler) Complete(c *gin.Context) {
	sessionID, ok := bindSessionID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	tenantID := middleware.GetTenantIDFromGin(c)

	var req dto.CompleteWizardRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			dto.BadRequest(c, "invalid request body: "+err.Error())
			return
		}
	}

	res, err := h.svc.Complete(ctx, tenantID, sessionID, req.Data)
	if err != nil {
		writeError(ctx, c, err, "failed to complete wizard")
		return
	}
	if h.feed != nil {
		h.feed.Invalidate(tenantID)
	}

	dto.Success(c, dto.ToWizardCompleteResponse(res, h.svc.Navigator()))
}

// CancelSession 取消向导
// @Summary 取消向导
// @Tags Wizard
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[dto.WizardSessionResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/wizard-sessions/{sid} [delete]
func (h *WizardHandler) CancelSession(c *gin.Context) {
	sessionID, ok := bindSessionID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	session, err := h.svc.Cancel(ctx, middleware.GetTenantIDFromGin(c), sessionID)
	if err != nil {
		writeError(ctx, c, err, "failed to cancel wizard")
		return
	}

	dto.Success(c, dto.ToWizardSessionResponse(session, h.svc.Navigator()))
}

// bindSessionID 读取路径中的会话 ID，格式非法时按不存在处理
func bindSessionID(c *gin.Context) (string, bool) {
	id := dto.BindSessionID(c)
	if _, err := uuid.Parse(id); err != nil {
		dto.AppError(c, errors.ErrWizardSessionNotFound)
		return "", false
	}
	c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), logger.SessionIDKey, id))
	return id, true
}
