package handler

import (
	"github.com/gin-gonic/gin"

	"eduforge-api/internal/application/progress"
	"eduforge-api/internal/application/wizard"
	"eduforge-api/internal/interfaces/http/dto"
)

// CatalogHandler 阶段与向导步骤目录
type CatalogHandler struct {
	resolver  *progress.Resolver
	navigator *wizard.Navigator
}

// NewCatalogHandler 创建目录处理器
func NewCatalogHandler(resolver *progress.Resolver, navigator *wizard.Navigator) *CatalogHandler {
	return &CatalogHandler{resolver: resolver, navigator: navigator}
}

// ListStages 获取流水线阶段目录
// @Summary 阶段目录
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.Response[dto.StageCatalogResponse]
// @Router /v1/catalog/stages [get]
func (h *CatalogHandler) ListStages(c *gin.Context) {
	dto.Success(c, &dto.StageCatalogResponse{
		Stages: dto.ToStageListResponse(h.resolver.Stages()),
	})
}

// ListWizardSteps 获取向导步骤目录
// @Summary 向导步骤目录
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.Response[dto.WizardStepCatalogResponse]
// @Router /v1/catalog/wizard-steps [get]
func (h *CatalogHandler) ListWizardSteps(c *gin.Context) {
	dto.Success(c, dto.ToWizardStepCatalogResponse(h.navigator.Steps()))
}
