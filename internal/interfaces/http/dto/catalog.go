// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"eduforge-api/internal/domain/entity"
)

// StageCatalogResponse 阶段目录响应
type StageCatalogResponse struct {
	Stages []*StageResponse `json:"stages"`
}

// WizardStepCatalogItem 向导步骤目录项
type WizardStepCatalogItem struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Index  int      `json:"index"`
	Fields []string `json:"fields,omitempty"`
}

// WizardStepCatalogResponse 向导步骤目录响应
type WizardStepCatalogResponse struct {
	Steps []*WizardStepCatalogItem `json:"steps"`
}

// ToWizardStepCatalogResponse 将步骤目录转换为响应
func ToWizardStepCatalogResponse(steps []entity.WizardStepDefinition) *WizardStepCatalogResponse {
	out := make([]*WizardStepCatalogItem, 0, len(steps))
	for i, s := range steps {
		out = append(out, &WizardStepCatalogItem{
			ID:     string(s.ID),
			Title:  s.Title,
			Index:  i,
			Fields: entity.StepFields[s.ID],
		})
	}
	return &WizardStepCatalogResponse{Steps: out}
}
