// Package entity 定义领域实体
package entity

// StageID 流水线阶段标识
type StageID string

const (
	StageProjectConfig     StageID = "project_config"
	StageContentOutline    StageID = "content_outline"
	StageContentGeneration StageID = "content_generation"
	StageQualityReview     StageID = "quality_review"
	StageRefinement        StageID = "refinement"
	StageExport            StageID = "export"
)

// StageDefinition 流水线阶段定义
type StageDefinition struct {
	ID       StageID `json:"id"`
	Title    string  `json:"title"`
	Position int     `json:"position"`
}

// pipelineStages 内容生产流水线，按 Position 严格递增
var pipelineStages = []StageDefinition{
	{ID: StageProjectConfig, Title: "Project Configuration", Position: 0},
	{ID: StageContentOutline, Title: "Content Outline", Position: 1},
	{ID: StageContentGeneration, Title: "Content Generation", Position: 2},
	{ID: StageQualityReview, Title: "Quality Review", Position: 3},
	{ID: StageRefinement, Title: "Refinement", Position: 4},
	{ID: StageExport, Title: "Export & Delivery", Position: 5},
}

// PipelineStages 返回阶段目录的副本
func PipelineStages() []StageDefinition {
	out := make([]StageDefinition, len(pipelineStages))
	copy(out, pipelineStages)
	return out
}

// FirstStage 返回流水线入口阶段
func FirstStage() StageDefinition {
	return pipelineStages[0]
}

// LookupStage 按 ID 查找阶段
func LookupStage(id StageID) (StageDefinition, bool) {
	for _, s := range pipelineStages {
		if s.ID == id {
			return s, true
		}
	}
	return StageDefinition{}, false
}

// IsKnownStage 检查阶段 ID 是否在目录中
func IsKnownStage(id StageID) bool {
	_, ok := LookupStage(id)
	return ok
}
