// Package progress 根据项目的流水线状态推导阶段进度
package progress

import (
	"sort"

	"eduforge-api/internal/application/navigation"
	"eduforge-api/internal/domain/entity"
)

// UnknownStageTitle 无法识别当前阶段时展示的标题
const UnknownStageTitle = "Unknown"

// StageState 阶段相对当前位置的状态
type StageState string

const (
	StageCompleted StageState = "completed"
	StageCurrent   StageState = "current"
	StageUpcoming  StageState = "upcoming"
)

// StageProgress 带状态的阶段
type StageProgress struct {
	Stage entity.StageDefinition `json:"stage"`
	State StageState             `json:"state"`
}

// Resolver 阶段进度推导，无内部状态
type Resolver struct {
	stages []entity.StageDefinition
}

// NewResolver 创建推导器，stages 按 Position 排序后使用
func NewResolver(stages []entity.StageDefinition) *Resolver {
	cp := make([]entity.StageDefinition, len(stages))
	copy(cp, stages)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Position < cp[j].Position })
	return &Resolver{stages: cp}
}

// Stages 返回阶段目录副本
func (r *Resolver) Stages() []entity.StageDefinition {
	out := make([]entity.StageDefinition, len(r.stages))
	copy(out, r.stages)
	return out
}

// ResolveCurrentStage 查找项目当前所处阶段
func (r *Resolver) ResolveCurrentStage(p *entity.Project) (entity.StageDefinition, bool) {
	if p == nil {
		return entity.StageDefinition{}, false
	}
	for _, s := range r.stages {
		if s.ID == p.PipelineStatus {
			return s, true
		}
	}
	return entity.StageDefinition{}, false
}

// StageTitle 当前阶段标题，未知阶段返回 "Unknown"
func (r *Resolver) StageTitle(p *entity.Project) string {
	if s, ok := r.ResolveCurrentStage(p); ok {
		return s.Title
	}
	return UnknownStageTitle
}

// ResolveCompletedStages 位于当前阶段之前的所有阶段，按位置升序
// 当前阶段无法识别时返回空
func (r *Resolver) ResolveCompletedStages(p *entity.Project) []entity.StageDefinition {
	current, ok := r.ResolveCurrentStage(p)
	if !ok {
		return []entity.StageDefinition{}
	}
	out := []entity.StageDefinition{}
	for _, s := range r.stages {
		if s.Position < current.Position {
			out = append(out, s)
		}
	}
	return out
}

// ResolveUpcomingStages 位于当前阶段之后的阶段；当前阶段无法识别时为全部阶段
func (r *Resolver) ResolveUpcomingStages(p *entity.Project) []entity.StageDefinition {
	current, ok := r.ResolveCurrentStage(p)
	if !ok {
		return r.Stages()
	}
	out := []entity.StageDefinition{}
	for _, s := range r.stages {
		if s.Position > current.Position {
			out = append(out, s)
		}
	}
	return out
}

// Classify 为目录中每个阶段标注状态
func (r *Resolver) Classify(p *entity.Project) []StageProgress {
	current, ok := r.ResolveCurrentStage(p)
	out := make([]StageProgress, 0, len(r.stages))
	for _, s := range r.stages {
		state := StageUpcoming
		if ok {
			switch {
			case s.Position < current.Position:
				state = StageCompleted
			case s.Position == current.Position:
				state = StageCurrent
			}
		}
		out = append(out, StageProgress{Stage: s, State: state})
	}
	return out
}

// ResolveContinuationRoute 继续工作的路由 /projects/{id}/{pipeline_status}，nil 项目返回空串
func (r *Resolver) ResolveContinuationRoute(p *entity.Project) string {
	if p == nil {
		return ""
	}
	return navigation.ProjectStage(p.ID, string(p.PipelineStatus))
}

// SelectStage 请求跳转到指定阶段，不限制阶段是否已解锁
func (r *Resolver) SelectStage(projectID string, stage entity.StageID, sink navigation.Sink) string {
	route := navigation.ProjectStage(projectID, string(stage))
	if sink != nil {
		sink.NavigateTo(route)
	}
	return route
}
