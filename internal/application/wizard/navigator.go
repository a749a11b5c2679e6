// Package wizard 实现项目创建向导的步骤状态机与会话服务
package wizard

import (
	"eduforge-api/internal/application/navigation"
	"eduforge-api/internal/domain/entity"
)

// Outcome 一次导航操作的结果
type Outcome string

const (
	OutcomeMoved     Outcome = "moved"
	OutcomeSaturated Outcome = "saturated"
	OutcomeExited    Outcome = "exited"
	OutcomeNoop      Outcome = "noop"
)

// Transition 一次步骤迁移
type Transition struct {
	From    int     `json:"from"`
	To      int     `json:"to"`
	Outcome Outcome `json:"outcome"`
	// Route 退出向导时的跳转目标
	Route string `json:"route,omitempty"`
}

// Moved 下标是否发生变化
func (t Transition) Moved() bool { return t.Outcome == OutcomeMoved }

// Exited 是否退出到项目详情
func (t Transition) Exited() bool { return t.Outcome == OutcomeExited }

// Navigator 向导步骤状态机
// 状态为步骤目录上的下标 0..N-1，只允许 +1（上界饱和）和 -1（下界为 0）
type Navigator struct {
	steps []entity.WizardStepDefinition
}

// NewNavigator 创建状态机
func NewNavigator(steps []entity.WizardStepDefinition) *Navigator {
	cp := make([]entity.WizardStepDefinition, len(steps))
	copy(cp, steps)
	return &Navigator{steps: cp}
}

// Advance 合并当前步骤数据并前进一步，已在最后一步时保持不变
func (n *Navigator) Advance(s *entity.WizardSession, partial entity.WizardFormData) Transition {
	s.FormData = s.FormData.Merge(partial)
	if id, ok := n.CurrentStepID(s); ok {
		s.MarkVisited(id)
	}

	t := Transition{From: s.CurrentStepIndex, To: s.CurrentStepIndex, Outcome: OutcomeSaturated}
	if s.CurrentStepIndex < n.TotalSteps()-1 {
		s.CurrentStepIndex++
		t.To = s.CurrentStepIndex
		t.Outcome = OutcomeMoved
	}
	return t
}

// Retreat 后退一步
// 位于第一步且处于编辑模式时，向 sink 请求跳转到项目详情，下标不变
func (n *Navigator) Retreat(s *entity.WizardSession, projectID string, sink navigation.Sink) Transition {
	t := Transition{From: s.CurrentStepIndex, To: s.CurrentStepIndex, Outcome: OutcomeNoop}
	if s.CurrentStepIndex > 0 {
		s.CurrentStepIndex--
		t.To = s.CurrentStepIndex
		t.Outcome = OutcomeMoved
		return t
	}

	if s.IsEditing && projectID != "" {
		t.Route = navigation.ProjectDetail(projectID)
		t.Outcome = OutcomeExited
		if sink != nil {
			sink.NavigateTo(t.Route)
		}
	}
	return t
}

// CurrentStepID 当前步骤 ID，目录为空或下标越界时返回 false
func (n *Navigator) CurrentStepID(s *entity.WizardSession) (entity.StepID, bool) {
	if s.CurrentStepIndex < 0 || s.CurrentStepIndex >= len(n.steps) {
		return "", false
	}
	return n.steps[s.CurrentStepIndex].ID, true
}

// CurrentStep 当前步骤定义
func (n *Navigator) CurrentStep(s *entity.WizardSession) (entity.WizardStepDefinition, bool) {
	if s.CurrentStepIndex < 0 || s.CurrentStepIndex >= len(n.steps) {
		return entity.WizardStepDefinition{}, false
	}
	return n.steps[s.CurrentStepIndex], true
}

// IsFirstStep 是否位于第一步
func (n *Navigator) IsFirstStep(s *entity.WizardSession) bool {
	return s.CurrentStepIndex == 0
}

// IsLastStep 是否位于最后一步
func (n *Navigator) IsLastStep(s *entity.WizardSession) bool {
	return s.CurrentStepIndex == n.TotalSteps()-1
}

// TotalSteps 步骤总数
func (n *Navigator) TotalSteps() int {
	return len(n.steps)
}

// ProgressPercent 进度百分比 (index+1)/N，最后一步为 100
func (n *Navigator) ProgressPercent(s *entity.WizardSession) int {
	total := n.TotalSteps()
	if total == 0 {
		return 0
	}
	return (s.CurrentStepIndex + 1) * 100 / total
}

// Steps 返回步骤目录副本
func (n *Navigator) Steps() []entity.WizardStepDefinition {
	out := make([]entity.WizardStepDefinition, len(n.steps))
	copy(out, n.steps)
	return out
}

// ResumeIndex 将步骤 ID 解析为恢复下标，未知步骤从 0 开始
func (n *Navigator) ResumeIndex(step entity.StepID) int {
	if step == "" {
		return 0
	}
	if i := entity.StepIndex(n.steps, step); i >= 0 {
		return i
	}
	return 0
}
