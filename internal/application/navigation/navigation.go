// Package navigation 定义导航出口与前端路由约定
package navigation

import (
	"net/url"
	"sync"
)

// Sink 导航出口，由调用方决定如何执行跳转
type Sink interface {
	NavigateTo(path string)
}

// ProjectDetail 项目详情路由 /projects/{id}
func ProjectDetail(projectID string) string {
	return "/projects/" + url.PathEscape(projectID)
}

// ProjectStage 项目阶段或步骤路由 /projects/{id}/{stageOrStep}
func ProjectStage(projectID, stageOrStep string) string {
	return ProjectDetail(projectID) + "/" + url.PathEscape(stageOrStep)
}

// Recorder 记录导航请求的 Sink 实现，HTTP 层用它把跳转目标回传给前端
type Recorder struct {
	mu    sync.Mutex
	paths []string
}

// NewRecorder 创建导航记录器
func NewRecorder() *Recorder {
	return &Recorder{}
}

// NavigateTo 实现 Sink
func (r *Recorder) NavigateTo(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

// Last 返回最近一次导航目标
func (r *Recorder) Last() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.paths) == 0 {
		return "", false
	}
	return r.paths[len(r.paths)-1], true
}

// Paths 返回全部导航记录
func (r *Recorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}

// Discard 丢弃所有导航请求
type Discard struct{}

// NavigateTo 实现 Sink
func (Discard) NavigateTo(string) {}
