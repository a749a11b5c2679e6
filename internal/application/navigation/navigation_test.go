package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoutes(t *testing.T) {
	assert.Equal(t, "/projects/p1", ProjectDetail("p1"))
	assert.Equal(t, "/projects/p1/project_config", ProjectStage("p1", "project_config"))
	assert.Equal(t, "/projects/a%2Fb/final-review", ProjectStage("a/b", "final-review"))
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	_, ok := r.Last()
	assert.False(t, ok)

	r.NavigateTo("/projects/p1")
	r.NavigateTo("/projects/p1/export")

	last, ok := r.Last()
	assert.True(t, ok)
	assert.Equal(t, "/projects/p1/export", last)
	assert.Equal(t, []string{"/projects/p1", "/projects/p1/export"}, r.Paths())
}
