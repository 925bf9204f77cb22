package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"velora.studio/velora/internal/workflow"
)

func TestTemplatesCoverEveryWorkflow(t *testing.T) {
	seen := map[workflow.Category]bool{}
	for _, tmpl := range Templates() {
		seen[tmpl.Workflow] = true
	}
	for _, cat := range workflow.Categories() {
		require.True(t, seen[cat], "no template for workflow %s", cat)
	}
}

func TestByCategory(t *testing.T) {
	ui := ByCategory("software-ui")
	require.Len(t, ui, 2)
	for _, tmpl := range ui {
		require.Equal(t, workflow.CategorySoftwareUI, tmpl.Workflow)
	}

	require.Empty(t, ByCategory("nope"))
}

func TestFind(t *testing.T) {
	tmpl, ok := Find("ugc-1")
	require.True(t, ok)
	require.Equal(t, "Modern Product Showcase", tmpl.Name)

	_, ok = Find("missing")
	require.False(t, ok)
}

func TestTemplatesIsACopy(t *testing.T) {
	Templates()[0].Name = "mutated"
	require.Equal(t, "Modern Product Showcase", Templates()[0].Name)
}

func TestDescriptionMarshalsAsHTML(t *testing.T) {
	tmpl, ok := Find("service-1")
	require.True(t, ok)

	b, err := json.Marshal(tmpl)
	require.NoError(t, err)

	var decoded struct {
		Description string `json:"description"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Contains(t, decoded.Description, "<strong>business website</strong>")
}
