package recipe

import (
	"testing"

	"recipe-finder/internal/core/ai/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildExtractionMessages(t *testing.T) {
	msgs := BuildExtractionMessages("  mac & cheese <tonight>  ")

	require.Len(t, msgs, 2)
	assert.Equal(t, provider.RoleSystem, msgs[0].Role)
	assert.Equal(t, provider.RoleUser, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "<text>mac &amp; cheese &lt;tonight&gt;</text>")
	assert.NotContains(t, msgs[1].Content, "{{QUERY}}")
}

func TestBuildEnrichmentMessages(t *testing.T) {
	msgs := BuildEnrichmentMessages("Tasty", []string{"1 lb pasta", "2 cloves garlic"}, "Boil. Drain.")

	require.Len(t, msgs, 2)
	user := msgs[1].Content
	assert.Contains(t, user, "<summary>Tasty</summary>")
	assert.Contains(t, user, "- 1 lb pasta\n- 2 cloves garlic")
	assert.Contains(t, user, "Boil. Drain.")
	assert.NotContains(t, user, "{{")
}
