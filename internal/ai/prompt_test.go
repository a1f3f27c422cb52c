package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKeyCollisionResistance(t *testing.T) {
	// A naive separator join would alias these two inputs.
	a := cacheKey(Input{URL: "https://x.example/a|b", Title: ""})
	b := cacheKey(Input{URL: "https://x.example/a", Title: "b"})
	assert.NotEqual(t, a, b)

	// Identical tuples share a key.
	assert.Equal(t,
		cacheKey(Input{URL: "https://x.example", Title: "t", Description: "d"}),
		cacheKey(Input{URL: "https://x.example", Title: "t", Description: "d"}))
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(Input{URL: "https://x.example", Title: "My Title", Description: "About things"})

	assert.Contains(t, prompt, "URL: https://x.example")
	assert.Contains(t, prompt, "Title: My Title")
	assert.Contains(t, prompt, "Description: About things")
	for _, category := range Categories {
		assert.Contains(t, prompt, category)
	}

	// Optional fields are omitted entirely when empty.
	bare := buildPrompt(Input{URL: "https://x.example"})
	assert.NotContains(t, bare, "Title:")
	assert.NotContains(t, bare, "Description:")
}

func TestInputValidate(t *testing.T) {
	assert.NoError(t, Input{URL: "https://x.example"}.Validate())
	assert.Error(t, Input{}.Validate())
	assert.Error(t, Input{URL: "not a url"}.Validate())
}

func TestParseResult(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		result, err := parseResult(`{"category":"Development","confidence":0.9,"reasoning":"code"}`)
		assert.NoError(t, err)
		assert.Equal(t, "Development", result.Category)
	})

	t.Run("fenced json", func(t *testing.T) {
		result, err := parseResult("```json\n{\"category\":\"Design\",\"confidence\":0.8}\n```")
		assert.NoError(t, err)
		assert.Equal(t, "Design", result.Category)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := parseResult("definitely Development")
		assert.Error(t, err)
	})

	t.Run("confidence out of range", func(t *testing.T) {
		_, err := parseResult(`{"category":"Development","confidence":1.4}`)
		assert.Error(t, err)
	})
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory("Development"))
	assert.True(t, ValidCategory(FallbackCategory))
	assert.False(t, ValidCategory("development"))
	assert.False(t, ValidCategory(""))
}
