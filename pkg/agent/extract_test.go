package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTag(t *testing.T) {
	t.Run("should return the first tagged segment", func(t *testing.T) {
		out, ok := extractTag("<speak>hello</speak><speak>second</speak>", "speak")
		require.True(t, ok)
		assert.Equal(t, "hello", out)
	})

	t.Run("should fail on a missing open tag", func(t *testing.T) {
		_, ok := extractTag("no tags here", "speak")
		assert.False(t, ok)
	})

	t.Run("should fail on an unclosed tag", func(t *testing.T) {
		_, ok := extractTag("<speak>dangling", "speak")
		assert.False(t, ok)
	})

	t.Run("should extract across newlines", func(t *testing.T) {
		out, ok := extractTag("<speak>\nline one\nline two\n</speak>", "speak")
		require.True(t, ok)
		assert.Contains(t, out, "line one")
	})
}

func TestExtractOutput(t *testing.T) {
	t.Run("should trim plain content", func(t *testing.T) {
		out := extractOutput("  plain  ", &Config{})
		assert.Equal(t, "plain", out)
	})

	t.Run("should surface the speak segment in cognition mode", func(t *testing.T) {
		out := extractOutput("<think>x</think><speak>Paris</speak>", &Config{Cognition: true})
		assert.Equal(t, "Paris", out)
	})

	t.Run("should parse structured output from a cognition-trimmed segment", func(t *testing.T) {
		// Structured and cognition are mutually exclusive at construction;
		// the extractor itself still trims before parsing.
		out := extractOutput(`{"a":1}`, &Config{
			StructuredOutputSchema: map[string]interface{}{"type": "object"},
		})
		parsed, ok := out.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(1), parsed["a"])
	})

	t.Run("should fall back to text for a bare scalar in structured mode", func(t *testing.T) {
		out := extractOutput("42", &Config{
			StructuredOutputSchema: map[string]interface{}{"type": "object"},
		})
		assert.Equal(t, "42", out)
	})
}

func TestStripCodeFence(t *testing.T) {
	t.Run("should strip a json fence", func(t *testing.T) {
		out := stripCodeFence("```json\n{\"a\":1}\n```")
		assert.Equal(t, `{"a":1}`, out)
	})

	t.Run("should strip a bare fence", func(t *testing.T) {
		out := stripCodeFence("```\n{}\n```")
		assert.Equal(t, "{}", out)
	})

	t.Run("should pass unfenced text through", func(t *testing.T) {
		assert.Equal(t, "{}", stripCodeFence(" {} "))
	})
}

func TestParseStructured(t *testing.T) {
	t.Run("should parse a fenced object", func(t *testing.T) {
		out, ok := parseStructured("```json\n{\"answer\":\"Paris\"}\n```")
		require.True(t, ok)
		assert.Equal(t, "Paris", out.(map[string]interface{})["answer"])
	})

	t.Run("should parse a top-level array", func(t *testing.T) {
		out, ok := parseStructured(`[1, 2]`)
		require.True(t, ok)
		assert.Len(t, out, 2)
	})

	t.Run("should reject malformed json", func(t *testing.T) {
		_, ok := parseStructured(`{"answer": `)
		assert.False(t, ok)
	})
}
