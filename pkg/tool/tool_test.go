package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weatherTool() Tool {
	return Tool{
		Name:        "get_weather",
		Description: "Looks up current weather",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"city": map[string]interface{}{"type": "string", "description": "City name"},
			},
			"required": []string{"city"},
		},
		Execute: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			return "sunny", nil
		},
	}
}

func TestNewRegistry(t *testing.T) {
	t.Run("should index tools in registration order", func(t *testing.T) {
		second := weatherTool()
		second.Name = "get_forecast"

		r, err := NewRegistry(weatherTool(), second)
		require.NoError(t, err)
		assert.Equal(t, []string{"get_weather", "get_forecast"}, r.Names())
		assert.Equal(t, 2, r.Len())
	})

	t.Run("should reject duplicate names", func(t *testing.T) {
		_, err := NewRegistry(weatherTool(), weatherTool())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("should reject an empty name", func(t *testing.T) {
		bad := weatherTool()
		bad.Name = ""
		_, err := NewRegistry(bad)
		assert.Error(t, err)
	})

	t.Run("should reject a nil handler", func(t *testing.T) {
		bad := weatherTool()
		bad.Execute = nil
		_, err := NewRegistry(bad)
		assert.Error(t, err)
	})

	t.Run("should reject a malformed parameter schema", func(t *testing.T) {
		bad := weatherTool()
		bad.Parameters = map[string]interface{}{"type": 42}
		_, err := NewRegistry(bad)
		assert.Error(t, err)
	})

	t.Run("should default a nil parameter schema to an empty object", func(t *testing.T) {
		noParams := weatherTool()
		noParams.Parameters = nil
		r, err := NewRegistry(noParams)
		require.NoError(t, err)

		schemas := r.Schemas()
		require.Len(t, schemas, 1)
		assert.Equal(t, "object", schemas[0].Parameters["type"])
	})
}

func TestValidateArgs(t *testing.T) {
	r, err := NewRegistry(weatherTool())
	require.NoError(t, err)

	t.Run("should accept valid arguments", func(t *testing.T) {
		assert.NoError(t, r.ValidateArgs("get_weather", map[string]interface{}{"city": "Lisbon"}))
	})

	t.Run("should reject a missing required field", func(t *testing.T) {
		err := r.ValidateArgs("get_weather", map[string]interface{}{})
		assert.Error(t, err)
	})

	t.Run("should reject a wrong type", func(t *testing.T) {
		err := r.ValidateArgs("get_weather", map[string]interface{}{"city": 7})
		assert.Error(t, err)
	})

	t.Run("should report unknown tools", func(t *testing.T) {
		err := r.ValidateArgs("nope", nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "tool not found")
	})
}

func TestDecodeArgs(t *testing.T) {
	t.Run("should decode onto a typed struct", func(t *testing.T) {
		var params struct {
			City  string `json:"city"`
			Limit int    `json:"limit"`
		}
		err := DecodeArgs(map[string]interface{}{"city": "Lisbon", "limit": float64(3)}, &params)
		require.NoError(t, err)
		assert.Equal(t, "Lisbon", params.City)
		assert.Equal(t, 3, params.Limit)
	})

	t.Run("should coerce weakly typed input", func(t *testing.T) {
		var params struct {
			Limit int `json:"limit"`
		}
		err := DecodeArgs(map[string]interface{}{"limit": "5"}, &params)
		require.NoError(t, err)
		assert.Equal(t, 5, params.Limit)
	})
}

func TestFinish(t *testing.T) {
	t.Run("should return the final response verbatim", func(t *testing.T) {
		f := Finish()
		out, err := f.Execute(context.Background(), map[string]interface{}{"final_response": "done"})
		require.NoError(t, err)
		assert.Equal(t, "done", out)
	})

	t.Run("should error on a non-string final response", func(t *testing.T) {
		f := Finish()
		_, err := f.Execute(context.Background(), map[string]interface{}{"final_response": 7})
		assert.Error(t, err)
	})

	t.Run("should require final_response in its schema", func(t *testing.T) {
		r, err := NewRegistry(Finish())
		require.NoError(t, err)
		assert.Error(t, r.ValidateArgs(FinishName, map[string]interface{}{}))
	})
}
