package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quality() Object {
	zero, hundred := float64(0), float64(100)
	return Object{
		Properties: map[string]Property{
			"format":  {Type: "string", Enum: []string{"png", "jpeg", "webp"}, Default: "jpeg"},
			"quality": {Type: "integer", Minimum: &zero, Maximum: &hundred},
			"full":    {Type: "boolean"},
			"scale":   {Type: "number"},
		},
	}
}

func TestValidate_FillsDefaults(t *testing.T) {
	out, err := quality().Validate(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "jpeg", out["format"])
	_, hasQuality := out["quality"]
	assert.False(t, hasQuality, "no default declared, none filled")
}

func TestValidate_EnumMembership(t *testing.T) {
	out, err := quality().Validate(map[string]any{"format": "webp"})
	require.NoError(t, err)
	assert.Equal(t, "webp", out["format"])

	_, err = quality().Validate(map[string]any{"format": "gif"})
	assert.Error(t, err)
}

func TestValidate_IntegerCoercionAndBounds(t *testing.T) {
	out, err := quality().Validate(map[string]any{"quality": float64(60)})
	require.NoError(t, err)
	assert.Equal(t, 60, out["quality"], "integer values are normalized to int")

	_, err = quality().Validate(map[string]any{"quality": float64(60.5)})
	assert.Error(t, err, "fractional value is not an integer")

	_, err = quality().Validate(map[string]any{"quality": float64(101)})
	assert.Error(t, err)

	_, err = quality().Validate(map[string]any{"quality": float64(-1)})
	assert.Error(t, err)
}

func TestValidate_TypeChecks(t *testing.T) {
	_, err := quality().Validate(map[string]any{"full": "yes"})
	assert.Error(t, err)

	_, err = quality().Validate(map[string]any{"format": 12})
	assert.Error(t, err)

	out, err := quality().Validate(map[string]any{"scale": float64(1.5), "full": true})
	require.NoError(t, err)
	assert.Equal(t, 1.5, out["scale"])
	assert.Equal(t, true, out["full"])
}

func TestValidate_UnknownAndRequired(t *testing.T) {
	_, err := quality().Validate(map[string]any{"bogus": 1})
	assert.Error(t, err)

	obj := Object{
		Properties: map[string]Property{"url": {Type: "string"}},
		Required:   []string{"url"},
	}
	_, err = obj.Validate(map[string]any{})
	assert.Error(t, err)

	out, err := obj.Validate(map[string]any{"url": "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", out["url"])
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	in := map[string]any{"quality": float64(10)}
	_, err := quality().Validate(in)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"quality": float64(10)}, in)
	_, hasFormat := in["format"]
	assert.False(t, hasFormat)
}

func TestJSON_Envelope(t *testing.T) {
	obj := Object{
		Properties: map[string]Property{
			"url": {Type: "string", Description: "target"},
		},
		Required: []string{"url"},
	}
	out := obj.JSON()
	assert.Equal(t, "object", out["type"])
	props := out["properties"].(map[string]any)
	url := props["url"].(map[string]any)
	assert.Equal(t, "string", url["type"])
	assert.Equal(t, "target", url["description"])
	assert.Equal(t, []string{"url"}, out["required"])
}
