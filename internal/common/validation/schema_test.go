package validation

import (
	"testing"

	apperrors "creator-match-workers/internal/common/errors"
	"creator-match-workers/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *registry.ActivityRegistry {
	return &registry.ActivityRegistry{Activities: []registry.Activity{
		{
			ID:       "matching.creator.rank",
			TaskType: "rank-creator-matches",
			InputSchema: map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"brandId"},
				"properties": map[string]interface{}{
					"brandId":    map[string]interface{}{"type": "string", "minLength": 1},
					"campaignId": map[string]interface{}{"type": "string"},
					"limit":      map[string]interface{}{"type": "integer", "minimum": 1},
				},
			},
		},
		{ID: "misc.noop", TaskType: "noop"},
	}}
}

func TestValidator_Validate(t *testing.T) {
	v, err := NewValidator(testRegistry())
	require.NoError(t, err)

	tests := []struct {
		name     string
		vars     string
		valid    bool
		badField string
	}{
		{"minimal", `{"brandId":"b-1"}`, true, ""},
		{"with campaign and limit", `{"brandId":"b-1","campaignId":"c-1","limit":20}`, true, ""},
		{"missing brand", `{"campaignId":"c-1"}`, false, "(root)"},
		{"empty brand", `{"brandId":""}`, false, "brandId"},
		{"zero limit", `{"brandId":"b-1","limit":0}`, false, "limit"},
		{"string limit", `{"brandId":"b-1","limit":"ten"}`, false, "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vr := v.Validate("rank-creator-matches", tt.vars)
			assert.Equal(t, tt.valid, vr.Valid, vr.GetErrorMessages())
			if tt.badField != "" {
				assert.True(t, vr.HasErrors(tt.badField), vr.GetErrorMessages())
			}
		})
	}
}

func TestValidator_UnknownTaskTypePasses(t *testing.T) {
	v, err := NewValidator(testRegistry())
	require.NoError(t, err)

	assert.True(t, v.Validate("noop", `{}`).Valid)
	assert.True(t, v.Validate("unregistered", `{"anything":1}`).Valid)

	var nilValidator *Validator
	assert.NoError(t, nilValidator.ValidateInput("rank-creator-matches", `{}`))
}

func TestValidator_ValidateInputReturnsInvalidInput(t *testing.T) {
	v, err := NewValidator(testRegistry())
	require.NoError(t, err)

	err = v.ValidateInput("rank-creator-matches", `{"limit":5}`)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.CodeOf(err))
	assert.Contains(t, err.(*apperrors.StandardError).Details, "brandId")
}

func TestValidator_MalformedJSON(t *testing.T) {
	v, err := NewValidator(testRegistry())
	require.NoError(t, err)

	vr := v.Validate("rank-creator-matches", `{not json`)
	assert.False(t, vr.Valid)
	assert.True(t, vr.HasErrors("(root)"))
}

func TestNewValidator_BadSchema(t *testing.T) {
	reg := &registry.ActivityRegistry{Activities: []registry.Activity{{
		ID:          "x",
		TaskType:    "x",
		InputSchema: map[string]interface{}{"type": 42},
	}}}

	_, err := NewValidator(reg)
	assert.Error(t, err)
}
