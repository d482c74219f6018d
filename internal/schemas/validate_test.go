package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidDocuments(t *testing.T) {
	tests := []struct {
		schema   string
		document string
	}{
		{Queries, `{"queries": [{"search_query": "Jane Doe Acme", "is_job_description_query": false}]}`},
		{Queries, `{"queries": []}`},
		{Confidence, `{"confidence": 0.9}`},
		{Confidence, `{"confidence": 0}`},
		{DistilledPerson, `{"distilled_source": "Jane Doe is an engineer at Acme."}`},
		{JobDescription, `{"role_summary": "Backend role", "skills": ["Go"], "requirements": ["5 years"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.schema, func(t *testing.T) {
			assert.NoError(t, Validate(tt.schema, []byte(tt.document)))
		})
	}
}

func TestValidate_InvalidDocuments(t *testing.T) {
	tests := []struct {
		name     string
		schema   string
		document string
	}{
		{"missing queries key", Queries, `{"results": []}`},
		{"query missing text", Queries, `{"queries": [{"is_job_description_query": true}]}`},
		{"confidence above one", Confidence, `{"confidence": 1.5}`},
		{"confidence wrong type", Confidence, `{"confidence": "high"}`},
		{"missing role summary", JobDescription, `{"skills": [], "requirements": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.schema, []byte(tt.document))
			require.Error(t, err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.NotEmpty(t, ve.Errors)
		})
	}
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("does_not_exist", []byte(`{}`))
	require.Error(t, err)

	var le *SchemaLoadError
	assert.True(t, errors.As(err, &le))
}
