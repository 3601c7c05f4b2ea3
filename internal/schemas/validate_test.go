package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validObject = `{
	"job_id": "42",
	"department": "Engineering",
	"seniority": "Senior",
	"tech_stack": ["go", "postgresql"],
	"skills": ["mentoring"],
	"pain_points": ["scaling ingest"],
	"remote_policy": "Remote",
	"salary_min": 140000,
	"salary_max": 180000,
	"experience_years": 5,
	"job_summary": "Own the ingestion pipeline."
}`

func TestValidateExtraction_Valid(t *testing.T) {
	assert.NoError(t, ValidateExtraction([]byte(validObject)))
}

func TestValidateExtraction_NullableNumerics(t *testing.T) {
	obj := `{
		"department": "Sales", "seniority": "Mid",
		"tech_stack": [], "skills": [], "pain_points": [],
		"remote_policy": "Unknown",
		"salary_min": null, "salary_max": "150000", "experience_years": null,
		"job_summary": "Sell things."
	}`
	assert.NoError(t, ValidateExtraction([]byte(obj)), "numbers may arrive quoted or null")
}

func TestValidateExtraction_MissingRequiredKey(t *testing.T) {
	obj := `{
		"department": "Engineering", "seniority": "Senior",
		"tech_stack": [], "skills": [], "pain_points": [],
		"job_summary": "no remote_policy key"
	}`
	err := ValidateExtraction([]byte(obj))
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Errors)
	assert.Contains(t, err.Error(), "remote_policy")
}

func TestValidateExtraction_WrongType(t *testing.T) {
	obj := `{
		"department": "Engineering", "seniority": "Senior",
		"tech_stack": "go", "skills": [], "pain_points": [],
		"remote_policy": "Remote", "job_summary": "tech_stack must be an array"
	}`
	err := ValidateExtraction([]byte(obj))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tech_stack")
}
