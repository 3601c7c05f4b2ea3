package llm

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleObject(jobID string) string {
	return fmt.Sprintf(`{
		"job_id": %q,
		"department": "Engineering",
		"seniority": "Senior",
		"tech_stack": ["Go"],
		"skills": ["ownership"],
		"pain_points": ["slow ingest"],
		"remote_policy": "Remote",
		"salary_min": 120000,
		"salary_max": 150000,
		"experience_years": 5,
		"job_summary": "Build the ingest pipeline."
	}`, jobID)
}

func TestBuildBatchPrompt(t *testing.T) {
	items := []BatchItem{
		{JobID: "1", Title: "Backend Engineer", RawDescription: "Go services."},
		{JobID: "2", Title: "SRE", RawDescription: "Keep it running."},
	}

	prompt := BuildBatchPrompt(items)
	assert.Contains(t, prompt, "EXACTLY 2 objects")
	assert.Contains(t, prompt, "--- Posting 1 ---")
	assert.Contains(t, prompt, "--- Posting 2 ---")
	assert.Contains(t, prompt, "job_id: 1")
	assert.Contains(t, prompt, "Backend Engineer")
}

func TestBuildBatchPrompt_TruncatesLongDescriptions(t *testing.T) {
	long := strings.Repeat("a", maxDescriptionChars+500)
	prompt := BuildBatchPrompt([]BatchItem{{JobID: "1", Title: "X", RawDescription: long}})
	assert.Less(t, len(prompt), len(long)+2000)
}

func TestParseBatchResponse_Valid(t *testing.T) {
	raw := "[" + sampleObject("1") + "," + sampleObject("2") + "]"

	fields, err := ParseBatchResponse(raw, 2)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "Engineering", fields[0].Department)
	require.NotNil(t, fields[0].SalaryMin)
	assert.Equal(t, 120000, *fields[0].SalaryMin)
	require.NotNil(t, fields[1].ExperienceYears)
	assert.Equal(t, 5, *fields[1].ExperienceYears)
}

func TestParseBatchResponse_LengthMismatchIsContractViolation(t *testing.T) {
	raw := "[" + sampleObject("1") + "]"

	_, err := ParseBatchResponse(raw, 20)
	require.Error(t, err)

	var cv *ContractViolationError
	require.ErrorAs(t, err, &cv)
	assert.Equal(t, 20, cv.Expected)
	assert.Equal(t, 1, cv.Got)
}

func TestParseBatchResponse_NotAnArray(t *testing.T) {
	_, err := ParseBatchResponse(sampleObject("1"), 1)
	require.Error(t, err)

	var cv *ContractViolationError
	require.ErrorAs(t, err, &cv)
	assert.Contains(t, cv.Reason, "not a JSON array")
}

func TestParseBatchResponse_MissingKeyIsContractViolation(t *testing.T) {
	raw := `[{"department": "Engineering", "seniority": "Mid"}]`

	_, err := ParseBatchResponse(raw, 1)
	require.Error(t, err)

	var cv *ContractViolationError
	require.ErrorAs(t, err, &cv)
	assert.Contains(t, cv.Reason, "object 0")
}

func TestParseBatchResponse_CoercesQuotedNumbers(t *testing.T) {
	raw := `[{
		"department": "Engineering", "seniority": "Senior",
		"tech_stack": [], "skills": [], "pain_points": [],
		"remote_policy": "Hybrid",
		"salary_min": "90000", "salary_max": 120000.0, "experience_years": "null",
		"job_summary": "Mixed numeric encodings."
	}]`

	fields, err := ParseBatchResponse(raw, 1)
	require.NoError(t, err)
	require.NotNil(t, fields[0].SalaryMin)
	assert.Equal(t, 90000, *fields[0].SalaryMin)
	require.NotNil(t, fields[0].SalaryMax)
	assert.Equal(t, 120000, *fields[0].SalaryMax)
	assert.Nil(t, fields[0].ExperienceYears)
}

func TestParseBatchResponse_UncoercibleNumberFails(t *testing.T) {
	raw := `[{
		"department": "Engineering", "seniority": "Senior",
		"tech_stack": [], "skills": [], "pain_points": [],
		"remote_policy": "Remote",
		"salary_min": "competitive", "salary_max": null, "experience_years": null,
		"job_summary": "Uncoercible salary."
	}]`

	_, err := ParseBatchResponse(raw, 1)
	require.Error(t, err)

	var cv *ContractViolationError
	require.ErrorAs(t, err, &cv)
	assert.Contains(t, cv.Reason, "salary_min")
}

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain json untouched", `[{"a": 1}]`, `[{"a": 1}]`},
		{"markdown fences stripped", "```json\n[{\"a\": 1}]\n```", `[{"a": 1}]`},
		{"generic fences stripped", "```\n[]\n```", "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanJSONBlock(tt.input))
		})
	}
}
