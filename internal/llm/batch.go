package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/jobradar/internal/schemas"
)

// maxDescriptionChars bounds each posting's description in the prompt.
const maxDescriptionChars = 8000

// BatchItem is one posting submitted for extraction.
type BatchItem struct {
	JobID          string `json:"job_id"`
	Title          string `json:"title"`
	RawDescription string `json:"raw_description"`
}

// ExtractedFields is the structured output for one posting. Remote policy
// arrives as free text here; normalization onto the closed set happens
// downstream.
type ExtractedFields struct {
	Department      string   `json:"department"`
	Seniority       string   `json:"seniority"`
	TechStack       []string `json:"tech_stack"`
	Skills          []string `json:"skills"`
	PainPoints      []string `json:"pain_points"`
	RemotePolicy    string   `json:"remote_policy"`
	SalaryMin       *int     `json:"salary_min"`
	SalaryMax       *int     `json:"salary_max"`
	ExperienceYears *int     `json:"experience_years"`
	JobSummary      string   `json:"job_summary"`
}

// ContractViolationError means the LLM response broke the one-object-per-
// input contract. The caller decomposes the batch into single-item retries.
type ContractViolationError struct {
	Expected int
	Got      int
	Reason   string
}

func (e *ContractViolationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("extraction contract violated: %s (expected %d objects, got %d)", e.Reason, e.Expected, e.Got)
	}
	return fmt.Sprintf("extraction contract violated: expected %d objects, got %d", e.Expected, e.Got)
}

// BuildBatchPrompt constructs one extraction prompt for an ordered batch of
// postings. The output contract is a JSON array with exactly one object per
// input, in submission order.
func BuildBatchPrompt(items []BatchItem) string {
	var sb strings.Builder

	sb.WriteString("You are a job posting analyzer. Extract structured data from each posting below.\n")
	sb.WriteString(fmt.Sprintf("Return ONLY a valid JSON array with EXACTLY %d objects, one per posting, in the same order as submitted. No omissions, no extras.\n\n", len(items)))

	sb.WriteString("Each object must have this exact structure:\n")
	sb.WriteString(`{
  "job_id": "echo the posting's job_id",
  "department": "Engineering|Sales|Marketing|Finance|HR|Design|Product|Operations|Legal|Customer Success|Other",
  "seniority": "Intern|Junior|Mid|Senior|Lead|Staff|Principal|Manager|Director|VP|C-Level",
  "tech_stack": ["specific technologies, frameworks, tools"],
  "skills": ["soft skills and domain expertise"],
  "pain_points": ["problems this role solves"],
  "remote_policy": "Remote|Hybrid|Onsite|Unknown",
  "salary_min": null,
  "salary_max": null,
  "experience_years": null,
  "job_summary": "one sentence describing the primary function of this role"
}`)
	sb.WriteString("\n\nIMPORTANT:\n")
	sb.WriteString("- tech_stack: only specific technologies (Python, Kubernetes, AWS, ...)\n")
	sb.WriteString("- Extract salary as integers if mentioned (e.g. 150000); null when missing\n")
	sb.WriteString("- job_summary: the PRIMARY function, not a generic description\n")
	sb.WriteString("- Return null for missing numeric fields, never guess\n\n")

	sb.WriteString("Postings:\n")
	for i, item := range items {
		desc := item.RawDescription
		if len(desc) > maxDescriptionChars {
			desc = desc[:maxDescriptionChars]
		}
		sb.WriteString(fmt.Sprintf("--- Posting %d ---\njob_id: %s\ntitle: %s\ndescription:\n%s\n\n", i+1, item.JobID, item.Title, desc))
	}
	return sb.String()
}

// ParseBatchResponse decodes and validates a batch extraction response
// against the contract: a JSON array whose length equals the input batch
// length, every object carrying the required keys with coercible types.
// Numeric fields given as JSON numbers or numeric strings are coerced.
func ParseBatchResponse(raw string, batchSize int) ([]ExtractedFields, error) {
	var objects []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &objects); err != nil {
		return nil, &ContractViolationError{Expected: batchSize, Reason: "response is not a JSON array"}
	}
	if len(objects) != batchSize {
		return nil, &ContractViolationError{Expected: batchSize, Got: len(objects)}
	}

	out := make([]ExtractedFields, 0, batchSize)
	for i, obj := range objects {
		if err := schemas.ValidateExtraction(obj); err != nil {
			return nil, &ContractViolationError{
				Expected: batchSize, Got: batchSize,
				Reason: fmt.Sprintf("object %d: %v", i, err),
			}
		}
		fields, err := decodeFields(obj)
		if err != nil {
			return nil, &ContractViolationError{
				Expected: batchSize, Got: batchSize,
				Reason: fmt.Sprintf("object %d: %v", i, err),
			}
		}
		out = append(out, fields)
	}
	return out, nil
}

// looseFields tolerates numbers arriving as strings or floats.
type looseFields struct {
	Department      string   `json:"department"`
	Seniority       string   `json:"seniority"`
	TechStack       []string `json:"tech_stack"`
	Skills          []string `json:"skills"`
	PainPoints      []string `json:"pain_points"`
	RemotePolicy    string   `json:"remote_policy"`
	SalaryMin       any      `json:"salary_min"`
	SalaryMax       any      `json:"salary_max"`
	ExperienceYears any      `json:"experience_years"`
	JobSummary      string   `json:"job_summary"`
}

func decodeFields(obj json.RawMessage) (ExtractedFields, error) {
	var loose looseFields
	if err := json.Unmarshal(obj, &loose); err != nil {
		return ExtractedFields{}, err
	}

	salaryMin, err := coerceInt(loose.SalaryMin, "salary_min")
	if err != nil {
		return ExtractedFields{}, err
	}
	salaryMax, err := coerceInt(loose.SalaryMax, "salary_max")
	if err != nil {
		return ExtractedFields{}, err
	}
	experience, err := coerceInt(loose.ExperienceYears, "experience_years")
	if err != nil {
		return ExtractedFields{}, err
	}

	return ExtractedFields{
		Department:      loose.Department,
		Seniority:       loose.Seniority,
		TechStack:       loose.TechStack,
		Skills:          loose.Skills,
		PainPoints:      loose.PainPoints,
		RemotePolicy:    loose.RemotePolicy,
		SalaryMin:       salaryMin,
		SalaryMax:       salaryMax,
		ExperienceYears: experience,
		JobSummary:      loose.JobSummary,
	}, nil
}

// coerceInt accepts JSON numbers, numeric strings, or null.
func coerceInt(v any, field string) (*int, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case float64:
		n := int(val)
		return &n, nil
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" || strings.EqualFold(trimmed, "null") {
			return nil, nil
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%s: cannot coerce %q to integer", field, val)
		}
		return &n, nil
	default:
		return nil, fmt.Errorf("%s: unexpected type %T", field, v)
	}
}
