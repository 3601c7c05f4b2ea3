package db

import "time"

// Extraction status values for the jobs table.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Posting is the fetch-time slice of a job row, enough to build an
// extraction prompt from.
type Posting struct {
	JobID          string
	Title          string
	RawDescription string
}

// ExtractionUpdate carries the normalized structured fields written by a
// successful extraction. Pointer fields map to nullable columns.
type ExtractionUpdate struct {
	Department      string
	Seniority       string
	TechStack       []string
	Skills          []string
	PainPoints      []string
	RemotePolicy    string
	SalaryMin       *int
	SalaryMax       *int
	ExperienceYears *int
	JobSummary      string
}

// Company is a row in the company registry.
type Company struct {
	ATS         string
	Slug        string
	DisplayName string
	Active      bool
	AddedAt     time.Time
}

// PlatformSummary aggregates job counts for one ATS platform.
type PlatformSummary struct {
	ATS       string
	Companies int
	Jobs      int
	Parsed    int
	Failed    int
}
