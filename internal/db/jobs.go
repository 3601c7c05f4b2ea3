package db

import (
	"context"
	"fmt"

	"github.com/jonathan/jobradar/internal/ats"
	"github.com/jonathan/jobradar/internal/profile"
)

// UpsertFetched inserts or refreshes the fetch-time fields of a posting.
// Extraction columns are never touched here, so re-fetching a company does
// not clobber fields already parsed from an earlier run.
func (db *DB) UpsertFetched(ctx context.Context, p ats.RawPosting) error {
	query := `
		INSERT INTO jobs (ats, company, job_id, title, url, location, raw_description, scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (ats, company, job_id) DO UPDATE SET
			title = EXCLUDED.title,
			url = EXCLUDED.url,
			location = EXCLUDED.location,
			raw_description = EXCLUDED.raw_description,
			scraped_at = EXCLUDED.scraped_at`

	_, err := db.pool.Exec(ctx, query,
		string(p.Platform), p.Company, p.ExternalID,
		p.Title, p.URL, p.Location, p.RawDescription, p.FetchedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert posting %s/%s/%s: %w", p.Platform, p.Company, p.ExternalID, err)
	}
	return nil
}

// UpsertExtraction writes the structured fields for one posting and stamps
// parsed_at. Fetch-time columns are left untouched.
func (db *DB) UpsertExtraction(ctx context.Context, atsName, company, jobID string, u ExtractionUpdate) error {
	query := `
		UPDATE jobs SET
			department = $4,
			seniority = $5,
			tech_stack = $6,
			skills = $7,
			pain_points = $8,
			remote_policy = $9,
			salary_min = $10,
			salary_max = $11,
			experience_years = $12,
			job_summary = $13,
			parsed_at = NOW(),
			extraction_status = $14
		WHERE ats = $1 AND company = $2 AND job_id = $3`

	tag, err := db.pool.Exec(ctx, query,
		atsName, company, jobID,
		u.Department, u.Seniority, u.TechStack, u.Skills, u.PainPoints,
		u.RemotePolicy, u.SalaryMin, u.SalaryMax, u.ExperienceYears, u.JobSummary,
		StatusSuccess)
	if err != nil {
		return fmt.Errorf("failed to upsert extraction for %s/%s/%s: %w", atsName, company, jobID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no posting %s/%s/%s to attach extraction to", atsName, company, jobID)
	}
	return nil
}

// MarkExtractionFailed records that extraction for a posting exhausted its
// attempts. The raw description is kept, so a later run can try again.
func (db *DB) MarkExtractionFailed(ctx context.Context, atsName, company, jobID string) error {
	query := `UPDATE jobs SET extraction_status = $4 WHERE ats = $1 AND company = $2 AND job_id = $3`
	if _, err := db.pool.Exec(ctx, query, atsName, company, jobID, StatusFailed); err != nil {
		return fmt.Errorf("failed to mark extraction failed for %s/%s/%s: %w", atsName, company, jobID, err)
	}
	return nil
}

// GetPostings loads the title and raw description for the given job IDs,
// in the order requested. IDs with no stored row are silently skipped.
func (db *DB) GetPostings(ctx context.Context, atsName, company string, jobIDs []string) ([]Posting, error) {
	query := `
		SELECT job_id, title, raw_description
		FROM jobs
		WHERE ats = $1 AND company = $2 AND job_id = ANY($3)`

	rows, err := db.pool.Query(ctx, query, atsName, company, jobIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load postings for %s/%s: %w", atsName, company, err)
	}
	defer rows.Close()

	byID := make(map[string]Posting, len(jobIDs))
	for rows.Next() {
		var p Posting
		if err := rows.Scan(&p.JobID, &p.Title, &p.RawDescription); err != nil {
			return nil, fmt.Errorf("failed to scan posting: %w", err)
		}
		byID[p.JobID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read postings: %w", err)
	}

	out := make([]Posting, 0, len(jobIDs))
	for _, id := range jobIDs {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// FilterUnparsed returns the subset of the given job IDs whose extraction is
// still pending, preserving input order. Already-parsed and permanently
// failed postings are excluded so re-fetch cycles do not re-spend LLM calls.
func (db *DB) FilterUnparsed(ctx context.Context, atsName, company string, jobIDs []string) ([]string, error) {
	query := `
		SELECT job_id FROM jobs
		WHERE ats = $1 AND company = $2 AND job_id = ANY($3) AND extraction_status = $4`

	rows, err := db.pool.Query(ctx, query, atsName, company, jobIDs, StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to filter unparsed jobs for %s/%s: %w", atsName, company, err)
	}
	defer rows.Close()

	pending := make(map[string]bool, len(jobIDs))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan job id: %w", err)
		}
		pending[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read job ids: %w", err)
	}

	var out []string
	for _, id := range jobIDs {
		if pending[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

// ListJobFacts loads the aggregation inputs for every stored posting of a
// company, parsed or not.
func (db *DB) ListJobFacts(ctx context.Context, atsName, company string) ([]profile.JobFacts, error) {
	query := `
		SELECT extraction_status, department, seniority, remote_policy, tech_stack, skills, pain_points
		FROM jobs
		WHERE ats = $1 AND company = $2`

	rows, err := db.pool.Query(ctx, query, atsName, company)
	if err != nil {
		return nil, fmt.Errorf("failed to load job facts for %s/%s: %w", atsName, company, err)
	}
	defer rows.Close()

	var facts []profile.JobFacts
	for rows.Next() {
		var status string
		var department, seniority, remote *string
		var techStack, skills, painPoints []string
		if err := rows.Scan(&status, &department, &seniority, &remote, &techStack, &skills, &painPoints); err != nil {
			return nil, fmt.Errorf("failed to scan job facts: %w", err)
		}
		f := profile.JobFacts{
			Parsed:     status == StatusSuccess,
			TechStack:  techStack,
			Skills:     skills,
			PainPoints: painPoints,
		}
		if department != nil {
			f.Department = *department
		}
		if seniority != nil {
			f.Seniority = *seniority
		}
		if remote != nil {
			f.RemotePolicy = *remote
		}
		facts = append(facts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read job facts: %w", err)
	}
	return facts, nil
}

// Summarize returns per-platform job counts for the status command.
func (db *DB) Summarize(ctx context.Context) ([]PlatformSummary, error) {
	query := `
		SELECT ats,
			COUNT(DISTINCT company),
			COUNT(*),
			COUNT(*) FILTER (WHERE extraction_status = 'success'),
			COUNT(*) FILTER (WHERE extraction_status = 'failed')
		FROM jobs
		GROUP BY ats
		ORDER BY ats`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize jobs: %w", err)
	}
	defer rows.Close()

	var out []PlatformSummary
	for rows.Next() {
		var s PlatformSummary
		if err := rows.Scan(&s.ATS, &s.Companies, &s.Jobs, &s.Parsed, &s.Failed); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read summary: %w", err)
	}
	return out, nil
}
