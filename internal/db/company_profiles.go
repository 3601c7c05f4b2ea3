package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/jobradar/internal/config"
	"github.com/jonathan/jobradar/internal/profile"
)

// UpsertProfile replaces the stored aggregate for a company wholesale.
func (db *DB) UpsertProfile(ctx context.Context, atsName, company string, p profile.Profile) error {
	departments, err := json.Marshal(p.Departments)
	if err != nil {
		return fmt.Errorf("failed to encode departments: %w", err)
	}
	seniority, err := json.Marshal(p.SeniorityBreakdown)
	if err != nil {
		return fmt.Errorf("failed to encode seniority breakdown: %w", err)
	}

	query := `
		INSERT INTO company_profiles (
			ats, company, total_jobs, jobs_parsed, parse_rate,
			departments, seniority_breakdown,
			top_tech_stack, top_skills, top_pain_points, hiring_signals, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (ats, company) DO UPDATE SET
			total_jobs = EXCLUDED.total_jobs,
			jobs_parsed = EXCLUDED.jobs_parsed,
			parse_rate = EXCLUDED.parse_rate,
			departments = EXCLUDED.departments,
			seniority_breakdown = EXCLUDED.seniority_breakdown,
			top_tech_stack = EXCLUDED.top_tech_stack,
			top_skills = EXCLUDED.top_skills,
			top_pain_points = EXCLUDED.top_pain_points,
			hiring_signals = EXCLUDED.hiring_signals,
			updated_at = NOW()`

	_, err = db.pool.Exec(ctx, query,
		atsName, company, p.TotalJobs, p.JobsParsed, p.ParseRate,
		departments, seniority,
		p.TopTechStack, p.TopSkills, p.TopPainPoints, p.HiringSignals)
	if err != nil {
		return fmt.Errorf("failed to upsert profile for %s/%s: %w", atsName, company, err)
	}
	return nil
}

// RecomputeCompanyProfile rebuilds a company's aggregate from every stored
// posting and writes it back. The whole profile is derived from scratch on
// each call, so repeated recomputes converge to the same row.
func (db *DB) RecomputeCompanyProfile(ctx context.Context, atsName, company string, thresholds config.SignalThresholds) error {
	facts, err := db.ListJobFacts(ctx, atsName, company)
	if err != nil {
		return err
	}
	return db.UpsertProfile(ctx, atsName, company, profile.Build(facts, thresholds))
}
