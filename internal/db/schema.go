package db

import (
	"context"
	"fmt"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS companies (
	ats             TEXT NOT NULL,
	slug            TEXT NOT NULL,
	display_name    TEXT NOT NULL DEFAULT '',
	active          BOOLEAN NOT NULL DEFAULT TRUE,
	added_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (ats, slug)
);

CREATE TABLE IF NOT EXISTS jobs (
	ats               TEXT NOT NULL,
	company           TEXT NOT NULL,
	job_id            TEXT NOT NULL,
	title             TEXT NOT NULL DEFAULT '',
	url               TEXT NOT NULL DEFAULT '',
	location          TEXT NOT NULL DEFAULT '',
	raw_description   TEXT NOT NULL DEFAULT '',
	scraped_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	department        TEXT,
	seniority         TEXT,
	tech_stack        TEXT[],
	skills            TEXT[],
	pain_points       TEXT[],
	remote_policy     TEXT,
	salary_min        INTEGER,
	salary_max        INTEGER,
	experience_years  INTEGER,
	job_summary       TEXT,
	parsed_at         TIMESTAMPTZ,
	extraction_status TEXT NOT NULL DEFAULT 'pending',
	PRIMARY KEY (ats, company, job_id)
);

CREATE INDEX IF NOT EXISTS idx_jobs_company ON jobs (ats, company);
CREATE INDEX IF NOT EXISTS idx_jobs_pending ON jobs (extraction_status) WHERE extraction_status = 'pending';

CREATE TABLE IF NOT EXISTS company_profiles (
	ats                 TEXT NOT NULL,
	company             TEXT NOT NULL,
	total_jobs          INTEGER NOT NULL DEFAULT 0,
	jobs_parsed         INTEGER NOT NULL DEFAULT 0,
	parse_rate          DOUBLE PRECISION NOT NULL DEFAULT 0,
	departments         JSONB NOT NULL DEFAULT '{}',
	seniority_breakdown JSONB NOT NULL DEFAULT '{}',
	top_tech_stack      TEXT[] NOT NULL DEFAULT '{}',
	top_skills          TEXT[] NOT NULL DEFAULT '{}',
	top_pain_points     TEXT[] NOT NULL DEFAULT '{}',
	hiring_signals      TEXT[] NOT NULL DEFAULT '{}',
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (ats, company)
);
`

// EnsureSchema creates the tables and indexes if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
