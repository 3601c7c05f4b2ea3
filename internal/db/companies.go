package db

import (
	"context"
	"fmt"
)

// UpsertCompany adds a company to the registry or refreshes its display
// name and active flag.
func (db *DB) UpsertCompany(ctx context.Context, c Company) error {
	query := `
		INSERT INTO companies (ats, slug, display_name, active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ats, slug) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			active = EXCLUDED.active`

	if _, err := db.pool.Exec(ctx, query, c.ATS, c.Slug, c.DisplayName, c.Active); err != nil {
		return fmt.Errorf("failed to upsert company %s/%s: %w", c.ATS, c.Slug, err)
	}
	return nil
}

// ListActiveCompanies returns every registry entry with active = true,
// ordered for stable dispatch.
func (db *DB) ListActiveCompanies(ctx context.Context) ([]Company, error) {
	query := `
		SELECT ats, slug, display_name, active, added_at
		FROM companies
		WHERE active
		ORDER BY ats, slug`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var out []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ATS, &c.Slug, &c.DisplayName, &c.Active, &c.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read companies: %w", err)
	}
	return out, nil
}
