package database

import (
	"context"
	"fmt"

	"github.com/foxxcyber/price-watch/internal/models"
)

// FindAllScripts returns every extraction rule in creation order
func (db *DB) FindAllScripts(ctx context.Context) ([]*models.Script, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, pattern, script, created_at
		FROM scripts
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query scripts: %w", err)
	}
	defer rows.Close()

	var scripts []*models.Script
	for rows.Next() {
		s := &models.Script{}
		if err := rows.Scan(&s.ID, &s.Pattern, &s.Script, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan script: %w", err)
		}
		scripts = append(scripts, s)
	}

	return scripts, rows.Err()
}

// SaveScript appends a new extraction rule
func (db *DB) SaveScript(ctx context.Context, script *models.Script) error {
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO scripts (pattern, script, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`, script.Pattern, script.Script).Scan(&script.ID, &script.CreatedAt)
	if err != nil {
		return fmt.Errorf("save script: %w", err)
	}

	return nil
}

// CountScripts returns the number of extraction rules
func (db *DB) CountScripts(ctx context.Context) (int, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM scripts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count scripts: %w", err)
	}
	return count, nil
}
