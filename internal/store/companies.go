package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/starford/notepad/internal/apperr"
	"github.com/starford/notepad/internal/models"
)

// NameKey normalizes a company name for matching: surrounding whitespace is
// dropped and case is folded.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// UpsertCompany returns the company whose normalized name matches name,
// creating it when absent.
func (db *DB) UpsertCompany(ctx context.Context, name string) (models.Company, error) {
	key := NameKey(name)
	if key == "" {
		return models.Company{}, fmt.Errorf("store: upsert company: name is empty: %w", apperr.ErrInvalid)
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO companies (id, name, name_key) VALUES (?, ?, ?)
		ON CONFLICT(name_key) DO NOTHING
	`, uuid.NewString(), strings.TrimSpace(name), key)
	if err != nil {
		return models.Company{}, fmt.Errorf("store: upsert company: %w", err)
	}

	var c models.Company
	err = db.conn.QueryRowContext(ctx, `SELECT id, name FROM companies WHERE name_key = ?`, key).Scan(&c.ID, &c.Name)
	if err != nil {
		return models.Company{}, fmt.Errorf("store: read company: %w", err)
	}
	return c, nil
}

// CompanyIDsByNames returns a map from stored company name to company ID for
// every company whose normalized name matches one of names.
func (db *DB) CompanyIDsByNames(ctx context.Context, names []string) (map[string]string, error) {
	out := make(map[string]string)
	keys := make([]any, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		k := NameKey(n)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name FROM companies WHERE name_key IN (`+placeholders+`)`, keys...)
	if err != nil {
		return nil, fmt.Errorf("store: company ids by names: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[name] = id
	}
	return out, rows.Err()
}
