package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/bryanwahyu/leafscan/internal/domain/parsefailures"
)

type ParseFailureRepository struct {
	db *sql.DB
}

func NewParseFailureRepository(db *sql.DB) *ParseFailureRepository {
	return &ParseFailureRepository{db: db}
}

func (r *ParseFailureRepository) Save(ctx context.Context, f *domain.ParseFailure) error {
	const q = `
INSERT INTO leaf_parse_failures
  (tenant_id, diagnosis_id, model, excerpt, created_at)
VALUES ($1,$2,$3,$4,$5)
`
	tenant := stringOrDash(f.TenantID)
	diagnosisID := stringOrDash(f.DiagnosisID)
	excerpt := f.Excerpt
	if strings.TrimSpace(excerpt) == "" {
		excerpt = "-"
	}
	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, tenant, diagnosisID, f.Model, excerpt, created)
	return err
}

func (r *ParseFailureRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.ParseFailure, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, diagnosis_id, model, excerpt, created_at
FROM leaf_parse_failures
WHERE tenant_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.ParseFailure
	for rows.Next() {
		var f domain.ParseFailure
		if err := rows.Scan(&f.ID, &f.TenantID, &f.DiagnosisID, &f.Model, &f.Excerpt, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}
