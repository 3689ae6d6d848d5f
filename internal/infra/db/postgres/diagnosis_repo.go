package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	domain "github.com/bryanwahyu/leafscan/internal/domain/diagnosis"
)

type DiagnosisRepository struct {
	db *sql.DB
}

func NewDiagnosisRepository(db *sql.DB) *DiagnosisRepository {
	return &DiagnosisRepository{db: db}
}

// Save inserts or updates a diagnosis record
func (r *DiagnosisRepository) Save(ctx context.Context, d *domain.Diagnosis) error {
	const q = `
INSERT INTO leaf_diagnoses
  (id, tenant_id, requested_at, model, image_url,
   disease_detected, disease_type, severity, confidence,
   pest_detected, pest_confidence,
   result_json, duration_ms)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (id) DO UPDATE SET
  image_url=EXCLUDED.image_url,
  disease_detected=EXCLUDED.disease_detected,
  disease_type=EXCLUDED.disease_type,
  severity=EXCLUDED.severity,
  confidence=EXCLUDED.confidence,
  pest_detected=EXCLUDED.pest_detected,
  pest_confidence=EXCLUDED.pest_confidence,
  result_json=EXCLUDED.result_json,
  duration_ms=EXCLUDED.duration_ms;
`
	tenant := stringOrDash(d.TenantID)
	requested := d.RequestedAt
	if requested.IsZero() {
		requested = time.Now()
	}
	resultJSON, err := json.Marshal(d.Result)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, q,
		d.ID, tenant, requested, d.Model, d.ImageURL,
		d.Result.DiseaseDetected, string(d.Result.DiseaseType), string(d.Result.Severity), d.Result.Confidence,
		d.Result.PestDetected, d.Result.PestConfidence,
		string(resultJSON), d.DurationMS,
	)
	return err
}

func (r *DiagnosisRepository) Get(ctx context.Context, tenant string, id domain.DiagnosisID) (*domain.Diagnosis, error) {
	const q = `
SELECT id, tenant_id, requested_at, model, image_url, result_json, duration_ms
FROM leaf_diagnoses
WHERE tenant_id=$1 AND id=$2 LIMIT 1;
`
	return scanDiagnosis(r.db.QueryRowContext(ctx, q, tenant, id))
}

func (r *DiagnosisRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Diagnosis, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, requested_at, model, image_url, result_json, duration_ms
FROM leaf_diagnoses
WHERE tenant_id=$1 ORDER BY requested_at DESC, id DESC LIMIT $2;
`
	return r.queryDiagnoses(ctx, q, tenant, limit)
}

func (r *DiagnosisRepository) Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*domain.Diagnosis, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, tenant_id, requested_at, model, image_url, result_json, duration_ms
FROM leaf_diagnoses
WHERE tenant_id=$1
ORDER BY requested_at DESC, id DESC
LIMIT $2 OFFSET $3;
`
	return r.queryDiagnoses(ctx, q, tenant, pageSize, offset)
}

func (r *DiagnosisRepository) Summary(ctx context.Context, tenant string, sinceDays int) (domain.Summary, error) {
	if sinceDays <= 0 {
		sinceDays = 7
	}
	const q = `
SELECT
  COUNT(*),
  COALESCE(SUM(CASE WHEN disease_detected THEN 1 ELSE 0 END), 0),
  COALESCE(SUM(CASE WHEN disease_type = 'healthy' THEN 1 ELSE 0 END), 0),
  COALESCE(SUM(CASE WHEN pest_detected THEN 1 ELSE 0 END), 0),
  COALESCE(SUM(CASE WHEN disease_type = 'invalid_image' THEN 1 ELSE 0 END), 0)
FROM leaf_diagnoses
WHERE tenant_id=$1 AND requested_at >= NOW() - ($2 || ' days')::interval;
`
	var s domain.Summary
	err := r.db.QueryRowContext(ctx, q, tenant, sinceDays).Scan(
		&s.Total, &s.Diseased, &s.Healthy, &s.PestsFound, &s.InvalidImgs,
	)
	return s, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDiagnosis(row rowScanner) (*domain.Diagnosis, error) {
	var d domain.Diagnosis
	var resultJSON string
	if err := row.Scan(&d.ID, &d.TenantID, &d.RequestedAt, &d.Model, &d.ImageURL, &resultJSON, &d.DurationMS); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(resultJSON), &d.Result); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DiagnosisRepository) queryDiagnoses(ctx context.Context, q string, args ...any) ([]*domain.Diagnosis, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Diagnosis
	for rows.Next() {
		d, err := scanDiagnosis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
