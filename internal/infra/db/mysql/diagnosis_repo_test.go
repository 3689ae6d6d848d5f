package mysql

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/leafscan/internal/domain/diagnosis"
)

func sampleDiagnosis() *domain.Diagnosis {
	name := "Early Blight"
	return &domain.Diagnosis{
		ID:          "d-1",
		TenantID:    "acme",
		RequestedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Model:       "llama-4-scout",
		ImageURL:    "http://images.local/acme/d-1",
		Result: domain.AnalysisResult{
			DiseaseDetected:   true,
			DiseaseName:       &name,
			DiseaseType:       domain.TypeFungal,
			Severity:          domain.SeverityModerate,
			Confidence:        87,
			Symptoms:          []string{"spots"},
			PossibleCauses:    []string{},
			Treatment:         []string{"fungicide"},
			CommonPests:       []string{},
			PestSeverity:      domain.SeverityNone,
			PestSymptoms:      []string{},
			PestTreatment:     []string{},
			AnalysisTimestamp: "2025-06-01T10:00:01Z",
		},
		DurationMS: 1200,
	}
}

func TestDiagnosisRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	d := sampleDiagnosis()
	resultJSON, _ := json.Marshal(d.Result)

	mock.ExpectExec("INSERT INTO leaf_diagnoses").
		WithArgs(
			d.ID, d.TenantID, d.RequestedAt, d.Model, d.ImageURL,
			true, "fungal", "moderate", 87.0,
			false, 0.0,
			string(resultJSON), int64(1200),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewDiagnosisRepository(db)
	require.NoError(t, repo.Save(context.Background(), d))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiagnosisRepository_SaveBlankTenantDefaulted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	d := sampleDiagnosis()
	d.TenantID = "  "
	resultJSON, _ := json.Marshal(d.Result)

	mock.ExpectExec("INSERT INTO leaf_diagnoses").
		WithArgs(
			d.ID, "-", d.RequestedAt, d.Model, d.ImageURL,
			true, "fungal", "moderate", 87.0,
			false, 0.0,
			string(resultJSON), int64(1200),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewDiagnosisRepository(db)
	require.NoError(t, repo.Save(context.Background(), d))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiagnosisRepository_GetRoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	d := sampleDiagnosis()
	resultJSON, _ := json.Marshal(d.Result)

	rows := sqlmock.NewRows([]string{"id", "tenant_id", "requested_at", "model", "image_url", "result_json", "duration_ms"}).
		AddRow(string(d.ID), d.TenantID, d.RequestedAt, d.Model, d.ImageURL, string(resultJSON), d.DurationMS)

	mock.ExpectQuery("SELECT id, tenant_id, requested_at, model, image_url, result_json, duration_ms").
		WithArgs("acme", domain.DiagnosisID("d-1")).
		WillReturnRows(rows)

	repo := NewDiagnosisRepository(db)
	got, err := repo.Get(context.Background(), "acme", "d-1")
	require.NoError(t, err)

	// the result comes back lossless from result_json
	assert.Equal(t, d.Result, got.Result)
	assert.Equal(t, d.ID, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDiagnosisRepository_Summary(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"total", "diseased", "healthy", "pests", "invalid"}).
		AddRow(10, 6, 3, 4, 1)

	mock.ExpectQuery("SELECT").
		WithArgs("acme", 7).
		WillReturnRows(rows)

	repo := NewDiagnosisRepository(db)
	s, err := repo.Summary(context.Background(), "acme", 0) // 0 clamps to 7 days
	require.NoError(t, err)

	assert.Equal(t, domain.Summary{Total: 10, Diseased: 6, Healthy: 3, PestsFound: 4, InvalidImgs: 1}, s)
	assert.NoError(t, mock.ExpectationsWereMet())
}
