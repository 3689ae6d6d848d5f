package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appdiag "github.com/bryanwahyu/leafscan/internal/application/diagnosis"
	domai "github.com/bryanwahyu/leafscan/internal/domain/ai"
	domain "github.com/bryanwahyu/leafscan/internal/domain/diagnosis"
	"github.com/bryanwahyu/leafscan/internal/middleware"
)

type stubAnalyzer struct {
	reply string
	err   error
}

func (a *stubAnalyzer) Analyze(context.Context, domai.Request) (string, error) {
	return a.reply, a.err
}

type memRepo struct {
	saved []*domain.Diagnosis
}

func (r *memRepo) Save(_ context.Context, d *domain.Diagnosis) error {
	r.saved = append(r.saved, d)
	return nil
}

func (r *memRepo) Get(_ context.Context, tenant string, id domain.DiagnosisID) (*domain.Diagnosis, error) {
	for _, d := range r.saved {
		if d.TenantID == tenant && d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}

func (r *memRepo) Latest(_ context.Context, tenant string, limit int) ([]*domain.Diagnosis, error) {
	return r.saved, nil
}

func (r *memRepo) Paginate(_ context.Context, tenant string, page, pageSize int) ([]*domain.Diagnosis, error) {
	return r.saved, nil
}

func (r *memRepo) Summary(_ context.Context, tenant string, sinceDays int) (domain.Summary, error) {
	return domain.Summary{Total: len(r.saved)}, nil
}

func newTestRouter(analyzer domai.Analyzer, repo domain.Repository) http.Handler {
	svc := appdiag.NewService(analyzer, repo, nil, nil, nil, "analyze", "test-model")
	return NewRouter(svc, nil)
}

func multipartBody(t *testing.T, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="file"; filename="leaf.jpg"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHandleDiagnose_JSONBody(t *testing.T) {
	h := newTestRouter(&stubAnalyzer{reply: `{"disease_detected": true, "disease_type": "fungal", "confidence": 80}`}, &memRepo{})

	body := `{"image_b64": "bGVhZg=="}`
	req := httptest.NewRequest(http.MethodPost, "/v1/acme/diagnoses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var d domain.Diagnosis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, "acme", d.TenantID)
	assert.True(t, d.Result.DiseaseDetected)
	assert.Equal(t, domain.TypeFungal, d.Result.DiseaseType)
	assert.NotNil(t, d.Result.Symptoms)
}

func TestHandleDiagnose_Multipart(t *testing.T) {
	repo := &memRepo{}
	h := newTestRouter(&stubAnalyzer{reply: `{"disease_type": "healthy"}`}, repo)

	buf, ct := multipartBody(t, "image/jpeg", []byte("fake-jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/v1/acme/diagnoses", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, repo.saved, 1)
}

func TestHandleDiagnose_UnsupportedContentType(t *testing.T) {
	h := newTestRouter(&stubAnalyzer{reply: `{}`}, &memRepo{})

	buf, ct := multipartBody(t, "application/pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/v1/acme/diagnoses", buf)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDiagnose_EmptyImage(t *testing.T) {
	h := newTestRouter(&stubAnalyzer{reply: `{}`}, &memRepo{})

	req := httptest.NewRequest(http.MethodPost, "/v1/acme/diagnoses", strings.NewReader(`{"image_b64": ""}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDiagnose_JSONBodyTooLarge(t *testing.T) {
	h := newTestRouter(&stubAnalyzer{reply: `{}`}, &memRepo{})

	huge := `{"image_b64": "` + strings.Repeat("QUFB", middleware.MaxImageBytes/2) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/acme/diagnoses", strings.NewReader(huge))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDiagnose_UnparseableReply(t *testing.T) {
	h := newTestRouter(&stubAnalyzer{reply: "I cannot analyze this image."}, &memRepo{})

	req := httptest.NewRequest(http.MethodPost, "/v1/acme/diagnoses", strings.NewReader(`{"image_b64": "bGVhZg=="}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "unable to parse")
}

func TestHandleDiagnose_QuotaExceeded(t *testing.T) {
	h := newTestRouter(&stubAnalyzer{err: domai.ErrQuotaExceeded}, &memRepo{})

	req := httptest.NewRequest(http.MethodPost, "/v1/acme/diagnoses", strings.NewReader(`{"image_b64": "bGVhZg=="}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestHandleGet_NotFound(t *testing.T) {
	h := newTestRouter(&stubAnalyzer{}, &memRepo{})

	req := httptest.NewRequest(http.MethodGet, "/v1/acme/diagnoses/a3bb189e-8bf9-3888-9912-ace4e6543002", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGet_InvalidID(t *testing.T) {
	h := newTestRouter(&stubAnalyzer{}, &memRepo{})

	req := httptest.NewRequest(http.MethodGet, "/v1/acme/diagnoses/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleLatestAndSummary(t *testing.T) {
	repo := &memRepo{}
	h := newTestRouter(&stubAnalyzer{reply: `{"disease_type": "healthy"}`}, repo)

	req := httptest.NewRequest(http.MethodPost, "/v1/acme/diagnoses", strings.NewReader(`{"image_b64": "bGVhZg=="}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/acme/diagnoses/latest", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []*domain.Diagnosis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/acme/summary?days=30", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var s domain.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, 1, s.Total)
}

func TestIndexPage(t *testing.T) {
	h := newTestRouter(&stubAnalyzer{}, &memRepo{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Leaf Disease")
}
