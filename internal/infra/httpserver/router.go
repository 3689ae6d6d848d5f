package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appdiag "github.com/bryanwahyu/leafscan/internal/application/diagnosis"
	domai "github.com/bryanwahyu/leafscan/internal/domain/ai"
	domain "github.com/bryanwahyu/leafscan/internal/domain/diagnosis"
	"github.com/bryanwahyu/leafscan/internal/middleware"
)

type Router struct {
	svc *appdiag.Service
}

func NewRouter(svc *appdiag.Service, checkers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{svc: svc}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	mux.Get("/", handleIndex)
	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Post("/diagnoses", r.wrap(r.handleDiagnose))
		rt.Get("/diagnoses/latest", r.wrap(r.handleLatest))
		rt.Get("/diagnoses/{id}", r.wrap(r.handleGet))
		rt.Get("/summary", r.wrap(r.handleSummary))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// statusError lets handlers pick the HTTP status for client mistakes
type statusError struct {
	code int
	msg  string
}

func (e *statusError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &statusError{code: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var se *statusError
			var perr *domain.UnparseableResponseError
			var svcErr *domai.ServiceError
			switch {
			case errors.As(err, &se):
				http.Error(w, se.msg, se.code)
			case errors.Is(err, sql.ErrNoRows):
				http.Error(w, "not found", http.StatusNotFound)
			case errors.Is(err, domai.ErrQuotaExceeded):
				http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
			case errors.Is(err, domai.ErrEmptyImage), errors.Is(err, domai.ErrInvalidImage):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.As(err, &perr):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			case errors.As(err, &svcErr):
				http.Error(w, err.Error(), http.StatusBadGateway)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// POST /v1/{tenant}/diagnoses
// Accepts either multipart/form-data with a "file" part or a JSON body:
// {"image_b64": "...", "temperature": 0.3, "max_tokens": 1024}
func (r *Router) handleDiagnose(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return badRequest("%v", err)
	}

	cmd := appdiag.DiagnoseCommand{TenantID: tenant}

	if strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data") {
		if err := req.ParseMultipartForm(middleware.MaxImageBytes); err != nil {
			return badRequest("invalid multipart form: %v", err)
		}
		file, header, err := req.FormFile("file")
		if err != nil {
			return badRequest("file field is required")
		}
		defer file.Close()

		if err := middleware.ValidateImageContentType(header.Header.Get("Content-Type")); err != nil {
			return badRequest("%v", err)
		}
		data, err := io.ReadAll(io.LimitReader(file, middleware.MaxImageBytes+1))
		if err != nil {
			return err
		}
		if err := middleware.ValidateImageSize(len(data)); err != nil {
			return badRequest("%v", err)
		}
		cmd.ImageBytes = data
		cmd.ContentType = header.Header.Get("Content-Type")
		if v := req.FormValue("temperature"); v != "" {
			cmd.Temperature, _ = strconv.ParseFloat(v, 64)
		}
		if v := req.FormValue("max_tokens"); v != "" {
			cmd.MaxTokens, _ = strconv.Atoi(v)
		}
	} else {
		var body struct {
			ImageB64    string  `json:"image_b64"`
			Temperature float64 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
		}
		// base64 inflates the image ~4/3, so allow 2x the raw cap
		req.Body = http.MaxBytesReader(w, req.Body, 2*middleware.MaxImageBytes)
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			return badRequest("invalid request body: %v", err)
		}
		cmd.ImageB64 = body.ImageB64
		cmd.Temperature = body.Temperature
		cmd.MaxTokens = body.MaxTokens
	}

	middleware.IncrementAnalyses()
	d, err := r.svc.Diagnose(req.Context(), cmd)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		var perr *domain.UnparseableResponseError
		if errors.As(err, &perr) {
			middleware.IncrementParseFailures()
		}
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(d)
}

// GET /v1/{tenant}/diagnoses/latest?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	limit = middleware.ValidateLimit(limit)

	list, err := r.svc.Latest(req.Context(), tenant, limit)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/{tenant}/diagnoses/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateDiagnosisID(id); err != nil {
		return badRequest("%v", err)
	}

	d, err := r.svc.Get(req.Context(), tenant, domain.DiagnosisID(id))
	if err != nil {
		return err
	}
	if d == nil {
		return sql.ErrNoRows
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(d)
}

// GET /v1/{tenant}/summary?days=7
func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	days, _ := strconv.Atoi(req.URL.Query().Get("days"))
	days = middleware.ValidateDays(days)

	summary, err := r.svc.Summary(req.Context(), tenant, days)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(summary)
}
