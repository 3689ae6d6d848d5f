package diagnosis

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bryanwahyu/leafscan/internal/application"
	domai "github.com/bryanwahyu/leafscan/internal/domain/ai"
	domain "github.com/bryanwahyu/leafscan/internal/domain/diagnosis"
	"github.com/bryanwahyu/leafscan/internal/domain/parsefailures"
)

// Service implements use-cases for leaf diagnosis.
// Safe for concurrent use; each request is an independent pipeline run.
type Service struct {
	analyzer    domai.Analyzer
	repo        domain.Repository
	images      domain.ImageStore
	failures    parsefailures.Repository
	clock       application.Clock
	norm        *domain.Normalizer
	instruction string
	model       string
}

// NewService wires the pipeline. images and failures may be nil (no image
// archiving / no failure audit); everything else is required.
func NewService(analyzer domai.Analyzer, repo domain.Repository, images domain.ImageStore,
	failures parsefailures.Repository, clock application.Clock, instruction, model string) *Service {
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &Service{
		analyzer:    analyzer,
		repo:        repo,
		images:      images,
		failures:    failures,
		clock:       clock,
		norm:        domain.NewNormalizer(clock),
		instruction: instruction,
		model:       model,
	}
}

//
// ==== USE CASES ====
//

// DiagnoseCommand carries one analysis request. Exactly one of ImageBytes
// or ImageB64 must be set.
type DiagnoseCommand struct {
	TenantID    string
	ImageBytes  []byte
	ImageB64    string
	ContentType string
	Temperature float64
	MaxTokens   int
}

// Diagnose runs encode → analyze → normalize → archive → save and returns
// the stored record. Transport/service errors from the analyzer and
// unparseable replies are propagated to the caller; a reply that parses at
// all always yields a complete record.
func (s *Service) Diagnose(ctx context.Context, cmd DiagnoseCommand) (*domain.Diagnosis, error) {
	start := s.clock.Now()
	opts := domai.Options{Temperature: cmd.Temperature, MaxTokens: cmd.MaxTokens}

	var req domai.Request
	var err error
	if len(cmd.ImageBytes) > 0 {
		req, err = domai.EncodeImage(cmd.ImageBytes, s.instruction, opts)
	} else {
		req, err = domai.EncodeImageBase64(cmd.ImageB64, s.instruction, opts)
	}
	if err != nil {
		return nil, err
	}

	id := domain.DiagnosisID(uuid.New().String())

	raw, err := s.analyzer.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := s.norm.Normalize(raw)
	if err != nil {
		s.recordFailure(ctx, cmd.TenantID, string(id), err)
		return nil, err
	}

	var imageURL string
	if s.images != nil && len(cmd.ImageBytes) > 0 {
		contentType := cmd.ContentType
		if contentType == "" {
			contentType = "image/jpeg"
		}
		key := fmt.Sprintf("%s/%s", cmd.TenantID, id)
		imageURL, err = s.images.Upload(ctx, key, cmd.ImageBytes, contentType)
		if err != nil {
			// archiving is best-effort; the diagnosis itself succeeded
			imageURL = ""
		}
	}

	d := &domain.Diagnosis{
		ID:          id,
		TenantID:    cmd.TenantID,
		RequestedAt: start,
		Model:       s.model,
		ImageURL:    imageURL,
		Result:      *result,
		DurationMS:  s.clock.Now().Sub(start).Milliseconds(),
	}
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// recordFailure persists the diagnostic excerpt so parse failures are
// auditable later. Best-effort; the original error is what the caller sees.
func (s *Service) recordFailure(ctx context.Context, tenant, id string, err error) {
	if s.failures == nil {
		return
	}
	var perr *domain.UnparseableResponseError
	if !errors.As(err, &perr) {
		return
	}
	_ = s.failures.Save(ctx, &parsefailures.ParseFailure{
		TenantID:    tenant,
		DiagnosisID: id,
		Model:       s.model,
		Excerpt:     perr.Excerpt,
		CreatedAt:   s.clock.Now(),
	})
}

// Get one diagnosis by id
func (s *Service) Get(ctx context.Context, tenant string, id domain.DiagnosisID) (*domain.Diagnosis, error) {
	return s.repo.Get(ctx, tenant, id)
}

// Latest N diagnoses for a tenant
func (s *Service) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Diagnosis, error) {
	return s.repo.Latest(ctx, tenant, limit)
}

// Paginate diagnoses for a tenant
func (s *Service) Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*domain.Diagnosis, error) {
	return s.repo.Paginate(ctx, tenant, page, pageSize)
}

// Summary over the last N days
func (s *Service) Summary(ctx context.Context, tenant string, sinceDays int) (domain.Summary, error) {
	return s.repo.Summary(ctx, tenant, sinceDays)
}
