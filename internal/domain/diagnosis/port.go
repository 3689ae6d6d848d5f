package diagnosis

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, d *Diagnosis) error
	Get(ctx context.Context, tenant string, id DiagnosisID) (*Diagnosis, error)
	Latest(ctx context.Context, tenant string, limit int) ([]*Diagnosis, error)
	Paginate(ctx context.Context, tenant string, page, pageSize int) ([]*Diagnosis, error)
	Summary(ctx context.Context, tenant string, sinceDays int) (Summary, error)
}

// ImageStore port for persisting the uploaded image bytes
type ImageStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
