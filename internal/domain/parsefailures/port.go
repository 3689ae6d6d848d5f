package parsefailures

import "context"

// Repository defines persistence for parse failures
type Repository interface {
	Save(ctx context.Context, f *ParseFailure) error
	Latest(ctx context.Context, tenant string, limit int) ([]*ParseFailure, error)
}
