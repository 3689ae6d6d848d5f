package ai

import "context"

// Analyzer port: takes an encoded image request, returns the raw reply text.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (string, error)
}
