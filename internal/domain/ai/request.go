package ai

import (
	"encoding/base64"
	"strings"
)

const (
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 1024
)

// Options are the tunable generation parameters. Zero values mean defaults.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// Request is the outbound analysis payload: canonical base64 image,
// the fixed instruction text and resolved generation options.
type Request struct {
	ImageB64    string
	Instruction string
	Temperature float64
	MaxTokens   int
}

// EncodeImage builds a Request from raw image bytes. Pure.
func EncodeImage(data []byte, instruction string, opts Options) (Request, error) {
	if len(data) == 0 {
		return Request{}, ErrEmptyImage
	}
	return newRequest(base64.StdEncoding.EncodeToString(data), instruction, opts), nil
}

// EncodeImageBase64 builds a Request from an already-encoded image.
// A data-URL prefix ("data:image/jpeg;base64,...") is stripped before use.
func EncodeImageBase64(b64 string, instruction string, opts Options) (Request, error) {
	if strings.HasPrefix(b64, "data:") {
		if _, rest, ok := strings.Cut(b64, ","); ok {
			b64 = rest
		}
	}
	b64 = strings.TrimSpace(b64)
	if b64 == "" {
		return Request{}, ErrEmptyImage
	}
	if _, err := base64.StdEncoding.DecodeString(b64); err != nil {
		return Request{}, ErrInvalidImage
	}
	return newRequest(b64, instruction, opts), nil
}

func newRequest(b64, instruction string, opts Options) Request {
	if opts.Temperature == 0 {
		opts.Temperature = DefaultTemperature
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	return Request{
		ImageB64:    b64,
		Instruction: instruction,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
}
