package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

// MaxImageBytes caps uploads; vision models reject oversized payloads anyway.
const MaxImageBytes = 10 << 20 // 10 MiB

// allowed upload content types
var imageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// ValidateImageContentType checks the uploaded file's declared type
func ValidateImageContentType(ct string) error {
	ct = strings.ToLower(strings.TrimSpace(ct))
	// multipart parts may carry parameters, e.g. "image/jpeg; charset=binary"
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if !imageContentTypes[ct] {
		return fmt.Errorf("unsupported image type: %s (allowed: jpeg, png, webp)", ct)
	}
	return nil
}

// ValidateImageSize rejects empty and oversized payloads
func ValidateImageSize(n int) error {
	if n == 0 {
		return fmt.Errorf("image payload cannot be empty")
	}
	if n > MaxImageBytes {
		return fmt.Errorf("image payload exceeds %d bytes", MaxImageBytes)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateTenantID validates tenant ID format
func ValidateTenantID(tenant string) error {
	if tenant == "" {
		return fmt.Errorf("tenant ID cannot be empty")
	}

	// Allow alphanumeric, dash, underscore (max 64 chars)
	pattern := `^[a-zA-Z0-9_-]{1,64}$`
	matched, _ := regexp.MatchString(pattern, tenant)
	if !matched {
		return fmt.Errorf("invalid tenant ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}

	return nil
}

// ValidateDiagnosisID validates diagnosis ID format (uuid)
func ValidateDiagnosisID(id string) error {
	if id == "" {
		return fmt.Errorf("diagnosis ID cannot be empty")
	}

	pattern := `^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`
	matched, _ := regexp.MatchString(pattern, id)
	if !matched {
		return fmt.Errorf("invalid diagnosis ID format")
	}

	return nil
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidateDays validates days parameter
func ValidateDays(days int) int {
	if days <= 0 {
		return 7 // default
	}
	if days > 365 {
		return 365 // max 1 year
	}
	return days
}
