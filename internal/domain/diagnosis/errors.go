package diagnosis

import "fmt"

// excerptLen caps how much of the raw reply rides along on a parse failure,
// counted in runes so the cut never splits a multi-byte character.
const excerptLen = 200

// UnparseableResponseError means every parse strategy failed for a reply.
// Excerpt holds at most the first 200 characters of the raw text.
type UnparseableResponseError struct {
	Excerpt string
}

func (e *UnparseableResponseError) Error() string {
	return fmt.Sprintf("unable to parse model response as JSON: %s...", e.Excerpt)
}

func newUnparseableError(raw string) *UnparseableResponseError {
	if r := []rune(raw); len(r) > excerptLen {
		raw = string(r[:excerptLen])
	}
	return &UnparseableResponseError{Excerpt: raw}
}
