package v2

import (
	"fmt"
	"strings"
)

//
// APIError represents a call that the Walutomat v2 API answered with an unsuccessful result. The
// client itself never returns one; it is produced by Result.Err for callers that prefer to treat
// rejections as errors.
//
type APIError struct {
	Details []ErrorDetail
}

//
// Keys returns the machine-readable keys of every error detail (e.g. "INSUFFICIENT_FUNDS").
//
func (o *APIError) Keys() []string {
	keys := make([]string, 0, len(o.Details))

	for _, d := range o.Details {
		keys = append(keys, d.Key)
	}

	return keys
}

func (o *APIError) Error() string {
	if !o.populated() {
		return "the Walutomat endpoint rejected the request without giving a reason"
	}

	parts := make([]string, 0, len(o.Details))

	for _, d := range o.Details {
		parts = append(parts, fmt.Sprintf("%s: %s", d.Key, d.Description))
	}

	return fmt.Sprintf("the Walutomat endpoint rejected the request (%s)", strings.Join(parts, "; "))
}

//
// populated returns whether or not the structure actually holds any error details.
//
func (o *APIError) populated() bool {
	return len(o.Details) > 0
}
