package errors

import "net/http"

// Pre-defined pipeline errors. These are the failure modes the generation
// pipeline distinguishes for callers; per-URL fetch failures are absorbed by
// the dispatcher and never reach this level.

var (
	// ErrPlanLimitExceeded is fatal to the whole fetch batch. It carries a
	// fixed, human-actionable message so the frontend can show a specific
	// remediation instead of a generic failure banner.
	ErrPlanLimitExceeded = &AppError{
		Type:       ErrorTypePlanLimit,
		Code:       "SCRAPE_PLAN_LIMIT",
		Message:    "The scraping provider rejected the request due to a concurrency or plan limit. Lower SCRAPE_MAX_CONCURRENCY to 1 or upgrade the provider plan, then try again.",
		HTTPStatus: http.StatusTooManyRequests,
	}

	// ErrEmptyResultSet is surfaced when every candidate URL failed with
	// ordinary errors or was filtered out, leaving nothing to synthesize from.
	ErrEmptyResultSet = &AppError{
		Type:       ErrorTypeEmpty,
		Code:       "NO_USABLE_SOURCES",
		Message:    "No usable source documents could be fetched for this topic",
		HTTPStatus: http.StatusUnprocessableEntity,
	}

	// ErrMalformedSynthesis is surfaced when the synthesis payload fails
	// structural validation. It is not retried automatically.
	ErrMalformedSynthesis = &AppError{
		Type:       ErrorTypeSynthesis,
		Code:       "MALFORMED_SYNTHESIS",
		Message:    "The synthesis step returned a structurally invalid node set",
		HTTPStatus: http.StatusBadGateway,
	}
)

// IsPlanLimit reports whether err resolves to the plan-limit failure mode
func IsPlanLimit(err error) bool {
	return IsType(err, ErrorTypePlanLimit)
}

// IsEmptyResultSet reports whether err resolves to the empty-result failure mode
func IsEmptyResultSet(err error) bool {
	return IsType(err, ErrorTypeEmpty)
}

// IsMalformedSynthesis reports whether err resolves to the synthesis failure mode
func IsMalformedSynthesis(err error) bool {
	return IsType(err, ErrorTypeSynthesis)
}
