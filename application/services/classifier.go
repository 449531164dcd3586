package services

import "strings"

// FailureClass is the dispatcher's verdict on a fetch failure
type FailureClass int

const (
	// FailureGeneric is an ordinary per-URL failure: logged, the URL is
	// dropped and the batch continues.
	FailureGeneric FailureClass = iota
	// FailurePlanLimit signals a provider-side concurrency or plan
	// restriction and is fatal to the whole batch.
	FailurePlanLimit
)

// planLimitMarkers are substrings that, appearing in a lower-cased failure
// message, signal a provider concurrency/plan restriction.
var planLimitMarkers = []string{
	"concurrent",
	"concurrency",
	"session limit",
	"too many",
	"rate limit",
	"upgrade",
	"plan",
}

// ClassifyFetchError inspects a failure from the scraping backend and decides
// whether it represents a plan/concurrency limit. This is best-effort string
// matching over an opaque message, not a protocol-guaranteed signal: false
// positives and negatives are possible and accepted.
func ClassifyFetchError(err error) FailureClass {
	if err == nil {
		return FailureGeneric
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range planLimitMarkers {
		if strings.Contains(msg, marker) {
			return FailurePlanLimit
		}
	}
	return FailureGeneric
}
