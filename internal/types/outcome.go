package types

// Outcome tags how a remote call was resolved
type Outcome string

const (
	// OutcomeSuccess means the remote service answered with a 2xx response
	OutcomeSuccess Outcome = "success"
	// OutcomeFallback means the remote call failed and fallback data was served
	OutcomeFallback Outcome = "fallback"
	// OutcomeFailure means the remote call failed and no fallback value existed
	OutcomeFailure Outcome = "failure"
)

func (o Outcome) String() string {
	return string(o)
}

// IsDegraded reports whether the value did not come from the remote service
func (o Outcome) IsDegraded() bool {
	return o != OutcomeSuccess
}
