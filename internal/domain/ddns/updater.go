package ddns

import "context"

// FailureCode classifies why a single account update failed.
type FailureCode string

const (
	FailureAuth        FailureCode = "AUTHENTICATION" // credentials rejected by the provider
	FailureMaintenance FailureCode = "MAINTENANCE"    // provider asks to retry later
	FailureNotFQDN     FailureCode = "NOT_FQDN"       // provider considers a hostname malformed
	FailureNoHost      FailureCode = "NO_HOST"        // hostname unknown to the account
	FailureDNS         FailureCode = "DNS_ERROR"      // provider-side DNS failure
	FailureTransport   FailureCode = "TRANSPORT"      // timeout, connection error or bad HTTP status
	FailureUnknown     FailureCode = "UNKNOWN"        // response matched no known protocol answer
)

// UpdateError describes a classified per-account update failure. The Reason
// is operator-facing text that ends up verbatim in the cycle report.
type UpdateError struct {
	Code   FailureCode
	Reason string
}

func (e *UpdateError) Error() string {
	return e.Reason
}

// Updater defines an interface for pushing a resolved address to a single
// provider account. A nil return covers both "updated" and "already current".
type Updater interface {
	Update(ctx context.Context, account Account, ip string) error
}
