package ddns

// BaselineStore defines operations for persisting the confirmed-address
// baseline between reconciliation cycles.
type BaselineStore interface {
	// SaveLastIP records ip as the new baseline. A failure leaves the
	// previously stored document untouched.
	SaveLastIP(ip string) error
}
