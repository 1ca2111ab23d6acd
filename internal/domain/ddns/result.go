package ddns

// UpdateFailure records one account that could not be updated and why.
type UpdateFailure struct {
	Username string
	Reason   string
}

// CycleResult aggregates the per-account outcomes of a single reconciliation
// cycle. It feeds both the operator notification and the persistence decision.
type CycleResult struct {
	PreviousIP   string
	NewIP        string
	Succeeded    []string        // usernames updated (or confirmed unchanged) by the provider
	Failed       []UpdateFailure // accounts the provider or the network rejected
	SkippedCount int             // accounts with incomplete credentials
}

// AllSuccess reports whether the new address may become the cached baseline:
// no attempted account failed and at least one actually succeeded. A cycle in
// which every account was skipped does not count as success.
func (r *CycleResult) AllSuccess() bool {
	return len(r.Failed) == 0 && len(r.Succeeded) > 0
}
