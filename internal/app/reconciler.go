// internal/app/reconciler.go
package app

import (
	"context"
	"fmt"
	"time"

	"ddns_update_client/internal/domain/ddns"
	domainNotify "ddns_update_client/internal/domain/notify"

	"github.com/sirupsen/logrus"
)

// State carries the only value that survives between reconciliation cycles:
// the address most recently confirmed by the provider, or the sentinel when
// nothing was ever confirmed.
type State struct {
	CachedIP string
}

// HealthMarker records a liveness checkpoint at cycle boundaries.
type HealthMarker interface {
	Mark()
}

// ReconcileService defines the operation driving one full
// detect-compare-update-persist pass.
type ReconcileService interface {
	RunCycle(ctx context.Context, st *State)
}

// ReconcileServiceImpl implements the ReconcileService interface.
type ReconcileServiceImpl struct {
	resolver ddns.Resolver
	updater  ddns.Updater
	notifier domainNotify.Notifier
	baseline ddns.BaselineStore
	health   HealthMarker
	accounts []ddns.Account
	log      *logrus.Entry
}

func NewReconcileServiceImpl(
	resolver ddns.Resolver,
	updater ddns.Updater,
	notifier domainNotify.Notifier,
	baseline ddns.BaselineStore,
	health HealthMarker,
	accounts []ddns.Account,
	log *logrus.Entry,
) *ReconcileServiceImpl {
	return &ReconcileServiceImpl{
		resolver: resolver,
		updater:  updater,
		notifier: notifier,
		baseline: baseline,
		health:   health,
		accounts: accounts,
		log:      log,
	}
}

// RunCycle performs one reconciliation cycle. Every failure mode inside a
// cycle is recoverable and fully handled here; the scheduler keeps running
// whatever happens.
func (s *ReconcileServiceImpl) RunCycle(ctx context.Context, st *State) {
	s.health.Mark()
	defer s.health.Mark()

	// 1. Discover the current public address.
	current, err := s.resolver.Resolve(ctx)
	if err != nil {
		s.log.Errorf("could not determine the public IP, skipping this cycle: %v", err)
		s.notify(ctx, domainNotify.Message{
			Subject: subjectResolveFailed,
			Body:    "All public IP detection services failed. Please check the network connection.",
		})
		return
	}

	// 2. Re-validate before the address reaches the provider or the store.
	if !ddns.IsValidIPv4(current) {
		s.log.Errorf("resolved address %q is not a valid IPv4 address, skipping this cycle", current)
		s.notify(ctx, domainNotify.Message{
			Subject: subjectResolveFailed,
			Body:    fmt.Sprintf("The detected address %q is not a valid IPv4 address.", current),
		})
		return
	}

	// 3. An unchanged address makes the cycle a no-op.
	if current == st.CachedIP {
		s.log.Infof("public IP unchanged (%s), nothing to update", current)
		return
	}
	s.log.Infof("public IP changed from %s to %s", st.CachedIP, current)

	// 4. Update every account independently, then report the aggregate.
	result := s.updateAll(ctx, st.CachedIP, current)
	s.notify(ctx, buildReport(result, time.Now()))

	// 5. Only a fully successful cycle confirms the new baseline.
	if !result.AllSuccess() {
		s.log.Error("not every account was updated, keeping the previous baseline for retry")
		return
	}
	st.CachedIP = current
	if err := s.baseline.SaveLastIP(current); err != nil {
		// The provider already accepted the address, so memory keeps the
		// new value; a restart retries from the stale on-disk copy.
		s.log.Errorf("could not persist the new baseline: %v", err)
	}
	s.log.Infof("all accounts updated to %s", current)
}

func (s *ReconcileServiceImpl) updateAll(ctx context.Context, previous, current string) *ddns.CycleResult {
	result := &ddns.CycleResult{PreviousIP: previous, NewIP: current}
	for _, account := range s.accounts {
		if !account.Complete() {
			s.log.WithField("username", account.Username).Warn("account is missing credentials, skipping")
			result.SkippedCount++
			continue
		}
		log := s.log.WithField("username", account.Username)
		if err := s.updater.Update(ctx, account, current); err != nil {
			log.Errorf("account update failed: %v", err)
			result.Failed = append(result.Failed, ddns.UpdateFailure{Username: account.Username, Reason: err.Error()})
			continue
		}
		log.Info("account updated")
		result.Succeeded = append(result.Succeeded, account.Username)
	}
	return result
}

func (s *ReconcileServiceImpl) notify(ctx context.Context, msg domainNotify.Message) {
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.log.Errorf("could not deliver the notification: %v", err)
	}
}
