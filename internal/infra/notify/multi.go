package notify

import (
	"context"
	"errors"

	domainNotify "ddns_update_client/internal/domain/notify"

	"github.com/sirupsen/logrus"
)

// Multi fans one message out to every configured channel. Channels fail
// independently; one broken relay must not silence the others.
type Multi struct {
	channels []domainNotify.Notifier
	log      *logrus.Entry
}

func NewMulti(log *logrus.Entry, channels ...domainNotify.Notifier) *Multi {
	return &Multi{channels: channels, log: log}
}

// Send implements notify.Notifier.
func (m *Multi) Send(ctx context.Context, msg domainNotify.Message) error {
	if len(m.channels) == 0 {
		m.log.Warn("no notification channel configured, report not delivered")
		return nil
	}

	var errs []error
	for _, ch := range m.channels {
		if err := ch.Send(ctx, msg); err != nil {
			m.log.Errorf("notification channel failed: %v", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
