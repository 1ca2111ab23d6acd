package notify

import (
	"context"
	"fmt"
	"time"

	domainNotify "ddns_update_client/internal/domain/notify"
	"ddns_update_client/internal/infra/store"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"
)

// smtpTimeout bounds the whole dial-auth-send conversation.
const smtpTimeout = 30 * time.Second

// maxSendRetries caps re-attempts against a transiently failing relay.
const maxSendRetries = 2

// implicitTLSPort starts encrypted instead of upgrading via STARTTLS.
const implicitTLSPort = 465

// EmailNotifier delivers cycle reports through an SMTP relay.
type EmailNotifier struct {
	cfg *store.SMTPSettings
	log *logrus.Entry
}

func NewEmailNotifier(cfg *store.SMTPSettings, log *logrus.Entry) *EmailNotifier {
	return &EmailNotifier{cfg: cfg, log: log}
}

// Send implements notify.Notifier.
func (n *EmailNotifier) Send(ctx context.Context, msg domainNotify.Message) error {
	m := mail.NewMsg()
	if err := m.From(n.cfg.Sender); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(n.cfg.Receiver); err != nil {
		return fmt.Errorf("invalid receiver address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	client, err := n.newClient()
	if err != nil {
		return fmt.Errorf("building smtp client: %w", err)
	}

	send := func() error { return client.DialAndSendWithContext(ctx, m) }
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxSendRetries), ctx)
	if err := backoff.Retry(send, policy); err != nil {
		return fmt.Errorf("sending mail through %s: %w", n.cfg.Server, err)
	}
	n.log.Infof("notification mail sent to %s", n.cfg.Receiver)
	return nil
}

func (n *EmailNotifier) newClient() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(n.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.cfg.Username),
		mail.WithPassword(n.cfg.Password),
		mail.WithTimeout(smtpTimeout),
	}
	ssl, policy := tlsMode(n.cfg)
	if ssl {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(policy))
	}
	return mail.NewClient(n.cfg.Server, opts...)
}

// tlsMode picks the transport encryption: implicit TLS on the dedicated
// port, otherwise STARTTLS unless the operator turned it off.
func tlsMode(cfg *store.SMTPSettings) (ssl bool, policy mail.TLSPolicy) {
	if cfg.Port == implicitTLSPort {
		return true, mail.TLSMandatory
	}
	if cfg.TLSEnabled() {
		return false, mail.TLSOpportunistic
	}
	return false, mail.NoTLS
}
