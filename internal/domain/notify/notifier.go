package notify

import "context"

// Message is one operator notification: a short subject plus a plain-text
// body. Channels that have no subject concept fold it into the body.
type Message struct {
	Subject string
	Body    string
}

// Notifier defines an interface for delivering operator notifications.
// This helps in decoupling the reconciliation logic from the specific
// delivery channels (SMTP, Telegram).
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
