package ddns

import "context"

// Resolver defines an interface for discovering the host's current public
// IPv4 address. Implementations are expected to return an address that
// already passed IsValidIPv4.
type Resolver interface {
	Resolve(ctx context.Context) (string, error)
}
