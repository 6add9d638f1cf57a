package driven

import "context"

// Messenger defines the driven port for the outbound messaging provider.
type Messenger interface {
	// Send delivers body to the given recipient number.
	Send(ctx context.Context, to, body string) error
}
