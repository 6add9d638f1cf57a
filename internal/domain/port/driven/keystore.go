package driven

import "context"

// KeyStore defines the driven port for API key persistence. Writes are
// durable and visible to an immediately following read: issuance in one
// request is validated by the next.
type KeyStore interface {
	// Upsert stores or replaces the API key for the given email. Replacing
	// silently invalidates any previously issued key for that email.
	Upsert(ctx context.Context, email, apiKey string) error

	// LookupEmail returns the email an API key was issued to.
	// Returns ("", nil) if the key is not in the store.
	LookupEmail(ctx context.Context, apiKey string) (string, error)
}
