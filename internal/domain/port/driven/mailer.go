package driven

import "context"

// Mailer defines the driven port for outbound email delivery.
type Mailer interface {
	// SendAPIKey emails a freshly issued API key to its account owner.
	SendAPIKey(ctx context.Context, toEmail, apiKey string) error
}
