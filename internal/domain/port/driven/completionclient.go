package driven

import "context"

// CompletionClient defines the driven port for the external completion model.
type CompletionClient interface {
	// Complete submits a fixed two-turn exchange (constant system instruction
	// plus the caller's text) and returns the first generated reply verbatim.
	// No retries, no streaming, no memory across calls.
	Complete(ctx context.Context, userText string) (string, error)
}
