package model

// Chat message roles as defined by the completions API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single turn in a completion exchange.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
