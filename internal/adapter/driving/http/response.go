package httphandler

import (
	"encoding/json"
	"net/http"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// InfoResponse is a plain informational message body.
type InfoResponse struct {
	Message string `json:"message"`
}

// CheckoutResponse carries the provider-hosted checkout page URL.
type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

// ChatRequest is the JSON body of the chat endpoints.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the completion reply.
type ChatResponse struct {
	Response string `json:"response"`
}

// SubscriptionSuccessResponse carries a freshly issued API key. The same key
// is also delivered to the billing email.
type SubscriptionSuccessResponse struct {
	Message string `json:"message"`
	APIKey  string `json:"api_key"`
}

// ValidateKeyResponse echoes the account an API key belongs to.
type ValidateKeyResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}
