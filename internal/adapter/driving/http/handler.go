// Package httphandler is the HTTP driving adapter. It exposes the checkout,
// chat, and key management endpoints and enforces the payment and API key
// gates in front of the completion backend.
package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/chatgate/chatgate/internal/application"
	"github.com/chatgate/chatgate/internal/domain/model"
	"github.com/chatgate/chatgate/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the JSON API.
//
// billing, completion, and messenger may be nil when the matching provider is
// not configured; endpoints that need them then answer 400 with a
// configuration error instead of panicking.
type Handler struct {
	keys       driven.KeyStore
	issuer     *application.IssuerService
	billing    driven.BillingClient
	completion driven.CompletionClient
	messenger  driven.Messenger
	whatsappTo string
	logger     *slog.Logger
}

// NewHandler creates a Handler with all dependencies.
func NewHandler(
	keys driven.KeyStore,
	issuer *application.IssuerService,
	billing driven.BillingClient,
	completion driven.CompletionClient,
	messenger driven.Messenger,
	whatsappTo string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		keys:       keys,
		issuer:     issuer,
		billing:    billing,
		completion: completion,
		messenger:  messenger,
		whatsappTo: whatsappTo,
		logger:     logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /checkout", h.Checkout)
	mux.HandleFunc("GET /subscribe", h.Subscribe)
	mux.HandleFunc("GET /success", h.Success)
	mux.HandleFunc("GET /subscription_success", h.SubscriptionSuccess)
	mux.HandleFunc("POST /chat", h.Chat)
	mux.HandleFunc("GET /chat", h.ChatUsage)
	mux.HandleFunc("POST /api/chat", h.APIChat)
	mux.HandleFunc("POST /whatsapp", h.WhatsApp)
	mux.HandleFunc("GET /api/validate_key", h.ValidateKey)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// Home answers a liveness probe with a short usage hint.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, InfoResponse{
		Message: "chatgate is running. Visit /checkout or /subscribe to get access.",
	})
}

// Checkout creates a one-time payment checkout session and returns its URL.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	h.createCheckout(w, r, model.CheckoutModePayment)
}

// Subscribe creates a subscription checkout session and returns its URL.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	h.createCheckout(w, r, model.CheckoutModeSubscription)
}

func (h *Handler) createCheckout(w http.ResponseWriter, r *http.Request, mode model.CheckoutMode) {
	if h.billing == nil {
		writeError(w, http.StatusBadRequest, "billing is not configured")
		return
	}

	url, err := h.billing.CreateCheckout(r.Context(), mode)
	if err != nil {
		h.logger.Error("failed to create checkout session", "mode", mode, "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, CheckoutResponse{CheckoutURL: url})
}

// Success verifies a completed one-time payment. The billing provider
// redirects here with the session_id query parameter after checkout.
func (h *Handler) Success(w http.ResponseWriter, r *http.Request) {
	if h.billing == nil {
		writeError(w, http.StatusBadRequest, "billing is not configured")
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	conf := h.billing.ResolvePayment(r.Context(), sessionID)
	if !conf.Granted() {
		writeError(w, http.StatusPaymentRequired, "payment not verified for this session")
		return
	}

	writeJSON(w, http.StatusOK, InfoResponse{
		Message: "Payment confirmed. POST to /chat with your session_id to talk to the model.",
	})
}

// SubscriptionSuccess verifies a completed subscription checkout and issues
// an API key for the billing email. The key is returned in the response and
// also delivered by email.
func (h *Handler) SubscriptionSuccess(w http.ResponseWriter, r *http.Request) {
	if h.billing == nil {
		writeError(w, http.StatusBadRequest, "billing is not configured")
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	conf := h.billing.ResolveSubscription(r.Context(), sessionID)
	if conf.Email == "" {
		writeError(w, http.StatusBadRequest, "could not resolve a billing email for this session")
		return
	}

	apiKey, err := h.issuer.Issue(r.Context(), conf.Email)
	if err != nil {
		h.logger.Error("failed to issue api key", "email", conf.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, SubscriptionSuccessResponse{
		Message: "Subscription confirmed. Your API key has been emailed to " + conf.Email + ".",
		APIKey:  apiKey,
	})
}

// Chat forwards the caller's message to the completion backend. Access is
// gated on a paid one-time checkout reference passed as the session_id query
// parameter; the gate runs before the body is read.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusPaymentRequired, "payment required: pass your checkout session_id")
		return
	}

	if h.billing == nil {
		writeError(w, http.StatusBadRequest, "billing is not configured")
		return
	}

	conf := h.billing.ResolvePayment(r.Context(), sessionID)
	if !conf.Granted() {
		writeError(w, http.StatusPaymentRequired, "payment not verified for this session")
		return
	}

	h.complete(w, r)
}

// ChatUsage tells browser visitors how to call the chat endpoint.
func (h *Handler) ChatUsage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, InfoResponse{
		Message: `Send a POST request with a JSON body {"message": "..."} and your session_id query parameter.`,
	})
}

// APIChat forwards the caller's message to the completion backend. Access is
// gated on the X-API-KEY header; the gate runs before the body is read.
func (h *Handler) APIChat(w http.ResponseWriter, r *http.Request) {
	apiKey := r.Header.Get("X-API-KEY")
	if apiKey == "" {
		writeError(w, http.StatusUnauthorized, "missing X-API-KEY header")
		return
	}

	email, err := h.keys.LookupEmail(r.Context(), apiKey)
	if err != nil {
		h.logger.Error("failed to look up api key", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if email == "" {
		writeError(w, http.StatusUnauthorized, "invalid API key")
		return
	}

	h.complete(w, r)
}

// complete reads the chat body, validates it, and runs the completion call.
// Callers have already passed their gate.
func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	if h.completion == nil {
		writeError(w, http.StatusBadRequest, "completion backend is not configured")
		return
	}

	reply, err := h.completion.Complete(r.Context(), req.Message)
	if err != nil {
		h.logger.Error("completion call failed", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Response: reply})
}

// WhatsApp runs the caller's message through the completion backend and
// relays the reply to the configured WhatsApp recipient. The HTTP response
// only acknowledges the relay; the generated text travels over WhatsApp.
func (h *Handler) WhatsApp(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	if h.completion == nil {
		writeError(w, http.StatusBadRequest, "completion backend is not configured")
		return
	}
	if h.messenger == nil || h.whatsappTo == "" {
		writeError(w, http.StatusBadRequest, "messaging is not configured")
		return
	}

	reply, err := h.completion.Complete(r.Context(), req.Message)
	if err != nil {
		h.logger.Error("completion call failed", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.messenger.Send(r.Context(), h.whatsappTo, reply); err != nil {
		h.logger.Error("whatsapp relay failed", "to", h.whatsappTo, "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Response: "Message sent!"})
}

// ValidateKey checks an X-API-KEY header and reports the account it belongs
// to without consuming a completion.
func (h *Handler) ValidateKey(w http.ResponseWriter, r *http.Request) {
	apiKey := r.Header.Get("X-API-KEY")
	if apiKey == "" {
		writeError(w, http.StatusUnauthorized, "missing X-API-KEY header")
		return
	}

	email, err := h.keys.LookupEmail(r.Context(), apiKey)
	if err != nil {
		h.logger.Error("failed to look up api key", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if email == "" {
		writeError(w, http.StatusUnauthorized, "invalid API key")
		return
	}

	writeJSON(w, http.StatusOK, ValidateKeyResponse{
		Message: "API key is valid",
		Email:   email,
	})
}
