// Package application holds the use-case services that sit between the HTTP
// handlers and the driven ports.
package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/chatgate/chatgate/internal/domain/port/driven"
)

// keyBytes is the entropy of an issued API key: 16 random bytes rendered as
// 32 hex characters.
const keyBytes = 16

// IssuerService generates API keys, persists them, and delivers them to the
// account owner by email.
type IssuerService struct {
	keys   driven.KeyStore
	mailer driven.Mailer
	logger *slog.Logger
}

// NewIssuerService creates an IssuerService. mailer may be nil when outbound
// mail is not configured; issuance then skips delivery.
func NewIssuerService(keys driven.KeyStore, mailer driven.Mailer, logger *slog.Logger) *IssuerService {
	return &IssuerService{
		keys:   keys,
		mailer: mailer,
		logger: logger,
	}
}

// Issue generates a fresh API key for email, persists it, and emails it to
// the account owner. The returned key is exactly the persisted one. Issuing
// again for the same email replaces the previous key.
//
// Mail delivery is best effort: a delivery failure is logged and does not
// roll back issuance or fail the call.
func (s *IssuerService) Issue(ctx context.Context, email string) (string, error) {
	buf := make([]byte, keyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	apiKey := hex.EncodeToString(buf)

	if err := s.keys.Upsert(ctx, email, apiKey); err != nil {
		return "", fmt.Errorf("persist api key: %w", err)
	}

	if s.mailer == nil {
		s.logger.Info("mailer not configured, skipping api key delivery", "email", email)
		return apiKey, nil
	}

	if err := s.mailer.SendAPIKey(ctx, email, apiKey); err != nil {
		s.logger.Error("api key mail delivery failed", "email", email, "error", err)
	}

	return apiKey, nil
}
