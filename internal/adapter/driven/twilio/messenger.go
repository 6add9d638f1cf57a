// Package twilio implements the Messenger port for WhatsApp delivery using
// the twilio-go library.
package twilio

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/chatgate/chatgate/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Messenger = (*Messenger)(nil)

// Messenger sends WhatsApp messages through the Twilio REST API.
type Messenger struct {
	client *twilio.RestClient
	from   string
}

// NewMessenger creates a Messenger authenticated with the given account SID
// and auth token. from is the WhatsApp-enabled sender number.
func NewMessenger(accountSID, authToken, from string) *Messenger {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &Messenger{client: client, from: from}
}

// Send delivers body to the given recipient over WhatsApp. The twilio-go
// message API does not take a context; ctx is accepted to satisfy the port
// and honored only for early cancellation.
func (m *Messenger) Send(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetBody(body)
	params.SetFrom(whatsAppAddr(m.from))
	params.SetTo(whatsAppAddr(to))

	if _, err := m.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}
	return nil
}

// whatsAppAddr prefixes a number with the whatsapp: channel scheme unless it
// already carries one.
func whatsAppAddr(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
