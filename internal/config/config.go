// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
// Provider credentials are optional: a missing credential disables the
// corresponding adapter rather than failing startup, and the affected routes
// report the missing configuration at call time.
type Config struct {
	ListenAddr string
	DBPath     string
	// BaseURL is the externally reachable URL of this service, used to build
	// the checkout success and cancel redirect URLs.
	BaseURL string

	OpenAIKey   string
	OpenAIModel string

	StripeKey     string
	StripePriceID string

	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string
	// WhatsAppTo is the fixed recipient of the /whatsapp relay endpoint.
	WhatsAppTo string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
}

// HasOpenAI reports whether the completion adapter can be created.
func (c *Config) HasOpenAI() bool {
	return c.OpenAIKey != ""
}

// HasStripe reports whether the billing adapter can be created.
func (c *Config) HasStripe() bool {
	return c.StripeKey != ""
}

// HasTwilio reports whether the WhatsApp messenger adapter can be created.
func (c *Config) HasTwilio() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioWhatsAppFrom != ""
}

// HasSMTP reports whether the outbound mailer adapter can be created.
func (c *Config) HasSMTP() bool {
	return c.SMTPHost != "" && c.MailFrom != ""
}

// Load reads configuration from environment variables and returns a validated
// Config. A .env file in the working directory is merged in first when present
// (variables already set in the environment win). Optional variables with
// defaults: CHATGATE_LISTEN_ADDR (127.0.0.1:8080), CHATGATE_DB_PATH
// (chatgate.db), CHATGATE_BASE_URL (http://<listen addr>), OPENAI_MODEL
// (gpt-4), SMTP_PORT (587).
func Load() (*Config, error) {
	// godotenv never overrides variables already present in the environment.
	_ = godotenv.Load(".env")

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("CHATGATE_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "chatgate.db"
	if v, ok := os.LookupEnv("CHATGATE_DB_PATH"); ok {
		dbPath = v
	}

	baseURL := "http://" + listenAddr
	if v, ok := os.LookupEnv("CHATGATE_BASE_URL"); ok {
		baseURL = v
	}

	model := "gpt-4"
	if v, ok := os.LookupEnv("OPENAI_MODEL"); ok {
		model = v
	}

	smtpPort := 587
	if v, ok := os.LookupEnv("SMTP_PORT"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SMTP_PORT has invalid value %q: %w", v, err)
		}
		smtpPort = parsed
	}

	return &Config{
		ListenAddr:         listenAddr,
		DBPath:             dbPath,
		BaseURL:            baseURL,
		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        model,
		StripeKey:          os.Getenv("STRIPE_SECRET_KEY"),
		StripePriceID:      os.Getenv("STRIPE_PRICE_ID"),
		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppFrom: os.Getenv("TWILIO_WHATSAPP_FROM"),
		WhatsAppTo:         os.Getenv("CHATGATE_WHATSAPP_TO"),
		SMTPHost:           os.Getenv("SMTP_HOST"),
		SMTPPort:           smtpPort,
		SMTPUsername:       os.Getenv("SMTP_USERNAME"),
		SMTPPassword:       os.Getenv("SMTP_PASSWORD"),
		MailFrom:           os.Getenv("MAIL_FROM"),
	}, nil
}
