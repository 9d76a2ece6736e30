package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the shared prefix for every environment variable the service reads.
const EnvPrefix = "CRAFTLINE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Code2Action selects what the chat command "2" means for a deployment.
type Code2Action string

const (
	Code2ContactInfo Code2Action = "contact_info"
	Code2Confirm     Code2Action = "confirm"
)

// ConfirmsOrder reports whether "2" should be treated as an order confirmation.
func (a Code2Action) ConfirmsOrder() bool {
	return strings.EqualFold(string(a), string(Code2Confirm))
}

type Config struct {
	App      AppConfig
	Seller   SellerConfig
	Buyer    BuyerConfig
	Twilio   TwilioConfig
	Razorpay RazorpayConfig
	Storage  StorageConfig
	Session  SessionConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Seller.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CRAFTLINE_APP_ENV" required:"true"`
	Port         string `envconfig:"CRAFTLINE_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"CRAFTLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CRAFTLINE_LOG_WARN_STACK" default:"false"`
	VerifyToken  string `envconfig:"CRAFTLINE_VERIFY_TOKEN" required:"true"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// SellerConfig identifies the seller behind a deployment. The near-identical
// per-seller deployments differ only in these fields and in Code2.
type SellerConfig struct {
	Address      string      `envconfig:"CRAFTLINE_SELLER_ADDRESS" required:"true"`
	OwnerName    string      `envconfig:"CRAFTLINE_SELLER_OWNER" default:"G.Nikhitha"`
	Location     string      `envconfig:"CRAFTLINE_SELLER_LOCATION" default:"Tadipatri, Anantapur"`
	Phone        string      `envconfig:"CRAFTLINE_SELLER_PHONE" default:"+91 9392811711"`
	Email        string      `envconfig:"CRAFTLINE_SELLER_EMAIL" default:"support@aarticreations.in"`
	WorkingHours string      `envconfig:"CRAFTLINE_SELLER_HOURS" default:"10 AM - 6 PM (Mon - Sat)"`
	Code2        Code2Action `envconfig:"CRAFTLINE_SELLER_CODE2" default:"contact_info"`
}

func (s SellerConfig) validate() error {
	switch Code2Action(strings.ToLower(string(s.Code2))) {
	case Code2ContactInfo, Code2Confirm:
		return nil
	}
	return fmt.Errorf("seller code2 action must be %q or %q", Code2ContactInfo, Code2Confirm)
}

// BuyerConfig holds the display fields stamped on bills until buyer profiles
// exist; the chat channel only identifies buyers by their channel address.
type BuyerConfig struct {
	DefaultName    string `envconfig:"CRAFTLINE_BUYER_DEFAULT_NAME" default:"umesh"`
	DefaultAddress string `envconfig:"CRAFTLINE_BUYER_DEFAULT_ADDRESS" default:"Gorantla, Anantapur"`
}

type TwilioConfig struct {
	AccountSID     string        `envconfig:"CRAFTLINE_TWILIO_ACCOUNT_SID" required:"true"`
	AuthToken      string        `envconfig:"CRAFTLINE_TWILIO_AUTH_TOKEN" required:"true"`
	WhatsAppNumber string        `envconfig:"CRAFTLINE_TWILIO_WHATSAPP_NUMBER" required:"true"`
	SendTimeout    time.Duration `envconfig:"CRAFTLINE_TWILIO_SEND_TIMEOUT" default:"15s"`
}

type RazorpayConfig struct {
	KeyID         string `envconfig:"CRAFTLINE_RAZORPAY_KEY_ID" required:"true"`
	KeySecret     string `envconfig:"CRAFTLINE_RAZORPAY_KEY_SECRET" required:"true"`
	WebhookSecret string `envconfig:"CRAFTLINE_RAZORPAY_WEBHOOK_SECRET"`
	CallbackURL   string `envconfig:"CRAFTLINE_RAZORPAY_CALLBACK_URL" required:"true"`
	Currency      string `envconfig:"CRAFTLINE_RAZORPAY_CURRENCY" default:"INR"`
	Description   string `envconfig:"CRAFTLINE_RAZORPAY_DESCRIPTION" default:"Craftline Order Payment"`
}

type StorageConfig struct {
	OrderLogPath    string `envconfig:"CRAFTLINE_ORDER_LOG_PATH" default:"orders.json"`
	BillArchivePath string `envconfig:"CRAFTLINE_BILL_ARCHIVE_PATH" default:"bills.json"`
}

type SessionConfig struct {
	TTL                time.Duration `envconfig:"CRAFTLINE_SESSION_TTL" default:"24h"`
	ReferenceRetention time.Duration `envconfig:"CRAFTLINE_REFERENCE_RETENTION" default:"72h"`
	SweepInterval      time.Duration `envconfig:"CRAFTLINE_SESSION_SWEEP_INTERVAL" default:"10m"`
}
