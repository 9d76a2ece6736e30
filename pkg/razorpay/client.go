package razorpay

import (
	"context"
	"errors"
	"strings"

	rzpsdk "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"

	"github.com/craftline/craftline-backend/pkg/config"
	pkgerrors "github.com/craftline/craftline-backend/pkg/errors"
	"github.com/craftline/craftline-backend/pkg/logger"
)

var (
	errKeyIDRequired    = errors.New("razorpay key id is required")
	errSecretRequired   = errors.New("razorpay key secret is required")
	errCallbackRequired = errors.New("razorpay callback url is required")
	errLoggerRequired   = errors.New("razorpay logger is required")
)

// LinkRequest carries everything needed to create one payment link.
type LinkRequest struct {
	AmountPaise     int64
	ReferenceID     string
	Description     string
	CustomerName    string
	CustomerContact string
	CustomerEmail   string
}

// Client wraps the Razorpay SDK for payment-link creation and webhook
// signature verification.
type Client struct {
	sdk           *rzpsdk.Client
	currency      string
	callbackURL   string
	webhookSecret string
	logger        *logger.Logger
}

// NewClient validates the gateway credentials and builds the wrapper.
func NewClient(ctx context.Context, cfg config.RazorpayConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}

	keyID := strings.TrimSpace(cfg.KeyID)
	if keyID == "" {
		return nil, errKeyIDRequired
	}
	secret := strings.TrimSpace(cfg.KeySecret)
	if secret == "" {
		return nil, errSecretRequired
	}
	callbackURL := strings.TrimSpace(cfg.CallbackURL)
	if callbackURL == "" {
		return nil, errCallbackRequired
	}

	currency := strings.TrimSpace(cfg.Currency)
	if currency == "" {
		currency = "INR"
	}

	c := &Client{
		sdk:           rzpsdk.NewClient(keyID, secret),
		currency:      currency,
		callbackURL:   callbackURL,
		webhookSecret: strings.TrimSpace(cfg.WebhookSecret),
		logger:        logg,
	}

	logg.Info(ctx, "razorpay client initialized")
	return c, nil
}

// HasWebhookSecret reports whether webhook signatures can be verified.
func (c *Client) HasWebhookSecret() bool {
	return c != nil && c.webhookSecret != ""
}

// VerifyWebhookSignature checks a webhook body against its signature header.
func (c *Client) VerifyWebhookSignature(payload []byte, signature string) bool {
	if c == nil || c.webhookSecret == "" || signature == "" {
		return false
	}
	return utils.VerifyWebhookSignature(string(payload), signature, c.webhookSecret)
}

// CreatePaymentLink creates a payment link carrying the order reference as
// gateway metadata and returns its short URL.
func (c *Client) CreatePaymentLink(ctx context.Context, req LinkRequest) (string, error) {
	if c == nil || c.sdk == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "razorpay client not configured")
	}

	contact := strings.TrimPrefix(req.CustomerContact, "whatsapp:")
	data := map[string]interface{}{
		"amount":         req.AmountPaise,
		"currency":       c.currency,
		"accept_partial": false,
		"reference_id":   req.ReferenceID,
		"description":    req.Description,
		"customer": map[string]interface{}{
			"name":    req.CustomerName,
			"contact": contact,
			"email":   req.CustomerEmail,
		},
		"notify": map[string]interface{}{
			"sms":   false,
			"email": false,
		},
		"callback_url": c.callbackURL,
	}

	body, err := c.sdk.PaymentLink.Create(data, nil)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment link")
	}

	shortURL, _ := body["short_url"].(string)
	if shortURL == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "payment link response missing short_url")
	}

	lctx := c.logger.WithReference(ctx, req.ReferenceID)
	c.logger.Info(lctx, "payment link created")
	return shortURL, nil
}
