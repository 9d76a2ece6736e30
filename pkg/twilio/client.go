package twilio

import (
	"context"
	"errors"
	"strings"

	twiliosdk "github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/craftline/craftline-backend/pkg/config"
	pkgerrors "github.com/craftline/craftline-backend/pkg/errors"
	"github.com/craftline/craftline-backend/pkg/logger"
)

var (
	errAccountSIDRequired = errors.New("twilio account sid is required")
	errAuthTokenRequired  = errors.New("twilio auth token is required")
	errFromNumberRequired = errors.New("twilio whatsapp number is required")
	errLoggerRequired     = errors.New("twilio logger is required")
)

// Client delivers WhatsApp text and media messages through Twilio.
type Client struct {
	sdk    *twiliosdk.RestClient
	from   string
	logger *logger.Logger
}

// NewClient validates the credentials and builds the Twilio wrapper with a
// bounded per-request timeout.
func NewClient(ctx context.Context, cfg config.TwilioConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}

	accountSID := strings.TrimSpace(cfg.AccountSID)
	if accountSID == "" {
		return nil, errAccountSIDRequired
	}
	authToken := strings.TrimSpace(cfg.AuthToken)
	if authToken == "" {
		return nil, errAuthTokenRequired
	}
	from := strings.TrimSpace(cfg.WhatsAppNumber)
	if from == "" {
		return nil, errFromNumberRequired
	}

	base := &twilioclient.Client{
		Credentials: twilioclient.NewCredentials(accountSID, authToken),
	}
	base.SetAccountSid(accountSID)
	if cfg.SendTimeout > 0 {
		base.SetTimeout(cfg.SendTimeout)
	}
	sdk := twiliosdk.NewRestClientWithParams(twiliosdk.ClientParams{Client: base})

	c := &Client{
		sdk:    sdk,
		from:   from,
		logger: logg,
	}

	logg.Info(ctx, "twilio client initialized")
	return c, nil
}

// From returns the configured sender address.
func (c *Client) From() string {
	if c == nil {
		return ""
	}
	return c.from
}

// SendText delivers a plain text message to a channel address.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	if c == nil || c.sdk == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "twilio client not configured")
	}

	params := &openapi.CreateMessageParams{}
	params.SetFrom(c.from)
	params.SetTo(to)
	params.SetBody(body)

	resp, err := c.sdk.Api.CreateMessage(params)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send whatsapp message")
	}

	if resp != nil && resp.Sid != nil {
		mctx := c.logger.WithFields(ctx, map[string]any{"to": to, "message_sid": *resp.Sid})
		c.logger.Info(mctx, "whatsapp message sent")
	}
	return nil
}

// SendMedia delivers a media-only message to a channel address.
func (c *Client) SendMedia(ctx context.Context, to, mediaURL string) error {
	if c == nil || c.sdk == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "twilio client not configured")
	}

	params := &openapi.CreateMessageParams{}
	params.SetFrom(c.from)
	params.SetTo(to)
	params.SetMediaUrl([]string{mediaURL})

	if _, err := c.sdk.Api.CreateMessage(params); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send whatsapp media")
	}

	c.logger.Info(c.logger.WithField(ctx, "to", to), "whatsapp media sent")
	return nil
}
