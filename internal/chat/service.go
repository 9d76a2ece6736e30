package chat

import (
	"context"
	"strings"
	"time"

	"github.com/craftline/craftline-backend/internal/billing"
	"github.com/craftline/craftline-backend/internal/catalog"
	"github.com/craftline/craftline-backend/internal/session"
	"github.com/craftline/craftline-backend/pkg/config"
	pkgerrors "github.com/craftline/craftline-backend/pkg/errors"
	"github.com/craftline/craftline-backend/pkg/logger"
	"github.com/craftline/craftline-backend/pkg/metrics"
)

// Notifier delivers outbound chat messages.
type Notifier interface {
	SendText(ctx context.Context, to, body string) error
	SendMedia(ctx context.Context, to, mediaURL string) error
}

// LinkIssuer mints order references and payment links.
type LinkIssuer interface {
	NewReference(buyer string) string
	CreateLink(ctx context.Context, referenceID, buyer string, amountPaise int64, description string) (string, error)
}

// ServiceParams wires the chat service dependencies.
type ServiceParams struct {
	Catalog  *catalog.Catalog
	Sessions *session.Store
	Bills    *billing.BillArchive
	Links    LinkIssuer
	Notifier Notifier
	Seller   config.SellerConfig
	Buyer    config.BuyerConfig
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
}

// Service is the order state machine behind the inbound chat webhook.
type Service struct {
	catalog  *catalog.Catalog
	sessions *session.Store
	bills    *billing.BillArchive
	links    LinkIssuer
	notifier Notifier
	seller   config.SellerConfig
	buyer    config.BuyerConfig
	logger   *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session store required")
	}
	if params.Bills == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "bill archive required")
	}
	if params.Links == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "link issuer required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifier required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{
		catalog:  params.Catalog,
		sessions: params.Sessions,
		bills:    params.Bills,
		links:    params.Links,
		notifier: params.Notifier,
		seller:   params.Seller,
		buyer:    params.Buyer,
		logger:   params.Logger,
		metrics:  params.Metrics,
		now:      time.Now,
	}, nil
}

// HandleMessage dispatches one inbound message. Commands shadow catalog codes
// ("1" and "2" are always commands), and anything unrecognized falls through
// to the welcome flow. Delivery failures are logged, never propagated.
func (s *Service) HandleMessage(ctx context.Context, from, body string) {
	ctx = s.logger.WithBuyerID(ctx, from)
	body = strings.ToLower(strings.TrimSpace(body))

	switch body {
	case "1":
		s.metrics.IncChatCommand("menu")
		s.sendText(ctx, from, s.catalog.MenuText())
	case "2":
		if s.seller.Code2.ConfirmsOrder() {
			s.metrics.IncChatCommand("confirm")
			s.confirm(ctx, from)
		} else {
			s.metrics.IncChatCommand("contact_info")
			s.sendText(ctx, from, contactInfoText(s.seller))
		}
	case "payment_done":
		s.metrics.IncChatCommand("payment_done")
		s.acknowledgePayment(ctx, from)
	case "confirm":
		s.metrics.IncChatCommand("confirm")
		s.confirm(ctx, from)
	case "add more":
		s.metrics.IncChatCommand("menu")
		s.sendText(ctx, from, s.catalog.MenuText())
	default:
		if item, ok := s.catalog.Lookup(body); ok {
			s.metrics.IncChatCommand("select_item")
			s.sessions.Append(from, session.Line{Name: item.Name, Price: item.Price})
			s.sendText(ctx, from, addMoreOrConfirmText)
			return
		}
		s.metrics.IncChatCommand("welcome")
		s.welcome(ctx, from)
	}
}

// confirm bills the current cart and issues a payment link. The cart is only
// snapshotted here; it is cleared when the payment settles.
func (s *Service) confirm(ctx context.Context, buyer string) {
	lines := s.sessions.Snapshot(buyer)
	if len(lines) == 0 {
		s.sendText(ctx, buyer, emptyCartText)
		return
	}

	bill := billing.Compute(lines)
	ref := s.links.NewReference(buyer)
	ctx = s.logger.WithReference(ctx, ref)

	s.sendText(ctx, buyer, billing.OrderSummary(ref, s.buyer.DefaultName, s.buyer.DefaultAddress, bill))

	link, err := s.links.CreateLink(ctx, ref, buyer, billing.FullPaymentPaise(bill.Total), "")
	if err != nil {
		s.logger.Error(ctx, "failed to create payment link", err)
		s.metrics.IncPaymentLink("chat", "failure")
		s.sendText(ctx, buyer, linkFailureText)
		return
	}
	s.metrics.IncPaymentLink("chat", "success")
	s.sendText(ctx, buyer, billing.PaymentLinkMessage(link))
	s.sendText(ctx, buyer, manualConfirmText)
	s.logger.Info(ctx, "payment link issued")
}

// acknowledgePayment handles the manual payment_done command: archive the
// cart as a confirmed bill, notify the seller, and clear the session.
func (s *Service) acknowledgePayment(ctx context.Context, buyer string) {
	s.sendText(ctx, buyer, paymentConfirmedText)

	lines := s.sessions.Take(buyer)
	bill := billing.Compute(lines)
	rec := billing.Record{
		UserID:    buyer,
		Username:  s.buyer.DefaultName,
		Address:   s.buyer.DefaultAddress,
		Timestamp: s.now().Format(time.RFC3339),
		Items:     bill.Items,
		Total:     bill.Total,
	}

	if err := s.bills.Append(rec); err != nil {
		s.logger.Error(ctx, "failed to archive confirmed bill", err)
	}
	s.sendText(ctx, s.seller.Address, billing.SellerNotice(rec))
}

// welcome sends the intro image best-effort, then the text options.
func (s *Service) welcome(ctx context.Context, buyer string) {
	if err := s.notifier.SendMedia(ctx, buyer, welcomeImageURL); err != nil {
		s.logger.Warn(ctx, "failed to send welcome image")
	}
	s.sendText(ctx, buyer, welcomeText)
}

func (s *Service) sendText(ctx context.Context, to, body string) {
	if err := s.notifier.SendText(ctx, to, body); err != nil {
		s.logger.Error(ctx, "failed to send chat message", err)
	}
}
