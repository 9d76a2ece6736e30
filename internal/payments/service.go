package payments

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/craftline/craftline-backend/internal/billing"
	"github.com/craftline/craftline-backend/internal/session"
	"github.com/craftline/craftline-backend/pkg/config"
	pkgerrors "github.com/craftline/craftline-backend/pkg/errors"
	"github.com/craftline/craftline-backend/pkg/logger"
	"github.com/craftline/craftline-backend/pkg/metrics"
	"github.com/craftline/craftline-backend/pkg/razorpay"
)

const (
	receiptDateLayout = "02-01-2006 15:04:05"
	customerEmail     = "demo@example.com"
)

// Notifier delivers text messages to a channel address.
type Notifier interface {
	SendText(ctx context.Context, to, body string) error
}

// Gateway creates payment links at the payment provider.
type Gateway interface {
	CreatePaymentLink(ctx context.Context, req razorpay.LinkRequest) (string, error)
}

// Event is the subset of a payment_link.paid webhook the service acts on.
type Event struct {
	ReferenceID string
	PaymentID   string
	AmountPaise int64
}

// ServiceParams wires the payment service dependencies.
type ServiceParams struct {
	References    *session.References
	Sessions      *session.Store
	Orders        *billing.OrderLog
	Notifier      Notifier
	Gateway       Gateway
	Buyer         config.BuyerConfig
	SellerAddress string
	Description   string
	Logger        *logger.Logger
	Metrics       *metrics.Metrics
}

// Service issues payment links and reconciles gateway webhooks back to buyer
// sessions.
type Service struct {
	refs          *session.References
	sessions      *session.Store
	orders        *billing.OrderLog
	notifier      Notifier
	gateway       Gateway
	buyer         config.BuyerConfig
	sellerAddress string
	description   string
	logger        *logger.Logger
	metrics       *metrics.Metrics
	now           func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.References == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "reference table required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session store required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order log required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifier required")
	}
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment gateway required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{
		refs:          params.References,
		sessions:      params.Sessions,
		orders:        params.Orders,
		notifier:      params.Notifier,
		gateway:       params.Gateway,
		buyer:         params.Buyer,
		sellerAddress: params.SellerAddress,
		description:   params.Description,
		logger:        params.Logger,
		metrics:       params.Metrics,
		now:           time.Now,
	}, nil
}

// NewReference mints a short opaque order reference and records its buyer
// before any gateway call, so a failed link creation is safe to retry.
func (s *Service) NewReference(buyer string) string {
	ref := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	s.refs.Put(ref, buyer)
	return ref
}

// CreateLink asks the gateway for a payment link carrying the reference.
func (s *Service) CreateLink(ctx context.Context, referenceID, buyer string, amountPaise int64, description string) (string, error) {
	if description == "" {
		description = s.description
	}
	link, err := s.gateway.CreatePaymentLink(ctx, razorpay.LinkRequest{
		AmountPaise:     amountPaise,
		ReferenceID:     referenceID,
		Description:     description,
		CustomerName:    s.buyer.DefaultName,
		CustomerContact: buyer,
		CustomerEmail:   customerEmail,
	})
	if err != nil {
		return "", err
	}
	return link, nil
}

// Reconcile settles a paid order reported by the gateway webhook. Every step
// is fail-soft; invoking it twice for the same event degenerates to the
// empty-cart branch on the second run.
func (s *Service) Reconcile(ctx context.Context, ev Event) {
	ctx = s.logger.WithReference(ctx, ev.ReferenceID)

	buyer, ok := s.refs.Resolve(ev.ReferenceID)
	if !ok {
		s.logger.Warn(ctx, "no matching buyer for payment reference")
		s.metrics.IncReconciliation("unmatched")
		return
	}
	ctx = s.logger.WithBuyerID(ctx, buyer)

	lines, ok := s.sessions.TakeIfNotEmpty(buyer)
	if !ok {
		s.logger.Warn(ctx, "cart already settled or missing for paid reference")
		s.metrics.IncReconciliation("empty_cart")
		if err := s.notifier.SendText(ctx, buyer, "⚠️ Your order could not be found after payment."); err != nil {
			s.logger.Error(ctx, "failed to notify buyer of missing order", err)
		}
		return
	}

	bill := billing.Compute(lines)
	now := s.now().Format(receiptDateLayout)
	rec := billing.Record{
		UserID:    buyer,
		Username:  s.buyer.DefaultName,
		Address:   s.buyer.DefaultAddress,
		Timestamp: now,
		Items:     bill.Items,
		Total:     ev.AmountPaise / 100,
		PaymentID: ev.PaymentID,
	}

	if err := s.orders.Append(rec); err != nil {
		s.logger.Error(ctx, "failed to persist settled order", err)
	}

	receipt := billing.ReceiptMessage(ev.ReferenceID, ev.PaymentID, now, rec.Items, rec.Total)
	if err := s.notifier.SendText(ctx, buyer, receipt); err != nil {
		s.logger.Error(ctx, "failed to send receipt to buyer", err)
	}
	if err := s.notifier.SendText(ctx, s.sellerAddress, billing.SellerNotice(rec)); err != nil {
		s.logger.Error(ctx, "failed to notify seller of settled order", err)
	}

	s.metrics.IncReconciliation("settled")
	s.logger.Info(ctx, "payment reconciled")
}
