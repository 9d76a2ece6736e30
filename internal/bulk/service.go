package bulk

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/craftline/craftline-backend/internal/billing"
	"github.com/craftline/craftline-backend/internal/session"
	pkgerrors "github.com/craftline/craftline-backend/pkg/errors"
	"github.com/craftline/craftline-backend/pkg/logger"
	"github.com/craftline/craftline-backend/pkg/metrics"
)

const paymentTermsFormat = "💳 *Payment Link:* %s\n\n" +
	"✅ Please complete the advance payment (10%% of the total). " +
	"Remaining payment will be due on delivery. " +
	"You'll get an auto-confirmation once done."

const linkFailureText = "⚠️ Failed to generate payment link. Please try again later."

// Notifier delivers text messages to a channel address.
type Notifier interface {
	SendText(ctx context.Context, to, body string) error
}

// LinkIssuer mints order references and payment links.
type LinkIssuer interface {
	NewReference(buyer string) string
	CreateLink(ctx context.Context, referenceID, buyer string, amountPaise int64, description string) (string, error)
}

// ServiceParams wires the bulk ingestion dependencies.
type ServiceParams struct {
	Orders        *billing.OrderLog
	Sessions      *session.Store
	Links         LinkIssuer
	Notifier      Notifier
	SellerAddress string
	Logger        *logger.Logger
	Metrics       *metrics.Metrics
}

// Service ingests pre-formed order batches and bills each buyer a 10%
// advance.
type Service struct {
	orders        *billing.OrderLog
	sessions      *session.Store
	links         LinkIssuer
	notifier      Notifier
	sellerAddress string
	logger        *logger.Logger
	metrics       *metrics.Metrics
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order log required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session store required")
	}
	if params.Links == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "link issuer required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifier required")
	}
	if params.SellerAddress == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "seller address required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{
		orders:        params.Orders,
		sessions:      params.Sessions,
		links:         params.Links,
		notifier:      params.Notifier,
		sellerAddress: params.SellerAddress,
		logger:        params.Logger,
		metrics:       params.Metrics,
	}, nil
}

// Ingest persists a batch of orders, notifies the seller once, and issues one
// advance payment link per buyer group. Only the persistence step can fail the
// batch; each group's billing failures are isolated. Returns the number of
// ingested orders.
func (s *Service) Ingest(ctx context.Context, orders []billing.Record) (int, error) {
	if len(orders) == 0 {
		return 0, nil
	}

	for i := range orders {
		normalize(&orders[i])
	}

	if err := s.orders.AppendAll(orders); err != nil {
		return 0, err
	}

	if err := s.notifier.SendText(ctx, s.sellerAddress, billing.BulkSellerNotice(orders)); err != nil {
		s.logger.Error(ctx, "failed to send bulk seller notice", err)
	}

	for _, buyer := range groupOrder(orders) {
		s.billGroup(ctx, buyer, grouped(orders, buyer))
	}

	s.metrics.AddBulk(len(orders))
	return len(orders), nil
}

// normalize maps the inbound username field onto the buyer id, matching the
// persisted order-log schema.
func normalize(rec *billing.Record) {
	if rec.Username != "" {
		rec.UserID = rec.Username
		rec.Username = ""
	}
}

// groupOrder returns the distinct buyer ids in first-seen order.
func groupOrder(orders []billing.Record) []string {
	seen := make(map[string]bool, len(orders))
	var buyers []string
	for _, rec := range orders {
		if !seen[rec.UserID] {
			seen[rec.UserID] = true
			buyers = append(buyers, rec.UserID)
		}
	}
	return buyers
}

func grouped(orders []billing.Record, buyer string) []billing.Record {
	var group []billing.Record
	for _, rec := range orders {
		if rec.UserID == buyer {
			group = append(group, rec)
		}
	}
	return group
}

// billGroup sends one buyer their combined summary and an advance payment
// link.
func (s *Service) billGroup(ctx context.Context, buyer string, group []billing.Record) {
	ctx = s.logger.WithBuyerID(ctx, buyer)

	var total int64
	var lines []session.Line
	for _, rec := range group {
		total += rec.Total
		for _, item := range rec.Items {
			lines = append(lines, session.Line{Name: item.Name, Price: item.Price * int64(item.Quantity)})
		}
	}
	advance := AdvancePaise(total)
	advanceRupees := AdvanceRupees(total)

	// Seed the buyer's session with quantity-expanded lines so the advance
	// payment webhook settles against this group instead of an empty cart.
	s.sessions.Replace(buyer, lines)

	ref := s.links.NewReference(buyer)
	ctx = s.logger.WithReference(ctx, ref)

	summary := billing.BulkSummary(ref, buyer, group, total, advanceRupees)
	if err := s.notifier.SendText(ctx, buyer, summary); err != nil {
		s.logger.Error(ctx, "failed to send bulk summary", err)
	}

	link, err := s.links.CreateLink(ctx, ref, buyer, advance, fmt.Sprintf("Bulk Order - %s", buyer))
	if err != nil {
		s.logger.Error(ctx, "failed to create bulk payment link", err)
		s.metrics.IncPaymentLink("bulk", "failure")
		if err := s.notifier.SendText(ctx, buyer, linkFailureText); err != nil {
			s.logger.Error(ctx, "failed to send bulk link failure notice", err)
		}
		return
	}
	s.metrics.IncPaymentLink("bulk", "success")

	if err := s.notifier.SendText(ctx, buyer, fmt.Sprintf(paymentTermsFormat, link)); err != nil {
		s.logger.Error(ctx, "failed to send bulk payment link", err)
	}
	s.logger.Info(ctx, "bulk advance link issued")
}

// AdvanceRupees is the bulk payment policy: 10% of the combined total, kept
// in decimal so fractional rupees do not drift.
func AdvanceRupees(total int64) decimal.Decimal {
	return decimal.NewFromInt(total).Div(decimal.NewFromInt(10))
}

// AdvancePaise converts the 10% advance to integer paise for the gateway.
func AdvancePaise(total int64) int64 {
	return AdvanceRupees(total).Shift(2).IntPart()
}
