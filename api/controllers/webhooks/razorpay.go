package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/craftline/craftline-backend/internal/payments"
	"github.com/craftline/craftline-backend/pkg/logger"
)

const paymentLinkPaidEvent = "payment_link.paid"

type reconciler interface {
	Reconcile(ctx context.Context, ev payments.Event)
}

type signatureVerifier interface {
	HasWebhookSecret() bool
	VerifyWebhookSignature(payload []byte, signature string) bool
}

type razorpayEvent struct {
	Event   string `json:"event"`
	Payload struct {
		PaymentLink struct {
			Entity struct {
				ReferenceID string `json:"reference_id"`
				ID          string `json:"id"`
				Amount      int64  `json:"amount"`
			} `json:"entity"`
		} `json:"payment_link"`
	} `json:"payload"`
}

// RazorpayWebhook reconciles payment_link.paid events. The gateway redelivers
// on non-200, so every branch acknowledges; reconciliation itself is
// idempotent.
func RazorpayWebhook(svc reconciler, verifier signatureVerifier, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		ack := func() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			if logg != nil {
				logg.Warn(ctx, "failed to read payment webhook body")
			}
			ack()
			return
		}

		if verifier != nil && verifier.HasWebhookSecret() {
			signature := r.Header.Get("X-Razorpay-Signature")
			if !verifier.VerifyWebhookSignature(payload, signature) {
				if logg != nil {
					logg.Warn(ctx, "payment webhook signature mismatch")
				}
				ack()
				return
			}
		}

		var event razorpayEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			if logg != nil {
				logg.Warn(ctx, "payment webhook payload unparseable")
			}
			ack()
			return
		}

		if event.Event != paymentLinkPaidEvent {
			ack()
			return
		}

		entity := event.Payload.PaymentLink.Entity
		if entity.ReferenceID == "" {
			if logg != nil {
				logg.Warn(ctx, "payment webhook missing reference id")
			}
			ack()
			return
		}

		if svc != nil {
			svc.Reconcile(ctx, payments.Event{
				ReferenceID: entity.ReferenceID,
				PaymentID:   entity.ID,
				AmountPaise: entity.Amount,
			})
		}
		ack()
	}
}
