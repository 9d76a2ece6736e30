package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/craftline/craftline-backend/api/responses"
	"github.com/craftline/craftline-backend/api/validators"
	"github.com/craftline/craftline-backend/internal/billing"
	pkgerrors "github.com/craftline/craftline-backend/pkg/errors"
	"github.com/craftline/craftline-backend/pkg/logger"
)

type bulkService interface {
	Ingest(ctx context.Context, orders []billing.Record) (int, error)
}

type bulkItemRequest struct {
	Name     string `json:"name" validate:"required"`
	Price    int64  `json:"price" validate:"min=0"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

type bulkOrderRequest struct {
	UserID    string            `json:"user_id"`
	Username  string            `json:"username"`
	Address   string            `json:"address" validate:"required"`
	Timestamp string            `json:"timestamp" validate:"required"`
	Items     []bulkItemRequest `json:"items" validate:"required,min=1"`
	Total     int64             `json:"total" validate:"min=0"`
	PaymentID string            `json:"payment_id"`
}

// BulkOrders ingests a JSON array of pre-formed orders.
func BulkOrders(svc bulkService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bulk service unavailable"))
			return
		}

		var reqs []bulkOrderRequest
		if err := validators.DecodeJSONBodyLenient(r, &reqs); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		for i := range reqs {
			if reqs[i].UserID == "" && reqs[i].Username == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("order %d is missing a buyer identifier", i)))
				return
			}
			if err := validators.Struct(&reqs[i]); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}

		orders := make([]billing.Record, 0, len(reqs))
		for _, req := range reqs {
			items := make([]billing.Item, 0, len(req.Items))
			for _, item := range req.Items {
				items = append(items, billing.Item{Name: item.Name, Price: item.Price, Quantity: item.Quantity})
			}
			orders = append(orders, billing.Record{
				UserID:    req.UserID,
				Username:  req.Username,
				Address:   req.Address,
				Timestamp: req.Timestamp,
				Items:     items,
				Total:     req.Total,
				PaymentID: req.PaymentID,
			})
		}

		count, err := svc.Ingest(ctx, orders)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"count":   count,
			"message": fmt.Sprintf("%d orders added, billed, and sent to seller.", count),
		})
	}
}
