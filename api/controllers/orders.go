package controllers

import (
	"net/http"

	"github.com/craftline/craftline-backend/api/responses"
	"github.com/craftline/craftline-backend/internal/billing"
	pkgerrors "github.com/craftline/craftline-backend/pkg/errors"
	"github.com/craftline/craftline-backend/pkg/logger"
)

type latestOrderProvider interface {
	Latest() (billing.Record, error)
}

// LatestOrder returns the most recently persisted order record.
func LatestOrder(orders latestOrderProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if orders == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order store unavailable"))
			return
		}

		rec, err := orders.Latest()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rec)
	}
}
