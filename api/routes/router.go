package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/craftline/craftline-backend/api/controllers"
	webhookcontrollers "github.com/craftline/craftline-backend/api/controllers/webhooks"
	"github.com/craftline/craftline-backend/api/middleware"
	"github.com/craftline/craftline-backend/internal/billing"
	"github.com/craftline/craftline-backend/internal/bulk"
	"github.com/craftline/craftline-backend/internal/chat"
	"github.com/craftline/craftline-backend/internal/payments"
	"github.com/craftline/craftline-backend/pkg/config"
	"github.com/craftline/craftline-backend/pkg/logger"
	"github.com/craftline/craftline-backend/pkg/razorpay"
)

// RouterParams collects everything the HTTP surface depends on.
type RouterParams struct {
	Config       *config.Config
	Logger       *logger.Logger
	Chat         *chat.Service
	Payments     *payments.Service
	Bulk         *bulk.Service
	Orders       *billing.OrderLog
	Razorpay     *razorpay.Client
	PromGatherer prometheus.Gatherer
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
	})

	if params.PromGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.PromGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/webhook", func(r chi.Router) {
		r.Get("/", webhookcontrollers.ChatVerification(cfg.App.VerifyToken, logg))
		r.Post("/", webhookcontrollers.ChatMessage(params.Chat, logg))
	})

	r.Post("/payment/webhook", webhookcontrollers.RazorpayWebhook(params.Payments, params.Razorpay, logg))

	r.Route("/api", func(r chi.Router) {
		r.Post("/bulk", controllers.BulkOrders(params.Bulk, logg))
		r.Get("/latest-order", controllers.LatestOrder(params.Orders, logg))
	})

	return r
}
