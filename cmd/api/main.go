package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/craftline/craftline-backend/api/routes"
	"github.com/craftline/craftline-backend/internal/billing"
	"github.com/craftline/craftline-backend/internal/bulk"
	"github.com/craftline/craftline-backend/internal/catalog"
	"github.com/craftline/craftline-backend/internal/chat"
	"github.com/craftline/craftline-backend/internal/payments"
	"github.com/craftline/craftline-backend/internal/session"
	"github.com/craftline/craftline-backend/pkg/config"
	"github.com/craftline/craftline-backend/pkg/logger"
	"github.com/craftline/craftline-backend/pkg/metrics"
	"github.com/craftline/craftline-backend/pkg/razorpay"
	"github.com/craftline/craftline-backend/pkg/twilio"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	twilioClient, err := twilio.NewClient(context.Background(), cfg.Twilio, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap twilio", err)
		os.Exit(1)
	}

	razorpayClient, err := razorpay.NewClient(context.Background(), cfg.Razorpay, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap razorpay", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	mtr := metrics.New(registry)

	sessions := session.NewStore(cfg.Session.TTL)
	references := session.NewReferences(cfg.Session.ReferenceRetention)
	orderLog := billing.NewOrderLog(cfg.Storage.OrderLogPath)
	billArchive := billing.NewBillArchive(cfg.Storage.BillArchivePath)

	paymentsService, err := payments.NewService(payments.ServiceParams{
		References:    references,
		Sessions:      sessions,
		Orders:        orderLog,
		Notifier:      twilioClient,
		Gateway:       razorpayClient,
		Buyer:         cfg.Buyer,
		SellerAddress: cfg.Seller.Address,
		Description:   cfg.Razorpay.Description,
		Logger:        logg,
		Metrics:       mtr,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	chatService, err := chat.NewService(chat.ServiceParams{
		Catalog:  catalog.Default(),
		Sessions: sessions,
		Bills:    billArchive,
		Links:    paymentsService,
		Notifier: twilioClient,
		Seller:   cfg.Seller,
		Buyer:    cfg.Buyer,
		Logger:   logg,
		Metrics:  mtr,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create chat service", err)
		os.Exit(1)
	}

	bulkService, err := bulk.NewService(bulk.ServiceParams{
		Orders:        orderLog,
		Sessions:      sessions,
		Links:         paymentsService,
		Notifier:      twilioClient,
		SellerAddress: cfg.Seller.Address,
		Logger:        logg,
		Metrics:       mtr,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create bulk service", err)
		os.Exit(1)
	}

	go sweepLoop(cfg.Session.SweepInterval, sessions, references, logg)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:       cfg,
			Logger:       logg,
			Chat:         chatService,
			Payments:     paymentsService,
			Bulk:         bulkService,
			Orders:       orderLog,
			Razorpay:     razorpayClient,
			PromGatherer: registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// sweepLoop evicts idle carts and aged payment references on a fixed tick.
func sweepLoop(interval time.Duration, sessions *session.Store, references *session.References, logg *logger.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for now := range ticker.C {
		carts := sessions.Sweep(now)
		refs := references.Sweep(now)
		if carts > 0 || refs > 0 {
			ctx := logg.WithFields(context.Background(), map[string]any{
				"carts_evicted":      carts,
				"references_evicted": refs,
			})
			logg.Info(ctx, "session sweep complete")
		}
	}
}
