package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/craftplace/settlement-service/internal/config"
	"github.com/craftplace/settlement-service/internal/domain"
	"github.com/craftplace/settlement-service/internal/infrastructure/community"
	publisher "github.com/craftplace/settlement-service/internal/infrastructure/kafka"
	"github.com/craftplace/settlement-service/internal/infrastructure/mail"
	"github.com/craftplace/settlement-service/internal/infrastructure/metrics"
	"github.com/craftplace/settlement-service/internal/infrastructure/migrate"
	"github.com/craftplace/settlement-service/internal/infrastructure/postgres"
	"github.com/craftplace/settlement-service/internal/infrastructure/postgres/repository"
	"github.com/craftplace/settlement-service/internal/infrastructure/provider"
	"github.com/craftplace/settlement-service/internal/usecase"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)

	if cfg.SettlementDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.SettlementDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	pub := publisher.NewDefaultKafkaPublisher(brokers)
	sub := publisher.NewDefaultKafkaSubscriber(brokers)

	// Init repositories
	orderRepo := repository.NewDefaultOrderRepository(db)
	discountRepo := repository.NewDefaultDiscountRepository(db)
	catalogRepo := repository.NewDefaultCatalogRepository(db)
	webhookRepo := repository.NewDefaultWebhookRepository(db)

	// Init collaborators
	settlementMetrics := metrics.NewSettlementMetrics()
	mailer := mail.NewSMTPSender(cfg.SMTPService)
	providerClient := provider.NewHTTPProviderClient(cfg.PaymentProvider)
	communityClient := community.NewHTTPCommunityClient(
		fmt.Sprintf("http://%s:%s", cfg.CommunityService.Host, cfg.CommunityService.Port),
	)
	clock := domain.RealClock{}

	// Init usecases
	orderUc := usecase.NewDefaultOrderUsecase(orderRepo, pub, settlementMetrics, clock)
	discountUc := usecase.NewDefaultDiscountUsecase(
		discountRepo,
		orderRepo,
		catalogRepo,
		providerClient,
		pub,
		settlementMetrics,
		clock,
	)
	commissionUc := usecase.NewDefaultCommissionUsecase(
		orderRepo,
		catalogRepo,
		communityClient,
		mailer,
		settlementMetrics,
	)
	mirrorUc := usecase.NewDefaultMirrorUsecase(catalogRepo, providerClient, settlementMetrics)
	webhookUc := usecase.NewDefaultWebhookUsecase(
		webhookRepo,
		&http.Client{Timeout: time.Duration(cfg.PaymentProvider.TimeoutSeconds) * time.Second},
		settlementMetrics,
		clock,
	)

	// Reactor worker
	worker := usecase.NewEventWorker(sub, cfg.KafkaService.GroupID, settlementMetrics)
	worker.Register(
		&usecase.SettlementReactor{Discounts: discountUc},
		&usecase.CommissionReactor{Commissions: commissionUc},
		&usecase.GiftCardReactor{Discounts: discountUc},
		&usecase.OrderMailReactor{Mailer: mailer},
		&usecase.EntitlementReactor{OrderRepo: orderRepo, CatalogRepo: catalogRepo, Groups: communityClient},
		&usecase.DiscountMailReactor{Mailer: mailer},
		&usecase.WebhookReactor{Webhooks: webhookUc},
		&usecase.FraudReactor{Blacklist: communityClient, Orders: orderUc},
	)

	ctx := context.Background()
	worker.Start(ctx)

	// Inbound payment processor notifications
	providerWorker := usecase.NewProviderWorker(sub, cfg.KafkaService.GroupID, orderUc)
	if err := providerWorker.Start(ctx); err != nil {
		log.Fatalf("failed to start provider worker: %v", err)
	}

	// Catalog CRUD events drive the provider mirror
	catalogWorker := usecase.NewCatalogWorker(sub, cfg.KafkaService.GroupID, catalogRepo, mirrorUc)
	if err := catalogWorker.Start(ctx); err != nil {
		log.Fatalf("failed to start catalog worker: %v", err)
	}

	// Auto-cancel of expired pending orders
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := orderUc.CancelExpiredOrders(ctx); err != nil {
					log.Printf("Auto-cancel error: %v", err)
				}
			}
		}
	}()

	// Metrics endpoint
	addr := fmt.Sprintf("%s:%s", cfg.MetricsServer.Host, cfg.MetricsServer.Port)
	http.Handle("/metrics", promhttp.Handler())
	log.Printf("settlement service started, metrics on %s\n", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("failed to serve metrics: %v\n", err)
	}
}
