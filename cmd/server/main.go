package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"laundry-service/internal/cache"
	"laundry-service/internal/config"
	"laundry-service/internal/database"
	appmw "laundry-service/internal/middleware"
	"laundry-service/internal/models"
	"laundry-service/internal/modules/bill"
	"laundry-service/internal/modules/catalog"
	"laundry-service/internal/modules/customer"
	"laundry-service/internal/modules/order"
	"laundry-service/internal/modules/payment"
	"laundry-service/internal/modules/review"
	"laundry-service/pkg/events"
	"laundry-service/pkg/notify"
	gateway "laundry-service/pkg/payment"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	gommonlog "github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const ratingCacheTTL = 10 * time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.DatabaseURL == "" || cfg.JWTSecret == "" {
		log.Fatal("DATABASE_URL and JWT_SECRET must be set")
	}

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	var publisher events.PublisherInterface = events.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		rp, err := events.NewRabbitPublisher(cfg.RabbitMQURL)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer rp.Close()
		publisher = rp
	} else {
		log.Println("RABBITMQ_URL not set, domain events are disabled.")
	}

	var ratingCache review.RatingCacheInterface
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()
		ratingCache = cache.NewRatingCache(rdb, ratingCacheTTL)
	}

	var cardCharger bill.CardChargerInterface
	if cfg.StripeAPIKey != "" {
		cardCharger = gateway.NewStripeService(cfg.StripeAPIKey)
	}

	var receipts notify.ReceiptSenderInterface
	if cfg.SESFromAddress != "" {
		sender, err := notify.NewSESSender(ctx, cfg.AWSRegion, cfg.SESFromAddress)
		if err != nil {
			log.Fatalf("Failed to configure SES: %v", err)
		}
		receipts = sender
	}

	// --- Services ---
	catalogSvc := catalog.NewService(catalog.NewRepository(db))
	customerSvc := customer.NewService(customer.NewRepository(db))
	orderSvc := order.NewService(order.NewRepository(db), catalogSvc, publisher)
	billSvc := bill.NewService(
		bill.NewRepository(db),
		orderSvc,
		customerSvc,
		cardCharger,
		receipts,
		publisher,
		decimal.NewFromFloat(cfg.BillTaxRate),
	)
	phonePe := gateway.NewPhonePeClient(gateway.PhonePeConfig{
		MerchantID: cfg.PhonePe.MerchantID,
		SaltKey:    cfg.PhonePe.SaltKey,
		SaltIndex:  cfg.PhonePe.SaltIndex,
		BaseURL:    cfg.PhonePe.BaseURL,
	}, nil)
	paymentSvc := payment.NewService(payment.NewRepository(db), phonePe, billSvc, cfg.PhonePe.AppBaseURL)
	reviewSvc := review.NewService(review.NewRepository(db), orderSvc, ratingCache)

	// --- Router ---
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(gommonlog.INFO)
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: corsOrigins(cfg.ClientOrigin),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	paymentLimit, err := appmw.RateLimit(cfg.PaymentRateLimit)
	if err != nil {
		log.Fatalf("Invalid PAYMENT_RATE_LIMIT: %v", err)
	}

	public := e.Group("/api")
	api := e.Group("/api", appmw.Auth(cfg.JWTSecret))
	staff := api.Group("", appmw.RequireRole(models.RoleStaff))
	staffOrders := api.Group("/staff", appmw.RequireRole(models.RoleStaff))

	catalog.NewHandler(catalogSvc).RegisterRoutes(public, staff)
	customer.NewHandler(customerSvc).RegisterRoutes(staff)
	order.NewHandler(orderSvc).RegisterRoutes(api, staffOrders)
	bill.NewHandler(billSvc).RegisterRoutes(staff)
	payment.NewHandler(paymentSvc, cfg.PhonePe.SuccessURL, cfg.PhonePe.FailureURL).RegisterRoutes(e, api, paymentLimit)
	review.NewHandler(reviewSvc).RegisterRoutes(public, api)

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server listening on :%s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Println("Shutting down server...")
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped.")
}

func corsOrigins(origin string) []string {
	if origin == "" {
		return []string{"*"}
	}
	return []string{origin}
}
