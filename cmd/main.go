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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/backend"
	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/catalog"
	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/checkout"
	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/domain"
	h "github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/http"
	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/journal"
	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/order"
	"github.com/Wahyudi120505/SnapMart---FullStack-sub000/internal/receipt"
)

type Config struct {
	HTTPPort        string
	BackendURL      string
	RedisAddr       string // empty disables the catalog page cache
	JournalPath     string // empty disables the order journal
	MigrationsPath  string
	ReceiptDir      string // empty uses the OS temp directory
	CatalogTimeout  time.Duration
	SubmitTimeout   time.Duration
	ReceiptTimeout  time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		BackendURL:      getEnv("BACKEND_URL", "http://localhost:8081"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		JournalPath:     getEnv("JOURNAL_PATH", ""),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),
		ReceiptDir:      getEnv("RECEIPT_DIR", ""),
		CatalogTimeout:  10 * time.Second,
		SubmitTimeout:   30 * time.Second,
		ReceiptTimeout:  30 * time.Second,
		RequestTimeout:  60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := loadConfig()

	client := backend.NewClient(backend.Config{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.SubmitTimeout,
	})

	var pageCache catalog.PageCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		pageCache = catalog.NewRedisPageCache(redisClient)
		log.Printf("catalog page cache enabled on %s", cfg.RedisAddr)
	}

	var jnl *journal.Journal
	if cfg.JournalPath != "" {
		var err error
		jnl, err = journal.NewJournal(cfg.JournalPath)
		if err != nil {
			log.Fatalf("Failed to open order journal: %v", err)
		}
		defer jnl.Close()
		if err := jnl.RunMigrations(cfg.MigrationsPath); err != nil {
			log.Fatalf("Failed to migrate order journal: %v", err)
		}
		log.Printf("order journal enabled at %s", cfg.JournalPath)
	}

	sessions := h.NewSessions(func() *checkout.Controller {
		var sessionJournal checkout.Journal
		if jnl != nil {
			sessionJournal = jnl
		}
		return checkout.NewController(
			domain.NewCart(),
			catalog.NewQuery(client, pageCache, cfg.CatalogTimeout),
			order.NewSubmitter(client, cfg.SubmitTimeout),
			receipt.NewFetcher(client, cfg.ReceiptTimeout, cfg.ReceiptDir),
			sessionJournal,
		)
	})

	catalogHandler := h.NewCatalogHandler(sessions)
	cartHandler := h.NewCartHandler(sessions)
	checkoutHandler := h.NewCheckoutHandler(sessions, jnl)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.BearerAuthMiddleware)

		r.Get("/products", catalogHandler.Search)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.SetQuantity)
			r.Post("/items/{product_id}/decrement", cartHandler.DecrementItem)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		})

		r.Post("/checkout", checkoutHandler.Checkout)
		r.Get("/receipt", checkoutHandler.DownloadReceipt)
		r.Delete("/receipt", checkoutHandler.DismissReceipt)
		r.Get("/orders/history", checkoutHandler.OrderHistory)
		r.Delete("/session", checkoutHandler.EndSession)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("POS gateway starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	sessions.Close()
	log.Println("server exited")
}
