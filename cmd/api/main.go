package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/georgemunganga/freshpavilion-backend/internal/config"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/auth"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/notify"
	"github.com/georgemunganga/freshpavilion-backend/internal/platform/kv"
	"github.com/georgemunganga/freshpavilion-backend/internal/platform/postgres"
	"github.com/georgemunganga/freshpavilion-backend/internal/storefront"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Store selection (once per process) ──────────────────
	var backend storefront.Backend
	switch {
	case cfg.RemoteConfigured():
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if db == nil {
			log.Fatal(err)
		}
		if err != nil {
			log.Printf("remote store unreachable, reads will fall back: %v", err)
		} else {
			log.Println("Successfully connected to the database!")
		}
		defer db.Close()
		backend = storefront.NewRemoteBackend(db)

	case cfg.RedisURL != "":
		store, err := kv.NewRedisStore(cfg.RedisURL, "freshpavilion:")
		if err != nil {
			log.Fatal(err)
		}
		if err := store.Ping(ctx); err != nil {
			log.Printf("redis ping failed: %v", err)
		}
		defer store.Close()
		backend = storefront.NewLocalBackend(store)
		log.Println("remote store not configured, using redis fallback store")

	default:
		store, err := kv.NewFileStore(cfg.LocalStorePath)
		if err != nil {
			log.Fatal(err)
		}
		backend = storefront.NewLocalBackend(store)
		log.Printf("remote store not configured, using local fallback store %s", cfg.LocalStorePath)
	}

	services := storefront.NewServices(backend)

	// ── Notifications ───────────────────────────────────────
	state := storefront.NewState()
	notifiers := notify.Fanout{
		notify.NewWebhook(func() []string { return state.Settings().WebhookURLs() }, cfg.WebhookTimeout),
	}
	if cfg.RabbitMQURL != "" {
		publisher, err := notify.NewAMQPPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			log.Printf("order events disabled: %v", err)
		} else {
			defer publisher.Close()
			notifiers = append(notifiers, publisher)
		}
	}

	syncer := storefront.NewSyncer(backend, services, state, notifiers)
	syncer.Load(ctx)

	// ── Auth ────────────────────────────────────────────────
	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret = randomSecret()
		log.Println("JWT_SECRET not set, using a random secret; admin tokens will not survive a restart")
	}
	master := auth.MasterAdmin{Username: cfg.MasterAdminUsername, PasswordHash: cfg.MasterAdminPasswordHash}
	if master.PasswordHash == "" && cfg.MasterAdminPassword != "" {
		hash, err := auth.HashPassword(cfg.MasterAdminPassword)
		if err != nil {
			log.Fatal(err)
		}
		master.PasswordHash = hash
	}
	if master.PasswordHash == "" {
		log.Println("master admin disabled: set MASTER_ADMIN_PASSWORD or MASTER_ADMIN_PASSWORD_HASH")
	}
	authService := auth.NewService(master, services.Staff, secret)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	auth.NewHandler(authService).RegisterRoutes(router)
	storefront.NewHandler(syncer, authService, cfg.SessionTTL).RegisterRoutes(router)

	// ── Start Server ─────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("Fresh Pavilion API server starting on :%s (%s mode)", cfg.Port, syncer.Mode())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	syncer.Wait()
}

func randomSecret() []byte {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatal(err)
	}
	return []byte(hex.EncodeToString(b))
}
