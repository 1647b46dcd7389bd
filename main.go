package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spamwatch-admin/cache"
	"spamwatch-admin/config"
	"spamwatch-admin/handlers"
	"spamwatch-admin/pkg/auth"
	"spamwatch-admin/pkg/flash"
	"spamwatch-admin/pkg/scanapi"
	"spamwatch-admin/pkg/template"
	"spamwatch-admin/services"
)

type Services struct {
	Template *template.Renderer
	Messages *services.MessageLogService
	Overview *services.OverviewService
	closers  []func() error
}

func (s *Services) Close() {
	for _, c := range s.closers {
		if err := c(); err != nil {
			log.Printf("⚠️ Error during shutdown: %v", err)
		}
	}
}

func tokenSource(cfg config.APIConfig) auth.TokenSource {
	if cfg.Token != "" {
		log.Printf("🔑 Using pre-issued backend token")
		return auth.StaticToken(cfg.Token)
	}
	log.Printf("🔑 Minting backend tokens for %s", cfg.Email)
	return auth.NewSignedTokenSource(cfg.Secret, auth.Identity{
		UserID: cfg.UserID,
		Email:  cfg.Email,
		Role:   auth.RoleAdmin,
	}, cfg.TokenTTL)
}

// viewStore prefers Redis so replicas share view state, and falls back to
// memory when Redis is not configured or unreachable.
func viewStore(ctx context.Context, cfg *config.Config, s *Services) cache.ViewStore {
	if cfg.Redis.Enabled() {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		client, err := cache.NewRedisClient(pingCtx, cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password)
		if err == nil {
			s.closers = append(s.closers, client.Close)
			return cache.NewRedisViewStore(client, cfg.Messages.ViewTTL)
		}
		log.Printf("⚠️ Redis unavailable, keeping views in memory: %v", err)
	}

	store := cache.NewMemoryViewStore(cfg.Messages.ViewTTL)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := store.Sweep(); n > 0 {
					log.Printf("🧹 Dropped %d expired views", n)
				}
			}
		}
	}()
	return store
}

func setupServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	s := &Services{}

	renderer, err := template.NewRenderer(template.Globals{AppName: "SpamWatch"})
	if err != nil {
		return nil, err
	}
	s.Template = renderer

	client := scanapi.NewClient(scanapi.Config{
		BaseURL: cfg.API.URL,
		Timeout: cfg.API.Timeout,
	}, tokenSource(cfg.API))

	notifier := flash.ContextNotifier{}
	s.Messages = services.NewMessageLogService(client, viewStore(ctx, cfg, s), notifier, services.MessageLogOptions{
		FetchTimeout: cfg.API.Timeout,
	})
	s.Overview = services.NewOverviewService(client, notifier)

	return s, nil
}

func main() {
	log.Printf("🚀 Starting server initialization...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := setupServices(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to set up services: %v", err)
	}
	defer svc.Close()

	log.Printf("⚙️ Setting up rate limiters...")
	limiter := handlers.NewRateLimiter(cfg.Limits.ViewsPerMinute)
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.ViewLimit.Sweep()
			}
		}
	}()

	log.Printf("🛣️ Setting up routes...")
	mux := http.NewServeMux()
	handlers.SetupRoutes(mux,
		limiter,
		handlers.NewOverviewHandler(svc.Overview, svc.Template),
		handlers.NewMessageHandler(svc.Messages, svc.Template, cfg.Messages.DefaultPageSize, cfg.Messages.MaxPageSize),
		"static",
	)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Printf("🛑 Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("⚠️ Error during shutdown: %v", err)
		}
	}()

	log.Printf("✅ Server initialization complete")
	log.Printf("🌐 Server starting on port %s", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("❌ Server error: %v", err)
	}
}
