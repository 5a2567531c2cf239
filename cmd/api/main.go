package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/esvchat/bible-chat/backend/internal/config"
	"github.com/esvchat/bible-chat/backend/internal/handler"
	"github.com/esvchat/bible-chat/backend/internal/middleware"
	"github.com/esvchat/bible-chat/backend/internal/model/persona"
	"github.com/esvchat/bible-chat/backend/internal/service/ai"
	"github.com/esvchat/bible-chat/backend/internal/service/chat"
	"github.com/esvchat/bible-chat/backend/internal/service/session"
	"github.com/esvchat/bible-chat/backend/pkg/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		fmt.Fprintln(os.Stderr, "Please make sure you have a .env file with GEMINI_API_KEY=YOUR_API_KEY")
		os.Exit(1)
	}

	log.Init(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()
	if envErr != nil {
		log.Warnf("no .env file loaded (%v), using process environment only", envErr)
	}

	remote, err := newRemote(ctx, cfg.AI)
	if err != nil {
		log.Fatal("failed to initialize remote model", err)
	}

	store, closeStore, err := newStore(ctx, cfg.Session)
	if err != nil {
		log.Fatal("failed to initialize session store", err)
	}
	defer closeStore()

	sessions, err := middleware.NewSessionManager(middleware.SessionOptions{
		CookieName: cfg.Session.CookieName,
		Secret:     cfg.Session.Secret,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.CookieSecure,
	})
	if err != nil {
		log.Fatal("failed to initialize session cookies", err)
	}

	chatService := chat.NewService(remote, store, persona.ESV())
	router := handler.NewRouter(chatService, sessions)

	startServer(ctx, cfg.Server, router)
}

// newRemote builds the configured backend. For Gemini without an explicit
// model the deployed models are probed and the first preferred match wins.
func newRemote(ctx context.Context, cfg config.AIConfig) (ai.Client, error) {
	switch cfg.Provider {
	case config.ProviderArk:
		client, err := ai.NewArkClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		log.Infow("remote model ready", "provider", cfg.Provider, "model", cfg.ArkModel)
		return client, nil
	default:
		client, err := ai.NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		model := cfg.GeminiModel
		if model == "" {
			model, err = ai.SelectModel(ctx, client, cfg.GeminiModelPreferences)
			if err != nil {
				return nil, err
			}
		}
		log.Infow("remote model ready", "provider", cfg.Provider, "model", model)
		return client.WithModel(model), nil
	}
}

func newStore(ctx context.Context, cfg config.SessionConfig) (session.Store, func(), error) {
	if cfg.Backend == config.BackendRedis {
		client, err := session.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		log.Infow("using redis session store", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return session.NewRedisStore(client, cfg.RedisKeyPrefix, cfg.TTL), func() { _ = client.Close() }, nil
	}

	log.Info("using in-memory session store")
	return session.NewMemoryStore(cfg.TTL), func() {}, nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Infof("ESV Bible chat listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatal("server error", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
