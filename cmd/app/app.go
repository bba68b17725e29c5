package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"alto_bot/internal/api"
	"alto_bot/internal/assistant"
	"alto_bot/internal/repository"
	"alto_bot/internal/repository/filestore"
	"alto_bot/internal/service"
	"alto_bot/pkg/auth"
	"alto_bot/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// app wires the record store, the session and catalog state, and the bot.
type app struct {
	cfg      *Config
	sessions *service.SessionStore
	admin    *service.AdminService
	bot      *service.Bot
	feed     *api.Feed
	closers  []func() error
}

func openStore(ctx context.Context, cfg *Config) (service.Store, func() error, error) {
	if cfg.Storage.Driver == StoragePostgres {
		repo, err := repository.New(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.Migrate(ctx); err != nil {
			_ = repo.Close()
			return nil, nil, err
		}
		return repo, repo.Close, nil
	}

	store, err := filestore.New(cfg.Storage.Dir)
	if err != nil {
		return nil, nil, err
	}
	return store, func() error { return nil }, nil
}

func newApp(ctx context.Context, cfg *Config) (*app, error) {
	log := logger.Logger()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Storage.Driver, err)
	}
	a := &app{cfg: cfg, closers: []func() error{closeStore}}

	a.sessions = service.NewSessionStore(store, cfg.Bot.LockTimeout)
	if err := a.sessions.Load(ctx); err != nil {
		_ = a.close()
		return nil, err
	}

	catalog := service.NewCatalog(store)
	if err := catalog.Load(ctx); err != nil {
		_ = a.close()
		return nil, err
	}
	a.admin = service.NewAdminService(a.sessions, catalog)

	var responder service.Responder
	if cfg.Gemini.APIKey != "" {
		gemini, err := assistant.New(ctx, assistant.Config{
			APIKey:            cfg.Gemini.APIKey,
			Model:             cfg.Gemini.Model,
			SystemInstruction: cfg.Gemini.SystemInstruction,
		})
		if err != nil {
			_ = a.close()
			return nil, err
		}
		responder = gemini
		a.closers = append(a.closers, gemini.Close)
	} else {
		log.Warn("gemini.apiKey is not set, free text will get a fallback reply")
	}

	location, err := time.LoadLocation(cfg.Bot.Timezone)
	if err != nil {
		_ = a.close()
		return nil, err
	}

	a.feed = api.NewFeed()
	a.bot = service.NewBot(a.sessions, catalog, a.admin, responder, a.feed, service.Options{
		OwnerID:       cfg.Bot.OwnerID,
		OwnerContact:  cfg.Bot.OwnerContact,
		Location:      location,
		CaptchaLength: cfg.Bot.CaptchaLength,
	})

	return a, nil
}

func (a *app) router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	config.AllowHeaders = []string{"*"}
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	telegramAuth := auth.NewTelegramAuth(a.cfg.Telegram.BotToken, a.cfg.Server.DebugAuth)
	v1 := router.Group("/api/v1")
	api.NewAdminRoutes(v1, a.admin, telegramAuth, a.feed)

	return router
}

// close flushes every session and releases the store and the AI client.
func (a *app) close() error {
	var errs []error
	if a.sessions != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := a.sessions.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush sessions: %w", err))
		}
	}
	if a.feed != nil {
		a.feed.Close()
	}
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		logger.Logger().Error("shutdown finished with errors", zap.Error(err))
		return err
	}
	return nil
}
