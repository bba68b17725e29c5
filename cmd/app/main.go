package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"alto_bot/internal/transport"
	"alto_bot/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:          "alto",
		Short:        "ALTO chat bot",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path (optional).")

	cmd.AddCommand(newServeCmd(&configFile))
	cmd.AddCommand(newConsoleCmd(&configFile))
	cmd.AddCommand(newFeedCmd())

	return cmd
}

func setup(configFile string) (*Config, error) {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return cfg, nil
}

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and the operator API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(*configFile)
			if err != nil {
				return err
			}
			defer logger.Sync()
			zapLogger := logger.Logger()

			if cfg.Telegram.BotToken == "" {
				return errors.New("telegram.botToken is required (set APP_TELEGRAM_BOTTOKEN)")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg)
			if err != nil {
				zapLogger.Error("Failed to initialize bot", zap.Error(err))
				return err
			}
			defer a.close()

			tg, err := transport.NewTelegram(transport.TelegramConfig{
				BotToken:    cfg.Telegram.BotToken,
				Debug:       cfg.Telegram.Debug,
				PollTimeout: cfg.Telegram.PollTimeout,
			}, a.bot)
			if err != nil {
				return err
			}

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return tg.Run(ctx)
			})

			if cfg.Server.Enabled {
				srv := &http.Server{
					Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
					Handler: a.router(),
				}

				g.Go(func() error {
					zapLogger.Info("Starting server", zap.String("addr", srv.Addr))
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return fmt.Errorf("server failed: %w", err)
					}
					return nil
				})
				g.Go(func() error {
					<-ctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					defer cancel()
					return srv.Shutdown(shutdownCtx)
				})
			}

			return g.Wait()
		},
	}
}

func newConsoleCmd(configFile *string) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Chat with the bot from the terminal as a single local user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(*configFile)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.close()

			return transport.NewConsole(a.bot, userID, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "console", "User id the messages are sent as.")

	return cmd
}
