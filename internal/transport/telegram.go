package transport

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"alto_bot/internal/model"
	"alto_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const stopTimeout = 10 * time.Second

var errUpdatesClosed = errors.New("telegram updates channel closed")

type TelegramConfig struct {
	BotToken    string
	Debug       bool
	PollTimeout int
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram long-polls for updates and hands every text message to the bot in
// its own goroutine. Turns of one user are serialized by the bot itself.
type Telegram struct {
	api         *tgbotapi.BotAPI
	sender      sender
	handler     Handler
	pollTimeout int
	log         *zap.Logger

	wg sync.WaitGroup
}

func NewTelegram(cfg TelegramConfig, handler Handler) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	api.Debug = cfg.Debug

	log := logger.Named("telegram")
	log.Info("telegram bot authorized", zap.String("username", api.Self.UserName))

	return &Telegram{
		api:         api,
		sender:      api,
		handler:     handler,
		pollTimeout: cfg.PollTimeout,
		log:         log,
	}, nil
}

// Run blocks until ctx is cancelled, then waits for in-flight messages.
func (t *Telegram) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = t.pollTimeout

	updates := t.api.GetUpdatesChan(u)
	t.log.Info("starting update loop")

	for {
		select {
		case <-ctx.Done():
			t.stop()
			return nil
		case update, ok := <-updates:
			if !ok {
				t.stop()
				return errUpdatesClosed
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}

			t.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer t.wg.Done()
				t.handle(context.WithoutCancel(ctx), msg)
			}(update.Message)
		}
	}
}

func (t *Telegram) stop() {
	t.log.Info("stopping update loop")
	t.api.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.log.Info("telegram stopped gracefully")
	case <-time.After(stopTimeout):
		t.log.Warn("telegram shutdown timeout, some messages may not have been answered")
	}
}

func (t *Telegram) handle(ctx context.Context, msg *tgbotapi.Message) {
	in := model.Inbound{
		SenderID: strconv.FormatInt(msg.Chat.ID, 10),
		Text:     strings.TrimSpace(msg.Text),
	}

	for _, out := range t.handler.HandleMessage(ctx, in) {
		if err := t.Send(out); err != nil {
			t.log.Error("failed to send message", zap.String("user_id", out.To), zap.Error(err))
		}
	}
}

func (t *Telegram) Send(out model.Outgoing) error {
	chatID, err := strconv.ParseInt(out.To, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", out.To, err)
	}

	if _, err := t.sender.Send(tgbotapi.NewMessage(chatID, out.Text)); err != nil {
		return fmt.Errorf("failed to send to %d: %w", chatID, err)
	}
	return nil
}
