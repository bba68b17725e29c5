package service

import (
	"context"
	"math/rand"
	"reflect"
	"strconv"
	"strings"
	"time"

	"alto_bot/internal/model"
	"alto_bot/pkg/logger"

	"go.uber.org/zap"
)

const (
	defaultCaptchaLength = 6
	dayLayout            = "2006-01-02"
)

type Options struct {
	// OwnerID receives withdrawal notifications. Empty disables them.
	OwnerID       string
	OwnerContact  string
	Location      *time.Location
	CaptchaLength int

	Now  func() time.Time
	IntN func(n int) int
}

// Bot routes every inbound message through the user's session.
type Bot struct {
	sessions  *SessionStore
	catalog   *Catalog
	admin     *AdminService
	responder Responder
	notifier  WithdrawalNotifier
	opts      Options
}

func NewBot(sessions *SessionStore, catalog *Catalog, admin *AdminService, responder Responder, notifier WithdrawalNotifier, opts Options) *Bot {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.CaptchaLength <= 0 {
		opts.CaptchaLength = defaultCaptchaLength
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IntN == nil {
		opts.IntN = rand.Intn
	}

	return &Bot{
		sessions:  sessions,
		catalog:   catalog,
		admin:     admin,
		responder: responder,
		notifier:  notifier,
		opts:      opts,
	}
}

// turn carries one inbound message through the handlers. Replies and
// notifications are held back until the record is committed.
type turn struct {
	ctx         context.Context
	user        *model.User
	text        string
	now         time.Time
	log         *zap.Logger
	replies     []model.Outgoing
	withdrawals []model.WithdrawalRequest
}

func (t *turn) reply(text string) {
	t.send(t.user.ID, text)
}

func (t *turn) send(to, text string) {
	t.replies = append(t.replies, model.Outgoing{To: to, Text: text})
}

func (b *Bot) day(now time.Time) string {
	return now.In(b.opts.Location).Format(dayLayout)
}

// HandleMessage processes one inbound message and returns the messages to send.
func (b *Bot) HandleMessage(ctx context.Context, in model.Inbound) []model.Outgoing {
	log := logger.Logger().With(zap.String("user_id", in.SenderID))
	failed := []model.Outgoing{{To: in.SenderID, Text: textFailure}}

	ctx, release, err := b.sessions.Lock(ctx, in.SenderID)
	if err != nil {
		log.Warn("session lock not acquired", zap.Error(err))
		return []model.Outgoing{{To: in.SenderID, Text: textBusy}}
	}
	defer release()

	now := b.opts.Now()
	user, created, err := b.sessions.GetOrCreate(ctx, in.SenderID, now, b.day(now))
	if err != nil {
		log.Error("failed to load session", zap.Error(err))
		return failed
	}
	if created {
		return []model.Outgoing{
			{To: user.ID, Text: textWelcome},
			{To: user.ID, Text: menuText(user)},
		}
	}
	if user.IsBlocked {
		log.Debug("dropped message from blocked user")
		return nil
	}

	snapshot := user.Clone()
	t := &turn{ctx: ctx, user: user, text: in.Text, now: now, log: log}

	if err := b.route(t); err != nil {
		log.Error("failed to handle message", zap.String("mode", string(snapshot.Session.Mode)), zap.Error(err))
		b.sessions.Restore(user, snapshot)
		return failed
	}

	if !reflect.DeepEqual(user, snapshot) {
		if err := b.sessions.Commit(ctx, user); err != nil {
			log.Error("failed to commit session", zap.Error(err))
			b.sessions.Restore(user, snapshot)
			return failed
		}
	}

	if b.notifier != nil {
		for _, req := range t.withdrawals {
			b.notifier.NotifyWithdrawal(ctx, req)
		}
	}

	return t.replies
}

func (b *Bot) route(t *turn) error {
	user := t.user
	if user.Rollover(b.day(t.now)) {
		t.log.Debug("daily rollover", zap.String("day", user.LastLoginDay))
	}
	normalizeSession(&user.Session)

	switch strings.TrimSpace(t.text) {
	case "00", "/menu":
		if err := resetSession(t.ctx, &user.Session); err != nil {
			return err
		}
		t.reply(menuText(user))
		return nil
	case "0", "/batal":
		if err := resetSession(t.ctx, &user.Session); err != nil {
			return err
		}
		t.reply(textCancelled)
		t.reply(menuText(user))
		return nil
	}

	// /selesai stays available while a task or game list is open.
	if args, ok := selesaiArgs(t.text); ok {
		switch user.Session.Mode {
		case model.ModeMain, model.ModeChoosingTask, model.ModeChoosingGame:
			return b.completeTask(t, args)
		}
	}

	switch mode := user.Session.Mode; {
	case mode == model.ModeCaptcha:
		return b.verifyCaptcha(t)
	case mode == model.ModePlaying:
		return b.playGame(t)
	case mode.IsWithdraw():
		return b.withdrawStep(t)
	case mode == model.ModeChoosingTask:
		return b.selectTask(t)
	case mode == model.ModeChoosingGame:
		return b.selectGame(t)
	}

	return b.handleMain(t)
}

// normalizeSession repairs records whose mode and payload disagree, e.g. after
// a manual edit of the store.
func normalizeSession(s *model.Session) {
	switch {
	case !validMode(s.Mode),
		s.Mode == model.ModeCaptcha && s.Captcha == nil,
		s.Mode == model.ModePlaying && s.Game == nil:
		active := s.ActiveTask
		s.Reset()
		s.ActiveTask = active
	}
	if s.Mode != model.ModeCaptcha {
		s.Captcha = nil
	}
	if s.Mode != model.ModePlaying {
		s.Game = nil
	}
}

func (b *Bot) handleMain(t *turn) error {
	text := strings.TrimSpace(t.text)

	if choice, ok := leadingInt(text); ok {
		return b.menu(t, choice)
	}

	if strings.HasPrefix(text, "/") {
		return b.handleCommand(t, strings.Fields(text))
	}

	return b.askAssistant(t, text)
}

func selesaiArgs(text string) ([]string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || strings.ToLower(fields[0]) != "/selesai" {
		return nil, false
	}
	return fields[1:], true
}

// leadingInt reads the integer a menu choice starts with, so "3abc" and "2 ya"
// pick entries 3 and 2. Out-of-range numbers come back as -1.
func leadingInt(text string) (int, bool) {
	end := 0
	if end < len(text) && (text[end] == '-' || text[end] == '+') {
		end++
	}
	start := end
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}

	n, err := strconv.Atoi(text[:end])
	if err != nil {
		return -1, true
	}
	return n, true
}

func (b *Bot) menu(t *turn, choice int) error {
	switch choice {
	case 1:
		t.reply(profileText(t.user))
	case 2:
		return b.startWithdraw(t)
	case 3:
		return b.claimBonus(t)
	case 4:
		return b.listTasks(t)
	case 5:
		return b.openGames(t)
	case 6:
		items := b.catalog.ShopItems()
		if len(items) == 0 {
			t.reply(textShopEmpty)
			return nil
		}
		t.reply(shopText(items))
	case 7:
		t.reply(ownerText(b.opts.OwnerContact))
	case 8:
		if b.responder != nil {
			b.responder.Reset(t.user.ID)
		}
		t.reply(textHistoryCleared)
	default:
		t.reply(textInvalidChoice)
	}
	return nil
}

func (b *Bot) askAssistant(t *turn, text string) error {
	if b.responder == nil || text == "" {
		t.reply(textAssistantFailed)
		return nil
	}

	answer, err := b.responder.Complete(t.ctx, t.user.ID, text)
	if err != nil {
		t.log.Warn("assistant failed", zap.Error(err))
		t.reply(textAssistantFailed)
		return nil
	}

	t.reply(answer)
	return nil
}
