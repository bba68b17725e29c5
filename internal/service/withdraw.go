package service

import (
	"strconv"
	"strings"

	"alto_bot/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (b *Bot) startWithdraw(t *turn) error {
	s := &t.user.Session
	if err := transition(t.ctx, s, eventStartWithdraw); err != nil {
		return err
	}
	s.Withdraw = model.WithdrawData{}

	t.reply(withdrawStartText(t.user.Balance))
	return nil
}

func (b *Bot) withdrawStep(t *turn) error {
	s := &t.user.Session
	text := strings.TrimSpace(t.text)

	switch s.Mode {
	case model.ModeWithdrawAmount:
		amount, err := strconv.ParseInt(text, 10, 64)
		if err != nil || amount <= 0 {
			t.reply(textWithdrawInvalidAmount)
			return nil
		}
		if amount > t.user.Balance {
			t.reply(insufficientBalanceText(t.user.Balance))
			return nil
		}
		s.Withdraw.Amount = amount
		t.reply(withdrawAmountText(amount))

	case model.ModeWithdrawBank:
		if text == "" {
			t.reply(textWithdrawEmpty)
			return nil
		}
		s.Withdraw.Bank = text
		t.reply(withdrawBankText(text))

	case model.ModeWithdrawName:
		if text == "" {
			t.reply(textWithdrawEmpty)
			return nil
		}
		s.Withdraw.Name = text
		t.reply(withdrawNameText(text))

	case model.ModeWithdrawNumber:
		return b.finishWithdraw(t, text)
	}

	return transition(t.ctx, s, eventWithdrawNext)
}

// finishWithdraw debits the balance and queues the operator notification.
// Sufficiency is checked again here since rewards may have landed since the
// amount step.
func (b *Bot) finishWithdraw(t *turn, number string) error {
	user := t.user
	s := &user.Session
	data := s.Withdraw
	data.Number = number

	if err := transition(t.ctx, s, eventWithdrawDone); err != nil {
		return err
	}
	s.Withdraw = model.WithdrawData{}

	if data.Amount <= 0 || data.Amount > user.Balance {
		t.reply(insufficientBalanceText(user.Balance))
		t.reply(menuText(user))
		return nil
	}

	user.Balance -= data.Amount
	req := model.WithdrawalRequest{
		RequestID:   uuid.New(),
		UserID:      user.ID,
		Amount:      data.Amount,
		Bank:        data.Bank,
		Name:        data.Name,
		Number:      data.Number,
		RequestedAt: t.now,
	}

	if b.opts.OwnerID != "" {
		t.send(b.opts.OwnerID, withdrawNotificationText(req))
	}
	t.withdrawals = append(t.withdrawals, req)
	t.log.Info("withdrawal requested",
		zap.String("request_id", req.RequestID.String()),
		zap.Int64("amount", req.Amount))

	t.reply(textWithdrawDone)
	t.reply(menuText(user))
	return nil
}
