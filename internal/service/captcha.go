package service

import (
	"strings"

	"alto_bot/internal/model"

	"go.uber.org/zap"
)

const captchaAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func (b *Bot) newCaptchaCode() string {
	code := make([]byte, b.opts.CaptchaLength)
	for i := range code {
		code[i] = captchaAlphabet[b.opts.IntN(len(captchaAlphabet))]
	}
	return string(code)
}

func (b *Bot) bonusAmount(r model.BonusRange) int64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + int64(b.opts.IntN(int(r.Max-r.Min+1)))
}

func (b *Bot) claimBonus(t *turn) error {
	if t.user.ClaimedDailyBonus {
		t.reply(textBonusClaimed)
		return nil
	}
	return b.issueCaptcha(t, model.CaptchaClaim, nil)
}

func (b *Bot) issueCaptcha(t *turn, kind model.CaptchaKind, task *model.Task) error {
	s := &t.user.Session
	if err := transition(t.ctx, s, eventIssueCaptcha); err != nil {
		return err
	}

	code := b.newCaptchaCode()
	s.Captcha = &model.Captcha{Kind: kind, Answer: code, Task: task}

	if kind == model.CaptchaTask {
		t.reply(taskCaptchaText(task, code))
	} else {
		t.reply(claimCaptchaText(code))
	}
	return nil
}

// verifyCaptcha consumes the pending challenge. There is one attempt: the
// challenge is gone whether or not the answer matched.
func (b *Bot) verifyCaptcha(t *turn) error {
	user := t.user
	s := &user.Session
	captcha := s.Captcha

	s.Captcha = nil
	if err := transition(t.ctx, s, eventCaptchaDone); err != nil {
		return err
	}

	if !strings.EqualFold(strings.TrimSpace(t.text), captcha.Answer) {
		t.reply(textCaptchaFailed)
		t.reply(menuText(user))
		return nil
	}

	t.reply(textCaptchaOK)

	switch captcha.Kind {
	case model.CaptchaClaim:
		amount := b.bonusAmount(b.catalog.Config().DailyBonus)
		user.Balance += amount
		user.ClaimedDailyBonus = true
		t.log.Info("daily bonus claimed", zap.Int64("amount", amount))
		t.reply(bonusRewardText(amount, user.Balance))

	case model.CaptchaTask:
		task := captcha.Task
		if task == nil {
			break
		}
		user.Balance += task.Reward
		if !user.HasCompleted(task.ID) {
			user.CompletedTasksToday = append(user.CompletedTasksToday, task.ID)
		}
		t.log.Info("task rewarded", zap.Int64("task_id", task.ID), zap.Int64("amount", task.Reward))
		t.reply(taskRewardText(task.Reward, user.Balance))
	}

	t.reply(menuText(user))
	return nil
}
