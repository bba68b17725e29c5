package service

import (
	"strconv"
	"strings"

	"alto_bot/internal/model"

	"go.uber.org/zap"
)

const (
	guessNumberReward = 250
	riddleReward      = 300
	guessNumberMax    = 100
)

func (b *Bot) openGames(t *turn) error {
	if err := transition(t.ctx, &t.user.Session, eventOpenGames); err != nil {
		return err
	}
	t.reply(textGameMenu)
	return nil
}

func (b *Bot) selectGame(t *turn) error {
	s := &t.user.Session

	switch strings.TrimSpace(t.text) {
	case "1":
		if err := transition(t.ctx, s, eventStartGame); err != nil {
			return err
		}
		answer := b.opts.IntN(guessNumberMax) + 1
		s.Game = &model.Game{Kind: model.GameGuessNumber, Answer: strconv.Itoa(answer)}
		t.reply(textGuessStart)

	case "2":
		riddles := b.catalog.Riddles()
		if len(riddles) == 0 {
			if err := transition(t.ctx, s, eventCloseGames); err != nil {
				return err
			}
			t.reply(textNoRiddles)
			t.reply(menuText(t.user))
			return nil
		}
		if err := transition(t.ctx, s, eventStartGame); err != nil {
			return err
		}
		riddle := riddles[b.opts.IntN(len(riddles))]
		s.Game = &model.Game{Kind: model.GameRiddle, Answer: riddle.Answer, Question: riddle.Question}
		t.reply(riddleStartText(riddle.Question))

	default:
		t.reply(textInvalidChoice)
	}

	return nil
}

func (b *Bot) playGame(t *turn) error {
	game := t.user.Session.Game
	text := strings.TrimSpace(t.text)

	switch game.Kind {
	case model.GameGuessNumber:
		guess, err := strconv.Atoi(text)
		if err != nil {
			t.reply(textGuessInvalid)
			return nil
		}
		answer, err := strconv.Atoi(game.Answer)
		if err != nil {
			return err
		}
		switch {
		case guess < answer:
			t.reply(textGuessTooLow)
		case guess > answer:
			t.reply(textGuessTooHigh)
		default:
			return b.winGame(t, game, guessNumberReward)
		}

	case model.GameRiddle:
		if !strings.EqualFold(text, strings.TrimSpace(game.Answer)) {
			t.reply(textRiddleWrong)
			return nil
		}
		return b.winGame(t, game, riddleReward)

	default:
		if err := resetSession(t.ctx, &t.user.Session); err != nil {
			return err
		}
		t.reply(menuText(t.user))
	}

	return nil
}

func (b *Bot) winGame(t *turn, game *model.Game, reward int64) error {
	user := t.user
	user.Session.Game = nil
	if err := transition(t.ctx, &user.Session, eventGameOver); err != nil {
		return err
	}

	user.Balance += reward
	t.log.Info("game won", zap.String("game", string(game.Kind)), zap.Int64("amount", reward))

	t.reply(gameWonText(game.Answer, reward, user.Balance))
	t.reply(menuText(user))
	return nil
}
