package service

import (
	"context"
	"errors"
	"fmt"

	"alto_bot/internal/model"

	"github.com/looplab/fsm"
)

const (
	eventReset         = "reset"
	eventStartWithdraw = "start_withdraw"
	eventWithdrawNext  = "withdraw_next"
	eventWithdrawDone  = "withdraw_done"
	eventListTasks     = "list_tasks"
	eventTaskChosen    = "task_chosen"
	eventOpenGames     = "open_games"
	eventCloseGames    = "close_games"
	eventStartGame     = "start_game"
	eventGameOver      = "game_over"
	eventIssueCaptcha  = "issue_captcha"
	eventCaptchaDone   = "captcha_done"
)

var allModes = []string{
	string(model.ModeMain),
	string(model.ModeWithdrawAmount),
	string(model.ModeWithdrawBank),
	string(model.ModeWithdrawName),
	string(model.ModeWithdrawNumber),
	string(model.ModeChoosingTask),
	string(model.ModeChoosingGame),
	string(model.ModeCaptcha),
	string(model.ModePlaying),
}

var modeEvents = fsm.Events{
	{Name: eventReset, Src: allModes, Dst: string(model.ModeMain)},

	{Name: eventStartWithdraw, Src: []string{string(model.ModeMain)}, Dst: string(model.ModeWithdrawAmount)},
	{Name: eventWithdrawNext, Src: []string{string(model.ModeWithdrawAmount)}, Dst: string(model.ModeWithdrawBank)},
	{Name: eventWithdrawNext, Src: []string{string(model.ModeWithdrawBank)}, Dst: string(model.ModeWithdrawName)},
	{Name: eventWithdrawNext, Src: []string{string(model.ModeWithdrawName)}, Dst: string(model.ModeWithdrawNumber)},
	{Name: eventWithdrawDone, Src: []string{string(model.ModeWithdrawNumber)}, Dst: string(model.ModeMain)},

	{Name: eventListTasks, Src: []string{string(model.ModeMain)}, Dst: string(model.ModeChoosingTask)},
	{Name: eventTaskChosen, Src: []string{string(model.ModeChoosingTask)}, Dst: string(model.ModeMain)},

	{Name: eventOpenGames, Src: []string{string(model.ModeMain)}, Dst: string(model.ModeChoosingGame)},
	{Name: eventCloseGames, Src: []string{string(model.ModeChoosingGame)}, Dst: string(model.ModeMain)},
	{Name: eventStartGame, Src: []string{string(model.ModeChoosingGame)}, Dst: string(model.ModePlaying)},
	{Name: eventGameOver, Src: []string{string(model.ModePlaying)}, Dst: string(model.ModeMain)},

	{Name: eventIssueCaptcha, Src: []string{
		string(model.ModeMain),
		string(model.ModeChoosingTask),
		string(model.ModeChoosingGame),
	}, Dst: string(model.ModeCaptcha)},
	{Name: eventCaptchaDone, Src: []string{string(model.ModeCaptcha)}, Dst: string(model.ModeMain)},
}

func validMode(m model.Mode) bool {
	for _, mode := range allModes {
		if string(m) == mode {
			return true
		}
	}
	return false
}

// transition moves the session along a declared edge of the mode machine.
// Sub-state payloads (captcha, game, wizard data) are managed by the callers.
func transition(ctx context.Context, s *model.Session, event string) error {
	machine := fsm.NewFSM(string(s.Mode), modeEvents, fsm.Callbacks{})
	if err := machine.Event(ctx, event); err != nil {
		var noTransition fsm.NoTransitionError
		if !errors.As(err, &noTransition) {
			return fmt.Errorf("%w: %s from %s: %v", ErrInvalidTransition, event, s.Mode, err)
		}
	}
	s.Mode = model.Mode(machine.Current())
	return nil
}

// resetSession returns to the main menu from any mode, dropping every sub-state.
func resetSession(ctx context.Context, s *model.Session) error {
	if err := transition(ctx, s, eventReset); err != nil {
		return err
	}
	s.Reset()
	return nil
}
