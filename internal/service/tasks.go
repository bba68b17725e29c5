package service

import (
	"math"
	"strconv"
	"strings"

	"alto_bot/internal/model"

	"go.uber.org/zap"
)

func (b *Bot) listTasks(t *turn) error {
	var available []model.Task
	for _, task := range b.catalog.Tasks() {
		if !t.user.HasCompleted(task.ID) {
			available = append(available, task)
		}
	}

	if len(available) == 0 {
		t.reply(textNoTasks)
		t.reply(menuText(t.user))
		return nil
	}

	if err := transition(t.ctx, &t.user.Session, eventListTasks); err != nil {
		return err
	}
	t.reply(taskListText(available))
	return nil
}

func (b *Bot) selectTask(t *turn) error {
	s := &t.user.Session

	id, err := strconv.ParseInt(strings.TrimSpace(t.text), 10, 64)
	if err != nil {
		t.reply(textInvalidChoice)
		return nil
	}
	task, ok := b.catalog.Task(id)
	if !ok || t.user.HasCompleted(id) {
		t.reply(textInvalidChoice)
		return nil
	}

	if err := transition(t.ctx, s, eventTaskChosen); err != nil {
		return err
	}

	if s.ActiveTask != nil {
		t.reply(activeTaskText(s.ActiveTask))
		return nil
	}

	s.ActiveTask = &model.ActiveTask{
		TaskID:    task.ID,
		StartedAt: t.now,
		Task:      task,
	}
	t.log.Info("task started", zap.Int64("task_id", task.ID))

	t.reply(taskStartedText(task))
	return nil
}

// completeTask handles /selesai <id>. The reward itself is paid by the captcha
// that this issues.
func (b *Bot) completeTask(t *turn, args []string) error {
	if len(args) != 1 {
		t.reply(textSelesaiUsage)
		return nil
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		t.reply(textSelesaiUsage)
		return nil
	}

	s := &t.user.Session
	active := s.ActiveTask
	if active == nil || active.TaskID != id {
		t.reply(textNotWorkingOnIt)
		return nil
	}

	required := active.Task.RequiredTime()
	if elapsed := t.now.Sub(active.StartedAt); elapsed < required {
		remaining := int64(math.Ceil((required - elapsed).Minutes()))
		t.reply(taskNotFinishedText(remaining))
		return nil
	}

	task := active.Task
	s.ActiveTask = nil
	return b.issueCaptcha(t, model.CaptchaTask, &task)
}
