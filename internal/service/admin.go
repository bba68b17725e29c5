package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"alto_bot/internal/model"
	"alto_bot/pkg/logger"

	"go.uber.org/zap"
)

// AdminService holds the privileged operations shared by the chat commands and
// the operator HTTP API.
type AdminService struct {
	sessions *SessionStore
	catalog  *Catalog
}

func NewAdminService(sessions *SessionStore, catalog *Catalog) *AdminService {
	return &AdminService{
		sessions: sessions,
		catalog:  catalog,
	}
}

// Login grants admin rights to the caller's own record. The caller holds the user's lock.
func (s *AdminService) Login(user *model.User, password string) error {
	if password != s.catalog.Config().AdminPassword {
		return ErrWrongPassword
	}
	user.IsAdmin = true
	logger.Logger().Info("admin login", zap.String("user_id", user.ID))
	return nil
}

func (s *AdminService) ListUsers() []*model.User {
	return s.sessions.List()
}

func (s *AdminService) GetUser(id string) (*model.User, error) {
	user, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AdminService) SetBlocked(ctx context.Context, id string, blocked bool) error {
	err := s.sessions.Mutate(ctx, id, func(u *model.User) error {
		u.IsBlocked = blocked
		return nil
	})
	if err != nil {
		return err
	}

	logger.Logger().Info("user block status changed", zap.String("user_id", id), zap.Bool("blocked", blocked))
	return nil
}

func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}

func (s *AdminService) ListTasks() []model.Task {
	return s.catalog.Tasks()
}

func (s *AdminService) AddTask(ctx context.Context, task model.Task) (model.Task, error) {
	created, err := s.catalog.AddTask(ctx, task)
	if err != nil {
		return model.Task{}, err
	}

	logger.Logger().Info("task created", zap.Int64("task_id", created.ID))
	return created, nil
}

func (s *AdminService) DeleteTask(ctx context.Context, id int64) error {
	if err := s.catalog.DeleteTask(ctx, id); err != nil {
		return err
	}

	logger.Logger().Info("task deleted", zap.Int64("task_id", id))
	return nil
}

func (s *AdminService) Bonus() model.BonusRange {
	return s.catalog.Config().DailyBonus
}

func (s *AdminService) SetBonus(ctx context.Context, min, max int64) error {
	return s.catalog.SetBonus(ctx, min, max)
}

func (b *Bot) handleCommand(t *turn, fields []string) error {
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	if cmd == "/loginadmin" {
		err := b.admin.Login(t.user, strings.Join(args, " "))
		switch {
		case errors.Is(err, ErrWrongPassword):
			t.reply(textAdminWrongPass)
		case err != nil:
			return err
		default:
			t.reply(textAdminLoggedIn)
			t.reply(menuText(t.user))
		}
		return nil
	}

	if !t.user.IsAdmin {
		t.reply(textUnknownCommand)
		return nil
	}

	switch cmd {
	case "/listusers":
		t.reply(userListText(b.admin.ListUsers()))
	case "/blockuser":
		return b.setBlockedCommand(t, args, true)
	case "/unblockuser":
		return b.setBlockedCommand(t, args, false)
	case "/deleteuser":
		if len(args) != 1 {
			t.reply(usageDeleteUser)
			return nil
		}
		if err := b.admin.DeleteUser(t.ctx, args[0]); err != nil {
			if errors.Is(err, ErrUserNotFound) {
				t.reply(userNotFoundText(args[0]))
				return nil
			}
			if errors.Is(err, ErrSessionBusy) {
				t.reply(textBusy)
				return nil
			}
			return err
		}
		t.reply(fmt.Sprintf("🗑️ Pengguna %s telah dihapus.", args[0]))
	case "/addtugas":
		return b.addTaskCommand(t, args)
	case "/listtugas":
		tasks := b.admin.ListTasks()
		if len(tasks) == 0 {
			t.reply(textNoTasksCreated)
			return nil
		}
		t.reply(adminTaskListText(tasks))
	case "/hapustugas":
		if len(args) != 1 {
			t.reply(usageDeleteTask)
			return nil
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			t.reply(usageDeleteTask)
			return nil
		}
		if err := b.admin.DeleteTask(t.ctx, id); err != nil {
			if errors.Is(err, ErrTaskNotFound) {
				t.reply(textTaskNotFound)
				return nil
			}
			return err
		}
		t.reply(fmt.Sprintf("✅ Tugas dengan ID %d berhasil dihapus.", id))
	case "/setbonus":
		return b.setBonusCommand(t, args)
	default:
		t.reply(textUnknownAdminCmd)
	}

	return nil
}

func userNotFoundText(id string) string {
	return fmt.Sprintf("❌ Pengguna %s tidak ditemukan.", id)
}

func (b *Bot) setBlockedCommand(t *turn, args []string, blocked bool) error {
	usage, done := usageUnblockUser, "✅ Pengguna %s telah dibuka blokirnya."
	if blocked {
		usage, done = usageBlockUser, "🚫 Pengguna %s telah diblokir."
	}
	if len(args) != 1 {
		t.reply(usage)
		return nil
	}

	if err := b.admin.SetBlocked(t.ctx, args[0], blocked); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			t.reply(userNotFoundText(args[0]))
			return nil
		}
		if errors.Is(err, ErrSessionBusy) {
			t.reply(textBusy)
			return nil
		}
		return err
	}

	t.reply(fmt.Sprintf(done, args[0]))
	return nil
}

func (b *Bot) addTaskCommand(t *turn, args []string) error {
	if len(args) < 5 {
		t.reply(usageAddTask)
		return nil
	}
	reward, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		t.reply(usageAddTask)
		return nil
	}
	duration, err := strconv.Atoi(args[1])
	if err != nil {
		t.reply(usageAddTask)
		return nil
	}

	task, err := b.admin.AddTask(t.ctx, model.Task{
		Name:        args[2],
		Link:        args[3],
		Description: strings.Join(args[4:], " "),
		Reward:      reward,
		Duration:    duration,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidTask) {
			t.reply(usageAddTask)
			return nil
		}
		return err
	}

	t.reply(fmt.Sprintf("✅ Tugas baru berhasil ditambahkan dengan ID: %d", task.ID))
	return nil
}

func (b *Bot) setBonusCommand(t *turn, args []string) error {
	if len(args) != 2 {
		t.reply(usageSetBonus)
		return nil
	}
	min, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		t.reply(usageSetBonus)
		return nil
	}
	max, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		t.reply(usageSetBonus)
		return nil
	}

	if err := b.admin.SetBonus(t.ctx, min, max); err != nil {
		if errors.Is(err, ErrInvalidBonusRange) {
			t.reply(usageSetBonus)
			return nil
		}
		return err
	}

	t.reply(fmt.Sprintf("✅ Bonus harian diatur ke rentang %d - %d.", min, max))
	return nil
}
