package model

import (
	"slices"
	"time"
)

type Mode string

const (
	ModeMain           Mode = "main"
	ModeWithdrawAmount Mode = "withdraw_amount"
	ModeWithdrawBank   Mode = "withdraw_bank"
	ModeWithdrawName   Mode = "withdraw_name"
	ModeWithdrawNumber Mode = "withdraw_number"
	ModeChoosingTask   Mode = "choosing_task"
	ModeChoosingGame   Mode = "choosing_game"
	ModeCaptcha        Mode = "captcha"
	ModePlaying        Mode = "playing"
)

func (m Mode) IsWithdraw() bool {
	switch m {
	case ModeWithdrawAmount, ModeWithdrawBank, ModeWithdrawName, ModeWithdrawNumber:
		return true
	}
	return false
}

type CaptchaKind string

const (
	CaptchaClaim CaptchaKind = "claim"
	CaptchaTask  CaptchaKind = "task"
)

type GameKind string

const (
	GameGuessNumber GameKind = "guess_number"
	GameRiddle      GameKind = "riddle"
)

type User struct {
	ID                  string    `json:"id"`
	Balance             int64     `json:"balance"`
	IsBlocked           bool      `json:"isBlocked"`
	IsAdmin             bool      `json:"isAdmin"`
	LastLoginDay        string    `json:"lastLoginDay"`
	ClaimedDailyBonus   bool      `json:"claimedDailyBonus"`
	CompletedTasksToday []int64   `json:"completedTasksToday"`
	Session             Session   `json:"session"`
	CreatedAt           time.Time `json:"createdAt"`
}

// Session is the routing state of a user. Mode is the only discriminant:
// Captcha is set iff Mode is ModeCaptcha, Game iff Mode is ModePlaying.
type Session struct {
	Mode       Mode         `json:"mode"`
	Captcha    *Captcha     `json:"captcha,omitempty"`
	Game       *Game        `json:"game,omitempty"`
	ActiveTask *ActiveTask  `json:"activeTask,omitempty"`
	Withdraw   WithdrawData `json:"withdraw"`
}

type Captcha struct {
	Kind   CaptchaKind `json:"kind"`
	Answer string      `json:"answer"`
	Task   *Task       `json:"task,omitempty"`
}

type Game struct {
	Kind     GameKind `json:"kind"`
	Answer   string   `json:"answer"`
	Question string   `json:"question,omitempty"`
}

type ActiveTask struct {
	TaskID    int64     `json:"taskId"`
	StartedAt time.Time `json:"startedAt"`
	Task      Task      `json:"task"`
}

type WithdrawData struct {
	Amount int64  `json:"amount,omitempty"`
	Bank   string `json:"bank,omitempty"`
	Name   string `json:"name,omitempty"`
	Number string `json:"number,omitempty"`
}

func NewUser(id string, day string, now time.Time) *User {
	return &User{
		ID:                  id,
		LastLoginDay:        day,
		CompletedTasksToday: []int64{},
		Session:             Session{Mode: ModeMain},
		CreatedAt:           now,
	}
}

func (u *User) HasCompleted(taskID int64) bool {
	return slices.Contains(u.CompletedTasksToday, taskID)
}

// Rollover resets the daily flags once per calendar day and reports whether it did.
func (u *User) Rollover(day string) bool {
	if u.LastLoginDay == day {
		return false
	}
	u.LastLoginDay = day
	u.ClaimedDailyBonus = false
	u.CompletedTasksToday = []int64{}
	return true
}

// Reset drops every sub-state, including the active task, and returns to the main menu.
func (s *Session) Reset() {
	*s = Session{Mode: ModeMain}
}

func (u *User) Clone() *User {
	c := *u
	c.CompletedTasksToday = slices.Clone(u.CompletedTasksToday)
	if u.Session.Captcha != nil {
		captcha := *u.Session.Captcha
		if captcha.Task != nil {
			task := *captcha.Task
			captcha.Task = &task
		}
		c.Session.Captcha = &captcha
	}
	if u.Session.Game != nil {
		game := *u.Session.Game
		c.Session.Game = &game
	}
	if u.Session.ActiveTask != nil {
		active := *u.Session.ActiveTask
		c.Session.ActiveTask = &active
	}
	return &c
}
