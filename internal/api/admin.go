package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"alto_bot/internal/middleware"
	"alto_bot/internal/model"
	"alto_bot/internal/service"
	"alto_bot/pkg/auth"
	"alto_bot/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type adminRoutes struct {
	as service.AdminServiceI
}

func NewAdminRoutes(handler *gin.RouterGroup, as service.AdminServiceI, a *auth.TelegramAuth, feed *Feed) {
	r := &adminRoutes{as: as}
	authorization := middleware.NewAuthorization(as)

	h := handler.Group("/admin")
	h.Use(a.TelegramAuthMiddleware(), authorization.AdminOnly())
	{
		h.GET("/users", r.ListUsers)
		h.GET("/users/:id", r.GetUser)
		h.PATCH("/users/:id/block", r.SetBlocked)
		h.DELETE("/users/:id", r.DeleteUser)

		h.GET("/tasks", r.ListTasks)
		h.POST("/tasks", r.AddTask)
		h.DELETE("/tasks/:id", r.DeleteTask)

		h.GET("/bonus", r.GetBonus)
		h.PUT("/bonus", r.SetBonus)

		h.GET("/feed", feed.HandleWebSocket)
	}
}

type UserResponse struct {
	ID                  string     `json:"id"`
	Balance             int64      `json:"balance"`
	IsBlocked           bool       `json:"is_blocked"`
	IsAdmin             bool       `json:"is_admin"`
	Mode                model.Mode `json:"mode"`
	LastLoginDay        string     `json:"last_login_day"`
	ClaimedDailyBonus   bool       `json:"claimed_daily_bonus"`
	CompletedTasksToday []int64    `json:"completed_tasks_today"`
	ActiveTaskID        *int64     `json:"active_task_id,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

func toUserResponse(u *model.User) UserResponse {
	out := UserResponse{
		ID:                  u.ID,
		Balance:             u.Balance,
		IsBlocked:           u.IsBlocked,
		IsAdmin:             u.IsAdmin,
		Mode:                u.Session.Mode,
		LastLoginDay:        u.LastLoginDay,
		ClaimedDailyBonus:   u.ClaimedDailyBonus,
		CompletedTasksToday: u.CompletedTasksToday,
		CreatedAt:           u.CreatedAt,
	}
	if u.Session.ActiveTask != nil {
		id := u.Session.ActiveTask.TaskID
		out.ActiveTaskID = &id
	}
	return out
}

func (r *adminRoutes) ListUsers(c *gin.Context) {
	users := r.as.ListUsers()

	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}

	c.JSON(http.StatusOK, out)
}

func (r *adminRoutes) GetUser(c *gin.Context) {
	log := logger.Logger()

	user, err := r.as.GetUser(c.Param("id"))
	if err != nil {
		log.Info("failed to get user", zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

type SetBlockedRequest struct {
	Blocked *bool `json:"blocked" binding:"required"`
}

func (r *adminRoutes) SetBlocked(c *gin.Context) {
	log := logger.Logger()
	id := c.Param("id")

	var req SetBlockedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := r.as.SetBlocked(c.Request.Context(), id, *req.Blocked)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if errors.Is(err, service.ErrSessionBusy) {
			c.JSON(http.StatusConflict, gin.H{"error": "user is busy"})
			return
		}
		log.Error("failed to update block status", zap.String("user_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "is_blocked": *req.Blocked})
}

func (r *adminRoutes) DeleteUser(c *gin.Context) {
	log := logger.Logger()
	id := c.Param("id")

	err := r.as.DeleteUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if errors.Is(err, service.ErrSessionBusy) {
			c.JSON(http.StatusConflict, gin.H{"error": "user is busy"})
			return
		}
		log.Error("failed to delete user", zap.String("user_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (r *adminRoutes) ListTasks(c *gin.Context) {
	c.JSON(http.StatusOK, r.as.ListTasks())
}

type AddTaskRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Link        string `json:"link" binding:"required"`
	Reward      int64  `json:"reward" binding:"required,gt=0"`
	Duration    int    `json:"duration" binding:"required,gt=0"`
}

func (r *adminRoutes) AddTask(c *gin.Context) {
	log := logger.Logger()

	var req AddTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	task, err := r.as.AddTask(c.Request.Context(), model.Task{
		Name:        req.Name,
		Description: req.Description,
		Link:        req.Link,
		Reward:      req.Reward,
		Duration:    req.Duration,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidTask) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task"})
			return
		}
		log.Error("failed to add task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add task"})
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (r *adminRoutes) DeleteTask(c *gin.Context) {
	log := logger.Logger()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		log.Info("failed to parse task id", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	err = r.as.DeleteTask(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		log.Error("failed to delete task", zap.Int64("task_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (r *adminRoutes) GetBonus(c *gin.Context) {
	c.JSON(http.StatusOK, r.as.Bonus())
}

type SetBonusRequest struct {
	Min *int64 `json:"min" binding:"required"`
	Max *int64 `json:"max" binding:"required"`
}

func (r *adminRoutes) SetBonus(c *gin.Context) {
	log := logger.Logger()

	var req SetBonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := r.as.SetBonus(c.Request.Context(), *req.Min, *req.Max)
	if err != nil {
		if errors.Is(err, service.ErrInvalidBonusRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min must be between 0 and max"})
			return
		}
		log.Error("failed to set bonus", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set bonus"})
		return
	}

	c.JSON(http.StatusOK, model.BonusRange{Min: *req.Min, Max: *req.Max})
}
