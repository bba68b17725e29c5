package middleware

import (
	"net/http"

	"alto_bot/internal/service"
	"alto_bot/pkg/auth"
	"alto_bot/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Authorization struct {
	adminService service.AdminServiceI
}

func NewAuthorization(adminService service.AdminServiceI) *Authorization {
	return &Authorization{
		adminService: adminService,
	}
}

// AdminOnly lets through callers whose bot record carries the admin flag,
// granted in chat with /loginadmin.
func (a *Authorization) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		telegramUser, ok := auth.UserFromContext(c)
		if !ok {
			log.Error("telegram user data not found in context")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		user, err := a.adminService.GetUser(telegramUser.UserID())
		if err != nil {
			log.Info("failed to get user data", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		if !user.IsAdmin || user.IsBlocked {
			log.Info("unauthorized access attempt to admin endpoint",
				zap.String("user_id", user.ID))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		c.Set("is_admin", true)
		c.Next()
	}
}
