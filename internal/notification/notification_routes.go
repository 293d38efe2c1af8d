package notification

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		notifications.GET("", handler.GetAll)
		notifications.PATCH("/:id/read", handler.MarkRead)
	}
}
