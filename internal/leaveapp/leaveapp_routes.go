package leaveapp

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	apps := r.Group("/leave-applications")
	apps.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		apps.GET("", middleware.RBACAuthorize(rbacService, "leave_application", "read"), handler.GetAll)
		apps.GET("/ongoing", middleware.RBACAuthorize(rbacService, "leave_application", "recall"), handler.GetOngoing)
		apps.GET("/:id", middleware.RBACAuthorize(rbacService, "leave_application", "read"), handler.GetByID)
		apps.GET("/:id/recall-preview", middleware.RBACAuthorize(rbacService, "leave_application", "recall"), handler.RecallPreview)
		apps.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "leave_application", "review"), handler.Approve)
		apps.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "leave_application", "review"), handler.Reject)

		// Idempotency guards a recall against double submission from a
		// retried request.
		apps.POST("/:id/recall",
			middleware.RBACAuthorize(rbacService, "leave_application", "recall"),
			middleware.Idempotency(rdb),
			handler.Recall,
		)
	}
}
