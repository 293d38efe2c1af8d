package leaveplan

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	plans := r.Group("/leave-plans")
	plans.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		plans.GET("", middleware.RBACAuthorize(rbacService, "leave_plan", "read"), handler.GetAll)
		plans.GET("/:id", middleware.RBACAuthorize(rbacService, "leave_plan", "read"), handler.GetByID)
		plans.POST("", middleware.RBACAuthorize(rbacService, "leave_plan", "manage"), handler.Create)
		plans.PUT("/:id", middleware.RBACAuthorize(rbacService, "leave_plan", "manage"), handler.Update)
		plans.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave_plan", "manage"), handler.Delete)
	}
}
