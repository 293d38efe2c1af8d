package app

import (
	"database/sql"
	"os"

	"go-leave/internal/leaveapp"
	"go-leave/internal/leavebalance"
	"go-leave/internal/leaveplan"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/notification"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	planRepo := leaveplan.NewRepository(gormDB)
	appRepo := leaveapp.NewRepository(gormDB)
	balanceRepo := leavebalance.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	modelPath := os.Getenv("RBAC_MODEL_PATH")
	if modelPath == "" {
		modelPath = "config/rbac_model.conf"
	}
	enforcer, err := infra.NewEnforcer(modelPath)
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)

	// --- Services ---
	notificationService := notification.NewService(notificationRepo, logger)
	planService := leaveplan.NewService(planRepo, rdb, logger)
	appService := leaveapp.NewService(db, appRepo, balanceRepo, outboxRepo, notificationService, logger)

	// --- Handlers ---
	planHandler := leaveplan.NewHandler(planService, logger)
	appHandler := leaveapp.NewHandlerWithRedis(appService, rdb, logger)
	notificationHandler := notification.NewHandler(notificationService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		leaveplan.RegisterRoutes(api, planHandler, rbacService)
		leaveapp.RegisterRoutes(api, appHandler, rbacService, rdb)
		notification.RegisterRoutes(api, notificationHandler)
	}

	return nil
}
