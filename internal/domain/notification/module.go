package notification

import (
	"trust_feed/internal/domain/notification/handler"
	"trust_feed/internal/domain/notification/repository"
	"trust_feed/internal/domain/notification/service"
	"trust_feed/internal/pkg/middleware"
	"trust_feed/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// NotificationModule 通知模块
type NotificationModule struct{}

func init() {
	registry.Register(&NotificationModule{})
}

func (m *NotificationModule) Name() string {
	return "notification"
}

func (m *NotificationModule) Priority() int {
	return 2
}

func (m *NotificationModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewNotificationRepository(ctx.DB)
	svc := service.NewNotificationService(repo)
	h := handler.NewNotificationHandler(svc)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.NotificationHandler) {
	g := r.Group("/notifications")
	g.Use(middleware.AuthMiddleware())
	{
		g.GET("", h.List)
		g.PUT("/:id/read", h.MarkRead)
	}
}
