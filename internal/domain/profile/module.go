package profile

import (
	notificationRepository "trust_feed/internal/domain/notification/repository"
	notificationService "trust_feed/internal/domain/notification/service"
	"trust_feed/internal/domain/profile/handler"
	"trust_feed/internal/domain/profile/repository"
	"trust_feed/internal/domain/profile/service"
	"trust_feed/internal/pkg/middleware"
	"trust_feed/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// ProfileModule 用户资料与信任分模块
type ProfileModule struct{}

func init() {
	registry.Register(&ProfileModule{})
}

func (m *ProfileModule) Name() string {
	return "profile"
}

func (m *ProfileModule) Priority() int {
	// 其他模块都依赖用户资料
	return 1
}

func (m *ProfileModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	repo := repository.NewProfileRepository(ctx.DB)
	notifier := notificationService.NewNotificationService(notificationRepository.NewNotificationRepository(ctx.DB))
	svc := service.NewProfileService(repo, ctx.Oracle, notifier, ctx.Cache, service.Options{
		InitialTrust:    ctx.Config.Moderation.InitialTrust,
		RankingCacheTTL: ctx.Config.Moderation.RankingCacheTTL,
	})
	h := handler.NewProfileHandler(svc)

	// 2. 路由注册
	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.ProfileHandler) {
	r.GET("/ranking", h.Ranking)

	g := r.Group("/profiles")
	g.Use(middleware.AuthMiddleware())
	{
		g.POST("", h.CreateProfile)
		g.GET("/me", h.GetMe)
		g.PUT("/me/nickname", h.UpdateNickname)
		g.GET("/:id", h.GetProfile)
	}
}
