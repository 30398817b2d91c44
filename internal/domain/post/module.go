package post

import (
	notificationRepository "trust_feed/internal/domain/notification/repository"
	notificationService "trust_feed/internal/domain/notification/service"
	"trust_feed/internal/domain/post/handler"
	"trust_feed/internal/domain/post/repository"
	"trust_feed/internal/domain/post/service"
	profileRepository "trust_feed/internal/domain/profile/repository"
	"trust_feed/internal/pkg/middleware"
	"trust_feed/internal/pkg/registry"
	"trust_feed/pkg/database"

	"github.com/gin-gonic/gin"
)

// PostModule 动态、点赞与可见性模块
type PostModule struct{}

func init() {
	registry.Register(&PostModule{})
}

func (m *PostModule) Name() string {
	return "post"
}

func (m *PostModule) Priority() int {
	return 10
}

func (m *PostModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewPostRepository(ctx.DB)
	profiles := profileRepository.NewProfileRepository(ctx.DB)
	notifier := notificationService.NewNotificationService(notificationRepository.NewNotificationRepository(ctx.DB))
	svc := service.NewPostService(repo, profiles, database.NewTransactor(ctx.DB), ctx.Oracle, notifier)
	h := handler.NewPostHandler(svc)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.PostHandler) {
	g := r.Group("/posts")
	g.Use(middleware.AuthMiddleware())
	{
		g.GET("", h.Feed)
		g.POST("", h.SubmitPost)
		g.GET("/:id", h.GetPost)
		g.PUT("/:id", h.EditPost)
		g.DELETE("/:id", h.DeletePost)
		g.GET("/:id/replies", h.Replies)
		g.POST("/:id/like", h.LikePost)
		g.DELETE("/:id/like", h.UnlikePost)
	}
}
