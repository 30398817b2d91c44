package report

import (
	notificationRepository "trust_feed/internal/domain/notification/repository"
	notificationService "trust_feed/internal/domain/notification/service"
	postRepository "trust_feed/internal/domain/post/repository"
	profileRepository "trust_feed/internal/domain/profile/repository"
	"trust_feed/internal/domain/report/handler"
	"trust_feed/internal/domain/report/repository"
	"trust_feed/internal/domain/report/service"
	"trust_feed/internal/pkg/middleware"
	"trust_feed/internal/pkg/registry"
	"trust_feed/pkg/database"

	"github.com/gin-gonic/gin"
)

// ReportModule 举报判定模块
type ReportModule struct{}

func init() {
	registry.Register(&ReportModule{})
}

func (m *ReportModule) Name() string {
	return "report"
}

func (m *ReportModule) Priority() int {
	return 20
}

func (m *ReportModule) Init(ctx *registry.ModuleContext) error {
	notifier := notificationService.NewNotificationService(notificationRepository.NewNotificationRepository(ctx.DB))
	svc := service.NewReportService(
		repository.NewReportRepository(ctx.DB),
		postRepository.NewPostRepository(ctx.DB),
		profileRepository.NewProfileRepository(ctx.DB),
		database.NewTransactor(ctx.DB),
		ctx.Oracle,
		ctx.Locker,
		notifier,
		service.Options{
			LockTTL:          ctx.Config.Moderation.ReportLockTTL,
			CommunityDivisor: ctx.Config.Moderation.CommunityDivisor,
		},
	)
	h := handler.NewReportHandler(svc)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.ReportHandler) {
	g := r.Group("/posts/:id/reports")
	g.Use(middleware.AuthMiddleware())
	{
		g.POST("", h.SubmitReport)
		g.GET("", h.ListReports)
	}
}
