package common

import (
	"trust_feed/docs"
	commonHandler "trust_feed/internal/pkg/common"
	"trust_feed/internal/pkg/registry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// CommonModule 健康检查、监控与接口文档
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100 // 最后初始化
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	health := commonHandler.NewHealthHandler(ctx.DB, ctx.Redis)
	setupRoutes(ctx.Router, health, ctx.Config.App.Env)
	return nil
}

func setupRoutes(r *gin.Engine, health *commonHandler.HealthHandler, env string) {
	r.GET("/healthz", health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 生产环境不暴露接口文档
	if env != "prod" {
		docs.SwaggerInfo.BasePath = "/"
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
