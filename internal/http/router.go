package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/relaybot/internal/http/handlers"
	httpMW "github.com/yungbote/relaybot/internal/http/middleware"
	"github.com/yungbote/relaybot/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger
	// ServiceName labels server spans; defaults to relaybot.
	ServiceName string

	HealthHandler *httpH.HealthHandler
	// WebhookHandler is nil in polling mode.
	WebhookHandler *httpH.WebhookHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "relaybot"
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	// Telegram
	if cfg.WebhookHandler != nil {
		r.POST("/telegram/webhook/:secret", cfg.WebhookHandler.Receive)
	}

	return r
}
