package http

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/IronwoodTC/quoteiq-webhook/internal/config"
	"github.com/IronwoodTC/quoteiq-webhook/internal/hook"
	"github.com/IronwoodTC/quoteiq-webhook/internal/http/middleware"
	"github.com/IronwoodTC/quoteiq-webhook/internal/metrics"
)

type Server struct{ e *echo.Echo }

// NewServer wires the webhook route. rds may be nil (rate limiting off).
func NewServer(cfg config.Config, disp *hook.Dispatcher, rds *redis.Client) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMid.Recover(), echoMid.Logger())

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// liveness
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "quoteiq-webhook",
			"status":  "ok",
		})
	})

	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          rds,
		DefaultRPS:     cfg.RateLimit.RPS,
		KeyPrefix:      "rl:src:",
		RetryAfterHint: true,
	})

	e.POST("/webhook/quoteiq", webhookHandler(disp), rlMW)

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	log.Printf("http: listening on %s", addr)
	return s.e.Start(addr)
}
func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
