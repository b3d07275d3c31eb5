package queueapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"boundedq/internal/queue"
)

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

func RegisterRoutes(m *queue.QueueManager, log *zap.Logger) http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &requestValidator{validate: validator.New()}

	h := NewHandler(m, log)
	e.Use(requestLogger(h.Log))

	e.GET("/queues/:name", h.Stats)
	e.HEAD("/queues/:name", h.Stats)
	e.POST("/queues/:name/messages", h.Enqueue)
	e.GET("/queues/:name/messages", h.List)
	e.DELETE("/queues/:name/messages", h.Clear)
	e.GET("/queues/:name/messages/head", h.Peek)
	e.DELETE("/queues/:name/messages/head", h.Dequeue)
	return e
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			log.Debug("request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.String("queue", c.Param("name")),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
			)
			return nil
		}
	}
}
