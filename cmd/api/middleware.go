package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/giovaniif/e-commerce/catalog/domain/item"
	"github.com/giovaniif/e-commerce/catalog/infra/requestid"
	protocols "github.com/giovaniif/e-commerce/catalog/protocols"
)

const msgInternal = "Internal server error."

func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		ctx := c.Request.Context()
		logger.InfoContext(ctx, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestid.FromContext(ctx),
		)
	}
}

// errorHandler turns the last error a handler pushed with c.Error into a
// status and an {"error": message} body, logging it first.
func errorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		status, message := statusFor(err)

		ctx := c.Request.Context()
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(ctx, level, "request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"request_id", requestid.FromContext(ctx),
			"error", err,
		)
		c.JSON(status, gin.H{"error": message})
	}
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, item.ErrNotFound):
		return http.StatusNotFound, item.Message(err)
	case errors.Is(err, item.ErrValidation), errors.Is(err, item.ErrDuplicate):
		return http.StatusBadRequest, item.Message(err)
	case errors.Is(err, protocols.ErrKeyInProgress):
		return http.StatusConflict, err.Error()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout, err.Error()
	default:
		return http.StatusInternalServerError, msgInternal
	}
}
