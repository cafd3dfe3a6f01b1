package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/giovaniif/e-commerce/catalog/domain/item"
	"github.com/giovaniif/e-commerce/catalog/infra/metrics"
	"github.com/giovaniif/e-commerce/catalog/infra/requestid"
	"github.com/giovaniif/e-commerce/catalog/infra/tracing"
	protocols "github.com/giovaniif/e-commerce/catalog/protocols"
	"github.com/giovaniif/e-commerce/catalog/use_cases/add"
	"github.com/giovaniif/e-commerce/catalog/use_cases/get"
	"github.com/giovaniif/e-commerce/catalog/use_cases/list"
	"github.com/giovaniif/e-commerce/catalog/use_cases/remove"
	"github.com/giovaniif/e-commerce/catalog/use_cases/update"
)

const msgMalformedBody = "Malformed JSON body."

type HealthCheck func(ctx context.Context) error

type Dependencies struct {
	ItemRepository     item.Repository
	IdempotencyGateway protocols.IdempotencyGateway
	EventPublisher     protocols.EventPublisher
	HealthChecks       map[string]HealthCheck
	Logger             *slog.Logger
}

func NewRouter(deps Dependencies) *gin.Engine {
	listUseCase := list.NewList(deps.ItemRepository)
	getUseCase := get.NewGet(deps.ItemRepository)
	addUseCase := add.NewAdd(deps.ItemRepository, deps.IdempotencyGateway, deps.EventPublisher)
	updateUseCase := update.NewUpdate(deps.ItemRepository, deps.EventPublisher)
	removeUseCase := remove.NewRemove(deps.ItemRepository, deps.EventPublisher)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestid.Middleware(),
		tracing.Middleware(),
		metrics.Middleware,
		accessLog(deps.Logger),
		errorHandler(deps.Logger),
	)

	r.GET("/health", func(c *gin.Context) {
		status := "healthy"
		checks := gin.H{}
		for name, check := range deps.HealthChecks {
			if err := check(c.Request.Context()); err != nil {
				status = "degraded"
				checks[name] = "down"
			} else {
				checks[name] = "up"
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": status, "checks": checks})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/items", func(c *gin.Context) {
		c.JSON(http.StatusOK, listUseCase.List())
	})

	r.POST("/items", func(c *gin.Context) {
		body, err := readBody(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		candidates, isArray := body.([]any)
		if !isArray {
			candidates = []any{body}
		}
		out, err := addUseCase.Add(c.Request.Context(), add.Input{
			Candidates:     candidates,
			IdempotencyKey: c.GetHeader("Idempotency-Key"),
		})
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	r.GET("/items/:name", func(c *gin.Context) {
		found, err := getUseCase.Get(get.Input{Name: c.Param("name")})
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, found)
	})

	r.PATCH("/items/:name", func(c *gin.Context) {
		body, err := readBody(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		out, err := updateUseCase.Update(c.Request.Context(), update.Input{
			TargetName: c.Param("name"),
			Body:       body,
		})
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	r.DELETE("/items/:name", func(c *gin.Context) {
		out, err := removeUseCase.Remove(c.Request.Context(), remove.Input{Name: c.Param("name")})
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	return r
}

// readBody decodes a JSON or urlencoded request body. An empty body reads as
// an empty record.
func readBody(c *gin.Context) (any, error) {
	if c.ContentType() == binding.MIMEPOSTForm {
		if err := c.Request.ParseForm(); err != nil {
			return nil, item.NewValidationError(msgMalformedBody)
		}
		record := make(item.Record, len(c.Request.PostForm))
		for key, values := range c.Request.PostForm {
			if len(values) > 0 {
				record[key] = values[0]
			}
		}
		return record, nil
	}

	raw, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return item.Record{}, nil
	}
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, item.NewValidationError(msgMalformedBody)
	}
	return body, nil
}
