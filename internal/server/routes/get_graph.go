package routes

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/papermind-ai/papermind/internal/server/middleware"
	"github.com/papermind-ai/papermind/pkg/graph"
	"github.com/papermind-ai/papermind/pkg/leaselock"
	"github.com/papermind-ai/papermind/pkg/logger"
)

// loadGraph reads the persisted graph for one request. Workers own the
// graph file; the API never holds a stale in-memory copy. A graph that
// has not been written yet reads as empty.
func loadGraph(app *middleware.App) (*graph.Builder, error) {
	builder := graph.NewBuilder()
	if err := builder.Load(app.GraphPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return builder, nil
}

// GetGraphHandler returns the persisted graph file as-is.
func GetGraphHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App

	payload, err := os.ReadFile(app.GraphPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c.JSONBlob(http.StatusOK, []byte(`{"nodes":[],"edges":[]}`))
		}
		logger.Error("Failed to read graph file", "path", app.GraphPath, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.JSONBlob(http.StatusOK, payload)
}

// GetGraphStatisticsHandler returns node and edge counts by type plus
// the most frequent entities per category.
func GetGraphStatisticsHandler(c echo.Context) error {
	type statisticsResponse struct {
		Message    string           `json:"message"`
		Statistics graph.Statistics `json:"statistics"`
	}

	app := c.(*middleware.AppContext).App
	builder, err := loadGraph(app)
	if err != nil {
		logger.Error("Failed to load graph", "err", err)
		return c.JSON(http.StatusInternalServerError, statisticsResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, statisticsResponse{
		Message:    "OK",
		Statistics: builder.Statistics(),
	})
}

// GetRelatedDocumentsHandler finds documents sharing entities with the
// given one, most shared first.
func GetRelatedDocumentsHandler(c echo.Context) error {
	type relatedParams struct {
		Name string `param:"name" validate:"required"`
	}

	type relatedResponse struct {
		Message string                  `json:"message"`
		Related []graph.RelatedDocument `json:"related"`
	}

	params := new(relatedParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, relatedResponse{
			Message: "Invalid request",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, relatedResponse{
			Message: "Invalid request",
		})
	}

	app := c.(*middleware.AppContext).App
	builder, err := loadGraph(app)
	if err != nil {
		logger.Error("Failed to load graph", "err", err)
		return c.JSON(http.StatusInternalServerError, relatedResponse{
			Message: "Internal server error",
		})
	}

	related := builder.RelatedDocuments(params.Name)
	if related == nil {
		related = []graph.RelatedDocument{}
	}

	return c.JSON(http.StatusOK, relatedResponse{
		Message: "OK",
		Related: related,
	})
}

// GetSharedEntitiesHandler returns the entities two documents have in
// common.
func GetSharedEntitiesHandler(c echo.Context) error {
	type sharedParams struct {
		DocA string `query:"doc_a" validate:"required"`
		DocB string `query:"doc_b" validate:"required"`
	}

	type sharedResponse struct {
		Message string   `json:"message"`
		Shared  []string `json:"shared_entities"`
	}

	params := new(sharedParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, sharedResponse{
			Message: "Invalid request",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, sharedResponse{
			Message: "Invalid request",
		})
	}

	app := c.(*middleware.AppContext).App
	builder, err := loadGraph(app)
	if err != nil {
		logger.Error("Failed to load graph", "err", err)
		return c.JSON(http.StatusInternalServerError, sharedResponse{
			Message: "Internal server error",
		})
	}

	shared := builder.SharedEntities(params.DocA, params.DocB)
	if shared == nil {
		shared = []string{}
	}

	return c.JSON(http.StatusOK, sharedResponse{
		Message: "OK",
		Shared:  shared,
	})
}

// GetEntitySourcesHandler returns every document mentioning the given
// entity.
func GetEntitySourcesHandler(c echo.Context) error {
	type sourcesParams struct {
		Entity string `param:"entity" validate:"required"`
	}

	type sourcesResponse struct {
		Message string   `json:"message"`
		Entity  string   `json:"entity"`
		Sources []string `json:"sources"`
	}

	params := new(sourcesParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, sourcesResponse{
			Message: "Invalid request",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, sourcesResponse{
			Message: "Invalid request",
		})
	}

	app := c.(*middleware.AppContext).App
	builder, err := loadGraph(app)
	if err != nil {
		logger.Error("Failed to load graph", "err", err)
		return c.JSON(http.StatusInternalServerError, sourcesResponse{
			Message: "Internal server error",
		})
	}

	canonical := builder.CanonicalFor(params.Entity)
	sources := builder.EntitySources(canonical)
	if sources == nil {
		sources = []string{}
	}

	return c.JSON(http.StatusOK, sourcesResponse{
		Message: "OK",
		Entity:  canonical,
		Sources: sources,
	})
}

// ClearGraphHandler wipes the knowledge graph. Chunks and documents
// stay; only extracted entity state is dropped.
func ClearGraphHandler(c echo.Context) error {
	type clearResponse struct {
		Message string `json:"message"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	lockClient := leaselock.New(app.DBConn)
	err := lockClient.WithLease(ctx, "graph", leaselock.Options{
		TTL:         time.Minute,
		Wait:        true,
		TokenPrefix: "clear/",
	}, func(leaseCtx context.Context) error {
		builder := graph.NewBuilder()
		builder.Clear()
		return builder.Save(app.GraphPath)
	})
	if err != nil {
		logger.Error("Failed to clear graph", "err", err)
		return c.JSON(http.StatusInternalServerError, clearResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, clearResponse{
		Message: "Graph cleared",
	})
}
