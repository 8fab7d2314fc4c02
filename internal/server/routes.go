package server

import (
	"github.com/papermind-ai/papermind/internal/server/middleware"
	"github.com/papermind-ai/papermind/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Document routes
	apiRoutes.GET("/documents", routes.GetDocumentsHandler)
	apiRoutes.POST("/documents", routes.UploadDocumentsHandler, middleware.RequirePermission("document.create"))
	apiRoutes.DELETE("/documents/:name", routes.DeleteDocumentHandler, middleware.RequirePermission("document.delete"))
	apiRoutes.GET("/documents/:name/download", routes.GetDocumentDownloadHandler, middleware.RequirePermission("document.download"))

	// Query routes
	apiRoutes.POST("/query", routes.QueryHandler)

	// Graph routes
	apiRoutes.GET("/graph", routes.GetGraphHandler)
	apiRoutes.GET("/graph/statistics", routes.GetGraphStatisticsHandler)
	apiRoutes.GET("/graph/related/:name", routes.GetRelatedDocumentsHandler)
	apiRoutes.GET("/graph/shared", routes.GetSharedEntitiesHandler)
	apiRoutes.GET("/graph/entities/:entity/sources", routes.GetEntitySourcesHandler)
	apiRoutes.DELETE("/graph", routes.ClearGraphHandler, middleware.RequirePermission("graph.clear"))
}
