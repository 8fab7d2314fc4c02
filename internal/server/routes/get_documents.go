package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/papermind-ai/papermind/internal/server/middleware"
	"github.com/papermind-ai/papermind/internal/storage"
	"github.com/papermind-ai/papermind/pkg/logger"
	"github.com/papermind-ai/papermind/pkg/store"
	storepgx "github.com/papermind-ai/papermind/pkg/store/pgx"
)

// GetDocumentsHandler lists all registered documents newest first.
func GetDocumentsHandler(c echo.Context) error {
	type getDocumentsResponse struct {
		Message   string           `json:"message"`
		Documents []store.Document `json:"documents"`
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	chunkStore := storepgx.NewChunkDBStorage(app.DBConn)
	documents, err := chunkStore.ListDocuments(ctx)
	if err != nil {
		logger.Error("Failed to list documents", "err", err)
		return c.JSON(http.StatusInternalServerError, getDocumentsResponse{
			Message: "Internal server error",
		})
	}
	if documents == nil {
		documents = []store.Document{}
	}

	return c.JSON(http.StatusOK, getDocumentsResponse{
		Message:   "OK",
		Documents: documents,
	})
}

// GetDocumentDownloadHandler returns a short-lived presigned URL for
// the original uploaded file.
func GetDocumentDownloadHandler(c echo.Context) error {
	type downloadParams struct {
		Name string `param:"name" validate:"required"`
	}

	type downloadResponse struct {
		Message string `json:"message"`
		URL     string `json:"url,omitempty"`
	}

	params := new(downloadParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, downloadResponse{
			Message: "Invalid request",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, downloadResponse{
			Message: "Invalid request",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	chunkStore := storepgx.NewChunkDBStorage(app.DBConn)
	doc, err := chunkStore.GetDocument(ctx, params.Name)
	if err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			return c.JSON(http.StatusNotFound, downloadResponse{
				Message: "Document not found",
			})
		}
		logger.Error("Failed to look up document", "name", params.Name, "err", err)
		return c.JSON(http.StatusInternalServerError, downloadResponse{
			Message: "Internal server error",
		})
	}

	url, err := storage.GenerateDownloadLink(ctx, app.S3, doc.StorageKey)
	if err != nil {
		logger.Error("Failed to generate download link", "name", params.Name, "err", err)
		return c.JSON(http.StatusInternalServerError, downloadResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, downloadResponse{
		Message: "OK",
		URL:     url,
	})
}
