package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/papermind-ai/papermind/internal/queue"
	"github.com/papermind-ai/papermind/internal/server/middleware"
	"github.com/papermind-ai/papermind/pkg/logger"
	"github.com/papermind-ai/papermind/pkg/store"
	storepgx "github.com/papermind-ai/papermind/pkg/store/pgx"
)

// DeleteDocumentHandler queues removal of one document. The worker
// deletes chunks, graph state and the stored file.
func DeleteDocumentHandler(c echo.Context) error {
	type deleteParams struct {
		Name string `param:"name" validate:"required"`
	}

	type deleteResponse struct {
		Message string `json:"message"`
	}

	params := new(deleteParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteResponse{
			Message: "Invalid request",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, deleteResponse{
			Message: "Invalid request",
		})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	chunkStore := storepgx.NewChunkDBStorage(app.DBConn)
	doc, err := chunkStore.GetDocument(ctx, params.Name)
	if err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			return c.JSON(http.StatusNotFound, deleteResponse{
				Message: "Document not found",
			})
		}
		logger.Error("Failed to look up document", "name", params.Name, "err", err)
		return c.JSON(http.StatusInternalServerError, deleteResponse{
			Message: "Internal server error",
		})
	}

	msg, err := json.Marshal(queue.DeleteDocumentMsg{
		Name:       doc.Name,
		StorageKey: doc.StorageKey,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, deleteResponse{
			Message: "Internal server error",
		})
	}
	if err := queue.PublishFIFO(app.Queue, queue.DeleteQueue, msg); err != nil {
		logger.Error("Failed to publish to delete_queue", "name", params.Name, "err", err)
		return c.JSON(http.StatusInternalServerError, deleteResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusAccepted, deleteResponse{
		Message: "Document queued for deletion",
	})
}
