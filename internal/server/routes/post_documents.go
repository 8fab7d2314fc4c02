package routes

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/papermind-ai/papermind/internal/queue"
	"github.com/papermind-ai/papermind/internal/server/middleware"
	"github.com/papermind-ai/papermind/internal/storage"
	"github.com/papermind-ai/papermind/pkg/logger"
	storepgx "github.com/papermind-ai/papermind/pkg/store/pgx"
)

var supportedExtensions = []string{".pdf", ".docx", ".doc"}

// UploadDocumentsHandler accepts multipart uploads, stores each file in
// S3 and queues it for ingestion. Processing is asynchronous; the
// response only confirms the handoff.
func UploadDocumentsHandler(c echo.Context) error {
	type uploadedDocument struct {
		Name       string `json:"name"`
		StorageKey string `json:"storage_key"`
	}

	type uploadResponse struct {
		Message   string             `json:"message"`
		Documents []uploadedDocument `json:"documents,omitempty"`
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadResponse{
			Message: "Invalid request body",
		})
	}
	uploads := form.File["files"]
	if len(uploads) == 0 {
		return c.JSON(http.StatusBadRequest, uploadResponse{
			Message: "No files provided",
		})
	}

	for _, file := range uploads {
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !slices.Contains(supportedExtensions, ext) {
			return c.JSON(http.StatusBadRequest, uploadResponse{
				Message: "Unsupported file type: " + file.Filename,
			})
		}
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App
	chunkStore := storepgx.NewChunkDBStorage(app.DBConn)

	documents := make([]uploadedDocument, 0, len(uploads))
	for _, file := range uploads {
		src, err := file.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, uploadResponse{
				Message: "Could not open file",
			})
		}
		defer src.Close()

		fId, err := gonanoid.New()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, uploadResponse{
				Message: "Internal server error",
			})
		}
		key, err := storage.PutFile(ctx, app.S3, "documents", file.Filename, fId, src)
		if err != nil {
			logger.Error("Failed to upload file", "err", err)
			return c.JSON(http.StatusInternalServerError, uploadResponse{
				Message: "Internal server error",
			})
		}

		if _, err := chunkStore.UpsertDocument(ctx, file.Filename, key); err != nil {
			logger.Error("Failed to register document", "name", file.Filename, "err", err)
			return c.JSON(http.StatusInternalServerError, uploadResponse{
				Message: "Internal server error",
			})
		}

		documents = append(documents, uploadedDocument{
			Name:       file.Filename,
			StorageKey: key,
		})
	}

	for _, doc := range documents {
		msg, err := json.Marshal(queue.IngestDocumentMsg{
			Name:       doc.Name,
			StorageKey: doc.StorageKey,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, uploadResponse{
				Message: "Internal server error",
			})
		}
		if err := queue.PublishFIFO(app.Queue, queue.IngestQueue, msg); err != nil {
			logger.Error("Failed to publish to ingest_queue", "name", doc.Name, "err", err)
			return c.JSON(http.StatusInternalServerError, uploadResponse{
				Message: "Internal server error",
			})
		}
	}

	return c.JSON(http.StatusAccepted, uploadResponse{
		Message:   "Documents queued for processing",
		Documents: documents,
	})
}
