package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/papermind-ai/papermind/internal/storage"
	"github.com/papermind-ai/papermind/pkg/graph"
	"github.com/papermind-ai/papermind/pkg/logger"
	storepgx "github.com/papermind-ai/papermind/pkg/store/pgx"
)

// ProcessDeleteMessage removes a document from the chunk store, the
// knowledge graph and object storage. The S3 delete comes last and is
// best effort; an orphaned object is cheaper than a half-deleted
// document reappearing in retrieval.
func ProcessDeleteMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	conn *pgxpool.Pool,
	builder *graph.Builder,
	graphPath string,
	msg string,
) error {
	data := new(DeleteDocumentMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return err
	}

	start := time.Now()

	chunkStore := storepgx.NewChunkDBStorage(conn)
	if err := chunkStore.DeleteDocument(ctx, data.Name); err != nil {
		return fmt.Errorf("deleting chunks of %s: %w", data.Name, err)
	}

	err := withGraphLease(ctx, conn, builder, graphPath, "delete/", func() error {
		if !builder.RemoveDocument(data.Name) {
			logger.Warn("[Queue] Document not in graph", "name", data.Name)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if data.StorageKey != "" {
		if err := storage.DeleteFile(ctx, s3Client, data.StorageKey); err != nil {
			logger.Warn("[Queue] Failed to delete S3 file", "file_key", data.StorageKey, "err", err)
		}
	}

	logger.Info("[Queue] Document deleted", "name", data.Name, "duration_sec", time.Since(start).Seconds())
	return nil
}
