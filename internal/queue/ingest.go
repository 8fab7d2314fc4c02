package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/papermind-ai/papermind/internal/util"
	"github.com/papermind-ai/papermind/pkg/ai"
	"github.com/papermind-ai/papermind/pkg/chunk"
	"github.com/papermind-ai/papermind/pkg/clean"
	"github.com/papermind-ai/papermind/pkg/common"
	"github.com/papermind-ai/papermind/pkg/graph"
	"github.com/papermind-ai/papermind/pkg/leaselock"
	"github.com/papermind-ai/papermind/pkg/loader"
	loaders3 "github.com/papermind-ai/papermind/pkg/loader/s3"
	"github.com/papermind-ai/papermind/pkg/logger"
	storepgx "github.com/papermind-ai/papermind/pkg/store/pgx"
)

// withGraphLease serializes graph mutations across workers: acquire
// the shared lease, reload the persisted graph so concurrent saves are
// not lost, run fn, save.
func withGraphLease(
	ctx context.Context,
	conn *pgxpool.Pool,
	builder *graph.Builder,
	graphPath string,
	tokenPrefix string,
	fn func() error,
) error {
	lockClient := leaselock.New(conn)
	return lockClient.WithLease(ctx, "graph", leaselock.Options{
		TTL:         5 * time.Minute,
		RenewEvery:  2 * time.Minute,
		Wait:        true,
		TokenPrefix: tokenPrefix,
	}, func(leaseCtx context.Context) error {
		if err := builder.Load(graphPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading graph: %w", err)
		}
		if err := fn(); err != nil {
			return err
		}
		return builder.Save(graphPath)
	})
}

// ProcessIngestMessage runs the full pipeline for one uploaded file:
// download, parse, clean, chunk, embed, store, extract entities and
// fold the document into the knowledge graph.
func ProcessIngestMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	aiClient ai.Client,
	conn *pgxpool.Pool,
	builder *graph.Builder,
	graphPath string,
	msg string,
) error {
	data := new(IngestDocumentMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return err
	}

	start := time.Now()
	logger.Info("[Queue] Ingesting document", "name", data.Name, "key", data.StorageKey)

	bucket := util.GetEnvString("AWS_BUCKET", "papermind")
	source := loaders3.NewBucketSourceWithClient(bucket, s3Client)
	pages, err := loader.Load(ctx, source, data.StorageKey, data.Name)
	if err != nil {
		return fmt.Errorf("loading %s: %w", data.Name, err)
	}
	if len(pages) == 0 {
		logger.Warn("[Queue] Document has no extractable text", "name", data.Name)
		return nil
	}

	pages = clean.TruncateReferences(pages)
	cleaned := make([]common.Page, 0, len(pages))
	for _, page := range pages {
		page.Text = clean.Clean(page.Text)
		if page.Text == "" {
			continue
		}
		cleaned = append(cleaned, page)
	}

	splitter := chunk.NewSplitter()
	chunks, err := splitter.Prepare(cleaned, chunk.NewClassifier())
	if err != nil {
		return fmt.Errorf("chunking %s: %w", data.Name, err)
	}
	if len(chunks) == 0 {
		logger.Warn("[Queue] All chunks classified as noise", "name", data.Name)
		return nil
	}

	inputs := make([][]byte, len(chunks))
	for i, c := range chunks {
		inputs[i] = []byte(c.Text)
	}
	embeddings, err := aiClient.GenerateEmbeddings(ctx, inputs)
	if err != nil {
		return fmt.Errorf("embedding %s: %w", data.Name, err)
	}

	chunkStore := storepgx.NewChunkDBStorage(conn)
	if _, err := chunkStore.UpsertDocument(ctx, data.Name, data.StorageKey); err != nil {
		return fmt.Errorf("registering document %s: %w", data.Name, err)
	}
	if err := chunkStore.SaveChunks(ctx, chunks, embeddings); err != nil {
		return fmt.Errorf("saving chunks of %s: %w", data.Name, err)
	}

	extractor, err := ai.NewExtractor(ai.ExtractorParams{Client: aiClient})
	if err != nil {
		return err
	}
	entities, err := extractor.ExtractFromChunks(ctx, chunks)
	if err != nil {
		return fmt.Errorf("extracting entities of %s: %w", data.Name, err)
	}

	err = withGraphLease(ctx, conn, builder, graphPath, "ingest/", func() error {
		builder.AddDocument(data.Name, entities)
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("[Queue] Document ingested",
		"name", data.Name,
		"pages", len(cleaned),
		"chunks", len(chunks),
		"duration_sec", time.Since(start).Seconds(),
	)
	return nil
}
