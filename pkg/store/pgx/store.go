// Package pgx implements store.ChunkStorage on PostgreSQL with
// pgvector for similarity search.
package pgx

import (
	"context"
	"errors"
	"fmt"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"

	"github.com/papermind-ai/papermind/internal/util"
	"github.com/papermind-ai/papermind/pkg/common"
	"github.com/papermind-ai/papermind/pkg/logger"
	"github.com/papermind-ai/papermind/pkg/store"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// ChunkDBStorage stores chunks and embeddings in PostgreSQL.
type ChunkDBStorage struct {
	conn pgxIConn
}

// NewChunkDBStorage creates a storage backed by an existing connection
// or pool.
func NewChunkDBStorage(conn pgxIConn) *ChunkDBStorage {
	return &ChunkDBStorage{conn: conn}
}

// UpsertDocument registers a document by name, returning its ID. A
// re-upload under the same name reuses the row and refreshes the
// storage key.
func (s *ChunkDBStorage) UpsertDocument(ctx context.Context, name string, storageKey string) (int64, error) {
	var id int64
	err := s.conn.QueryRow(ctx, `
		INSERT INTO documents (name, storage_key)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET storage_key = EXCLUDED.storage_key
		RETURNING id`,
		name, storageKey,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting document %s: %w", name, err)
	}
	return id, nil
}

// SaveChunks persists a chunk batch with its embeddings in one
// transaction. Existing chunks of the same document are replaced, not
// appended, so chunk indices stay contiguous after re-processing.
func (s *ChunkDBStorage) SaveChunks(ctx context.Context, chunks []common.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunk/embedding count mismatch: %d vs %d", len(chunks), len(embeddings))
	}
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	source := chunks[0].SourceFile
	if _, err := tx.Exec(ctx, `DELETE FROM chunks WHERE source_file = $1`, source); err != nil {
		return fmt.Errorf("clearing previous chunks of %s: %w", source, err)
	}

	for i, chunk := range chunks {
		_, err := tx.Exec(ctx, `
			INSERT INTO chunks (public_id, source_file, page, chunk_index, content, embedding)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			chunk.ID,
			chunk.SourceFile,
			chunk.Page,
			chunk.Index,
			util.SanitizePostgresText(chunk.Text),
			pgvector.NewVector(embeddings[i]),
		)
		if err != nil {
			return fmt.Errorf("inserting chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	logger.Debug("[Store] Chunks saved", "source", source, "chunks", len(chunks))
	return nil
}

// SearchChunks returns the chunks nearest to the query embedding by
// cosine distance.
func (s *ChunkDBStorage) SearchChunks(ctx context.Context, embedding []float32, limit int) ([]store.ScoredChunk, error) {
	if limit <= 0 {
		limit = 4
	}

	rows, err := s.conn.Query(ctx, `
		SELECT public_id, source_file, page, chunk_index, content,
		       1 - (embedding <=> $1) AS score
		FROM chunks
		ORDER BY embedding <=> $1
		LIMIT $2`,
		pgvector.NewVector(embedding), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}
	defer rows.Close()

	var hits []store.ScoredChunk
	for rows.Next() {
		var hit store.ScoredChunk
		if err := rows.Scan(&hit.ID, &hit.SourceFile, &hit.Page, &hit.Index, &hit.Text, &hit.Score); err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// DeleteDocument removes a document row and all its chunks.
func (s *ChunkDBStorage) DeleteDocument(ctx context.Context, name string) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM chunks WHERE source_file = $1`, name); err != nil {
		return fmt.Errorf("deleting chunks of %s: %w", name, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM documents WHERE name = $1`, name); err != nil {
		return fmt.Errorf("deleting document %s: %w", name, err)
	}
	return tx.Commit(ctx)
}

// GetDocument looks up one document by name. A missing document
// returns store.ErrDocumentNotFound.
func (s *ChunkDBStorage) GetDocument(ctx context.Context, name string) (*store.Document, error) {
	var doc store.Document
	err := s.conn.QueryRow(ctx, `
		SELECT d.id, d.name, d.storage_key, d.created_at,
		       (SELECT COUNT(*) FROM chunks c WHERE c.source_file = d.name) AS chunk_count
		FROM documents d
		WHERE d.name = $1`,
		name,
	).Scan(&doc.ID, &doc.Name, &doc.StorageKey, &doc.CreatedAt, &doc.ChunkCount)
	if err != nil {
		if errors.Is(err, pgxv5.ErrNoRows) {
			return nil, store.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("getting document %s: %w", name, err)
	}
	return &doc, nil
}

// ListDocuments returns all registered documents with chunk counts,
// newest first.
func (s *ChunkDBStorage) ListDocuments(ctx context.Context) ([]store.Document, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT d.id, d.name, d.storage_key, d.created_at,
		       (SELECT COUNT(*) FROM chunks c WHERE c.source_file = d.name) AS chunk_count
		FROM documents d
		ORDER BY d.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var documents []store.Document
	for rows.Next() {
		var doc store.Document
		if err := rows.Scan(&doc.ID, &doc.Name, &doc.StorageKey, &doc.CreatedAt, &doc.ChunkCount); err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}
	return documents, rows.Err()
}
