// Package index composes an embedding service with a vector store to
// implement the embedding index consumed by sync and semantic search.
package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driven"
	"github.com/keepsake-labs/recall-cli/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.EmbeddingIndex = (*Index)(nil)

// Index turns normalized documents into vectors and makes them searchable.
// Point ids are observation ids, so re-syncing a document replaces its
// previous vector.
type Index struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
}

// New creates an embedding index from an embedding service and a vector store.
func New(embedder driven.EmbeddingService, store driven.VectorStore) *Index {
	return &Index{
		embedder: embedder,
		store:    store,
	}
}

// SyncDocuments embeds a batch of documents and upserts them into the vector
// store. It returns how many documents made it in. When the batch embedding
// call fails, documents are retried one at a time so a single oversized or
// malformed document cannot sink the whole batch.
func (i *Index) SyncDocuments(ctx context.Context, docs []domain.SearchDocument) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	texts := make([]string, len(docs))
	for n, doc := range docs {
		texts[n] = buildIndexText(doc)
	}

	embeddings, batchErr := i.embedder.EmbedBatch(ctx, texts)
	if batchErr != nil {
		logger.Debug("batch embed failed, retrying %d documents individually: %v", len(docs), batchErr)
		embeddings = i.embedEach(ctx, texts)
	}

	points := make([]driven.VectorPoint, 0, len(docs))
	for n, doc := range docs {
		if n >= len(embeddings) || embeddings[n] == nil {
			continue
		}
		points = append(points, driven.VectorPoint{
			ID:     doc.ID,
			Vector: embeddings[n],
			Payload: map[string]string{
				"title":      doc.Title,
				"project":    doc.Project,
				"type":       doc.Type,
				"session_id": doc.SessionID,
			},
		})
	}

	if len(points) == 0 {
		if batchErr != nil {
			return 0, fmt.Errorf("embed documents: %w", batchErr)
		}
		return 0, nil
	}

	if err := i.store.Upsert(ctx, points); err != nil {
		return 0, fmt.Errorf("upsert documents: %w", err)
	}

	return len(points), nil
}

// embedEach embeds texts one at a time, leaving nil entries for failures.
func (i *Index) embedEach(ctx context.Context, texts []string) [][]float32 {
	embeddings := make([][]float32, len(texts))
	for n, text := range texts {
		if ctx.Err() != nil {
			break
		}
		vector, err := i.embedder.Embed(ctx, text)
		if err != nil {
			logger.Debug("embed document %d failed: %v", n, err)
			continue
		}
		embeddings[n] = vector
	}
	return embeddings
}

// Search embeds the query and returns the closest observation ids.
func (i *Index) Search(ctx context.Context, query string, limit int) ([]driven.IndexHit, error) {
	vector, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := i.store.Search(ctx, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("search vectors: %w", err)
	}

	results := make([]driven.IndexHit, len(hits))
	for n, hit := range hits {
		results[n] = driven.IndexHit{
			ObservationID: hit.ID,
			Score:         hit.Score,
		}
	}
	return results, nil
}

// RemoveByIDs deletes documents from the index.
func (i *Index) RemoveByIDs(ctx context.Context, ids []int64) error {
	if err := i.store.Delete(ctx, ids); err != nil {
		return fmt.Errorf("remove documents: %w", err)
	}
	return nil
}

// Ping validates both the embedding provider and the vector store.
func (i *Index) Ping(ctx context.Context) error {
	if err := i.embedder.Ping(ctx); err != nil {
		return fmt.Errorf("embedding service: %w", err)
	}
	if err := i.store.Ping(ctx); err != nil {
		return fmt.Errorf("vector store: %w", err)
	}
	return nil
}

// Close releases both underlying services.
func (i *Index) Close() error {
	return errors.Join(i.embedder.Close(), i.store.Close())
}

// buildIndexText composes the text that gets embedded for a document.
// Collection fields arrive as JSON-array text; items are unpacked onto
// their own lines so they carry full weight in the embedding.
func buildIndexText(doc domain.SearchDocument) string {
	var b strings.Builder

	b.WriteString(doc.Title)
	if doc.Subtitle != "" {
		b.WriteString("\n")
		b.WriteString(doc.Subtitle)
	}
	if doc.Narrative != "" {
		b.WriteString("\n")
		b.WriteString(doc.Narrative)
	}
	for _, item := range decodeItems(doc.Facts) {
		b.WriteString("\n")
		b.WriteString(item)
	}
	for _, item := range decodeItems(doc.Concepts) {
		b.WriteString("\n")
		b.WriteString(item)
	}

	return b.String()
}

// decodeItems unpacks JSON-array text into items, returning nil on malformed
// input rather than failing the document.
func decodeItems(text string) []string {
	if text == "" || text == "[]" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil
	}
	return items
}
