package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driven"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driving"
	"github.com/keepsake-labs/recall-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// scoredObservation holds intermediate search results before hydration.
type scoredObservation struct {
	id     int64
	score  float64
	source string // "keyword", "semantic", or "merged"
}

// SearchService retrieves observations by keyword match, vector similarity,
// or a fusion of both.
type SearchService struct {
	store driven.ObservationStore
	index driven.EmbeddingIndex
	llm   driven.LLMService
	mode  domain.SearchMode
}

// NewSearchService creates a new search service.
// index and llm are optional (can be nil); the configured mode degrades to
// what the available services can deliver.
func NewSearchService(
	store driven.ObservationStore,
	index driven.EmbeddingIndex,
	llm driven.LLMService,
	mode domain.SearchMode,
) *SearchService {
	return &SearchService{
		store: store,
		index: index,
		llm:   llm,
		mode:  mode,
	}
}

// Search runs the configured retrieval mode for the query.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}

	// Return empty for empty query
	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	// Determine limit (default to 20)
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	logger.Debug("Limit: %d, Offset: %d", limit, opts.Offset)

	// Request more results internally to cover the offset and post-filtering
	internalLimit := (opts.Offset + limit) * 2
	if len(opts.Types) > 0 {
		internalLimit = (opts.Offset + limit) * 3
		logger.Debug("Type filter: %v", opts.Types)
	}

	filter := domain.ObservationFilter{
		Project:   opts.Project,
		SessionID: opts.SessionID,
	}

	// Determine effective search mode based on available services
	mode := s.effectiveMode()
	logger.Info("Effective search mode: %s", mode.Description())
	logger.Debug("Services available: store=%t, index=%t, llm=%t",
		s.store != nil, s.index != nil, s.llm != nil)

	var scored []scoredObservation
	var err error

	switch mode {
	case domain.SearchModeKeyword:
		logger.Debug("Executing keyword search")
		scored, err = s.keywordSearch(ctx, query, filter, internalLimit)

	case domain.SearchModeSemantic:
		logger.Debug("Executing semantic search")
		scored, err = s.semanticSearch(ctx, query, internalLimit)

	case domain.SearchModeHybrid:
		logger.Debug("Executing hybrid search (keyword + semantic)")
		scored, err = s.hybridSearch(ctx, query, filter, internalLimit)

	case domain.SearchModeFull:
		logger.Debug("Executing full search (LLM expansion + hybrid)")
		scored, err = s.fullSearch(ctx, query, filter, internalLimit)

	default:
		logger.Debug("Fallback to keyword search")
		scored, err = s.keywordSearch(ctx, query, filter, internalLimit)
	}

	if err != nil {
		logger.Warn("Search failed: %v", err)
		return nil, fmt.Errorf("search: %w", err)
	}

	logger.Debug("Raw results: %d observations", len(scored))

	// Hydrate results with full observation rows
	results, err := s.hydrateResults(ctx, scored, query, filter)
	if err != nil {
		return nil, fmt.Errorf("hydrate results: %w", err)
	}

	// Filter by observation types if specified
	if len(opts.Types) > 0 {
		results = filterByTypes(results, opts.Types)
		logger.Debug("After type filter: %d results", len(results))
	}

	// Apply pagination
	results = applyPagination(results, opts.Offset, limit)
	logger.Info("Final results: %d", len(results))

	return results, nil
}

// effectiveMode degrades the configured mode to what the available services
// can actually deliver. Keyword search always works.
func (s *SearchService) effectiveMode() domain.SearchMode {
	mode := s.mode
	if !mode.IsValid() {
		mode = domain.SearchModeKeyword
	}

	if mode == domain.SearchModeFull && s.llm == nil {
		logger.Debug("No LLM configured, degrading full to hybrid")
		mode = domain.SearchModeHybrid
	}
	if mode.RequiresEmbedding() && s.index == nil {
		logger.Debug("No embedding index configured, degrading %s to keyword", mode)
		return domain.SearchModeKeyword
	}

	return mode
}

// keywordSearch matches query terms against stored observation text.
// Scores are derived from rank since the store returns an ordered list.
func (s *SearchService) keywordSearch(
	ctx context.Context, query string, filter domain.ObservationFilter, limit int,
) ([]scoredObservation, error) {
	filter.Limit = limit
	matches, err := s.store.SearchKeyword(ctx, query, filter)
	if err != nil {
		logger.Warn("Keyword search error: %v", err)
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	logger.Debug("Keyword search: %d hits", len(matches))

	results := make([]scoredObservation, len(matches))
	for i, o := range matches {
		results[i] = scoredObservation{
			id:     o.ID,
			score:  1.0 / float64(i+1),
			source: "keyword",
		}
	}

	return results, nil
}

// semanticSearch finds observations by vector similarity to the query.
func (s *SearchService) semanticSearch(
	ctx context.Context, query string, limit int,
) ([]scoredObservation, error) {
	if s.index == nil {
		logger.Warn("Semantic search unavailable: embedding index is nil")
		return nil, domain.ErrVectorIndexUnavailable
	}

	hits, err := s.index.Search(ctx, query, limit)
	if err != nil {
		logger.Warn("Semantic search error: %v", err)
		return nil, fmt.Errorf("semantic search: %w", err)
	}

	logger.Debug("Semantic search: %d hits", len(hits))

	results := make([]scoredObservation, len(hits))
	for i, hit := range hits {
		results[i] = scoredObservation{
			id:     hit.ObservationID,
			score:  hit.Score,
			source: "semantic",
		}
	}

	return results, nil
}

// hybridSearch combines keyword and semantic search using RRF.
func (s *SearchService) hybridSearch(
	ctx context.Context, query string, filter domain.ObservationFilter, limit int,
) ([]scoredObservation, error) {
	logger.Debug("Hybrid search: running keyword and semantic searches in parallel")

	var keywordResults, semanticResults []scoredObservation
	var keywordErr, semanticErr error

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		keywordResults, keywordErr = s.keywordSearch(ctx, query, filter, limit)
	}()

	go func() {
		defer wg.Done()
		semanticResults, semanticErr = s.semanticSearch(ctx, query, limit)
	}()

	wg.Wait()

	// Degrade if one side fails; fail only when both do
	if keywordErr != nil && semanticErr != nil {
		logger.Warn("Hybrid search: both keyword and semantic searches failed")
		return nil, fmt.Errorf("hybrid search: keyword=%w, semantic=%w", keywordErr, semanticErr)
	}

	if keywordErr != nil {
		logger.Warn("Hybrid search: keyword search failed, using semantic results only")
		return semanticResults, nil
	}

	if semanticErr != nil {
		logger.Warn("Hybrid search: semantic search failed, using keyword results only")
		return keywordResults, nil
	}

	logger.Debug("Hybrid search: merging %d keyword + %d semantic results with RRF",
		len(keywordResults), len(semanticResults))
	merged := reciprocalRankFusion(keywordResults, semanticResults, 60)
	logger.Debug("Hybrid search: merged to %d results", len(merged))

	return merged, nil
}

// fullSearch expands the query with the LLM, then runs hybrid search.
func (s *SearchService) fullSearch(
	ctx context.Context, query string, filter domain.ObservationFilter, limit int,
) ([]scoredObservation, error) {
	expandedQuery := query
	if s.llm != nil {
		logger.Debug("Full search: LLM query rewrite for %q", query)
		expanded, err := s.llm.RewriteQuery(ctx, query)
		if err == nil && expanded != "" {
			expandedQuery = expanded
			logger.Info("Full search: expanded query=%q", expanded)
		} else if err != nil {
			logger.Warn("Full search: LLM rewrite failed: %v (using original query)", err)
		}
	}

	return s.hybridSearch(ctx, expandedQuery, filter, limit)
}

// Merges two ranked lists using Reciprocal Rank Fusion (RRF).
// k is the constant (typically 60) to prevent high ranks from dominating.
func reciprocalRankFusion(list1, list2 []scoredObservation, k int) []scoredObservation {
	scores := make(map[int64]float64)
	seen := make(map[int64]bool)

	for rank, o := range list1 {
		scores[o.id] += 1.0 / float64(k+rank+1)
		seen[o.id] = true
	}
	for rank, o := range list2 {
		scores[o.id] += 1.0 / float64(k+rank+1)
		seen[o.id] = true
	}

	results := make([]scoredObservation, 0, len(seen))
	for id := range seen {
		results = append(results, scoredObservation{
			id:     id,
			score:  scores[id],
			source: "merged",
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].id < results[j].id
	})

	return results
}

// hydrateResults turns scored ids into full SearchResult rows in one store
// round trip. Ids deleted since indexing are skipped.
func (s *SearchService) hydrateResults(
	ctx context.Context, scored []scoredObservation, query string, filter domain.ObservationFilter,
) ([]domain.SearchResult, error) {
	if len(scored) == 0 {
		return []domain.SearchResult{}, nil
	}

	ids := make([]int64, len(scored))
	for i, sc := range scored {
		ids[i] = sc.id
	}

	rows, err := s.store.GetByIDs(ctx, ids, filter)
	if err != nil {
		return nil, fmt.Errorf("get observations: %w", err)
	}

	byID := make(map[int64]domain.Observation, len(rows))
	for _, o := range rows {
		byID[o.ID] = o
	}

	results := make([]domain.SearchResult, 0, len(scored))
	for _, sc := range scored {
		o, ok := byID[sc.id]
		if !ok {
			// Deleted or filtered out, skip it
			continue
		}
		results = append(results, domain.SearchResult{
			Observation: o,
			Score:       sc.score,
			Highlights:  generateHighlights(observationHaystack(o), query),
		})
	}

	return results, nil
}

// observationHaystack flattens the searchable text of an observation for
// highlight extraction.
func observationHaystack(o domain.Observation) string {
	parts := []string{o.Title, o.Subtitle, o.Narrative}
	parts = append(parts, o.Facts.Items()...)
	return strings.Join(parts, "\n")
}

// generateHighlights creates text snippets containing matched terms.
func generateHighlights(content, query string) []string {
	queryTerms := strings.Fields(strings.ToLower(query))
	if len(queryTerms) == 0 {
		return nil
	}

	var highlights []string
	for _, sentence := range splitSentences(content) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		sentenceLower := strings.ToLower(sentence)
		for _, term := range queryTerms {
			if strings.Contains(sentenceLower, term) {
				highlight := sentence
				if len(highlight) > 200 {
					highlight = highlight[:200] + "..."
				}
				highlights = append(highlights, highlight)
				break
			}
		}

		if len(highlights) >= 3 {
			break // Limit to 3 highlights
		}
	}

	return highlights
}

// splitSentences splits content into sentences.
func splitSentences(content string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range content {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			s := strings.TrimSpace(current.String())
			if s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	// Don't forget the last sentence
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// filterByTypes keeps results whose observation type is in the allow list.
func filterByTypes(results []domain.SearchResult, types []domain.ObservationType) []domain.SearchResult {
	allowed := make(map[domain.ObservationType]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}

	filtered := make([]domain.SearchResult, 0, len(results))
	for i := range results {
		if allowed[results[i].Observation.Type] {
			filtered = append(filtered, results[i])
		}
	}

	return filtered
}

// applyPagination applies offset and limit to results.
func applyPagination(results []domain.SearchResult, offset, limit int) []domain.SearchResult {
	if offset >= len(results) {
		return []domain.SearchResult{}
	}

	end := offset + limit
	if end > len(results) {
		end = len(results)
	}

	return results[offset:end]
}
