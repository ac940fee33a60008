package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
)

func newTestObservation(sessionID, project, title string) *domain.Observation {
	return &domain.Observation{
		SessionID: sessionID,
		Project:   project,
		Type:      domain.TypeDiscovery,
		Title:     title,
		Narrative: "narrative for " + title,
		Facts:     domain.NewFlexList("fact about " + title),
	}
}

func TestObservationStore_Insert_AssignsSequentialIDs(t *testing.T) {
	store := NewObservationStore()
	ctx := context.Background()

	first, err := store.Insert(ctx, newTestObservation("s1", "p1", "first"))
	require.NoError(t, err)
	second, err := store.Insert(ctx, newTestObservation("s1", "p1", "second"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
}

func TestObservationStore_GetByID(t *testing.T) {
	store := NewObservationStore()
	ctx := context.Background()

	id, err := store.Insert(ctx, newTestObservation("s1", "p1", "stored"))
	require.NoError(t, err)

	got, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "stored", got.Title)
	assert.Equal(t, id, got.ID)
}

func TestObservationStore_GetByID_NotFound(t *testing.T) {
	store := NewObservationStore()

	_, err := store.GetByID(context.Background(), 999)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestObservationStore_GetByIDs_OmitsMissing(t *testing.T) {
	store := NewObservationStore()
	ctx := context.Background()

	id1, err := store.Insert(ctx, newTestObservation("s1", "p1", "one"))
	require.NoError(t, err)
	id3, err := store.Insert(ctx, newTestObservation("s1", "p1", "three"))
	require.NoError(t, err)

	got, err := store.GetByIDs(ctx, []int64{id1, 999, id3}, domain.ObservationFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestObservationStore_GetByIDs_DuplicatesYieldOneRow(t *testing.T) {
	store := NewObservationStore()
	ctx := context.Background()

	id, err := store.Insert(ctx, newTestObservation("s1", "p1", "dup"))
	require.NoError(t, err)

	got, err := store.GetByIDs(ctx, []int64{id, id, id}, domain.ObservationFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestObservationStore_GetByIDs_RespectsFilter(t *testing.T) {
	store := NewObservationStore()
	ctx := context.Background()

	idA, err := store.Insert(ctx, newTestObservation("s1", "alpha", "in alpha"))
	require.NoError(t, err)
	idB, err := store.Insert(ctx, newTestObservation("s1", "beta", "in beta"))
	require.NoError(t, err)

	got, err := store.GetByIDs(ctx, []int64{idA, idB}, domain.ObservationFilter{Project: "alpha"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "in alpha", got[0].Title)
}

func TestObservationStore_List_NewestFirst(t *testing.T) {
	store := NewObservationStore()
	ctx := context.Background()

	older := newTestObservation("s1", "p1", "older")
	older.CreatedAtEpoch = 1000
	newer := newTestObservation("s1", "p1", "newer")
	newer.CreatedAtEpoch = 2000

	_, err := store.Insert(ctx, older)
	require.NoError(t, err)
	_, err = store.Insert(ctx, newer)
	require.NoError(t, err)

	got, err := store.List(ctx, domain.ObservationFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "newer", got[0].Title)
	assert.Equal(t, "older", got[1].Title)
}

func TestObservationStore_List_Limit(t *testing.T) {
	store := NewObservationStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.Insert(ctx, newTestObservation("s1", "p1", "obs"))
		require.NoError(t, err)
	}

	got, err := store.List(ctx, domain.ObservationFilter{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestObservationStore_SearchKeyword_MatchesAllTerms(t *testing.T) {
	store := NewObservationStore()
	ctx := context.Background()

	_, err := store.Insert(ctx, newTestObservation("s1", "p1", "retry logic in uploader"))
	require.NoError(t, err)
	_, err = store.Insert(ctx, newTestObservation("s1", "p1", "retry budget exhausted"))
	require.NoError(t, err)

	got, err := store.SearchKeyword(ctx, "retry uploader", domain.ObservationFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "retry logic in uploader", got[0].Title)
}

func TestObservationStore_SearchKeyword_MatchesFacts(t *testing.T) {
	store := NewObservationStore()
	ctx := context.Background()

	o := newTestObservation("s1", "p1", "plain title")
	o.Facts = domain.NewFlexList("uses exponential backoff")
	_, err := store.Insert(ctx, o)
	require.NoError(t, err)

	got, err := store.SearchKeyword(ctx, "exponential", domain.ObservationFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestObservationStore_SearchKeyword_EmptyQuery(t *testing.T) {
	store := NewObservationStore()
	ctx := context.Background()

	_, err := store.Insert(ctx, newTestObservation("s1", "p1", "anything"))
	require.NoError(t, err)

	got, err := store.SearchKeyword(ctx, "   ", domain.ObservationFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestObservationStore_CountBySession(t *testing.T) {
	store := NewObservationStore()
	ctx := context.Background()

	_, err := store.Insert(ctx, newTestObservation("s1", "p1", "a"))
	require.NoError(t, err)
	_, err = store.Insert(ctx, newTestObservation("s1", "p1", "b"))
	require.NoError(t, err)
	_, err = store.Insert(ctx, newTestObservation("s2", "p1", "c"))
	require.NoError(t, err)

	count, err := store.CountBySession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestObservationStore_Delete(t *testing.T) {
	store := NewObservationStore()
	ctx := context.Background()

	id, err := store.Insert(ctx, newTestObservation("s1", "p1", "doomed"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, id))

	_, err = store.GetByID(ctx, id)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestObservationStore_Delete_NotFound(t *testing.T) {
	store := NewObservationStore()

	err := store.Delete(context.Background(), 404)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
