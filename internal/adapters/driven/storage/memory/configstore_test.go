package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("search.mode", "semantic"))

	val, ok := store.Get("search.mode")
	assert.True(t, ok)
	assert.Equal(t, "semantic", val)

	// Overwrite.
	require.NoError(t, store.Set("search.mode", "text"))
	assert.Equal(t, "text", store.GetString("search.mode"))

	// Missing key.
	val, ok = store.Get("embedding.provider")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_GetString(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("llm.model", "qwen3:4b")
	_ = store.Set("llm.timeout", 30)

	assert.Equal(t, "qwen3:4b", store.GetString("llm.model"))
	assert.Equal(t, "", store.GetString("llm.timeout"), "non-string values coerce to empty")
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_GetInt(t *testing.T) {
	store := NewConfigStore()

	tests := []struct {
		name  string
		value any
		want  int
	}{
		{"int", 42, 42},
		{"int64", int64(43), 43},
		{"float64 truncates", 3.9, 3},
		{"string coerces to zero", "42", 0},
		{"bool coerces to zero", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_ = store.Set("k", tt.value)
			assert.Equal(t, tt.want, store.GetInt("k"))
		})
	}

	assert.Equal(t, 0, store.GetInt("missing"))
}

func TestConfigStore_GetBool(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("vector.enabled", true)
	_ = store.Set("vector.addr", "localhost:6334")

	assert.True(t, store.GetBool("vector.enabled"))
	assert.False(t, store.GetBool("vector.addr"), "non-bool values coerce to false")
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("typed", []string{"fact", "concept"})
	_ = store.Set("untyped", []any{"file_read", 7, "file_modified"})
	_ = store.Set("scalar", "not-a-slice")

	assert.Equal(t, []string{"fact", "concept"}, store.GetStringSlice("typed"))
	assert.Equal(t, []string{"file_read", "file_modified"}, store.GetStringSlice("untyped"),
		"non-string elements are skipped")
	assert.Nil(t, store.GetStringSlice("scalar"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_SaveLoadPath(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("search.mode", "hybrid")

	// Save and Load are no-ops for the in-memory store.
	require.NoError(t, store.Save())
	require.NoError(t, store.Load())
	assert.Equal(t, "hybrid", store.GetString("search.mode"))

	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Independence(t *testing.T) {
	a := NewConfigStore()
	b := NewConfigStore()

	_ = a.Set("key", "from-a")

	_, ok := b.Get("key")
	assert.False(t, ok, "stores must not share state")
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", n%8)
			_ = store.Set(key, n)
			_, _ = store.Get(key)
			_ = store.GetInt(key)
			_ = store.GetString(key)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		_, ok := store.Get(fmt.Sprintf("key-%d", i))
		assert.True(t, ok)
	}
}
