package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSearchMode_IsValid tests recognised and unrecognised modes
func TestSearchMode_IsValid(t *testing.T) {
	for _, mode := range AllSearchModes() {
		assert.True(t, mode.IsValid(), "expected %q to be valid", mode)
	}
	assert.False(t, SearchMode("telepathy").IsValid())
	assert.False(t, SearchMode("").IsValid())
}

// TestSearchMode_Requirements tests capability requirements per mode
func TestSearchMode_Requirements(t *testing.T) {
	assert.False(t, SearchModeKeyword.RequiresEmbedding())
	assert.False(t, SearchModeKeyword.RequiresLLM())

	assert.True(t, SearchModeSemantic.RequiresEmbedding())
	assert.False(t, SearchModeSemantic.RequiresLLM())

	assert.True(t, SearchModeHybrid.RequiresEmbedding())
	assert.False(t, SearchModeHybrid.RequiresLLM())

	assert.True(t, SearchModeFull.RequiresEmbedding())
	assert.True(t, SearchModeFull.RequiresLLM())
}

// TestSearchMode_Description tests that every mode describes itself
func TestSearchMode_Description(t *testing.T) {
	for _, mode := range AllSearchModes() {
		assert.NotEqual(t, unknownDescription, mode.Description())
	}
	assert.Equal(t, unknownDescription, SearchMode("nope").Description())
}

// TestAIProvider_IsValid tests provider recognition
func TestAIProvider_IsValid(t *testing.T) {
	assert.True(t, AIProviderOllama.IsValid())
	assert.True(t, AIProviderOpenAI.IsValid())
	assert.True(t, AIProviderAnthropic.IsValid())
	assert.False(t, AIProvider("cohere").IsValid())
}

// TestAIProvider_RequiresAPIKey tests key requirements per provider
func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
}

// TestAIProvider_IsLocal tests local/cloud classification
func TestAIProvider_IsLocal(t *testing.T) {
	assert.True(t, AIProviderOllama.IsLocal())
	assert.False(t, AIProviderOpenAI.IsLocal())
	assert.False(t, AIProviderAnthropic.IsLocal())
}

// TestEmbeddingSettings_IsConfigured tests configuration completeness checks
func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	assert.False(t, EmbeddingSettings{}.IsConfigured())
	assert.True(t, EmbeddingSettings{Provider: AIProviderOllama, Model: "nomic-embed-text"}.IsConfigured())
	assert.False(t, EmbeddingSettings{Provider: AIProviderOpenAI}.IsConfigured())
	assert.True(t, EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk-test"}.IsConfigured())
}

// TestLLMSettings_IsConfigured tests configuration completeness checks
func TestLLMSettings_IsConfigured(t *testing.T) {
	assert.False(t, LLMSettings{}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.False(t, LLMSettings{Provider: AIProviderAnthropic}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderAnthropic, APIKey: "key"}.IsConfigured())
}

// TestDefaultAppSettings tests the out-of-the-box configuration
func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, SearchModeKeyword, s.Search.Mode)
	assert.False(t, s.Embedding.IsConfigured())
	assert.False(t, s.LLM.IsConfigured())
	assert.Equal(t, "localhost:6334", s.VectorStore.Addr)
	assert.Equal(t, "recall_observations", s.VectorStore.Collection)
}

// TestDefaultEmbeddingModels tests that every embedding provider has a default model
func TestDefaultEmbeddingModels(t *testing.T) {
	models := DefaultEmbeddingModels()
	for _, p := range AllEmbeddingProviders() {
		assert.NotEmpty(t, models[p], "no default model for %q", p)
	}
}

// TestEmbeddingDimensions tests dimensions for the default models
func TestEmbeddingDimensions(t *testing.T) {
	dims := EmbeddingDimensions()

	assert.Equal(t, 768, dims["nomic-embed-text"])
	assert.Equal(t, 1536, dims["text-embedding-3-small"])
}
