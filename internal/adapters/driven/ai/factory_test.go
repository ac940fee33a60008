package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepsake-labs/recall-cli/internal/adapters/driven/config/file"
	anthropicllm "github.com/keepsake-labs/recall-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/keepsake-labs/recall-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/keepsake-labs/recall-cli/internal/adapters/driven/llm/openai"
	"github.com/keepsake-labs/recall-cli/internal/core/domain"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driven"
)

func TestInitResult_Close_NilServices(t *testing.T) {
	result := &InitResult{}
	// Must not panic
	result.Close()
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name        string
		settings    *domain.EmbeddingSettings
		wantNil     bool
		wantErr     bool
		errContains string
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.EmbeddingSettings{},
			wantNil:  true,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "nomic-embed-text",
			},
		},
		{
			name: "openai provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "text-embedding-3-small",
			},
		},
		{
			name: "anthropic provider returns error",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
			},
			wantNil:     true,
			wantErr:     true,
			errContains: "does not support embeddings",
		},
		{
			// Invalid providers fail IsConfigured, so they fall out quietly
			name: "unknown provider returns nil",
			settings: &domain.EmbeddingSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)
			if svc != nil {
				defer svc.Close()
			}

			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
			} else {
				require.NoError(t, err)
			}

			if tt.wantNil {
				assert.Nil(t, svc)
			} else {
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.LLMSettings
		wantNil  bool
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.LLMSettings{},
			wantNil:  true,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "llama3.2",
			},
		},
		{
			name: "openai provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "gpt-4o-mini",
			},
		},
		{
			name: "anthropic provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
				Model:    "claude-sonnet-4-20250514",
			},
		},
		{
			name: "unknown provider returns nil",
			settings: &domain.LLMSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)
			if svc != nil {
				defer svc.Close()
			}

			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, svc)
			} else {
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestCreateAndValidateVectorStore_NotConfigured(t *testing.T) {
	store, err := CreateAndValidateVectorStore(nil, 768)
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = CreateAndValidateVectorStore(&domain.VectorStoreSettings{}, 768)
	require.NoError(t, err)
	assert.Nil(t, store)
}

func TestValidateEmbeddingConfig(t *testing.T) {
	// Unconfigured settings are not an error; there is nothing to validate.
	assert.NoError(t, ValidateEmbeddingConfig(nil))
	assert.NoError(t, ValidateEmbeddingConfig(&domain.EmbeddingSettings{}))

	// Anthropic cannot embed, so configuration fails before any ping.
	err := ValidateEmbeddingConfig(&domain.EmbeddingSettings{
		Provider: domain.AIProviderAnthropic,
		APIKey:   "test-key",
	})
	assert.Error(t, err)
}

func TestValidateLLMConfig_NotConfigured(t *testing.T) {
	assert.NoError(t, ValidateLLMConfig(nil))
	assert.NoError(t, ValidateLLMConfig(&domain.LLMSettings{}))
	assert.NoError(t, ValidateLLMConfig(&domain.LLMSettings{Provider: "unknown", APIKey: "k"}))
}

func TestInitialise_NoProvidersConfigured(t *testing.T) {
	settings := domain.DefaultAppSettings()

	result := Initialise(settings)
	defer result.Close()

	assert.Nil(t, result.EmbeddingService)
	assert.Nil(t, result.Index)
	assert.Nil(t, result.LLMService)
	// Keyword mode needs no providers, so nothing degraded
	assert.False(t, result.FellBack)
}

func TestInitialise_PopulatesPromptStore(t *testing.T) {
	settings := domain.DefaultAppSettings()

	result := Initialise(settings)
	defer result.Close()

	// Prompt store construction does no I/O, so it is present even when
	// no AI provider is configured.
	assert.NotNil(t, result.PromptStore)
}

// promptAwareService records the prompt store it is handed.
type promptAwareService struct {
	store driven.PromptStore
}

func (s *promptAwareService) SetPromptStore(store driven.PromptStore) { s.store = store }

func TestAttachPromptStore(t *testing.T) {
	promptStore, err := file.NewPromptStore(t.TempDir())
	require.NoError(t, err)

	aware := &promptAwareService{}
	attachPromptStore(promptStore, aware, nil, "not a service")

	assert.Same(t, promptStore, aware.store)
}

// Every LLM adapter accepts custom prompts.
var (
	_ driven.PromptStoreAware = (*ollamallm.LLMService)(nil)
	_ driven.PromptStoreAware = (*openaillm.LLMService)(nil)
	_ driven.PromptStoreAware = (*anthropicllm.LLMService)(nil)
)

func TestInitialise_ModeDegradesWithoutIndex(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Search.Mode = domain.SearchModeSemantic

	result := Initialise(settings)
	defer result.Close()

	assert.Nil(t, result.Index)
	assert.True(t, result.FellBack)
}
