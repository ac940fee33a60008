package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "recall", rootCmd.Use)
}

func TestRootCmd_HasCommands(t *testing.T) {
	commands := rootCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "observe")
	assert.Contains(t, commandNames, "session")
	assert.Contains(t, commandNames, "sync")
	assert.Contains(t, commandNames, "search")
	assert.Contains(t, commandNames, "settings")
	assert.Contains(t, commandNames, "import")
	assert.Contains(t, commandNames, "watch")
	assert.Contains(t, commandNames, "serve")
	assert.Contains(t, commandNames, "mcp")
	assert.Contains(t, commandNames, "tui")
	assert.Contains(t, commandNames, "version")
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
}

func TestSetServices(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	observation := &mockObservationService{}
	syncMock := &mockSyncService{}
	search := &mockSearchService{}
	settings := &mockSettingsService{}

	SetServices(observation, syncMock, search, settings)

	assert.Equal(t, observation, observationService)
	assert.Equal(t, syncMock, syncService)
	assert.Equal(t, search, searchService)
	assert.Equal(t, settings, settingsService)
}
