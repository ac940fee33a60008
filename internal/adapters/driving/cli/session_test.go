package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
)

func TestSessionCmd_HasSubcommands(t *testing.T) {
	commands := sessionCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "end")
	assert.Contains(t, commandNames, "show")
}

func TestSessionEndCmd_EndsSession(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"session", "end", "sess-3", "--summary", "fixed the importer"})
	defer func() {
		rootCmd.SetArgs(nil)
		sessionSummary = ""
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Session sess-3 ended")
	assert.Contains(t, buf.String(), "fixed the importer")
}

func TestSessionEndCmd_ErrorsWithoutService(t *testing.T) {
	oldObservation := observationService
	observationService = nil
	defer func() { observationService = oldObservation }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"session", "end", "sess-3"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestSessionShowCmd_OpenSession(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"session", "show", "sess-5"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Session sess-5")
	assert.Contains(t, buf.String(), "open")
}

func TestSessionShowCmd_ClosedSession(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	mock, ok := observationService.(*mockObservationService)
	require.True(t, ok)
	mock.session = &domain.Session{
		ID:             "sess-6",
		Project:        "recall",
		StartedAtEpoch: 1700000000000,
		EndedAtEpoch:   1700000600000,
		Summary:        "short run",
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"session", "show", "sess-6"})
	defer func() { rootCmd.SetArgs(nil) }()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Ended:")
	assert.Contains(t, buf.String(), "short run")
}
