package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session groups the observations recorded during one agent run.
type Session struct {
	// ID is the unique session identifier.
	ID string

	// Project is the project label the session ran against.
	Project string

	// StartedAtEpoch is when the session began, milliseconds since the Unix epoch.
	StartedAtEpoch int64

	// EndedAtEpoch is when the session ended. 0 while the session is open.
	EndedAtEpoch int64

	// Summary is an optional closing summary of the session.
	Summary string
}

// NewSession creates an open session for a project. It returns a pointer
// so the result feeds driven.SessionStore.Save directly.
func NewSession(project string) *Session {
	return &Session{
		ID:             uuid.New().String(),
		Project:        project,
		StartedAtEpoch: time.Now().UnixMilli(),
	}
}

// Open reports whether the session has not been ended yet.
func (s *Session) Open() bool {
	return s.EndedAtEpoch == 0
}
