package domain

import (
	"fmt"
	"strings"
	"time"
)

// ObservationType classifies what kind of memory an observation captures.
type ObservationType string

const (
	// TypeDiscovery records something learned about the codebase or system.
	TypeDiscovery ObservationType = "discovery"
	// TypeDecision records a choice made and the direction taken.
	TypeDecision ObservationType = "decision"
	// TypeAction records work performed (edits, commands, fixes).
	TypeAction ObservationType = "action"
	// TypeNote records anything that fits no other type.
	TypeNote ObservationType = "note"
)

// AllObservationTypes lists every valid observation type.
func AllObservationTypes() []ObservationType {
	return []ObservationType{TypeDiscovery, TypeDecision, TypeAction, TypeNote}
}

// IsValid returns true if the type is one of the supported values.
func (t ObservationType) IsValid() bool {
	switch t {
	case TypeDiscovery, TypeDecision, TypeAction, TypeNote:
		return true
	default:
		return false
	}
}

// Description returns a human-readable explanation of the type.
func (t ObservationType) Description() string {
	switch t {
	case TypeDiscovery:
		return "Something learned about the codebase or system"
	case TypeDecision:
		return "A choice made and the direction taken"
	case TypeAction:
		return "Work performed: edits, commands, fixes"
	case TypeNote:
		return "Anything that fits no other type"
	default:
		return "Unknown observation type"
	}
}

// Observation is a recorded unit of agent memory, as stored.
// Collection fields use FlexList because rows and hook payloads may carry
// them structured or already serialized as text.
type Observation struct {
	// ID is the datastore-assigned identifier. Zero until inserted.
	ID int64

	// SessionID links to the Session this observation was recorded in.
	SessionID string

	// Project is the project label the session ran against.
	Project string

	// Type classifies the observation.
	Type ObservationType

	// Title is a short human-readable summary.
	Title string

	// Subtitle optionally refines the title. Empty when absent.
	Subtitle string

	// Narrative is the free-text account of what happened.
	Narrative string

	// Facts are discrete statements extracted from the narrative.
	Facts FlexList

	// Concepts are topic labels for retrieval.
	Concepts FlexList

	// FilesRead lists files consulted while the observation formed.
	FilesRead FlexList

	// FilesModified lists files changed while the observation formed.
	FilesModified FlexList

	// PromptNumber is the ordinal of the prompt within the session. 0 when unknown.
	PromptNumber int

	// DiscoveryTokens counts tokens spent reaching the observation. 0 when unknown.
	DiscoveryTokens int

	// CreatedAt is the human-readable creation timestamp.
	CreatedAt string

	// CreatedAtEpoch is the creation time in milliseconds since the Unix epoch.
	CreatedAtEpoch int64
}

// Validate checks the fields a caller must supply before recording.
func (o *Observation) Validate() error {
	if strings.TrimSpace(o.SessionID) == "" {
		return fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(o.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if o.Type != "" && !o.Type.IsValid() {
		return fmt.Errorf("%w: unknown observation type %q", ErrInvalidInput, o.Type)
	}
	return nil
}

// ApplyDefaults fills derivable fields so stored rows are always complete.
func (o *Observation) ApplyDefaults(now time.Time) {
	if o.Type == "" {
		o.Type = TypeNote
	}
	if o.CreatedAtEpoch == 0 {
		o.CreatedAtEpoch = now.UnixMilli()
	}
	if o.CreatedAt == "" {
		o.CreatedAt = time.UnixMilli(o.CreatedAtEpoch).UTC().Format(time.RFC3339)
	}
	if o.PromptNumber < 0 {
		o.PromptNumber = 0
	}
	if o.DiscoveryTokens < 0 {
		o.DiscoveryTokens = 0
	}
}

// ObservationFilter narrows reads against the observation store.
// Zero values mean no constraint.
type ObservationFilter struct {
	// Project restricts results to one project label.
	Project string

	// SessionID restricts results to one session.
	SessionID string

	// Type restricts results to one observation type.
	Type ObservationType

	// Limit caps the number of rows returned. 0 means no cap.
	Limit int
}
