package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/keepsake-labs/recall-cli/internal/core/domain"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driven"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driving"
	"github.com/keepsake-labs/recall-cli/internal/logger"
)

// Ensure ObservationService implements the interface.
var _ driving.ObservationService = (*ObservationService)(nil)

// summaryObservationLimit caps how many observations feed the session summary.
const summaryObservationLimit = 50

// summaryMaxLength is the requested length for generated session summaries.
const summaryMaxLength = 400

// defaultRecentLimit is how many observations Recent returns when the
// caller does not say.
const defaultRecentLimit = 20

// ObservationService records observations and manages their sessions.
type ObservationService struct {
	store    driven.ObservationStore
	sessions driven.SessionStore
	llm      driven.LLMService
}

// NewObservationService creates a new observation service.
// llm is optional: without it, sessions end without a generated summary.
func NewObservationService(
	store driven.ObservationStore,
	sessions driven.SessionStore,
	llm driven.LLMService,
) *ObservationService {
	return &ObservationService{
		store:    store,
		sessions: sessions,
		llm:      llm,
	}
}

// Record validates and stores an observation. The session row is created on
// first use so agents never have to open a session explicitly.
func (s *ObservationService) Record(ctx context.Context, o domain.Observation) (int64, error) {
	if s.store == nil {
		return 0, domain.ErrNotImplemented
	}

	o.ApplyDefaults(time.Now())
	if err := o.Validate(); err != nil {
		return 0, err
	}

	if err := s.ensureSession(ctx, &o); err != nil {
		return 0, fmt.Errorf("ensure session: %w", err)
	}

	id, err := s.store.Insert(ctx, &o)
	if err != nil {
		return 0, fmt.Errorf("insert observation: %w", err)
	}

	logger.Debug("Recorded observation %d (%s) in session %s", id, o.Type, o.SessionID)
	return id, nil
}

// Get retrieves an observation by id.
func (s *ObservationService) Get(ctx context.Context, id int64) (*domain.Observation, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.GetByID(ctx, id)
}

// List returns observations matching the filter, newest first.
func (s *ObservationService) List(ctx context.Context, filter domain.ObservationFilter) ([]domain.Observation, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.List(ctx, filter)
}

// Recent returns the latest observations, optionally scoped to a project.
func (s *ObservationService) Recent(ctx context.Context, project string, limit int) ([]domain.Observation, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.List(ctx, domain.ObservationFilter{Project: project, Limit: limit})
}

// EndSession closes a session. A supplied summary wins; otherwise one is
// generated from the session's observations when an LLM is configured.
// Ending an already-closed session updates the summary but keeps the
// original end time.
func (s *ObservationService) EndSession(ctx context.Context, sessionID, summary string) (*domain.Session, error) {
	if s.sessions == nil {
		return nil, domain.ErrNotImplemented
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Open() {
		session.EndedAtEpoch = time.Now().UnixMilli()
	}

	switch {
	case summary != "":
		session.Summary = summary
	case session.Summary == "" && s.llm != nil:
		generated, err := s.generateSummary(ctx, sessionID)
		if err != nil {
			logger.Debug("Summary generation failed, ending session without one: %v", err)
		} else {
			session.Summary = generated
		}
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	logger.Info("Ended session %s", sessionID)
	return session, nil
}

// GetSession retrieves a session by id.
func (s *ObservationService) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if s.sessions == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.sessions.Get(ctx, sessionID)
}

// ensureSession creates the session row on first observation.
func (s *ObservationService) ensureSession(ctx context.Context, o *domain.Observation) error {
	if s.sessions == nil {
		return nil
	}

	_, err := s.sessions.Get(ctx, o.SessionID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	session := &domain.Session{
		ID:             o.SessionID,
		Project:        o.Project,
		StartedAtEpoch: o.CreatedAtEpoch,
	}
	logger.Debug("Opening session %s for project %q", session.ID, session.Project)
	return s.sessions.Save(ctx, session)
}

// generateSummary digests the session's observations into a short summary.
func (s *ObservationService) generateSummary(ctx context.Context, sessionID string) (string, error) {
	observations, err := s.store.List(ctx, domain.ObservationFilter{
		SessionID: sessionID,
		Limit:     summaryObservationLimit,
	})
	if err != nil {
		return "", fmt.Errorf("list session observations: %w", err)
	}
	if len(observations) == 0 {
		return "", fmt.Errorf("session %s has no observations", sessionID)
	}

	var builder strings.Builder
	for i := len(observations) - 1; i >= 0; i-- {
		o := observations[i]
		builder.WriteString(fmt.Sprintf("[%s] %s", o.Type, o.Title))
		if o.Subtitle != "" {
			builder.WriteString(" - " + o.Subtitle)
		}
		builder.WriteString("\n")
		if o.Narrative != "" {
			builder.WriteString(o.Narrative)
			builder.WriteString("\n")
		}
	}

	return s.llm.Summarise(ctx, builder.String(), summaryMaxLength)
}
