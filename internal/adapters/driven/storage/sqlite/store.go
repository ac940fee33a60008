package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/keepsake-labs/recall-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/keepsake-labs/recall-cli/internal/core/domain"
	"github.com/keepsake-labs/recall-cli/internal/core/ports/driven"
)

// observationColumns is the column list shared by every observation query.
const observationColumns = `id, session_id, project, type, title, subtitle, narrative,
	facts, concepts, files_read, files_modified,
	prompt_number, discovery_tokens, created_at, created_at_epoch`

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.recall/data/recall.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".recall", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "recall.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ObservationStore returns an ObservationStore interface backed by this store.
func (s *Store) ObservationStore() driven.ObservationStore {
	return &observationStore{store: s}
}

// SessionStore returns a SessionStore interface backed by this store.
func (s *Store) SessionStore() driven.SessionStore {
	return &sessionStore{store: s}
}

// SyncStateStore returns a SyncStateStore interface backed by this store.
func (s *Store) SyncStateStore() driven.SyncStateStore {
	return &syncStateStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Observation Store ====================

// observationStore implements driven.ObservationStore.
type observationStore struct {
	store *Store
}

var _ driven.ObservationStore = (*observationStore)(nil)

// Insert stores a new observation and returns its assigned id.
func (s *observationStore) Insert(ctx context.Context, o *domain.Observation) (int64, error) {
	result, err := s.store.db.ExecContext(ctx, `
		INSERT INTO observations
			(session_id, project, type, title, subtitle, narrative,
			 facts, concepts, files_read, files_modified,
			 prompt_number, discovery_tokens, created_at, created_at_epoch)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, o.SessionID, o.Project, string(o.Type), o.Title, o.Subtitle, o.Narrative,
		o.Facts, o.Concepts, o.FilesRead, o.FilesModified,
		o.PromptNumber, o.DiscoveryTokens, o.CreatedAt, o.CreatedAtEpoch)
	if err != nil {
		return 0, fmt.Errorf("inserting observation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted id: %w", err)
	}

	o.ID = id
	return id, nil
}

// GetByID retrieves a single observation.
func (s *observationStore) GetByID(ctx context.Context, id int64) (*domain.Observation, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+observationColumns+` FROM observations WHERE id = ?`, id)

	return scanObservationRow(row)
}

// GetByIDs retrieves all observations matching the given ids in one round
// trip. Missing ids are omitted from the result.
func (s *observationStore) GetByIDs(ctx context.Context, ids []int64, filter domain.ObservationFilter) ([]domain.Observation, error) {
	if len(ids) == 0 {
		return []domain.Observation{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids)+3)
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := `SELECT ` + observationColumns + ` FROM observations WHERE id IN (` +
		strings.Join(placeholders, ", ") + `)`

	conditions, condArgs := filterConditions(filter)
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
		args = append(args, condArgs...)
	}
	query += " ORDER BY id"

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying observations: %w", err)
	}
	defer rows.Close()

	return scanObservations(rows)
}

// List returns observations matching the filter, newest first.
func (s *observationStore) List(ctx context.Context, filter domain.ObservationFilter) ([]domain.Observation, error) {
	query := `SELECT ` + observationColumns + ` FROM observations`
	args := []any{}

	conditions, condArgs := filterConditions(filter)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
		args = append(args, condArgs...)
	}
	query += " ORDER BY created_at_epoch DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying observations: %w", err)
	}
	defer rows.Close()

	return scanObservations(rows)
}

// SearchKeyword returns observations whose text matches every query term,
// newest first. Matching is a case-insensitive substring test over title,
// subtitle, narrative, and facts.
func (s *observationStore) SearchKeyword(ctx context.Context, query string, filter domain.ObservationFilter) ([]domain.Observation, error) {
	terms := strings.Fields(strings.TrimSpace(query))
	if len(terms) == 0 {
		return []domain.Observation{}, nil
	}

	sqlQuery := `SELECT ` + observationColumns + ` FROM observations WHERE `
	args := []any{}

	matchClauses := make([]string, len(terms))
	for i, term := range terms {
		matchClauses[i] = `(title LIKE ? ESCAPE '\' OR subtitle LIKE ? ESCAPE '\' OR narrative LIKE ? ESCAPE '\' OR facts LIKE ? ESCAPE '\')`
		pattern := "%" + escapeLike(term) + "%"
		args = append(args, pattern, pattern, pattern, pattern)
	}
	sqlQuery += strings.Join(matchClauses, " AND ")

	conditions, condArgs := filterConditions(filter)
	if len(conditions) > 0 {
		sqlQuery += " AND " + strings.Join(conditions, " AND ")
		args = append(args, condArgs...)
	}
	sqlQuery += " ORDER BY created_at_epoch DESC, id DESC"
	if filter.Limit > 0 {
		sqlQuery += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.store.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("searching observations: %w", err)
	}
	defer rows.Close()

	return scanObservations(rows)
}

// CountBySession returns how many observations a session holds.
func (s *observationStore) CountBySession(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM observations WHERE session_id = ?", sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting observations: %w", err)
	}
	return count, nil
}

// Delete removes an observation.
func (s *observationStore) Delete(ctx context.Context, id int64) error {
	result, err := s.store.db.ExecContext(ctx, "DELETE FROM observations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting observation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deletion: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Session Store ====================

// sessionStore implements driven.SessionStore.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// Save stores or updates a session.
func (s *sessionStore) Save(ctx context.Context, session *domain.Session) error {
	if session.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sessions (id, project, started_at_epoch, ended_at_epoch, summary)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project = excluded.project,
			started_at_epoch = excluded.started_at_epoch,
			ended_at_epoch = excluded.ended_at_epoch,
			summary = excluded.summary
	`, session.ID, session.Project, session.StartedAtEpoch, session.EndedAtEpoch, session.Summary)

	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Get retrieves a session by id.
func (s *sessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, project, started_at_epoch, ended_at_epoch, summary
		FROM sessions WHERE id = ?
	`, id)

	var session domain.Session
	if err := row.Scan(&session.ID, &session.Project,
		&session.StartedAtEpoch, &session.EndedAtEpoch, &session.Summary); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	return &session, nil
}

// List returns sessions, newest first, optionally filtered by project.
func (s *sessionStore) List(ctx context.Context, project string, limit int) ([]domain.Session, error) {
	query := `
		SELECT id, project, started_at_epoch, ended_at_epoch, summary
		FROM sessions`
	args := []any{}

	if project != "" {
		query += " WHERE project = ?"
		args = append(args, project)
	}
	query += " ORDER BY started_at_epoch DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session //nolint:prealloc // size unknown from query
	for rows.Next() {
		var session domain.Session
		if err := rows.Scan(&session.ID, &session.Project,
			&session.StartedAtEpoch, &session.EndedAtEpoch, &session.Summary); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}

	return sessions, nil
}

// Delete removes a session.
func (s *sessionStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// ==================== Sync State Store ====================

// syncStateStore implements driven.SyncStateStore.
type syncStateStore struct {
	store *Store
}

var _ driven.SyncStateStore = (*syncStateStore)(nil)

// MarkEmbedded records that the given observations were embedded.
func (s *syncStateStore) MarkEmbedded(ctx context.Context, ids []int64, embeddedAtEpoch int64) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO embed_state (observation_id, embedded_at_epoch)
		VALUES (?, ?)
		ON CONFLICT(observation_id) DO UPDATE SET
			embedded_at_epoch = excluded.embedded_at_epoch
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, id, embeddedAtEpoch); err != nil {
			return fmt.Errorf("marking observation %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// PendingIDs returns ids of observations with no embedded record yet,
// oldest first.
func (s *syncStateStore) PendingIDs(ctx context.Context, project string, limit int) ([]int64, error) {
	query := `
		SELECT o.id FROM observations o
		LEFT JOIN embed_state es ON es.observation_id = o.id
		WHERE es.observation_id IS NULL`
	args := []any{}

	if project != "" {
		query += " AND o.project = ?"
		args = append(args, project)
	}
	query += " ORDER BY o.id"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying pending observations: %w", err)
	}
	defer rows.Close()

	var ids []int64 //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning pending id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pending ids: %w", err)
	}

	return ids, nil
}

// LastEmbeddedAt returns the most recent embedded epoch, or 0.
func (s *syncStateStore) LastEmbeddedAt(ctx context.Context) (int64, error) {
	var last int64
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(embedded_at_epoch), 0) FROM embed_state").Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("reading last embedded epoch: %w", err)
	}
	return last, nil
}

// Clear removes embedded records for the given ids.
func (s *syncStateStore) Clear(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM embed_state WHERE observation_id IN ("+strings.Join(placeholders, ", ")+")",
		args...)
	if err != nil {
		return fmt.Errorf("clearing embed state: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// filterConditions builds WHERE clauses for an observation filter.
// The Limit field is handled by callers since its position varies.
func filterConditions(filter domain.ObservationFilter) ([]string, []any) {
	var conditions []string
	var args []any

	if filter.Project != "" {
		conditions = append(conditions, "project = ?")
		args = append(args, filter.Project)
	}
	if filter.SessionID != "" {
		conditions = append(conditions, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, string(filter.Type))
	}

	return conditions, args
}

// escapeLike escapes LIKE metacharacters in a search term.
func escapeLike(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, "%", `\%`)
	term = strings.ReplaceAll(term, "_", `\_`)
	return term
}

// scanObservationRow scans a single observation from *sql.Row.
func scanObservationRow(row *sql.Row) (*domain.Observation, error) {
	var o domain.Observation
	var obsType string

	if err := row.Scan(&o.ID, &o.SessionID, &o.Project, &obsType, &o.Title, &o.Subtitle, &o.Narrative,
		&o.Facts, &o.Concepts, &o.FilesRead, &o.FilesModified,
		&o.PromptNumber, &o.DiscoveryTokens, &o.CreatedAt, &o.CreatedAtEpoch); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning observation: %w", err)
	}

	o.Type = domain.ObservationType(obsType)
	return &o, nil
}

// scanObservations scans multiple observation rows.
func scanObservations(rows *sql.Rows) ([]domain.Observation, error) {
	var observations []domain.Observation //nolint:prealloc // size unknown from query
	for rows.Next() {
		var o domain.Observation
		var obsType string

		if err := rows.Scan(&o.ID, &o.SessionID, &o.Project, &obsType, &o.Title, &o.Subtitle, &o.Narrative,
			&o.Facts, &o.Concepts, &o.FilesRead, &o.FilesModified,
			&o.PromptNumber, &o.DiscoveryTokens, &o.CreatedAt, &o.CreatedAtEpoch); err != nil {
			return nil, fmt.Errorf("scanning observation: %w", err)
		}

		o.Type = domain.ObservationType(obsType)
		observations = append(observations, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating observations: %w", err)
	}

	return observations, nil
}
