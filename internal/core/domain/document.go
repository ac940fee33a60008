package domain

// SearchDocument is the canonical shape handed to the embedding index.
// Every collection field is guaranteed to be serialized JSON-array text,
// never a structured value and never empty. The index derives its own
// indexable text from the structured fields, so Text stays empty here.
type SearchDocument struct {
	// ID is the observation identifier; the index keys upserts on it.
	ID int64

	// SessionID links to the owning session.
	SessionID string

	// Project is the project label.
	Project string

	// Type is the observation type as text.
	Type string

	// Title is the short summary.
	Title string

	// Subtitle refines the title. Empty when absent.
	Subtitle string

	// Narrative is the free-text account.
	Narrative string

	// Text is intentionally empty. The embedding index composes indexable
	// text from the other fields itself; nothing is pre-rendered here.
	Text string

	// Facts is JSON-array text.
	Facts string

	// Concepts is JSON-array text.
	Concepts string

	// FilesRead is JSON-array text.
	FilesRead string

	// FilesModified is JSON-array text.
	FilesModified string

	// PromptNumber is the prompt ordinal, 0 when unknown.
	PromptNumber int

	// DiscoveryTokens is the token spend, 0 when unknown.
	DiscoveryTokens int

	// CreatedAt is the human-readable creation timestamp.
	CreatedAt string

	// CreatedAtEpoch is the creation time in milliseconds since the Unix epoch.
	CreatedAtEpoch int64
}

// NormalizeObservation converts a stored observation into the document shape
// the embedding index accepts. It is total: any combination of absent,
// structured, or pre-serialized collection fields yields a valid document,
// and already-serialized text is passed through without re-encoding.
func NormalizeObservation(o Observation) SearchDocument {
	promptNumber := o.PromptNumber
	if promptNumber < 0 {
		promptNumber = 0
	}
	discoveryTokens := o.DiscoveryTokens
	if discoveryTokens < 0 {
		discoveryTokens = 0
	}
	return SearchDocument{
		ID:              o.ID,
		SessionID:       o.SessionID,
		Project:         o.Project,
		Type:            string(o.Type),
		Title:           o.Title,
		Subtitle:        o.Subtitle,
		Narrative:       o.Narrative,
		Text:            "",
		Facts:           o.Facts.Serialized(),
		Concepts:        o.Concepts.Serialized(),
		FilesRead:       o.FilesRead.Serialized(),
		FilesModified:   o.FilesModified.Serialized(),
		PromptNumber:    promptNumber,
		DiscoveryTokens: discoveryTokens,
		CreatedAt:       o.CreatedAt,
		CreatedAtEpoch:  o.CreatedAtEpoch,
	}
}
