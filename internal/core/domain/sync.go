package domain

// SyncResult reports the outcome of one synchronization request.
// Embedded may be lower than Fetched: the index decides per document, and a
// shortfall is a normal outcome, not an error. Callers that need more can
// inspect the counts and re-trigger.
type SyncResult struct {
	// Requested is how many ids the caller asked to sync, duplicates included.
	Requested int

	// Fetched is how many observations the store returned for those ids.
	Fetched int

	// Embedded is how many documents the index reports as successfully embedded.
	Embedded int

	// Note carries an explanation when the counts differ in a way worth
	// surfacing, such as no matching observations. Empty otherwise.
	Note string
}
