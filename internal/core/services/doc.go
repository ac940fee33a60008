// Package services implements the driving port interfaces with the
// application's business logic: recording observations, syncing them
// into the embedding index, searching, and managing settings.
//
// Services depend only on the driven port interfaces, never on
// concrete adapters.
package services
