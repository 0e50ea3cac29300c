// Package card implements the canonical in-memory collection of decks and
// flashcards: CRUD, case-insensitive duplicate detection scoped to the decks
// a new card would join, deck hierarchy queries, and mastery counters. Every
// mutation synchronously writes a full snapshot through the injected
// store.SnapshotStore.
//
// The store is not safe for concurrent use; the service layer serializes
// access.
package card
