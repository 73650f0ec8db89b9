// Package domain contains the core business entities of the flashcard system:
// card sets, cards, per-card statistics, study records and users. The types
// here are persisted as JSON and are independent of any storage backend.
package domain
