// Package store defines the persistence contracts for the card collection.
// The collection is small enough to live in memory; durability is a full
// snapshot written after every mutation. These interfaces keep the core
// logic independent of whether snapshots land on disk or in Postgres.
package store
