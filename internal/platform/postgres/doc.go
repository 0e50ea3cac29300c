// Package postgres implements snapshot persistence on PostgreSQL. The full
// card collection is stored as a single JSONB row, mirroring the file
// backend's whole-snapshot semantics; schema setup runs through embedded
// goose migrations.
package postgres
