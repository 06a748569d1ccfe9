// Package sqlite persists named feature sets in a SQLite database.
//
// A feature set is a snapshot of a feature.List under a label: the scalar
// fields of every feature are stored in insertion order so a saved list can
// be reloaded with ids, positions and types intact. Patches and descriptors
// are not persisted; they belong to the extraction run that produced them.
//
// The schema is managed with embedded golang-migrate migrations, applied by
// Open.
package sqlite
