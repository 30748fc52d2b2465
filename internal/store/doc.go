// Package store persists analysis sessions in SQLite.
//
// Each session records one analyzed drill: player, position, protocol, the
// recording path, and the assembled rep set. A file lock next to the database
// keeps concurrent CLI invocations from interleaving writes.
package store
