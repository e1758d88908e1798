// Package journal persists a history of sync runs to SQLite so past
// transfers, failure counts, and per-run statistics can be inspected after
// the fact without re-reading logs.
package journal
