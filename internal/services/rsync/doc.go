// Package rsync wraps invocation of the external rsync binary for
// whole-series replication.
//
// It exposes a Client with an injectable Executor so tests never spawn the
// real tool, parses the --stats block into typed transfer counters, and
// maps rsync's documented exit codes to human-readable failure categories.
// Exit code 24 (source files vanished mid-transfer) is distinguished so the
// sync engine can treat it as fatal for the affected series.
package rsync
