package rsync

// exitDescriptions maps rsync exit codes to the categories documented in
// rsync(1). Unknown codes render as "unknown error".
var exitDescriptions = map[int]string{
	1:  "syntax or usage error",
	2:  "protocol incompatibility",
	3:  "errors selecting input/output files, dirs",
	4:  "requested action not supported",
	5:  "error starting client-server protocol",
	6:  "daemon unable to append to log file",
	10: "error in socket I/O",
	11: "error in file I/O",
	12: "error in rsync protocol data stream",
	13: "errors with program diagnostics",
	14: "error in IPC code",
	20: "received SIGUSR1 or SIGINT",
	21: "some error returned by waitpid()",
	22: "error allocating core memory buffers",
	23: "partial transfer due to error",
	24: "partial transfer due to vanished source files",
	25: "the --max-delete limit stopped deletions",
	30: "timeout in data send/receive",
	35: "timeout waiting for daemon connection",
}

// ExitError describes a non-zero rsync exit with its documented category.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	desc, ok := exitDescriptions[e.Code]
	if !ok {
		desc = "unknown error"
	}
	if e.Stderr == "" {
		return desc
	}
	return desc + ": " + e.Stderr
}

// Vanished reports whether the failure was caused by source files
// disappearing mid-transfer, which the sync engine treats as fatal for the
// series rather than a soft failure.
func (e *ExitError) Vanished() bool {
	return e.Code == 24
}
