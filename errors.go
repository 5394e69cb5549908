package mutualwd

import "errors"

// Sentinel errors returned by Start and Active. Start-time failures are otherwise
// fatal (see internal/fatal and spec.md §7): the application has no
// meaningful recovery path if supervision can't be established, so the
// process logs and exits with a taxonomy code instead of unwinding
// through a normal error return. These sentinels exist for the narrow
// set of failures that happen before any of that machinery is armed.
var (
	// ErrAlreadyActive is returned by Start when a Supervision Context
	// already exists in this process. Start -> Stop -> Start within a
	// single process is not supported.
	ErrAlreadyActive = errors.New("mutualwd: supervision already active in this process")

	// ErrNotActive is returned by Active when no Supervision Context
	// exists in this process, either because Start was never called or
	// because a prior Stop already tore it down.
	ErrNotActive = errors.New("mutualwd: no active supervision context")
)
