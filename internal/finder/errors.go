// File: internal/finder/errors.go
package finder

import "errors"

var (
	// ErrStale marks an element handle that vanished or detached between
	// discovery and inspection. Always recovered locally: the element is
	// treated as a non-candidate.
	ErrStale = errors.New("element is stale")

	// ErrQueryFailed marks a selector or query expression the engine
	// rejected. Recovered locally: the single strategy invocation that
	// issued the query is skipped.
	ErrQueryFailed = errors.New("element query failed")
)
