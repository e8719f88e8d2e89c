package models

import (
	"errors"
	"fmt"
)

var (
	// ErrRateUnavailable means no cached or fetched exchange rate exists for a
	// required date. Affected rows are flagged, never silently converted.
	ErrRateUnavailable = errors.New("exchange rate unavailable")

	// ErrPipelineEmpty means every manager produced zero valid holdings. The
	// run must abort rather than overwrite a good dataset with nothing.
	ErrPipelineEmpty = errors.New("no valid holdings extracted from any manager")
)

// DocumentAccessError is a manager-scoped failure to open or decrypt a
// statement. It aborts that manager's contribution only.
type DocumentAccessError struct {
	Manager string
	Path    string
	Err     error
}

func (e *DocumentAccessError) Error() string {
	return fmt.Sprintf("cannot access %s statement %q: %v", e.Manager, e.Path, e.Err)
}

func (e *DocumentAccessError) Unwrap() error { return e.Err }
