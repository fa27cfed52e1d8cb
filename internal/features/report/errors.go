package report

import (
	"errors"
	"fmt"
)

// The three failure kinds callers can act on. Configuration errors are
// rejected before any query is issued; fetch errors wrap the storage
// failure; export errors are surfaced synchronously with no partial
// output.
var (
	ErrConfiguration  = errors.New("configuration error")
	ErrFetch          = errors.New("fetch error")
	ErrExport         = errors.New("export error")
	ErrNotImplemented = errors.New("not implemented")
)

func configErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

func fetchError(err error) error {
	return fmt.Errorf("%w: %v", ErrFetch, err)
}

func exportErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrExport, fmt.Sprintf(format, args...))
}
