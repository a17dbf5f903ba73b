package settlement

import "errors"

var (
	// ErrInvalidMonth is returned when a month string is not YYYY-MM.
	ErrInvalidMonth = errors.New("settlement: month must be YYYY-MM")
	// ErrInvalidHostFilter is returned when a host filter is not numeric.
	ErrInvalidHostFilter = errors.New("settlement: host filter must be numeric")
	// ErrNilDataSource is returned when the service is built without a source.
	ErrNilDataSource = errors.New("settlement: nil data source")
)
