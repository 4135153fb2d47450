package shared

import "errors"

// ErrInsufficientData indicates a price series shorter than the longest
// indicator lookback window. It excludes an instrument from indicator
// derived results without failing the surrounding cycle.
var ErrInsufficientData = errors.New("insufficient price history")
