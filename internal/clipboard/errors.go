package clipboard

import "errors"

// ErrEmpty is returned when the clipboard holds no data of the requested kind.
var ErrEmpty = errors.New("clipboard does not contain the requested data")
