package domain

import "errors"

// ErrNotFound is returned when a referenced record does not exist or is not
// owned by the acting user. The two cases are deliberately indistinguishable
// so that callers cannot probe for the existence of other users' records.
var ErrNotFound = errors.New("not found")
