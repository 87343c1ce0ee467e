package resolver

import "errors"

// ErrUnknownStrategy is returned when a conflict strategy does not map to an
// implemented resolution behavior. Callers should use [errors.Is] to match.
var ErrUnknownStrategy = errors.New("unknown conflict strategy")
