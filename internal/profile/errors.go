package profile

import "errors"

// ErrNoProfiles indicates that no valid profile could be loaded. The
// caller treats this as a fatal startup condition.
var ErrNoProfiles = errors.New("no valid profiles loaded")
