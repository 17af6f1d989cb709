package campus

import "errors"

// ErrNoSnapshot is returned when a query needs a room index but no
// facility data has been ingested yet.
var ErrNoSnapshot = errors.New("no facility snapshot available")
