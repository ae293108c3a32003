package mastery

import "github.com/abhisek/masterypath/internal/skillgraph"

// ErrNotFound matches any error reporting an unknown skill node.
var ErrNotFound = skillgraph.ErrNodeNotFound

// NotFoundError is returned when a node id does not resolve.
type NotFoundError = skillgraph.NotFoundError
