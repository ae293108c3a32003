package skillgraph

import (
	_ "embed"
)

//go:embed data/default.yaml
var defaultSeed []byte

// DefaultSeed returns the built-in starter graph.
func DefaultSeed() (*Seed, error) {
	return ParseSeed(defaultSeed)
}
