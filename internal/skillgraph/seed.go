package skillgraph

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// Seed is the on-disk form of a skill graph used for content import.
type Seed struct {
	Categories []Category  `yaml:"categories" json:"categories"`
	Nodes      []SkillNode `yaml:"nodes" json:"nodes"`
	Edges      []Edge      `yaml:"edges" json:"edges"`
	Paths      []Path      `yaml:"paths,omitempty" json:"paths,omitempty"`
	Problems   []Problem   `yaml:"problems,omitempty" json:"problems,omitempty"`
}

// Graph builds the in-memory graph described by the seed.
func (s *Seed) Graph() *Graph {
	return New(s.Nodes, s.Edges)
}

// seedSchema describes the accepted seed document shape. Structural checks
// that need the whole graph (dangling edges, cycles) live in validate.
var seedSchema = map[string]any{
	"type":     "object",
	"required": []any{"nodes"},
	"properties": map[string]any{
		"categories": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"name"},
				"properties": map[string]any{
					"name":           map[string]any{"type": "string", "minLength": 1},
					"decay_constant": map[string]any{"type": "number", "minimum": 0},
				},
				"additionalProperties": false,
			},
		},
		"nodes": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []any{"id", "category", "name"},
				"properties": map[string]any{
					"id":           map[string]any{"type": "integer", "minimum": 1},
					"category":     map[string]any{"type": "string", "minLength": 1},
					"name":         map[string]any{"type": "string", "minLength": 1},
					"description":  map[string]any{"type": "string"},
					"external_key": map[string]any{"type": "string"},
					"external_url": map[string]any{"type": "string"},
				},
				"additionalProperties": false,
			},
		},
		"edges": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"prerequisite", "dependent"},
				"properties": map[string]any{
					"prerequisite": map[string]any{"type": "integer"},
					"dependent":    map[string]any{"type": "integer"},
				},
				"additionalProperties": false,
			},
		},
		"paths": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"name", "nodes"},
				"properties": map[string]any{
					"name":        map[string]any{"type": "string", "minLength": 1},
					"description": map[string]any{"type": "string"},
					"nodes": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "integer"},
					},
				},
				"additionalProperties": false,
			},
		},
		"problems": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"node", "text"},
				"properties": map[string]any{
					"node":       map[string]any{"type": "integer"},
					"text":       map[string]any{"type": "string", "minLength": 1},
					"solution":   map[string]any{"type": "string"},
					"difficulty": map[string]any{"type": "integer", "minimum": MinDifficulty, "maximum": MaxDifficulty},
				},
				"additionalProperties": false,
			},
		},
	},
	"additionalProperties": false,
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func seedValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a plain decoded JSON value.
		raw, err := json.Marshal(seedSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal seed schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(raw, &def); err != nil {
			compileErr = fmt.Errorf("parse seed schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://skillgraph-seed.json"
		if err := c.AddResource(url, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(url)
	})
	return compiledSchema, compileErr
}

// ParseSeed decodes a YAML seed document, checks it against the seed
// schema and then validates the resulting graph structure.
func ParseSeed(data []byte) (*Seed, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse seed yaml: %w", err)
	}

	// Round-trip through JSON so numbers and maps have the types the
	// schema validator expects.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("normalize seed: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return nil, fmt.Errorf("normalize seed: %w", err)
	}

	schema, err := seedValidator()
	if err != nil {
		return nil, fmt.Errorf("compile seed schema: %w", err)
	}
	if err := schema.Validate(normalized); err != nil {
		return nil, fmt.Errorf("seed schema validation failed: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	known := make(map[string]bool, len(seed.Categories))
	for _, c := range seed.Categories {
		known[c.Name] = true
	}
	if len(seed.Categories) > 0 {
		for _, n := range seed.Nodes {
			if !known[n.Category] {
				return nil, fmt.Errorf("node %d references undeclared category %q", n.ID, n.Category)
			}
		}
	}

	if err := validate(seed.Nodes, seed.Edges); err != nil {
		return nil, err
	}
	if err := validatePaths(seed.Nodes, seed.Paths, seed.Problems); err != nil {
		return nil, err
	}
	for i := range seed.Problems {
		if seed.Problems[i].Difficulty == 0 {
			seed.Problems[i].Difficulty = MinDifficulty
		}
	}
	return &seed, nil
}

// LoadSeed reads and parses a seed file from disk.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	return ParseSeed(data)
}
