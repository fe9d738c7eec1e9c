package domain

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TerritoryGraph is the static adjacency relation between region codes.
// It is configuration data loaded once at startup and never mutated.
type TerritoryGraph struct {
	adjacency map[string][]string
}

// NewTerritoryGraph builds a graph from an adjacency map. The input map is
// copied so later mutation by the caller cannot leak in.
func NewTerritoryGraph(adjacency map[string][]string) TerritoryGraph {
	copied := make(map[string][]string, len(adjacency))
	for code, neighbors := range adjacency {
		copied[code] = append([]string(nil), neighbors...)
	}
	return TerritoryGraph{adjacency: copied}
}

// territoryConfigFile is the yaml shape of the territory config.
type territoryConfigFile struct {
	Territories map[string]struct {
		Adjacent []string `yaml:"adjacent"`
	} `yaml:"territories"`
}

// LoadTerritoryGraph reads the adjacency configuration from a yaml file.
func LoadTerritoryGraph(path string) (TerritoryGraph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return TerritoryGraph{}, fmt.Errorf("read territory config: %w", err)
	}

	var file territoryConfigFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return TerritoryGraph{}, fmt.Errorf("parse territory config: %w", err)
	}

	adjacency := make(map[string][]string, len(file.Territories))
	for code, entry := range file.Territories {
		adjacency[code] = entry.Adjacent
	}
	return NewTerritoryGraph(adjacency), nil
}

// Adjacent returns the territories bordering the given code. Unknown codes
// return nil: a lead in an unmapped territory simply has no fallback space.
func (g TerritoryGraph) Adjacent(code string) []string {
	return g.adjacency[code]
}

// Known reports whether the territory appears in the configuration.
func (g TerritoryGraph) Known(code string) bool {
	_, ok := g.adjacency[code]
	return ok
}
