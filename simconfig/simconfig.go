// Package simconfig loads and validates the tunables the core recognises
// (population size, evolutionary rates, round probabilities). Config is
// injected at construction; nothing here reads a process-global.
package simconfig

import (
	"fmt"

	"github.com/lore-na/genesis-core/simerr"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable named in the external interface table.
type Config struct {
	PopulationSize        int     `yaml:"population_size"`
	EliteRatio            float64 `yaml:"elite_ratio"`
	MutationRate          float64 `yaml:"mutation_rate"`
	CrossoverRate         float64 `yaml:"crossover_rate"`
	GenerationCycles      int     `yaml:"generation_cycles"`
	EventProbability      float64 `yaml:"event_probability"`
	MinCommunityCohesion  float64 `yaml:"min_community_cohesion"`
	TournamentSize        int     `yaml:"tournament_size"`
	ReproductionThreshold float64 `yaml:"reproduction_threshold"`

	// Seed drives every RNG stream derived from this config. Zero means
	// "use current time," matching the engine's seed convention.
	Seed int64 `yaml:"seed"`
}

// Default returns the configuration table's defaults (spec.md §6).
func Default() Config {
	return Config{
		PopulationSize:        50,
		EliteRatio:            0.2,
		MutationRate:          0.1,
		CrossoverRate:         0.7,
		GenerationCycles:      100,
		EventProbability:      0.1,
		MinCommunityCohesion:  0.3,
		TournamentSize:        3,
		ReproductionThreshold: 0.7,
		Seed:                  0,
	}
}

// FromYAML parses a YAML document into Config, starting from Default() so a
// partial document only overrides the fields it names, then validates.
func FromYAML(doc []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(doc, &cfg); err != nil {
		return Config{}, simerr.Wrap(simerr.ConfigError, "malformed config document", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects out-of-range values. Returns a *simerr.Error of kind
// ConfigError, fatal at construction per the error handling design.
func (c Config) Validate() error {
	if c.PopulationSize <= 0 {
		return simerr.New(simerr.ConfigError, fmt.Sprintf("population_size must be positive, got %d", c.PopulationSize))
	}
	if c.EliteRatio < 0 || c.EliteRatio > 1 {
		return simerr.New(simerr.ConfigError, fmt.Sprintf("elite_ratio must be in [0,1], got %f", c.EliteRatio))
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return simerr.New(simerr.ConfigError, fmt.Sprintf("mutation_rate must be in [0,1], got %f", c.MutationRate))
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return simerr.New(simerr.ConfigError, fmt.Sprintf("crossover_rate must be in [0,1], got %f", c.CrossoverRate))
	}
	if c.GenerationCycles <= 0 {
		return simerr.New(simerr.ConfigError, fmt.Sprintf("generation_cycles must be positive, got %d", c.GenerationCycles))
	}
	if c.EventProbability < 0 || c.EventProbability > 1 {
		return simerr.New(simerr.ConfigError, fmt.Sprintf("event_probability must be in [0,1], got %f", c.EventProbability))
	}
	if c.MinCommunityCohesion < 0 || c.MinCommunityCohesion > 1 {
		return simerr.New(simerr.ConfigError, fmt.Sprintf("min_community_cohesion must be in [0,1], got %f", c.MinCommunityCohesion))
	}
	if c.TournamentSize < 2 {
		return simerr.New(simerr.ConfigError, fmt.Sprintf("tournament_size must be >= 2, got %d", c.TournamentSize))
	}
	if c.TournamentSize > c.PopulationSize {
		return simerr.New(simerr.ConfigError, fmt.Sprintf("tournament_size (%d) cannot exceed population_size (%d)", c.TournamentSize, c.PopulationSize))
	}
	if c.ReproductionThreshold < 0 || c.ReproductionThreshold > 1 {
		return simerr.New(simerr.ConfigError, fmt.Sprintf("reproduction_threshold must be in [0,1], got %f", c.ReproductionThreshold))
	}
	return nil
}
