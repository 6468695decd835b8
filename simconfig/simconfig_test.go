package simconfig

import (
	"testing"

	"github.com/lore-na/genesis-core/simerr"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestFromYAMLOverridesOnlyNamedFields(t *testing.T) {
	cfg, err := FromYAML([]byte("elite_ratio: 0.3\npopulation_size: 80\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PopulationSize != 80 {
		t.Errorf("population_size = %d, want 80", cfg.PopulationSize)
	}
	if cfg.EliteRatio != 0.3 {
		t.Errorf("elite_ratio = %f, want 0.3", cfg.EliteRatio)
	}
	if cfg.MutationRate != 0.1 {
		t.Errorf("mutation_rate should retain default, got %f", cfg.MutationRate)
	}
}

func TestValidateRejectsOutOfRangeEliteRatio(t *testing.T) {
	cfg := Default()
	cfg.EliteRatio = 1.4
	err := cfg.Validate()
	if !simerr.Is(err, simerr.ConfigError) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestValidateRejectsTournamentSizeAboveCohort(t *testing.T) {
	cfg := Default()
	cfg.PopulationSize = 2
	cfg.TournamentSize = 3
	if err := cfg.Validate(); !simerr.Is(err, simerr.ConfigError) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}
