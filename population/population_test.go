package population

import (
	"context"
	"testing"

	"github.com/lore-na/genesis-core/dna"
	"github.com/lore-na/genesis-core/simconfig"
)

func testConfig() simconfig.Config {
	cfg := simconfig.Default()
	cfg.PopulationSize = 4
	cfg.EliteRatio = 0.5
	cfg.GenerationCycles = 2
	cfg.Seed = 7
	return cfg
}

func TestGenesisFitnessAllHalf(t *testing.T) {
	cfg := testConfig()
	mgr := NewManager(cfg, dna.NewEngine(cfg), nil)
	stats, err := mgr.Genesis(context.Background())
	if err != nil {
		t.Fatalf("Genesis: %v", err)
	}
	if len(mgr.Cohort()) != cfg.PopulationSize {
		t.Fatalf("cohort size = %d, want %d", len(mgr.Cohort()), cfg.PopulationSize)
	}
	if stats.Fitness.Mean != 0.5 || stats.Fitness.Min != 0.5 || stats.Fitness.Max != 0.5 {
		t.Errorf("genesis fitness should be uniformly 0.5, got %+v", stats.Fitness)
	}
	if mgr.CurrentGeneration() != 0 {
		t.Errorf("expected generation 0, got %d", mgr.CurrentGeneration())
	}
}

func TestAdvanceCycleOnlyEvolvesOnBoundary(t *testing.T) {
	cfg := testConfig()
	mgr := NewManager(cfg, dna.NewEngine(cfg), nil)
	if _, err := mgr.Genesis(context.Background()); err != nil {
		t.Fatalf("Genesis: %v", err)
	}
	perf := func(string) dna.PerformanceData { return dna.PerformanceData{} }

	advanced, _, err := mgr.AdvanceCycle(context.Background(), perf)
	if err != nil {
		t.Fatalf("AdvanceCycle: %v", err)
	}
	if advanced {
		t.Fatalf("should not advance generation before generation_cycles boundary")
	}
	if mgr.CurrentGeneration() != 0 {
		t.Errorf("generation should still be 0, got %d", mgr.CurrentGeneration())
	}

	advanced, stats, err := mgr.AdvanceCycle(context.Background(), perf)
	if err != nil {
		t.Fatalf("AdvanceCycle: %v", err)
	}
	if !advanced {
		t.Fatalf("should advance generation at generation_cycles boundary")
	}
	if mgr.CurrentGeneration() != 1 {
		t.Errorf("generation = %d, want 1", mgr.CurrentGeneration())
	}
	if len(mgr.Cohort()) != cfg.PopulationSize {
		t.Errorf("cohort size changed across generation advance: %d", len(mgr.Cohort()))
	}
	if stats.Generation != 1 {
		t.Errorf("returned stats generation = %d, want 1", stats.Generation)
	}
}

func TestCohortSizeInvariantAcrossGenerations(t *testing.T) {
	cfg := testConfig()
	cfg.GenerationCycles = 1
	mgr := NewManager(cfg, dna.NewEngine(cfg), nil)
	if _, err := mgr.Genesis(context.Background()); err != nil {
		t.Fatalf("Genesis: %v", err)
	}
	perf := func(string) dna.PerformanceData { return dna.PerformanceData{} }
	for i := 0; i < 5; i++ {
		if _, _, err := mgr.AdvanceCycle(context.Background(), perf); err != nil {
			t.Fatalf("AdvanceCycle %d: %v", i, err)
		}
		if len(mgr.Cohort()) != cfg.PopulationSize {
			t.Fatalf("cohort size drifted at cycle %d: %d", i, len(mgr.Cohort()))
		}
	}
	if mgr.CurrentGeneration() != 5 {
		t.Errorf("generation = %d, want 5", mgr.CurrentGeneration())
	}
}
