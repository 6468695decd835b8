package engine

import (
	"context"
	"testing"

	"github.com/lore-na/genesis-core/simconfig"
)

func testConfig() simconfig.Config {
	cfg := simconfig.Default()
	cfg.PopulationSize = 6
	cfg.GenerationCycles = 2
	cfg.Seed = 5
	return cfg
}

func TestGenesisThenRunCycleAdvancesGeneration(t *testing.T) {
	e := New(testConfig(), nil, nil)
	ctx := context.Background()

	if _, err := e.Genesis(ctx); err != nil {
		t.Fatalf("Genesis: %v", err)
	}
	if got := len(cohortIDs(e.GetCohort())); got != 6 {
		t.Fatalf("cohort size = %d, want 6", got)
	}

	advanced, _, err := e.RunCycle(ctx)
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if advanced {
		t.Fatalf("should not advance generation on first cycle with generation_cycles=2")
	}

	advanced, _, err = e.RunCycle(ctx)
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if !advanced {
		t.Fatalf("should advance generation on second cycle")
	}
	if e.CurrentGeneration() != 1 {
		t.Errorf("generation = %d, want 1", e.CurrentGeneration())
	}
}

func TestForceGenerationAdvanceBypassesCycleCount(t *testing.T) {
	e := New(testConfig(), nil, nil)
	ctx := context.Background()
	if _, err := e.Genesis(ctx); err != nil {
		t.Fatalf("Genesis: %v", err)
	}
	stats, err := e.ForceGenerationAdvance(ctx)
	if err != nil {
		t.Fatalf("ForceGenerationAdvance: %v", err)
	}
	if e.CurrentGeneration() != 1 {
		t.Errorf("generation = %d, want 1", e.CurrentGeneration())
	}
	if stats.Generation != 1 {
		t.Errorf("stats.Generation = %d, want 1", stats.Generation)
	}
}

func TestQueriesDoNotPanicOnEmptyGraph(t *testing.T) {
	e := New(testConfig(), nil, nil)
	ctx := context.Background()
	if _, err := e.Genesis(ctx); err != nil {
		t.Fatalf("Genesis: %v", err)
	}
	_ = e.DetectCommunities()
	_ = e.Trends()
	_ = e.RecentEvents(10)
	if _, ok := e.MetricsOf("nonexistent"); ok {
		t.Errorf("expected no metrics for unknown agent")
	}
}
