package socialnet

import (
	"context"
	"testing"

	"github.com/lore-na/genesis-core/dna"
	"github.com/lore-na/genesis-core/simconfig"
	"github.com/lore-na/genesis-core/socialgraph"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	cfg := simconfig.Default()
	cfg.PopulationSize = 6
	cfg.Seed = 11
	cfg.EventProbability = 1.0

	pop := newPopManager(cfg)
	if _, err := pop.Genesis(context.Background()); err != nil {
		t.Fatalf("Genesis: %v", err)
	}
	web := socialgraph.New()
	return NewManager(cfg, pop, web, nil)
}

func TestRunRoundDoesNotPanicAndAdvancesTrends(t *testing.T) {
	m := newTestManager(t)
	m.RunRounds(5)
	if len(m.Trends()) == 0 {
		t.Errorf("trends empty after 5 rounds; archetype trends are recorded every round")
	}
}

func TestEventLogBoundedAndRecent(t *testing.T) {
	m := newTestManager(t)
	m.RunRounds(20)
	events := m.RecentEvents(5)
	if len(events) > 5 {
		t.Fatalf("RecentEvents(5) returned %d entries", len(events))
	}
}

func TestCommunityCohesionSingletonIsOne(t *testing.T) {
	if c := cohesion([]string{"solo"}, socialgraph.New()); c != 1.0 {
		t.Errorf("singleton cohesion = %f, want 1.0", c)
	}
}

func TestElectLeaderBreaksTiesByID(t *testing.T) {
	web := socialgraph.New()
	web.Register("a")
	web.Register("b")
	agents := testAgents("a", "b")
	leader := electLeader([]string{"b", "a"}, agents, web)
	if leader != "a" {
		t.Errorf("electLeader tie-break = %s, want a", leader)
	}
}
