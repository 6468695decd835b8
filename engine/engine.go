// Package engine composes the DNA/Evolution engine, Neural Web, Population
// Manager and Social Network Manager into the core's single synchronous,
// in-process external API (spec.md §6), mirroring the teacher's
// composition-and-delegation façade without a wire protocol.
package engine

import (
	"context"
	"sort"

	"github.com/lore-na/genesis-core/agent"
	"github.com/lore-na/genesis-core/dna"
	"github.com/lore-na/genesis-core/population"
	"github.com/lore-na/genesis-core/simconfig"
	"github.com/lore-na/genesis-core/socialgraph"
	"github.com/lore-na/genesis-core/socialnet"
)

// PerformanceSource supplies the per-agent performance_data fitness
// evaluation reads at every generation boundary. Implementations typically
// derive it from the agent's accumulated Performance counters and any
// external collaborator's signals.
type PerformanceSource func(agentID string) dna.PerformanceData

// Engine is the single entry point a caller embeds: it owns the one
// logical simulation loop the concurrency model requires (§5). It takes no
// lock of its own, so RunCycle/RunRounds must not be called concurrently.
type Engine struct {
	cfg  simconfig.Config
	dna  *dna.Engine
	pop  *population.Manager
	web  *socialgraph.Web
	net  *socialnet.Manager
	perf PerformanceSource
}

// New wires an Engine from config, a persistence sink (nil defaults to a
// no-op sink) and a performance source (nil defaults to "everything
// unmeasured," which evaluates every signal at its 0.5 default).
func New(cfg simconfig.Config, sink population.Sink, perf PerformanceSource) *Engine {
	if perf == nil {
		perf = func(string) dna.PerformanceData { return dna.PerformanceData{} }
	}
	dnaEngine := dna.NewEngine(cfg)
	pop := population.NewManager(cfg, dnaEngine, sink)
	web := socialgraph.New()
	net := socialnet.NewManager(cfg, pop, web, sink)
	return &Engine{cfg: cfg, dna: dnaEngine, pop: pop, web: web, net: net, perf: perf}
}

// Genesis creates the initial cohort of cfg.PopulationSize agents.
func (e *Engine) Genesis(ctx context.Context) (population.GenerationStats, error) {
	return e.pop.Genesis(ctx)
}

// CurrentGeneration returns the cohort's current generation index.
func (e *Engine) CurrentGeneration() int {
	return e.pop.CurrentGeneration()
}

// GetCohort returns every agent's identity/genome pair.
func (e *Engine) GetCohort() []population.CohortEntry {
	return e.pop.Cohort()
}

// GetAgent looks up one cohort member's live Social Agent state.
func (e *Engine) GetAgent(id string) (*agent.Agent, bool) {
	return e.pop.GetAgent(id)
}

// RunCycle runs one round against the Neural Web, then advances the
// Population Manager's cycle counter (and, on a generation boundary,
// evolves the cohort).
func (e *Engine) RunCycle(ctx context.Context) (generationAdvanced bool, stats population.GenerationStats, err error) {
	e.net.RunRound()
	return e.pop.AdvanceCycle(ctx, e.perf)
}

// RunRounds runs n cycles in sequence, stopping early on the first error.
func (e *Engine) RunRounds(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if _, _, err := e.RunCycle(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ForceGenerationAdvance evaluates fitness and evolves the cohort
// immediately, wherever cycle_count stands: the cycle counter is moved
// forward to the next generation boundary and the advance runs there.
func (e *Engine) ForceGenerationAdvance(ctx context.Context) (population.GenerationStats, error) {
	genomes := make([]dna.Genome, 0, len(e.pop.Cohort()))
	for _, entry := range e.pop.Cohort() {
		genomes = append(genomes, entry.Genome)
	}
	fitnesses, err := dna.EvaluateCohort(ctx, genomes, e.perf, 0)
	if err != nil {
		return population.GenerationStats{}, err
	}
	for i, g := range genomes {
		if a, ok := e.pop.GetAgent(g.AgentID); ok {
			a.Genome.Fitness = fitnesses[i]
		}
	}
	for {
		advanced, stats, err := e.pop.AdvanceCycle(ctx, e.perf)
		if err != nil || advanced {
			return stats, err
		}
	}
}

// ConnectionsOf returns every outgoing edge from id.
func (e *Engine) ConnectionsOf(id string) []socialgraph.Connection {
	return e.web.ConnectionsOf(id)
}

// Connection returns the src->dst edge, or nil if none exists.
func (e *Engine) Connection(src, dst string) *socialgraph.Connection {
	return e.web.Connection(src, dst)
}

// DetectCommunities returns the current derived community membership.
func (e *Engine) DetectCommunities() map[string][]string {
	return e.web.DetectCommunities()
}

// MetricsOf returns an agent's current SocialMetrics.
func (e *Engine) MetricsOf(id string) (socialgraph.SocialMetrics, bool) {
	return e.web.MetricsOf(id)
}

// RecentEvents returns the most recent window social events, oldest first.
func (e *Engine) RecentEvents(window int) []socialnet.SocialEvent {
	return e.net.RecentEvents(window)
}

// Trends returns the current EMA trend map.
func (e *Engine) Trends() map[string]float64 {
	return e.net.Trends()
}

// Communities returns the current community registry, keyed by id.
func (e *Engine) Communities() map[string]*socialnet.Community {
	return e.net.Communities()
}

// cohortIDs is a small helper used by tests to assert on stable iteration
// order without reaching into population internals.
func cohortIDs(entries []population.CohortEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.Identity.AgentID)
	}
	sort.Strings(ids)
	return ids
}
