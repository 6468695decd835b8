// Package population implements the Population Manager: the fixed-size
// cohort of agents, its wallet/sentiment bookkeeping, generation-boundary
// evolution and statistics reporting (component E of the core).
package population

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/lore-na/genesis-core/agent"
	"github.com/lore-na/genesis-core/dna"
	"github.com/lore-na/genesis-core/simconfig"
	"github.com/lore-na/genesis-core/simerr"
)

const memoryCapacity = 50

// AgentState is the economic/affective bookkeeping the spec requires
// alongside every agent's genome, outside the Social Agent's own working
// genes.
type AgentState struct {
	Wallet    float64
	Sentiment float64
}

// Manager owns a fixed-size cohort, advancing it one behavioural cycle at a
// time and evolving it to the next generation every GenerationCycles
// cycles.
type Manager struct {
	cfg    simconfig.Config
	engine *dna.Engine
	sink   Sink
	rng    *rand.Rand

	ids        []string
	agents     map[string]*agent.Agent
	states     map[string]AgentState
	generation int
	cycleCount int
}

// NewManager wires a Manager from config, a dna.Engine sharing the same
// seed stream, and a persistence sink. A nil sink defaults to NoopSink so
// persistence failure can never be required for correct operation.
func NewManager(cfg simconfig.Config, engine *dna.Engine, sink Sink) *Manager {
	if sink == nil {
		sink = NoopSink{}
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Manager{
		cfg:    cfg,
		engine: engine,
		sink:   sink,
		rng:    rand.New(rand.NewSource(seed)),
		agents: make(map[string]*agent.Agent, cfg.PopulationSize),
		states: make(map[string]AgentState, cfg.PopulationSize),
	}
}

// Genesis populates the cohort with cfg.PopulationSize freshly random
// genomes at generation 0, seeds each agent's wallet uniformly in
// [500,1500] and sentiment uniformly in [0.3,0.7], persists each agent, and
// returns the generation-0 statistics snapshot.
func (m *Manager) Genesis(ctx context.Context) (GenerationStats, error) {
	m.ids = make([]string, 0, m.cfg.PopulationSize)
	m.agents = make(map[string]*agent.Agent, m.cfg.PopulationSize)
	m.states = make(map[string]AgentState, m.cfg.PopulationSize)
	m.generation = 0
	m.cycleCount = 0

	for i := 0; i < m.cfg.PopulationSize; i++ {
		id := fmt.Sprintf("gen_0_%d", i)
		g := dna.RandomGenome(m.rng, id)
		m.spawn(id, g, AgentState{
			Wallet:    500 + m.rng.Float64()*1000,
			Sentiment: 0.3 + m.rng.Float64()*0.4,
		})
	}

	return m.snapshotAndPersist(ctx)
}

func (m *Manager) spawn(id string, g dna.Genome, state AgentState) {
	m.ids = append(m.ids, id)
	m.agents[id] = agent.New(g, memoryCapacity)
	m.states[id] = state
}

func (m *Manager) genomes() []dna.Genome {
	out := make([]dna.Genome, len(m.ids))
	for i, id := range m.ids {
		out[i] = m.agents[id].Genome
	}
	return out
}

// snapshotAndPersist never fails the round on a sink error: a save failure
// is logged as a PersistenceFailure and the in-memory state carries
// forward, to be re-persisted on the next snapshot attempt.
func (m *Manager) snapshotAndPersist(ctx context.Context) (GenerationStats, error) {
	stats := ComputeGenerationStats(m.generation, m.genomes(), m.cfg.ReproductionThreshold)
	for _, id := range m.ids {
		a := m.agents[id]
		identity := IdentityRecord{AgentID: id, PersonalityArchetype: string(a.Archetype)}
		if err := m.sink.SaveAgent(identity, a.Genome, a.Genome.Fitness); err != nil {
			logPersistenceFailure(fmt.Sprintf("save agent %s", id), err)
		}
	}
	if err := m.sink.SaveGenerationStats(m.generation, stats); err != nil {
		logPersistenceFailure(fmt.Sprintf("save generation %d stats", m.generation), err)
	}
	select {
	case <-ctx.Done():
		return stats, ctx.Err()
	default:
	}
	return stats, nil
}

func logPersistenceFailure(op string, cause error) {
	log.Printf("%v; continuing with in-memory state", simerr.Wrap(simerr.PersistenceFailure, op, cause))
}

// AdvanceCycle runs one behavioural cycle. Every GenerationCycles cycles
// (cycle_count mod generation_cycles == 0) it additionally advances the
// cohort to the next generation: evaluate fitness, snapshot and persist
// statistics, run the evolution engine, replace the cohort (inheriting
// wallet with U[0.8,1.2] noise from the predecessor at the same cohort
// index), increment the generation counter, and persist again.
func (m *Manager) AdvanceCycle(ctx context.Context, perf func(agentID string) dna.PerformanceData) (generationAdvanced bool, stats GenerationStats, err error) {
	m.cycleCount++
	if m.cycleCount%m.cfg.GenerationCycles != 0 {
		return false, GenerationStats{}, nil
	}

	fitnesses, err := dna.EvaluateCohort(ctx, m.genomes(), perf, 0)
	if err != nil {
		return false, GenerationStats{}, err
	}
	for i, id := range m.ids {
		a := m.agents[id]
		a.Genome.Fitness = fitnesses[i]
	}

	if _, err := m.snapshotAndPersist(ctx); err != nil {
		return false, GenerationStats{}, err
	}

	evolved := m.engine.Evolve(m.genomes(), m.generation)

	prevStates := m.states
	prevIDs := m.ids
	m.ids = make([]string, 0, len(evolved))
	m.agents = make(map[string]*agent.Agent, len(evolved))
	m.states = make(map[string]AgentState, len(evolved))

	for i, g := range evolved {
		state := AgentState{Wallet: 500 + m.rng.Float64()*1000, Sentiment: 0.3 + m.rng.Float64()*0.4}
		if i < len(prevIDs) {
			if prev, ok := prevStates[prevIDs[i]]; ok {
				noise := 0.8 + m.rng.Float64()*0.4
				state = AgentState{Wallet: prev.Wallet * noise, Sentiment: prev.Sentiment}
			}
		}
		m.spawn(g.AgentID, g, state)
	}

	m.generation++
	stats, err = m.snapshotAndPersist(ctx)
	return true, stats, err
}

// CurrentGeneration returns the index of the cohort's current generation.
func (m *Manager) CurrentGeneration() int {
	return m.generation
}

// Cohort returns every agent's identity/genome pair in stable cohort order.
func (m *Manager) Cohort() []CohortEntry {
	out := make([]CohortEntry, 0, len(m.ids))
	for _, id := range m.ids {
		a := m.agents[id]
		out = append(out, CohortEntry{
			Identity: IdentityRecord{AgentID: id, PersonalityArchetype: string(a.Archetype)},
			Genome:   a.Genome,
		})
	}
	return out
}

// Agents exposes the live cohort by id for callers (e.g. the Social
// Network Manager) that drive per-round agent behaviour directly.
func (m *Manager) Agents() map[string]*agent.Agent {
	return m.agents
}

// GetAgent looks up one cohort member by id.
func (m *Manager) GetAgent(id string) (*agent.Agent, bool) {
	a, ok := m.agents[id]
	return a, ok
}

// GetState returns an agent's wallet/sentiment bookkeeping.
func (m *Manager) GetState(id string) (AgentState, bool) {
	s, ok := m.states[id]
	return s, ok
}
