package dna

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lore-na/genesis-core/simconfig"
	"golang.org/x/sync/errgroup"
)

// Engine drives selection, crossover, mutation and generation advance
// against a seeded, mutex-guarded RNG so a run is reproducible end to end.
type Engine struct {
	rng *rand.Rand
	mu  sync.Mutex
	cfg simconfig.Config
}

// NewEngine builds an Engine seeded per cfg.Seed. Seed 0 means "use the
// current time," matching the convention used across the core's other
// seeded components.
func NewEngine(cfg simconfig.Config) *Engine {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{rng: rand.New(rand.NewSource(seed)), cfg: cfg}
}

// WithSeed returns a new Engine sharing cfg but seeded independently,
// useful for deterministic offspring lineages and replay.
func (e *Engine) WithSeed(seed int64) *Engine {
	return &Engine{rng: rand.New(rand.NewSource(seed)), cfg: e.cfg}
}

// SeedForLineage derives a deterministic seed from a parent id and an
// index, so repeated runs with the same cohort produce the same offspring
// stream without sharing RNG state across goroutines.
func SeedForLineage(parentID string, index int) int64 {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d", parentID, index)
	sum := h.Sum(nil)
	var seed int64
	for i := 0; i < 8; i++ {
		seed = seed<<8 | int64(sum[i])
	}
	return seed
}

func (e *Engine) float64() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Float64()
}

func (e *Engine) normFloat64() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.NormFloat64()
}

func (e *Engine) intn(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Intn(n)
}

// Crossover combines p1 and p2 into a child genome. Each numeric trait is
// independently blended with probability cfg.CrossoverRate (weighted mean,
// weight drawn uniformly) or else copied from one parent chosen uniformly.
// Each categorical trait picks one parent's value uniformly. Child fitness
// is the element-wise mean of the parents'; generation is
// max(p1.gen,p2.gen)+1; the mutation log starts empty.
func (e *Engine) Crossover(p1, p2 Genome, childID string) Genome {
	domains := make(map[Domain]DomainGenes, len(Domains))
	for _, d := range Domains {
		dg1, dg2 := p1.DomainGenes[d], p2.DomainGenes[d]
		out := newDomainGenes(d)
		for _, trait := range NumericTraits[d] {
			v1, v2 := dg1.Traits[trait], dg2.Traits[trait]
			if e.float64() < e.cfg.CrossoverRate {
				w := e.float64()
				out.Traits[trait] = clampUnit(w*v1 + (1-w)*v2)
			} else if e.float64() < 0.5 {
				out.Traits[trait] = v1
			} else {
				out.Traits[trait] = v2
			}
		}
		if d == Odyssey {
			if e.float64() < 0.5 {
				out.Categorical[aestheticBiasTrait] = dg1.Categorical[aestheticBiasTrait]
			} else {
				out.Categorical[aestheticBiasTrait] = dg2.Categorical[aestheticBiasTrait]
			}
		}
		domains[d] = out
	}

	generation := p1.Generation
	if p2.Generation > generation {
		generation = p2.Generation
	}
	generation++

	return Genome{
		AgentID:     childID,
		Generation:  generation,
		ParentIDs:   []string{p1.AgentID, p2.AgentID},
		BirthToken:  uuid.NewString(),
		DomainGenes: domains,
		Fitness:     meanFitness(p1.Fitness, p2.Fitness),
		MutationLog: nil,
	}
}

func meanFitness(a, b FitnessVector) FitnessVector {
	return FitnessVector{
		Limbo:   (a.Limbo + b.Limbo) / 2,
		Odyssey: (a.Odyssey + b.Odyssey) / 2,
		Ritual:  (a.Ritual + b.Ritual) / 2,
		Engine:  (a.Engine + b.Engine) / 2,
		Logs:    (a.Logs + b.Logs) / 2,
		Overall: (a.Overall + b.Overall) / 2,
	}
}

// Mutate returns a new genome with each numeric trait independently
// Gaussian-jittered (N(0, 0.1), clamped to [0,1]) with probability
// cfg.MutationRate, and each categorical trait independently resampled to
// a different variant with probability cfg.MutationRate/2. Identity
// fields, fitness, and existing mutation log entries are preserved; new
// entries are appended for every trait actually changed.
func (e *Engine) Mutate(g Genome) Genome {
	child := g.clone()
	for _, d := range Domains {
		dg := child.DomainGenes[d]
		for _, trait := range NumericTraits[d] {
			if e.float64() >= e.cfg.MutationRate {
				continue
			}
			old := dg.Traits[trait]
			delta := e.normFloat64() * 0.1
			newVal := clampUnit(old + delta)
			dg.Traits[trait] = newVal
			child.MutationLog = append(child.MutationLog, MutationRecord{
				Domain: d, Trait: trait, Kind: NumericMutation,
				OldValue: old, NewValue: newVal, Magnitude: delta,
			})
		}
		if d == Odyssey {
			if e.float64() < e.cfg.MutationRate/2 {
				old := dg.Categorical[aestheticBiasTrait]
				newVal := e.differentVariant(old)
				dg.Categorical[aestheticBiasTrait] = newVal
				child.MutationLog = append(child.MutationLog, MutationRecord{
					Domain: d, Trait: aestheticBiasTrait, Kind: CategoricalMutation,
					OldCategory: old, NewCategory: newVal,
				})
			}
		}
		child.DomainGenes[d] = dg
	}
	return child
}

func (e *Engine) differentVariant(current string) string {
	for {
		candidate := AestheticBiasVariants[e.intn(len(AestheticBiasVariants))]
		if candidate != current {
			return candidate
		}
	}
}

// PerformanceData carries the raw per-domain signals fitness aggregation
// reads. Any signal absent from its sub-map defaults to 0.5.
type PerformanceData struct {
	Limbo   map[string]float64
	Odyssey map[string]float64
	Ritual  map[string]float64
	Engine  map[string]float64
	Logs    map[string]float64
}

func signal(m map[string]float64, key string) float64 {
	if m == nil {
		return 0.5
	}
	if v, ok := m[key]; ok {
		return v
	}
	return 0.5
}

// AggregateFitness is a pure function of performance data, computing the
// per-domain weighted sums and the overall aggregate, all clamped to
// [0,1]. The caller is responsible for replacing a genome's Fitness with
// the result; this function never mutates a Genome.
func AggregateFitness(pd PerformanceData) FitnessVector {
	limbo := 0.4*signal(pd.Limbo, "profit_ratio") + 0.3*signal(pd.Limbo, "decision_accuracy") + 0.3*signal(pd.Limbo, "market_timing")
	odyssey := 0.4*signal(pd.Odyssey, "creativity_score") + 0.3*signal(pd.Odyssey, "popularity_score") + 0.3*signal(pd.Odyssey, "innovation_score")
	ritual := 0.4*signal(pd.Ritual, "community_engagement") + 0.3*signal(pd.Ritual, "social_influence") + 0.3*signal(pd.Ritual, "subscription_satisfaction")
	engine := 0.4*signal(pd.Engine, "prediction_accuracy") + 0.3*signal(pd.Engine, "analysis_quality") + 0.3*signal(pd.Engine, "ai_contributions")
	logs := 0.4*signal(pd.Logs, "delivery_satisfaction") + 0.3*signal(pd.Logs, "operational_efficiency") + 0.3*signal(pd.Logs, "problem_resolution")

	limbo, odyssey, ritual, engine, logs = clampUnit(limbo), clampUnit(odyssey), clampUnit(ritual), clampUnit(engine), clampUnit(logs)
	overall := clampUnit(0.25*limbo + 0.20*odyssey + 0.25*ritual + 0.15*engine + 0.15*logs)

	return FitnessVector{Limbo: limbo, Odyssey: odyssey, Ritual: ritual, Engine: engine, Logs: logs, Overall: overall}
}

// EvaluateCohort fans per-genome fitness evaluation out across a bounded
// worker pool; each evaluation is a pure function of one genome, so the
// results slice is written at its own index with no shared mutable state.
// perf must be safe for concurrent use.
func EvaluateCohort(ctx context.Context, genomes []Genome, perf func(agentID string) PerformanceData, maxWorkers int) ([]FitnessVector, error) {
	results := make([]FitnessVector, len(genomes))
	g, ctx := errgroup.WithContext(ctx)
	if maxWorkers > 0 {
		g.SetLimit(maxWorkers)
	}
	for i, genome := range genomes {
		i, genome := i, genome
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = AggregateFitness(perf(genome.AgentID))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Select runs a tournament of the configured size, sampling without
// replacement within the tournament, and returns the member with maximum
// Overall fitness.
func (e *Engine) Select(cohort []Genome, size int) Genome {
	if size > len(cohort) {
		size = len(cohort)
	}
	idxs := e.sampleIndices(len(cohort), size)
	best := cohort[idxs[0]]
	for _, idx := range idxs[1:] {
		if cohort[idx].Fitness.Overall > best.Fitness.Overall {
			best = cohort[idx]
		}
	}
	return best
}

func (e *Engine) sampleIndices(n, k int) []int {
	if k >= n {
		idxs := make([]int, n)
		for i := range idxs {
			idxs[i] = i
		}
		return idxs
	}
	seen := make(map[int]struct{}, k)
	idxs := make([]int, 0, k)
	for len(idxs) < k {
		i := e.intn(n)
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		idxs = append(idxs, i)
	}
	return idxs
}

// SelectParents picks two tournament winners independently; if they
// coincide and the cohort has at least 2 members, the second is resampled.
func (e *Engine) SelectParents(cohort []Genome) (Genome, Genome) {
	p1 := e.Select(cohort, e.cfg.TournamentSize)
	p2 := e.Select(cohort, e.cfg.TournamentSize)
	if p2.AgentID == p1.AgentID && len(cohort) >= 2 {
		p2 = e.Select(cohort, e.cfg.TournamentSize)
	}
	return p1, p2
}

// Evolve produces the next generation of fixed size N = len(cohort): the
// top floor(N*EliteRatio) genomes (by Overall fitness) are copied
// unchanged, and the remainder is filled by crossover-then-mutate of
// tournament-selected parents. Child ids follow "gen_{g+1}_{index}".
func (e *Engine) Evolve(cohort []Genome, generation int) []Genome {
	n := len(cohort)
	sorted := make([]Genome, n)
	copy(sorted, cohort)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Fitness.Overall > sorted[j].Fitness.Overall
	})

	eliteCount := int(math.Floor(float64(n) * e.cfg.EliteRatio))
	next := make([]Genome, 0, n)
	for i := 0; i < eliteCount; i++ {
		next = append(next, sorted[i])
	}

	for i := eliteCount; i < n; i++ {
		p1, p2 := e.SelectParents(sorted)
		childID := fmt.Sprintf("gen_%d_%d", generation+1, i)
		child := e.Crossover(p1, p2, childID)
		child = e.Mutate(child)
		next = append(next, child)
	}
	return next
}

// Qualifies reports the advisory reproduction gate: Overall >= threshold.
// Evolve never consults this; it is offered for downstream systems.
func Qualifies(g Genome, threshold float64) bool {
	return g.Fitness.Overall >= threshold
}
