// Package dna implements the digital DNA model and evolution engine: the
// immutable per-individual genome, fitness aggregation, tournament
// selection, crossover and Gaussian mutation (component A/B of the core).
package dna

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/lore-na/genesis-core/simerr"
)

// Domain names one of the five behavioural gene groups. The set is closed:
// no other value is ever constructed by this package.
type Domain string

const (
	Limbo   Domain = "limbo"
	Odyssey Domain = "odyssey"
	Ritual  Domain = "ritual"
	Engine  Domain = "engine"
	Logs    Domain = "logs"
)

// Domains lists the five gene groups in the fixed order used for iteration
// wherever a stable order matters (report rendering, trait distribution
// tables).
var Domains = []Domain{Limbo, Odyssey, Ritual, Engine, Logs}

// NumericTraits is the fixed 5+4+5+5+5 trait set, keyed by domain.
var NumericTraits = map[Domain][]string{
	Limbo:   {"risk_tolerance", "price_sensitivity", "quality_preference", "novelty_seeking", "brand_loyalty"},
	Odyssey: {"creativity_drive", "experimentation", "customization_desire", "innovation_appetite"},
	Ritual:  {"community_bonding", "influence_susceptibility", "loyalty_factor", "social_conformity", "leadership_tendency"},
	Engine:  {"analytical_thinking", "pattern_recognition", "strategic_planning", "data_interpretation", "decision_confidence"},
	Logs:    {"patience_level", "service_expectations", "complaint_tendency", "efficiency_priority", "reliability_value"},
}

// AestheticBiasVariants is the only categorical trait's fixed enum, owned
// by the odyssey domain.
var AestheticBiasVariants = []string{
	"minimalist", "maximalist", "vintage", "futuristic",
	"natural", "geometric", "organic", "industrial",
}

const aestheticBiasTrait = "aesthetic_bias"

// DomainGenes holds one domain's numeric traits and, for odyssey only, its
// categorical trait.
type DomainGenes struct {
	Traits      map[string]float64
	Categorical map[string]string
}

func newDomainGenes(d Domain) DomainGenes {
	traits := make(map[string]float64, len(NumericTraits[d]))
	for _, name := range NumericTraits[d] {
		traits[name] = 0
	}
	dg := DomainGenes{Traits: traits}
	if d == Odyssey {
		dg.Categorical = map[string]string{aestheticBiasTrait: AestheticBiasVariants[0]}
	}
	return dg
}

func (dg DomainGenes) clone() DomainGenes {
	traits := make(map[string]float64, len(dg.Traits))
	for k, v := range dg.Traits {
		traits[k] = v
	}
	cp := DomainGenes{Traits: traits}
	if dg.Categorical != nil {
		cat := make(map[string]string, len(dg.Categorical))
		for k, v := range dg.Categorical {
			cat[k] = v
		}
		cp.Categorical = cat
	}
	return cp
}

// FitnessVector is the fixed-key fitness record: one score per domain plus
// the aggregate. Defaults to 0.5 on every key before evaluation.
type FitnessVector struct {
	Limbo   float64
	Odyssey float64
	Ritual  float64
	Engine  float64
	Logs    float64
	Overall float64
}

// Get returns the fitness component for d; Overall is not addressable by
// Domain and must be read directly.
func (fv FitnessVector) Get(d Domain) float64 {
	switch d {
	case Limbo:
		return fv.Limbo
	case Odyssey:
		return fv.Odyssey
	case Ritual:
		return fv.Ritual
	case Engine:
		return fv.Engine
	case Logs:
		return fv.Logs
	default:
		return 0
	}
}

func defaultFitness() FitnessVector {
	return FitnessVector{Limbo: 0.5, Odyssey: 0.5, Ritual: 0.5, Engine: 0.5, Logs: 0.5, Overall: 0.5}
}

// MutationKind distinguishes a numeric Gaussian-jitter record from a
// categorical resample record in the mutation log.
type MutationKind string

const (
	NumericMutation     MutationKind = "numeric"
	CategoricalMutation MutationKind = "categorical"
)

// MutationRecord is one append-only entry in a genome's mutation log.
type MutationRecord struct {
	Domain      Domain
	Trait       string
	Kind        MutationKind
	OldValue    float64
	NewValue    float64
	OldCategory string
	NewCategory string
	Magnitude   float64
}

// Genome is the immutable per-individual genetic record. Mutation and
// crossover never modify a Genome in place; they return a new one.
type Genome struct {
	AgentID     string
	Generation  int
	ParentIDs   []string
	BirthToken  string
	DomainGenes map[Domain]DomainGenes
	Fitness     FitnessVector
	MutationLog []MutationRecord
}

// Trait reads a numeric trait, returning (0, false) for an unknown domain
// or trait name rather than panicking.
func (g Genome) Trait(d Domain, trait string) (float64, bool) {
	dg, ok := g.DomainGenes[d]
	if !ok {
		return 0, false
	}
	v, ok := dg.Traits[trait]
	return v, ok
}

// AestheticBias returns odyssey's categorical trait, or "" if unset.
func (g Genome) AestheticBias() string {
	dg, ok := g.DomainGenes[Odyssey]
	if !ok || dg.Categorical == nil {
		return ""
	}
	return dg.Categorical[aestheticBiasTrait]
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Validate checks the invariants construction must uphold: every numeric
// trait in [0,1], the domain key set is exactly the fixed five, and
// parent_ids is either empty or length 2. Returns a *simerr.Error of kind
// InvalidGenome on violation.
func (g Genome) Validate() error {
	if len(g.ParentIDs) != 0 && len(g.ParentIDs) != 2 {
		return simerr.New(simerr.InvalidGenome, fmt.Sprintf("parent_ids must be empty or length 2, got %d", len(g.ParentIDs)))
	}
	if len(g.DomainGenes) != len(Domains) {
		return simerr.New(simerr.InvalidGenome, fmt.Sprintf("genome must define exactly %d domains, got %d", len(Domains), len(g.DomainGenes)))
	}
	for _, d := range Domains {
		dg, ok := g.DomainGenes[d]
		if !ok {
			return simerr.New(simerr.InvalidGenome, fmt.Sprintf("missing domain %q", d))
		}
		for _, trait := range NumericTraits[d] {
			v, ok := dg.Traits[trait]
			if !ok {
				return simerr.New(simerr.InvalidGenome, fmt.Sprintf("domain %q missing trait %q", d, trait))
			}
			if v < 0 || v > 1 {
				return simerr.New(simerr.InvalidGenome, fmt.Sprintf("domain %q trait %q = %f out of [0,1]", d, trait, v))
			}
		}
	}
	return nil
}

// clone performs a deep copy so mutation never aliases the original's maps
// or slices, mirroring the deep-copy-then-mutate pattern used throughout
// the evolution engine.
func (g Genome) clone() Genome {
	domains := make(map[Domain]DomainGenes, len(g.DomainGenes))
	for d, dg := range g.DomainGenes {
		domains[d] = dg.clone()
	}
	var parentIDs []string
	if g.ParentIDs != nil {
		parentIDs = make([]string, len(g.ParentIDs))
		copy(parentIDs, g.ParentIDs)
	}
	log := make([]MutationRecord, len(g.MutationLog))
	copy(log, g.MutationLog)
	return Genome{
		AgentID:     g.AgentID,
		Generation:  g.Generation,
		ParentIDs:   parentIDs,
		BirthToken:  g.BirthToken,
		DomainGenes: domains,
		Fitness:     g.Fitness,
		MutationLog: log,
	}
}

// RandomGenome returns a generation-0 genome with every numeric trait
// drawn uniformly from [0,1] and aesthetic_bias uniform over its 8
// variants. Fitness starts at 0.5 on all keys.
func RandomGenome(rng *rand.Rand, agentID string) Genome {
	domains := make(map[Domain]DomainGenes, len(Domains))
	for _, d := range Domains {
		dg := newDomainGenes(d)
		for _, trait := range NumericTraits[d] {
			dg.Traits[trait] = rng.Float64()
		}
		if d == Odyssey {
			dg.Categorical[aestheticBiasTrait] = AestheticBiasVariants[rng.Intn(len(AestheticBiasVariants))]
		}
		domains[d] = dg
	}
	return Genome{
		AgentID:     agentID,
		Generation:  0,
		ParentIDs:   nil,
		BirthToken:  uuid.NewString(),
		DomainGenes: domains,
		Fitness:     defaultFitness(),
		MutationLog: nil,
	}
}
