// Package agent implements the Social Agent: the wrapper around a genome,
// identity and per-agent social memory that performs per-round actions
// against the Neural Web (component D of the core).
package agent

import "github.com/lore-na/genesis-core/dna"

// Goal names one of the six social goals derived once at creation.
type Goal string

const (
	BecomeLeader         Goal = "become_leader"
	BuildCommunity       Goal = "build_community"
	MaintainIndependence Goal = "maintain_independence"
	FormStrongBonds      Goal = "form_strong_bonds"
	InspireCreativity    Goal = "inspire_creativity"
	InfluenceRiskTaking  Goal = "influence_risk_taking"
)

// DeriveGoals computes the fixed set of social goals implied by a genome's
// genes. Order matches the spec's declared order.
func DeriveGoals(g dna.Genome) []Goal {
	var goals []Goal
	trait := func(d dna.Domain, name string) float64 {
		v, _ := g.Trait(d, name)
		return v
	}
	if trait(dna.Ritual, "leadership_tendency") > 0.7 {
		goals = append(goals, BecomeLeader)
	}
	if trait(dna.Ritual, "community_bonding") > 0.7 {
		goals = append(goals, BuildCommunity)
	}
	if trait(dna.Ritual, "influence_susceptibility") < 0.3 {
		goals = append(goals, MaintainIndependence)
	}
	if trait(dna.Ritual, "loyalty_factor") > 0.8 {
		goals = append(goals, FormStrongBonds)
	}
	if trait(dna.Odyssey, "creativity_drive") > 0.7 {
		goals = append(goals, InspireCreativity)
	}
	if trait(dna.Limbo, "risk_tolerance") > 0.7 {
		goals = append(goals, InfluenceRiskTaking)
	}
	return goals
}

// Archetype is one of the seven closed personality variants.
type Archetype string

const (
	BraveSpeculator   Archetype = "Brave Speculator"
	BargainHunter     Archetype = "Bargain Hunter"
	InnovativeArtist  Archetype = "Innovative Artist"
	CommunityLeader   Archetype = "Community Leader"
	LoyalFollower     Archetype = "Loyal Follower"
	MethodicalAnalyst Archetype = "Methodical Analyst"
	SocialAdventurer  Archetype = "Social Adventurer"
)

// archetypeOrder fixes the declared order used to break scoring ties.
var archetypeOrder = []Archetype{
	BraveSpeculator, BargainHunter, InnovativeArtist, CommunityLeader,
	LoyalFollower, MethodicalAnalyst, SocialAdventurer,
}

func archetypeScore(a Archetype, g dna.Genome) float64 {
	trait := func(d dna.Domain, name string) float64 {
		v, _ := g.Trait(d, name)
		return v
	}
	switch a {
	case BraveSpeculator:
		return 0.6*trait(dna.Limbo, "risk_tolerance") + 0.4*trait(dna.Limbo, "novelty_seeking")
	case BargainHunter:
		return 0.7*trait(dna.Limbo, "price_sensitivity") + 0.3*(1-trait(dna.Limbo, "brand_loyalty"))
	case InnovativeArtist:
		return 0.5*trait(dna.Odyssey, "creativity_drive") + 0.3*trait(dna.Odyssey, "experimentation") + 0.2*trait(dna.Odyssey, "innovation_appetite")
	case CommunityLeader:
		return 0.6*trait(dna.Ritual, "leadership_tendency") + 0.4*trait(dna.Ritual, "community_bonding")
	case LoyalFollower:
		return 0.5*trait(dna.Ritual, "loyalty_factor") + 0.3*trait(dna.Ritual, "social_conformity") + 0.2*trait(dna.Ritual, "influence_susceptibility")
	case MethodicalAnalyst:
		return 0.4*trait(dna.Engine, "analytical_thinking") + 0.3*trait(dna.Engine, "pattern_recognition") + 0.3*trait(dna.Engine, "decision_confidence")
	case SocialAdventurer:
		return 0.3*trait(dna.Odyssey, "experimentation") + 0.3*trait(dna.Limbo, "novelty_seeking") + 0.2*trait(dna.Odyssey, "customization_desire") + 0.2*trait(dna.Ritual, "community_bonding")
	default:
		return 0
	}
}

// DerivePersonality scores the seven archetypes from weighted gene
// combinations and returns the argmax, ties broken in declared order.
func DerivePersonality(g dna.Genome) Archetype {
	best := archetypeOrder[0]
	bestScore := archetypeScore(best, g)
	for _, a := range archetypeOrder[1:] {
		score := archetypeScore(a, g)
		if score > bestScore {
			bestScore = score
			best = a
		}
	}
	return best
}

// MemoryEntry is one append-only record of a social memory event.
type MemoryEntry struct {
	Round  int
	Kind   string
	PeerID string
	Detail string
}

// Memory is a fixed-capacity, append-only ring buffer: the oldest entry is
// overwritten once capacity is reached, matching the spec's "trimmed to
// most recent K" requirement.
type Memory struct {
	entries []MemoryEntry
	cap     int
	next    int
	full    bool
}

// NewMemory returns a Memory bounded to capacity entries.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = 1
	}
	return &Memory{entries: make([]MemoryEntry, capacity), cap: capacity}
}

// Append records an entry, overwriting the oldest once the buffer is full.
func (m *Memory) Append(e MemoryEntry) {
	m.entries[m.next] = e
	m.next = (m.next + 1) % m.cap
	if m.next == 0 {
		m.full = true
	}
}

// Recent returns entries oldest-to-newest.
func (m *Memory) Recent() []MemoryEntry {
	if !m.full {
		out := make([]MemoryEntry, m.next)
		copy(out, m.entries[:m.next])
		return out
	}
	out := make([]MemoryEntry, m.cap)
	copy(out, m.entries[m.next:])
	copy(out[m.cap-m.next:], m.entries[:m.next])
	return out
}

// Agent wraps a genome, its derived social goals and personality, and the
// per-agent behavioural state the round phases mutate: performance
// counters, a bounded social memory, influence bookkeeping, and a working
// copy of genes that social drift may change without touching the
// immutable Genome fitness evaluation reads.
type Agent struct {
	Genome             dna.Genome
	Working            map[dna.Domain]dna.DomainGenes
	Goals              []Goal
	Archetype          Archetype
	Memory             *Memory
	Performance        map[dna.Domain]map[string]float64
	InfluencesGiven    int
	InfluencesReceived int
}

// New builds a Social Agent from a genome, deriving its goals and
// personality once and seeding a working copy of its genes for behavioural
// drift.
func New(g dna.Genome, memoryCapacity int) *Agent {
	working := make(map[dna.Domain]dna.DomainGenes, len(dna.Domains))
	for d, dg := range g.DomainGenes {
		traits := make(map[string]float64, len(dg.Traits))
		for k, v := range dg.Traits {
			traits[k] = v
		}
		wdg := dna.DomainGenes{Traits: traits}
		if dg.Categorical != nil {
			cat := make(map[string]string, len(dg.Categorical))
			for k, v := range dg.Categorical {
				cat[k] = v
			}
			wdg.Categorical = cat
		}
		working[d] = wdg
	}
	return &Agent{
		Genome:      g,
		Working:     working,
		Goals:       DeriveGoals(g),
		Archetype:   DerivePersonality(g),
		Memory:      NewMemory(memoryCapacity),
		Performance: make(map[dna.Domain]map[string]float64, len(dna.Domains)),
	}
}

// WorkingTrait reads a numeric trait from the agent's working copy, which
// may have drifted from the immutable Genome via social influence.
func (a *Agent) WorkingTrait(d dna.Domain, trait string) float64 {
	dg, ok := a.Working[d]
	if !ok {
		return 0
	}
	return dg.Traits[trait]
}

func (a *Agent) setWorkingTrait(d dna.Domain, trait string, v float64) {
	dg := a.Working[d]
	if dg.Traits == nil {
		dg.Traits = map[string]float64{}
	}
	dg.Traits[trait] = clampUnit(v)
	a.Working[d] = dg
}

// HasGoal reports whether the agent's derived social goals include g.
func (a *Agent) HasGoal(g Goal) bool {
	for _, have := range a.Goals {
		if have == g {
			return true
		}
	}
	return false
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
