package agent

import (
	"math/rand"
	"testing"

	"github.com/lore-na/genesis-core/dna"
	"github.com/lore-na/genesis-core/socialgraph"
)

func genomeWith(id string, overrides map[dna.Domain]map[string]float64) dna.Genome {
	domains := make(map[dna.Domain]dna.DomainGenes, len(dna.Domains))
	for _, d := range dna.Domains {
		traits := make(map[string]float64, len(dna.NumericTraits[d]))
		for _, tr := range dna.NumericTraits[d] {
			traits[tr] = 0.5
		}
		dg := dna.DomainGenes{Traits: traits}
		if d == dna.Odyssey {
			dg.Categorical = map[string]string{"aesthetic_bias": "minimalist"}
		}
		domains[d] = dg
	}
	for d, traits := range overrides {
		for k, v := range traits {
			domains[d].Traits[k] = v
		}
	}
	return dna.Genome{AgentID: id, DomainGenes: domains, Fitness: dna.FitnessVector{Overall: 0.5}}
}

func TestDeriveGoalsThresholds(t *testing.T) {
	g := genomeWith("a", map[dna.Domain]map[string]float64{
		dna.Ritual: {"leadership_tendency": 0.8, "community_bonding": 0.2, "influence_susceptibility": 0.9, "loyalty_factor": 0.2},
	})
	goals := DeriveGoals(g)
	found := map[Goal]bool{}
	for _, gl := range goals {
		found[gl] = true
	}
	if !found[BecomeLeader] {
		t.Errorf("expected become_leader goal")
	}
	if found[BuildCommunity] || found[MaintainIndependence] || found[FormStrongBonds] {
		t.Errorf("did not expect build_community/maintain_independence/form_strong_bonds: %v", goals)
	}
}

func TestDerivePersonalityArgmax(t *testing.T) {
	g := genomeWith("a", map[dna.Domain]map[string]float64{
		dna.Ritual: {"leadership_tendency": 0.95, "community_bonding": 0.95},
	})
	if got := DerivePersonality(g); got != CommunityLeader {
		t.Errorf("DerivePersonality = %s, want %s", got, CommunityLeader)
	}
}

func TestMemoryRingBufferTrimsToCapacity(t *testing.T) {
	m := NewMemory(3)
	for i := 0; i < 5; i++ {
		m.Append(MemoryEntry{Round: i, Kind: "x"})
	}
	recent := m.Recent()
	if len(recent) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(recent))
	}
	if recent[0].Round != 2 || recent[2].Round != 4 {
		t.Errorf("unexpected ring buffer contents: %+v", recent)
	}
}

func TestDiscoverCandidatesSkipsSelfAndConnected(t *testing.T) {
	web := socialgraph.New()
	cohort := map[string]*Agent{
		"A": New(genomeWith("A", nil), 10),
		"B": New(genomeWith("B", nil), 10),
		"C": New(genomeWith("C", nil), 10),
	}
	rng := rand.New(rand.NewSource(1))
	friend := socialgraph.Friend
	web.CreateConnection(rng, "A", "B", cohort["A"].Genome, cohort["B"].Genome, &friend)

	candidates := DiscoverCandidates(rng, "A", cohort, web)
	for _, c := range candidates {
		if c.OtherID == "A" {
			t.Errorf("must not include self")
		}
		if c.OtherID == "B" {
			t.Errorf("must skip already-connected peer")
		}
	}
}

func TestMaintainRelationshipsAppliesDeltaWithinRange(t *testing.T) {
	web := socialgraph.New()
	cohort := map[string]*Agent{
		"A": New(genomeWith("A", map[dna.Domain]map[string]float64{dna.Ritual: {"community_bonding": 1.0}}), 10),
		"B": New(genomeWith("B", nil), 10),
	}
	rng := rand.New(rand.NewSource(2))
	collaborator := socialgraph.Collaborator
	web.CreateConnection(rng, "A", "B", cohort["A"].Genome, cohort["B"].Genome, &collaborator)
	before := web.Connection("A", "B").Strength

	MaintainRelationships(rng, 0, "A", cohort, web)

	after := web.Connection("A", "B").Strength
	if after < 0 || after > 1 {
		t.Fatalf("strength out of range after maintain: %f", after)
	}
	_ = before
}

func TestInfluenceNetworkRequiresLeadershipAboveHalf(t *testing.T) {
	web := socialgraph.New()
	cohort := map[string]*Agent{
		"A": New(genomeWith("A", map[dna.Domain]map[string]float64{dna.Ritual: {"leadership_tendency": 0.3}}), 10),
		"B": New(genomeWith("B", nil), 10),
	}
	rng := rand.New(rand.NewSource(3))
	follower := socialgraph.Follower
	web.CreateConnection(rng, "A", "B", cohort["A"].Genome, cohort["B"].Genome, &follower)

	before := cohort["B"].WorkingTrait(dna.Ritual, "loyalty_factor")
	InfluenceNetwork(rng, 0, "A", cohort, web)
	after := cohort["B"].WorkingTrait(dna.Ritual, "loyalty_factor")
	if before != after {
		t.Errorf("low-leadership agent must not influence: %f -> %f", before, after)
	}
}
