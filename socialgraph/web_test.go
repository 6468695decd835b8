package socialgraph

import (
	"math/rand"
	"testing"

	"github.com/lore-na/genesis-core/dna"
)

func genomeWithTrait(id string, d dna.Domain, trait string, value float64) dna.Genome {
	domains := make(map[dna.Domain]dna.DomainGenes, len(dna.Domains))
	for _, dom := range dna.Domains {
		traits := make(map[string]float64, len(dna.NumericTraits[dom]))
		for _, tr := range dna.NumericTraits[dom] {
			traits[tr] = 0.5
		}
		dg := dna.DomainGenes{Traits: traits}
		if dom == dna.Odyssey {
			dg.Categorical = map[string]string{"aesthetic_bias": "minimalist"}
		}
		domains[dom] = dg
	}
	domains[d].Traits[trait] = value
	return dna.Genome{AgentID: id, DomainGenes: domains, Fitness: dna.FitnessVector{Overall: 0.5}}
}

func TestCompatibilitySymmetric(t *testing.T) {
	a := genomeWithTrait("a", dna.Limbo, "risk_tolerance", 0.9)
	b := genomeWithTrait("b", dna.Limbo, "risk_tolerance", 0.2)
	if Compatibility(a, b) != Compatibility(b, a) {
		t.Fatalf("compatibility must be symmetric")
	}
}

func TestCreateConnectionReciprocalAndRange(t *testing.T) {
	w := New()
	rng := rand.New(rand.NewSource(1))
	a := genomeWithTrait("A", dna.Ritual, "leadership_tendency", 0.5)
	b := genomeWithTrait("B", dna.Ritual, "leadership_tendency", 0.5)
	// Every trait of B sits 0.5 away from A's, so Compatibility(a, b) is 0.5.
	for _, d := range dna.Domains {
		for _, tr := range dna.NumericTraits[d] {
			b.DomainGenes[d].Traits[tr] = 1.0
		}
	}
	friend := Friend

	edge, err := w.CreateConnection(rng, "A", "B", a, b, &friend)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if edge.Strength < 0.25 || edge.Strength > 0.45 {
		t.Errorf("strength %f out of expected [0.25,0.45] for compatibility 0.5 friend edge", edge.Strength)
	}

	rev := w.Connection("B", "A")
	if rev == nil {
		t.Fatalf("expected reciprocal edge B->A")
	}
	if rev.Type != Friend {
		t.Errorf("reciprocal of friend = %s, want friend", rev.Type)
	}
	if rev.Strength != edge.Strength {
		t.Errorf("reciprocal strength %f != forward strength %f", rev.Strength, edge.Strength)
	}
}

func TestSelfConnectionRejected(t *testing.T) {
	w := New()
	rng := rand.New(rand.NewSource(2))
	g := genomeWithTrait("A", dna.Limbo, "risk_tolerance", 0.5)
	_, err := w.CreateConnection(rng, "A", "A", g, g, nil)
	if err == nil {
		t.Fatalf("expected SelfConnection error")
	}
}

func TestDuplicateConnectionIdempotent(t *testing.T) {
	w := New()
	rng := rand.New(rand.NewSource(3))
	a := genomeWithTrait("A", dna.Limbo, "risk_tolerance", 0.5)
	b := genomeWithTrait("B", dna.Limbo, "risk_tolerance", 0.5)
	friend := Friend

	first, _ := w.CreateConnection(rng, "A", "B", a, b, &friend)
	second, err := w.CreateConnection(rng, "A", "B", a, b, &friend)
	if err == nil {
		t.Fatalf("expected DuplicateConnection error on second create")
	}
	if second.Strength != first.Strength {
		t.Errorf("duplicate create must return the existing edge untouched")
	}
}

func TestInteractConflictTwice(t *testing.T) {
	w := New()
	rng := rand.New(rand.NewSource(4))
	a := genomeWithTrait("A", dna.Limbo, "risk_tolerance", 0.5)
	b := genomeWithTrait("B", dna.Limbo, "risk_tolerance", 0.5)
	friend := Friend
	edge, _ := w.CreateConnection(rng, "A", "B", a, b, &friend)
	edge.Strength = 0.5

	w.Interact("A", "B", "conflict", nil)
	got := w.Connection("A", "B").Strength
	if got < 0.419 || got > 0.421 {
		t.Fatalf("after one conflict strength = %f, want ~0.42", got)
	}
	w.Interact("A", "B", "conflict", nil)
	got = w.Connection("A", "B").Strength
	if got < 0.339 || got > 0.341 {
		t.Fatalf("after two conflicts strength = %f, want ~0.34", got)
	}
}

func TestInfluenceReachChain(t *testing.T) {
	w := New()
	w.Register("A")
	w.Register("B")
	w.Register("C")
	w.Register("D")
	w.edges["A"]["B"] = &Connection{Source: "A", Target: "B", Type: Mentor, Strength: 1.0}
	w.edges["B"]["C"] = &Connection{Source: "B", Target: "C", Type: Influencer, Strength: 0.5}
	w.edges["C"]["D"] = &Connection{Source: "C", Target: "D", Type: Mentor, Strength: 0.5}

	reach := w.InfluenceReach("A", 3)
	want := map[string]float64{"A": 1.0, "B": 0.8, "C": 0.32, "D": 0.128}
	for id, wantV := range want {
		got, ok := reach[id]
		if !ok {
			t.Errorf("expected %s in influence reach", id)
			continue
		}
		if diff := got - wantV; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("reach[%s] = %f, want %f", id, got, wantV)
		}
	}
}

func TestDetectCommunitiesTriangleThenDissolve(t *testing.T) {
	w := New()
	w.Register("A")
	w.Register("B")
	w.Register("C")
	addPair := func(x, y string, strength float64) {
		w.edges[x][y] = &Connection{Source: x, Target: y, Type: Friend, Strength: strength}
		w.edges[y][x] = &Connection{Source: y, Target: x, Type: Friend, Strength: strength}
	}
	addPair("A", "B", 0.6)
	addPair("B", "C", 0.6)
	addPair("A", "C", 0.6)

	communities := w.DetectCommunities()
	if len(communities) != 1 {
		t.Fatalf("expected 1 community, got %d", len(communities))
	}
	for _, members := range communities {
		if len(members) != 3 {
			t.Errorf("expected community of 3, got %d", len(members))
		}
	}

	// Weaken both of A's edges; a single weak edge would leave the triangle
	// connected through the other two.
	w.edges["A"]["B"].Strength = 0.2
	w.edges["B"]["A"].Strength = 0.2
	w.edges["A"]["C"].Strength = 0.2
	w.edges["C"]["A"].Strength = 0.2

	communities = w.DetectCommunities()
	sizes := map[int]int{}
	for _, members := range communities {
		sizes[len(members)]++
	}
	if sizes[2] != 1 {
		t.Fatalf("expected one community of size 2 after isolating A, got %v", communities)
	}
}

func TestNoSelfEdges(t *testing.T) {
	w := New()
	rng := rand.New(rand.NewSource(5))
	g := genomeWithTrait("A", dna.Limbo, "risk_tolerance", 0.5)
	if _, err := w.CreateConnection(rng, "A", "A", g, g, nil); err == nil {
		t.Fatalf("self edge must be rejected")
	}
	if w.Connection("A", "A") != nil {
		t.Fatalf("no self edge should be recorded")
	}
}
