package agent

import (
	"math/rand"
	"sort"

	"github.com/lore-na/genesis-core/dna"
	"github.com/lore-na/genesis-core/socialgraph"
)

// Candidate is one scored discovery result.
type Candidate struct {
	OtherID       string
	InterestScore float64
}

const discoveryThreshold = 0.3

// goalComplementarity scores how much of the other agent's goal set is
// NOT already shared with self — agents round out each other's social
// goals rather than duplicating them.
func goalComplementarity(self, other *Agent) float64 {
	if len(other.Goals) == 0 {
		return 0
	}
	shared := 0
	for _, og := range other.Goals {
		if self.HasGoal(og) {
			shared++
		}
	}
	return 1 - float64(shared)/float64(len(other.Goals))
}

func personalityAffinity(self, other *Agent) float64 {
	if self.Archetype == other.Archetype {
		return 1.0
	}
	return 0.5
}

// DiscoverCandidates scores every other known agent by interest, skipping
// self and already-connected peers, and returns up to the top 5 whose
// score clears the discovery threshold (0.3), ranked descending.
func DiscoverCandidates(rng *rand.Rand, selfID string, cohort map[string]*Agent, web *socialgraph.Web) []Candidate {
	self := cohort[selfID]
	if self == nil {
		return nil
	}

	ids := make([]string, 0, len(cohort))
	for id := range cohort {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var scored []Candidate
	for _, otherID := range ids {
		if otherID == selfID {
			continue
		}
		if web.Connection(selfID, otherID) != nil {
			continue
		}
		other := cohort[otherID]
		compat := socialgraph.Compatibility(self.Genome, other.Genome)
		complement := goalComplementarity(self, other)
		fitnessSim := 1 - abs(self.Genome.Fitness.Overall-other.Genome.Fitness.Overall)
		affinity := personalityAffinity(self, other)
		experimentation := self.WorkingTrait(dna.Odyssey, "experimentation")
		noise := (rng.Float64()*2 - 1) * experimentation * 0.2

		score := 0.25*compat + 0.25*complement + 0.25*fitnessSim + 0.25*affinity + noise
		if score > discoveryThreshold {
			scored = append(scored, Candidate{OtherID: otherID, InterestScore: score})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].InterestScore != scored[j].InterestScore {
			return scored[i].InterestScore > scored[j].InterestScore
		}
		return scored[i].OtherID < scored[j].OtherID
	})
	if len(scored) > 5 {
		scored = scored[:5]
	}
	return scored
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// InitiateConnection creates an edge from selfID to targetID via the
// Neural Web and records the attempt in self's social memory. A
// DuplicateConnection or SelfConnection error from the web is treated as a
// recoverable no-op, per the error handling design: the memory entry is
// still appended so the agent remembers having tried.
func InitiateConnection(rng *rand.Rand, round int, selfID, targetID string, cohort map[string]*Agent, web *socialgraph.Web) error {
	self, target := cohort[selfID], cohort[targetID]
	if self == nil || target == nil {
		return nil
	}
	_, err := web.CreateConnection(rng, selfID, targetID, self.Genome, target.Genome, nil)
	self.Memory.Append(MemoryEntry{Round: round, Kind: "initiate_connection", PeerID: targetID})
	return err
}

// MaintainRelationships independently considers every outgoing edge of
// selfID. For each, with probability 0.5*edge.strength +
// 0.3*ritual.community_bonding, it performs an interaction of a kind
// drawn uniformly from the edge type's allowed set. The interaction's
// success probability is 0.7 modulated by compatibility within ±0.4; the
// outcome is recorded in social memory regardless, and the interaction
// kind is always applied to the edge (the kind-dependent delta table is
// the sole driver of strength change, per the Neural Web's interact
// contract).
func MaintainRelationships(rng *rand.Rand, round int, selfID string, cohort map[string]*Agent, web *socialgraph.Web) {
	self := cohort[selfID]
	if self == nil {
		return
	}
	communityBonding := self.WorkingTrait(dna.Ritual, "community_bonding")

	for _, edge := range web.ConnectionsOf(selfID) {
		prob := 0.5*edge.Strength + 0.3*communityBonding
		if rng.Float64() >= prob {
			continue
		}
		kinds := socialgraph.AllowedKinds(edge.Type)
		if len(kinds) == 0 {
			continue
		}
		kind := kinds[rng.Intn(len(kinds))]

		target := cohort[edge.Target]
		successProb := 0.7
		if target != nil {
			compat := socialgraph.Compatibility(self.Genome, target.Genome)
			successProb = clampUnit(0.7 + (compat-0.5)*0.8)
		}
		success := rng.Float64() < successProb

		web.Interact(selfID, edge.Target, kind, map[string]any{"success": success})
		self.Memory.Append(MemoryEntry{Round: round, Kind: kind, PeerID: edge.Target, Detail: outcomeLabel(success)})
	}
}

func outcomeLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// InfluenceNetwork executes only for agents whose working leadership_
// tendency exceeds 0.5. For each outgoing follower or friend edge, with
// probability 0.3*leadership_tendency, it attempts to influence the
// target: success iff leadership*edge.strength > target.influence_
// susceptibility * U[0.8,1.2], in which case the target's working
// loyalty_factor increases by 0.05 (clamped). This mutates only the
// working copy of genes used for behaviour; the immutable Genome fitness
// reads are untouched.
func InfluenceNetwork(rng *rand.Rand, round int, selfID string, cohort map[string]*Agent, web *socialgraph.Web) {
	self := cohort[selfID]
	if self == nil {
		return
	}
	leadership := self.WorkingTrait(dna.Ritual, "leadership_tendency")
	if leadership <= 0.5 {
		return
	}

	for _, edge := range web.ConnectionsOf(selfID) {
		if edge.Type != socialgraph.Follower && edge.Type != socialgraph.Friend {
			continue
		}
		if rng.Float64() >= 0.3*leadership {
			continue
		}
		target := cohort[edge.Target]
		if target == nil {
			continue
		}
		susceptibility := target.WorkingTrait(dna.Ritual, "influence_susceptibility")
		jitter := 0.8 + rng.Float64()*0.4 // U[0.8, 1.2]
		if leadership*edge.Strength > susceptibility*jitter {
			current := target.WorkingTrait(dna.Ritual, "loyalty_factor")
			target.setWorkingTrait(dna.Ritual, "loyalty_factor", current+0.05)
			self.InfluencesGiven++
			target.InfluencesReceived++
			self.Memory.Append(MemoryEntry{Round: round, Kind: "influence_success", PeerID: edge.Target})
		} else {
			self.Memory.Append(MemoryEntry{Round: round, Kind: "influence_failure", PeerID: edge.Target})
		}
	}
}
