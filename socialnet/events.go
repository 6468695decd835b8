package socialnet

import (
	"math/rand"
	"sort"

	"github.com/lore-na/genesis-core/agent"
	"github.com/lore-na/genesis-core/dna"
	"github.com/lore-na/genesis-core/socialgraph"
)

// EventKind is one of the seven closed stochastic event variants.
type EventKind string

const (
	TrendEmergence       EventKind = "trend_emergence"
	CommunityGathering   EventKind = "community_gathering"
	InfluenceCampaign    EventKind = "influence_campaign"
	CompetitiveChallenge EventKind = "competitive_challenge"
	CollaborativeProject EventKind = "collaborative_project"
	SocialCrisis         EventKind = "social_crisis"
	InnovationWave       EventKind = "innovation_wave"
)

var eventKinds = []EventKind{
	TrendEmergence, CommunityGathering, InfluenceCampaign, CompetitiveChallenge,
	CollaborativeProject, SocialCrisis, InnovationWave,
}

// SocialEvent is one append-only record in the event log.
type SocialEvent struct {
	EventID      string
	Kind         EventKind
	Timestamp    int64
	Participants []string
	ImpactRadius int
	Intensity    float64
	Effects      map[string]any
	Description  string
}

func trait(a *agent.Agent, d dna.Domain, name string) float64 {
	return a.WorkingTrait(d, name)
}

// candidateParticipants returns every cohort member satisfying a kind's
// predicate, sorted for deterministic sampling.
func candidateParticipants(kind EventKind, agents map[string]*agent.Agent) []string {
	var out []string
	for id, a := range agents {
		ok := false
		switch kind {
		case TrendEmergence:
			ok = trait(a, dna.Ritual, "leadership_tendency") > 0.6 || trait(a, dna.Odyssey, "creativity_drive") > 0.7
		case CommunityGathering:
			ok = trait(a, dna.Ritual, "community_bonding") > 0.5
		case InfluenceCampaign:
			ok = trait(a, dna.Ritual, "leadership_tendency") > 0.6
		case CompetitiveChallenge:
			ok = trait(a, dna.Limbo, "risk_tolerance") > 0.6
		case CollaborativeProject:
			ok = trait(a, dna.Ritual, "community_bonding") > 0.6
		case SocialCrisis:
			ok = trait(a, dna.Ritual, "influence_susceptibility") > 0.6
		case InnovationWave:
			ok = trait(a, dna.Odyssey, "creativity_drive") > 0.6 && trait(a, dna.Odyssey, "experimentation") > 0.6
		}
		if ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func sampleUpTo(rng *rand.Rand, ids []string, n int) []string {
	if len(ids) <= n {
		out := append([]string(nil), ids...)
		return out
	}
	shuffled := append([]string(nil), ids...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	out := append([]string(nil), shuffled[:n]...)
	sort.Strings(out)
	return out
}

func sampleSizeFor(kind EventKind) int {
	switch kind {
	case TrendEmergence, CompetitiveChallenge:
		return 2
	case CommunityGathering:
		return 5
	default:
		return 3
	}
}

func intensityOf(participants []string, web *socialgraph.Web) float64 {
	if len(participants) == 0 {
		return 0
	}
	var sum float64
	for _, id := range participants {
		m, _ := web.MetricsOf(id)
		sum += m.InfluenceScore
	}
	avg := sum / float64(len(participants))
	if avg > 1 {
		return 1
	}
	return avg
}

// universeBoost is the transient global effect some events apply: a bonus
// added to discovery probability for a bounded number of remaining rounds.
type universeBoost struct {
	magnitude float64
	remaining int
}

// applyEffects mutates per-agent performance bonuses, edge strengths, or
// schedules a bounded-duration universe boost, depending on kind. Returns a
// description of what was applied for the event's description field.
func applyEffects(kind EventKind, participants []string, intensity float64, agents map[string]*agent.Agent, web *socialgraph.Web, rng *rand.Rand) (map[string]any, *universeBoost, string) {
	effects := map[string]any{}
	switch kind {
	case TrendEmergence:
		bumpPerformance(agents, participants, dna.Odyssey, "popularity_score", 0.1*intensity)
		effects["performance_bonus"] = "odyssey.popularity_score"
		return effects, nil, "a trend emerges among influential and creative agents"

	case CommunityGathering:
		strengthenIntraEdges(web, participants, 0.05*intensity)
		effects["edge_strength_bonus"] = 0.05 * intensity
		return effects, nil, "community members gather and deepen their ties"

	case InfluenceCampaign:
		strengthenOutgoingInfluenceEdges(web, participants, 0.05*intensity)
		boost := &universeBoost{magnitude: 0.05 * intensity, remaining: 2 + rng.Intn(4)}
		effects["universe_boost_rounds"] = boost.remaining
		return effects, boost, "an influence campaign ripples across the network"

	case CompetitiveChallenge:
		bumpPerformance(agents, participants, dna.Limbo, "decision_accuracy", 0.08*intensity)
		effects["performance_bonus"] = "limbo.decision_accuracy"
		return effects, nil, "a competitive challenge tests risk-takers"

	case CollaborativeProject:
		bumpPerformance(agents, participants, dna.Ritual, "community_engagement", 0.08*intensity)
		strengthenIntraEdges(web, participants, 0.03*intensity)
		effects["performance_bonus"] = "ritual.community_engagement"
		return effects, nil, "a collaborative project binds the community closer"

	case SocialCrisis:
		bumpPerformance(agents, participants, dna.Ritual, "subscription_satisfaction", -0.1*intensity)
		weakenIntraEdges(web, participants, 0.05*intensity)
		effects["performance_penalty"] = "ritual.subscription_satisfaction"
		return effects, nil, "a social crisis strains susceptible agents"

	case InnovationWave:
		boost := &universeBoost{magnitude: 0.04 * intensity, remaining: 2 + rng.Intn(4)}
		bumpPerformance(agents, participants, dna.Odyssey, "innovation_score", 0.1*intensity)
		effects["universe_boost_rounds"] = boost.remaining
		return effects, boost, "an innovation wave sweeps the most experimental agents"

	default:
		return effects, nil, ""
	}
}

func bumpPerformance(agents map[string]*agent.Agent, participants []string, d dna.Domain, key string, delta float64) {
	for _, id := range participants {
		a, ok := agents[id]
		if !ok {
			continue
		}
		if a.Performance[d] == nil {
			a.Performance[d] = map[string]float64{}
		}
		v := a.Performance[d][key]
		next := v + delta
		if next < 0 {
			next = 0
		}
		if next > 1 {
			next = 1
		}
		a.Performance[d][key] = next
	}
}

func strengthenIntraEdges(web *socialgraph.Web, participants []string, delta float64) {
	adjustIntraEdges(web, participants, "positive_feedback", delta)
}

func weakenIntraEdges(web *socialgraph.Web, participants []string, delta float64) {
	adjustIntraEdges(web, participants, "negative_feedback", -delta)
}

func adjustIntraEdges(web *socialgraph.Web, participants []string, kind string, _ float64) {
	for _, a := range participants {
		for _, b := range participants {
			if a == b {
				continue
			}
			if web.Connection(a, b) != nil {
				web.Interact(a, b, kind, map[string]any{})
			}
		}
	}
}

func strengthenOutgoingInfluenceEdges(web *socialgraph.Web, participants []string, _ float64) {
	for _, id := range participants {
		for _, edge := range web.ConnectionsOf(id) {
			if edge.Type == socialgraph.Influencer || edge.Type == socialgraph.Mentor {
				web.Interact(id, edge.Target, "positive_feedback", map[string]any{})
			}
		}
	}
}
