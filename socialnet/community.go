package socialnet

import (
	"fmt"
	"sort"

	"github.com/lore-na/genesis-core/agent"
	"github.com/lore-na/genesis-core/dna"
	"github.com/lore-na/genesis-core/socialgraph"
)

// Community is the derived (not ground-truth) record the spec names:
// membership, elected leader, cohesion, activity and the values/goals its
// members hold in common.
type Community struct {
	ID              string
	Members         []string
	Leader          string
	Cohesion        float64
	ActivityLevel   float64
	FormationTime   int64
	SharedValues    map[string]float64
	CollectiveGoals []string
}

func membersKey(members []string) string {
	sorted := append([]string(nil), members...)
	sort.Strings(sorted)
	return fmt.Sprintf("%v", sorted)
}

// electLeader ranks members by 0.6*leadership_tendency + 0.4*influence_score,
// ties broken by agent_id lex order.
func electLeader(members []string, agents map[string]*agent.Agent, web *socialgraph.Web) string {
	best := ""
	bestScore := -1.0
	sorted := append([]string(nil), members...)
	sort.Strings(sorted)
	for _, id := range sorted {
		a, ok := agents[id]
		if !ok {
			continue
		}
		leadership := a.WorkingTrait(dna.Ritual, "leadership_tendency")
		metrics, _ := web.MetricsOf(id)
		score := 0.6*leadership + 0.4*metrics.InfluenceScore
		if score > bestScore {
			bestScore = score
			best = id
		}
	}
	return best
}

// sharedValues is the element-wise mean of member genomes over every
// numeric gene, flattened to "{domain}_{trait}" keys.
func sharedValues(members []string, agents map[string]*agent.Agent) map[string]float64 {
	sums := map[string]float64{}
	count := 0
	for _, id := range members {
		a, ok := agents[id]
		if !ok {
			continue
		}
		count++
		for _, d := range dna.Domains {
			dg := a.Genome.DomainGenes[d]
			for trait, v := range dg.Traits {
				sums[fmt.Sprintf("%s_%s", d, trait)] += v
			}
		}
	}
	if count == 0 {
		return sums
	}
	for k := range sums {
		sums[k] /= float64(count)
	}
	return sums
}

// collectiveGoals is the set of individual goals shared by more than half
// of the members, plus goals derived from threshold crossings on the
// community's shared values.
func collectiveGoals(members []string, agents map[string]*agent.Agent, values map[string]float64) []string {
	counts := map[agent.Goal]int{}
	for _, id := range members {
		a, ok := agents[id]
		if !ok {
			continue
		}
		for _, g := range a.Goals {
			counts[g]++
		}
	}
	var goals []string
	threshold := float64(len(members)) / 2
	for _, g := range []agent.Goal{
		agent.BecomeLeader, agent.BuildCommunity, agent.MaintainIndependence,
		agent.FormStrongBonds, agent.InspireCreativity, agent.InfluenceRiskTaking,
	} {
		if float64(counts[g]) > threshold {
			goals = append(goals, string(g))
		}
	}
	if values["ritual_community_bonding"] > 0.7 {
		goals = append(goals, "strengthen_community_bonds")
	}
	if values["odyssey_creativity_drive"] > 0.7 {
		goals = append(goals, "foster_collective_creativity")
	}
	if values["limbo_risk_tolerance"] > 0.7 {
		goals = append(goals, "pursue_bold_ventures")
	}
	return goals
}

// cohesion is 0.6*density + 0.4*mean_edge_strength over directed intra-
// community edges; density counts existing directed edges against every
// possible ordered pair m*(m-1). Singletons are defined to have cohesion
// 1.0 (no possible edges to be missing).
func cohesion(members []string, web *socialgraph.Web) float64 {
	m := len(members)
	if m <= 1 {
		return 1.0
	}
	var intraEdges int
	var strengthSum float64
	for _, a := range members {
		for _, b := range members {
			if a == b {
				continue
			}
			if c := web.Connection(a, b); c != nil {
				intraEdges++
				strengthSum += c.Strength
			}
		}
	}
	possible := float64(m * (m - 1))
	density := float64(intraEdges) / possible
	meanStrength := 0.0
	if intraEdges > 0 {
		meanStrength = strengthSum / float64(intraEdges)
	}
	return 0.6*density + 0.4*meanStrength
}

// activityLevel sums interaction_count over intra-edges whose
// last_interaction happened within the recent window (the web's logical
// clock has no wall-clock unit, so "within 7 days" is read as "within the
// last recentWindowTicks ticks" of that same clock), normalised by 10*m
// and clamped to 1.0.
func activityLevel(members []string, web *socialgraph.Web, nowTick int64) float64 {
	m := len(members)
	if m == 0 {
		return 0
	}
	var sum float64
	for _, a := range members {
		for _, b := range members {
			if a == b {
				continue
			}
			c := web.Connection(a, b)
			if c == nil {
				continue
			}
			if nowTick-c.LastInteraction <= recentWindowTicks {
				sum += float64(c.InteractionCount)
			}
		}
	}
	level := sum / float64(10*m)
	if level > 1 {
		return 1
	}
	return level
}
