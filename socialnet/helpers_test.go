package socialnet

import (
	"github.com/lore-na/genesis-core/agent"
	"github.com/lore-na/genesis-core/dna"
	"github.com/lore-na/genesis-core/population"
	"github.com/lore-na/genesis-core/simconfig"
)

func newPopManager(cfg simconfig.Config) *population.Manager {
	return population.NewManager(cfg, dna.NewEngine(cfg), nil)
}

func testAgents(ids ...string) map[string]*agent.Agent {
	out := make(map[string]*agent.Agent, len(ids))
	for _, id := range ids {
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
		g := dna.Genome{AgentID: id, DomainGenes: domains, Fitness: dna.FitnessVector{Overall: 0.5}}
		out[id] = agent.New(g, 10)
	}
	return out
}
