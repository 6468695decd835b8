package population

import (
	"strings"
	"testing"

	"github.com/lore-na/genesis-core/dna"
)

func TestFormatGenerationReportContainsDomainsAndFitness(t *testing.T) {
	report := FormatGenerationReport(GenerationStats{
		Generation: 3,
		Fitness:    FitnessStats{Mean: 0.6, Median: 0.6, Stdev: 0.1, Min: 0.4, Max: 0.8},
		DiversityPerDomain: map[dna.Domain]float64{
			dna.Limbo: 0.1, dna.Odyssey: 0.1, dna.Ritual: 0.1, dna.Engine: 0.1, dna.Logs: 0.1,
		},
		TraitDistribution: emptyTraitDistribution(),
		ReproductionPotential: ReproductionPotential{
			Count: 2, Ratio: 0.5, MeanGeneration: 3, MaxGeneration: 3,
		},
	})

	if !strings.Contains(report, "Generation 3") {
		t.Errorf("report missing generation header:\n%s", report)
	}
	if !strings.Contains(report, string(dna.Limbo)) {
		t.Errorf("report missing domain name:\n%s", report)
	}
}

func emptyTraitDistribution() map[dna.Domain]map[string]TraitStat {
	out := make(map[dna.Domain]map[string]TraitStat, len(dna.Domains))
	for _, d := range dna.Domains {
		out[d] = make(map[string]TraitStat, len(dna.NumericTraits[d]))
		for _, trait := range dna.NumericTraits[d] {
			out[d][trait] = TraitStat{Mean: 0.5, Stdev: 0.1, Min: 0.3, Max: 0.7}
		}
	}
	return out
}
