package population

import (
	"bytes"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/lore-na/genesis-core/dna"
	"github.com/olekukonko/tablewriter"
)

// FormatGenerationReport renders a GenerationStats snapshot as the
// fitness and reproduction-potential summary lines followed by a
// human-readable table: one row per trait with its mean, stdev, min and
// max, grouped by domain, the first row of each domain carrying the
// domain's diversity.
func FormatGenerationReport(stats GenerationStats) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Generation %d\n", stats.Generation)
	fmt.Fprintf(&buf, "  fitness: mean=%.3f median=%.3f stdev=%.3f min=%.3f max=%.3f\n",
		stats.Fitness.Mean, stats.Fitness.Median, stats.Fitness.Stdev, stats.Fitness.Min, stats.Fitness.Max)
	fmt.Fprintf(&buf, "  reproduction potential: %s of cohort (%.1f%%), mean generation %s, max generation %d\n",
		humanize.Comma(int64(stats.ReproductionPotential.Count)),
		stats.ReproductionPotential.Ratio*100,
		humanize.Commaf(stats.ReproductionPotential.MeanGeneration),
		stats.ReproductionPotential.MaxGeneration,
	)

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Domain", "Trait", "Mean", "Stdev", "Min", "Max"})
	for _, d := range dna.Domains {
		traits := dna.NumericTraits[d]
		for i, trait := range traits {
			ts := stats.TraitDistribution[d][trait]
			domainLabel := ""
			if i == 0 {
				domainLabel = fmt.Sprintf("%s (diversity %.3f)", d, stats.DiversityPerDomain[d])
			}
			table.Append([]string{
				domainLabel,
				trait,
				fmt.Sprintf("%.3f", ts.Mean),
				fmt.Sprintf("%.3f", ts.Stdev),
				fmt.Sprintf("%.3f", ts.Min),
				fmt.Sprintf("%.3f", ts.Max),
			})
		}
	}
	table.Render()

	return buf.String()
}
