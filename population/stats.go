package population

import (
	"math"
	"sort"

	"github.com/lore-na/genesis-core/dna"
)

// FitnessStats summarises the cohort's overall fitness distribution.
type FitnessStats struct {
	Mean, Median, Stdev, Min, Max float64
}

// TraitStat summarises one numeric trait's distribution across the cohort.
type TraitStat struct {
	Mean, Stdev, Min, Max float64
}

// ReproductionPotential reports how much of the cohort clears the
// advisory reproduction gate.
type ReproductionPotential struct {
	Count          int
	Ratio          float64
	MeanGeneration float64
	MaxGeneration  int
}

// GenerationStats is the full per-generation snapshot persisted at every
// generation boundary.
type GenerationStats struct {
	Generation            int
	Fitness               FitnessStats
	DiversityPerDomain    map[dna.Domain]float64
	TraitDistribution     map[dna.Domain]map[string]TraitStat
	ReproductionPotential ReproductionPotential
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stdev(xs []float64, m float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sumSq float64
	for _, x := range xs {
		d := x - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)))
}

func minMax(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// ComputeGenerationStats derives the fixed statistics set from a cohort's
// current genomes, as required at every generation boundary.
func ComputeGenerationStats(generation int, cohort []dna.Genome, reproductionThreshold float64) GenerationStats {
	overalls := make([]float64, len(cohort))
	for i, g := range cohort {
		overalls[i] = g.Fitness.Overall
	}
	m := mean(overalls)
	lo, hi := minMax(overalls)
	fitness := FitnessStats{Mean: m, Median: median(overalls), Stdev: stdev(overalls, m), Min: lo, Max: hi}

	diversity := make(map[dna.Domain]float64, len(dna.Domains))
	traitDist := make(map[dna.Domain]map[string]TraitStat, len(dna.Domains))
	for _, d := range dna.Domains {
		traitDist[d] = make(map[string]TraitStat, len(dna.NumericTraits[d]))
		var domainStdevs []float64
		for _, trait := range dna.NumericTraits[d] {
			values := make([]float64, len(cohort))
			for i, g := range cohort {
				values[i], _ = g.Trait(d, trait)
			}
			tm := mean(values)
			ts := stdev(values, tm)
			tlo, thi := minMax(values)
			traitDist[d][trait] = TraitStat{Mean: tm, Stdev: ts, Min: tlo, Max: thi}
			domainStdevs = append(domainStdevs, ts)
		}
		diversity[d] = mean(domainStdevs)
	}

	var qualifying int
	var generations []float64
	maxGen := 0
	for _, g := range cohort {
		if g.Fitness.Overall >= reproductionThreshold {
			qualifying++
		}
		generations = append(generations, float64(g.Generation))
		if g.Generation > maxGen {
			maxGen = g.Generation
		}
	}
	ratio := 0.0
	if len(cohort) > 0 {
		ratio = float64(qualifying) / float64(len(cohort))
	}

	return GenerationStats{
		Generation:         generation,
		Fitness:            fitness,
		DiversityPerDomain: diversity,
		TraitDistribution:  traitDist,
		ReproductionPotential: ReproductionPotential{
			Count:          qualifying,
			Ratio:          ratio,
			MeanGeneration: mean(generations),
			MaxGeneration:  maxGen,
		},
	}
}
