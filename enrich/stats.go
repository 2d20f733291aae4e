package enrich

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"
	"gonum.org/v1/gonum/stat/distuv"
)

// Test is a pluggable significance test. PValue returns the upper-tail
// probability of observing at least k annotated genes among n drawn, given K
// annotated genes in a population of N. The result is in [0,1].
type Test interface {
	PValue(k, N, K, n int) float64
}

// Hypergeometric is the exact sampling-without-replacement test
// (one-sided Fisher).
type Hypergeometric struct{}

// PValue returns P[X >= k] for X ~ Hypergeometric(N, K, n).
func (Hypergeometric) PValue(k, population, hits, drawn int) float64 {
	if k <= 0 {
		return 1
	}
	if population <= 0 || drawn > population || hits > population {
		return 1
	}
	upper := hits
	if drawn < upper {
		upper = drawn
	}
	if k > upper {
		return 0
	}
	logTotal := combin.LogGeneralizedBinomial(float64(population), float64(drawn))
	var p float64
	for i := k; i <= upper; i++ {
		if drawn-i > population-hits {
			continue
		}
		lp := combin.LogGeneralizedBinomial(float64(hits), float64(i)) +
			combin.LogGeneralizedBinomial(float64(population-hits), float64(drawn-i)) -
			logTotal
		p += math.Exp(lp)
	}
	return math.Min(p, 1)
}

// Binomial approximates the sampling test with replacement, treating each
// drawn gene as an independent trial with success probability K/N.
type Binomial struct{}

// PValue returns P[X >= k] for X ~ Binomial(n, K/N).
func (Binomial) PValue(k, population, hits, drawn int) float64 {
	if k <= 0 {
		return 1
	}
	if population <= 0 || drawn <= 0 {
		return 1
	}
	if k > drawn {
		return 0
	}
	dist := distuv.Binomial{N: float64(drawn), P: float64(hits) / float64(population)}
	p := 1 - dist.CDF(float64(k-1))
	if p < 0 {
		return 0
	}
	return math.Min(p, 1)
}
