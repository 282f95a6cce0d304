package brawn

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/SJShaw/brawn/blosum"
)

const (
	// gapOpen and gapExtend are the base affine gap penalties. Column
	// statistics scale the opening penalty; extension is constant.
	gapOpen   = -2.9
	gapExtend = -0.2

	// scoreCenter shifts every column comparison score.
	scoreCenter = 0.0

	// minusInfinity guards unreachable dynamic programming states.
	minusInfinity = -1e29
)

// ProfileColumn summarises a single column of an alignment: the weighted
// residue composition, a scoring vector against that composition, and the
// gap weights used to scale the affine penalties locally.
type ProfileColumn struct {
	// SortOrder lists residue indices by decreasing count, so scoring
	// loops can stop at the first zero count.
	SortOrder []int `json:"sort_order"`

	// Counts holds the fractional weighted residue counts, normalised
	// over the non-gap weight of the column.
	Counts []float64 `json:"counts"`

	// Scores[i] is the expected substitution ratio of residue i against
	// this column's composition.
	Scores []float64 `json:"scores"`

	// Ungapped is 1 minus the total weight of sequences gapped at this
	// column.
	Ungapped float64 `json:"ungapped"`

	// GapOpens and GapCloses are 1 minus the total weight of sequences
	// opening (closing) a gap at this column. Columns where the
	// reference itself opens gaps freely make query insertions cheap.
	GapOpens  float64 `json:"gap_opens"`
	GapCloses float64 `json:"gap_closes"`
}

func (c *ProfileColumn) scoreGapOpen() float64 {
	return c.GapOpens * gapOpen / 2
}

func (c *ProfileColumn) scoreGapClose() float64 {
	return c.GapCloses * gapOpen / 2
}

// SequenceProfile is the positional scoring profile of an alignment, one
// column record per alignment column. It is read-only once built and safe
// to share across concurrent alignments.
type SequenceProfile struct {
	Columns []ProfileColumn `json:"columns"`
}

// Len returns the number of columns in the profile.
func (p *SequenceProfile) Len() int {
	return len(p.Columns)
}

// gapOpenScore returns the effective gap opening score at a column.
// Opening at the first column is free, so short queries are not punished
// for missing a leading stretch of the reference.
func (p *SequenceProfile) gapOpenScore(j int) float64 {
	if j == 0 {
		return 0
	}
	return p.Columns[j].scoreGapOpen()
}

// gapCloseScore returns the effective gap closing score at a column, with
// the trailing terminal treated like the leading one.
func (p *SequenceProfile) gapCloseScore(j int) float64 {
	if j == len(p.Columns)-1 && len(p.Columns) > 1 {
		return 0
	}
	return p.Columns[j].scoreGapClose()
}

// buildProfile computes the profile of an alignment given its sequence
// weights. The computation is deterministic: the same alignment always
// produces an identical profile.
func buildProfile(a *Alignment, weights []float64) *SequenceProfile {
	profile := &SequenceProfile{
		Columns: make([]ProfileColumn, a.cols),
	}
	for col := 0; col < a.cols; col++ {
		counts := fractionalWeightedCounts(a, weights, col)
		scores := make([]float64, blosum.Size)
		for i := 0; i < blosum.Size; i++ {
			score := 0.
			for j, count := range counts {
				score += count * blosum.Ratio62[i][j]
			}
			scores[i] = score
		}
		profile.Columns[col] = ProfileColumn{
			SortOrder: indicesByDecreasingValue(counts),
			Counts:    counts,
			Scores:    scores,
			Ungapped:  1 - gappedWeight(a, weights, col),
			GapOpens:  1 - gapOpenWeight(a, weights, col),
			GapCloses: 1 - gapCloseWeight(a, weights, col),
		}
	}
	return profile
}

// fractionalWeightedCounts sums the sequence weights contributing each
// residue to a column, then normalises by the total non-gap weight.
func fractionalWeightedCounts(a *Alignment, weights []float64, col int) []float64 {
	counts := make([]float64, blosum.Size)
	totalWeight := 0.
	for i, seq := range a.seqs {
		c := seq[col]
		if c == GapChar {
			continue
		}
		addResidueWeight(counts, c, weights[i])
		totalWeight += weights[i]
	}
	if totalWeight > 0 {
		floats.Scale(1/totalWeight, counts)
	}
	return counts
}

// gappedWeight is the total weight of sequences with a gap at the column.
func gappedWeight(a *Alignment, weights []float64, col int) float64 {
	total := 0.
	for i, seq := range a.seqs {
		if seq[col] == GapChar {
			total += weights[i]
		}
	}
	return total
}

// gapOpenWeight is the total weight of sequences whose gap starts at the
// column. At the first column every gap is an opening.
func gapOpenWeight(a *Alignment, weights []float64, col int) float64 {
	total := 0.
	for i, seq := range a.seqs {
		if seq[col] != GapChar {
			continue
		}
		if col == 0 || seq[col-1] != GapChar {
			total += weights[i]
		}
	}
	return total
}

// gapCloseWeight is the total weight of sequences whose gap ends at the
// column. At the last column every gap is a closing.
func gapCloseWeight(a *Alignment, weights []float64, col int) float64 {
	total := 0.
	for i, seq := range a.seqs {
		if seq[col] != GapChar {
			continue
		}
		if col == a.cols-1 || seq[col+1] != GapChar {
			total += weights[i]
		}
	}
	return total
}

// indicesByDecreasingValue returns residue indices ordered by decreasing
// value, breaking ties by increasing index for determinism.
func indicesByDecreasingValue(values []float64) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		if values[order[x]] != values[order[y]] {
			return values[order[x]] > values[order[y]]
		}
		return order[x] < order[y]
	})
	return order
}
