package drift

import (
	"cmp"
	"context"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Params configures the boosted tree ensemble.
type Params struct {
	Rounds       int
	MaxDepth     int
	LearningRate float64
	// Lambda is the L2 penalty on leaf weights.
	Lambda float64
}

// DefaultParams matches a small gradient-boosted regressor: 50 depth-3 trees at 0.1.
func DefaultParams() Params {
	return Params{Rounds: 50, MaxDepth: 3, LearningRate: 0.1, Lambda: 1}
}

type node struct {
	Leaf      bool
	Value     float64
	Feature   int
	Threshold float64
	Left      int
	Right     int
}

type tree struct {
	Nodes []node
}

func (t tree) predict(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf {
			return n.Value
		}
		if x[n.Feature] < n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// ensemble is an additive model of regression trees fitted on squared error.
type ensemble struct {
	Base         float64
	LearningRate float64
	Trees        []tree
}

func (e *ensemble) predict(x []float64) float64 {
	out := e.Base
	for _, t := range e.Trees {
		out += e.LearningRate * t.predict(x)
	}
	return out
}

// fit trains an ensemble; ctx is checked between rounds.
func fit(ctx context.Context, rows [][]float64, targets []float64, p Params) (*ensemble, error) {
	e := &ensemble{
		Base:         stat.Mean(targets, nil),
		LearningRate: p.LearningRate,
		Trees:        make([]tree, 0, p.Rounds),
	}
	preds := make([]float64, len(targets))
	for i := range preds {
		preds[i] = e.Base
	}
	residuals := make([]float64, len(targets))
	all := make([]int, len(rows))
	for i := range all {
		all[i] = i
	}

	for range p.Rounds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i := range targets {
			residuals[i] = targets[i] - preds[i]
		}
		b := builder{rows: rows, residuals: residuals, params: p}
		b.build(all, 0)
		t := tree{Nodes: b.nodes}
		for i, x := range rows {
			preds[i] += p.LearningRate * t.predict(x)
		}
		e.Trees = append(e.Trees, t)
	}
	return e, nil
}

type builder struct {
	rows      [][]float64
	residuals []float64
	params    Params
	nodes     []node
}

type split struct {
	feature   int
	threshold float64
	gain      float64
	left      []int
	right     []int
}

// build appends the subtree for idx and returns its node index.
func (b *builder) build(idx []int, depth int) int {
	at := len(b.nodes)
	b.nodes = append(b.nodes, node{})

	sum := b.sum(idx)
	if depth < b.params.MaxDepth && len(idx) > 1 {
		if s, ok := b.bestSplit(idx, sum); ok {
			left := b.build(s.left, depth+1)
			right := b.build(s.right, depth+1)
			b.nodes[at] = node{Feature: s.feature, Threshold: s.threshold, Left: left, Right: right}
			return at
		}
	}
	b.nodes[at] = node{Leaf: true, Value: sum / (float64(len(idx)) + b.params.Lambda)}
	return at
}

func (b *builder) sum(idx []int) float64 {
	var s float64
	for _, i := range idx {
		s += b.residuals[i]
	}
	return s
}

func (b *builder) score(sum float64, n int) float64 {
	return sum * sum / (float64(n) + b.params.Lambda)
}

// bestSplit scans every feature for the threshold with the largest positive gain.
// Features are scanned in order and ties keep the first candidate, so fitting is deterministic.
func (b *builder) bestSplit(idx []int, total float64) (split, bool) {
	parent := b.score(total, len(idx))
	best := split{gain: 0}
	found := false
	sorted := slices.Clone(idx)

	for f := range len(b.rows[idx[0]]) {
		slices.SortStableFunc(sorted, func(i, j int) int {
			return cmp.Compare(b.rows[i][f], b.rows[j][f])
		})
		var leftSum float64
		for k := 0; k < len(sorted)-1; k++ {
			leftSum += b.residuals[sorted[k]]
			lo, hi := b.rows[sorted[k]][f], b.rows[sorted[k+1]][f]
			if lo == hi {
				continue
			}
			gain := b.score(leftSum, k+1) + b.score(total-leftSum, len(sorted)-k-1) - parent
			if gain > best.gain {
				best = split{
					feature:   f,
					threshold: (lo + hi) / 2,
					gain:      gain,
					left:      slices.Clone(sorted[:k+1]),
					right:     slices.Clone(sorted[k+1:]),
				}
				found = true
			}
		}
	}
	return best, found
}
