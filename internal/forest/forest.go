package forest

import (
	"context"
	"errors"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Regressor is a supervised model predicting one continuous target.
type Regressor interface {
	Fit(ctx context.Context, X [][]float64, y []float64) error
	Predict(X [][]float64) []float64
}

// RandomForestRegressor averages bootstrapped regression trees.
type RandomForestRegressor struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int
	Bootstrap       bool
	RandomState     int64
	Workers         int

	Trees []*RegressionTree
}

// Option functional config for RandomForestRegressor
type Option func(*RandomForestRegressor)

func WithNEstimators(n int) Option {
	return func(rf *RandomForestRegressor) {
		rf.NEstimators = n
	}
}

func WithMaxDepth(d int) Option {
	return func(rf *RandomForestRegressor) {
		rf.MaxDepth = d
	}
}

func WithMinSamplesSplit(n int) Option {
	return func(rf *RandomForestRegressor) {
		rf.MinSamplesSplit = n
	}
}

func WithMinSamplesLeaf(n int) Option {
	return func(rf *RandomForestRegressor) {
		rf.MinSamplesLeaf = n
	}
}

func WithMaxFeatures(k int) Option {
	return func(rf *RandomForestRegressor) {
		rf.MaxFeatures = k
	}
}

func WithBootstrap(b bool) Option {
	return func(rf *RandomForestRegressor) {
		rf.Bootstrap = b
	}
}

func WithRandomState(seed int64) Option {
	return func(rf *RandomForestRegressor) {
		rf.RandomState = seed
	}
}

func WithWorkers(n int) Option {
	return func(rf *RandomForestRegressor) {
		rf.Workers = n
	}
}

// NewRandomForestRegressor initializes the forest with defaults matching a
// fully grown, bootstrapped 100-tree ensemble.
func NewRandomForestRegressor(opts ...Option) *RandomForestRegressor {
	rf := &RandomForestRegressor{
		NEstimators:     100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Bootstrap:       true,
	}
	for _, o := range opts {
		o(rf)
	}
	if rf.Workers <= 0 {
		rf.Workers = runtime.GOMAXPROCS(0)
	}
	return rf
}

// Fit trains the forest. Trees are fitted concurrently; each tree draws its
// bootstrap sample from its own source seeded with RandomState+index, so
// the result does not depend on scheduling.
func (rf *RandomForestRegressor) Fit(ctx context.Context, X [][]float64, y []float64) error {
	if err := checkShape(X, y); err != nil {
		return err
	}
	if rf.NEstimators <= 0 {
		return errors.New("random forest: NEstimators must be positive")
	}
	n := len(X)
	trees := make([]*RegressionTree, rf.NEstimators)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(rf.Workers)
	for i := 0; i < rf.NEstimators; i++ {
		idx := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			seed := rf.RandomState + int64(idx)
			treeRand := rand.New(rand.NewSource(seed))

			sample := make([]int, n)
			for j := range sample {
				if rf.Bootstrap {
					sample[j] = treeRand.Intn(n)
				} else {
					sample[j] = j
				}
			}

			tree := NewRegressionTree(
				WithTreeMaxDepth(rf.MaxDepth),
				WithTreeMinSamplesSplit(rf.MinSamplesSplit),
				WithTreeMinSamplesLeaf(rf.MinSamplesLeaf),
				WithTreeMaxFeatures(rf.MaxFeatures),
				WithTreeRandomState(seed),
			)
			if err := tree.FitSamples(X, y, sample); err != nil {
				return err
			}
			trees[idx] = tree
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	rf.Trees = trees
	return nil
}

// Predict returns the mean prediction of all trees.
func (rf *RandomForestRegressor) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if len(rf.Trees) == 0 {
		return out
	}
	for _, tree := range rf.Trees {
		for i, v := range tree.Predict(X) {
			out[i] += v
		}
	}
	k := float64(len(rf.Trees))
	for i := range out {
		out[i] /= k
	}
	return out
}

// Factory builds a fresh regressor for the given seed.
type Factory func(seed int64) Regressor

// NewFactory returns a Factory producing random forests configured by opts.
func NewFactory(opts ...Option) Factory {
	return func(seed int64) Regressor {
		all := append(append([]Option(nil), opts...), WithRandomState(seed))
		return NewRandomForestRegressor(all...)
	}
}
