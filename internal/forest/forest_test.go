package forest

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepData() ([][]float64, []float64) {
	X := make([][]float64, 0, 20)
	y := make([]float64, 0, 20)
	for i := 0; i < 20; i++ {
		X = append(X, []float64{float64(i), float64(i % 3)})
		if i < 10 {
			y = append(y, 5)
		} else {
			y = append(y, 50)
		}
	}
	return X, y
}

func TestRegressionTree_FitsStepFunction(t *testing.T) {
	X, y := stepData()
	tree := NewRegressionTree()
	require.NoError(t, tree.Fit(X, y))

	assert.Equal(t, 1, tree.Depth(), "one split separates the two levels")
	assert.Equal(t, 2, tree.Leaves())

	pred := tree.Predict([][]float64{{0, 0}, {9, 0}, {9.4, 1}, {10, 2}, {100, 0}})
	assert.Equal(t, []float64{5, 5, 5, 50, 50}, pred)
}

func TestRegressionTree_MaxDepthZeroLeaf(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{1, 2, 3, 4}

	tree := NewRegressionTree(WithTreeMaxDepth(1))
	require.NoError(t, tree.Fit(X, y))
	assert.Equal(t, 1, tree.Depth())

	pred := tree.Predict([][]float64{{1}, {4}})
	assert.InDelta(t, 1.5, pred[0], 1e-12)
	assert.InDelta(t, 3.5, pred[1], 1e-12)
}

func TestRegressionTree_ConstantTargetIsLeaf(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}}
	y := []float64{7, 7, 7}

	tree := NewRegressionTree()
	require.NoError(t, tree.Fit(X, y))
	assert.Equal(t, 0, tree.Depth())
	assert.Equal(t, []float64{7}, tree.Predict([][]float64{{42}}))
}

func TestRegressionTree_MinSamplesLeaf(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}, {5}}
	y := []float64{0, 0, 0, 0, 100}

	tree := NewRegressionTree(WithTreeMinSamplesLeaf(2))
	require.NoError(t, tree.Fit(X, y))

	// the outlier cannot be isolated in a leaf of its own
	pred := tree.Predict([][]float64{{5}})
	assert.InDelta(t, 50, pred[0], 1e-9)
}

func TestRegressionTree_MinSamplesSplit(t *testing.T) {
	X, y := stepData()

	tree := NewRegressionTree(WithTreeMinSamplesSplit(len(y) + 1))
	require.NoError(t, tree.Fit(X, y))
	assert.Equal(t, 0, tree.Depth(), "a node smaller than the split minimum stays a leaf")
	assert.InDelta(t, 27.5, tree.Predict([][]float64{{0, 0}})[0], 1e-9)
}

func TestRegressionTree_MaxFeatures(t *testing.T) {
	_, y := stepData()
	X := make([][]float64, len(y))
	for i := range X {
		X[i] = []float64{float64(i), float64(2 * i)}
	}

	// either feature separates the step, so one drawn feature per split is enough
	tree := NewRegressionTree(WithTreeMaxFeatures(1), WithTreeRandomState(3))
	require.NoError(t, tree.Fit(X, y))
	assert.Equal(t, []float64{5, 50}, tree.Predict([][]float64{{0, 0}, {19, 38}}))
}

func TestRegressionTree_Errors(t *testing.T) {
	tests := []struct {
		name string
		X    [][]float64
		y    []float64
	}{
		{name: "empty X", X: nil, y: nil},
		{name: "length mismatch", X: [][]float64{{1}, {2}}, y: []float64{1}},
		{name: "ragged rows", X: [][]float64{{1, 2}, {2}}, y: []float64{1, 2}},
		{name: "no features", X: [][]float64{{}, {}}, y: []float64{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, NewRegressionTree().Fit(tt.X, tt.y))
		})
	}
}

func TestRandomForest_Deterministic(t *testing.T) {
	X, y := stepData()
	ctx := context.Background()

	a := NewRandomForestRegressor(WithNEstimators(25), WithRandomState(42), WithWorkers(4))
	b := NewRandomForestRegressor(WithNEstimators(25), WithRandomState(42), WithWorkers(1))
	require.NoError(t, a.Fit(ctx, X, y))
	require.NoError(t, b.Fit(ctx, X, y))

	query := [][]float64{{3, 0}, {9.5, 1}, {15, 2}}
	assert.Equal(t, a.Predict(query), b.Predict(query))
	assert.Len(t, a.Trees, 25)
}

func TestRandomForest_LearnsLinearTrend(t *testing.T) {
	X := make([][]float64, 0, 200)
	y := make([]float64, 0, 200)
	for i := 0; i < 200; i++ {
		x := float64(i) / 10
		X = append(X, []float64{x})
		y = append(y, 3*x+1)
	}

	rf := NewRandomForestRegressor(WithNEstimators(30), WithRandomState(7))
	require.NoError(t, rf.Fit(context.Background(), X, y))

	pred := rf.Predict([][]float64{{5}, {12.34}})
	assert.InDelta(t, 16, pred[0], 1.0)
	assert.InDelta(t, 38.02, pred[1], 1.0)
}

func TestRandomForest_WithoutBootstrapMatchesTree(t *testing.T) {
	X, y := stepData()

	rf := NewRandomForestRegressor(WithNEstimators(3), WithBootstrap(false))
	require.NoError(t, rf.Fit(context.Background(), X, y))

	tree := NewRegressionTree()
	require.NoError(t, tree.Fit(X, y))

	query := [][]float64{{2, 1}, {17, 0}}
	assert.Equal(t, tree.Predict(query), rf.Predict(query))
}

func TestRandomForest_CancelledContext(t *testing.T) {
	X, y := stepData()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rf := NewRandomForestRegressor(WithNEstimators(5))
	err := rf.Fit(ctx, X, y)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRandomForest_UnfittedPredictsZero(t *testing.T) {
	rf := NewRandomForestRegressor()
	assert.Equal(t, []float64{0, 0}, rf.Predict([][]float64{{1}, {2}}))
	assert.True(t, math.IsNaN(NewRegressionTree().Predict([][]float64{{1}})[0]))
}

func TestNewFactory(t *testing.T) {
	factory := NewFactory(WithNEstimators(4))
	model, ok := factory(99).(*RandomForestRegressor)
	require.True(t, ok)
	assert.Equal(t, 4, model.NEstimators)
	assert.Equal(t, int64(99), model.RandomState)

	factory = NewFactory(WithMinSamplesSplit(6), WithMaxFeatures(2))
	model, ok = factory(1).(*RandomForestRegressor)
	require.True(t, ok)
	assert.Equal(t, 6, model.MinSamplesSplit)
	assert.Equal(t, 2, model.MaxFeatures)
}
