package forest

import (
	"errors"
	"math"
	"math/rand"
	"sort"
)

// RegressionTree is a CART regression tree using the squared-error criterion.
type RegressionTree struct {
	MaxDepth        int   // 0 => no limit
	MinSamplesSplit int   // minimum samples to attempt a split
	MinSamplesLeaf  int   // minimum samples in each child
	MaxFeatures     int   // 0 => all features
	RandomState     int64 // seed for feature subsampling

	nodes    []treeNode
	features int
}

// treeNode is a node of the flattened tree. Leaves have feature == -1.
type treeNode struct {
	feature   int
	threshold float64 // x <= threshold => left
	left      int
	right     int
	value     float64
	n         int
}

// TreeOption configures a RegressionTree
type TreeOption func(*RegressionTree)

func WithTreeMaxDepth(d int) TreeOption {
	return func(t *RegressionTree) {
		t.MaxDepth = d
	}
}

func WithTreeMinSamplesSplit(n int) TreeOption {
	return func(t *RegressionTree) {
		t.MinSamplesSplit = n
	}
}

func WithTreeMinSamplesLeaf(n int) TreeOption {
	return func(t *RegressionTree) {
		t.MinSamplesLeaf = n
	}
}

func WithTreeMaxFeatures(k int) TreeOption {
	return func(t *RegressionTree) {
		t.MaxFeatures = k
	}
}

func WithTreeRandomState(seed int64) TreeOption {
	return func(t *RegressionTree) {
		t.RandomState = seed
	}
}

// NewRegressionTree returns a fully grown tree configuration.
func NewRegressionTree(opts ...TreeOption) *RegressionTree {
	t := &RegressionTree{
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fit trains the tree on every row of X.
func (t *RegressionTree) Fit(X [][]float64, y []float64) error {
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	return t.FitSamples(X, y, idx)
}

// FitSamples trains the tree on the rows listed in sample. Rows may repeat,
// which is how bootstrap samples are passed without copying X.
func (t *RegressionTree) FitSamples(X [][]float64, y []float64, sample []int) error {
	if err := checkShape(X, y); err != nil {
		return err
	}
	if len(sample) == 0 {
		return errors.New("regression tree: empty sample")
	}
	t.features = len(X[0])
	t.nodes = t.nodes[:0]
	rnd := rand.New(rand.NewSource(t.RandomState))
	idx := append([]int(nil), sample...)
	t.build(X, y, idx, 0, rnd)
	return nil
}

// Predict returns one prediction per row of X.
func (t *RegressionTree) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		out[i] = t.predictOne(row)
	}
	return out
}

// Depth returns the depth of the fitted tree (a single leaf has depth 0).
func (t *RegressionTree) Depth() int {
	if len(t.nodes) == 0 {
		return 0
	}
	return t.depth(0)
}

// Leaves returns the number of leaves of the fitted tree.
func (t *RegressionTree) Leaves() int {
	n := 0
	for _, node := range t.nodes {
		if node.feature < 0 {
			n++
		}
	}
	return n
}

func (t *RegressionTree) depth(i int) int {
	node := t.nodes[i]
	if node.feature < 0 {
		return 0
	}
	l, r := t.depth(node.left), t.depth(node.right)
	if l > r {
		return l + 1
	}
	return r + 1
}

func (t *RegressionTree) predictOne(x []float64) float64 {
	if len(t.nodes) == 0 {
		return math.NaN()
	}
	i := 0
	for {
		node := t.nodes[i]
		if node.feature < 0 {
			return node.value
		}
		if x[node.feature] <= node.threshold {
			i = node.left
		} else {
			i = node.right
		}
	}
}

type split struct {
	feature   int
	threshold float64
	score     float64 // sum_l^2/n_l + sum_r^2/n_r, larger is better
	pos       int     // number of samples going left
}

// build appends the subtree for idx and returns its node index.
func (t *RegressionTree) build(X [][]float64, y []float64, idx []int, depth int, rnd *rand.Rand) int {
	var sum, sumSq float64
	for _, i := range idx {
		sum += y[i]
		sumSq += y[i] * y[i]
	}
	n := float64(len(idx))
	self := len(t.nodes)
	t.nodes = append(t.nodes, treeNode{feature: -1, value: sum / n, n: len(idx)})

	sse := sumSq - sum*sum/n
	if len(idx) < t.MinSamplesSplit || len(idx) < 2*t.MinSamplesLeaf || sse <= 1e-12*math.Max(1, sumSq) {
		return self
	}
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		return self
	}

	best := split{feature: -1, score: sum * sum / n}
	tolerance := 1e-10 * math.Max(1, math.Abs(best.score))
	for _, f := range t.candidateFeatures(rnd) {
		if s, ok := t.bestSplit(X, y, idx, f, sum); ok && s.score > best.score+tolerance {
			best = s
		}
	}
	if best.feature < 0 {
		return self
	}

	// partition idx around the chosen threshold
	left := make([]int, 0, best.pos)
	right := make([]int, 0, len(idx)-best.pos)
	for _, i := range idx {
		if X[i][best.feature] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := t.build(X, y, left, depth+1, rnd)
	r := t.build(X, y, right, depth+1, rnd)
	t.nodes[self].feature = best.feature
	t.nodes[self].threshold = best.threshold
	t.nodes[self].left = l
	t.nodes[self].right = r
	return self
}

func (t *RegressionTree) candidateFeatures(rnd *rand.Rand) []int {
	feats := make([]int, t.features)
	for j := range feats {
		feats[j] = j
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < t.features {
		rnd.Shuffle(len(feats), func(i, j int) { feats[i], feats[j] = feats[j], feats[i] })
		feats = feats[:t.MaxFeatures]
	}
	return feats
}

type valuePair struct {
	v float64
	y float64
}

// bestSplit scans sorted values of feature f with running sums.
func (t *RegressionTree) bestSplit(X [][]float64, y []float64, idx []int, f int, total float64) (split, bool) {
	pairs := make([]valuePair, len(idx))
	for k, i := range idx {
		pairs[k] = valuePair{v: X[i][f], y: y[i]}
	}
	sort.Slice(pairs, func(a, b int) bool { return pairs[a].v < pairs[b].v })

	minLeaf := t.MinSamplesLeaf
	if minLeaf < 1 {
		minLeaf = 1
	}
	n := len(pairs)
	result := split{feature: -1, score: math.Inf(-1)}
	var leftSum float64
	for s := 1; s < n; s++ {
		leftSum += pairs[s-1].y
		if pairs[s].v == pairs[s-1].v {
			continue
		}
		if s < minLeaf || n-s < minLeaf {
			continue
		}
		rightSum := total - leftSum
		score := leftSum*leftSum/float64(s) + rightSum*rightSum/float64(n-s)
		if score > result.score {
			thr := pairs[s-1].v + (pairs[s].v-pairs[s-1].v)/2
			if thr == pairs[s].v {
				thr = pairs[s-1].v
			}
			result = split{feature: f, threshold: thr, score: score, pos: s}
		}
	}
	return result, result.feature >= 0
}

func checkShape(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("regression: empty X")
	}
	if len(y) != len(X) {
		return errors.New("regression: X and y length mismatch")
	}
	p := len(X[0])
	if p == 0 {
		return errors.New("regression: X has no features")
	}
	for i := range X {
		if len(X[i]) != p {
			return errors.New("regression: inconsistent number of features in X rows")
		}
	}
	return nil
}
