package boilerscore

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBlock(parent, score, textLength int) *Block {
	b := newBlock(0, 0, "div")
	b.ParentIndex = parent
	b.Score = score
	b.TextLength = textLength
	return b
}

func defaultAdjuster() Adjuster {
	return Adjuster{
		Threshold:     NeutralScore,
		Delta:         DefaultDelta,
		Ratio:         DefaultMinimumContentThreshold,
		MaxIterations: DefaultMaxIterations,
	}
}

func TestContentLengthIgnoresContentInsideBoilerplate(t *testing.T) {
	blocks := []*Block{
		testBlock(NoParent, 10, 100),
		testBlock(0, 90, 50),
	}

	assert.Equal(t, 0, contentLength(blocks, 100, NeutralScore))
	assert.Equal(t, 0, contentLengthByAncestors(blocks, NeutralScore))
}

func TestContentLengthSubtractsOutermostBoilerplateOnce(t *testing.T) {
	blocks := []*Block{
		testBlock(NoParent, 80, 400),
		testBlock(0, 10, 100),
		testBlock(1, 20, 60),
		testBlock(NoParent, 30, 50),
	}

	// 500 - 100 - 50; the nested block at index 2 is already covered by 1.
	assert.Equal(t, 350, contentLength(blocks, 500, NeutralScore))
}

func TestContentLengthFormulationsAgreeOnDisjointBlocks(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		n := 1 + rnd.Intn(20)
		blocks := make([]*Block, n)
		total := 0
		for j := range blocks {
			blocks[j] = testBlock(NoParent, rnd.Intn(MaxScore+1), rnd.Intn(300))
			total += blocks[j].TextLength
		}

		assert.Equal(t,
			contentLengthByAncestors(blocks, NeutralScore),
			contentLength(blocks, total, NeutralScore))
	}
}

func TestContentLengthFormulationsDivergeOnNestedBoilerplate(t *testing.T) {
	blocks := []*Block{
		testBlock(NoParent, 80, 100),
		testBlock(0, 10, 30),
	}

	// Subtraction removes the nested boilerplate from its content parent,
	// summing up counts the parent's whole text.
	assert.Equal(t, 70, contentLength(blocks, 100, NeutralScore))
	assert.Equal(t, 100, contentLengthByAncestors(blocks, NeutralScore))
}

func TestAdjustRaisesParentUntilRatio(t *testing.T) {
	blocks := []*Block{
		testBlock(NoParent, 10, 100),
		testBlock(0, 90, 50),
	}

	res, err := defaultAdjuster().Adjust(blocks, 100)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, 20, res.Iterations)
	assert.Equal(t, 100, res.ContentLength)
	assert.Equal(t, 50, blocks[0].Score)
	assert.Equal(t, 90, blocks[1].Score)
}

func TestAdjustStopsAtMaxIterations(t *testing.T) {
	blocks := []*Block{
		testBlock(NoParent, 10, 100),
		testBlock(0, 90, 50),
	}

	a := defaultAdjuster()
	a.MaxIterations = 5
	res, err := a.Adjust(blocks, 100)
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, 5, res.Iterations)
	assert.Equal(t, 0, res.ContentLength)
	assert.Equal(t, 20, blocks[0].Score)
}

func TestAdjustAlreadyConverged(t *testing.T) {
	blocks := []*Block{
		testBlock(NoParent, 60, 100),
		testBlock(0, 10, 50),
	}

	res, err := defaultAdjuster().Adjust(blocks, 100)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Zero(t, res.Iterations)
	assert.Equal(t, 50, res.ContentLength)
	assert.Equal(t, 10, blocks[1].Score)
}

func TestAdjustStopsWhenNothingChanges(t *testing.T) {
	blocks := []*Block{testBlock(NoParent, 10, 100)}

	a := defaultAdjuster()
	a.Delta = 0
	res, err := a.Adjust(blocks, 100)
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, 1, res.Iterations)
	assert.Equal(t, 10, blocks[0].Score)
}

func TestAdjustZeroTextIsNoop(t *testing.T) {
	blocks := []*Block{testBlock(NoParent, 10, 0)}

	res, err := defaultAdjuster().Adjust(blocks, 0)
	require.NoError(t, err)
	assert.Equal(t, AdjustResult{}, res)
	assert.Equal(t, 10, blocks[0].Score)
}

func TestAdjustNeverLowersScores(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))

	for i := 0; i < 300; i++ {
		n := 1 + rnd.Intn(15)
		blocks := make([]*Block, n)
		total := 0
		for j := range blocks {
			parent := NoParent
			if j > 0 && rnd.Intn(2) == 0 {
				parent = rnd.Intn(j)
			}
			blocks[j] = testBlock(parent, rnd.Intn(MaxScore+1), rnd.Intn(200))
			total += blocks[j].TextLength
		}

		before := make([]int, n)
		for j, b := range blocks {
			before[j] = b.Score
		}

		a := defaultAdjuster()
		a.Ratio = rnd.Float64()
		res, err := a.Adjust(blocks, total+rnd.Intn(100))
		require.NoError(t, err)
		require.LessOrEqual(t, res.Iterations, a.MaxIterations)

		for j, b := range blocks {
			assert.GreaterOrEqual(t, b.Score, before[j])
			assert.LessOrEqual(t, b.Score, MaxScore)
		}
	}
}

func TestAdjustRejectsMalformedParents(t *testing.T) {
	tests := []struct {
		name   string
		blocks []*Block
	}{
		{"cycle", []*Block{testBlock(1, 10, 50), testBlock(1, 80, 50)}},
		{"self", []*Block{testBlock(0, 10, 50)}},
		{"out of range", []*Block{testBlock(NoParent, 10, 50), testBlock(7, 10, 50)}},
		{"negative", []*Block{testBlock(-2, 10, 50)}},
		{"nil block", []*Block{testBlock(NoParent, 10, 50), nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := defaultAdjuster().Adjust(tt.blocks, 100)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Equal(t, AdjustResult{}, res)
			assert.Equal(t, 10, tt.blocks[0].Score)
		})
	}
}
