package boilerscore

import "fmt"

// Default content-ratio adjustment parameters.
const (
	DefaultDelta                   = 2
	DefaultMinimumContentThreshold = 0.2
	DefaultMaxIterations           = 20
)

// Adjuster raises the scores of boilerplate blocks until at least Ratio of the
// document text is classified as content. It never lowers a score.
type Adjuster struct {
	Threshold     int
	Delta         int
	Ratio         float64
	MaxIterations int
}

// AdjustResult describes a finished adjustment.
type AdjustResult struct {
	ContentLength int
	Iterations    int
	Converged     bool
}

// Adjust runs the adjustment in place. A document without text is left as is.
// Blocks whose parent index does not point backward are rejected before any
// score changes.
func (a Adjuster) Adjust(blocks []*Block, documentTextLength int) (AdjustResult, error) {
	if err := validateBlocks(blocks, nil); err != nil {
		return AdjustResult{}, fmt.Errorf("adjust: %w", err)
	}
	if documentTextLength <= 0 {
		return AdjustResult{}, nil
	}

	res := AdjustResult{}
	for {
		res.ContentLength = contentLength(blocks, documentTextLength, a.Threshold)
		if float64(res.ContentLength)/float64(documentTextLength) >= a.Ratio {
			res.Converged = true
			return res, nil
		}
		if res.Iterations >= a.MaxIterations {
			return res, nil
		}

		changed := 0
		for _, b := range blocks {
			if b.Score < a.Threshold {
				prev := b.Score
				b.SetScore(b.Score + a.Delta)
				if b.Score != prev {
					changed++
				}
			}
		}
		res.Iterations++

		if changed == 0 {
			res.ContentLength = contentLength(blocks, documentTextLength, a.Threshold)
			return res, nil
		}
	}
}

// contentLength subtracts from the document text every boilerplate block that
// is not already inside another boilerplate block. Blocks below threshold are
// disjoint once nested ones are skipped, so nothing is subtracted twice.
func contentLength(blocks []*Block, documentTextLength, threshold int) int {
	length := documentTextLength
	for i, b := range blocks {
		if b.Score < threshold && !hasAncestorBelow(blocks, i, threshold) {
			length -= b.TextLength
		}
	}
	return max(length, 0)
}

// contentLengthByAncestors sums every content block that is not inside a
// boilerplate block.
func contentLengthByAncestors(blocks []*Block, threshold int) int {
	length := 0
	for i, b := range blocks {
		if b.Score >= threshold && !hasAncestorBelow(blocks, i, threshold) {
			length += b.TextLength
		}
	}
	return length
}

func hasAncestorBelow(blocks []*Block, i, threshold int) bool {
	for p := blocks[i].ParentIndex; p != NoParent; p = blocks[p].ParentIndex {
		if blocks[p].Score < threshold {
			return true
		}
	}
	return false
}
