package boilerscore

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Document is the working state of a single classification. It does not
// outlive the call that created it.
type Document struct {
	Tree   Tree
	Blocks []*Block
	Info   DocumentInfo

	// Set by the content ratio stage.
	ContentLength int
	Iterations    int
}

// ContentRatio is the fraction of the document text classified as content.
func (doc *Document) ContentRatio() float64 {
	if doc.Info.TextLength == 0 {
		return 0
	}
	return float64(doc.ContentLength) / float64(doc.Info.TextLength)
}

// Snapshot copies the current blocks so later stages cannot change them.
func (doc *Document) Snapshot() []Block {
	blocks := make([]Block, len(doc.Blocks))
	for i, b := range doc.Blocks {
		blocks[i] = *b
	}
	return blocks
}

// Filter is one stage of a pipeline.
type Filter interface {
	// Name returns the name of the filter.
	Name() string

	// Process processes the document and notifies if it has been changed.
	Process(doc *Document) (hasChanged bool, err error)
}

// ObserverFunc is called after every stage of a pipeline.
type ObserverFunc func(stageName string, hasChanged bool, doc *Document)

// A Pipeline is a collection of filters that itself satisfies the Filter
// interface.
type Pipeline struct {
	PipelineName string
	Filters      []Filter

	Logger   zerolog.Logger
	Observer ObserverFunc
}

// Statically check that *Pipeline satisfies the Filter interface.
var _ Filter = (*Pipeline)(nil)

// Name returns the pipeline name.
func (pipeline *Pipeline) Name() string { return pipeline.PipelineName }

func (pipeline *Pipeline) stageName(i int, filter Filter) string {
	if filter == nil {
		return fmt.Sprintf("%s.%03d", pipeline.PipelineName, i)
	}
	return fmt.Sprintf("%s.%03d.%s", pipeline.PipelineName, i, filter.Name())
}

// Process runs a document through the filters in order and stops at the first
// error.
func (pipeline *Pipeline) Process(doc *Document) (hasChanged bool, err error) {
	if pipeline.Observer != nil {
		pipeline.Observer(pipeline.stageName(0, nil), false, doc)
	}

	for i, filter := range pipeline.Filters {
		changed, err := filter.Process(doc)
		if err != nil {
			return hasChanged, fmt.Errorf("%s: %w", filter.Name(), err)
		}
		hasChanged = changed || hasChanged

		name := pipeline.stageName(i+1, filter)
		pipeline.Logger.Debug().
			Str("stage", name).
			Bool("changed", changed).
			Int("blocks", len(doc.Blocks)).
			Msg("stage done")

		if pipeline.Observer != nil {
			pipeline.Observer(name, hasChanged, doc)
		}
	}
	return
}

func BlockTree() Filter { return blockTree{} }

type blockTree struct{}

func (blockTree) Name() string { return "BlockTree" }

func (blockTree) Process(doc *Document) (bool, error) {
	if doc.Tree == nil {
		return false, invalidArgumentf("nil tree")
	}
	doc.Blocks = BuildBlocks(doc.Tree)
	return len(doc.Blocks) > 0, nil
}

// Measure computes the document-wide aggregates the scoring model needs.
func Measure(tailSize float64, area int) Filter { return measure{tailSize, area} }

type measure struct {
	tailSize float64
	area     int
}

func (measure) Name() string { return "Measure" }

func (filter measure) Process(doc *Document) (bool, error) {
	if doc.Tree == nil {
		return false, invalidArgumentf("nil tree")
	}
	textLength, elementCount := 0, 0
	if body, ok := doc.Tree.Body(); ok {
		textLength = TextLength(doc.Tree.Text(body))
		elementCount = len(doc.Tree.Elements(body))
	}
	doc.Info = NewDocumentInfo(textLength, elementCount, filter.tailSize, filter.area)
	return false, nil
}

func Features(maxTokenLength int) Filter { return features{maxTokenLength} }

type features struct{ maxTokenLength int }

func (features) Name() string { return "Features" }

func (filter features) Process(doc *Document) (bool, error) {
	if len(doc.Blocks) == 0 {
		return false, nil
	}
	if doc.Tree == nil {
		return false, invalidArgumentf("nil tree")
	}
	if err := validateBlocks(doc.Blocks, doc.Tree); err != nil {
		return false, err
	}
	for _, b := range doc.Blocks {
		ExtractFeatures(doc.Tree, b, filter.maxTokenLength)
	}
	return true, nil
}

// Scoring replaces every block score with the one assigned by model. Scores
// are only stored once all of them are known to be in range.
func Scoring(model Model) Filter { return scoring{model} }

type scoring struct{ model Model }

func (scoring) Name() string { return "Scoring" }

func (filter scoring) Process(doc *Document) (bool, error) {
	if filter.model == nil {
		return false, invalidArgumentf("nil model")
	}
	if err := validateBlocks(doc.Blocks, doc.Tree); err != nil {
		return false, err
	}

	scores := make([]int, len(doc.Blocks))
	for i, b := range doc.Blocks {
		score := filter.model.Score(b, doc.Info)
		if score < MinScore || score > MaxScore {
			return false, invalidArgumentf("block %d (%s) scored %d", i, b.ElementType, score)
		}
		scores[i] = score
	}

	hasChanged := false
	for i, b := range doc.Blocks {
		if b.Score != scores[i] {
			b.Score = scores[i]
			hasChanged = true
		}
	}
	return hasChanged, nil
}

func ContentRatio(adjuster Adjuster) Filter { return contentRatio{adjuster} }

type contentRatio struct{ adjuster Adjuster }

func (contentRatio) Name() string { return "ContentRatio" }

func (filter contentRatio) Process(doc *Document) (bool, error) {
	res, err := filter.adjuster.Adjust(doc.Blocks, doc.Info.TextLength)
	if err != nil {
		return false, err
	}
	doc.ContentLength = res.ContentLength
	doc.Iterations = res.Iterations
	return res.Iterations > 0, nil
}

// Annotation writes the result onto the tree when it accepts annotations.
func Annotation() Filter { return annotation{} }

type annotation struct{}

func (annotation) Name() string { return "Annotation" }

func (annotation) Process(doc *Document) (bool, error) {
	tree, ok := doc.Tree.(Annotator)
	if !ok || len(doc.Blocks) == 0 {
		return false, nil
	}
	if err := Annotate(tree, doc.Blocks); err != nil {
		return false, err
	}
	return true, nil
}

// validateBlocks checks the references a hand built dataset could get wrong.
func validateBlocks(blocks []*Block, tree Tree) error {
	for i, b := range blocks {
		if b == nil {
			return invalidArgumentf("block %d is nil", i)
		}
		if b.ParentIndex != NoParent && (b.ParentIndex < 0 || b.ParentIndex >= i) {
			return invalidArgumentf("block %d has parent index %d", i, b.ParentIndex)
		}
		if tree != nil && (int(b.Element) < 0 || int(b.Element) >= tree.Len()) {
			return invalidArgumentf("block %d references unknown element %d", i, b.Element)
		}
	}
	return nil
}
