package boilerscore

import (
	"github.com/rs/zerolog"
)

// A Classifier scores the blocks of documents. It is immutable once created
// and may be shared between goroutines.
type Classifier struct {
	config   Config
	model    Model
	logger   zerolog.Logger
	observer ObserverFunc
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithModel replaces the default scoring model.
func WithModel(model Model) Option {
	return func(c *Classifier) { c.model = model }
}

// WithLogger logs every pipeline stage at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Classifier) { c.logger = logger }
}

// WithObserver is called after every pipeline stage with the document.
func WithObserver(fn ObserverFunc) Option {
	return func(c *Classifier) { c.observer = fn }
}

// New returns a Classifier for cfg. Invalid configuration values are rejected.
func New(cfg Config, opts ...Option) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Classifier{
		config: cfg,
		model:  NewDefaultModel(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.model == nil {
		return nil, invalidArgumentf("nil model")
	}
	return c, nil
}

// Config returns the configuration the classifier was created with.
func (c *Classifier) Config() Config { return c.config }

func (c *Classifier) adjuster() Adjuster {
	return Adjuster{
		Threshold:     NeutralScore,
		Delta:         c.config.Delta,
		Ratio:         c.config.MinimumContentThreshold,
		MaxIterations: c.config.MaxIterations,
	}
}

func (c *Classifier) newPipeline(filters ...Filter) *Pipeline {
	return &Pipeline{
		PipelineName: "Classify",
		Filters:      filters,
		Logger:       c.logger,
		Observer:     c.observer,
	}
}

// Pipeline returns the full set of stages run by Classify.
func (c *Classifier) Pipeline() *Pipeline {
	return c.newPipeline(
		BlockTree(),
		Measure(c.config.TailSize, c.config.DocumentArea),
		Features(c.config.MaxTokenLength),
		Scoring(c.model),
		ContentRatio(c.adjuster()),
		Annotation(),
	)
}

// Classify builds, scores and adjusts the blocks of tree. If tree is an
// Annotator the result is also written onto its elements. On error no
// document is returned.
func (c *Classifier) Classify(tree Tree) (*Document, error) {
	if tree == nil {
		return nil, invalidArgumentf("classify: nil tree")
	}

	doc := &Document{Tree: tree}
	if _, err := c.Pipeline().Process(doc); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("blocks", len(doc.Blocks)).
		Int("textLength", doc.Info.TextLength).
		Int("contentLength", doc.ContentLength).
		Int("iterations", doc.Iterations).
		Msg("classified document")
	return doc, nil
}

// ScoreBlocks scores and adjusts blocks whose features are already known,
// without consulting a tree. The slice is updated in place and returned; an
// empty slice is returned as is.
func (c *Classifier) ScoreBlocks(blocks []*Block, info DocumentInfo) ([]*Block, error) {
	if len(blocks) == 0 {
		return blocks, nil
	}

	doc := &Document{Blocks: blocks, Info: info}
	pipeline := c.newPipeline(Scoring(c.model), ContentRatio(c.adjuster()))
	if _, err := pipeline.Process(doc); err != nil {
		return nil, err
	}
	return doc.Blocks, nil
}

// Classify runs a classifier with the default configuration and model.
func Classify(tree Tree) (*Document, error) {
	c, err := New(DefaultConfig())
	if err != nil {
		return nil, err
	}
	return c.Classify(tree)
}
