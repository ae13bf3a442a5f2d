package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jlubawy/go-boilerscore"
	"github.com/jlubawy/go-boilerscore/report"
)

var commandClassify = &Command{
	Description: "score the blocks of HTML documents",
	CommandFunc: classifyFunc,
	HelpFunc:    classifyHelpFunc,
}

const (
	formatJSON   = "json"
	formatHTML   = "html"
	formatReport = "report"
)

func classifyFunc(args []string) {
	var (
		configPath string
		format     string
		verbose    bool
	)

	flagset := flag.NewFlagSet("classify", flag.ExitOnError)
	flagset.Usage = classifyHelpFunc
	flagset.StringVar(&configPath, "config", "", "YAML or JSON configuration file")
	flagset.StringVar(&format, "format", formatJSON, "output format: json, html or report")
	flagset.BoolVar(&verbose, "v", false, "log every pipeline stage")
	flagset.Parse(args)

	switch format {
	case formatJSON, formatHTML, formatReport:
	default:
		fatalf("error: unknown format %q\n", format)
	}

	logger := newLogger(verbose)

	cfg, err := loadConfig(configPath)
	if err != nil {
		fatalf("error: %s\n", err)
	}

	f, err := newFetcher(logger)
	if err != nil {
		fatalf("error: %s\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	inputs := flagset.Args()
	if len(inputs) == 0 {
		inputs = []string{""}
	}

	outputs, err := classifyAll(ctx, f, cfg, logger, format, inputs)
	if err != nil {
		fatalf("error: %s\n", err)
	}
	for _, out := range outputs {
		os.Stdout.Write(out)
	}
}

// classifyAll classifies every input concurrently and returns the rendered
// outputs in input order. The first failure cancels the remaining inputs.
func classifyAll(ctx context.Context, f *fetcher, cfg boilerscore.Config, logger zerolog.Logger, format string, inputs []string) ([][]byte, error) {
	outputs := make([][]byte, len(inputs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, input := range inputs {
		g.Go(func() error {
			var buf bytes.Buffer
			if err := classifyOne(gCtx, f, cfg, logger.With().Str("input", input).Logger(), format, input, &buf); err != nil {
				if input == "" {
					input = "stdin"
				}
				return fmt.Errorf("%s: %w", input, err)
			}
			outputs[i] = buf.Bytes()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

func classifyOne(ctx context.Context, f *fetcher, cfg boilerscore.Config, logger zerolog.Logger, format, input string, w io.Writer) error {
	tree, err := f.parse(ctx, input)
	if err != nil {
		return err
	}

	var rec report.Recorder
	opts := []boilerscore.Option{boilerscore.WithLogger(logger)}
	if format == formatReport {
		opts = append(opts, boilerscore.WithObserver(rec.Observe))
	}

	c, err := boilerscore.New(cfg, opts...)
	if err != nil {
		return err
	}
	doc, err := c.Classify(tree)
	if err != nil {
		return err
	}

	logger.Info().
		Int("blocks", len(doc.Blocks)).
		Float64("contentRatio", doc.ContentRatio()).
		Msg("classified")

	switch format {
	case formatHTML:
		return tree.Render(w)
	case formatReport:
		return report.Write(w, &report.Report{
			Title:    documentTitle(tree),
			URL:      input,
			Document: doc,
			Stages:   rec.Stages,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newResult(input, documentTitle(tree), doc))
}

// Result is the JSON form of a classified document.
type Result struct {
	Input         string        `json:"input,omitempty"`
	Title         string        `json:"title,omitempty"`
	TextLength    int           `json:"textLength"`
	ContentLength int           `json:"contentLength"`
	ContentRatio  float64       `json:"contentRatio"`
	Iterations    int           `json:"iterations"`
	Blocks        []BlockResult `json:"blocks"`
}

type BlockResult struct {
	Index            int                  `json:"index"`
	Element          string               `json:"element"`
	Parent           int                  `json:"parent"`
	Depth            int                  `json:"depth"`
	TextLength       int                  `json:"textLength"`
	AnchorTextLength int                  `json:"anchorTextLength"`
	Tokens           []string             `json:"tokens,omitempty"`
	Score            int                  `json:"score"`
	Category         boilerscore.Category `json:"category"`
}

func newResult(input, title string, doc *boilerscore.Document) *Result {
	res := &Result{
		Input:         input,
		Title:         title,
		TextLength:    doc.Info.TextLength,
		ContentLength: doc.ContentLength,
		ContentRatio:  doc.ContentRatio(),
		Iterations:    doc.Iterations,
		Blocks:        make([]BlockResult, len(doc.Blocks)),
	}
	for i, b := range doc.Blocks {
		res.Blocks[i] = BlockResult{
			Index:            b.ElementIndex,
			Element:          b.ElementType,
			Parent:           b.ParentIndex,
			Depth:            b.Depth,
			TextLength:       b.TextLength,
			AnchorTextLength: b.AnchorTextLength,
			Tokens:           b.Tokens(),
			Score:            b.Score,
			Category:         b.Category(),
		}
	}
	return res
}

func classifyHelpFunc() {
	fmt.Fprint(os.Stderr, `usage: boilerscore classify [-config file] [-format json|html|report] [-v] [document...]

Classify scores every block of the provided HTML documents and prints the
results to stdout.

If no document is provided it is read from stdin. Arguments that are http or
https URLs are fetched, retrying while the server is unavailable; any other
argument is read as a file. Documents are classified concurrently and printed
in the order given.

The output formats are:

       json      blocks with their features, score and category
       html      the document with data-boilerplate attributes added
       report    an HTML page showing the blocks after every pipeline stage
`)
}
