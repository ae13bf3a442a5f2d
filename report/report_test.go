package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jlubawy/go-boilerscore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><head><title>t</title></head><body><nav class="nav"><a href="/">Home</a></nav><article class="story"><p>Some article text that is long enough.</p></article></body></html>`

func TestRecorderAndWrite(t *testing.T) {
	rec := &Recorder{}
	c, err := boilerscore.New(boilerscore.DefaultConfig(), boilerscore.WithObserver(rec.Observe))
	require.NoError(t, err)

	tree, err := boilerscore.NewHTMLTree(strings.NewReader(page))
	require.NoError(t, err)

	doc, err := c.Classify(tree)
	require.NoError(t, err)

	require.Len(t, rec.Stages, 7)
	assert.Equal(t, "Classify.000", rec.Stages[0].Name)
	assert.Empty(t, rec.Stages[0].Blocks)
	assert.Len(t, rec.Stages[1].Blocks, 2)

	// snapshots are copies: scoring happened after the BlockTree stage
	assert.Equal(t, boilerscore.NeutralScore, rec.Stages[1].Blocks[0].Score)
	assert.NotEqual(t, boilerscore.NeutralScore, doc.Blocks[0].Score)

	buf := &bytes.Buffer{}
	require.NoError(t, Write(buf, &Report{
		Title:    "Test page",
		URL:      "http://example.com/a",
		Document: doc,
		Stages:   rec.Stages,
	}))

	out := buf.String()
	assert.Contains(t, out, "<h1>Test page</h1>")
	assert.Contains(t, out, "Classify.004.Scoring")
	assert.Contains(t, out, "article#")
	assert.Contains(t, out, "<td>story</td>")
	assert.Contains(t, out, "table-danger")
	assert.Contains(t, out, boilerscore.Version)
}

func TestWriteWithoutDocument(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, Write(buf, &Report{}))
	assert.Contains(t, buf.String(), "<title>Report - boilerscore")
}
