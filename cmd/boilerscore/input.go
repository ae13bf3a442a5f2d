package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/jlubawy/go-boilerscore"
)

// isURL reports whether arg names a document to fetch rather than a file.
func isURL(arg string) bool {
	u, err := url.Parse(arg)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// open returns the document named by arg. An empty arg reads stdin.
func (f *fetcher) open(ctx context.Context, arg string) (io.ReadCloser, error) {
	switch {
	case arg == "" || arg == "-":
		return io.NopCloser(os.Stdin), nil
	case isURL(arg):
		return f.get(ctx, arg)
	default:
		return os.Open(arg)
	}
}

func (f *fetcher) get(ctx context.Context, rawurl string) (io.ReadCloser, error) {
	resp, err := f.backoff.Get(ctx, f.client, rawurl, boilerscore.UserAgent)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("get %s: %w", rawurl, err)
	}
	return resp.Body, nil
}

// parse reads a document into a tree.
func (f *fetcher) parse(ctx context.Context, arg string) (*boilerscore.HTMLTree, error) {
	rc, err := f.open(ctx, arg)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return boilerscore.NewHTMLTree(rc)
}

// documentTitle returns the text of the first title element.
func documentTitle(tree boilerscore.Tree) string {
	for n := 0; n < tree.Len(); n++ {
		if tree.Tag(boilerscore.NodeID(n)) == "title" {
			return strings.TrimSpace(tree.Text(boilerscore.NodeID(n)))
		}
	}
	return ""
}
