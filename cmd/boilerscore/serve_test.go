package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlubawy/go-boilerscore"
)

const testPage = `<html><head><title>A story</title></head><body>
<nav class="nav"><a href="/">Home</a> <a href="/about">About</a></nav>
<article class="story"><p>The first paragraph of a long story about scoring blocks.</p>
<p>A second paragraph that keeps the story going for a while.</p></article>
<footer class="footer"><a href="/privacy">Privacy</a></footer>
</body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	f, err := newFetcher(zerolog.Nop())
	require.NoError(t, err)
	f.backoff.SkipSleep(true)

	ts := httptest.NewServer(newServer(boilerscore.DefaultConfig(), f, zerolog.Nop()))
	t.Cleanup(ts.Close)
	return ts
}

func readBody(t *testing.T, resp *http.Response) string {
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestServeIndex(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `action="classify"`)
	assert.Contains(t, body, boilerscore.Version)
}

func TestServeClassifyBody(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/classify", "text/html", strings.NewReader(testPage))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var res Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, "A story", res.Title)
	require.Len(t, res.Blocks, 3)

	byElement := make(map[string]BlockResult)
	for _, b := range res.Blocks {
		byElement[b.Element] = b
		assert.Equal(t, boilerscore.CategoryOf(b.Score), b.Category)
	}
	assert.GreaterOrEqual(t, byElement["article"].Score, boilerscore.NeutralScore)
	assert.Less(t, byElement["nav"].Score, boilerscore.NeutralScore)
	assert.Contains(t, byElement["article"].Tokens, "story")
	assert.GreaterOrEqual(t, res.ContentRatio, boilerscore.DefaultMinimumContentThreshold)
}

func TestServeClassifyURL(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, boilerscore.UserAgent, r.UserAgent())
		io.WriteString(w, testPage)
	}))
	defer origin.Close()

	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/classify?url=" + url.QueryEscape(origin.URL))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "A story")
	assert.Contains(t, body, "Classify.000")
	assert.Contains(t, body, "Classify.006.Annotation")
}

func TestServeClassifyURLErrors(t *testing.T) {
	origin := httptest.NewServer(http.NotFoundHandler())
	defer origin.Close()

	ts := newTestServer(t)

	tests := []struct {
		query  string
		status int
	}{
		{"", http.StatusBadRequest},
		{"?url=" + url.QueryEscape("file:///etc/passwd"), http.StatusBadRequest},
		{"?url=" + url.QueryEscape(origin.URL), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/classify" + tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Contains(t, readBody(t, resp), http.StatusText(tt.status))
		})
	}
}

func TestServeMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/classify", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
