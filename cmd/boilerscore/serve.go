package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/jlubawy/go-boilerscore"
	"github.com/jlubawy/go-boilerscore/report"
)

var commandServe = &Command{
	Description: "start a HTTP server for classifying HTML documents",
	CommandFunc: serveFunc,
	HelpFunc:    serveHelpFunc,
}

func serveFunc(args []string) {
	var (
		port       uint
		configPath string
		verbose    bool
	)

	flagset := flag.NewFlagSet("serve", flag.ExitOnError)
	flagset.Usage = serveHelpFunc
	flagset.UintVar(&port, "port", 8080, "TCP port to listen on")
	flagset.StringVar(&configPath, "config", "", "YAML or JSON configuration file")
	flagset.BoolVar(&verbose, "v", false, "log every pipeline stage")
	flagset.Parse(args)

	if flagset.NArg() > 0 {
		fatalf("usage: boilerscore serve [-port=8080] [-config file]\n\nToo many arguments given.\n")
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

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           newServer(cfg, f, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info().Uint("port", port).Msg("listening")
	if err := srv.ListenAndServe(); err != nil {
		fatalf("error starting server: %v\n", err)
	}
}

func serveHelpFunc() {
	fmt.Fprint(os.Stderr, `usage: boilerscore serve [-port=8080] [-config file] [-v]

Serve starts an HTTP server listening on the provided port.

       GET  /                  form for classifying a URL
       GET  /classify?url=     report for the document at url
       POST /classify          JSON result for the HTML document in the body
`)
}

// maxBodySize limits documents posted to the server.
const maxBodySize = 10 << 20

type server struct {
	router  chi.Router
	config  boilerscore.Config
	fetcher *fetcher
	logger  zerolog.Logger
}

func newServer(cfg boilerscore.Config, f *fetcher, logger zerolog.Logger) *server {
	s := &server{
		config:  cfg,
		fetcher: f,
		logger:  logger,
	}
	s.setupRoutes()
	return s
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/", runHandler(s.handleIndex))
	r.Get("/classify", runHandler(s.handleClassifyURL))
	r.Post("/classify", s.handleClassifyBody)

	s.router = r
}

// requestLogger logs every request once it has been served.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info().
				Str("method", r.Method).
				Str("uri", r.RequestURI).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

// runHandler renders the error page when handler fails.
func runHandler(handler func(w http.ResponseWriter, r *http.Request) (int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := handler(w, r)
		if err == nil {
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(code)
		templPages.ExecuteTemplate(w, "error", map[string]any{
			"Status":  http.StatusText(code),
			"Error":   err,
			"Version": boilerscore.Version,
		})
	}
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) (int, error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templPages.ExecuteTemplate(w, "index", map[string]any{"Version": boilerscore.Version}); err != nil {
		return http.StatusInternalServerError, err
	}
	return http.StatusOK, nil
}

var errMissingURL = errors.New("must specify url")

func (s *server) handleClassifyURL(w http.ResponseWriter, r *http.Request) (int, error) {
	rawurl := r.FormValue("url")
	if rawurl == "" {
		return http.StatusBadRequest, errMissingURL
	}
	if !isURL(rawurl) {
		return http.StatusBadRequest, fmt.Errorf("invalid url %q", rawurl)
	}

	tree, err := s.fetcher.parse(r.Context(), rawurl)
	if err != nil {
		return http.StatusBadGateway, err
	}

	var rec report.Recorder
	c, err := boilerscore.New(s.config, boilerscore.WithLogger(s.logger), boilerscore.WithObserver(rec.Observe))
	if err != nil {
		return http.StatusInternalServerError, err
	}
	doc, err := c.Classify(tree)
	if err != nil {
		return http.StatusInternalServerError, err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.Write(w, &report.Report{
		Title:    documentTitle(tree),
		URL:      rawurl,
		Document: doc,
		Stages:   rec.Stages,
	}); err != nil {
		return http.StatusInternalServerError, err
	}
	return http.StatusOK, nil
}

func (s *server) handleClassifyBody(w http.ResponseWriter, r *http.Request) {
	tree, err := boilerscore.NewHTMLTree(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := boilerscore.New(s.config, boilerscore.WithLogger(s.logger))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	doc, err := c.Classify(tree)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(newResult("", documentTitle(tree), doc))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

var templPages = template.Must(template.New("").Parse(`{{define "header"}}<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <link rel="stylesheet" href="https://maxcdn.bootstrapcdn.com/bootstrap/4.0.0-alpha.6/css/bootstrap.min.css" crossorigin="anonymous" />
    <title>Boilerscore {{.Version}}</title>
  </head>
  <body>
    <div class="container">
      <nav class="navbar navbar-light bg-light">
        <a class="navbar-brand" href="/">Boilerscore {{.Version}}</a>
      </nav>
{{end}}

{{define "footer"}}    </div><!-- container -->
  </body>
</html>
{{end}}

{{define "index"}}{{template "header" .}}
      <form method="GET" action="classify">
        <div class="form-group">
          <label for="txtUrl">Document URL</label>
          <input type="text" id="txtUrl" name="url" class="form-control" placeholder="http://www.example.com/article-url" />
        </div>
        <button type="submit" class="btn btn-success">Classify</button>
      </form>
{{template "footer" .}}{{end}}

{{define "error"}}{{template "header" .}}
      <h1>{{.Status}}</h1>
      <p>{{.Error}}</p>
{{template "footer" .}}{{end}}
`))
