package main

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"text/template"
	"time"

	"github.com/rs/zerolog"

	"github.com/jlubawy/go-boilerscore"
	"github.com/jlubawy/go-boilerscore/backoff"

	"golang.org/x/net/publicsuffix"
)

type Command struct {
	Description string
	CommandFunc func(args []string)
	HelpFunc    func()
}

var commands = map[string]*Command{
	"classify": commandClassify,
	"serve":    commandServe,
	"version":  commandVersion,
}

var templUsage = template.Must(template.New("").Parse(`Boilerscore scores the blocks of HTML documents and marks the boilerplate.

Usage:

       boilerscore command [arguments]

The commands are:
{{range $name, $command := .}}
       {{printf "%-8s    %s" $name $command.Description}}{{end}}

Use "boilerscore help [command]" for more information about a command.
`))

func usage() {
	if err := templUsage.Execute(os.Stderr, commands); err != nil {
		panic(err)
	}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run dispatches to a subcommand and returns the exit code. Help that was
// asked for exits 0; missing or unknown commands exit 1.
func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 1
	}

	cmdStr := args[0]
	switch cmdStr {
	case "help", "-help", "--help", "-h":
		if cmdStr == "help" {
			if len(args) > 2 {
				fmt.Fprint(os.Stderr, "usage: boilerscore help command\n\nToo many arguments given.\n")
				return 1
			} else if len(args) == 2 {
				command, exists := commands[args[1]]
				if !exists {
					fmt.Fprintf(os.Stderr, "boilerscore help %s: unknown command\n", args[1])
					return 1
				}
				command.HelpFunc()
				return 0
			}
		}
		usage()
		return 0
	}

	command, exists := commands[cmdStr]
	if !exists {
		fmt.Fprintf(os.Stderr, "boilerscore: unknown subcommand %q\nRun 'boilerscore help' for usage.\n", cmdStr)
		return 1
	}
	command.CommandFunc(args[1:])
	return 0
}

func fatalf(fmtStr string, args ...any) {
	fmt.Fprintf(os.Stderr, fmtStr, args...)
	os.Exit(1)
}

var commandVersion = &Command{
	Description: "print boilerscore version",
	CommandFunc: func(args []string) {
		fmt.Fprintln(os.Stdout, boilerscore.FullVersion)
	},
	HelpFunc: func() {
		fmt.Fprint(os.Stderr, `usage: boilerscore version

Version prints the boilerscore version, as reported by boilerscore.FullVersion.
`)
	},
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func loadConfig(path string) (boilerscore.Config, error) {
	if path == "" {
		return boilerscore.DefaultConfig(), nil
	}
	return boilerscore.LoadConfigFile(path)
}

// fetcher reads documents over HTTP, retrying temporary failures.
type fetcher struct {
	client  *http.Client
	backoff *backoff.Config
}

func newFetcher(logger zerolog.Logger) (*fetcher, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	config := backoff.DefaultConfig()
	config.Logger = logger

	return &fetcher{
		client: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		backoff: config,
	}, nil
}
