// Command calc is the calculator CLI.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/language"

	"nickandperla.net/calc/internal/config"
	"nickandperla.net/calc/internal/locale"
	"nickandperla.net/calc/internal/logging"
	"nickandperla.net/calc/internal/mcpserver"
	"nickandperla.net/calc/internal/session"
	"nickandperla.net/calc/internal/store"
	"nickandperla.net/calc/pkg/calculator"
)

func main() {
	os.Exit(run(os.Args[1:], os.Getenv, os.Stdin, os.Stdout, os.Stderr))
}

// options holds the command-line flags.
type options struct {
	evalStr    string
	configPath string
	mcp        bool
	graph      bool
	saveConfig bool
}

// parseFlags reads args into opts and returns the config they select.
func parseFlags(args []string, getenv func(string) string, stderr io.Writer) (*options, *config.Config, error) {
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		opts     options
		dbPath   = fs.String("db", "", "SQLite session database path (empty: in-memory)")
		sess     = fs.String("session", "", "Session name")
		loc      = fs.String("locale", "", "Language for error messages, e.g. en or ko")
		logLevel = fs.String("log-level", "", "Log level: debug, info, warn, error or none")
		logFile  = fs.String("log-file", "", "Log file path")
	)
	fs.StringVar(&opts.evalStr, "e", "", "Press keys, print the state and exit")
	fs.StringVar(&opts.configPath, "config", config.DefaultPath(), "Config file path")
	fs.BoolVar(&opts.mcp, "mcp", false, "Serve calculator sessions over MCP on stdio")
	fs.BoolVar(&opts.graph, "graph", false, "Print the calculator state machine as DOT and exit")
	fs.BoolVar(&opts.saveConfig, "save-config", false, "Write the effective settings to the config file and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyEnv(getenv)

	// Flags given explicitly win over the file and the environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "db":
			cfg.DBPath = *dbPath
		case "session":
			cfg.Session = *sess
		case "locale":
			cfg.Locale = *loc
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-file":
			cfg.LogFile = *logFile
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return &opts, cfg, nil
}

func run(args []string, getenv func(string) string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, cfg, err := parseFlags(args, getenv, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if opts.graph {
		fmt.Fprintln(stdout, calculator.New().Graph())
		return 0
	}

	if opts.saveConfig {
		if err := cfg.Save(opts.configPath); err != nil {
			fmt.Fprintf(stderr, "Error saving config: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "saved %s\n", opts.configPath)
		return 0
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	logger, closer, err := logging.Open(cfg.LogFile, level)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closer.Close()

	st, err := openStore(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening database: %v\n", err)
		return 1
	}
	defer st.Close()

	manager := session.NewManager(st,
		session.WithLogger(logger),
		session.WithLanguage(displayLanguage(cfg.Locale)),
	)
	logger.Info("calc starting", "session", cfg.Session, "db", cfg.DBPath)

	switch {
	case opts.mcp:
		if err := mcpserver.New(manager, logger).Serve(); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0

	case opts.evalStr != "":
		s, err := manager.Enter(cfg.Session, opts.evalStr)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, session.Render(s))
		if s.Status == calculator.StatusError {
			return 1
		}
		return 0

	case !isTerminal(stdin):
		r := newREPL(manager, cfg.Session, stdout, logger)
		r.runBasic(bufio.NewReader(stdin), false)
		return 0

	default:
		r := newREPL(manager, cfg.Session, stdout, logger)
		r.run()
		return 0
	}
}

func openStore(path string) (store.Store, error) {
	if path == "" {
		return store.NewMemory(), nil
	}
	return store.NewSQLite(path)
}

// displayLanguage resolves the configured locale, falling back to the
// operating system's.
func displayLanguage(configured string) language.Tag {
	if configured != "" {
		if tag, err := locale.Parse(configured); err == nil {
			return tag
		}
	}
	return locale.FromEnvironment()
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
