package commands

import (
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/radpipe/radpipe/internal/config"
	"github.com/radpipe/radpipe/internal/journal"
	"github.com/radpipe/radpipe/internal/metrics"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"radpipe.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Quiet   bool             `short:"q" help:"Suppress load notices"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Inspect InspectCmd `cmd:"" help:"Load a saved assembly (snapshot or archive) and print a summary"`
	Export  ExportCmd  `cmd:"" help:"Export a binary snapshot to a portable text archive"`
	Import  ImportCmd  `cmd:"" help:"Import a text archive and write a binary snapshot"`
	Check   CheckCmd   `cmd:"" help:"Check a snapshot against the current schema without migrating"`
	History HistoryCmd `cmd:"" help:"Show the persistence journal"`
	Watch   WatchCmd   `cmd:"" help:"Watch an archive for changes and revalidate it"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// runtime bundles the collaborators a command needs, built from config.
type runtime struct {
	Config  *config.Config
	Journal journal.Store
	Metrics *metrics.Collector
	Quiet   bool
}

func newRuntime(root *CLI) (*runtime, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	if !root.Verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: parseLogLevel(cfg.LogLevel),
		})))
	}

	rt := &runtime{
		Config:  cfg,
		Metrics: metrics.NewCollector(),
		Quiet:   root.Quiet || cfg.Quiet,
	}
	if cfg.JournalPath != "" {
		store, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return nil, err
		}
		rt.Journal = store
	}
	return rt, nil
}

func (rt *runtime) close() {
	if rt.Journal != nil {
		_ = rt.Journal.Close()
	}
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
