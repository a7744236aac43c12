package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kjhansen/streamcapture/pkg/buildinfo"
)

// LogLevel selects verbosity for a CLI invocation.
type LogLevel int

const (
	// LogInfo is the default level.
	LogInfo LogLevel = iota
	// LogDebug is enabled via --verbose.
	LogDebug
)

func (l LogLevel) charm() log.Level {
	if l == LogDebug {
		return log.DebugLevel
	}
	return log.InfoLevel
}

// CLI holds the shared state for building and executing commands.
type CLI struct {
	out    io.Writer
	logger *log.Logger
}

// New creates a CLI writing logs to w at the given level.
func New(w io.Writer, level LogLevel) *CLI {
	return &CLI{
		out:    w,
		logger: newLogger(w, level.charm()),
	}
}

// SetLogLevel replaces the CLI's logger with one at the given level.
func (c *CLI) SetLogLevel(level LogLevel) {
	c.logger = newLogger(c.out, level.charm())
}

// RootCommand builds the root cobra command and all subcommands.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "streamcapture",
		Short:         "Optimize heterogeneous task graphs into capture-mode command streams",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       buildinfo.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.logger))
			return nil
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(
		c.optimizeCommand(),
		c.serveCommand(),
		c.tuiCommand(),
		c.completionCommand(),
	)
	return root
}
