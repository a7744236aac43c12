package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kjhansen/streamcapture/internal/config"
	"github.com/kjhansen/streamcapture/internal/tui"
	"github.com/kjhansen/streamcapture/pkg/capturedriver"
	"github.com/kjhansen/streamcapture/pkg/schedcache"
)

func (c *CLI) tuiCommand() *cobra.Command {
	var (
		graphName  string
		graphFile  string
		strategy   string
		numStreams int
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch an interactive, level-by-level schedule viewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if strategy != "" {
				cfg.Strategy = strategy
			}
			if numStreams > 0 {
				cfg.NumStreams = numStreams
			}

			driver := capturedriver.NewSimDriver()

			var g, err = demoGraph(graphName, driver)
			if graphFile != "" {
				var f *os.File
				f, err = os.Open(graphFile)
				if err != nil {
					return fmt.Errorf("open %q: %w", graphFile, err)
				}
				defer f.Close()
				g, err = decodeGraph(f, driver)
			}
			if err != nil {
				return err
			}

			strat, err := buildStrategy(cfg)
			if err != nil {
				return err
			}

			streamPool := capturedriver.NewStreamPool(capturedriver.NewPerThreadPool())
			eventPool := capturedriver.NewEventPool(capturedriver.NewPerThreadPool())
			if _, err := strat.Optimize(context.Background(), g, driver, streamPool, eventPool); err != nil {
				return err
			}

			plan := schedcache.BuildPlan(strat.Name(), g)

			p := tea.NewProgram(tui.New(plan))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&graphName, "graph", "diamond", "demo graph to view (chain, diamond, fanout, fanin)")
	cmd.Flags().StringVar(&graphFile, "file", "", "path to a JSON graph description (overrides --graph)")
	cmd.Flags().StringVar(&strategy, "strategy", "round-robin", "strategy to schedule with")
	cmd.Flags().IntVar(&numStreams, "streams", 4, "stream count for round-robin")

	return cmd
}
