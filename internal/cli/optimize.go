package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kjhansen/streamcapture/internal/config"
	"github.com/kjhansen/streamcapture/pkg/capturedriver"
	"github.com/kjhansen/streamcapture/pkg/capturegraph"
	"github.com/kjhansen/streamcapture/pkg/dotviz"
	"github.com/kjhansen/streamcapture/pkg/ledger"
	"github.com/kjhansen/streamcapture/pkg/optimizer"
	"github.com/kjhansen/streamcapture/pkg/schedcache"
)

func (c *CLI) optimizeCommand() *cobra.Command {
	var (
		configPath string
		graphName  string
		graphFile  string
		strategy   string
		numStreams int
		latencyMS  int
		dotPath    string
		svgPath    string
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Run a capture strategy over a task graph and print the resulting schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if strategy != "" {
				cfg.Strategy = strategy
			}
			if numStreams > 0 {
				cfg.NumStreams = numStreams
			}
			if latencyMS > 0 {
				cfg.DriverLatencyMS = latencyMS
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			driver := capturedriver.NewSimDriver().WithLatency(time.Duration(cfg.DriverLatencyMS) * time.Millisecond)

			var g *capturegraph.Graph
			var err error
			if graphFile != "" {
				f, ferr := os.Open(graphFile)
				if ferr != nil {
					return fmt.Errorf("open %q: %w", graphFile, ferr)
				}
				defer f.Close()
				g, err = decodeGraph(f, driver)
			} else {
				g, err = demoGraph(graphName, driver)
			}
			if err != nil {
				return err
			}

			strat, err := buildStrategy(cfg)
			if err != nil {
				return err
			}

			cache, err := buildCache(cfg)
			if err != nil {
				return err
			}
			defer cache.Close()

			led, err := buildLedger(ctx, cfg)
			if err != nil {
				return err
			}
			defer led.Close()

			edgeCount := 0
			for _, n := range g.Nodes() {
				edgeCount += len(n.Successors())
			}

			cacheKey := schedcache.GraphKey(fmt.Sprintf("%s:%d", strat.Name(), cfg.NumStreams), g)
			if plan, hit, cerr := cache.Get(ctx, cacheKey); cerr == nil && hit {
				logger.Infof("cache hit for %s (%d nodes)", strat.Name(), len(plan.Nodes))
				printInfo("cache hit for %s", strat.Name())
				printStats(g.NodeCount(), edgeCount, true)
				printPlan(plan)
				return nil
			}

			start := time.Now()
			spin := newSpinner(fmt.Sprintf("optimizing %d nodes with %s", g.NodeCount(), strat.Name()))
			spin.Start()
			_, runErr := strat.Optimize(ctx, g, driver, capturedriver.NewStreamPool(capturedriver.NewPerThreadPool()), capturedriver.NewEventPool(capturedriver.NewPerThreadPool()))
			completed := time.Now()

			if runErr != nil {
				spin.StopWithError(runErr.Error())
			} else {
				spin.StopWithSuccess(fmt.Sprintf("optimized in %s", completed.Sub(start).Round(time.Millisecond)))
			}

			plan := schedcache.BuildPlan(strat.Name(), g)
			rec := ledger.NewRunRecord(strat.Name(), g.NodeCount(), cfg.NumStreams, plan, start, completed, runErr)
			if err := led.Record(ctx, rec); err != nil {
				printWarning("failed to record run: %v", err)
			}
			if runErr != nil {
				return runErr
			}

			if err := cache.Set(ctx, cacheKey, plan, time.Hour); err != nil {
				printWarning("failed to cache schedule: %v", err)
			}

			printStats(g.NodeCount(), edgeCount, false)
			printPlan(plan)

			if dotPath != "" {
				if err := os.WriteFile(dotPath, []byte(dotviz.ToDOT(g)), 0o644); err != nil {
					return fmt.Errorf("write dot file: %w", err)
				}
				printFile(dotPath)
			} else if graphFile == "" {
				printNextStep("render this schedule as a graph", "streamcapture optimize --graph "+graphName+" --dot schedule.dot")
			}
			if svgPath != "" {
				svg, err := dotviz.RenderSVG(g)
				if err != nil {
					return fmt.Errorf("render svg: %w", err)
				}
				if err := os.WriteFile(svgPath, svg, 0o644); err != nil {
					return fmt.Errorf("write svg file: %w", err)
				}
				printFile(svgPath)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")
	cmd.Flags().StringVar(&graphName, "graph", "diamond", "demo graph to optimize (chain, diamond, fanout, fanin)")
	cmd.Flags().StringVar(&graphFile, "file", "", "path to a JSON graph description (overrides --graph)")
	cmd.Flags().StringVar(&strategy, "strategy", "", "override the configured strategy (sequential, round-robin)")
	cmd.Flags().IntVar(&numStreams, "streams", 0, "override the configured stream count for round-robin")
	cmd.Flags().IntVar(&latencyMS, "latency-ms", 0, "override the configured simulated driver latency")
	cmd.Flags().StringVar(&dotPath, "dot", "", "write the schedule as Graphviz DOT to this path")
	cmd.Flags().StringVar(&svgPath, "svg", "", "write the schedule as SVG to this path")

	return cmd
}

func buildStrategy(cfg config.Config) (optimizer.Strategy, error) {
	switch cfg.Strategy {
	case "sequential":
		return optimizer.Sequential{}, nil
	case "round-robin":
		return optimizer.NewRoundRobin(cfg.NumStreams)
	default:
		return nil, fmt.Errorf("unknown strategy %q", cfg.Strategy)
	}
}

func buildCache(cfg config.Config) (schedcache.Cache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return schedcache.NewRedisCache(cfg.Cache.RedisAddr), nil
	case "memory":
		return schedcache.NewMemoryCache(), nil
	default:
		return schedcache.NewNullCache(), nil
	}
}

func buildLedger(ctx context.Context, cfg config.Config) (ledger.Ledger, error) {
	switch cfg.Ledger.Backend {
	case "mongo":
		return ledger.NewMongoLedger(ctx, cfg.Ledger.MongoURI, cfg.Ledger.MongoDatabase)
	default:
		return ledger.NewMemoryLedger(0), nil
	}
}

func printPlan(plan schedcache.Plan) {
	fmt.Println(StyleTitle.Render("Schedule"))
	printKeyValue("strategy", plan.Strategy)
	for _, n := range plan.Nodes {
		event := ""
		if n.HasEvent {
			event = " (records event)"
		}
		printDetail("%-10s level=%d idx=%d stream=%d%s", n.ID, n.Level, n.Idx, n.Stream, event)
	}
}
