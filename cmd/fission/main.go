package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/fission/internal/automation"
	"github.com/san-kum/fission/internal/config"
	"github.com/san-kum/fission/internal/experiment"
	"github.com/san-kum/fission/internal/export"
	"github.com/san-kum/fission/internal/optim"
	"github.com/san-kum/fission/internal/sim"
	"github.com/san-kum/fission/internal/storage"
	"github.com/san-kum/fission/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	logFile    string
	preset     string
	configFile string
	seed       int64
	rounds     int
	strategy   string
	frameEvery int
	outPath    string
	frameIdx   int
	series     string
	trials     int
	benchTicks int
	gridParams []string
	metricName string
)

// main registers the fission commands. With no subcommand it opens the preset
// picker.
func main() {
	rootCmd := &cobra.Command{
		Use:   "fission",
		Short: "chain reaction simulation lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := tuiLogger()
			if err != nil {
				return err
			}
			defer closeLog()
			return viz.RunInteractive(seed, logger)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fission", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "play rounds headless and store the run",
		Args:  cobra.NoArgs,
		RunE:  runExperiment,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().IntVar(&frameEvery, "frame-every", 0, "store one frame every n ticks")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot per-round results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export metadata and rounds to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (default <run_id>.json)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a stored frame or a per-round series to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&frameIdx, "frame", -1, "frame index, negative counts from the end")
	exportSVGCmd.Flags().StringVar(&series, "series", "", "plot a per-round series instead: payout, chain, destroyed")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "play rounds in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().StringVar(&logFile, "log", "", "write logs to this file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, name := range config.ListPresets() {
				fmt.Fprintf(w, "%s\t%s\n", name, config.Presets[name].Description)
			}
			return w.Flush()
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run a preset over many seeds in parallel",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addConfigFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 32, "number of seeds")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure tick throughput per strategy",
		Args:  cobra.NoArgs,
		RunE:  benchStrategies,
	}
	addConfigFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 6000, "tick ceiling per round")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search strategy and physics parameters",
		Args:  cobra.NoArgs,
		RunE:  tuneParams,
	}
	addConfigFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&gridParams, "param", nil, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metricName, "metric", "banked", "metric to maximise")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, exportSVGCmd, liveCmd, presetsCmd, scenarioCmd, monteCarloCmd, benchCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "starter", "preset configuration")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml), applied over defaults")
	cmd.Flags().IntVar(&rounds, "rounds", 0, "rounds to play (0 keeps the configured value)")
	cmd.Flags().StringVar(&strategy, "strategy", "", "player strategy: none, manual, random, densest")
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// tuiLogger keeps log output off the terminal the viewer draws on.
func tuiLogger() (*slog.Logger, func(), error) {
	if logFile == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), func() { f.Close() }, nil
}

// loadConfig resolves the preset or config file, then applies flags.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		name string
		err  error
	)
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		name = "custom"
	} else {
		cfg, err = config.GetPreset(preset)
		if err != nil {
			return nil, "", fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
		name = preset
	}

	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if rounds > 0 {
		cfg.Rounds = rounds
	}
	if strategy != "" {
		cfg.Strategy = strategy
	}
	if f := cmd.Flags().Lookup("frame-every"); f != nil && f.Changed {
		cfg.FrameEvery = frameEvery
	}
	return cfg, name, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runExperiment(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry(), sim.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s: %d rounds, strategy %s, seed %d\n", name, cfg.Rounds, cfg.Strategy, cfg.Seed)
	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		logger.Warn("run interrupted", "err", err, "rounds", len(result.Rounds))
	}
	elapsed := time.Since(start)

	runID, saveErr := st.Save(name, cfg, result)
	if saveErr != nil {
		return saveErr
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n\n", runID)
	printRounds(result.Rounds)
	fmt.Printf("\ncoins: %d  rank: %d  ticks: %d\n", result.Coins, result.Rank, result.Ticks)
	printMetrics(result.Metrics)
	for _, e := range result.Errors {
		logger.Error("state check failed", "err", e)
	}
	return err
}

func printRounds(rs []experiment.RoundSummary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROUND\tEND\tTIME\tCLICKS\tDESTROYED\tSPECIALS\tMAX CHAIN\tPENDING\tPAYOUT")
	for _, r := range rs {
		fmt.Fprintf(w, "%d\t%s\t%.1fs\t%d\t%d\t%d\t%d\t%d\t%d\n",
			r.Index+1, r.Reason, r.Duration.Seconds(), r.Clicks, r.Destroyed, r.Specials, r.MaxChain, r.Pending, r.Payout)
	}
	w.Flush()
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.4f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tSTRATEGY\tROUNDS\tTICKS\tCOINS\tFRAMES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Strategy,
			run.Rounds,
			run.Ticks,
			run.Coins,
			run.Frames,
		)
	}
	return w.Flush()
}

// roundSeries extracts one per-round column by name.
func roundSeries(rs []experiment.RoundSummary, name string) ([]float64, error) {
	out := make([]float64, len(rs))
	for i, r := range rs {
		switch name {
		case "payout":
			out[i] = float64(r.Payout)
		case "chain":
			out[i] = float64(r.MaxChain)
		case "destroyed":
			out[i] = float64(r.Destroyed)
		default:
			return nil, fmt.Errorf("unknown series %q (payout, chain, destroyed)", name)
		}
	}
	return out, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rs, err := st.LoadRounds(runID)
	if err != nil {
		return err
	}
	if len(rs) == 0 {
		return fmt.Errorf("no rounds to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("strategy: %s\n", meta.Strategy)
	fmt.Printf("rounds: %d\n\n", len(rs))

	if len(rs) == 1 {
		printRounds(rs)
		return nil
	}

	for _, s := range []struct{ name, caption string }{
		{"payout", "payout per round"},
		{"chain", "max chain per round"},
		{"destroyed", "atoms destroyed per round"},
	} {
		data, _ := roundSeries(rs, s.name)
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		))
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	path := outPath
	if path == "" {
		path = runID + ".json"
	}

	st := storage.New(dataDir)
	if err := st.ExportJSON(runID, path); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	path := outPath
	if path == "" {
		path = runID + ".svg"
	}

	st := storage.New(dataDir)
	var svg string
	if series != "" {
		rs, err := st.LoadRounds(runID)
		if err != nil {
			return err
		}
		data, err := roundSeries(rs, series)
		if err != nil {
			return err
		}
		if svg = export.SeriesToSVG(data, 800, 300, string(viz.ThemeReactor.Normal)); svg == "" {
			return fmt.Errorf("need at least two rounds for a series")
		}
	} else {
		meta, err := st.Load(runID)
		if err != nil {
			return err
		}
		frames, err := st.LoadFrames(runID)
		if err != nil {
			return err
		}
		if len(frames) == 0 {
			return fmt.Errorf("run %s has no stored frames (run with --frame-every)", runID)
		}
		idx := frameIdx
		if idx < 0 {
			idx += len(frames)
		}
		if idx < 0 || idx >= len(frames) {
			return fmt.Errorf("frame %d out of range [0, %d)", frameIdx, len(frames))
		}
		f := frames[idx]
		svg = export.FrameToSVG(f.Neutrons, f.AtomList(), f.Texts, meta.Width, meta.Height, viz.ThemeReactor)
	}

	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := tuiLogger()
	if err != nil {
		return err
	}
	defer closeLog()
	return viz.Run(cfg, name, logger)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	logger := newLogger()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario: %s (%d steps)\n", sc.Name, len(sc.Steps))
	results, err := automation.RunScenario(ctx, sc, experiment.NewRegistry(), logger)
	for i, r := range results {
		fmt.Printf("\nstep %d: %s  coins %d\n", i+1, r.Step.Name, r.Result.Coins)
		printRounds(r.Result.Rounds)
		if r.Step.SaveAs == "" {
			continue
		}
		runID, saveErr := st.Save(r.Step.SaveAs, r.Config, r.Result)
		if saveErr != nil {
			return saveErr
		}
		fmt.Printf("saved as %s\n", runID)
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("monte carlo: %s, %d trials from seed %d\n", name, trials, cfg.Seed)
	start := time.Now()
	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:      cfg,
		NumTrials: trials,
		SeedStart: cfg.Seed,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}
	st := automation.MonteCarloStats(results)

	fmt.Printf("completed in %v\n\n", time.Since(start))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "coins mean\t%.1f\n", st.MeanCoins)
	fmt.Fprintf(w, "coins std\t%.1f\n", st.StdCoins)
	fmt.Fprintf(w, "coins median\t%.1f\n", st.MedianCoin)
	fmt.Fprintf(w, "coins range\t%d .. %d\n", st.MinCoins, st.MaxCoins)
	fmt.Fprintf(w, "max chain mean\t%.2f\n", st.MeanChain)
	fmt.Fprintf(w, "best chain\t%d\n", st.BestChain)
	fmt.Fprintf(w, "idle endings\t%.0f%%\n", st.IdleRate*100)
	return w.Flush()
}

func benchStrategies(cmd *cobra.Command, args []string) error {
	base, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()

	fmt.Printf("benchmarking %s\n\n", name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STRATEGY\tROUNDS\tTICKS\tTIME\tTICKS/SEC\tCOINS")

	for _, s := range reg.ListStrategies() {
		cfg := base.Clone()
		cfg.Strategy = s
		cfg.MaxRoundTicks = benchTicks

		exp, err := experiment.New(cfg, reg)
		if err != nil {
			return err
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.0f\t%d\n",
			s, len(result.Rounds), result.Ticks, elapsed.Round(time.Microsecond),
			float64(result.Ticks)/elapsed.Seconds(), result.Coins)
	}
	return w.Flush()
}

// parseGrid reads name=v1,v2,... specs.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("bad --param %q, want name=v1,v2", spec)
		}
		var vals []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad value in --param %q: %w", spec, err)
			}
			vals = append(vals, v)
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}

func tuneParams(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(gridParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}
	names, ranges, err := parseGrid(gridParams)
	if err != nil {
		return err
	}
	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("tuning %s on %s, seed %d\n\n", metricName, name, cfg.Seed)
	best, trials, err := g.Search(ctx, cfg, experiment.NewRegistry(), metricName)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(metricName))
	for _, t := range trials {
		cells := make([]string, len(names))
		for i, n := range names {
			cells[i] = strconv.FormatFloat(t.Params[n], 'g', -1, 64)
		}
		fmt.Fprintf(w, "%s\t%.4f\n", strings.Join(cells, "\t"), t.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest: %v -> %.4f\n", best.Params, best.Value)
	return nil
}
