package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/heatslab/internal/config"
	"github.com/san-kum/heatslab/internal/experiment"
	"github.com/san-kum/heatslab/internal/logging"
	"github.com/san-kum/heatslab/internal/metrics"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	metricsOut string
	noSave     bool
	showPlot   bool

	// Problem overrides, applied only when set on the command line.
	tIn         float64
	tExt        float64
	xMin        float64
	xMax        float64
	tEnd        float64
	diffusivity float64
	dx          float64
	dt          float64
	terms       int

	sweepEnds  []float64
	sweepSteps []float64
	sweepName  string
	outPath    string
	frameRate  int

	logger   *slog.Logger
	recorder *metrics.Recorder
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "heatslab",
		Short:        "transient heat conduction through a plane wall",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = logging.New(level)
			recorder = metrics.NewRecorder()
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if metricsOut == "" {
				return nil
			}
			return writeMetrics(cmd.OutOrStdout(), metricsOut)
		},
	}

	defaults := config.DefaultConfig()
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".heatslab", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&metricsOut, "metrics-out", "", "write prometheus metrics to this file after the command (- for stdout)")
	pf.Float64Var(&tIn, "t-in", defaults.TIn, "initial interior temperature")
	pf.Float64Var(&tExt, "t-ext", defaults.TExt, "surface temperature")
	pf.Float64Var(&xMin, "x-min", defaults.XMin, "left face position")
	pf.Float64Var(&xMax, "x-max", defaults.XMax, "right face position")
	pf.Float64Var(&tEnd, "t-end", defaults.TEnd, "end time")
	pf.Float64Var(&diffusivity, "diffusivity", defaults.Diffusivity, "thermal diffusivity")
	pf.Float64Var(&dx, "dx", defaults.Dx, "space step")
	pf.Float64Var(&dt, "dt", defaults.Dt, "time step")
	pf.IntVar(&terms, "terms", defaults.Terms, "fourier terms of the analytical solution")

	runCmd := &cobra.Command{
		Use:   "run [scheme]",
		Short: "solve one scheme (default from config) and compare it with the analytical profile",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScheme,
	}
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "plot the profiles")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "solve every scheme and report error norms",
		Args:  cobra.NoArgs,
		RunE:  compareSchemes,
	}
	compareCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	compareCmd.Flags().BoolVar(&showPlot, "plot", false, "plot the profiles")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "compare every scheme at several end times",
		Args:  cobra.NoArgs,
		RunE:  sweepEndTimes,
	}
	sweepCmd.Flags().Float64SliceVar(&sweepEnds, "t-ends", nil, "end times (default from config)")
	sweepCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	dtSweepCmd := &cobra.Command{
		Use:   "dt-sweep",
		Short: "solve one scheme with several time steps",
		Args:  cobra.NoArgs,
		RunE:  sweepTimeSteps,
	}
	dtSweepCmd.Flags().Float64SliceVar(&sweepSteps, "dts", nil, "time steps (default from config)")
	dtSweepCmd.Flags().StringVar(&sweepName, "scheme", "", "scheme to sweep (default from config)")
	dtSweepCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored profiles",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "output", "o", "-", "output file (- for stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export stored profiles as svg charts",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "output", "o", ".", "output directory")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	schemesCmd := &cobra.Command{
		Use:   "schemes",
		Short: "list schemes",
		Args:  cobra.NoArgs,
		RunE:  listSchemes,
	}

	liveCmd := &cobra.Command{
		Use:   "live [scheme]",
		Short: "watch a scheme (default from config) march in time",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frames per second")

	rootCmd.AddCommand(runCmd, compareCmd, sweepCmd, dtSweepCmd, listCmd, plotCmd,
		exportJSONCmd, exportSVGCmd, presetsCmd, schemesCmd, liveCmd)
	return rootCmd
}

// loadConfig resolves defaults, then the preset, then the config file, then
// explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadInto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("t-in") {
		cfg.TIn = tIn
	}
	if flags.Changed("t-ext") {
		cfg.TExt = tExt
	}
	if flags.Changed("x-min") {
		cfg.XMin = xMin
	}
	if flags.Changed("x-max") {
		cfg.XMax = xMax
	}
	if flags.Changed("t-end") {
		cfg.TEnd = tEnd
	}
	if flags.Changed("diffusivity") {
		cfg.Diffusivity = diffusivity
	}
	if flags.Changed("dx") {
		cfg.Dx = dx
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("terms") {
		cfg.Terms = terms
	}
	return cfg, nil
}

func options(cfg *config.Config, schemes ...string) experiment.Options {
	return experiment.Options{
		Schemes:  schemes,
		Terms:    cfg.Terms,
		Logger:   logger,
		Recorder: recorder,
	}
}

// schemeArg picks the positional scheme name, falling back to the config.
func schemeArg(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Scheme
}

func writeMetrics(out io.Writer, path string) error {
	if path == "-" {
		return recorder.WriteText(out)
	}
	if err := prometheus.WriteToTextfile(path, recorder.Registry()); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	logger.Debug("metrics written", "path", path)
	return nil
}
