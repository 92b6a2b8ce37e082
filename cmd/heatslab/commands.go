package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/heatslab/internal/config"
	"github.com/san-kum/heatslab/internal/experiment"
	"github.com/san-kum/heatslab/internal/export"
	"github.com/san-kum/heatslab/internal/scheme"
	"github.com/san-kum/heatslab/internal/storage"
	"github.com/san-kum/heatslab/internal/viz"
)

func runScheme(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	name := schemeArg(cfg, args)
	p, err := cfg.Params()
	if err != nil {
		return err
	}

	c, err := experiment.Compare(cmd.Context(), p, options(cfg, name))
	if err != nil {
		return err
	}
	res := c.Results[0]

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  (%s)\n\n", res.Title, p)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "X\tVALUE\tANALYTICAL\tERROR")
	for i, x := range c.Positions {
		fmt.Fprintf(w, "%.2f\t%.4f\t%.4f\t%.4f\n", x, res.Solution[i], c.Reference[i], res.Error[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nnorm one %.4f  norm two %.4f  uniform %.4f  (%s)\n",
		res.Norms.One, res.Norms.Two, res.Norms.Uniform, res.Elapsed.Round(time.Microsecond))
	if !res.Finite {
		fmt.Fprintln(out, "warning: solution is not finite")
	}

	if showPlot {
		plot := viz.PlotProfiles(
			[]string{scheme.NameAnalytical, name},
			[][]float64{c.Reference, res.Solution},
			fmt.Sprintf("t = %g h", p.TEnd), 60, 12,
		)
		fmt.Fprintln(out, "\n"+plot)
	}

	return save(out, func(st *storage.Store) (string, error) { return st.SaveComparisons(c) })
}

func compareSchemes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Params()
	if err != nil {
		return err
	}

	c, err := experiment.Compare(cmd.Context(), p, options(cfg))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "comparing schemes (%s)\n\n", p)
	if err := printNorms(out, c); err != nil {
		return err
	}

	if showPlot {
		labels := make([]string, 0, len(c.Results))
		profiles := make([][]float64, 0, len(c.Results))
		for _, r := range c.Results {
			if !scheme.Stable(r.Scheme) {
				continue
			}
			labels = append(labels, r.Scheme)
			profiles = append(profiles, r.Solution)
		}
		fmt.Fprintln(out, "\n"+viz.PlotProfiles(labels, profiles, fmt.Sprintf("t = %g h", p.TEnd), 60, 12))
	}

	return save(out, func(st *storage.Store) (string, error) { return st.SaveComparisons(c) })
}

func sweepEndTimes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Params()
	if err != nil {
		return err
	}
	ends := cfg.Sweep.EndTimes
	if cmd.Flags().Changed("t-ends") {
		ends = sweepEnds
	}
	if len(ends) == 0 {
		ends = config.DefaultSweepEndTimes
	}

	runs, err := experiment.SweepEndTimes(cmd.Context(), p, ends, options(cfg))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, c := range runs {
		fmt.Fprintf(out, "t_end = %g h\n", c.Params.TEnd)
		if err := printNorms(out, c); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	return save(out, func(st *storage.Store) (string, error) { return st.SaveComparisons(runs...) })
}

func sweepTimeSteps(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Params()
	if err != nil {
		return err
	}
	name := cfg.Scheme
	if cmd.Flags().Changed("scheme") {
		name = sweepName
	}
	steps := cfg.Sweep.TimeSteps
	if cmd.Flags().Changed("dts") {
		steps = sweepSteps
	}
	if len(steps) == 0 {
		steps = config.DefaultSweepTimeSteps
	}

	runs, err := experiment.SweepTimeSteps(cmd.Context(), p, steps, options(cfg, name))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s at t_end = %g h\n\n", scheme.Title(name), p.TEnd)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tR\tNORM ONE\tNORM TWO\tUNIFORM\tTIME")
	for _, r := range runs {
		n := r.Result.Norms
		fmt.Fprintf(w, "%g\t%d\t%.3f\t%.4f\t%.4f\t%.4f\t%s\n",
			r.Dt, r.Steps, r.R, n.One, n.Two, n.Uniform, r.Result.Elapsed.Round(time.Microsecond))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	return save(out, func(st *storage.Store) (string, error) { return st.SaveTimeSteps(runs) })
}

func printNorms(out io.Writer, c *experiment.Comparison) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCHEME\tNORM ONE\tNORM TWO\tUNIFORM\tFINITE\tTIME")
	for _, r := range c.Results {
		if r.Scheme == scheme.NameAnalytical {
			continue
		}
		fmt.Fprintf(w, "%s\t%.4g\t%.4g\t%.4g\t%v\t%s\n",
			r.Title, r.Norms.One, r.Norms.Two, r.Norms.Uniform, r.Finite, r.Elapsed.Round(time.Microsecond))
	}
	return w.Flush()
}

func save(out io.Writer, fn func(*storage.Store) (string, error)) error {
	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := fn(st)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	logger.Info("run saved", "id", runID, "dir", filepath.Join(dataDir, runID))
	fmt.Fprintf(out, "\nsaved: %s\n", runID)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTIME\tT_END\tDX\tDT\tENTRIES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%g\t%d\n",
			run.ID,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.TEnd,
			run.Params.Dx,
			run.Params.Dt,
			len(run.Entries),
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	profiles, err := st.LoadProfiles(runID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n\n", meta.ID, meta.Kind)
	for _, pr := range profiles {
		labels := make([]string, 0, len(pr.Order))
		series := make([][]float64, 0, len(pr.Order))
		for _, name := range pr.Order {
			labels = append(labels, name)
			series = append(series, pr.Values[name])
		}
		caption := fmt.Sprintf("t = %g h, dt = %g h", pr.TEnd, pr.Dt)
		fmt.Fprintln(out, viz.PlotProfiles(labels, series, caption, 60, 12))
		fmt.Fprintln(out)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	profiles, err := st.LoadProfiles(runID)
	if err != nil {
		return err
	}

	data := export.NewExportData(*meta, profiles)
	if outPath == "-" {
		return export.WriteJSON(cmd.OutOrStdout(), data)
	}
	return export.ExportJSON(outPath, data)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	profiles, err := st.LoadProfiles(runID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outPath, 0755); err != nil {
		return err
	}
	for _, pr := range profiles {
		key := pr.TEnd
		if meta.Kind == storage.KindTimeStep {
			key = pr.Dt
		}
		svg := export.ProfilesToSVG(pr, 800, 400)
		if svg == "" {
			logger.Warn("nothing to draw", "run", runID, "key", key)
			continue
		}
		path := filepath.Join(outPath, fmt.Sprintf("%s-%g.svg", runID, key))
		if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSCHEME\tT_END\tDX\tDT\tR")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		r := cfg.Diffusivity * cfg.Dt / (cfg.Dx * cfg.Dx)
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\t%.3f\n", name, cfg.Scheme, cfg.TEnd, cfg.Dx, cfg.Dt, r)
	}
	return w.Flush()
}

func listSchemes(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTITLE\tKIND\tSTABLE")
	for _, name := range scheme.Names() {
		kind := "implicit"
		switch name {
		case scheme.NameAnalytical:
			kind = "series"
		case scheme.NameDuFortFrankel, scheme.NameRichardson:
			kind = "explicit"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", name, scheme.Title(name), kind, scheme.Stable(name))
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Params()
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry(cfg.Terms)
	st, err := reg.GetStepper(schemeArg(cfg, args), p)
	if err != nil {
		return fmt.Errorf("%w (live needs one of: %s)", err, strings.Join(scheme.Numerical(), ", "))
	}

	interval := time.Second / 30
	if frameRate > 0 {
		interval = time.Second / time.Duration(frameRate)
	}
	m := viz.NewModel(st, reg.DefaultMonitors(p)...).WithInterval(interval)
	return viz.Run(m)
}
