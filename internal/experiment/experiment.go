package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/heatslab/internal/grid"
	"github.com/san-kum/heatslab/internal/logging"
	"github.com/san-kum/heatslab/internal/metrics"
	"github.com/san-kum/heatslab/internal/scheme"
)

const (
	OutcomeOK        = "ok"
	OutcomeNonFinite = "nonfinite"
	OutcomeError     = "error"
)

type Options struct {
	// Schemes to solve; defaults to every registered scheme.
	Schemes []string
	// Terms is the Fourier truncation order of the reference.
	Terms    int
	Logger   *slog.Logger
	Recorder *metrics.Recorder
}

func (o Options) withDefaults() Options {
	if len(o.Schemes) == 0 {
		o.Schemes = scheme.Names()
	}
	if o.Terms < 1 {
		o.Terms = scheme.DefaultTerms
	}
	if o.Logger == nil {
		o.Logger = logging.NewNop()
	}
	return o
}

// Result is one scheme's profile at TEnd and its deviation from the
// analytical reference. A Richardson blow-up shows up as Finite == false;
// the values are never clipped.
type Result struct {
	Scheme   string         `json:"scheme"`
	Title    string         `json:"title"`
	Solution []float64      `json:"solution"`
	Error    []float64      `json:"error"`
	Norms    metrics.Errors `json:"norms"`
	Finite   bool           `json:"finite"`
	Elapsed  time.Duration  `json:"elapsed_ns"`
}

type Comparison struct {
	Params    grid.Params `json:"params"`
	Positions []float64   `json:"positions"`
	Reference []float64   `json:"reference"`
	Results   []Result    `json:"results"`
}

// Result looks up the entry for a scheme name.
func (c *Comparison) Result(name string) (Result, bool) {
	for _, r := range c.Results {
		if r.Scheme == name {
			return r, true
		}
	}
	return Result{}, false
}

// Compare solves the analytical reference and then every requested scheme
// concurrently on p. The first failing scheme cancels the rest.
func Compare(ctx context.Context, p grid.Params, opts Options) (*Comparison, error) {
	opts = opts.withDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	reg := NewRegistry(opts.Terms)

	ref, err := reg.Get(scheme.NameAnalytical, p)
	if err != nil {
		return nil, err
	}
	if err := ref.Solve(ctx); err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	reference := ref.Solution()

	results := make([]Result, len(opts.Schemes))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range opts.Schemes {
		i, name := i, name
		g.Go(func() error {
			r, err := solve(gctx, reg, name, p, reference, opts)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Comparison{
		Params:    p,
		Positions: p.Positions(),
		Reference: reference,
		Results:   results,
	}, nil
}

func solve(ctx context.Context, reg *Registry, name string, p grid.Params, reference []float64, opts Options) (Result, error) {
	log := opts.Logger.With("scheme", name, "t_end", p.TEnd, "dt", p.Dt)

	s, err := reg.Get(name, p)
	if err != nil {
		return Result{}, err
	}

	log.Debug("solve started", "steps", p.Steps(), "r", p.R())
	start := time.Now()
	err = s.Solve(ctx)
	elapsed := time.Since(start)
	if err != nil {
		opts.observe(name, elapsed, OutcomeError)
		log.Error("solve failed", "error", err)
		return Result{}, fmt.Errorf("%s: %w", name, err)
	}

	u := s.Solution()
	norms, diff, err := metrics.Measure(u, reference)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", name, err)
	}

	res := Result{
		Scheme:   name,
		Title:    scheme.Title(name),
		Solution: u,
		Error:    diff,
		Norms:    norms,
		Finite:   metrics.Finite(u),
		Elapsed:  elapsed,
	}

	outcome := OutcomeOK
	if !res.Finite {
		outcome = OutcomeNonFinite
		log.Warn("solution is not finite", "elapsed", elapsed)
	}
	opts.observe(name, elapsed, outcome)
	if opts.Recorder != nil {
		opts.Recorder.ObserveError(name, norms)
	}
	log.Debug("solve finished", "elapsed", elapsed, "uniform", norms.Uniform)
	return res, nil
}

func (o Options) observe(name string, elapsed time.Duration, outcome string) {
	if o.Recorder != nil {
		o.Recorder.ObserveSolve(name, elapsed, outcome)
	}
}

// SweepEndTimes runs Compare once per end time, keeping every other
// parameter of p.
func SweepEndTimes(ctx context.Context, p grid.Params, endTimes []float64, opts Options) ([]*Comparison, error) {
	out := make([]*Comparison, 0, len(endTimes))
	for _, tEnd := range endTimes {
		c, err := Compare(ctx, p.WithEndTime(tEnd), opts)
		if err != nil {
			return nil, fmt.Errorf("t_end=%g: %w", tEnd, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// StepRun is one entry of a time-step sweep.
type StepRun struct {
	Params    grid.Params `json:"params"`
	Dt        float64     `json:"dt"`
	Steps     int         `json:"steps"`
	R         float64     `json:"r"`
	Reference []float64   `json:"reference"`
	Result    Result      `json:"result"`
}

// SweepTimeSteps solves a single scheme (Laasonen unless opts names one)
// for every dt, comparing each run against the analytical profile.
func SweepTimeSteps(ctx context.Context, p grid.Params, steps []float64, opts Options) ([]StepRun, error) {
	name := scheme.NameLaasonen
	if len(opts.Schemes) > 0 {
		name = opts.Schemes[0]
	}
	opts.Schemes = []string{name}

	out := make([]StepRun, 0, len(steps))
	for _, dt := range steps {
		q := p.WithTimeStep(dt)
		c, err := Compare(ctx, q, opts)
		if err != nil {
			return nil, fmt.Errorf("dt=%g: %w", dt, err)
		}
		out = append(out, StepRun{
			Params:    q,
			Dt:        dt,
			Steps:     q.Steps(),
			R:         q.R(),
			Reference: c.Reference,
			Result:    c.Results[0],
		})
	}
	return out, nil
}
