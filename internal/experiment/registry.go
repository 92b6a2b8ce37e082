package experiment

import (
	"fmt"
	"math"

	"github.com/san-kum/heatslab/internal/grid"
	"github.com/san-kum/heatslab/internal/metrics"
	"github.com/san-kum/heatslab/internal/scheme"
)

// Registry builds schemes by name. It differs from scheme.New only in that
// the analytical reference carries a configurable truncation order.
type Registry struct {
	schemes map[string]func(grid.Params) (scheme.Scheme, error)
}

func NewRegistry(terms int) *Registry {
	r := &Registry{schemes: make(map[string]func(grid.Params) (scheme.Scheme, error))}

	for _, name := range scheme.Names() {
		name := name
		r.schemes[name] = func(p grid.Params) (scheme.Scheme, error) { return scheme.New(name, p) }
	}
	r.schemes[scheme.NameAnalytical] = func(p grid.Params) (scheme.Scheme, error) {
		return scheme.NewAnalyticalTerms(p, terms), nil
	}

	return r
}

func (r *Registry) Get(name string, p grid.Params) (scheme.Scheme, error) {
	build, ok := r.schemes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", scheme.ErrUnknownScheme, name)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return build(p)
}

// GetStepper is Get restricted to schemes that march in time.
func (r *Registry) GetStepper(name string, p grid.Params) (scheme.Stepper, error) {
	s, err := r.Get(name, p)
	if err != nil {
		return nil, err
	}
	st, ok := s.(scheme.Stepper)
	if !ok {
		return nil, fmt.Errorf("%s has no time levels to step through", name)
	}
	return st, nil
}

// List returns the registered names in display order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.schemes))
	for _, name := range scheme.Names() {
		if _, ok := r.schemes[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// DefaultMonitors are the per-level observers used by the live viewer.
func (r *Registry) DefaultMonitors(p grid.Params) []metrics.Monitor {
	return []metrics.Monitor{
		metrics.NewMeanTemperature(),
		metrics.NewDivergence(p.TIn, p.TExt, 0.1*math.Abs(p.TExt-p.TIn)),
	}
}

