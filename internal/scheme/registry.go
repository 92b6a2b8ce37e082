package scheme

import (
	"fmt"
	"sort"

	"github.com/san-kum/heatslab/internal/grid"
)

const (
	NameAnalytical    = "analytical"
	NameDuFortFrankel = "dufort-frankel"
	NameRichardson    = "richardson"
	NameLaasonen      = "laasonen"
	NameCrankNicolson = "crank-nicolson"
)

type entry struct {
	title string
	order int
	build func(grid.Params) Scheme
}

var registry = map[string]entry{
	NameAnalytical:    {"Analytical", 0, func(p grid.Params) Scheme { return NewAnalytical(p) }},
	NameDuFortFrankel: {"DuFort_Frankel", 1, func(p grid.Params) Scheme { return NewDuFortFrankel(p) }},
	NameRichardson:    {"Richardson", 2, func(p grid.Params) Scheme { return NewRichardson(p) }},
	NameLaasonen:      {"Laasonen", 3, func(p grid.Params) Scheme { return NewLaasonen(p) }},
	NameCrankNicolson: {"CrankNicolson", 4, func(p grid.Params) Scheme { return NewCrankNicolson(p) }},
}

// New builds the named scheme. p is validated first.
func New(name string, p grid.Params) (Scheme, error) {
	e, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownScheme, name, Names())
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return e.build(p), nil
}

// Names lists every registered scheme, analytical first.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return registry[names[i]].order < registry[names[j]].order
	})
	return names
}

// Numerical lists the registered schemes other than the analytical one.
func Numerical() []string {
	names := Names()
	return names[1:]
}

// Title is the display name used in file names and tables,
// e.g. "DuFort_Frankel". Unknown names are returned unchanged.
func Title(name string) string {
	if e, ok := registry[name]; ok {
		return e.title
	}
	return name
}

// Stable reports whether the scheme is expected to stay bounded for any r.
func Stable(name string) bool {
	return name != NameRichardson
}
