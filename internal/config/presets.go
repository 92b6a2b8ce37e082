package config

import (
	"sort"

	"github.com/san-kum/heatslab/internal/scheme"
)

var Presets = map[string]func() *Config{
	// The reference wall.
	"wall": DefaultConfig,
	"coarse": func() *Config {
		c := DefaultConfig()
		c.Dt = 0.1
		return c
	},
	"fine": func() *Config {
		c := DefaultConfig()
		c.Dx = 0.025
		c.Dt = 0.001
		return c
	},
	"steady": func() *Config {
		c := DefaultConfig()
		c.TEnd = 20
		c.Dt = 0.05
		c.Scheme = scheme.NameLaasonen
		return c
	},
	"unstable": func() *Config {
		c := DefaultConfig()
		c.TEnd = 5
		c.Scheme = scheme.NameRichardson
		return c
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
