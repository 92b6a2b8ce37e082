package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/heatslab/internal/grid"
	"github.com/san-kum/heatslab/internal/scheme"
)

// Defaults describe the reference wall: 1 ft thick, 100 °F inside, 300 °F
// on both faces, D = 0.1 ft²/h.
const (
	DefaultTIn         = 100.0
	DefaultTExt        = 300.0
	DefaultXMin        = 0.0
	DefaultXMax        = 1.0
	DefaultTEnd        = 0.5
	DefaultDiffusivity = 0.1
	DefaultDx          = 0.05
	DefaultDt          = 0.01
)

var (
	DefaultSweepEndTimes  = []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	DefaultSweepTimeSteps = []float64{0.01, 0.025, 0.05, 0.1}
)

type Config struct {
	Scheme      string      `yaml:"scheme"`
	TIn         float64     `yaml:"t_in"`
	TExt        float64     `yaml:"t_ext"`
	XMin        float64     `yaml:"x_min"`
	XMax        float64     `yaml:"x_max"`
	TEnd        float64     `yaml:"t_end"`
	Diffusivity float64     `yaml:"diffusivity"`
	Dx          float64     `yaml:"dx"`
	Dt          float64     `yaml:"dt"`
	Terms       int         `yaml:"terms"`
	Sweep       SweepConfig `yaml:"sweep"`
}

type SweepConfig struct {
	EndTimes  []float64 `yaml:"t_end"`
	TimeSteps []float64 `yaml:"dt"`
}

func DefaultConfig() *Config {
	return &Config{
		Scheme:      scheme.NameLaasonen,
		TIn:         DefaultTIn,
		TExt:        DefaultTExt,
		XMin:        DefaultXMin,
		XMax:        DefaultXMax,
		TEnd:        DefaultTEnd,
		Diffusivity: DefaultDiffusivity,
		Dx:          DefaultDx,
		Dt:          DefaultDt,
		Terms:       scheme.DefaultTerms,
		Sweep: SweepConfig{
			EndTimes:  append([]float64(nil), DefaultSweepEndTimes...),
			TimeSteps: append([]float64(nil), DefaultSweepTimeSteps...),
		},
	}
}

// Load reads a yaml file over the defaults; keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	return LoadInto(path, DefaultConfig())
}

// LoadInto reads a yaml file over base, typically a preset. base is not
// modified; keys absent from the file keep the value from base.
func LoadInto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the physical section into validated grid parameters.
func (c *Config) Params() (grid.Params, error) {
	return grid.New(c.TIn, c.TExt, c.XMin, c.XMax, c.TEnd, c.Diffusivity, c.Dx, c.Dt)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Sweep.EndTimes = append([]float64(nil), c.Sweep.EndTimes...)
	cp.Sweep.TimeSteps = append([]float64(nil), c.Sweep.TimeSteps...)
	return &cp
}
