package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/heatslab/internal/experiment"
	"github.com/san-kum/heatslab/internal/grid"
	"github.com/san-kum/heatslab/internal/scheme"
)

var ErrRunNotFound = errors.New("run not found")

const (
	KindCompare  = "compare"
	KindTimeStep = "dt-sweep"

	metadataFile = "metadata.json"
	profilesFile = "profiles.csv"
	normsFile    = "norms.txt"
)

// Short labels used in norms.txt.
var normLabels = map[string]string{
	scheme.NameDuFortFrankel: "DFF",
	scheme.NameRichardson:    "RI",
	scheme.NameLaasonen:      "LSI",
	scheme.NameCrankNicolson: "CN",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Entry summarises one scheme solve. Norms are omitted when the solution
// is not finite.
type Entry struct {
	Scheme    string   `json:"scheme"`
	Title     string   `json:"title"`
	TEnd      float64  `json:"t_end"`
	Dt        float64  `json:"dt"`
	Finite    bool     `json:"finite"`
	NormOne   *float64 `json:"norm_one,omitempty"`
	NormTwo   *float64 `json:"norm_two,omitempty"`
	Uniform   *float64 `json:"uniform,omitempty"`
	ElapsedNS int64    `json:"elapsed_ns"`
}

type RunMetadata struct {
	ID        string      `json:"id"`
	Kind      string      `json:"kind"`
	Timestamp time.Time   `json:"timestamp"`
	Params    grid.Params `json:"params"`
	Entries   []Entry     `json:"entries"`
}

// Profile is every scheme's solution at one sweep point.
type Profile struct {
	TEnd      float64
	Dt        float64
	Positions []float64
	Values    map[string][]float64
	Order     []string
}

// section is one sweep point on its way to disk.
type section struct {
	params    grid.Params
	label     string
	positions []float64
	reference []float64
	results   []experiment.Result
}

// SaveComparisons stores one or more comparisons (a single run or an
// end-time sweep) as a new run and returns its ID.
func (s *Store) SaveComparisons(comparisons ...*experiment.Comparison) (string, error) {
	if len(comparisons) == 0 {
		return "", fmt.Errorf("nothing to save")
	}
	sections := make([]section, 0, len(comparisons))
	for _, c := range comparisons {
		sections = append(sections, section{
			params:    c.Params,
			label:     formatKey(c.Params.TEnd),
			positions: c.Positions,
			reference: c.Reference,
			results:   c.Results,
		})
	}
	return s.save(KindCompare, "", sections)
}

// SaveTimeSteps stores a time-step sweep. Profile files carry a "dt_" prefix
// and the sweep key is the time step.
func (s *Store) SaveTimeSteps(runs []experiment.StepRun) (string, error) {
	if len(runs) == 0 {
		return "", fmt.Errorf("nothing to save")
	}
	sections := make([]section, 0, len(runs))
	for _, r := range runs {
		sections = append(sections, section{
			params:    r.Params,
			label:     formatKey(r.Dt),
			positions: r.Params.Positions(),
			reference: r.Reference,
			results:   []experiment.Result{r.Result},
		})
	}
	return s.save(KindTimeStep, "dt_", sections)
}

func (s *Store) save(kind, prefix string, sections []section) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", kind, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Kind:      kind,
		Timestamp: now,
		Params:    sections[0].params,
	}
	for _, sec := range sections {
		for _, r := range sec.results {
			meta.Entries = append(meta.Entries, entryFor(sec.params, r))
		}
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	for _, sec := range sections {
		for _, r := range sec.results {
			name := fmt.Sprintf("%s%s-%s.txt", prefix, r.Title, sec.label)
			if err := writeProfile(filepath.Join(runDir, name), sec.positions, r); err != nil {
				return "", err
			}
		}
	}

	if err := writeNorms(filepath.Join(runDir, normsFile), sections); err != nil {
		return "", err
	}
	if err := writeProfiles(filepath.Join(runDir, profilesFile), sections); err != nil {
		return "", err
	}

	return runID, nil
}

func entryFor(p grid.Params, r experiment.Result) Entry {
	e := Entry{
		Scheme:    r.Scheme,
		Title:     r.Title,
		TEnd:      p.TEnd,
		Dt:        p.Dt,
		Finite:    r.Finite,
		ElapsedNS: r.Elapsed.Nanoseconds(),
	}
	e.NormOne = finitePtr(r.Norms.One)
	e.NormTwo = finitePtr(r.Norms.Two)
	e.Uniform = finitePtr(r.Norms.Uniform)
	return e
}

func finitePtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeProfile writes "x value error" rows with two decimals. The analytical
// profile has no error column.
func writeProfile(path string, positions []float64, r experiment.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for i, x := range positions {
		if r.Scheme == scheme.NameAnalytical {
			_, err = fmt.Fprintf(f, "%.2f %.2f\n", x, r.Solution[i])
		} else {
			_, err = fmt.Fprintf(f, "%.2f %.2f %.2f\n", x, r.Solution[i], r.Error[i])
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writeNorms(path string, sections []section) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, sec := range sections {
		if _, err := fmt.Fprintf(f, "Scheme @%s : Norm One // Norm Two // Uniform Norm\n", sec.label); err != nil {
			return err
		}
		for _, r := range sec.results {
			label, ok := normLabels[r.Scheme]
			if !ok {
				continue
			}
			if _, err := fmt.Fprintf(f, "%s : %.2f %.2f %.2f\n", label, r.Norms.One, r.Norms.Two, r.Norms.Uniform); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeProfiles(path string, sections []section) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"t_end", "dt", "x", scheme.NameAnalytical}
	var order []string
	for _, r := range sections[0].results {
		if r.Scheme != scheme.NameAnalytical {
			order = append(order, r.Scheme)
		}
	}
	header = append(header, order...)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, sec := range sections {
		values := make(map[string][]float64, len(sec.results))
		for _, r := range sec.results {
			values[r.Scheme] = r.Solution
		}
		for i, x := range sec.positions {
			row := []string{formatFloat(sec.params.TEnd), formatFloat(sec.params.Dt), formatFloat(x), formatFloat(sec.reference[i])}
			for _, name := range order {
				u, ok := values[name]
				if !ok {
					row = append(row, "")
					continue
				}
				row = append(row, formatFloat(u[i]))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatKey renders a sweep value for file names, e.g. 0.1 -> "0.1".
func formatKey(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, metadataFile)
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s: %w", metaPath, err)
	}

	return &meta, nil
}

// LoadProfiles reads profiles.csv back, one Profile per sweep point in the
// order they were saved.
func (s *Store) LoadProfiles(runID string) ([]Profile, error) {
	csvPath := filepath.Join(s.baseDir, runID, profilesFile)
	file, err := os.Open(csvPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Profile{}, nil
	}

	header := records[0]
	if len(header) < 4 {
		return nil, fmt.Errorf("%s: malformed header %v", csvPath, header)
	}
	names := header[3:]

	var profiles []Profile
	var cur *Profile
	for i, record := range records[1:] {
		if len(record) < 3 {
			continue
		}
		row, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", csvPath, i+2, err)
		}
		tEnd, dt, x := row[0], row[1], row[2]

		if cur == nil || cur.TEnd != tEnd || cur.Dt != dt {
			profiles = append(profiles, Profile{
				TEnd:   tEnd,
				Dt:     dt,
				Values: make(map[string][]float64, len(names)),
				Order:  names,
			})
			cur = &profiles[len(profiles)-1]
		}

		cur.Positions = append(cur.Positions, x)
		for j, name := range names {
			if 3+j >= len(record) || record[3+j] == "" {
				continue
			}
			cur.Values[name] = append(cur.Values[name], row[3+j])
		}
	}

	return profiles, nil
}

// parseRow converts a CSV record to floats; empty cells become NaN.
func parseRow(record []string) ([]float64, error) {
	row := make([]float64, len(record))
	for i, cell := range record {
		if cell == "" {
			row[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}
