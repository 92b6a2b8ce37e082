package storage

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/heatslab/internal/experiment"
	"github.com/san-kum/heatslab/internal/grid"
	"github.com/san-kum/heatslab/internal/scheme"
)

func compare(t *testing.T, tEnd float64) *experiment.Comparison {
	t.Helper()
	p, err := grid.New(100, 300, 0, 1, tEnd, 0.1, 0.05, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	c, err := experiment.Compare(context.Background(), p, experiment.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.SaveComparisons(compare(t, 0.5))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, KindCompare) {
		t.Errorf("unexpected run id %s", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Kind != KindCompare {
		t.Errorf("expected kind %s, got %s", KindCompare, meta.Kind)
	}
	if meta.Params.TEnd != 0.5 {
		t.Errorf("expected t_end 0.5, got %f", meta.Params.TEnd)
	}
	if len(meta.Entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(meta.Entries))
	}
	for _, e := range meta.Entries {
		if !e.Finite {
			t.Errorf("%s: expected finite at t=0.5", e.Scheme)
		}
		if e.Uniform == nil {
			t.Errorf("%s: missing uniform norm", e.Scheme)
		}
	}

	profiles, err := st.LoadProfiles(runID)
	if err != nil {
		t.Fatalf("load profiles failed: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(profiles))
	}
	pr := profiles[0]
	if len(pr.Positions) != 21 {
		t.Errorf("expected 21 positions, got %d", len(pr.Positions))
	}
	if len(pr.Order) != 5 || pr.Order[0] != scheme.NameAnalytical {
		t.Errorf("unexpected order %v", pr.Order)
	}
	for _, name := range pr.Order {
		if len(pr.Values[name]) != 21 {
			t.Errorf("%s: expected 21 values, got %d", name, len(pr.Values[name]))
		}
	}
	if got := pr.Values[scheme.NameCrankNicolson][0]; got != 300 {
		t.Errorf("expected boundary 300, got %f", got)
	}
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runID, err := st.SaveComparisons(compare(t, 0.1))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(dir, runID)
	for _, name := range []string{
		"metadata.json", "profiles.csv", "norms.txt",
		"Analytical-0.1.txt", "DuFort_Frankel-0.1.txt", "Richardson-0.1.txt",
		"Laasonen-0.1.txt", "CrankNicolson-0.1.txt",
	} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	data, err := os.ReadFile(filepath.Join(runDir, "Laasonen-0.1.txt"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 21 {
		t.Fatalf("expected 21 lines, got %d", len(lines))
	}
	if lines[0] != "0.00 300.00 0.00" {
		t.Errorf("unexpected first line %q", lines[0])
	}

	data, err = os.ReadFile(filepath.Join(runDir, "Analytical-0.1.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if first := strings.SplitN(string(data), "\n", 2)[0]; first != "0.00 300.00" {
		t.Errorf("unexpected analytical line %q", first)
	}

	data, err = os.ReadFile(filepath.Join(runDir, "norms.txt"))
	if err != nil {
		t.Fatal(err)
	}
	norms := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(norms) != 5 {
		t.Fatalf("expected header + 4 lines, got %d", len(norms))
	}
	if norms[0] != "Scheme @0.1 : Norm One // Norm Two // Uniform Norm" {
		t.Errorf("unexpected header %q", norms[0])
	}
	if !strings.HasPrefix(norms[1], "DFF : ") || !strings.HasPrefix(norms[4], "CN : ") {
		t.Errorf("unexpected norm lines %v", norms[1:])
	}
}

func TestStoreSweep(t *testing.T) {
	st := New(t.TempDir())

	runID, err := st.SaveComparisons(compare(t, 0.1), compare(t, 0.2))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	profiles, err := st.LoadProfiles(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	if profiles[0].TEnd != 0.1 || profiles[1].TEnd != 0.2 {
		t.Errorf("unexpected end times %f %f", profiles[0].TEnd, profiles[1].TEnd)
	}
}

func TestStoreTimeSteps(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	p, _ := grid.New(100, 300, 0, 1, 0.5, 0.1, 0.05, 0.01)
	runs, err := experiment.SweepTimeSteps(context.Background(), p, []float64{0.01, 0.1}, experiment.Options{})
	if err != nil {
		t.Fatal(err)
	}

	runID, err := st.SaveTimeSteps(runs)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"dt_Laasonen-0.01.txt", "dt_Laasonen-0.1.txt"} {
		if _, err := os.Stat(filepath.Join(dir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Kind != KindTimeStep || len(meta.Entries) != 2 {
		t.Errorf("unexpected metadata %+v", meta)
	}

	profiles, err := st.LoadProfiles(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 2 || profiles[1].Dt != 0.1 {
		t.Fatalf("unexpected profiles %+v", profiles)
	}
	if len(profiles[0].Values[scheme.NameLaasonen]) != 21 {
		t.Errorf("expected laasonen column")
	}
}

func TestStoreNonFinite(t *testing.T) {
	st := New(t.TempDir())

	runID, err := st.SaveComparisons(compare(t, 10))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range meta.Entries {
		if e.Scheme == scheme.NameRichardson {
			if e.Finite || e.Uniform != nil {
				t.Errorf("richardson entry should be flagged: %+v", e)
			}
		}
	}

	profiles, err := st.LoadProfiles(runID)
	if err != nil {
		t.Fatal(err)
	}
	rich := profiles[0].Values[scheme.NameRichardson]
	blown := false
	for _, v := range rich {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			blown = true
		}
	}
	if !blown {
		t.Error("non-finite values should survive the round trip")
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.SaveComparisons(compare(t, 0.1)); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := st.SaveComparisons(compare(t, 0.2)); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Timestamp.After(runs[1].Timestamp) {
		t.Error("runs should be sorted oldest first")
	}
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadProfiles("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.SaveComparisons(); err == nil {
		t.Error("expected error for empty save")
	}
}

func TestListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}
