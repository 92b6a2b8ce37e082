package export

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/heatslab/internal/storage"
)

func profile() storage.Profile {
	return storage.Profile{
		TEnd:      0.5,
		Dt:        0.01,
		Positions: []float64{0, 0.5, 1},
		Order:     []string{"analytical", "richardson"},
		Values: map[string][]float64{
			"analytical": {300, 145.5, 300},
			"richardson": {300, math.Inf(1), 300},
		},
	}
}

func TestProfilesToSVG(t *testing.T) {
	svg := ProfilesToSVG(profile(), 400, 200)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("expected a complete svg document")
	}
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("expected 2 paths, got %d", got)
	}
	if !strings.Contains(svg, "t = 0.5 h") {
		t.Error("missing title")
	}
	if strings.Contains(svg, "Inf") || strings.Contains(svg, "NaN") {
		t.Error("non-finite values leaked into the svg")
	}
}

func TestSeriesToSVGBreaksLine(t *testing.T) {
	svg := SeriesToSVG("x", []Series{{
		Label: "a",
		X:     []float64{0, 1, 2, 3},
		Y:     []float64{1, math.NaN(), 2, 3},
	}}, 100, 100)

	if got := strings.Count(svg, "M"); got < 2 {
		t.Errorf("expected the path to restart after a gap, got %d moves", got)
	}
}

func TestSeriesToSVGEmpty(t *testing.T) {
	if svg := SeriesToSVG("empty", nil, 100, 100); svg != "" {
		t.Errorf("expected empty output, got %q", svg)
	}
}

func TestExportJSON(t *testing.T) {
	meta := storage.RunMetadata{ID: "compare_1", Kind: storage.KindCompare}
	data := NewExportData(meta, []storage.Profile{profile()})

	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, data); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Run struct {
			ID string `json:"id"`
		} `json:"run"`
		Profiles []struct {
			Values map[string][]*float64 `json:"values"`
		} `json:"profiles"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded.Run.ID != "compare_1" {
		t.Errorf("expected id compare_1, got %s", decoded.Run.ID)
	}
	rich := decoded.Profiles[0].Values["richardson"]
	if rich[1] != nil {
		t.Errorf("expected null for infinite value, got %v", *rich[1])
	}
	if rich[0] == nil || *rich[0] != 300 {
		t.Error("finite values should be kept")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewExportData(storage.RunMetadata{}, nil)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"profiles": []`) {
		t.Errorf("unexpected output %s", buf.String())
	}
}
