package export

import (
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/san-kum/heatslab/internal/storage"
)

type ExportData struct {
	Run      storage.RunMetadata `json:"run"`
	Profiles []ProfileData       `json:"profiles"`
}

// ProfileData holds one sweep point. Non-finite temperatures are written as
// null since JSON has no representation for them.
type ProfileData struct {
	TEnd      float64               `json:"t_end"`
	Dt        float64               `json:"dt"`
	Positions []float64             `json:"positions"`
	Values    map[string][]*float64 `json:"values"`
}

func NewExportData(meta storage.RunMetadata, profiles []storage.Profile) ExportData {
	data := ExportData{Run: meta, Profiles: make([]ProfileData, 0, len(profiles))}
	for _, p := range profiles {
		pd := ProfileData{
			TEnd:      p.TEnd,
			Dt:        p.Dt,
			Positions: p.Positions,
			Values:    make(map[string][]*float64, len(p.Values)),
		}
		for name, u := range p.Values {
			pd.Values[name] = nullable(u)
		}
		data.Profiles = append(data.Profiles, pd)
	}
	return data
}

func nullable(u []float64) []*float64 {
	out := make([]*float64, len(u))
	for i, v := range u {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		v := v
		out[i] = &v
	}
	return out
}

// WriteJSON encodes data with indentation.
func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSON writes data to path, or to stdout when path is "-".
func ExportJSON(path string, data ExportData) error {
	if path == "-" {
		return WriteJSON(os.Stdout, data)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, data)
}
