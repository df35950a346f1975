package convert

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/josuanbn/bl2u1/internal/filament"
)

// Plan is the on-disk TOML form of a filament selection. Entries whose keep
// flag is false or omitted are dropped from the conversion; entries naming
// unknown filaments are ignored.
type Plan struct {
	Filaments []PlanFilament `toml:"filament"`
}

// PlanFilament is one [[filament]] block. Empty color or type keeps the
// package's current value.
type PlanFilament struct {
	ID    string `toml:"id"`
	Color string `toml:"color"`
	Type  string `toml:"type"`
	Keep  bool   `toml:"keep"`
}

// LoadPlan reads a plan file and returns the edit set it declares.
func LoadPlan(path string) (map[string]filament.Edit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan: %w", err)
	}
	var p Plan
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing plan %s: %w", path, err)
	}
	edits := make(map[string]filament.Edit)
	for _, f := range p.Filaments {
		if !f.Keep {
			continue
		}
		edits[f.ID] = filament.Edit{Color: f.Color, Type: f.Type}
	}
	return edits, nil
}

// WritePlan writes a starter plan that keeps every filament as-is, for the
// user to edit before converting.
func WritePlan(path string, fils []filament.Filament) error {
	p := Plan{Filaments: make([]PlanFilament, len(fils))}
	for i, f := range fils {
		p.Filaments[i] = PlanFilament{ID: f.ID, Color: f.Color, Type: f.Type, Keep: true}
	}
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling plan: %w", err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing plan: %w", err)
	}
	return nil
}
