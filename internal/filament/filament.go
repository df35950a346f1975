// Package filament defines the filament model shared by the metadata
// rewriters and the settings merger: colors, material types, and the
// identifier remapping computed once per conversion.
package filament

// DefaultMaterial is assumed whenever a package declares no material type.
const DefaultMaterial = "PLA"

// Filament is one extruder entry as declared by the source package. ID is
// the identifier the package's own metadata uses; a []Filament preserves
// document order.
type Filament struct {
	ID    string
	Color string // #RRGGBB
	Type  string
}

// Edit is a caller-supplied replacement for one filament. Empty fields keep
// the filament's current value.
type Edit struct {
	Color string
	Type  string
}

// IDMap translates original filament identifiers to the dense 1-based
// identifiers the rewritten package uses.
type IDMap map[string]string

// Mapped is one kept filament after remapping.
type Mapped struct {
	OldID string
	NewID string
	Color string // #RRGGBB
	Type  string
}
