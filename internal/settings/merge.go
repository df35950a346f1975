package settings

import (
	"strings"

	"github.com/josuanbn/bl2u1/internal/filament"
)

// ProfileLookup resolves a material type to the settings profile identifier
// the target printer uses for it.
type ProfileLookup interface {
	// ProfileFor returns the profile for a material type, or ok = false
	// when the catalog has no entry for it.
	ProfileFor(materialType string) (string, bool)
	// DefaultProfile is used for material types the catalog does not know.
	DefaultProfile() string
}

const (
	colourKey   = "filament_colour"
	typeKey     = "filament_type"
	profileKey  = "filament_settings_id"
	arrayPrefix = "filament_"

	// fillerColor backfills unused slots, marker-less opaque white.
	fillerColor = "FFFFFFFF"
)

// Merge combines the target printer's default settings with this
// conversion's filament selection. It walks every original filament, not
// only the kept ones, so dropped filaments keep their original color and
// type in the per-slot arrays; edits override color and type where given.
// Colors are rendered in marker-less RRGGBBAA form, slots beyond the
// originals are padded with white default material, and every other
// filament_* array in the defaults is clamped to exactly slots entries. The
// inputs are never mutated.
func Merge(defaults *Document, originals []filament.Filament, edits map[string]filament.Edit, slots int, profiles ProfileLookup) *Document {
	out := defaults.Clone()

	colors := make([]string, 0, slots)
	types := make([]string, 0, slots)
	for _, f := range originals {
		color, typ := f.Color, f.Type
		if e, ok := edits[f.ID]; ok {
			if e.Color != "" {
				color = e.Color
			}
			if e.Type != "" {
				typ = e.Type
			}
		}
		colors = append(colors, filament.AlphaHex(color))
		types = append(types, typ)
	}
	for len(colors) < slots {
		colors = append(colors, fillerColor)
		types = append(types, filament.DefaultMaterial)
	}

	ids := make([]string, len(types))
	for i, typ := range types {
		id, ok := profiles.ProfileFor(typ)
		if !ok {
			id = profiles.DefaultProfile()
		}
		ids[i] = id
	}

	out.SetStringArray(colourKey, colors)
	out.SetStringArray(typeKey, types)
	out.SetStringArray(profileKey, ids)

	out.clampArrays(arrayPrefix, slots)
	return out
}

// clampArrays resizes every non-empty array under keys with the given
// prefix to exactly n elements, repeating the last element or truncating.
func (d *Document) clampArrays(prefix string, n int) {
	for _, key := range d.keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		v := d.fields[key]
		if v.kind != kindArray || len(v.items) == 0 || len(v.items) == n {
			continue
		}
		if len(v.items) > n {
			v.items = v.items[:n]
		} else {
			last := v.items[len(v.items)-1]
			for len(v.items) < n {
				v.items = append(v.items, last.clone())
			}
		}
		d.fields[key] = v
	}
}
