package filament

import "strconv"

// BuildRemap walks filaments in document order and assigns dense 1-based
// identifiers to the ones selected by edits. Filaments absent from edits are
// dropped; edit keys matching no filament are ignored. At most slots entries
// are kept, first come first served.
//
// Edit colors are normalized to #RRGGBB; empty edit fields inherit the
// filament's current value.
func BuildRemap(filaments []Filament, edits map[string]Edit, slots int) (IDMap, []Mapped) {
	ids := make(IDMap, len(edits))
	kept := make([]Mapped, 0, slots)
	for _, f := range filaments {
		e, ok := edits[f.ID]
		if !ok {
			continue
		}
		if len(kept) >= slots {
			break
		}
		color := f.Color
		if e.Color != "" {
			color = NormalizeColor(e.Color)
		}
		typ := f.Type
		if e.Type != "" {
			typ = e.Type
		}
		newID := strconv.Itoa(len(kept) + 1)
		ids[f.ID] = newID
		kept = append(kept, Mapped{OldID: f.ID, NewID: newID, Color: color, Type: typ})
	}
	return ids, kept
}
