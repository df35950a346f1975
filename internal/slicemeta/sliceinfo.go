package slicemeta

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"

	"github.com/josuanbn/bl2u1/internal/filament"
)

// PrinterModel is written into every converted package's slice info.
const PrinterModel = "Snapmaker U1"

// fillerColor marks the synthetic filaments that pad unused slots.
const fillerColor = "#FFFFFFFF"

var printerModelPattern = regexp.MustCompile(`key="printer_model_id" value="[^"]*"`)

// RewriteSliceInfo rewrites a slice-info document for the target printer:
// the printer model identifier is replaced, filament entries not in the
// identifier map are removed, the remaining ones are renumbered and
// recolored per kept, and synthetic entries pad the table up to slots.
//
// Filament entries live under the first plate element when one exists,
// otherwise under the document root. Unlike extraction this rewrite is
// strict: a document that does not parse fails the conversion.
func RewriteSliceInfo(doc []byte, ids filament.IDMap, kept []filament.Mapped, slots int) ([]byte, error) {
	patched := printerModelPattern.ReplaceAll(doc,
		[]byte(`key="printer_model_id" value="`+PrinterModel+`"`))

	root, err := parse(patched)
	if err != nil {
		return nil, fmt.Errorf("slicemeta: parse slice info: %w", err)
	}

	container := root.find("plate")
	if container == nil {
		container = root
	}

	dropUnmapped(container, ids)

	// Index surviving entries by original id before any renumbering, so a
	// freshly assigned id can never collide with a not-yet-renumbered one.
	byOldID := make(map[string]*node)
	for _, fn := range container.findAll("filament") {
		if id, ok := fn.attr("id"); ok {
			if _, seen := byOldID[id]; !seen {
				byOldID[id] = fn
			}
		}
	}
	for _, m := range kept {
		fn := byOldID[m.OldID]
		if fn == nil {
			continue
		}
		fn.setAttr("id", m.NewID)
		fn.setAttr("color", m.Color)
		fn.setAttr("type", m.Type)
	}

	// Pad from the number of entries actually present, not len(kept):
	// settings-derived filaments have no slice-info nodes, so an empty
	// table must still end up with slots entries numbered from 1.
	present := len(container.findAll("filament"))
	for next := present + 1; next <= slots; next++ {
		container.Children = append(container.Children, fillerFilament(next))
	}

	out, err := serialize(root)
	if err != nil {
		return nil, fmt.Errorf("slicemeta: serialize slice info: %w", err)
	}
	return out, nil
}

// dropUnmapped removes every filament element whose id is absent from the
// map, including entries with no id at all.
func dropUnmapped(n *node, ids filament.IDMap) {
	keep := n.Children[:0]
	for _, c := range n.Children {
		if c.XMLName.Local == "filament" {
			id, ok := c.attr("id")
			if !ok {
				continue
			}
			if _, mapped := ids[id]; !mapped {
				continue
			}
		}
		dropUnmapped(c, ids)
		keep = append(keep, c)
	}
	n.Children = keep
}

func fillerFilament(id int) *node {
	return &node{
		XMLName: xml.Name{Local: "filament"},
		Attrs: []xml.Attr{
			{Name: xml.Name{Local: "id"}, Value: strconv.Itoa(id)},
			{Name: xml.Name{Local: "type"}, Value: filament.DefaultMaterial},
			{Name: xml.Name{Local: "color"}, Value: fillerColor},
			{Name: xml.Name{Local: "used_m"}, Value: "0"},
			{Name: xml.Name{Local: "used_g"}, Value: "0"},
		},
	}
}
