package slicemeta

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/josuanbn/bl2u1/internal/filament"
)

// Filaments scans a slice-info document and returns its filament entries in
// document order, colors normalized and missing types defaulted. The scan is
// a streaming pass: on a malformed document it returns whatever was
// collected before the failure together with the error.
func Filaments(doc []byte) ([]filament.Filament, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))
	var out []filament.Filament
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("slicemeta: scan slice info: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "filament" {
			continue
		}
		var f filament.Filament
		var color string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "id":
				f.ID = a.Value
			case "color":
				color = a.Value
			case "type":
				f.Type = a.Value
			}
		}
		f.Color = filament.NormalizeColor(color)
		if f.Type == "" {
			f.Type = filament.DefaultMaterial
		}
		out = append(out, f)
	}
}
