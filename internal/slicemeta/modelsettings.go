package slicemeta

import (
	"fmt"

	"github.com/josuanbn/bl2u1/internal/filament"
)

// RewriteModelSettings translates every extruder assignment in a
// model-settings document through the identifier map. Assignments whose
// value is not in the map are left as they are.
func RewriteModelSettings(doc []byte, ids filament.IDMap) ([]byte, error) {
	root, err := parse(doc)
	if err != nil {
		return nil, fmt.Errorf("slicemeta: parse model settings: %w", err)
	}
	for _, md := range root.findAll("metadata") {
		if key, _ := md.attr("key"); key != "extruder" {
			continue
		}
		value, _ := md.attr("value")
		if mapped, ok := ids[value]; ok {
			md.setAttr("value", mapped)
		}
	}
	out, err := serialize(root)
	if err != nil {
		return nil, fmt.Errorf("slicemeta: serialize model settings: %w", err)
	}
	return out, nil
}
