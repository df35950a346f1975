package convert

import (
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/josuanbn/bl2u1/internal/filament"
	"github.com/josuanbn/bl2u1/internal/settings"
	"github.com/josuanbn/bl2u1/internal/slicemeta"
	"github.com/josuanbn/bl2u1/internal/threemf"
)

// ExtractFilaments returns the package's filament list in document order.
// The slice-info member is authoritative; a package whose slice info has no
// filament entries falls back to the project settings color and type arrays,
// with identifiers synthesized 1..n.
//
// Extraction never fails: on any read or parse trouble it logs the
// condition and returns whatever was collected, so an uncooperative package
// degrades to an empty list.
func ExtractFilaments(path string, log *zap.Logger) []filament.Filament {
	if log == nil {
		log = zap.NewNop()
	}

	data, err := threemf.ReadMember(path, threemf.SliceInfoMember)
	switch {
	case err == nil:
		fils, perr := slicemeta.Filaments(data)
		if perr != nil {
			log.Warn("slice info only partially parsed",
				zap.String("package", path), zap.Error(perr))
			return fils
		}
		if len(fils) > 0 {
			return fils
		}
		// Slice info exists but lists nothing; try the settings arrays.
	case !errors.Is(err, threemf.ErrMemberNotFound):
		log.Warn("slice info unreadable", zap.String("package", path), zap.Error(err))
		return nil
	}

	data, err = threemf.ReadMember(path, threemf.ProjectSettingsMember)
	if err != nil {
		if !errors.Is(err, threemf.ErrMemberNotFound) {
			log.Warn("project settings unreadable",
				zap.String("package", path), zap.Error(err))
		}
		return nil
	}
	doc, err := settings.Parse(data)
	if err != nil {
		log.Warn("project settings unparsable",
			zap.String("package", path), zap.Error(err))
		return nil
	}

	colors := doc.StringArray("filament_colour")
	types := doc.StringArray("filament_type")
	fils := make([]filament.Filament, 0, len(colors))
	for i, color := range colors {
		typ := filament.DefaultMaterial
		if i < len(types) {
			typ = types[i]
		}
		fils = append(fils, filament.Filament{
			ID:    strconv.Itoa(i + 1),
			Color: filament.NormalizeColor(color),
			Type:  typ,
		})
	}
	return fils
}
