package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/josuanbn/bl2u1/internal/catalog"
	"github.com/josuanbn/bl2u1/internal/filament"
	"github.com/josuanbn/bl2u1/internal/settings"
	"github.com/josuanbn/bl2u1/internal/slicemeta"
	"github.com/josuanbn/bl2u1/internal/threemf"
)

// SlotCount is the number of filament slots on the target printer.
const SlotCount = 4

// Template packages shipped per printer; the supports variant is selected
// when the source package overrides any support setting.
const (
	TemplatePlain    = "u1_template.3mf"
	TemplateSupports = "u1_template_supports.3mf"
)

// Converter runs the conversion pipeline. The zero value works from the
// current directory with the built-in profile catalog.
type Converter struct {
	// TemplatesDir holds the printer template packages.
	TemplatesDir string
	// Profiles resolves material types to printer settings profiles. Nil
	// uses the built-in catalog.
	Profiles settings.ProfileLookup
	// Log receives pipeline diagnostics. Nil disables logging.
	Log *zap.Logger
}

func (c *Converter) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

func (c *Converter) profiles() settings.ProfileLookup {
	if c.Profiles == nil {
		return catalog.Builtin()
	}
	return c.Profiles
}

// Analyze extracts the package's filament list, rejecting packages that use
// more filaments than the printer has slots.
func (c *Converter) Analyze(path string) ([]filament.Filament, error) {
	fils := ExtractFilaments(path, c.logger())
	if len(fils) > SlotCount {
		return nil, &TooManyFilamentsError{Count: len(fils), Max: SlotCount}
	}
	return fils, nil
}

// Convert rewrites the package at inPath for the target printer and writes
// the result to outPath. edits selects which filaments survive and how they
// are recolored; see filament.BuildRemap. Every rewrite must succeed before
// any output appears, and a converted package converted again is unchanged
// in meaning.
func (c *Converter) Convert(ctx context.Context, inPath string, edits map[string]filament.Edit, outPath string) error {
	log := c.logger()

	fils := ExtractFilaments(inPath, log)
	if len(fils) > SlotCount {
		return &TooManyFilamentsError{Count: len(fils), Max: SlotCount}
	}

	srcRaw, err := threemf.ReadMember(inPath, threemf.ProjectSettingsMember)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrProjectSettings, err)
	}
	srcDoc, err := settings.Parse(srcRaw)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrProjectSettings, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	templateFile := TemplatePlain
	if wantsSupports(srcDoc) {
		templateFile = TemplateSupports
	}
	defRaw, err := threemf.ReadMember(filepath.Join(c.TemplatesDir, templateFile), threemf.ProjectSettingsMember)
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrTemplateNotFound, templateFile, err)
	}
	defaults, err := settings.Parse(defRaw)
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrTemplateNotFound, templateFile, err)
	}

	ids, kept := filament.BuildRemap(fils, edits, SlotCount)

	sliceRaw, err := threemf.ReadMember(inPath, threemf.SliceInfoMember)
	if err != nil {
		return fmt.Errorf("reading slice info: %w", err)
	}
	newSlice, err := slicemeta.RewriteSliceInfo(sliceRaw, ids, kept, SlotCount)
	if err != nil {
		return err
	}

	modelRaw, err := threemf.ReadMember(inPath, threemf.ModelSettingsMember)
	if err != nil {
		return fmt.Errorf("reading model settings: %w", err)
	}
	newModel, err := slicemeta.RewriteModelSettings(modelRaw, ids)
	if err != nil {
		return err
	}

	merged := settings.Merge(defaults, fils, edits, SlotCount, c.profiles())

	if err := ctx.Err(); err != nil {
		return err
	}

	overrides := map[string][]byte{
		threemf.SliceInfoMember:       newSlice,
		threemf.ModelSettingsMember:   newModel,
		threemf.ProjectSettingsMember: merged.Encode(),
	}
	if err := threemf.Repack(inPath, outPath, overrides); err != nil {
		return err
	}

	log.Info("converted package",
		zap.String("input", inPath),
		zap.String("output", outPath),
		zap.String("template", templateFile),
		zap.Int("kept", len(kept)))
	return nil
}

// wantsSupports reports whether the source package overrode a support
// setting relative to its system profile.
func wantsSupports(doc *settings.Document) bool {
	for _, entry := range doc.StringArray("different_settings_to_system") {
		if strings.Contains(entry, "enable_support") {
			return true
		}
	}
	return false
}

// KeepAll returns the edit set that keeps every filament with its current
// color and type.
func KeepAll(fils []filament.Filament) map[string]filament.Edit {
	edits := make(map[string]filament.Edit, len(fils))
	for _, f := range fils {
		edits[f.ID] = filament.Edit{Color: f.Color, Type: f.Type}
	}
	return edits
}
