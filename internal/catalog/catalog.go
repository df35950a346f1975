// Package catalog resolves material types to the target printer's filament
// settings profiles. The catalog ships inside a reference 3MF package and
// can be reloaded at runtime when that package changes.
package catalog

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/josuanbn/bl2u1/internal/settings"
	"github.com/josuanbn/bl2u1/internal/threemf"
)

const (
	// DefaultFile is the reference package the catalog is read from,
	// relative to the templates directory.
	DefaultFile = "filament_types.3mf"

	// FallbackProfile is assigned when even the catalog itself is empty.
	FallbackProfile = "Snapmaker PLA SnapSpeed @U1"
)

// Profile pairs a material type with the settings profile the printer uses
// for it.
type Profile struct {
	Type       string `json:"type"`
	SettingsID string `json:"settings_id"`
}

// Catalog is an immutable profile list. The first entry doubles as the
// default profile for unknown material types.
type Catalog struct {
	profiles []Profile
	byType   map[string]string
}

// New builds a catalog from a profile list. A material type listed more
// than once resolves to its last profile.
func New(profiles []Profile) *Catalog {
	byType := make(map[string]string, len(profiles))
	for _, p := range profiles {
		byType[p.Type] = p.SettingsID
	}
	return &Catalog{profiles: profiles, byType: byType}
}

// Builtin returns the compiled-in catalog used when no reference package is
// available.
func Builtin() *Catalog {
	return New([]Profile{
		{Type: "PLA", SettingsID: "Snapmaker PLA SnapSpeed @U1"},
		{Type: "PETG", SettingsID: "Snapmaker PETG HF"},
		{Type: "ABS", SettingsID: "Generic ABS"},
		{Type: "TPU", SettingsID: "Generic TPU"},
	})
}

// Load reads the catalog from the reference package at path. Any failure
// falls back to the built-in catalog; a readable package with no profiles is
// a valid, empty catalog.
func Load(path string, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	c, err := read(path)
	if err != nil {
		log.Warn("using built-in filament profiles",
			zap.String("path", path), zap.Error(err))
		return Builtin()
	}
	log.Info("loaded filament profiles",
		zap.String("path", path), zap.Int("profiles", len(c.profiles)))
	return c
}

func read(path string) (*Catalog, error) {
	raw, err := threemf.ReadMember(path, threemf.ProjectSettingsMember)
	if err != nil {
		return nil, err
	}
	doc, err := settings.Parse(raw)
	if err != nil {
		return nil, err
	}
	types := doc.StringArray("filament_type")
	ids := doc.StringArray("filament_settings_id")
	n := min(len(types), len(ids))
	profiles := make([]Profile, n)
	for i := 0; i < n; i++ {
		profiles[i] = Profile{Type: types[i], SettingsID: ids[i]}
	}
	return New(profiles), nil
}

// Profiles returns the catalog entries in package order.
func (c *Catalog) Profiles() []Profile { return c.profiles }

// Types returns the material types in package order, duplicates removed.
func (c *Catalog) Types() []string {
	seen := make(map[string]bool, len(c.profiles))
	out := make([]string, 0, len(c.profiles))
	for _, p := range c.profiles {
		if seen[p.Type] {
			continue
		}
		seen[p.Type] = true
		out = append(out, p.Type)
	}
	return out
}

// ProfileFor implements settings.ProfileLookup.
func (c *Catalog) ProfileFor(materialType string) (string, bool) {
	id, ok := c.byType[materialType]
	return id, ok
}

// DefaultProfile implements settings.ProfileLookup.
func (c *Catalog) DefaultProfile() string {
	if len(c.profiles) == 0 {
		return FallbackProfile
	}
	return c.profiles[0].SettingsID
}

// Store holds the current catalog and swaps it atomically on reload. Safe
// for concurrent readers.
type Store struct {
	cur atomic.Pointer[Catalog]
}

// NewStore returns a store serving c until Replace is called.
func NewStore(c *Catalog) *Store {
	s := &Store{}
	s.cur.Store(c)
	return s
}

// Current returns the catalog as of the last Replace.
func (s *Store) Current() *Catalog { return s.cur.Load() }

// Replace swaps in a freshly loaded catalog.
func (s *Store) Replace(c *Catalog) { s.cur.Store(c) }
