// Package ui renders tables and status lines for the CLI. Tables go to
// stdout since they are the command's output; status lines go to stderr so
// piped output stays clean.
package ui

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/josuanbn/bl2u1/internal/ansi"
	"github.com/josuanbn/bl2u1/internal/catalog"
	"github.com/josuanbn/bl2u1/internal/filament"
)

// Printer writes formatted output for the CLI commands.
type Printer struct{}

// New returns a Printer.
func New() *Printer {
	return &Printer{}
}

// Error prints a bold red error line to stderr.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(os.Stderr, ansi.Red+ansi.Bold+"error: "+ansi.Reset+"%s\n", msg)
}

// Warn prints a yellow warning line to stderr.
func (p *Printer) Warn(msg string) {
	fmt.Fprintf(os.Stderr, ansi.Yellow+ansi.Bold+"⚠ "+ansi.Reset+"%s\n", msg)
}

// Success prints a green checkmark line to stderr.
func (p *Printer) Success(msg string) {
	fmt.Fprintf(os.Stderr, ansi.Green+ansi.Bold+"✓ "+ansi.Reset+"%s\n", msg)
}

// Info prints a dimmed status line to stderr.
func (p *Printer) Info(msg string) {
	fmt.Fprintf(os.Stderr, ansi.Dim+"%s"+ansi.Reset+"\n", msg)
}

// FilamentTable lists the filaments found in a package.
func (p *Printer) FilamentTable(fils []filament.Filament) {
	if len(fils) == 0 {
		fmt.Fprintln(os.Stdout, ansi.Dim+"  (no filaments)"+ansi.Reset)
		return
	}
	fmt.Fprintln(os.Stdout, ansi.Bold+"  ID   COLOR        TYPE"+ansi.Reset)
	for _, f := range fils {
		fmt.Fprintf(os.Stdout, "  %-4s %s %-8s %s\n", f.ID, Swatch(f.Color), f.Color, f.Type)
	}
}

// RemapTable shows how filaments will land in the converted package.
func (p *Printer) RemapTable(mapped []filament.Mapped) {
	if len(mapped) == 0 {
		fmt.Fprintln(os.Stdout, ansi.Dim+"  (no filaments kept)"+ansi.Reset)
		return
	}
	fmt.Fprintln(os.Stdout, ansi.Bold+"  OLD  NEW  COLOR        TYPE"+ansi.Reset)
	for _, m := range mapped {
		fmt.Fprintf(os.Stdout, "  %-4s %-4s %s %-8s %s\n", m.OldID, m.NewID, Swatch(m.Color), m.Color, m.Type)
	}
}

// ProfileTable lists the catalog's filament profiles.
func (p *Printer) ProfileTable(profiles []catalog.Profile) {
	if len(profiles) == 0 {
		fmt.Fprintln(os.Stdout, ansi.Dim+"  (empty catalog)"+ansi.Reset)
		return
	}
	fmt.Fprintln(os.Stdout, ansi.Bold+"  TYPE   PROFILE"+ansi.Reset)
	for _, pr := range profiles {
		fmt.Fprintf(os.Stdout, "  %-6s %s\n", pr.Type, pr.SettingsID)
	}
}

// Swatch renders a two-cell block in the filament's actual color using a
// 24-bit background sequence. Colors that don't parse render as plain cells.
func Swatch(color string) string {
	hex := strings.TrimPrefix(color, "#")
	if len(hex) != 6 {
		return "  "
	}
	r, err1 := strconv.ParseUint(hex[0:2], 16, 8)
	g, err2 := strconv.ParseUint(hex[2:4], 16, 8)
	b, err3 := strconv.ParseUint(hex[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return "  "
	}
	return ansi.BgRGB(uint8(r), uint8(g), uint8(b)) + "  " + ansi.Reset
}
