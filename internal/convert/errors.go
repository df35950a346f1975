package convert

import (
	"errors"
	"fmt"
)

// Sentinel errors for conversion failures callers branch on.
var (
	// ErrTooManyFilaments indicates the source package uses more filaments
	// than the target printer has slots.
	ErrTooManyFilaments = errors.New("too many filaments")

	// ErrProjectSettings indicates the source package's project settings
	// could not be read or parsed.
	ErrProjectSettings = errors.New("project settings unreadable")

	// ErrTemplateNotFound indicates the printer's template package is
	// missing or unreadable.
	ErrTemplateNotFound = errors.New("template package not found")
)

// TooManyFilamentsError carries the counts behind ErrTooManyFilaments.
type TooManyFilamentsError struct {
	Count int
	Max   int
}

func (e *TooManyFilamentsError) Error() string {
	return fmt.Sprintf("too many filaments: package uses %d, printer has %d slots", e.Count, e.Max)
}

func (e *TooManyFilamentsError) Unwrap() error { return ErrTooManyFilaments }
