// Package threemf reads and repackages 3MF print archives. A 3MF package is
// a zip of named members; nothing here interprets member contents, and every
// member a repack does not replace is streamed through byte for byte.
package threemf

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
)

// Member names of the metadata documents the converter touches.
const (
	SliceInfoMember       = "Metadata/slice_info.config"
	ProjectSettingsMember = "Metadata/project_settings.config"
	ModelSettingsMember   = "Metadata/model_settings.config"
)

// ErrMemberNotFound indicates the archive has no member with the requested
// name.
var ErrMemberNotFound = errors.New("archive member not found")

// ReadMember returns the uncompressed contents of the named member.
func ReadMember(path, name string) ([]byte, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("threemf: open %s: %w", path, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("threemf: open member %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("threemf: read member %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("threemf: %w: %s", ErrMemberNotFound, name)
}

// Repack copies the package at src to dest, substituting the members named
// in overrides. Member order is preserved and untouched members keep their
// exact compressed bytes. The archive is assembled in a temporary sibling
// file and renamed into place only once complete, so a failed repack never
// leaves a partial dest behind.
func Repack(src, dest string, overrides map[string][]byte) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("threemf: open %s: %w", src, err)
	}
	defer r.Close()

	tmp := dest + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("threemf: create %s: %w", tmp, err)
	}
	success := false
	defer func() {
		if !success {
			out.Close()
			os.Remove(tmp)
		}
	}()

	w := zip.NewWriter(out)
	for _, f := range r.File {
		data, ok := overrides[f.Name]
		if !ok {
			if err := w.Copy(f); err != nil {
				return fmt.Errorf("threemf: copy member %s: %w", f.Name, err)
			}
			continue
		}
		hdr := &zip.FileHeader{
			Name:     f.Name,
			Method:   f.Method,
			Modified: f.Modified,
		}
		mw, err := w.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("threemf: create member %s: %w", f.Name, err)
		}
		if _, err := mw.Write(data); err != nil {
			return fmt.Errorf("threemf: write member %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("threemf: finalize %s: %w", tmp, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("threemf: close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		return fmt.Errorf("threemf: move into place: %w", err)
	}
	success = true
	return nil
}
