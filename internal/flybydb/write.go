package flybydb

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/large-farva/flybydb/internal/transponder"
)

// WriteFile replaces path with data via a temp file and rename so readers
// never see a half-written database. The parent directory is created if
// needed. Errors wrap transponder.ErrWrite.
func WriteFile(fsys afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", transponder.ErrWrite, dir, err)
	}

	tmp, err := afero.TempFile(fsys, dir, "flyby-*.db.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", transponder.ErrWrite, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fsys.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", transponder.ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		fsys.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", transponder.ErrWrite, err)
	}
	if err := fsys.Chmod(tmp.Name(), 0o644); err != nil {
		fsys.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", transponder.ErrWrite, err)
	}

	if err := fsys.Rename(tmp.Name(), path); err != nil {
		fsys.Remove(tmp.Name())
		return fmt.Errorf("%w: replace %s: %w", transponder.ErrWrite, path, err)
	}
	return nil
}
