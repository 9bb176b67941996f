package diagfmt

import (
	"path/filepath"

	"wstok/internal/source"
)

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	if f == nil {
		return "<unknown>"
	}
	switch mode {
	case PathModeAbsolute:
		if f.Flags&source.FileVirtual != 0 {
			return f.Path
		}
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		return f.RelPath(fs.BaseDir())
	case PathModeBasename:
		return filepath.Base(f.Path)
	}
	return f.Path
}
