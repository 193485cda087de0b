package mdindex

import (
	"path/filepath"
	"strings"
)

// ResolveTOCPath determines where an exported table of contents for the
// given markdown source is written: next to the file, with a .toc.md suffix.
func ResolveTOCPath(mdPath string) string {
	return strings.TrimSuffix(mdPath, filepath.Ext(mdPath)) + ".toc.md"
}

func MustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		panic(err)
	}
	return abs
}
