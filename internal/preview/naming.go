package preview

import (
	"path/filepath"
	"strings"
)

// PreviewSuffix is appended to the source stem to name the animated preview.
const PreviewSuffix = "_preview.webp"

// PreviewPath returns <dir>/<source-stem>_preview.webp for source.
func PreviewPath(source string) string {
	ext := filepath.Ext(source)
	return strings.TrimSuffix(source, ext) + PreviewSuffix
}
