package still

import (
	"path/filepath"
	"strings"
)

// StaticMarker tags derived still artifacts.
const StaticMarker = "_static"

// StaticPath returns <preview-stem>_static.<format>.
func StaticPath(preview, format string) string {
	ext := filepath.Ext(preview)
	return strings.TrimSuffix(preview, ext) + StaticMarker + "." + strings.TrimPrefix(format, ".")
}

// IsStaticDerivative reports whether path already names a static artifact.
// Any occurrence of the marker in the extension-less path counts, matching
// how existing libraries were produced.
func IsStaticDerivative(path string) bool {
	return strings.Contains(strings.TrimSuffix(path, filepath.Ext(path)), StaticMarker)
}
