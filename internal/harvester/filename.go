package harvester

import (
	"regexp"
	"strings"

	"github.com/attackharvest/attackharvest/internal/config"
)

// schemePattern matches a leading http or https scheme, case-insensitively.
var schemePattern = regexp.MustCompile(`(?i)^https?://`)

// unsafePattern matches every character outside the filename-safe set.
var unsafePattern = regexp.MustCompile(`[^A-Za-z0-9._\-]`)

// Filename derives the output file name for a URL. The transform is
// deterministic and injective enough for knowledge-base URLs, whose
// distinguishing identifier trails the path:
//
//  1. strip a leading http:// or https:// scheme
//  2. drop any query string and fragment
//  3. drop a trailing path separator, then replace the rest with underscores
//  4. replace every character outside [A-Za-z0-9._-] with underscore
//  5. truncate from the left when too long, keeping the trailing identifier
//  6. append .txt unless already present
//
// Example: https://attack.mitre.org/techniques/T1548/ becomes
// attack.mitre.org_techniques_T1548.txt.
func Filename(url string) string {
	name := schemePattern.ReplaceAllString(url, "")
	if idx := strings.IndexByte(name, '?'); idx >= 0 {
		name = name[:idx]
	}
	if idx := strings.IndexByte(name, '#'); idx >= 0 {
		name = name[:idx]
	}
	name = strings.TrimRight(name, "/")
	name = strings.ReplaceAll(name, "/", "_")
	name = unsafePattern.ReplaceAllString(name, "_")

	if len(name) > config.MaxFilenameLength {
		name = name[len(name)-config.MaxFilenameLength:]
	}
	if !strings.HasSuffix(strings.ToLower(name), ".txt") {
		name += ".txt"
	}
	return name
}
