package export

import (
	"strings"
	"unicode"
)

// DefaultBaseName is used when a title has no usable characters.
const DefaultBaseName = "resume"

const maxBaseNameLength = 100

// BaseName turns a resume title into a filesystem- and header-safe name without extension.
// Letters and digits are kept, runs of anything else become a single underscore.
func BaseName(title string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range title {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '-':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
		if b.Len() >= maxBaseNameLength {
			break
		}
	}

	name := strings.Trim(b.String(), "_-")
	if len(name) > maxBaseNameLength {
		name = name[:maxBaseNameLength]
	}
	if name == "" {
		return DefaultBaseName
	}
	return name
}

// Filename returns BaseName(title) with ext appended, ext including its dot.
func Filename(title, ext string) string {
	return BaseName(title) + ext
}
