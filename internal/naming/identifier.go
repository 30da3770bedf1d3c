// Package naming turns asset paths and category names into source
// identifiers. All functions are pure and independent of the host OS path
// separator.
package naming

import (
	"strings"
)

// Camelize splits raw on every character outside [A-Za-z0-9], upper-cases the
// first letter of each word and joins the words: "my-icon_2" → "MyIcon2".
// The rest of each word keeps its case.
func Camelize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	wordStart := true
	for _, r := range raw {
		if !isAlnum(r) {
			wordStart = true
			continue
		}
		if wordStart && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		b.WriteRune(r)
		wordStart = false
	}
	return b.String()
}

// LowerCamelize is [Camelize] with the first character lower-cased.
func LowerCamelize(raw string) string {
	s := Camelize(raw)
	if s == "" {
		return s
	}
	c := s[0]
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	return string(c) + s[1:]
}

// Sanitize replaces every rune outside [A-Za-z0-9] with '_'. Unlike
// [Camelize] it keeps the separators, which makes it suitable for import
// aliases derived from full paths.
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if isAlnum(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// FieldName is the object key / lower-camel identifier for raw. Names that
// would start with a digit are prefixed with '_'.
func FieldName(raw string) string {
	return guardDigit(LowerCamelize(raw), "_")
}

// TypeName is the exported upper-camel identifier for raw. Names that would
// start with a digit are prefixed with 'X'.
func TypeName(raw string) string {
	return guardDigit(Camelize(raw), "X")
}

// ImportName is the alias under which the file at rel (relative to the
// asset root) is imported into the generated source: "ui/button.png" →
// "_ui_button_png".
func ImportName(rel string) string {
	return Sanitize("/" + strings.TrimPrefix(normalize(rel), "/"))
}

func guardDigit(id, prefix string) string {
	if id != "" && id[0] >= '0' && id[0] <= '9' {
		return prefix + id
	}
	return id
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
