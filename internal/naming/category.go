package naming

import (
	"path"
	"strings"
)

// normalize converts both '/' and '\' separators to '/' and cleans the path.
func normalize(p string) string {
	return path.Clean(strings.ReplaceAll(p, `\`, "/"))
}

// Normalize is the canonical form of an asset path: forward slashes, no
// redundant elements. Two paths naming the same file compare equal after
// normalization.
func Normalize(p string) string {
	return normalize(p)
}

func segments(p string) []string {
	parts := strings.Split(normalize(p), "/")
	out := parts[:0]
	for _, s := range parts {
		if s != "" && s != "." {
			out = append(out, s)
		}
	}
	return out
}

// relSegments returns target relative to root as raw segments. Root
// segments not shared with target become "..".
func relSegments(root, target string) []string {
	rs, ts := segments(root), segments(target)
	i := 0
	for i < len(rs) && i < len(ts) && rs[i] == ts[i] {
		i++
	}
	out := make([]string, 0, len(rs)-i+len(ts)-i)
	for range rs[i:] {
		out = append(out, "..")
	}
	return append(out, ts[i:]...)
}

// RelativeDir returns the raw directory components between root and the
// directory containing file. A file directly under root yields nil.
func RelativeDir(root, file string) []string {
	return relSegments(root, path.Dir(normalize(file)))
}

// Rel returns file relative to root with forward slashes.
func Rel(root, file string) string {
	return strings.Join(relSegments(root, file), "/")
}

// CategoryPath returns the ordered category names of file under root: each
// directory component lower-camelized, components that sanitize to nothing
// dropped. CategoryPath("/a", `/a/ui\icons/gear.png`) is ["ui", "icons"].
func CategoryPath(root, file string) []string {
	var out []string
	for _, seg := range RelativeDir(root, file) {
		if c := LowerCamelize(seg); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Stem returns the base name of file without its extension.
func Stem(file string) string {
	base := path.Base(normalize(file))
	return strings.TrimSuffix(base, path.Ext(base))
}

// Ext returns the lowercase extension of file, with the leading dot.
func Ext(file string) string {
	return strings.ToLower(path.Ext(normalize(file)))
}
