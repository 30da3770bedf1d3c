package emit

import (
	"slices"
	"strings"

	"github.com/remvst/asset-catalog/api"
	"github.com/remvst/asset-catalog/internal/catalog"
	"github.com/remvst/asset-catalog/internal/naming"
)

// ItemFunc resolves the factory argument of one leaf.
type ItemFunc func(leaf *catalog.Leaf) (Expr, error)

// Shape mirrors tree as a node tree. Field names are claimed per level, so
// two keys that sanitize to the same identifier are an
// [api.ErrDuplicateIdentifier]. Branch levels are named typeName followed by
// the camelized categories leading to them.
func Shape(tree *catalog.Tree, typeName string, item ItemFunc) (*Node, error) {
	return shape(tree, nil, typeName, item)
}

func shape(t *catalog.Tree, cats []string, typeName string, item ItemFunc) (*Node, error) {
	node := &Node{TypeName: typeName}
	fields := naming.NewRegistry(strings.Join(cats, "/"))
	for _, e := range t.Entries() {
		field := naming.FieldName(e.Key)
		if err := fields.Claim(field, e.Key); err != nil {
			return nil, err
		}
		if !e.IsBranch() {
			expr, err := item(e.Leaf)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, &Node{Field: field, Item: expr})
			continue
		}

		child, err := shape(e.Sub, append(slices.Clip(cats), e.Key), typeName+naming.TypeName(e.Key), item)
		if err != nil {
			return nil, err
		}
		child.Field = field
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// Imports assigns aliases and relative specifiers to referenced files.
type Imports struct {
	root   string
	outDir string
	names  *naming.Registry
	list   []Import
	byPath map[string]string
}

// NewImports resolves files under the asset root for a file generated into
// outDir. Both must be absolute.
func NewImports(root, outDir string) *Imports {
	return &Imports{
		root:   naming.Normalize(root),
		outDir: naming.Normalize(outDir),
		names:  naming.NewRegistry("imports"),
		byPath: make(map[string]string),
	}
}

// Add imports an asset and returns its alias, derived from its path relative
// to the asset root.
func (im *Imports) Add(path string) (string, error) {
	return im.AddNamed(naming.ImportName(naming.Rel(im.root, path)), path)
}

// AddNamed imports path under name. Importing the same path again returns
// the first alias.
func (im *Imports) AddNamed(name, path string) (string, error) {
	path = naming.Normalize(path)
	if alias, ok := im.byPath[path]; ok {
		return alias, nil
	}
	if name == "" {
		return "", &api.AssetError{Kind: api.ErrInvalidIdentifier, Paths: []string{path}}
	}
	if err := im.names.Claim(name, path); err != nil {
		return "", err
	}
	im.byPath[path] = name
	im.list = append(im.list, Import{Name: name, Path: Specifier(im.outDir, path)})
	return name, nil
}

// List returns the imports in the order they were added.
func (im *Imports) List() []Import { return im.list }

// Specifier is the import path of file relative to dir: forward slashes,
// prefixed with "./" unless it climbs out of dir.
func Specifier(dir, file string) string {
	rel := naming.Rel(dir, file)
	if strings.HasPrefix(rel, "../") {
		return rel
	}
	return "./" + rel
}
