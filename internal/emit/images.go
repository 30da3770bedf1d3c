package emit

import (
	"fmt"

	"github.com/remvst/asset-catalog/api"
	"github.com/remvst/asset-catalog/internal/catalog"
	"github.com/remvst/asset-catalog/internal/source"
)

// SheetImport is the alias of the packed spritesheet.
const SheetImport = "SpriteSheetPng"

// ImageInput is everything a texture catalog refers to.
type ImageInput struct {
	Tree     *catalog.Tree
	Snapshot *source.Snapshot
	Dims     map[string]source.Dimensions
	Frames   map[string]api.Rectangle // Atlas frames by path. Nil without an atlas.
	Sheet    string                   // Atlas file. Empty without an atlas.
	Imports  *Imports
	Package  string
}

var imageTypes = []Struct{
	{Name: "Rectangle", Fields: []Field{
		{"x", TypeRef{Kind: Int}},
		{"y", TypeRef{Kind: Int}},
		{"width", TypeRef{Kind: Int}},
		{"height", TypeRef{Kind: Int}},
	}},
	{Name: "SpriteData", Fields: []Field{
		{"sheet", TypeRef{Kind: String}},
		{"frame", NamedType("Rectangle")},
	}},
	{Name: "CreateItemOptions", Fields: []Field{
		{"path", TypeRef{Kind: String}},
		{"width", TypeRef{Kind: Int}},
		{"height", TypeRef{Kind: Int}},
		{"size", TypeRef{Kind: Int}},
		{"spriteData", NullableType("SpriteData")},
	}},
}

// ImageDocument builds the texture catalog. Every leaf becomes a
// CreateItemOptions value carrying its import, dimensions, byte size and,
// when packed, its atlas frame.
func ImageDocument(in ImageInput) (*Document, error) {
	item := func(leaf *catalog.Leaf) (Expr, error) {
		f, ok := in.Snapshot.Lookup(leaf.Path())
		if !ok {
			return nil, fmt.Errorf("emit: %s not in snapshot", leaf.Path())
		}
		d, ok := in.Dims[f.Path]
		if !ok {
			return nil, fmt.Errorf("emit: no dimensions for %s", f.Path)
		}
		alias, err := in.Imports.Add(f.Path)
		if err != nil {
			return nil, err
		}

		var sprite Expr = Null{}
		if frame, ok := in.Frames[f.Path]; ok {
			sprite = Record{Type: "SpriteData", Pointer: true, Fields: []Value{
				{"sheet", Ref{SheetImport}},
				{"frame", rectangle(frame)},
			}}
		}
		return Record{Type: "CreateItemOptions", Fields: []Value{
			{"path", Ref{alias}},
			{"width", Number(d.Width)},
			{"height", Number(d.Height)},
			{"size", Number(f.Size)},
			{"spriteData", sprite},
		}}, nil
	}

	root, err := Shape(in.Tree, "TextureCatalog", item)
	if err != nil {
		return nil, err
	}
	if in.Sheet != "" && len(in.Frames) > 0 {
		if _, err := in.Imports.AddNamed(SheetImport, in.Sheet); err != nil {
			return nil, err
		}
	}

	return &Document{
		Package: in.Package,
		Imports: in.Imports.List(),
		Types:   imageTypes,
		Catalog: Catalog{
			TypeName:  "TextureCatalog",
			Factory:   "createTextureCatalog",
			Param:     "createItem",
			ParamArg:  "opts",
			ParamType: "CreateItemOptions",
			Root:      root,
		},
	}, nil
}

func rectangle(r api.Rectangle) Record {
	return Record{Type: "Rectangle", Fields: []Value{
		{"x", Number(r.X)},
		{"y", Number(r.Y)},
		{"width", Number(r.Width)},
		{"height", Number(r.Height)},
	}}
}
