package emit

import (
	"fmt"

	"github.com/remvst/asset-catalog/api"
	"github.com/remvst/asset-catalog/internal/catalog"
	"github.com/remvst/asset-catalog/internal/naming"
	"github.com/remvst/asset-catalog/internal/sound"
	"github.com/remvst/asset-catalog/internal/source"
)

// SoundSprite describes an encoded audio sprite.
type SoundSprite struct {
	Basename string
	Files    []source.File // Written sprite files with their sizes.
	Timings  map[string]api.SpriteTiming
}

// SoundInput is everything a sound catalog refers to.
type SoundInput struct {
	Tree    *catalog.Tree
	Bundle  *sound.Bundle
	Sprite  *SoundSprite // Nil without a sprite.
	Imports *Imports
	Package string
}

var soundTypes = []Struct{
	{Name: "SoundSpriteRef", Fields: []Field{
		{"key", TypeRef{Kind: String}},
		{"start", TypeRef{Kind: Float}},
		{"end", TypeRef{Kind: Float}},
		{"loop", TypeRef{Kind: Bool}},
	}},
	{Name: "SoundDefinition", Fields: []Field{
		{"basename", TypeRef{Kind: String}},
		{"files", ListOf(TypeRef{Kind: String})},
		{"averageFileSize", TypeRef{Kind: Int}},
		{"sprite", NullableType("SoundSpriteRef")},
	}},
}

// SoundDocument builds the sound catalog. Every group becomes a
// SoundDefinition; with a sprite, the sprite itself is exported as
// soundSprite and its timings as soundSpriteMap.
func SoundDocument(in SoundInput) (*Document, error) {
	var timings map[string]api.SpriteTiming
	if in.Sprite != nil {
		timings = in.Sprite.Timings
	}

	item := func(leaf *catalog.Leaf) (Expr, error) {
		g, ok := in.Bundle.Group(leaf)
		if !ok {
			return nil, fmt.Errorf("emit: no sound group for %s", leaf.Path())
		}
		files := Array{Elem: TypeRef{Kind: String}}
		for _, f := range g.Files {
			alias, err := in.Imports.Add(f.Path)
			if err != nil {
				return nil, err
			}
			files.Items = append(files.Items, Ref{alias})
		}
		var ref Expr = Null{}
		if t, ok := timings[g.SpriteKey()]; ok {
			ref = spriteRef(g.SpriteKey(), t, true)
		}
		return definition(g.Basename(), files, g.AverageFileSize, ref), nil
	}

	root, err := Shape(in.Tree, "SoundCatalog", item)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Package: in.Package,
		Types:   soundTypes,
		Catalog: Catalog{
			TypeName:  "SoundCatalog",
			Factory:   "createSoundCatalog",
			Param:     "createItem",
			ParamArg:  "def",
			ParamType: "SoundDefinition",
			Root:      root,
		},
	}
	if in.Sprite != nil {
		vars, err := spriteVars(in)
		if err != nil {
			return nil, err
		}
		doc.Vars = vars
	}
	doc.Imports = in.Imports.List()
	return doc, nil
}

func spriteVars(in SoundInput) ([]Var, error) {
	written := sound.OrderBy(in.Sprite.Files, sound.PlaybackOrder, func(f source.File) string { return f.Path })
	files := Array{Elem: TypeRef{Kind: String}}
	sizes := make([]int64, len(written))
	for i, f := range written {
		name := "SoundSprite" + naming.Camelize(naming.Ext(f.Path))
		alias, err := in.Imports.AddNamed(name, f.Path)
		if err != nil {
			return nil, err
		}
		files.Items = append(files.Items, Ref{alias})
		sizes[i] = f.Size
	}

	entries := Dict{Value: NamedType("SoundSpriteRef")}
	for _, g := range in.Bundle.Groups {
		if t, ok := in.Sprite.Timings[g.SpriteKey()]; ok {
			entries.Entries = append(entries.Entries, Entry{g.SpriteKey(), spriteRef(g.SpriteKey(), t, false)})
		}
	}

	return []Var{
		{
			Name:  "soundSprite",
			Type:  NamedType("SoundDefinition"),
			Value: definition(in.Sprite.Basename, files, sound.AverageFileSize(sizes), Null{}),
		},
		{
			Name:  "soundSpriteMap",
			Type:  MapOf(NamedType("SoundSpriteRef")),
			Value: entries,
		},
	}, nil
}

func definition(basename string, files Array, avg int64, sprite Expr) Record {
	return Record{Type: "SoundDefinition", Fields: []Value{
		{"basename", Str(basename)},
		{"files", files},
		{"averageFileSize", Number(avg)},
		{"sprite", sprite},
	}}
}

func spriteRef(key string, t api.SpriteTiming, pointer bool) Record {
	return Record{Type: "SoundSpriteRef", Pointer: pointer, Fields: []Value{
		{"key", Str(key)},
		{"start", Decimal(t.Start)},
		{"end", Decimal(t.End)},
		{"loop", Boolean(t.Loop)},
	}}
}
