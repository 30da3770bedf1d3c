// Package catalog folds a flat list of asset paths into the category tree
// that every generated catalog mirrors.
package catalog

import (
	"slices"
	"strings"

	"github.com/remvst/asset-catalog/api"
	"github.com/remvst/asset-catalog/internal/naming"
)

// Mode selects how files sharing a leaf key are handled.
type Mode int

const (
	// Single allows one file per leaf key. A second file is a duplicate.
	Single Mode = iota
	// Grouped merges files with the same key into one leaf, one per extension.
	Grouped
)

// Tree is one level of the category tree. Entries keep first-insertion order.
type Tree struct {
	entries []*Entry
	index   map[string]int
}

// Entry is either a Branch (Sub != nil) or a Leaf (Leaf != nil), never both.
type Entry struct {
	Key  string
	Sub  *Tree
	Leaf *Leaf

	raw string // directory name that created a branch
}

// Leaf holds the asset paths reachable under one key. In Single mode it
// always holds exactly one path.
type Leaf struct {
	Key        string
	Categories []string // Category names from the root to the leaf's parent.
	Paths      []string // Normalized paths, in discovery order.
}

// IsBranch reports whether e holds a sub-tree.
func (e *Entry) IsBranch() bool { return e.Sub != nil }

// CategoryKey is the slash-joined category path of the leaf.
func (l *Leaf) CategoryKey() string { return strings.Join(l.Categories, "/") }

// Path returns the leaf's first path.
func (l *Leaf) Path() string { return l.Paths[0] }

func newTree() *Tree {
	return &Tree{index: make(map[string]int)}
}

// Entries returns the entries of this level in insertion order.
func (t *Tree) Entries() []*Entry { return t.entries }

// Len is the number of entries at this level.
func (t *Tree) Len() int { return len(t.entries) }

// Get returns the entry stored under key.
func (t *Tree) Get(key string) (*Entry, bool) {
	i, ok := t.index[key]
	if !ok {
		return nil, false
	}
	return t.entries[i], true
}

// Lookup follows keys down the tree.
func (t *Tree) Lookup(keys ...string) (*Entry, bool) {
	cur := t
	var e *Entry
	for i, k := range keys {
		var ok bool
		if e, ok = cur.Get(k); !ok {
			return nil, false
		}
		if i < len(keys)-1 {
			if !e.IsBranch() {
				return nil, false
			}
			cur = e.Sub
		}
	}
	return e, e != nil
}

// Leaves returns every leaf in depth-first insertion order.
func (t *Tree) Leaves() []*Leaf {
	var out []*Leaf
	t.Walk(func(l *Leaf) { out = append(out, l) })
	return out
}

// Walk calls fn for every leaf in depth-first insertion order.
func (t *Tree) Walk(fn func(*Leaf)) {
	for _, e := range t.entries {
		if e.IsBranch() {
			e.Sub.Walk(fn)
		} else {
			fn(e.Leaf)
		}
	}
}

func (t *Tree) add(e *Entry) {
	t.index[e.Key] = len(t.entries)
	t.entries = append(t.entries, e)
}

// Build folds paths under root into a tree. Directory components become
// lower-camel categories and each file is stored under its base name
// without extension.
//
// In Single mode two files with the same key in the same category are an
// [api.ErrDuplicateAssetKey]. In Grouped mode they merge into one leaf
// unless they also share an extension. A key used both as a directory and a
// file is a duplicate in either mode, and two directory names that
// lower-camelize to the same category are an [api.ErrDuplicateIdentifier].
func Build(root string, paths []string, mode Mode) (*Tree, error) {
	tree := newTree()
	for _, p := range paths {
		if err := tree.insert(root, naming.Normalize(p), mode); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

func (t *Tree) insert(root, p string, mode Mode) error {
	cur := t
	var cats []string
	for _, raw := range naming.RelativeDir(root, p) {
		cat := naming.LowerCamelize(raw)
		if cat == "" {
			continue
		}
		e, ok := cur.Get(cat)
		switch {
		case !ok:
			e = &Entry{Key: cat, Sub: newTree(), raw: raw}
			cur.add(e)
		case !e.IsBranch():
			return &api.AssetError{
				Kind:     api.ErrDuplicateAssetKey,
				Category: strings.Join(cats, "/"),
				Key:      cat,
				Paths:    []string{e.Leaf.Path(), p},
			}
		case e.raw != raw:
			return &api.AssetError{
				Kind:     api.ErrDuplicateIdentifier,
				Category: strings.Join(cats, "/"),
				Key:      cat,
				Paths:    []string{e.raw, raw},
			}
		}
		cats = append(cats, cat)
		cur = e.Sub
	}

	key := naming.Stem(p)
	e, ok := cur.Get(key)
	if !ok {
		cur.add(&Entry{Key: key, Leaf: &Leaf{
			Key:        key,
			Categories: slices.Clone(cats),
			Paths:      []string{p},
		}})
		return nil
	}

	dup := &api.AssetError{
		Kind:     api.ErrDuplicateAssetKey,
		Category: strings.Join(cats, "/"),
		Key:      key,
	}
	if e.IsBranch() {
		dup.Paths = []string{e.raw + "/", p}
		return dup
	}
	if mode == Single {
		dup.Paths = []string{e.Leaf.Path(), p}
		return dup
	}
	for _, existing := range e.Leaf.Paths {
		if existing == p || naming.Ext(existing) == naming.Ext(p) {
			dup.Paths = []string{existing, p}
			return dup
		}
	}
	e.Leaf.Paths = append(e.Leaf.Paths, p)
	return nil
}
