package api

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every one of them is fatal to a generator run.
var (
	ErrDuplicateAssetKey    = errors.New("duplicate asset key")
	ErrDuplicateIdentifier  = errors.New("duplicate identifier")
	ErrInvalidIdentifier    = errors.New("invalid identifier")
	ErrDecodeFailure        = errors.New("decode failure")
	ErrNoCandidateForSprite = errors.New("no candidate for sprite")
	ErrPackingFailure       = errors.New("packing failure")
)

// AssetError reports a problem tied to specific assets. errors.Is matches
// both its Kind and its Cause.
type AssetError struct {
	Kind     error    // One of the Err* kinds above.
	Category string   // Slash-joined category path, "" at the root.
	Key      string   // Leaf key or identifier involved, if any.
	Paths    []string // Offending files or names.
	Cause    error
}

func (e *AssetError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Key != "" {
		fmt.Fprintf(&b, " %q", e.Key)
	}
	if e.Category != "" {
		fmt.Fprintf(&b, " in category %q", e.Category)
	}
	if len(e.Paths) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Paths, ", "))
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *AssetError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}
