// Package writeback checks, formats and atomically writes generated files.
package writeback

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// ValidationError locates the first syntax error of a generated file.
type ValidationError struct {
	FilePath string
	Line     uint32 // 0-indexed
	Column   uint32 // 0-indexed
	Count    int    // Error nodes in the whole tree.
	Message  string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line+1, e.Column+1, e.Message)
	if e.Count > 1 {
		msg += fmt.Sprintf(" (and %d more)", e.Count-1)
	}
	return msg
}

// Validate parses content with the tree-sitter grammar selected by the
// extension of filePath and fails if the tree has error or missing nodes.
// Files of other languages pass through.
func Validate(ctx context.Context, content []byte, filePath string) error {
	lang := languageForPath(filePath)
	if lang == nil {
		return nil
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return fmt.Errorf("tree-sitter parse failed for %s: %w", filePath, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return fmt.Errorf("tree-sitter returned nil root for %s", filePath)
	}
	if !root.HasError() {
		return nil
	}

	var errs []*sitter.Node
	collectErrors(root, &errs)
	if len(errs) == 0 {
		return &ValidationError{FilePath: filePath, Message: "AST contains errors"}
	}
	first := errs[0]
	msg := "syntax error"
	if first.IsMissing() {
		msg = "missing " + first.Type()
	}
	return &ValidationError{
		FilePath: filePath,
		Line:     first.StartPoint().Row,
		Column:   first.StartPoint().Column,
		Count:    len(errs),
		Message:  msg,
	}
}

// collectErrors gathers ERROR and MISSING nodes depth-first without
// descending into error subtrees.
func collectErrors(node *sitter.Node, errs *[]*sitter.Node) {
	if node.IsError() || node.IsMissing() {
		*errs = append(*errs, node)
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.HasError() || child.IsError() || child.IsMissing() {
			collectErrors(child, errs)
		}
	}
}

func languageForPath(filePath string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".go":
		return golang.GetLanguage()
	case ".ts":
		return typescript.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	default:
		return nil
	}
}
