package writeback

import (
	"fmt"

	"mvdan.cc/gofumpt/format"
)

// FormatGo formats generated Go source with gofumpt.
func FormatGo(content []byte, filePath string) ([]byte, error) {
	formatted, err := format.Source(content, format.Options{})
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", filePath, err)
	}
	return formatted, nil
}
