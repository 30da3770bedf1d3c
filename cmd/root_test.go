package cmd

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImagesCommand(t *testing.T) {
	dir := t.TempDir()
	assets := filepath.Join(dir, "assets")
	require.NoError(t, os.MkdirAll(filepath.Join(assets, "ui"), 0o755))
	f, err := os.Create(filepath.Join(assets, "ui", "button.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewNRGBA(image.Rect(0, 0, 3, 2))))
	require.NoError(t, f.Close())

	cfgFile := filepath.Join(dir, "catalog.hcl")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`
images {
  asset_dir = "assets"
  out_file  = "gen/textures.ts"
}
`), 0o644))

	out := filepath.Join(dir, "override.ts")
	rootCmd.SetArgs([]string{"images", "-c", cfgFile, "-o", out})
	require.NoError(t, rootCmd.ExecuteContext(t.Context()))

	assert.FileExists(t, out)
	assert.NoFileExists(t, filepath.Join(dir, "gen", "textures.ts"))
	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "button: T,")
}
