package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCamelize(t *testing.T) {
	cases := map[string]string{
		"button":        "Button",
		"my-icon_2":     "MyIcon2",
		"already Camel": "AlreadyCamel",
		"keepCASE":      "KeepCASE",
		"--":            "",
		"été":           "T",
		"":              "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Camelize(in), in)
	}
}

func TestLowerCamelize(t *testing.T) {
	assert.Equal(t, "myIcon", LowerCamelize("my icon"))
	assert.Equal(t, "uI", LowerCamelize("UI"))
	assert.Equal(t, "2x", LowerCamelize("2x"))
	assert.Equal(t, "", LowerCamelize("..."))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "_ui_button_png", Sanitize("/ui/button.png"))
	assert.Equal(t, "a_b_c", Sanitize("a-b c"))
	assert.Equal(t, "caf_", Sanitize("café"), "one filler per rune")
}

func TestFieldAndTypeName_GuardLeadingDigit(t *testing.T) {
	assert.Equal(t, "_1up", FieldName("1up"))
	assert.Equal(t, "X1up", TypeName("1up"))
	assert.Equal(t, "gear", FieldName("gear"))
	assert.Equal(t, "Gear", TypeName("gear"))
}

func TestImportName(t *testing.T) {
	assert.Equal(t, "_ui_button_png", ImportName("ui/button.png"))
	assert.Equal(t, "_ui_button_png", ImportName(`ui\button.png`))
	assert.Equal(t, "_sfx_jump_ogg", ImportName("/sfx/jump.ogg"))
}
