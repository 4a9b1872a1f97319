package components

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/malla/internal/ui/theme"
)

func TestProgressBar_Plain(t *testing.T) {
	th := theme.New(theme.ModeDark, theme.PaletteIndigo, true)

	bar := NewProgressBar(th, "", 0.5, true, 16)
	assert.Equal(t, "[#####-----]  50%", bar.View())

	bar = NewProgressBar(th, "", 1.5, false, 6)
	assert.Equal(t, "[######]", bar.View())

	bar = NewProgressBar(th, "", -1, false, 2)
	assert.Equal(t, "[----]", bar.View(), "width never drops below four cells")
}

func TestProgressBar_Label(t *testing.T) {
	th := theme.New(theme.ModeDark, theme.PaletteIndigo, true)
	bar := NewProgressBar(th, "Credits", 0, false, 20)
	assert.Equal(t, "Credits  [-----------]", bar.View())
}
