package component

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Sprite is a placeholder quad. Image is built lazily by the render
// system from Color and Size so headless code never touches the GPU.
type Sprite struct {
	Image *ebiten.Image
	Color color.Color
	Size  float64

	OriginX    float64
	OriginY    float64
	FacingLeft bool
	Hidden     bool
}

var SpriteComponent = NewComponent[Sprite]()
