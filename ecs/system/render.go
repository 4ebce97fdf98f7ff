package system

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/arbelos/vessel/dungeon"
	"github.com/arbelos/vessel/ecs"
	"github.com/arbelos/vessel/ecs/component"
)

var (
	wallColor  = color.NRGBA{R: 0x23, G: 0x24, B: 0x2b, A: 0xff}
	floorColor = color.NRGBA{R: 0x4a, G: 0x4d, B: 0x58, A: 0xff}
	doorColor  = color.NRGBA{R: 0x6b, G: 0x54, B: 0x2e, A: 0xff}
)

// RenderSystem draws the floor tilemap and entity quads under the follow
// camera. The tilemap is rasterized once per layout.
type RenderSystem struct {
	camEntity ecs.Entity

	tilemap       *ebiten.Image
	tilemapLayout *dungeon.Layout

	quads map[string]*ebiten.Image
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{quads: map[string]*ebiten.Image{}}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	if !r.camEntity.Valid() || !w.IsAlive(r.camEntity) {
		if camEntity, ok := ecs.First(w, component.CameraComponent.Kind()); ok {
			r.camEntity = camEntity
		}
	}

	camX, camY := 0.0, 0.0
	zoom := 1.0
	if camTransform, ok := ecs.Get(w, r.camEntity, component.TransformComponent.Kind()); ok {
		camX = camTransform.X
		camY = camTransform.Y
	}
	if cam, ok := ecs.Get(w, r.camEntity, component.CameraComponent.Kind()); ok && cam.Zoom > 0 {
		zoom = cam.Zoom
	}

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	offsetX := float64(sw)/2 - camX*zoom
	offsetY := float64(sh)/2 - camY*zoom

	r.drawTilemap(w, screen, offsetX, offsetY, zoom)
	r.drawSprites(w, screen, offsetX, offsetY, zoom)
}

func (r *RenderSystem) drawTilemap(w *ecs.World, screen *ebiten.Image, offsetX, offsetY, zoom float64) {
	layout := currentLayout(w)
	if layout == nil {
		return
	}

	if r.tilemap == nil || r.tilemapLayout != layout {
		r.tilemap = rasterizeLayout(layout)
		r.tilemapLayout = layout
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(zoom, zoom)
	op.GeoM.Translate(offsetX, offsetY)
	screen.DrawImage(r.tilemap, op)
}

func rasterizeLayout(l *dungeon.Layout) *ebiten.Image {
	img := ebiten.NewImage(l.Width*int(dungeon.TileSize), l.Height*int(dungeon.TileSize))
	img.Fill(wallColor)

	tile := ebiten.NewImage(int(dungeon.TileSize), int(dungeon.TileSize))
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			var c color.Color
			switch l.TileAt(x, y) {
			case dungeon.TileFloor:
				c = floorColor
			case dungeon.TileDoor:
				c = doorColor
			default:
				continue
			}
			tile.Fill(c)
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(x)*dungeon.TileSize, float64(y)*dungeon.TileSize)
			img.DrawImage(tile, op)
		}
	}
	return img
}

func (r *RenderSystem) drawSprites(w *ecs.World, screen *ebiten.Image, offsetX, offsetY, zoom float64) {
	entities := w.Query(component.TransformComponent.Kind().ID(), component.SpriteComponent.Kind().ID())
	sort.SliceStable(entities, func(i, j int) bool {
		li, lj := 0, 0
		if layer, ok := ecs.Get(w, entities[i], component.RenderLayerComponent.Kind()); ok {
			li = layer.Index
		}
		if layer, ok := ecs.Get(w, entities[j], component.RenderLayerComponent.Kind()); ok {
			lj = layer.Index
		}
		if li != lj {
			return li < lj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		s, ok := ecs.Get(w, e, component.SpriteComponent.Kind())
		if !ok || s.Hidden {
			continue
		}

		img := s.Image
		if img == nil {
			img = r.quad(s.Color, s.Size)
			if img == nil {
				continue
			}
			s.Image = img
		}

		op := &ebiten.DrawImageOptions{}
		// Corpses fade to a darker tone.
		if ecs.Has(w, e, component.DeadTagComponent.Kind()) {
			op.ColorScale.Scale(0.4, 0.4, 0.4, 1)
		}

		half := float64(img.Bounds().Dx()) / 2
		op.GeoM.Translate(-half+s.OriginX, -half+s.OriginY)

		sx := t.ScaleX
		if sx == 0 {
			sx = 1
		}
		if s.FacingLeft {
			sx = -sx
		}
		sy := t.ScaleY
		if sy == 0 {
			sy = 1
		}

		op.GeoM.Scale(sx*zoom, sy*zoom)
		op.GeoM.Translate(t.X*zoom+offsetX, t.Y*zoom+offsetY)

		screen.DrawImage(img, op)
	}
}

// quad returns a cached solid square for a color and size.
func (r *RenderSystem) quad(c color.Color, size float64) *ebiten.Image {
	if c == nil || size <= 0 {
		return nil
	}
	cr, cg, cb, ca := c.RGBA()
	key := fmt.Sprintf("%d_%d_%d_%d_%d", cr, cg, cb, ca, int(size))
	if img, ok := r.quads[key]; ok {
		return img
	}
	img := ebiten.NewImage(int(size), int(size))
	img.Fill(c)
	r.quads[key] = img
	return img
}
