// Package debugviz renders a arena.DebugRenderData snapshot into a top-down
// PNG for the operator-only debug endpoint. Repurposes the teacher's use of
// fogleman/gg (there, rendering live stream frames of melee combat) for
// rendering physics-debug overlays instead.
package debugviz

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/fogleman/gg"

	"cosmic-arena/internal/arena"
	"cosmic-arena/internal/physics"
)

var bodyColor = map[arena.DebugBodyKind]color.RGBA{
	arena.DebugBodyDynamic:           {R: 80, G: 200, B: 255, A: 255},
	arena.DebugBodyKinematicVelocity: {R: 255, G: 180, B: 60, A: 255},
	arena.DebugBodyStatic:            {R: 150, G: 150, B: 150, A: 255},
}

const (
	velocityLineScale = 0.25
	minBodyRadius     = 3.0
)

// Render draws data over an arena of the given dimensions (matching
// arena.Bounds) and returns the finished image.
func Render(data arena.DebugRenderData, arenaWidth, arenaHeight float64) image.Image {
	dc := gg.NewContext(int(arenaWidth), int(arenaHeight))

	dc.SetRGB(0.04, 0.04, 0.08)
	dc.Clear()

	toScreen := func(p physics.Vec2) (float64, float64) {
		return p.X + arenaWidth/2, p.Y + arenaHeight/2
	}

	dc.SetRGB(0.3, 0.3, 0.35)
	dc.DrawRectangle(1, 1, arenaWidth-2, arenaHeight-2)
	dc.Stroke()

	for _, c := range data.Colliders {
		x, y := toScreen(c.Position)
		dc.SetRGBA(0.5, 0.9, 0.5, 0.5)
		radius := c.Radius
		if radius <= 0 {
			radius = minBodyRadius
		}
		dc.DrawCircle(x, y, radius)
		dc.Stroke()
	}

	for _, b := range data.RigidBodies {
		x, y := toScreen(b.Position)
		col := bodyColor[b.Kind]
		dc.SetColor(col)

		radius := math.Max(minBodyRadius, math.Sqrt(b.Mass))
		dc.DrawCircle(x, y, radius)
		dc.Fill()

		noseX := x + math.Cos(b.Rotation)*(radius+6)
		noseY := y + math.Sin(b.Rotation)*(radius+6)
		dc.DrawLine(x, y, noseX, noseY)
		dc.Stroke()
	}

	dc.SetRGBA(1, 1, 0, 0.8)
	for _, v := range data.Velocities {
		pos := bodyPosition(data, v.Body)
		x, y := toScreen(pos)
		dc.DrawLine(x, y, x+v.Linear.X*velocityLineScale, y+v.Linear.Y*velocityLineScale)
		dc.Stroke()
	}

	dc.SetRGBA(1, 0, 1, 0.6)
	for _, j := range data.Joints {
		ax, ay := toScreen(j.AnchorA)
		bx, by := toScreen(j.AnchorB)
		dc.DrawLine(ax, ay, bx, by)
		dc.Stroke()
	}

	return dc.Image()
}

func bodyPosition(data arena.DebugRenderData, handle uint32) physics.Vec2 {
	for _, b := range data.RigidBodies {
		if b.Handle == handle {
			return b.Position
		}
	}
	return physics.Vec2{}
}

// EncodePNG renders data and writes it as a PNG to w.
func EncodePNG(w io.Writer, data arena.DebugRenderData, arenaWidth, arenaHeight float64) error {
	return png.Encode(w, Render(data, arenaWidth, arenaHeight))
}
