// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import (
	glm "github.com/go-gl/mathgl/mgl32"
)

// Vertex is a widget quad vertex: position followed by texture
// coordinates, four float32 in total. The layout has to match the
// vertex input descriptors exactly.
type Vertex struct {
	Pos glm.Vec2
	UV  glm.Vec2
}

// QuadIndices is the index pattern shared by every widget quad,
// two triangles over four vertices.
var QuadIndices = []uint16{0, 1, 2, 2, 3, 0}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// WidgetQuad computes the four clip-space vertices for a widget.
//
// Host coordinates have the origin at the top-left with y growing
// downwards, while Vulkan clip space grows y downwards from the top as
// well only after the viewport transform; the widget's vertical position
// is therefore mirrored through the viewport height before mapping both
// axes onto [-1,+1]. See
// http://matthewwellings.com/blog/the-new-vulkan-coordinate-system/
func WidgetQuad(widget WidgetParams, screen ScreenParams) [4]Vertex {
	x := Lerp(-1, +1, float32(widget.X)/float32(screen.ViewportWidth))

	flippedY := screen.ViewportHeight - widget.Y - widget.Height
	y := Lerp(-1, +1, float32(flippedY)/float32(screen.ViewportHeight))

	width := float32(widget.Width) * 2.0 / float32(screen.ViewportWidth)
	height := float32(widget.Height) * 2.0 / float32(screen.ViewportHeight)

	return [4]Vertex{
		{Pos: glm.Vec2{x, y}, UV: glm.Vec2{0, 1}},
		{Pos: glm.Vec2{x, y + height}, UV: glm.Vec2{0, 0}},
		{Pos: glm.Vec2{x + width, y + height}, UV: glm.Vec2{1, 0}},
		{Pos: glm.Vec2{x + width, y}, UV: glm.Vec2{1, 1}},
	}
}
