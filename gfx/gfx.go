// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gfx defines the screen and widget parameters the host supplies
// per frame, and the geometry derived from them.
package gfx

// ScreenParams describes the presentation area for a frame.
// ViewportX/Y and ViewportWidth/Height select the drawable region,
// Width and Height are the dimensions of the target surface.
type ScreenParams struct {
	ViewportX      int32
	ViewportY      int32
	ViewportWidth  int32
	ViewportHeight int32

	Width  int32
	Height int32
}

// WidgetParams describes a single 2D overlay quad. Coordinates are
// host screen-space: origin top-left, y growing downwards. Texture is
// an opaque native texture handle owned by the host.
type WidgetParams struct {
	X      int32
	Y      int32
	Width  int32
	Height int32

	Texture uintptr
}
