// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/devblok/vkoverlay/gfx"
	"github.com/devblok/vkoverlay/vkr"
)

// RenderTarget identifies where a collaborator may record: the overlay
// render pass, the command buffer currently recording, and the index of
// the swapchain image the frame lands on.
type RenderTarget struct {
	RenderPass    vkr.RenderPass
	CommandBuffer vkr.CommandBuffer
	ImageIndex    uint32
}

// EyeTexture describes one eye's rendered scene: the host texture handle
// and the UV sub-rectangle of it to sample.
type EyeTexture struct {
	Texture uintptr

	Left   float32
	Right  float32
	Top    float32
	Bottom float32
}

// Renderer describes the host-facing rendering machinery. It is created
// fully wired; operations are safe no-ops when the host never handed
// over its graphics interface.
type Renderer interface {
	// SetupWidgets builds the widget overlay renderer from compiled
	// SPIR-V shader blobs.
	SetupWidgets(vertexShader, fragmentShader []byte) error

	// RenderWidgets records the widget overlay pass for the current
	// frame, in widget order.
	RenderWidgets(screen gfx.ScreenParams, widgets []gfx.WidgetParams) error

	// TeardownWidgets destroys the widget overlay renderer. Safe to
	// call more than once.
	TeardownWidgets()

	// CreateRenderTexture allocates a device-local eye texture of half
	// the screen width.
	CreateRenderTexture(width, height int32) (vkr.ImageResource, error)

	// DestroyRenderTexture releases a texture created by
	// CreateRenderTexture.
	DestroyRenderTexture(texture *vkr.ImageResource)

	// RenderEyesToDisplay hands both eyes to the distortion
	// collaborator, addressed at the current frame's target.
	RenderEyesToDisplay(screen gfx.ScreenParams, left, right EyeTexture) error

	// PreProcess refreshes frame targets and opens the render pass on
	// the current swapchain image.
	PreProcess(screen gfx.ScreenParams) error

	// PostProcess closes the render pass opened by PreProcess.
	PostProcess()

	// Destroy destroys internal members
	Destroy()
}

// DistortionRenderer is the opaque collaborator that composites the eye
// textures with lens distortion. Its internals live with the host.
type DistortionRenderer interface {
	RenderEyeToDisplay(target RenderTarget, screen gfx.ScreenParams, left, right EyeTexture)
}

// RecordingStateProvider is the host's per-frame recording state: the
// command buffer the frame records into, and a guarantee that recording
// is outside any render pass before a new one begins.
type RecordingStateProvider interface {
	CommandBuffer() vkr.CommandBuffer
	EnsureOutsideRenderPass()
}

// ShaderType represents the type of shader thats loaded
type ShaderType int

// Identifies shader objects with their types
const (
	VertexShaderType ShaderType = iota
	FragmentShaderType
	UnknownShaderType
)
