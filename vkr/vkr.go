// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package vkr manages the lifetime and per-frame recording of the Vulkan
// resources backing the widget overlay: swapchain image views, the render
// pass and framebuffers, the widget graphics pipeline, descriptor sets and
// vertex/index buffers. The host owns the swapchain, the device and the
// command buffer; this package only creates objects derived from them and
// destroys everything it creates in reverse dependency order.
package vkr

import "fmt"

// Handles are opaque 64-bit values, matching how Vulkan represents
// non-dispatchable objects on the wire. Dispatchable handles (Device,
// PhysicalDevice, CommandBuffer) are pointers on the driver side but
// carried the same way here; the production Driver converts both kinds
// to the binding's types.
type (
	Device         uint64
	PhysicalDevice uint64
	CommandBuffer  uint64

	Swapchain           uint64
	Image               uint64
	ImageView           uint64
	Framebuffer         uint64
	RenderPass          uint64
	Pipeline            uint64
	PipelineLayout      uint64
	DescriptorSetLayout uint64
	DescriptorPool      uint64
	DescriptorSet       uint64
	Sampler             uint64
	ShaderModule        uint64
	Buffer              uint64
	DeviceMemory        uint64
	Semaphore           uint64
	Fence               uint64
)

// NullHandle is the zero value of every handle type.
const NullHandle = 0

// Result mirrors VkResult. Zero is success, negative values are errors,
// positive values are non-error statuses such as suboptimal.
type Result int32

// Result values the package inspects.
const (
	Success    Result = 0
	NotReady   Result = 1
	Timeout    Result = 2
	Suboptimal Result = 1000001003

	ErrorOutOfHostMemory   Result = -1
	ErrorOutOfDeviceMemory Result = -2
	ErrorDeviceLost        Result = -4
	ErrorOutOfDate         Result = -1000001004
)

// Err converts a Result into an error, nil for success and non-error
// statuses.
func (r Result) Err(op string) error {
	if r >= 0 {
		return nil
	}
	return fmt.Errorf("%s: result %d", op, int32(r))
}

// Format mirrors the VkFormat values the overlay uses.
type Format uint32

const (
	// FormatR8g8b8a8Srgb is the fixed swapchain view and render texture
	// format.
	FormatR8g8b8a8Srgb Format = 43

	// FormatEtc2R8g8b8a8Unorm is the compressed format the host uses for
	// widget textures. A host supplying any other compression format will
	// sample incorrectly; the format is deliberately explicit here rather
	// than inferred.
	FormatEtc2R8g8b8a8Unorm Format = 151

	// FormatR32g32Sfloat describes one vec2 vertex attribute.
	FormatR32g32Sfloat Format = 103
)
