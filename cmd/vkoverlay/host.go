// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"errors"
	"math"

	vk "github.com/devblok/vulkan"

	"github.com/devblok/vkoverlay/device"
	"github.com/devblok/vkoverlay/vkr"
)

// host plays the part of the engine that owns the swapchain and the
// per-frame command buffers. The overlay only ever sees it through the
// interceptor and the recording state provider.
type host struct {
	dev device.Device

	swapchain      vk.Swapchain
	commandPool    vk.CommandPool
	commandBuffers []vk.CommandBuffer
	imageIndex     uint32

	imageAvailableSemaphore vk.Semaphore
	renderFinishedSemaphore vk.Semaphore
}

func newHost(dev device.Device) *host {
	return &host{dev: dev}
}

// CreateSwapchain implements vkr.SwapchainDriver
func (h *host) CreateSwapchain(_ vkr.Device, info vkr.SwapchainCreateInfo) (vkr.Swapchain, vkr.Result) {
	var surfaceCapabilities vk.SurfaceCapabilities
	if res := vk.GetPhysicalDeviceSurfaceCapabilities(h.dev.Physical(), h.dev.Surface(), &surfaceCapabilities); res != vk.Success {
		return vkr.NullHandle, vkr.Result(res)
	}
	surfaceCapabilities.Deref()

	compositeAlpha := vk.CompositeAlphaOpaqueBit
	compositeAlphaFlags := []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	}
	for i := 0; i < len(compositeAlphaFlags); i++ {
		alphaFlags := vk.CompositeAlphaFlags(compositeAlphaFlags[i])
		if surfaceCapabilities.SupportedCompositeAlpha&alphaFlags != 0 {
			compositeAlpha = compositeAlphaFlags[i]
			break
		}
	}

	scci := vk.SwapchainCreateInfo{
		SType:           vk.StructureTypeSwapchainCreateInfo,
		Surface:         h.dev.Surface(),
		MinImageCount:   info.MinImageCount,
		ImageFormat:     vk.FormatR8g8b8a8Srgb,
		ImageColorSpace: vk.ColorSpaceSrgbNonlinear,
		ImageExtent: vk.Extent2D{
			Width:  info.Extent.Width,
			Height: info.Extent.Height,
		},
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     vk.SurfaceTransformIdentityBit,
		CompositeAlpha:   compositeAlpha,
		PresentMode:      vk.PresentModeFifo,
		Clipped:          vk.True,
		ImageArrayLayers: 1,
		ImageSharingMode: vk.SharingModeExclusive,
	}

	var swapchain vk.Swapchain
	res := vk.CreateSwapchain(h.dev.Logical(), &scci, nil, &swapchain)
	if res == vk.Success {
		h.swapchain = swapchain
	}
	return vkr.SwapchainHandle(swapchain), vkr.Result(res)
}

// AcquireNextImage implements vkr.SwapchainDriver. The host owns the
// acquire semaphore; the handles the caller passes are ignored.
func (h *host) AcquireNextImage(_ vkr.Device, _ vkr.Swapchain, timeout uint64, _ vkr.Semaphore, _ vkr.Fence) (uint32, vkr.Result) {
	var idx uint32
	res := vk.AcquireNextImage(h.dev.Logical(), h.swapchain, timeout, h.imageAvailableSemaphore, vk.NullFence, &idx)
	if res == vk.Success {
		h.imageIndex = idx
	}
	return idx, vkr.Result(res)
}

// CommandBuffer implements core.RecordingStateProvider
func (h *host) CommandBuffer() vkr.CommandBuffer {
	return vkr.CommandBufferHandle(h.commandBuffers[h.imageIndex])
}

// EnsureOutsideRenderPass implements core.RecordingStateProvider. The
// demo records exactly one render pass per frame and closes it in
// PostProcess, so there is never one left open here.
func (h *host) EnsureOutsideRenderPass() {}

// prepare allocates one command buffer per swapchain image plus the
// frame synchronization primitives. Call after the swapchain exists.
// The driver may create more images than the requested minimum, so the
// count comes from the swapchain itself.
func (h *host) prepare() error {
	var imageCount uint32
	if err := vk.Error(vk.GetSwapchainImages(h.dev.Logical(), h.swapchain, &imageCount, nil)); err != nil {
		return errors.New("vk.GetSwapchainImages(): " + err.Error())
	}

	cpci := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: h.dev.QueueFamily(),
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}
	if err := vk.Error(vk.CreateCommandPool(h.dev.Logical(), &cpci, nil, &h.commandPool)); err != nil {
		return errors.New("vk.CreateCommandPool(): " + err.Error())
	}

	cbai := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        h.commandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: imageCount,
	}
	h.commandBuffers = make([]vk.CommandBuffer, imageCount)
	if err := vk.Error(vk.AllocateCommandBuffers(h.dev.Logical(), &cbai, h.commandBuffers)); err != nil {
		return errors.New("vk.AllocateCommandBuffers(): " + err.Error())
	}

	sci := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	if err := vk.Error(vk.CreateSemaphore(h.dev.Logical(), &sci, nil, &h.imageAvailableSemaphore)); err != nil {
		return errors.New("vk.CreateSemaphore(): " + err.Error())
	}
	if err := vk.Error(vk.CreateSemaphore(h.dev.Logical(), &sci, nil, &h.renderFinishedSemaphore)); err != nil {
		return errors.New("vk.CreateSemaphore(): " + err.Error())
	}
	return nil
}

// beginFrame opens the current image's command buffer for recording.
func (h *host) beginFrame() error {
	cbbi := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if err := vk.Error(vk.BeginCommandBuffer(h.commandBuffers[h.imageIndex], &cbbi)); err != nil {
		return errors.New("vk.BeginCommandBuffer(): " + err.Error())
	}
	return nil
}

// endFrame closes the command buffer, submits it and presents.
func (h *host) endFrame() error {
	if err := vk.Error(vk.EndCommandBuffer(h.commandBuffers[h.imageIndex])); err != nil {
		return errors.New("vk.EndCommandBuffer(): " + err.Error())
	}

	submit := []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{h.imageAvailableSemaphore},
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{h.commandBuffers[h.imageIndex]},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{h.renderFinishedSemaphore},
	}}
	if err := vk.Error(vk.QueueSubmit(h.dev.GraphicsQueue(), 1, submit, vk.NullFence)); err != nil {
		return errors.New("vk.QueueSubmit(): " + err.Error())
	}

	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{h.renderFinishedSemaphore},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{h.swapchain},
		PImageIndices:      []uint32{h.imageIndex},
	}
	if err := vk.Error(vk.QueuePresent(h.dev.GraphicsQueue(), &presentInfo)); err != nil {
		return errors.New("vk.QueuePresent(): " + err.Error())
	}

	return vk.Error(vk.QueueWaitIdle(h.dev.GraphicsQueue()))
}

func (h *host) destroy() {
	dev := h.dev.Logical()
	vk.DestroySemaphore(dev, h.renderFinishedSemaphore, nil)
	vk.DestroySemaphore(dev, h.imageAvailableSemaphore, nil)
	if len(h.commandBuffers) > 0 {
		vk.FreeCommandBuffers(dev, h.commandPool, uint32(len(h.commandBuffers)), h.commandBuffers)
		h.commandBuffers = nil
	}
	vk.DestroyCommandPool(dev, h.commandPool, nil)
	vk.DestroySwapchain(dev, h.swapchain, nil)
}

// acquireTimeout is effectively "wait forever".
const acquireTimeout = uint64(math.MaxUint64)
