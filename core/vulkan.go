// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	log "github.com/sirupsen/logrus"

	"github.com/devblok/vkoverlay/gfx"
	"github.com/devblok/vkoverlay/vkr"
)

// NewVulkanRenderer composes the overlay renderer from the handles the
// host handed over and the swapchain binding the interceptor cached.
// When the host never provided its graphics interface the returned
// renderer is inert: every operation, Destroy included, is a safe no-op.
// Construction is best effort; a partially built renderer is returned
// together with the first error so the caller can keep going.
func NewVulkanRenderer(driver vkr.Driver, device vkr.Device, phyDevice vkr.PhysicalDevice, binding *vkr.SwapchainBinding, states RecordingStateProvider, distortion DistortionRenderer) (*VulkanRenderer, error) {
	r := &VulkanRenderer{
		driver:     driver,
		device:     device,
		phyDevice:  phyDevice,
		binding:    binding,
		states:     states,
		distortion: distortion,
	}

	if device == vkr.NullHandle || binding == nil || binding.Swapchain() == vkr.NullHandle {
		log.Warn("graphics interface not provided, overlay rendering disabled")
		return r, nil
	}

	targets, err := vkr.NewFrameTargets(driver, device, binding)
	if err != nil {
		log.WithError(err).Error("frame target construction failed")
	}
	r.targets = targets
	r.alloc = vkr.NewMemoryAllocator(driver, device, phyDevice)
	r.ready = true
	return r, err
}

// VulkanRenderer owns the frame targets and the widget overlay for one
// swapchain, and records into the command buffer the host's recording
// state provides each frame.
type VulkanRenderer struct {
	driver     vkr.Driver
	device     vkr.Device
	phyDevice  vkr.PhysicalDevice
	binding    *vkr.SwapchainBinding
	states     RecordingStateProvider
	distortion DistortionRenderer

	alloc   *vkr.MemoryAllocator
	targets *vkr.FrameTargets
	widgets *vkr.WidgetRenderer

	ready bool
}

// SetupWidgets implements interface
func (r *VulkanRenderer) SetupWidgets(vertexShader, fragmentShader []byte) error {
	if !r.ready {
		return nil
	}
	if r.widgets != nil {
		r.widgets.Destroy()
	}

	widgets, err := vkr.NewWidgetRenderer(r.driver, r.device, r.phyDevice, r.alloc, vertexShader, fragmentShader)
	if err != nil {
		log.WithError(err).Error("widget renderer construction failed")
	}
	r.widgets = widgets
	return err
}

// RenderWidgets implements interface
func (r *VulkanRenderer) RenderWidgets(screen gfx.ScreenParams, widgets []gfx.WidgetParams) error {
	if !r.ready || r.widgets == nil {
		return nil
	}

	cb := r.states.CommandBuffer()
	if err := r.widgets.Render(cb, r.targets.RenderPass(), screen, widgets); err != nil {
		log.WithError(err).WithField("widgets", len(widgets)).Error("widget pass recording failed")
		return err
	}
	return nil
}

// TeardownWidgets implements interface
func (r *VulkanRenderer) TeardownWidgets() {
	if r.widgets == nil {
		return
	}
	r.widgets.Destroy()
	r.widgets = nil
}

// CreateRenderTexture implements interface
func (r *VulkanRenderer) CreateRenderTexture(width, height int32) (vkr.ImageResource, error) {
	if !r.ready {
		return vkr.ImageResource{}, nil
	}

	texture, err := vkr.NewRenderTexture(r.driver, r.device, r.alloc, width, height)
	if err != nil {
		log.WithError(err).Error("render texture creation failed")
	}
	return texture, err
}

// DestroyRenderTexture implements interface
func (r *VulkanRenderer) DestroyRenderTexture(texture *vkr.ImageResource) {
	if texture == nil {
		return
	}
	texture.Release()
}

// RenderEyesToDisplay implements interface
func (r *VulkanRenderer) RenderEyesToDisplay(screen gfx.ScreenParams, left, right EyeTexture) error {
	if !r.ready || r.distortion == nil {
		return nil
	}

	target := RenderTarget{
		RenderPass:    r.targets.RenderPass(),
		CommandBuffer: r.states.CommandBuffer(),
		ImageIndex:    r.binding.ImageIndex(),
	}
	r.distortion.RenderEyeToDisplay(target, screen, left, right)
	return nil
}

// PreProcess implements interface
func (r *VulkanRenderer) PreProcess(screen gfx.ScreenParams) error {
	if !r.ready {
		return nil
	}

	r.states.EnsureOutsideRenderPass()
	if err := r.targets.Begin(r.states.CommandBuffer(), screen); err != nil {
		log.WithError(err).Error("frame target refresh failed")
		return err
	}
	return nil
}

// PostProcess implements interface
func (r *VulkanRenderer) PostProcess() {
	if !r.ready {
		return
	}
	r.targets.End(r.states.CommandBuffer())
}

// Destroy implements interface
func (r *VulkanRenderer) Destroy() {
	if !r.ready {
		return
	}
	r.TeardownWidgets()
	r.targets.Destroy()
	r.ready = false
}
