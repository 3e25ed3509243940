// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"fmt"

	"github.com/devblok/vkoverlay/gfx"
)

// NewFrameTargets builds the per-swapchain-image views and the overlay
// render pass for the swapchain currently cached in binding. Framebuffers
// are not created here; they are built lazily, one image per frame, as
// dimensions become known.
//
// Construction is best-effort: on a driver failure the returned
// FrameTargets is still usable for teardown, with the failed objects left
// null, and the first failure is reported as the error.
func NewFrameTargets(driver Driver, device Device, binding *SwapchainBinding) (*FrameTargets, error) {
	f := &FrameTargets{
		driver:  driver,
		device:  device,
		binding: binding,
	}

	images, result := driver.GetSwapchainImages(device, binding.Swapchain())
	if err := result.Err("vk.GetSwapchainImages()"); err != nil {
		return f, err
	}

	f.views = make([]ImageView, len(images))
	f.framebuffers = make([]Framebuffer, len(images))

	var firstErr error
	for idx, image := range images {
		view, result := driver.CreateImageView(device, ImageViewCreateInfo{
			Image:  image,
			Format: FormatR8g8b8a8Srgb,
		})
		if err := result.Err("vk.CreateImageView()"); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("swapchain image %d: %s", idx, err.Error())
			}
			continue
		}
		f.views[idx] = view
	}

	pass, result := driver.CreateRenderPass(device, RenderPassCreateInfo{
		Format: FormatR8g8b8a8Srgb,
	})
	if err := result.Err("vk.CreateRenderPass()"); err != nil {
		if firstErr == nil {
			firstErr = err
		}
	} else {
		f.renderPass = pass
	}

	return f, firstErr
}

// FrameTargets owns one image view per swapchain image, the overlay
// render pass, and the per-image framebuffers, and drives render pass
// begin/end around all drawing for a frame.
type FrameTargets struct {
	driver  Driver
	device  Device
	binding *SwapchainBinding

	renderPass   RenderPass
	views        []ImageView
	framebuffers []Framebuffer

	// viewport dimensions last observed; a change marks every image dirty
	viewportWidth  int32
	viewportHeight int32

	// dirty holds the image indices whose framebuffer still matches the
	// previous dimensions. At most one entry is serviced per Begin call,
	// so a dimension change is fully reflected only after every image has
	// been presented once more.
	dirty []uint32
}

// RenderPass returns the overlay render pass.
func (f *FrameTargets) RenderPass() RenderPass {
	return f.renderPass
}

// ImageCount returns the number of swapchain images the targets track.
func (f *FrameTargets) ImageCount() int {
	return len(f.views)
}

// PendingUpdates returns how many images still await a framebuffer
// rebuild after a dimension change. Never exceeds ImageCount.
func (f *FrameTargets) PendingUpdates() int {
	return len(f.dirty)
}

// Begin prepares the current image's framebuffer and opens the render
// pass on it with a single opaque black clear. The caller must ensure no
// render pass is already open on cb.
func (f *FrameTargets) Begin(cb CommandBuffer, screen gfx.ScreenParams) error {
	if screen.ViewportWidth != f.viewportWidth || screen.ViewportHeight != f.viewportHeight {
		f.viewportWidth = screen.ViewportWidth
		f.viewportHeight = screen.ViewportHeight
		f.markAllDirty()
	}

	idx := f.binding.ImageIndex()
	if int(idx) >= len(f.framebuffers) {
		return fmt.Errorf("image index %d out of range for %d swapchain images", idx, len(f.framebuffers))
	}

	var err error
	if f.takeDirty(idx) || f.framebuffers[idx] == NullHandle {
		err = f.rebuildFramebuffer(idx, screen)
	}

	f.driver.CmdBeginRenderPass(cb, RenderPassBeginInfo{
		RenderPass:  f.renderPass,
		Framebuffer: f.framebuffers[idx],
		RenderArea: Rect2D{
			Extent: Extent2D{
				Width:  uint32(screen.Width),
				Height: uint32(screen.Height),
			},
		},
		ClearColor: ClearColor{0, 0, 0, 1},
	})
	return err
}

// End closes the render pass opened by Begin.
func (f *FrameTargets) End(cb CommandBuffer) {
	f.driver.CmdEndRenderPass(cb)
}

// Destroy releases framebuffers, image views and the render pass, in
// that order. Objects that were never built are skipped; calling Destroy
// twice is a no-op the second time.
func (f *FrameTargets) Destroy() {
	for idx, fb := range f.framebuffers {
		if fb != NullHandle {
			f.driver.DestroyFramebuffer(f.device, fb)
			f.framebuffers[idx] = NullHandle
		}
	}
	for idx, view := range f.views {
		if view != NullHandle {
			f.driver.DestroyImageView(f.device, view)
			f.views[idx] = NullHandle
		}
	}
	if f.renderPass != NullHandle {
		f.driver.DestroyRenderPass(f.device, f.renderPass)
		f.renderPass = NullHandle
	}
	f.dirty = nil
}

func (f *FrameTargets) markAllDirty() {
	f.dirty = f.dirty[:0]
	for idx := range f.framebuffers {
		f.dirty = append(f.dirty, uint32(idx))
	}
}

// takeDirty removes idx from the dirty queue and reports whether it was
// queued.
func (f *FrameTargets) takeDirty(idx uint32) bool {
	for i, d := range f.dirty {
		if d == idx {
			f.dirty = append(f.dirty[:i], f.dirty[i+1:]...)
			return true
		}
	}
	return false
}

func (f *FrameTargets) rebuildFramebuffer(idx uint32, screen gfx.ScreenParams) error {
	if f.framebuffers[idx] != NullHandle {
		f.driver.DestroyFramebuffer(f.device, f.framebuffers[idx])
		f.framebuffers[idx] = NullHandle
	}

	fb, result := f.driver.CreateFramebuffer(f.device, FramebufferCreateInfo{
		RenderPass: f.renderPass,
		Attachment: f.views[idx],
		Width:      uint32(screen.Width),
		Height:     uint32(screen.Height),
	})
	if err := result.Err("vk.CreateFramebuffer()"); err != nil {
		return fmt.Errorf("image %d: %s", idx, err.Error())
	}
	f.framebuffers[idx] = fb
	return nil
}
