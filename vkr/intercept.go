// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

// SwapchainBinding caches the swapchain handle the host created and the
// image index it acquired for the current frame. It is written only by
// the Interceptor during the host's own driver calls and read by every
// frame-target operation afterwards; the host serializes acquisition and
// rendering on one thread, so no locking is applied.
type SwapchainBinding struct {
	swapchain  Swapchain
	imageIndex uint32
}

// Swapchain returns the cached swapchain handle, NullHandle until the
// host has created one.
func (b *SwapchainBinding) Swapchain() Swapchain {
	return b.swapchain
}

// ImageIndex returns the image index of the current frame. Only valid
// once the host has acquired an image.
func (b *SwapchainBinding) ImageIndex() uint32 {
	return b.imageIndex
}

// Intercept wraps the host's swapchain entry points so their results can
// be observed. It is installed once during host graphics initialization;
// every call forwards to next and the original result is propagated
// unchanged, only the bookkeeping is unconditional.
func Intercept(next SwapchainDriver) *Interceptor {
	return &Interceptor{
		next:    next,
		binding: &SwapchainBinding{},
	}
}

// Interceptor observes the swapchain creation and per-frame image
// acquisition the host performs. It implements SwapchainDriver and
// stands in for the real entry points in the host's dispatch.
type Interceptor struct {
	next    SwapchainDriver
	binding *SwapchainBinding
}

// Binding exposes the cached swapchain state for the rest of the
// renderer.
func (i *Interceptor) Binding() *SwapchainBinding {
	return i.binding
}

// CreateSwapchain forwards to the real driver call and records the
// produced swapchain handle.
func (i *Interceptor) CreateSwapchain(dev Device, info SwapchainCreateInfo) (Swapchain, Result) {
	swapchain, result := i.next.CreateSwapchain(dev, info)
	i.binding.swapchain = swapchain
	return swapchain, result
}

// AcquireNextImage forwards to the real driver call and records the
// produced image index.
func (i *Interceptor) AcquireNextImage(dev Device, swapchain Swapchain, timeout uint64, semaphore Semaphore, fence Fence) (uint32, Result) {
	index, result := i.next.AcquireNextImage(dev, swapchain, timeout, semaphore, fence)
	i.binding.imageIndex = index
	return index, result
}
