// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr_test

import (
	"testing"

	"github.com/devblok/vkoverlay/vkr"
)

// fakeSwapchainDriver stands in for the host's swapchain entry points.
type fakeSwapchainDriver struct {
	swapchain     vkr.Swapchain
	createResult  vkr.Result
	acquireResult vkr.Result

	indices []uint32
	cursor  int

	createCalls  int
	acquireCalls int
	lastInfo     vkr.SwapchainCreateInfo
	lastTimeout  uint64
}

func (d *fakeSwapchainDriver) CreateSwapchain(dev vkr.Device, info vkr.SwapchainCreateInfo) (vkr.Swapchain, vkr.Result) {
	d.createCalls++
	d.lastInfo = info
	return d.swapchain, d.createResult
}

func (d *fakeSwapchainDriver) AcquireNextImage(dev vkr.Device, swapchain vkr.Swapchain, timeout uint64, semaphore vkr.Semaphore, fence vkr.Fence) (uint32, vkr.Result) {
	d.acquireCalls++
	d.lastTimeout = timeout
	idx := d.indices[d.cursor%len(d.indices)]
	d.cursor++
	return idx, d.acquireResult
}

func TestInterceptorForwardsCreateSwapchain(t *testing.T) {
	next := &fakeSwapchainDriver{swapchain: 0x5c, indices: []uint32{0}}
	interceptor := vkr.Intercept(next)

	info := vkr.SwapchainCreateInfo{
		MinImageCount: 3,
		Format:        vkr.FormatR8g8b8a8Srgb,
		Extent:        vkr.Extent2D{Width: 1280, Height: 720},
	}
	swapchain, result := interceptor.CreateSwapchain(testDevice, info)

	if next.createCalls != 1 {
		t.Fatalf("expected exactly one forwarded call, got %d", next.createCalls)
	}
	if next.lastInfo != info {
		t.Errorf("create info was not forwarded unchanged: %+v", next.lastInfo)
	}
	if swapchain != 0x5c || result != vkr.Success {
		t.Errorf("got (%#x, %d), want the wrapped driver's values", uint64(swapchain), result)
	}
	if interceptor.Binding().Swapchain() != 0x5c {
		t.Errorf("binding holds %#x, want the created swapchain", uint64(interceptor.Binding().Swapchain()))
	}
}

func TestInterceptorForwardsAcquireNextImage(t *testing.T) {
	next := &fakeSwapchainDriver{swapchain: 0x5c, indices: []uint32{2, 0, 1}}
	interceptor := vkr.Intercept(next)
	interceptor.CreateSwapchain(testDevice, vkr.SwapchainCreateInfo{MinImageCount: 3})

	for _, want := range []uint32{2, 0, 1} {
		index, result := interceptor.AcquireNextImage(testDevice, interceptor.Binding().Swapchain(), 100, vkr.NullHandle, vkr.NullHandle)
		if result != vkr.Success {
			t.Fatalf("acquire returned %d", result)
		}
		if index != want {
			t.Errorf("acquire returned index %d, want %d", index, want)
		}
		if got := interceptor.Binding().ImageIndex(); got != want {
			t.Errorf("binding holds index %d, want %d", got, want)
		}
	}
	if next.lastTimeout != 100 {
		t.Errorf("timeout was not forwarded, got %d", next.lastTimeout)
	}
}

func TestInterceptorPropagatesResultsUnchanged(t *testing.T) {
	next := &fakeSwapchainDriver{
		swapchain:     vkr.NullHandle,
		createResult:  vkr.ErrorOutOfDeviceMemory,
		acquireResult: vkr.ErrorOutOfDate,
		indices:       []uint32{0},
	}
	interceptor := vkr.Intercept(next)

	if _, result := interceptor.CreateSwapchain(testDevice, vkr.SwapchainCreateInfo{}); result != vkr.ErrorOutOfDeviceMemory {
		t.Errorf("create result %d, want the driver's error propagated", result)
	}
	if _, result := interceptor.AcquireNextImage(testDevice, vkr.NullHandle, 0, vkr.NullHandle, vkr.NullHandle); result != vkr.ErrorOutOfDate {
		t.Errorf("acquire result %d, want the driver's error propagated", result)
	}
}
