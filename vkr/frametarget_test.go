// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr_test

import (
	"testing"

	"github.com/devblok/vkoverlay/gfx"
	"github.com/devblok/vkoverlay/vkr"
)

const testCB = vkr.CommandBuffer(0xcb)

func testScreen(width, height int32) gfx.ScreenParams {
	return gfx.ScreenParams{
		ViewportWidth:  width,
		ViewportHeight: height,
		Width:          width,
		Height:         height,
	}
}

// frameTargetRig wires a fake driver and an intercepted fake swapchain
// into FrameTargets the way the composed renderer does.
func frameTargetRig(t *testing.T, imageCount int) (*fakeDriver, *vkr.Interceptor, *vkr.FrameTargets) {
	t.Helper()

	driver := newFakeDriver(imageCount)
	interceptor := vkr.Intercept(&fakeSwapchainDriver{
		swapchain: 0x5c,
		indices:   sequentialIndices(imageCount),
	})
	interceptor.CreateSwapchain(testDevice, vkr.SwapchainCreateInfo{MinImageCount: uint32(imageCount)})

	targets, err := vkr.NewFrameTargets(driver, testDevice, interceptor.Binding())
	if err != nil {
		t.Fatalf("NewFrameTargets: %v", err)
	}
	return driver, interceptor, targets
}

func sequentialIndices(imageCount int) []uint32 {
	indices := make([]uint32, imageCount)
	for idx := range indices {
		indices[idx] = uint32(idx)
	}
	return indices
}

func acquire(t *testing.T, interceptor *vkr.Interceptor) {
	t.Helper()
	if _, res := interceptor.AcquireNextImage(testDevice, interceptor.Binding().Swapchain(), 0, vkr.NullHandle, vkr.NullHandle); res != vkr.Success {
		t.Fatalf("acquire failed: %d", res)
	}
}

func TestFrameTargetsConstruction(t *testing.T) {
	driver, _, targets := frameTargetRig(t, 3)

	if targets.ImageCount() != 3 {
		t.Fatalf("ImageCount() = %d, want 3", targets.ImageCount())
	}
	if live := driver.liveCount("imageView"); live != 3 {
		t.Errorf("%d image views live, want one per swapchain image", live)
	}
	if live := driver.liveCount("renderPass"); live != 1 {
		t.Errorf("%d render passes live, want 1", live)
	}
	if live := driver.liveCount("framebuffer"); live != 0 {
		t.Errorf("%d framebuffers live, want none before the first frame", live)
	}
	if targets.RenderPass() == vkr.NullHandle {
		t.Error("render pass handle is null")
	}
}

func TestFrameTargetsRebuildsOneFramebufferPerFrame(t *testing.T) {
	driver, interceptor, targets := frameTargetRig(t, 3)
	screen := testScreen(1280, 720)

	// The first frame observes the dimensions, so every image starts
	// out dirty; each Begin services exactly one.
	for frame := 0; frame < 3; frame++ {
		acquire(t, interceptor)
		if err := targets.Begin(testCB, screen); err != nil {
			t.Fatalf("frame %d: %v", frame, err)
		}
		targets.End(testCB)

		if pending := targets.PendingUpdates(); pending != 2-frame {
			t.Errorf("frame %d: %d pending updates, want %d", frame, pending, 2-frame)
		}
		if built := driver.count("CreateFramebuffer"); built != frame+1 {
			t.Errorf("frame %d: %d framebuffers built, want %d", frame, built, frame+1)
		}
	}

	// Converged: steady-state frames build nothing.
	acquire(t, interceptor)
	if err := targets.Begin(testCB, screen); err != nil {
		t.Fatal(err)
	}
	if built := driver.count("CreateFramebuffer"); built != 3 {
		t.Errorf("steady-state frame rebuilt a framebuffer, total %d", built)
	}

	if begins := driver.count("CmdBeginRenderPass"); begins != 4 {
		t.Errorf("render pass begun %d times, want once per frame", begins)
	}
	if ends := driver.count("CmdEndRenderPass"); ends != 3 {
		t.Errorf("render pass ended %d times, want 3", ends)
	}
}

func TestFrameTargetsDimensionChangeMarksAllDirty(t *testing.T) {
	driver, interceptor, targets := frameTargetRig(t, 3)

	for frame := 0; frame < 3; frame++ {
		acquire(t, interceptor)
		if err := targets.Begin(testCB, testScreen(1280, 720)); err != nil {
			t.Fatal(err)
		}
		targets.End(testCB)
	}

	// A dimension change dirties every image, and the count never
	// exceeds the image count no matter how often dimensions move.
	acquire(t, interceptor)
	if err := targets.Begin(testCB, testScreen(1920, 1080)); err != nil {
		t.Fatal(err)
	}
	targets.End(testCB)
	if pending := targets.PendingUpdates(); pending != 2 {
		t.Errorf("%d pending updates after resize, want 2", pending)
	}

	acquire(t, interceptor)
	if err := targets.Begin(testCB, testScreen(640, 480)); err != nil {
		t.Fatal(err)
	}
	targets.End(testCB)
	if pending := targets.PendingUpdates(); pending > targets.ImageCount() {
		t.Errorf("%d pending updates exceeds image count %d", pending, targets.ImageCount())
	}

	// The serviced framebuffer picked up the newest dimensions.
	last := driver.framebuffers[len(driver.framebuffers)-1]
	if last.Width != 640 || last.Height != 480 {
		t.Errorf("last framebuffer is %dx%d, want 640x480", last.Width, last.Height)
	}
}

func TestFrameTargetsDestroyIdempotent(t *testing.T) {
	driver, interceptor, targets := frameTargetRig(t, 3)

	acquire(t, interceptor)
	if err := targets.Begin(testCB, testScreen(1280, 720)); err != nil {
		t.Fatal(err)
	}
	targets.End(testCB)

	targets.Destroy()
	views, passes, framebuffers := driver.count("DestroyImageView"), driver.count("DestroyRenderPass"), driver.count("DestroyFramebuffer")
	targets.Destroy()

	if driver.count("DestroyImageView") != views || driver.count("DestroyRenderPass") != passes || driver.count("DestroyFramebuffer") != framebuffers {
		t.Error("second Destroy issued further driver calls")
	}
	if live := driver.liveCount("imageView") + driver.liveCount("renderPass") + driver.liveCount("framebuffer"); live != 0 {
		t.Errorf("%d objects still live after Destroy", live)
	}
}

func TestFrameTargetsFailedConstructionTeardown(t *testing.T) {
	driver := newFakeDriver(3)
	driver.failOn["CreateRenderPass"] = vkr.ErrorOutOfDeviceMemory

	interceptor := vkr.Intercept(&fakeSwapchainDriver{swapchain: 0x5c, indices: []uint32{0}})
	interceptor.CreateSwapchain(testDevice, vkr.SwapchainCreateInfo{})

	targets, err := vkr.NewFrameTargets(driver, testDevice, interceptor.Binding())
	if err == nil {
		t.Fatal("expected an error from failed render pass creation")
	}

	// Teardown after partial construction touches only what was built.
	targets.Destroy()
	if driver.count("DestroyRenderPass") != 0 {
		t.Error("destroyed a render pass that was never created")
	}
	if live := driver.liveCount("imageView"); live != 0 {
		t.Errorf("%d image views leaked", live)
	}
}

func TestFrameTargetsEnumerationFailureIsNoOp(t *testing.T) {
	driver := newFakeDriver(3)
	driver.failOn["GetSwapchainImages"] = vkr.ErrorDeviceLost

	interceptor := vkr.Intercept(&fakeSwapchainDriver{swapchain: 0x5c, indices: []uint32{0}})
	interceptor.CreateSwapchain(testDevice, vkr.SwapchainCreateInfo{})

	targets, err := vkr.NewFrameTargets(driver, testDevice, interceptor.Binding())
	if err == nil {
		t.Fatal("expected an error from failed image enumeration")
	}

	created := len(driver.ops)
	targets.Destroy()
	if len(driver.ops) != created {
		t.Error("Destroy after empty construction issued driver calls")
	}
}
