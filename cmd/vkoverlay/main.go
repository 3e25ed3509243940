// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"runtime"
	"strconv"
	"unsafe"

	"github.com/gobuffalo/envy"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/vkoverlay/core"
	"github.com/devblok/vkoverlay/device"
	"github.com/devblok/vkoverlay/gfx"
	"github.com/devblok/vkoverlay/vkr"
)

func init() {
	runtime.LockOSThread()
}

// Essential globals
var (
	appDevice  device.Device
	vkRenderer core.Renderer
	sdlWindow  *sdl.Window
)

func envInt(key string, fallback int) int {
	value, err := strconv.Atoi(envy.Get(key, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return value
}

func configure() core.Configuration {
	return core.Configuration{
		Time: core.TimeConfiguration{
			FramesPerSecond: envInt("VKOVERLAY_FPS", 60),
			EventPollDelay:  envInt("VKOVERLAY_EVENT_POLL_DELAY", 50),
		},
		Renderer: core.RendererConfiguration{
			ScreenWidth:  uint32(envInt("VKOVERLAY_WIDTH", 1280)),
			ScreenHeight: uint32(envInt("VKOVERLAY_HEIGHT", 720)),
			ShaderDir:    envy.Get("VKOVERLAY_SHADER_DIR", "./shaders"),
		},
	}
}

func newWindow(cfg core.RendererConfiguration) *sdl.Window {
	window, err := sdl.CreateWindow("VkOverlay",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.ScreenWidth),
		int32(cfg.ScreenHeight),
		sdl.WINDOW_VULKAN)
	if err != nil {
		panic(err)
	}
	return window
}

func main() {
	configuration := configure()

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		panic(err)
	}
	defer sdl.Quit()

	if err := sdl.VulkanLoadLibrary(""); err != nil {
		panic(err)
	}
	defer sdl.VulkanUnloadLibrary()

	sdlWindow = newWindow(configuration.Renderer)

	{
		cfg := device.Configuration{
			Extensions: sdlWindow.VulkanGetInstanceExtensions(),
			DeviceExtensions: []string{
				"VK_KHR_swapchain\x00",
			},
		}

		dev, err := device.NewVulkanDevice(device.DefaultVulkanApplicationInfo, sdl.VulkanGetVkGetInstanceProcAddr(), cfg)
		if err != nil {
			panic(err)
		}
		appDevice = dev
	}
	defer appDevice.Destroy()

	if srf, err := sdlWindow.VulkanCreateSurface(appDevice.Instance()); err != nil {
		panic(err)
	} else {
		appDevice.SetSurface(unsafe.Pointer(srf))
	}

	// The swapchain is created through the interceptor, the same way
	// the real host integration would route it, so the binding the
	// renderer consumes is populated by interception rather than by
	// hand.
	hostSide := newHost(appDevice)
	interceptor := vkr.Intercept(hostSide)

	deviceHandle := vkr.DeviceHandle(appDevice.Logical())
	if _, res := interceptor.CreateSwapchain(deviceHandle, vkr.SwapchainCreateInfo{
		MinImageCount: 3,
		Format:        vkr.FormatR8g8b8a8Srgb,
		Extent: vkr.Extent2D{
			Width:  configuration.Renderer.ScreenWidth,
			Height: configuration.Renderer.ScreenHeight,
		},
	}); res != vkr.Success {
		log.WithField("result", int32(res)).Fatal("swapchain creation failed")
	}

	// The host frame state goes up before the renderer so the deferred
	// teardown unwinds the renderer's views and framebuffers before the
	// swapchain images they were built over.
	if err := hostSide.prepare(); err != nil {
		log.WithError(err).Fatal("host frame state setup failed")
	}
	defer hostSide.destroy()

	renderer, err := core.NewVulkanRenderer(
		vkr.NewVulkanDriver(),
		deviceHandle,
		vkr.PhysicalDeviceHandle(appDevice.Physical()),
		interceptor.Binding(),
		hostSide,
		nil,
	)
	if err != nil {
		log.WithError(err).Fatal("renderer construction failed")
	}
	vkRenderer = renderer
	defer vkRenderer.Destroy()

	vertexShader, fragmentShader, err := core.LoadShaderDirectory(configuration.Renderer.ShaderDir)
	if err != nil {
		log.WithError(err).Fatal("shader loading failed")
	}
	if err := vkRenderer.SetupWidgets(vertexShader, fragmentShader); err != nil {
		log.WithError(err).Fatal("widget setup failed")
	}
	defer vkRenderer.TeardownWidgets()

	screen := gfx.ScreenParams{
		ViewportWidth:  int32(configuration.Renderer.ScreenWidth),
		ViewportHeight: int32(configuration.Renderer.ScreenHeight),
		Width:          int32(configuration.Renderer.ScreenWidth),
		Height:         int32(configuration.Renderer.ScreenHeight),
	}

	time := core.NewTime(configuration.Time)
	exitC := make(chan struct{}, 2)

EventLoop:
	for {
		select {
		case <-exitC:
			log.Info("event loop exited")
			break EventLoop
		case <-time.EventTicker().C:
			var event sdl.Event
			for event = sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
				switch et := event.(type) {
				case *sdl.KeyboardEvent:
					if et.Keysym.Sym == sdl.K_ESCAPE {
						exitC <- struct{}{}
						continue EventLoop
					}
				case *sdl.QuitEvent:
					exitC <- struct{}{}
					continue EventLoop
				}
			}
		case <-time.FpsTicker().C:
			if _, res := interceptor.AcquireNextImage(deviceHandle, interceptor.Binding().Swapchain(), acquireTimeout, vkr.NullHandle, vkr.NullHandle); res != vkr.Success {
				log.WithField("result", int32(res)).Error("image acquire failed")
				continue EventLoop
			}
			if err := hostSide.beginFrame(); err != nil {
				log.WithError(err).Error("frame begin failed")
				continue EventLoop
			}

			if err := vkRenderer.PreProcess(screen); err != nil {
				log.WithError(err).Error("frame preprocessing failed")
			}
			if err := vkRenderer.RenderWidgets(screen, nil); err != nil {
				log.WithError(err).Error("widget rendering failed")
			}
			vkRenderer.PostProcess()

			if err := hostSide.endFrame(); err != nil {
				log.WithError(err).Error("frame submit failed")
			}
		}
	}
}
