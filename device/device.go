// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import (
	"unsafe"

	vk "github.com/devblok/vulkan"
)

// PhysicalDeviceInfo describes available physical properties of a rendering device
type PhysicalDeviceInfo struct {
	ID            int
	VendorID      int
	DriverVersion int
	Name          string
	Invalid       bool
	Extensions    []string
	Layers        []string
	Memory        vk.DeviceSize
}

// Configuration is used to configure instance and device creation
type Configuration struct {
	DebugMode bool

	Extensions       []string
	Layers           []string
	DeviceExtensions []string
}

// Device describes a non-concrete rendering device. It plays the part
// of the host that owns the Vulkan instance, the logical device and the
// presentation surface.
type Device interface {
	PhysicalDevices() []PhysicalDeviceInfo

	Instance() vk.Instance
	Physical() vk.PhysicalDevice
	Logical() vk.Device
	GraphicsQueue() vk.Queue
	QueueFamily() uint32

	// SetSurface sets the window surface for presentation
	SetSurface(unsafe.Pointer)
	Surface() vk.Surface

	Destroy()
}
