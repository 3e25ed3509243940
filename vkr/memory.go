// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"errors"
	"fmt"
)

// Memory defines a usable memory region.
type Memory struct {
	mapped bool
	size   uint64
	driver Driver
	device Device
	memory DeviceMemory
}

// Get returns the device memory handle.
func (m *Memory) Get() DeviceMemory {
	return m.memory
}

// Size returns the length of the allocation.
func (m *Memory) Size() uint64 {
	return m.size
}

// Map maps the entire region and returns it as a byte slice.
func (m *Memory) Map() ([]byte, error) {
	data, result := m.driver.MapMemory(m.device, m.memory, 0, m.size)
	if err := result.Err("vk.MapMemory()"); err != nil {
		return nil, err
	}
	m.mapped = true
	return data, nil
}

// Unmap removes the memory mapping if it was mapped.
func (m *Memory) Unmap() {
	if m.mapped {
		m.driver.UnmapMemory(m.device, m.memory)
		m.mapped = false
	}
}

// Release frees memory after unmapping it if previously mapped.
// Safe to call on a zero Memory.
func (m *Memory) Release() {
	if m.memory == NullHandle {
		return
	}
	m.Unmap()
	m.driver.FreeMemory(m.device, m.memory)
	m.memory = NullHandle
}

// NewMemoryAllocator creates a new memory allocator. Allocates for the
// logical device, reads memory properties of the physical device to
// influence allocation.
func NewMemoryAllocator(driver Driver, device Device, phyDevice PhysicalDevice) *MemoryAllocator {
	return &MemoryAllocator{
		driver:        driver,
		device:        device,
		memProperties: driver.GetPhysicalDeviceMemoryProperties(phyDevice),
	}
}

// MemoryAllocator is responsible for returning usable memory for any
// resources that may need it.
type MemoryAllocator struct {
	driver        Driver
	device        Device
	memProperties MemoryProperties
}

// Malloc returns a usable memory chunk ready for use.
func (ma *MemoryAllocator) Malloc(req MemoryRequirements, prop MemoryPropertyFlags) (Memory, error) {
	memTypeIdx, err := ma.findMemoryType(req.MemoryTypeBits, prop)
	if err != nil {
		return Memory{}, err
	}

	memory, result := ma.driver.AllocateMemory(ma.device, MemoryAllocateInfo{
		Size:            req.Size,
		MemoryTypeIndex: memTypeIdx,
	})
	if err := result.Err("vk.AllocateMemory()"); err != nil {
		return Memory{}, fmt.Errorf("allocating %d bytes: %s", req.Size, err.Error())
	}

	return Memory{
		size:   req.Size,
		driver: ma.driver,
		device: ma.device,
		memory: memory,
	}, nil
}

func (ma *MemoryAllocator) findMemoryType(filter uint32, prop MemoryPropertyFlags) (uint32, error) {
	for idx := 0; idx < len(ma.memProperties.Types); idx++ {
		if filter&(1<<uint(idx)) != 0 && (ma.memProperties.Types[idx].PropertyFlags&prop) == prop {
			return uint32(idx), nil
		}
	}
	return 0, errors.New("suitable memory type not found")
}
