// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import "fmt"

// NewBuffer creates, allocates, binds and fills a new buffer in one go.
// The contents are uploaded through a host-visible, host-coherent
// mapping, so no explicit flush is needed. The buffer owns its memory;
// Release frees both in reverse order.
func NewBuffer(driver Driver, device Device, ma *MemoryAllocator, usage BufferUsageFlags, contents []byte) (BoundBuffer, error) {
	buffer, result := driver.CreateBuffer(device, BufferCreateInfo{
		Size:  uint64(len(contents)),
		Usage: usage,
	})
	if err := result.Err("vk.CreateBuffer()"); err != nil {
		return BoundBuffer{}, err
	}

	req := driver.GetBufferMemoryRequirements(device, buffer)
	memory, err := ma.Malloc(req, MemoryPropertyHostVisible|MemoryPropertyHostCoherent)
	if err != nil {
		driver.DestroyBuffer(device, buffer)
		return BoundBuffer{}, err
	}

	if err := driver.BindBufferMemory(device, buffer, memory.Get(), 0).Err("vk.BindBufferMemory()"); err != nil {
		memory.Release()
		driver.DestroyBuffer(device, buffer)
		return BoundBuffer{}, err
	}

	b := BoundBuffer{
		driver: driver,
		device: device,
		buffer: buffer,
		memory: memory,
	}
	if err := b.Upload(contents); err != nil {
		b.Release()
		return BoundBuffer{}, fmt.Errorf("uploading buffer contents: %s", err.Error())
	}
	return b, nil
}

// BoundBuffer is a buffer paired with the memory backing it.
type BoundBuffer struct {
	driver Driver
	device Device
	buffer Buffer
	memory Memory
}

// Get returns the buffer handle.
func (b *BoundBuffer) Get() Buffer {
	return b.buffer
}

// Mem returns the memory the buffer is based on.
func (b *BoundBuffer) Mem() *Memory {
	return &b.memory
}

// Valid reports whether the buffer holds a live handle.
func (b *BoundBuffer) Valid() bool {
	return b.buffer != NullHandle
}

// Upload maps the backing memory, copies contents into it and unmaps.
func (b *BoundBuffer) Upload(contents []byte) error {
	data, err := b.memory.Map()
	if err != nil {
		return err
	}
	copy(data, contents)
	b.memory.Unmap()
	return nil
}

// Release destroys the buffer and the memory associated with it.
// Safe to call on a zero or already released BoundBuffer.
func (b *BoundBuffer) Release() {
	if b.buffer == NullHandle {
		return
	}
	b.driver.DestroyBuffer(b.device, b.buffer)
	b.buffer = NullHandle
	b.memory.Release()
}
