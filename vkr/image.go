// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

// NewRenderTexture creates the device-local eye texture the host renders
// the scene into: a mutable-format sRGB color image of half the screen
// width, allocated and bound in one go. The host samples and composites
// it during distortion rendering.
func NewRenderTexture(driver Driver, device Device, ma *MemoryAllocator, screenWidth, screenHeight int32) (ImageResource, error) {
	image, result := driver.CreateImage(device, ImageCreateInfo{
		Format:        FormatR8g8b8a8Srgb,
		Width:         uint32(screenWidth / 2),
		Height:        uint32(screenHeight),
		Usage:         ImageUsageTransferDst | ImageUsageSampled | ImageUsageColorAttachment,
		MutableFormat: true,
	})
	if err := result.Err("vk.CreateImage()"); err != nil {
		return ImageResource{}, err
	}

	req := driver.GetImageMemoryRequirements(device, image)
	memory, err := ma.Malloc(req, MemoryPropertyDeviceLocal)
	if err != nil {
		driver.DestroyImage(device, image)
		return ImageResource{}, err
	}

	if err := driver.BindImageMemory(device, image, memory.Get(), 0).Err("vk.BindImageMemory()"); err != nil {
		memory.Release()
		driver.DestroyImage(device, image)
		return ImageResource{}, err
	}

	return ImageResource{
		driver: driver,
		device: device,
		image:  image,
		memory: memory,
	}, nil
}

// ImageResource is an image paired with the memory backing it.
type ImageResource struct {
	driver Driver
	device Device
	image  Image
	memory Memory
}

// Get returns the image handle.
func (i *ImageResource) Get() Image {
	return i.image
}

// Release destroys the image and frees its memory. Safe to call on a
// zero or already released ImageResource.
func (i *ImageResource) Release() {
	if i.image == NullHandle {
		return
	}
	i.driver.DestroyImage(i.device, i.image)
	i.image = NullHandle
	i.memory.Release()
}
