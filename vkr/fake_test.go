// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr_test

import (
	"github.com/devblok/vkoverlay/vkr"
)

const testDevice = vkr.Device(0xd0)

// newFakeDriver returns a Driver that hands out sequential handles,
// keeps a ledger of live objects and records the name of every call in
// order. Failures are injected per entry point through failOn.
func newFakeDriver(imageCount int) *fakeDriver {
	f := &fakeDriver{
		failOn:  make(map[string]vkr.Result),
		live:    make(map[uint64]string),
		backing: make(map[vkr.DeviceMemory][]byte),
		bufSize: make(map[vkr.Buffer]uint64),
		memProps: vkr.MemoryProperties{Types: []vkr.MemoryType{
			{PropertyFlags: vkr.MemoryPropertyDeviceLocal},
			{PropertyFlags: vkr.MemoryPropertyHostVisible | vkr.MemoryPropertyHostCoherent},
		}},
		maxAniso: 4,
	}
	for idx := 0; idx < imageCount; idx++ {
		f.images = append(f.images, vkr.Image(f.newHandle("image")))
	}
	return f
}

type fakeDriver struct {
	next uint64
	ops  []string

	failOn map[string]vkr.Result
	live   map[uint64]string

	images   []vkr.Image
	memProps vkr.MemoryProperties
	maxAniso float32

	backing map[vkr.DeviceMemory][]byte
	bufSize map[vkr.Buffer]uint64

	framebuffers []vkr.FramebufferCreateInfo
	pipelines    []vkr.GraphicsPipelineCreateInfo
	writes       []vkr.WriteDescriptorSet
	viewports    []vkr.Viewport
	drawCalls    []uint32
}

func (f *fakeDriver) newHandle(kind string) uint64 {
	f.next++
	f.live[f.next] = kind
	return f.next
}

func (f *fakeDriver) record(op string) {
	f.ops = append(f.ops, op)
}

func (f *fakeDriver) failed(op string) (vkr.Result, bool) {
	f.record(op)
	if res, ok := f.failOn[op]; ok {
		return res, true
	}
	return vkr.Success, false
}

func (f *fakeDriver) release(h uint64) {
	delete(f.live, h)
}

// count reports how many times op was called.
func (f *fakeDriver) count(op string) int {
	total := 0
	for _, recorded := range f.ops {
		if recorded == op {
			total++
		}
	}
	return total
}

// liveCount reports how many objects of a kind were created and not yet
// destroyed.
func (f *fakeDriver) liveCount(kind string) int {
	total := 0
	for _, liveKind := range f.live {
		if liveKind == kind {
			total++
		}
	}
	return total
}

func (f *fakeDriver) GetSwapchainImages(dev vkr.Device, swapchain vkr.Swapchain) ([]vkr.Image, vkr.Result) {
	if res, ok := f.failed("GetSwapchainImages"); ok {
		return nil, res
	}
	return f.images, vkr.Success
}

func (f *fakeDriver) GetPhysicalDeviceMemoryProperties(dev vkr.PhysicalDevice) vkr.MemoryProperties {
	f.record("GetPhysicalDeviceMemoryProperties")
	return f.memProps
}

func (f *fakeDriver) GetPhysicalDeviceProperties(dev vkr.PhysicalDevice) vkr.PhysicalDeviceProperties {
	f.record("GetPhysicalDeviceProperties")
	return vkr.PhysicalDeviceProperties{MaxSamplerAnisotropy: f.maxAniso}
}

func (f *fakeDriver) CreateImageView(dev vkr.Device, info vkr.ImageViewCreateInfo) (vkr.ImageView, vkr.Result) {
	if res, ok := f.failed("CreateImageView"); ok {
		return vkr.NullHandle, res
	}
	return vkr.ImageView(f.newHandle("imageView")), vkr.Success
}

func (f *fakeDriver) DestroyImageView(dev vkr.Device, view vkr.ImageView) {
	f.record("DestroyImageView")
	f.release(uint64(view))
}

func (f *fakeDriver) CreateRenderPass(dev vkr.Device, info vkr.RenderPassCreateInfo) (vkr.RenderPass, vkr.Result) {
	if res, ok := f.failed("CreateRenderPass"); ok {
		return vkr.NullHandle, res
	}
	return vkr.RenderPass(f.newHandle("renderPass")), vkr.Success
}

func (f *fakeDriver) DestroyRenderPass(dev vkr.Device, pass vkr.RenderPass) {
	f.record("DestroyRenderPass")
	f.release(uint64(pass))
}

func (f *fakeDriver) CreateFramebuffer(dev vkr.Device, info vkr.FramebufferCreateInfo) (vkr.Framebuffer, vkr.Result) {
	if res, ok := f.failed("CreateFramebuffer"); ok {
		return vkr.NullHandle, res
	}
	f.framebuffers = append(f.framebuffers, info)
	return vkr.Framebuffer(f.newHandle("framebuffer")), vkr.Success
}

func (f *fakeDriver) DestroyFramebuffer(dev vkr.Device, fb vkr.Framebuffer) {
	f.record("DestroyFramebuffer")
	f.release(uint64(fb))
}

func (f *fakeDriver) CreateShaderModule(dev vkr.Device, info vkr.ShaderModuleCreateInfo) (vkr.ShaderModule, vkr.Result) {
	if res, ok := f.failed("CreateShaderModule"); ok {
		return vkr.NullHandle, res
	}
	return vkr.ShaderModule(f.newHandle("shaderModule")), vkr.Success
}

func (f *fakeDriver) DestroyShaderModule(dev vkr.Device, module vkr.ShaderModule) {
	f.record("DestroyShaderModule")
	f.release(uint64(module))
}

func (f *fakeDriver) CreateDescriptorSetLayout(dev vkr.Device, info vkr.DescriptorSetLayoutCreateInfo) (vkr.DescriptorSetLayout, vkr.Result) {
	if res, ok := f.failed("CreateDescriptorSetLayout"); ok {
		return vkr.NullHandle, res
	}
	return vkr.DescriptorSetLayout(f.newHandle("descriptorSetLayout")), vkr.Success
}

func (f *fakeDriver) DestroyDescriptorSetLayout(dev vkr.Device, layout vkr.DescriptorSetLayout) {
	f.record("DestroyDescriptorSetLayout")
	f.release(uint64(layout))
}

func (f *fakeDriver) CreatePipelineLayout(dev vkr.Device, info vkr.PipelineLayoutCreateInfo) (vkr.PipelineLayout, vkr.Result) {
	if res, ok := f.failed("CreatePipelineLayout"); ok {
		return vkr.NullHandle, res
	}
	return vkr.PipelineLayout(f.newHandle("pipelineLayout")), vkr.Success
}

func (f *fakeDriver) DestroyPipelineLayout(dev vkr.Device, layout vkr.PipelineLayout) {
	f.record("DestroyPipelineLayout")
	f.release(uint64(layout))
}

func (f *fakeDriver) CreateSampler(dev vkr.Device, info vkr.SamplerCreateInfo) (vkr.Sampler, vkr.Result) {
	if res, ok := f.failed("CreateSampler"); ok {
		return vkr.NullHandle, res
	}
	return vkr.Sampler(f.newHandle("sampler")), vkr.Success
}

func (f *fakeDriver) DestroySampler(dev vkr.Device, sampler vkr.Sampler) {
	f.record("DestroySampler")
	f.release(uint64(sampler))
}

func (f *fakeDriver) CreateGraphicsPipeline(dev vkr.Device, info vkr.GraphicsPipelineCreateInfo) (vkr.Pipeline, vkr.Result) {
	if res, ok := f.failed("CreateGraphicsPipeline"); ok {
		return vkr.NullHandle, res
	}
	f.pipelines = append(f.pipelines, info)
	return vkr.Pipeline(f.newHandle("pipeline")), vkr.Success
}

func (f *fakeDriver) DestroyPipeline(dev vkr.Device, pipeline vkr.Pipeline) {
	f.record("DestroyPipeline")
	f.release(uint64(pipeline))
}

func (f *fakeDriver) CreateDescriptorPool(dev vkr.Device, info vkr.DescriptorPoolCreateInfo) (vkr.DescriptorPool, vkr.Result) {
	if res, ok := f.failed("CreateDescriptorPool"); ok {
		return vkr.NullHandle, res
	}
	return vkr.DescriptorPool(f.newHandle("descriptorPool")), vkr.Success
}

func (f *fakeDriver) DestroyDescriptorPool(dev vkr.Device, pool vkr.DescriptorPool) {
	f.record("DestroyDescriptorPool")
	f.release(uint64(pool))
	// pool destruction frees every set allocated from it
	for h, kind := range f.live {
		if kind == "descriptorSet" {
			delete(f.live, h)
		}
	}
}

func (f *fakeDriver) AllocateDescriptorSets(dev vkr.Device, info vkr.DescriptorSetAllocateInfo) ([]vkr.DescriptorSet, vkr.Result) {
	if res, ok := f.failed("AllocateDescriptorSets"); ok {
		return nil, res
	}
	sets := make([]vkr.DescriptorSet, len(info.Layouts))
	for idx := range sets {
		sets[idx] = vkr.DescriptorSet(f.newHandle("descriptorSet"))
	}
	return sets, vkr.Success
}

func (f *fakeDriver) UpdateDescriptorSets(dev vkr.Device, writes []vkr.WriteDescriptorSet) {
	f.record("UpdateDescriptorSets")
	f.writes = append(f.writes, writes...)
}

func (f *fakeDriver) CreateBuffer(dev vkr.Device, info vkr.BufferCreateInfo) (vkr.Buffer, vkr.Result) {
	if res, ok := f.failed("CreateBuffer"); ok {
		return vkr.NullHandle, res
	}
	buffer := vkr.Buffer(f.newHandle("buffer"))
	f.bufSize[buffer] = info.Size
	return buffer, vkr.Success
}

func (f *fakeDriver) DestroyBuffer(dev vkr.Device, buffer vkr.Buffer) {
	f.record("DestroyBuffer")
	f.release(uint64(buffer))
}

func (f *fakeDriver) GetBufferMemoryRequirements(dev vkr.Device, buffer vkr.Buffer) vkr.MemoryRequirements {
	f.record("GetBufferMemoryRequirements")
	return vkr.MemoryRequirements{
		Size:           f.bufSize[buffer],
		Alignment:      16,
		MemoryTypeBits: 0x3,
	}
}

func (f *fakeDriver) CreateImage(dev vkr.Device, info vkr.ImageCreateInfo) (vkr.Image, vkr.Result) {
	if res, ok := f.failed("CreateImage"); ok {
		return vkr.NullHandle, res
	}
	return vkr.Image(f.newHandle("ownedImage")), vkr.Success
}

func (f *fakeDriver) DestroyImage(dev vkr.Device, image vkr.Image) {
	f.record("DestroyImage")
	f.release(uint64(image))
}

func (f *fakeDriver) GetImageMemoryRequirements(dev vkr.Device, image vkr.Image) vkr.MemoryRequirements {
	f.record("GetImageMemoryRequirements")
	return vkr.MemoryRequirements{
		Size:           1 << 20,
		Alignment:      256,
		MemoryTypeBits: 0x3,
	}
}

func (f *fakeDriver) AllocateMemory(dev vkr.Device, info vkr.MemoryAllocateInfo) (vkr.DeviceMemory, vkr.Result) {
	if res, ok := f.failed("AllocateMemory"); ok {
		return vkr.NullHandle, res
	}
	memory := vkr.DeviceMemory(f.newHandle("memory"))
	f.backing[memory] = make([]byte, info.Size)
	return memory, vkr.Success
}

func (f *fakeDriver) FreeMemory(dev vkr.Device, memory vkr.DeviceMemory) {
	f.record("FreeMemory")
	f.release(uint64(memory))
	delete(f.backing, memory)
}

func (f *fakeDriver) BindBufferMemory(dev vkr.Device, buffer vkr.Buffer, memory vkr.DeviceMemory, offset uint64) vkr.Result {
	if res, ok := f.failed("BindBufferMemory"); ok {
		return res
	}
	return vkr.Success
}

func (f *fakeDriver) BindImageMemory(dev vkr.Device, image vkr.Image, memory vkr.DeviceMemory, offset uint64) vkr.Result {
	if res, ok := f.failed("BindImageMemory"); ok {
		return res
	}
	return vkr.Success
}

func (f *fakeDriver) MapMemory(dev vkr.Device, memory vkr.DeviceMemory, offset, size uint64) ([]byte, vkr.Result) {
	if res, ok := f.failed("MapMemory"); ok {
		return nil, res
	}
	return f.backing[memory][offset : offset+size], vkr.Success
}

func (f *fakeDriver) UnmapMemory(dev vkr.Device, memory vkr.DeviceMemory) {
	f.record("UnmapMemory")
}

func (f *fakeDriver) CmdBeginRenderPass(cb vkr.CommandBuffer, info vkr.RenderPassBeginInfo) {
	f.record("CmdBeginRenderPass")
}

func (f *fakeDriver) CmdEndRenderPass(cb vkr.CommandBuffer) {
	f.record("CmdEndRenderPass")
}

func (f *fakeDriver) CmdBindPipeline(cb vkr.CommandBuffer, pipeline vkr.Pipeline) {
	f.record("CmdBindPipeline")
}

func (f *fakeDriver) CmdSetViewport(cb vkr.CommandBuffer, viewport vkr.Viewport) {
	f.record("CmdSetViewport")
	f.viewports = append(f.viewports, viewport)
}

func (f *fakeDriver) CmdSetScissor(cb vkr.CommandBuffer, scissor vkr.Rect2D) {
	f.record("CmdSetScissor")
}

func (f *fakeDriver) CmdBindVertexBuffer(cb vkr.CommandBuffer, buffer vkr.Buffer, offset uint64) {
	f.record("CmdBindVertexBuffer")
}

func (f *fakeDriver) CmdBindIndexBuffer(cb vkr.CommandBuffer, buffer vkr.Buffer, offset uint64) {
	f.record("CmdBindIndexBuffer")
}

func (f *fakeDriver) CmdBindDescriptorSet(cb vkr.CommandBuffer, layout vkr.PipelineLayout, set vkr.DescriptorSet) {
	f.record("CmdBindDescriptorSet")
}

func (f *fakeDriver) CmdDrawIndexed(cb vkr.CommandBuffer, indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	f.record("CmdDrawIndexed")
	f.drawCalls = append(f.drawCalls, indexCount)
}
