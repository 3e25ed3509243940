// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

// Extent2D is a width/height pair in pixels.
type Extent2D struct {
	Width  uint32
	Height uint32
}

// Offset2D is a signed pixel offset.
type Offset2D struct {
	X int32
	Y int32
}

// Rect2D is an offset plus an extent.
type Rect2D struct {
	Offset Offset2D
	Extent Extent2D
}

// Viewport mirrors VkViewport.
type Viewport struct {
	X        float32
	Y        float32
	Width    float32
	Height   float32
	MinDepth float32
	MaxDepth float32
}

// ClearColor is an RGBA clear value.
type ClearColor [4]float32

// DescriptorType selects what a descriptor binds.
type DescriptorType uint32

// DescriptorTypeCombinedImageSampler is the only descriptor type the
// overlay uses: one texture plus sampler per widget.
const DescriptorTypeCombinedImageSampler DescriptorType = 1

// ShaderStageFlags selects pipeline stages.
type ShaderStageFlags uint32

// Shader stage bits.
const (
	ShaderStageVertex   ShaderStageFlags = 1 << 0
	ShaderStageFragment ShaderStageFlags = 1 << 4
)

// PrimitiveTopology selects input assembly.
type PrimitiveTopology uint32

// PrimitiveTopologyTriangleStrip is the widget quad topology.
const PrimitiveTopologyTriangleStrip PrimitiveTopology = 4

// CompareOp selects a depth comparison.
type CompareOp uint32

// CompareOpLess passes fragments closer than the stored depth.
const CompareOpLess CompareOp = 1

// ImageLayout mirrors VkImageLayout.
type ImageLayout uint32

// ImageLayoutGeneral is the layout widget textures are sampled in.
const ImageLayoutGeneral ImageLayout = 1

// MemoryPropertyFlags select memory domains for allocations.
type MemoryPropertyFlags uint32

// Memory property bits.
const (
	MemoryPropertyDeviceLocal  MemoryPropertyFlags = 1 << 0
	MemoryPropertyHostVisible  MemoryPropertyFlags = 1 << 1
	MemoryPropertyHostCoherent MemoryPropertyFlags = 1 << 2
)

// BufferUsageFlags select what a buffer may be bound as.
type BufferUsageFlags uint32

// Buffer usage bits.
const (
	BufferUsageIndexBuffer  BufferUsageFlags = 1 << 6
	BufferUsageVertexBuffer BufferUsageFlags = 1 << 7
)

// ImageUsageFlags select what an image may be used for.
type ImageUsageFlags uint32

// Image usage bits.
const (
	ImageUsageTransferDst     ImageUsageFlags = 1 << 1
	ImageUsageSampled         ImageUsageFlags = 1 << 2
	ImageUsageColorAttachment ImageUsageFlags = 1 << 4
)

// ImageViewCreateInfo describes a 2D color view over an image. Component
// swizzles are identity and the subresource range is the whole first
// mip/layer, as every view the overlay creates looks the same.
type ImageViewCreateInfo struct {
	Image  Image
	Format Format
}

// RenderPassCreateInfo describes the overlay render pass: a single color
// attachment that is cleared on load, stored, and transitioned to a
// presentable layout, with one graphics subpass and no depth attachment.
type RenderPassCreateInfo struct {
	Format Format
}

// FramebufferCreateInfo binds one color view to a render pass.
type FramebufferCreateInfo struct {
	RenderPass RenderPass
	Attachment ImageView
	Width      uint32
	Height     uint32
}

// RenderPassBeginInfo opens a render pass on a framebuffer.
type RenderPassBeginInfo struct {
	RenderPass  RenderPass
	Framebuffer Framebuffer
	RenderArea  Rect2D
	ClearColor  ClearColor
}

// DescriptorSetLayoutBinding describes one binding slot.
type DescriptorSetLayoutBinding struct {
	Binding uint32
	Type    DescriptorType
	Count   uint32
	Stages  ShaderStageFlags
}

// DescriptorSetLayoutCreateInfo describes a descriptor set layout.
type DescriptorSetLayoutCreateInfo struct {
	Bindings []DescriptorSetLayoutBinding
}

// PipelineLayoutCreateInfo describes a pipeline layout. The overlay uses
// no push constant ranges.
type PipelineLayoutCreateInfo struct {
	SetLayouts []DescriptorSetLayout
}

// SamplerCreateInfo describes the widget sampler: nearest filtering,
// repeat addressing on all axes, no mips. Only the anisotropy limit
// varies per device.
type SamplerCreateInfo struct {
	MaxAnisotropy float32
}

// DescriptorPoolSize sizes one descriptor type within a pool.
type DescriptorPoolSize struct {
	Type  DescriptorType
	Count uint32
}

// DescriptorPoolCreateInfo describes a descriptor pool.
type DescriptorPoolCreateInfo struct {
	MaxSets   uint32
	PoolSizes []DescriptorPoolSize
}

// DescriptorSetAllocateInfo allocates one set per layout from a pool.
type DescriptorSetAllocateInfo struct {
	Pool    DescriptorPool
	Layouts []DescriptorSetLayout
}

// DescriptorImageInfo is the image side of a descriptor write.
type DescriptorImageInfo struct {
	Sampler Sampler
	View    ImageView
	Layout  ImageLayout
}

// WriteDescriptorSet updates one binding of one set.
type WriteDescriptorSet struct {
	Set     DescriptorSet
	Binding uint32
	Type    DescriptorType
	Image   DescriptorImageInfo
}

// ShaderModuleCreateInfo wraps SPIR-V code.
type ShaderModuleCreateInfo struct {
	Code []uint32
}

// VertexAttribute describes one vertex input attribute on binding 0.
type VertexAttribute struct {
	Location uint32
	Format   Format
	Offset   uint32
}

// GraphicsPipelineCreateInfo carries the state that varies between
// pipeline builds plus the fixed-function choices the overlay pipeline
// makes. Rasterization is always fill with no culling, multisampling is
// off, and viewport/scissor are dynamic.
type GraphicsPipelineCreateInfo struct {
	VertexShader   ShaderModule
	FragmentShader ShaderModule

	Topology         PrimitiveTopology
	VertexStride     uint32
	VertexAttributes []VertexAttribute

	// AlphaBlend enables standard source-over compositing on the single
	// color attachment.
	AlphaBlend bool

	DepthTest    bool
	DepthWrite   bool
	DepthCompare CompareOp

	Layout     PipelineLayout
	RenderPass RenderPass
}

// BufferCreateInfo describes an exclusive-sharing buffer.
type BufferCreateInfo struct {
	Size  uint64
	Usage BufferUsageFlags
}

// ImageCreateInfo describes a 2D single-mip image.
type ImageCreateInfo struct {
	Format        Format
	Width         uint32
	Height        uint32
	Usage         ImageUsageFlags
	MutableFormat bool
}

// MemoryRequirements mirrors VkMemoryRequirements.
type MemoryRequirements struct {
	Size           uint64
	Alignment      uint64
	MemoryTypeBits uint32
}

// MemoryAllocateInfo requests a device memory allocation.
type MemoryAllocateInfo struct {
	Size            uint64
	MemoryTypeIndex uint32
}

// MemoryType is one entry of the device's memory type table.
type MemoryType struct {
	PropertyFlags MemoryPropertyFlags
}

// MemoryProperties is the device's memory type table.
type MemoryProperties struct {
	Types []MemoryType
}

// PhysicalDeviceProperties carries the device limits the overlay reads.
type PhysicalDeviceProperties struct {
	MaxSamplerAnisotropy float32
}

// SwapchainCreateInfo carries the swapchain parameters the interceptor
// observes. The host fills in everything else.
type SwapchainCreateInfo struct {
	MinImageCount uint32
	Format        Format
	Extent        Extent2D
}

// SwapchainDriver is the part of the driver the host calls to create its
// swapchain and acquire images. The Interceptor wraps an implementation
// of this interface.
type SwapchainDriver interface {
	CreateSwapchain(dev Device, info SwapchainCreateInfo) (Swapchain, Result)
	AcquireNextImage(dev Device, swapchain Swapchain, timeout uint64, semaphore Semaphore, fence Fence) (uint32, Result)
}

// Driver is the dispatch surface the overlay records through. The
// production implementation forwards to the Vulkan bindings; tests
// substitute a recording fake. Every Create call that can fail returns
// the driver result; Destroy and Cmd calls are fire-and-forget, matching
// their void Vulkan counterparts.
type Driver interface {
	GetSwapchainImages(dev Device, swapchain Swapchain) ([]Image, Result)
	GetPhysicalDeviceMemoryProperties(dev PhysicalDevice) MemoryProperties
	GetPhysicalDeviceProperties(dev PhysicalDevice) PhysicalDeviceProperties

	CreateImageView(dev Device, info ImageViewCreateInfo) (ImageView, Result)
	DestroyImageView(dev Device, view ImageView)
	CreateRenderPass(dev Device, info RenderPassCreateInfo) (RenderPass, Result)
	DestroyRenderPass(dev Device, pass RenderPass)
	CreateFramebuffer(dev Device, info FramebufferCreateInfo) (Framebuffer, Result)
	DestroyFramebuffer(dev Device, fb Framebuffer)

	CreateShaderModule(dev Device, info ShaderModuleCreateInfo) (ShaderModule, Result)
	DestroyShaderModule(dev Device, module ShaderModule)
	CreateDescriptorSetLayout(dev Device, info DescriptorSetLayoutCreateInfo) (DescriptorSetLayout, Result)
	DestroyDescriptorSetLayout(dev Device, layout DescriptorSetLayout)
	CreatePipelineLayout(dev Device, info PipelineLayoutCreateInfo) (PipelineLayout, Result)
	DestroyPipelineLayout(dev Device, layout PipelineLayout)
	CreateSampler(dev Device, info SamplerCreateInfo) (Sampler, Result)
	DestroySampler(dev Device, sampler Sampler)
	CreateGraphicsPipeline(dev Device, info GraphicsPipelineCreateInfo) (Pipeline, Result)
	DestroyPipeline(dev Device, pipeline Pipeline)

	CreateDescriptorPool(dev Device, info DescriptorPoolCreateInfo) (DescriptorPool, Result)
	DestroyDescriptorPool(dev Device, pool DescriptorPool)
	AllocateDescriptorSets(dev Device, info DescriptorSetAllocateInfo) ([]DescriptorSet, Result)
	UpdateDescriptorSets(dev Device, writes []WriteDescriptorSet)

	CreateBuffer(dev Device, info BufferCreateInfo) (Buffer, Result)
	DestroyBuffer(dev Device, buffer Buffer)
	GetBufferMemoryRequirements(dev Device, buffer Buffer) MemoryRequirements
	CreateImage(dev Device, info ImageCreateInfo) (Image, Result)
	DestroyImage(dev Device, image Image)
	GetImageMemoryRequirements(dev Device, image Image) MemoryRequirements
	AllocateMemory(dev Device, info MemoryAllocateInfo) (DeviceMemory, Result)
	FreeMemory(dev Device, memory DeviceMemory)
	BindBufferMemory(dev Device, buffer Buffer, memory DeviceMemory, offset uint64) Result
	BindImageMemory(dev Device, image Image, memory DeviceMemory, offset uint64) Result

	// MapMemory returns a byte slice over the mapped region so uploads
	// are plain copy calls. The slice is valid until UnmapMemory.
	MapMemory(dev Device, memory DeviceMemory, offset, size uint64) ([]byte, Result)
	UnmapMemory(dev Device, memory DeviceMemory)

	CmdBeginRenderPass(cb CommandBuffer, info RenderPassBeginInfo)
	CmdEndRenderPass(cb CommandBuffer)
	CmdBindPipeline(cb CommandBuffer, pipeline Pipeline)
	CmdSetViewport(cb CommandBuffer, viewport Viewport)
	CmdSetScissor(cb CommandBuffer, scissor Rect2D)
	CmdBindVertexBuffer(cb CommandBuffer, buffer Buffer, offset uint64)
	CmdBindIndexBuffer(cb CommandBuffer, buffer Buffer, offset uint64)
	CmdBindDescriptorSet(cb CommandBuffer, layout PipelineLayout, set DescriptorSet)
	CmdDrawIndexed(cb CommandBuffer, indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32)
}
