// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"unsafe"

	vk "github.com/devblok/vulkan"
)

// NewVulkanDriver returns the production Driver, forwarding every call
// to the Vulkan bindings. The bindings must already be initialised by
// the host (vk.Init or equivalent).
func NewVulkanDriver() Driver {
	return vulkanDriver{}
}

type vulkanDriver struct{}

// Handle conversions between the package's 64-bit representation and
// the binding's types. Handles are stored in 8-byte slots, so writing a
// binding handle into one and reading it back is well defined on both
// 32 and 64 bit targets.

func vkDevice(h Device) vk.Device {
	return *(*vk.Device)(unsafe.Pointer(&h))
}

func vkPhysicalDevice(h PhysicalDevice) vk.PhysicalDevice {
	return *(*vk.PhysicalDevice)(unsafe.Pointer(&h))
}

func vkCommandBuffer(h CommandBuffer) vk.CommandBuffer {
	return *(*vk.CommandBuffer)(unsafe.Pointer(&h))
}

func vkSwapchain(h Swapchain) vk.Swapchain {
	return *(*vk.Swapchain)(unsafe.Pointer(&h))
}

func vkImage(h Image) vk.Image {
	return *(*vk.Image)(unsafe.Pointer(&h))
}

func vkImageView(h ImageView) vk.ImageView {
	return *(*vk.ImageView)(unsafe.Pointer(&h))
}

func vkFramebuffer(h Framebuffer) vk.Framebuffer {
	return *(*vk.Framebuffer)(unsafe.Pointer(&h))
}

func vkRenderPass(h RenderPass) vk.RenderPass {
	return *(*vk.RenderPass)(unsafe.Pointer(&h))
}

func vkPipeline(h Pipeline) vk.Pipeline {
	return *(*vk.Pipeline)(unsafe.Pointer(&h))
}

func vkPipelineLayout(h PipelineLayout) vk.PipelineLayout {
	return *(*vk.PipelineLayout)(unsafe.Pointer(&h))
}

func vkDescriptorSetLayout(h DescriptorSetLayout) vk.DescriptorSetLayout {
	return *(*vk.DescriptorSetLayout)(unsafe.Pointer(&h))
}

func vkDescriptorPool(h DescriptorPool) vk.DescriptorPool {
	return *(*vk.DescriptorPool)(unsafe.Pointer(&h))
}

func vkDescriptorSet(h DescriptorSet) vk.DescriptorSet {
	return *(*vk.DescriptorSet)(unsafe.Pointer(&h))
}

func vkSampler(h Sampler) vk.Sampler {
	return *(*vk.Sampler)(unsafe.Pointer(&h))
}

func vkShaderModule(h ShaderModule) vk.ShaderModule {
	return *(*vk.ShaderModule)(unsafe.Pointer(&h))
}

func vkBuffer(h Buffer) vk.Buffer {
	return *(*vk.Buffer)(unsafe.Pointer(&h))
}

func vkDeviceMemory(h DeviceMemory) vk.DeviceMemory {
	return *(*vk.DeviceMemory)(unsafe.Pointer(&h))
}

func imageHandle(v vk.Image) Image {
	var h Image
	*(*vk.Image)(unsafe.Pointer(&h)) = v
	return h
}

func imageViewHandle(v vk.ImageView) ImageView {
	var h ImageView
	*(*vk.ImageView)(unsafe.Pointer(&h)) = v
	return h
}

func framebufferHandle(v vk.Framebuffer) Framebuffer {
	var h Framebuffer
	*(*vk.Framebuffer)(unsafe.Pointer(&h)) = v
	return h
}

func renderPassHandle(v vk.RenderPass) RenderPass {
	var h RenderPass
	*(*vk.RenderPass)(unsafe.Pointer(&h)) = v
	return h
}

func pipelineHandle(v vk.Pipeline) Pipeline {
	var h Pipeline
	*(*vk.Pipeline)(unsafe.Pointer(&h)) = v
	return h
}

func pipelineLayoutHandle(v vk.PipelineLayout) PipelineLayout {
	var h PipelineLayout
	*(*vk.PipelineLayout)(unsafe.Pointer(&h)) = v
	return h
}

func descriptorSetLayoutHandle(v vk.DescriptorSetLayout) DescriptorSetLayout {
	var h DescriptorSetLayout
	*(*vk.DescriptorSetLayout)(unsafe.Pointer(&h)) = v
	return h
}

func descriptorPoolHandle(v vk.DescriptorPool) DescriptorPool {
	var h DescriptorPool
	*(*vk.DescriptorPool)(unsafe.Pointer(&h)) = v
	return h
}

func descriptorSetHandle(v vk.DescriptorSet) DescriptorSet {
	var h DescriptorSet
	*(*vk.DescriptorSet)(unsafe.Pointer(&h)) = v
	return h
}

func samplerHandle(v vk.Sampler) Sampler {
	var h Sampler
	*(*vk.Sampler)(unsafe.Pointer(&h)) = v
	return h
}

func shaderModuleHandle(v vk.ShaderModule) ShaderModule {
	var h ShaderModule
	*(*vk.ShaderModule)(unsafe.Pointer(&h)) = v
	return h
}

func bufferHandle(v vk.Buffer) Buffer {
	var h Buffer
	*(*vk.Buffer)(unsafe.Pointer(&h)) = v
	return h
}

func deviceMemoryHandle(v vk.DeviceMemory) DeviceMemory {
	var h DeviceMemory
	*(*vk.DeviceMemory)(unsafe.Pointer(&h)) = v
	return h
}

// DeviceHandle wraps a binding device for use with this package. The
// host integration passes the handles it received from its graphics
// interface through here.
func DeviceHandle(v vk.Device) Device {
	var h Device
	*(*vk.Device)(unsafe.Pointer(&h)) = v
	return h
}

// PhysicalDeviceHandle wraps a binding physical device.
func PhysicalDeviceHandle(v vk.PhysicalDevice) PhysicalDevice {
	var h PhysicalDevice
	*(*vk.PhysicalDevice)(unsafe.Pointer(&h)) = v
	return h
}

// CommandBufferHandle wraps a binding command buffer.
func CommandBufferHandle(v vk.CommandBuffer) CommandBuffer {
	var h CommandBuffer
	*(*vk.CommandBuffer)(unsafe.Pointer(&h)) = v
	return h
}

// SwapchainHandle wraps a binding swapchain.
func SwapchainHandle(v vk.Swapchain) Swapchain {
	var h Swapchain
	*(*vk.Swapchain)(unsafe.Pointer(&h)) = v
	return h
}

func mapFormat(f Format) vk.Format {
	switch f {
	case FormatR8g8b8a8Srgb:
		return vk.FormatR8g8b8a8Srgb
	case FormatEtc2R8g8b8a8Unorm:
		return vk.FormatEtc2R8g8b8a8UnormBlock
	case FormatR32g32Sfloat:
		return vk.FormatR32g32Sfloat
	default:
		return vk.FormatUndefined
	}
}

func (vulkanDriver) GetSwapchainImages(dev Device, swapchain Swapchain) ([]Image, Result) {
	var count uint32
	if res := vk.GetSwapchainImages(vkDevice(dev), vkSwapchain(swapchain), &count, nil); res != vk.Success {
		return nil, Result(res)
	}
	raw := make([]vk.Image, count)
	if res := vk.GetSwapchainImages(vkDevice(dev), vkSwapchain(swapchain), &count, raw); res != vk.Success {
		return nil, Result(res)
	}
	images := make([]Image, count)
	for idx := range raw {
		images[idx] = imageHandle(raw[idx])
	}
	return images, Success
}

func (vulkanDriver) GetPhysicalDeviceMemoryProperties(dev PhysicalDevice) MemoryProperties {
	var raw vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(vkPhysicalDevice(dev), &raw)
	raw.Deref()

	properties := MemoryProperties{
		Types: make([]MemoryType, raw.MemoryTypeCount),
	}
	for idx := uint32(0); idx < raw.MemoryTypeCount; idx++ {
		raw.MemoryTypes[idx].Deref()
		properties.Types[idx] = MemoryType{
			PropertyFlags: MemoryPropertyFlags(raw.MemoryTypes[idx].PropertyFlags),
		}
	}
	return properties
}

func (vulkanDriver) GetPhysicalDeviceProperties(dev PhysicalDevice) PhysicalDeviceProperties {
	var raw vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(vkPhysicalDevice(dev), &raw)
	raw.Deref()
	raw.Limits.Deref()
	return PhysicalDeviceProperties{
		MaxSamplerAnisotropy: raw.Limits.MaxSamplerAnisotropy,
	}
}

func (vulkanDriver) CreateImageView(dev Device, info ImageViewCreateInfo) (ImageView, Result) {
	ivci := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    vkImage(info.Image),
		ViewType: vk.ImageViewType2d,
		Format:   mapFormat(info.Format),
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleR,
			G: vk.ComponentSwizzleG,
			B: vk.ComponentSwizzleB,
			A: vk.ComponentSwizzleA,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}

	var view vk.ImageView
	res := vk.CreateImageView(vkDevice(dev), &ivci, nil, &view)
	return imageViewHandle(view), Result(res)
}

func (vulkanDriver) DestroyImageView(dev Device, view ImageView) {
	vk.DestroyImageView(vkDevice(dev), vkImageView(view), nil)
}

func (vulkanDriver) CreateRenderPass(dev Device, info RenderPassCreateInfo) (RenderPass, Result) {
	attachments := []vk.AttachmentDescription{{
		Format:         mapFormat(info.Format),
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}}

	colorRef := []vk.AttachmentReference{{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}}

	rpci := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: 1,
		PAttachments:    attachments,
		SubpassCount:    1,
		PSubpasses: []vk.SubpassDescription{{
			PipelineBindPoint:    vk.PipelineBindPointGraphics,
			ColorAttachmentCount: 1,
			PColorAttachments:    colorRef,
		}},
	}

	var pass vk.RenderPass
	res := vk.CreateRenderPass(vkDevice(dev), &rpci, nil, &pass)
	return renderPassHandle(pass), Result(res)
}

func (vulkanDriver) DestroyRenderPass(dev Device, pass RenderPass) {
	vk.DestroyRenderPass(vkDevice(dev), vkRenderPass(pass), nil)
}

func (vulkanDriver) CreateFramebuffer(dev Device, info FramebufferCreateInfo) (Framebuffer, Result) {
	fci := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      vkRenderPass(info.RenderPass),
		AttachmentCount: 1,
		PAttachments:    []vk.ImageView{vkImageView(info.Attachment)},
		Width:           info.Width,
		Height:          info.Height,
		Layers:          1,
	}

	var fb vk.Framebuffer
	res := vk.CreateFramebuffer(vkDevice(dev), &fci, nil, &fb)
	return framebufferHandle(fb), Result(res)
}

func (vulkanDriver) DestroyFramebuffer(dev Device, fb Framebuffer) {
	vk.DestroyFramebuffer(vkDevice(dev), vkFramebuffer(fb), nil)
}

func (vulkanDriver) CreateShaderModule(dev Device, info ShaderModuleCreateInfo) (ShaderModule, Result) {
	smci := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(info.Code) * 4),
		PCode:    info.Code,
	}

	var module vk.ShaderModule
	res := vk.CreateShaderModule(vkDevice(dev), &smci, nil, &module)
	return shaderModuleHandle(module), Result(res)
}

func (vulkanDriver) DestroyShaderModule(dev Device, module ShaderModule) {
	vk.DestroyShaderModule(vkDevice(dev), vkShaderModule(module), nil)
}

func (vulkanDriver) CreateDescriptorSetLayout(dev Device, info DescriptorSetLayoutCreateInfo) (DescriptorSetLayout, Result) {
	bindings := make([]vk.DescriptorSetLayoutBinding, len(info.Bindings))
	for idx, binding := range info.Bindings {
		bindings[idx] = vk.DescriptorSetLayoutBinding{
			Binding:         binding.Binding,
			DescriptorType:  mapDescriptorType(binding.Type),
			DescriptorCount: binding.Count,
			StageFlags:      vk.ShaderStageFlags(binding.Stages),
		}
	}

	dslci := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}

	var layout vk.DescriptorSetLayout
	res := vk.CreateDescriptorSetLayout(vkDevice(dev), &dslci, nil, &layout)
	return descriptorSetLayoutHandle(layout), Result(res)
}

func (vulkanDriver) DestroyDescriptorSetLayout(dev Device, layout DescriptorSetLayout) {
	vk.DestroyDescriptorSetLayout(vkDevice(dev), vkDescriptorSetLayout(layout), nil)
}

func (vulkanDriver) CreatePipelineLayout(dev Device, info PipelineLayoutCreateInfo) (PipelineLayout, Result) {
	layouts := make([]vk.DescriptorSetLayout, len(info.SetLayouts))
	for idx := range info.SetLayouts {
		layouts[idx] = vkDescriptorSetLayout(info.SetLayouts[idx])
	}

	plci := vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: uint32(len(layouts)),
		PSetLayouts:    layouts,
	}

	var layout vk.PipelineLayout
	res := vk.CreatePipelineLayout(vkDevice(dev), &plci, nil, &layout)
	return pipelineLayoutHandle(layout), Result(res)
}

func (vulkanDriver) DestroyPipelineLayout(dev Device, layout PipelineLayout) {
	vk.DestroyPipelineLayout(vkDevice(dev), vkPipelineLayout(layout), nil)
}

func (vulkanDriver) CreateSampler(dev Device, info SamplerCreateInfo) (Sampler, Result) {
	sci := vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               vk.FilterNearest,
		MinFilter:               vk.FilterNearest,
		MipmapMode:              vk.SamplerMipmapModeNearest,
		AddressModeU:            vk.SamplerAddressModeRepeat,
		AddressModeV:            vk.SamplerAddressModeRepeat,
		AddressModeW:            vk.SamplerAddressModeRepeat,
		MaxAnisotropy:           info.MaxAnisotropy,
		CompareOp:               vk.CompareOpNever,
		BorderColor:             vk.BorderColorFloatOpaqueWhite,
		UnnormalizedCoordinates: vk.False,
	}

	var sampler vk.Sampler
	res := vk.CreateSampler(vkDevice(dev), &sci, nil, &sampler)
	return samplerHandle(sampler), Result(res)
}

func (vulkanDriver) DestroySampler(dev Device, sampler Sampler) {
	vk.DestroySampler(vkDevice(dev), vkSampler(sampler), nil)
}

func (vulkanDriver) CreateGraphicsPipeline(dev Device, info GraphicsPipelineCreateInfo) (Pipeline, Result) {
	stages := []vk.PipelineShaderStageCreateInfo{{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  vk.ShaderStageVertexBit,
		Module: vkShaderModule(info.VertexShader),
		PName:  "main\x00",
	}, {
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  vk.ShaderStageFragmentBit,
		Module: vkShaderModule(info.FragmentShader),
		PName:  "main\x00",
	}}

	attributes := make([]vk.VertexInputAttributeDescription, len(info.VertexAttributes))
	for idx, attr := range info.VertexAttributes {
		attributes[idx] = vk.VertexInputAttributeDescription{
			Location: attr.Location,
			Binding:  0,
			Format:   mapFormat(attr.Format),
			Offset:   attr.Offset,
		}
	}

	blend := vk.PipelineColorBlendAttachmentState{
		ColorWriteMask: vk.ColorComponentFlags(
			vk.ColorComponentRBit | vk.ColorComponentGBit |
				vk.ColorComponentBBit | vk.ColorComponentABit),
	}
	if info.AlphaBlend {
		blend.BlendEnable = vk.True
		blend.SrcColorBlendFactor = vk.BlendFactorSrcAlpha
		blend.DstColorBlendFactor = vk.BlendFactorOneMinusSrcAlpha
		blend.ColorBlendOp = vk.BlendOpAdd
		blend.SrcAlphaBlendFactor = vk.BlendFactorSrcAlpha
		blend.DstAlphaBlendFactor = vk.BlendFactorOneMinusSrcAlpha
		blend.AlphaBlendOp = vk.BlendOpAdd
	}

	depthTest := vk.Bool32(vk.False)
	if info.DepthTest {
		depthTest = vk.True
	}
	depthWrite := vk.Bool32(vk.False)
	if info.DepthWrite {
		depthWrite = vk.True
	}

	gpci := []vk.GraphicsPipelineCreateInfo{{
		SType:      vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount: uint32(len(stages)),
		PStages:    stages,
		PVertexInputState: &vk.PipelineVertexInputStateCreateInfo{
			SType:                         vk.StructureTypePipelineVertexInputStateCreateInfo,
			VertexBindingDescriptionCount: 1,
			PVertexBindingDescriptions: []vk.VertexInputBindingDescription{{
				Binding:   0,
				Stride:    info.VertexStride,
				InputRate: vk.VertexInputRateVertex,
			}},
			VertexAttributeDescriptionCount: uint32(len(attributes)),
			PVertexAttributeDescriptions:    attributes,
		},
		PInputAssemblyState: &vk.PipelineInputAssemblyStateCreateInfo{
			SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
			Topology: mapTopology(info.Topology),
		},
		PViewportState: &vk.PipelineViewportStateCreateInfo{
			SType:         vk.StructureTypePipelineViewportStateCreateInfo,
			ViewportCount: 1,
			ScissorCount:  1,
		},
		PRasterizationState: &vk.PipelineRasterizationStateCreateInfo{
			SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
			PolygonMode: vk.PolygonModeFill,
			CullMode:    vk.CullModeFlags(vk.CullModeNone),
			FrontFace:   vk.FrontFaceClockwise,
			LineWidth:   1.0,
		},
		PDepthStencilState: &vk.PipelineDepthStencilStateCreateInfo{
			SType:            vk.StructureTypePipelineDepthStencilStateCreateInfo,
			DepthTestEnable:  depthTest,
			DepthWriteEnable: depthWrite,
			DepthCompareOp:   mapCompareOp(info.DepthCompare),
		},
		PMultisampleState: &vk.PipelineMultisampleStateCreateInfo{
			SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
			RasterizationSamples: vk.SampleCount1Bit,
		},
		PColorBlendState: &vk.PipelineColorBlendStateCreateInfo{
			SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
			AttachmentCount: 1,
			PAttachments:    []vk.PipelineColorBlendAttachmentState{blend},
		},
		PDynamicState: &vk.PipelineDynamicStateCreateInfo{
			SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
			DynamicStateCount: 2,
			PDynamicStates: []vk.DynamicState{
				vk.DynamicStateViewport,
				vk.DynamicStateScissor,
			},
		},
		Layout:     vkPipelineLayout(info.Layout),
		RenderPass: vkRenderPass(info.RenderPass),
	}}

	pipelines := make([]vk.Pipeline, 1)
	res := vk.CreateGraphicsPipelines(vkDevice(dev), vk.NullPipelineCache, 1, gpci, nil, pipelines)
	return pipelineHandle(pipelines[0]), Result(res)
}

func (vulkanDriver) DestroyPipeline(dev Device, pipeline Pipeline) {
	vk.DestroyPipeline(vkDevice(dev), vkPipeline(pipeline), nil)
}

func (vulkanDriver) CreateDescriptorPool(dev Device, info DescriptorPoolCreateInfo) (DescriptorPool, Result) {
	sizes := make([]vk.DescriptorPoolSize, len(info.PoolSizes))
	for idx, size := range info.PoolSizes {
		sizes[idx] = vk.DescriptorPoolSize{
			Type:            mapDescriptorType(size.Type),
			DescriptorCount: size.Count,
		}
	}

	dpci := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       info.MaxSets,
		PoolSizeCount: uint32(len(sizes)),
		PPoolSizes:    sizes,
	}

	var pool vk.DescriptorPool
	res := vk.CreateDescriptorPool(vkDevice(dev), &dpci, nil, &pool)
	return descriptorPoolHandle(pool), Result(res)
}

func (vulkanDriver) DestroyDescriptorPool(dev Device, pool DescriptorPool) {
	vk.DestroyDescriptorPool(vkDevice(dev), vkDescriptorPool(pool), nil)
}

func (vulkanDriver) AllocateDescriptorSets(dev Device, info DescriptorSetAllocateInfo) ([]DescriptorSet, Result) {
	layouts := make([]vk.DescriptorSetLayout, len(info.Layouts))
	for idx := range info.Layouts {
		layouts[idx] = vkDescriptorSetLayout(info.Layouts[idx])
	}

	dsai := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     vkDescriptorPool(info.Pool),
		DescriptorSetCount: uint32(len(layouts)),
		PSetLayouts:        layouts,
	}

	raw := make([]vk.DescriptorSet, len(layouts))
	res := vk.AllocateDescriptorSets(vkDevice(dev), &dsai, &raw[0])
	sets := make([]DescriptorSet, len(raw))
	for idx := range raw {
		sets[idx] = descriptorSetHandle(raw[idx])
	}
	return sets, Result(res)
}

func (vulkanDriver) UpdateDescriptorSets(dev Device, writes []WriteDescriptorSet) {
	raw := make([]vk.WriteDescriptorSet, len(writes))
	for idx, write := range writes {
		raw[idx] = vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          vkDescriptorSet(write.Set),
			DstBinding:      write.Binding,
			DescriptorCount: 1,
			DescriptorType:  mapDescriptorType(write.Type),
			PImageInfo: []vk.DescriptorImageInfo{{
				Sampler:     vkSampler(write.Image.Sampler),
				ImageView:   vkImageView(write.Image.View),
				ImageLayout: mapImageLayout(write.Image.Layout),
			}},
		}
	}
	vk.UpdateDescriptorSets(vkDevice(dev), uint32(len(raw)), raw, 0, nil)
}

func (vulkanDriver) CreateBuffer(dev Device, info BufferCreateInfo) (Buffer, Result) {
	bci := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(info.Size),
		Usage:       mapBufferUsage(info.Usage),
		SharingMode: vk.SharingModeExclusive,
	}

	var buffer vk.Buffer
	res := vk.CreateBuffer(vkDevice(dev), &bci, nil, &buffer)
	return bufferHandle(buffer), Result(res)
}

func (vulkanDriver) DestroyBuffer(dev Device, buffer Buffer) {
	vk.DestroyBuffer(vkDevice(dev), vkBuffer(buffer), nil)
}

func (vulkanDriver) GetBufferMemoryRequirements(dev Device, buffer Buffer) MemoryRequirements {
	var raw vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(vkDevice(dev), vkBuffer(buffer), &raw)
	raw.Deref()
	return MemoryRequirements{
		Size:           uint64(raw.Size),
		Alignment:      uint64(raw.Alignment),
		MemoryTypeBits: raw.MemoryTypeBits,
	}
}

func (vulkanDriver) CreateImage(dev Device, info ImageCreateInfo) (Image, Result) {
	var flags vk.ImageCreateFlags
	if info.MutableFormat {
		flags = vk.ImageCreateFlags(vk.ImageCreateMutableFormatBit)
	}

	ici := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		Flags:     flags,
		ImageType: vk.ImageType2d,
		Format:    mapFormat(info.Format),
		Extent: vk.Extent3D{
			Width:  info.Width,
			Height: info.Height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        vk.ImageTilingOptimal,
		Usage:         mapImageUsage(info.Usage),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}

	var image vk.Image
	res := vk.CreateImage(vkDevice(dev), &ici, nil, &image)
	return imageHandle(image), Result(res)
}

func (vulkanDriver) DestroyImage(dev Device, image Image) {
	vk.DestroyImage(vkDevice(dev), vkImage(image), nil)
}

func (vulkanDriver) GetImageMemoryRequirements(dev Device, image Image) MemoryRequirements {
	var raw vk.MemoryRequirements
	vk.GetImageMemoryRequirements(vkDevice(dev), vkImage(image), &raw)
	raw.Deref()
	return MemoryRequirements{
		Size:           uint64(raw.Size),
		Alignment:      uint64(raw.Alignment),
		MemoryTypeBits: raw.MemoryTypeBits,
	}
}

func (vulkanDriver) AllocateMemory(dev Device, info MemoryAllocateInfo) (DeviceMemory, Result) {
	mai := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  vk.DeviceSize(info.Size),
		MemoryTypeIndex: info.MemoryTypeIndex,
	}

	var memory vk.DeviceMemory
	res := vk.AllocateMemory(vkDevice(dev), &mai, nil, &memory)
	return deviceMemoryHandle(memory), Result(res)
}

func (vulkanDriver) FreeMemory(dev Device, memory DeviceMemory) {
	vk.FreeMemory(vkDevice(dev), vkDeviceMemory(memory), nil)
}

func (vulkanDriver) BindBufferMemory(dev Device, buffer Buffer, memory DeviceMemory, offset uint64) Result {
	return Result(vk.BindBufferMemory(vkDevice(dev), vkBuffer(buffer), vkDeviceMemory(memory), vk.DeviceSize(offset)))
}

func (vulkanDriver) BindImageMemory(dev Device, image Image, memory DeviceMemory, offset uint64) Result {
	return Result(vk.BindImageMemory(vkDevice(dev), vkImage(image), vkDeviceMemory(memory), vk.DeviceSize(offset)))
}

func (vulkanDriver) MapMemory(dev Device, memory DeviceMemory, offset, size uint64) ([]byte, Result) {
	var data unsafe.Pointer
	res := vk.MapMemory(vkDevice(dev), vkDeviceMemory(memory), vk.DeviceSize(offset), vk.DeviceSize(size), 0, &data)
	if res != vk.Success {
		return nil, Result(res)
	}
	const m = 0x7fffffff
	return (*[m]byte)(data)[:size:size], Success
}

func (vulkanDriver) UnmapMemory(dev Device, memory DeviceMemory) {
	vk.UnmapMemory(vkDevice(dev), vkDeviceMemory(memory))
}

func (vulkanDriver) CmdBeginRenderPass(cb CommandBuffer, info RenderPassBeginInfo) {
	clearValues := make([]vk.ClearValue, 1)
	clearValues[0].SetColor(info.ClearColor[:])

	rpbi := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  vkRenderPass(info.RenderPass),
		Framebuffer: vkFramebuffer(info.Framebuffer),
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: info.RenderArea.Offset.X, Y: info.RenderArea.Offset.Y},
			Extent: vk.Extent2D{
				Width:  info.RenderArea.Extent.Width,
				Height: info.RenderArea.Extent.Height,
			},
		},
		ClearValueCount: 1,
		PClearValues:    clearValues,
	}
	vk.CmdBeginRenderPass(vkCommandBuffer(cb), &rpbi, vk.SubpassContentsInline)
}

func (vulkanDriver) CmdEndRenderPass(cb CommandBuffer) {
	vk.CmdEndRenderPass(vkCommandBuffer(cb))
}

func (vulkanDriver) CmdBindPipeline(cb CommandBuffer, pipeline Pipeline) {
	vk.CmdBindPipeline(vkCommandBuffer(cb), vk.PipelineBindPointGraphics, vkPipeline(pipeline))
}

func (vulkanDriver) CmdSetViewport(cb CommandBuffer, viewport Viewport) {
	vk.CmdSetViewport(vkCommandBuffer(cb), 0, 1, []vk.Viewport{{
		X:        viewport.X,
		Y:        viewport.Y,
		Width:    viewport.Width,
		Height:   viewport.Height,
		MinDepth: viewport.MinDepth,
		MaxDepth: viewport.MaxDepth,
	}})
}

func (vulkanDriver) CmdSetScissor(cb CommandBuffer, scissor Rect2D) {
	vk.CmdSetScissor(vkCommandBuffer(cb), 0, 1, []vk.Rect2D{{
		Offset: vk.Offset2D{X: scissor.Offset.X, Y: scissor.Offset.Y},
		Extent: vk.Extent2D{Width: scissor.Extent.Width, Height: scissor.Extent.Height},
	}})
}

func (vulkanDriver) CmdBindVertexBuffer(cb CommandBuffer, buffer Buffer, offset uint64) {
	vk.CmdBindVertexBuffers(vkCommandBuffer(cb), 0, 1, []vk.Buffer{vkBuffer(buffer)}, []vk.DeviceSize{vk.DeviceSize(offset)})
}

func (vulkanDriver) CmdBindIndexBuffer(cb CommandBuffer, buffer Buffer, offset uint64) {
	vk.CmdBindIndexBuffer(vkCommandBuffer(cb), vkBuffer(buffer), vk.DeviceSize(offset), vk.IndexTypeUint16)
}

func (vulkanDriver) CmdBindDescriptorSet(cb CommandBuffer, layout PipelineLayout, set DescriptorSet) {
	vk.CmdBindDescriptorSets(vkCommandBuffer(cb), vk.PipelineBindPointGraphics, vkPipelineLayout(layout), 0, 1, []vk.DescriptorSet{vkDescriptorSet(set)}, 0, nil)
}

func (vulkanDriver) CmdDrawIndexed(cb CommandBuffer, indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	vk.CmdDrawIndexed(vkCommandBuffer(cb), indexCount, instanceCount, firstIndex, vertexOffset, firstInstance)
}

func mapDescriptorType(t DescriptorType) vk.DescriptorType {
	switch t {
	case DescriptorTypeCombinedImageSampler:
		return vk.DescriptorTypeCombinedImageSampler
	default:
		return vk.DescriptorTypeSampler
	}
}

func mapTopology(t PrimitiveTopology) vk.PrimitiveTopology {
	switch t {
	case PrimitiveTopologyTriangleStrip:
		return vk.PrimitiveTopologyTriangleStrip
	default:
		return vk.PrimitiveTopologyTriangleList
	}
}

func mapCompareOp(op CompareOp) vk.CompareOp {
	switch op {
	case CompareOpLess:
		return vk.CompareOpLess
	default:
		return vk.CompareOpAlways
	}
}

func mapImageLayout(layout ImageLayout) vk.ImageLayout {
	switch layout {
	case ImageLayoutGeneral:
		return vk.ImageLayoutGeneral
	default:
		return vk.ImageLayoutUndefined
	}
}

func mapBufferUsage(usage BufferUsageFlags) vk.BufferUsageFlags {
	var flags vk.BufferUsageFlagBits
	if usage&BufferUsageIndexBuffer != 0 {
		flags |= vk.BufferUsageIndexBufferBit
	}
	if usage&BufferUsageVertexBuffer != 0 {
		flags |= vk.BufferUsageVertexBufferBit
	}
	return vk.BufferUsageFlags(flags)
}

func mapImageUsage(usage ImageUsageFlags) vk.ImageUsageFlags {
	var flags vk.ImageUsageFlagBits
	if usage&ImageUsageTransferDst != 0 {
		flags |= vk.ImageUsageTransferDstBit
	}
	if usage&ImageUsageSampled != 0 {
		flags |= vk.ImageUsageSampledBit
	}
	if usage&ImageUsageColorAttachment != 0 {
		flags |= vk.ImageUsageColorAttachmentBit
	}
	return vk.ImageUsageFlags(flags)
}
