// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/devblok/vkoverlay/gfx"
)

// widgetSlot holds the per-widget resources for one frame: a descriptor
// set from the shared pool, the view over the widget's texture, and the
// quad vertex buffer. The slot array is resized to the widget count on
// every frame.
type widgetSlot struct {
	set      DescriptorSet
	view     ImageView
	vertices BoundBuffer
}

// NewWidgetRenderer builds the objects shared by every widget: the
// descriptor set layout (one fragment-visible combined image sampler),
// the pipeline layout, the nearest-filter repeat sampler, and the static
// 6-index quad buffer. The graphics pipeline itself is built on first
// render, keyed to the render pass in use.
//
// vertexShader and fragmentShader are opaque SPIR-V blobs supplied by
// the embedding host. Construction is best-effort: failed objects are
// left null and the first failure is returned alongside a renderer that
// is still safe to destroy.
func NewWidgetRenderer(driver Driver, device Device, phyDevice PhysicalDevice, alloc *MemoryAllocator, vertexShader, fragmentShader []byte) (*WidgetRenderer, error) {
	w := &WidgetRenderer{
		driver:  driver,
		device:  device,
		alloc:   alloc,
		vertSPV: vertexShader,
		fragSPV: fragmentShader,
	}

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	setLayout, result := driver.CreateDescriptorSetLayout(device, DescriptorSetLayoutCreateInfo{
		Bindings: []DescriptorSetLayoutBinding{{
			Binding: 0,
			Type:    DescriptorTypeCombinedImageSampler,
			Count:   1,
			Stages:  ShaderStageFragment,
		}},
	})
	keep(result.Err("vk.CreateDescriptorSetLayout()"))
	w.setLayout = setLayout

	layout, result := driver.CreatePipelineLayout(device, PipelineLayoutCreateInfo{
		SetLayouts: []DescriptorSetLayout{w.setLayout},
	})
	keep(result.Err("vk.CreatePipelineLayout()"))
	w.layout = layout

	properties := driver.GetPhysicalDeviceProperties(phyDevice)
	sampler, result := driver.CreateSampler(device, SamplerCreateInfo{
		MaxAnisotropy: properties.MaxSamplerAnisotropy,
	})
	keep(result.Err("vk.CreateSampler()"))
	w.sampler = sampler

	indices, err := NewBuffer(driver, device, alloc, BufferUsageIndexBuffer, indexBytes(gfx.QuadIndices))
	keep(err)
	w.indices = indices

	return w, firstErr
}

// WidgetRenderer records the draw commands that composite 2D widget
// quads over the rendered scene. One instance serves every widget; the
// per-widget resources live in slots sized to the widget count each
// frame.
type WidgetRenderer struct {
	driver Driver
	device Device
	alloc  *MemoryAllocator

	vertSPV []byte
	fragSPV []byte

	setLayout DescriptorSetLayout
	layout    PipelineLayout
	sampler   Sampler
	indices   BoundBuffer

	pool  DescriptorPool
	slots []widgetSlot

	pipeline Pipeline
	// pipelinePass is the render pass the pipeline was built against;
	// the pipeline is valid only while this matches the pass in use.
	pipelinePass RenderPass

	destroyed bool
}

// SlotCount returns the number of per-widget slots currently allocated.
func (w *WidgetRenderer) SlotCount() int {
	return len(w.slots)
}

// Render records the draw commands for every widget, in list order, into
// cb. The render pass must already be open; later widgets composite on
// top of earlier ones through blending. Failures are reported but never
// abort the frame: the first error is returned after all widgets have
// been attempted.
func (w *WidgetRenderer) Render(cb CommandBuffer, renderPass RenderPass, screen gfx.ScreenParams, widgets []gfx.WidgetParams) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	keep(w.resizeSlots(len(widgets)))
	for idx := range widgets {
		keep(w.updateVertexBuffer(idx, widgets[idx], screen))
	}

	if renderPass != w.pipelinePass {
		w.pipelinePass = renderPass
		keep(w.rebuildPipeline(renderPass))
	}

	for idx := range widgets {
		keep(w.renderWidget(cb, idx, widgets[idx], screen))
	}
	return firstErr
}

// Destroy releases every owned object: texture views, the sampler, the
// pipeline layout, the descriptor set layout, the descriptor pool, the
// pipeline, the index buffer and all vertex buffers. Safe to call when
// construction failed part way and safe to call twice.
func (w *WidgetRenderer) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true

	for idx := range w.slots {
		w.cleanTextureView(idx)
	}
	if w.sampler != NullHandle {
		w.driver.DestroySampler(w.device, w.sampler)
		w.sampler = NullHandle
	}
	if w.layout != NullHandle {
		w.driver.DestroyPipelineLayout(w.device, w.layout)
		w.layout = NullHandle
	}
	if w.setLayout != NullHandle {
		w.driver.DestroyDescriptorSetLayout(w.device, w.setLayout)
		w.setLayout = NullHandle
	}
	if w.pool != NullHandle {
		w.driver.DestroyDescriptorPool(w.device, w.pool)
		w.pool = NullHandle
	}
	w.cleanPipeline()
	w.indices.Release()
	for idx := range w.slots {
		w.slots[idx].vertices.Release()
	}
	w.slots = nil
}

// resizeSlots matches the slot array to the widget count. Descriptor
// pools cannot shrink, so on any count change the pool and every set are
// rebuilt from scratch; slots beyond the new count release their view
// and vertex buffer.
func (w *WidgetRenderer) resizeSlots(count int) error {
	if count == len(w.slots) && w.pool != NullHandle {
		return nil
	}

	for idx := count; idx < len(w.slots); idx++ {
		w.cleanTextureView(idx)
		w.slots[idx].vertices.Release()
	}
	if w.pool != NullHandle {
		w.driver.DestroyDescriptorPool(w.device, w.pool)
		w.pool = NullHandle
	}
	for idx := range w.slots {
		w.slots[idx].set = NullHandle
	}

	if count < len(w.slots) {
		w.slots = w.slots[:count]
	} else {
		for len(w.slots) < count {
			w.slots = append(w.slots, widgetSlot{})
		}
	}
	if count == 0 {
		return nil
	}

	pool, result := w.driver.CreateDescriptorPool(w.device, DescriptorPoolCreateInfo{
		MaxSets: uint32(count),
		PoolSizes: []DescriptorPoolSize{{
			Type:  DescriptorTypeCombinedImageSampler,
			Count: uint32(count),
		}},
	})
	if err := result.Err("vk.CreateDescriptorPool()"); err != nil {
		return err
	}
	w.pool = pool

	layouts := make([]DescriptorSetLayout, count)
	for idx := range layouts {
		layouts[idx] = w.setLayout
	}
	sets, result := w.driver.AllocateDescriptorSets(w.device, DescriptorSetAllocateInfo{
		Pool:    w.pool,
		Layouts: layouts,
	})
	if err := result.Err("vk.AllocateDescriptorSets()"); err != nil {
		return err
	}
	for idx := range w.slots {
		w.slots[idx].set = sets[idx]
	}
	return nil
}

// updateVertexBuffer recomputes the widget's quad in clip space and
// replaces its vertex buffer with one holding the new data.
func (w *WidgetRenderer) updateVertexBuffer(idx int, widget gfx.WidgetParams, screen gfx.ScreenParams) error {
	if idx >= len(w.slots) {
		return fmt.Errorf("widget %d exceeds the %d allocated slots", idx, len(w.slots))
	}

	w.slots[idx].vertices.Release()

	quad := gfx.WidgetQuad(widget, screen)
	buffer, err := NewBuffer(w.driver, w.device, w.alloc, BufferUsageVertexBuffer, vertexBytes(quad[:]))
	if err != nil {
		return fmt.Errorf("widget %d vertices: %s", idx, err.Error())
	}
	w.slots[idx].vertices = buffer
	return nil
}

// rebuildPipeline replaces the graphics pipeline with one built against
// pass. Shader modules live only for the duration of the build.
func (w *WidgetRenderer) rebuildPipeline(pass RenderPass) error {
	w.cleanPipeline()

	vert, result := w.driver.CreateShaderModule(w.device, ShaderModuleCreateInfo{Code: sliceUint32(w.vertSPV)})
	if err := result.Err("vk.CreateShaderModule(vert)"); err != nil {
		return err
	}
	frag, result := w.driver.CreateShaderModule(w.device, ShaderModuleCreateInfo{Code: sliceUint32(w.fragSPV)})
	if err := result.Err("vk.CreateShaderModule(frag)"); err != nil {
		w.driver.DestroyShaderModule(w.device, vert)
		return err
	}

	pipeline, result := w.driver.CreateGraphicsPipeline(w.device, GraphicsPipelineCreateInfo{
		VertexShader:   vert,
		FragmentShader: frag,
		Topology:       PrimitiveTopologyTriangleStrip,
		VertexStride:   4 * 4,
		VertexAttributes: []VertexAttribute{
			{Location: 0, Format: FormatR32g32Sfloat, Offset: 0},
			{Location: 1, Format: FormatR32g32Sfloat, Offset: 8},
		},
		AlphaBlend:   true,
		DepthTest:    true,
		DepthWrite:   true,
		DepthCompare: CompareOpLess,
		Layout:       w.layout,
		RenderPass:   pass,
	})

	w.driver.DestroyShaderModule(w.device, vert)
	w.driver.DestroyShaderModule(w.device, frag)

	if err := result.Err("vk.CreateGraphicsPipelines()"); err != nil {
		return err
	}
	w.pipeline = pipeline
	return nil
}

// renderWidget refreshes the widget's texture view and descriptor set,
// then records its draw: dynamic viewport and scissor, pipeline, vertex
// plus shared index buffer, descriptor set, one indexed draw of the six
// quad indices.
func (w *WidgetRenderer) renderWidget(cb CommandBuffer, idx int, widget gfx.WidgetParams, screen gfx.ScreenParams) error {
	w.cleanTextureView(idx)

	view, result := w.driver.CreateImageView(w.device, ImageViewCreateInfo{
		Image:  Image(widget.Texture),
		Format: FormatEtc2R8g8b8a8Unorm,
	})
	if err := result.Err("vk.CreateImageView()"); err != nil {
		return fmt.Errorf("widget %d texture: %s", idx, err.Error())
	}
	w.slots[idx].view = view

	w.driver.UpdateDescriptorSets(w.device, []WriteDescriptorSet{{
		Set:     w.slots[idx].set,
		Binding: 0,
		Type:    DescriptorTypeCombinedImageSampler,
		Image: DescriptorImageInfo{
			Sampler: w.sampler,
			View:    view,
			Layout:  ImageLayoutGeneral,
		},
	}})

	w.driver.CmdBindPipeline(cb, w.pipeline)
	w.driver.CmdSetViewport(cb, Viewport{
		X:        float32(screen.ViewportX),
		Y:        float32(screen.ViewportY),
		Width:    float32(screen.ViewportWidth),
		Height:   float32(screen.ViewportHeight),
		MinDepth: 0,
		MaxDepth: 1,
	})
	w.driver.CmdSetScissor(cb, Rect2D{
		Offset: Offset2D{X: screen.ViewportX, Y: screen.ViewportY},
		Extent: Extent2D{
			Width:  uint32(screen.ViewportWidth),
			Height: uint32(screen.ViewportHeight),
		},
	})
	w.driver.CmdBindVertexBuffer(cb, w.slots[idx].vertices.Get(), 0)
	w.driver.CmdBindIndexBuffer(cb, w.indices.Get(), 0)
	w.driver.CmdBindDescriptorSet(cb, w.layout, w.slots[idx].set)
	w.driver.CmdDrawIndexed(cb, uint32(len(gfx.QuadIndices)), 1, 0, 0, 0)
	return nil
}

func (w *WidgetRenderer) cleanPipeline() {
	if w.pipeline != NullHandle {
		w.driver.DestroyPipeline(w.device, w.pipeline)
		w.pipeline = NullHandle
	}
}

func (w *WidgetRenderer) cleanTextureView(idx int) {
	if w.slots[idx].view != NullHandle {
		w.driver.DestroyImageView(w.device, w.slots[idx].view)
		w.slots[idx].view = NullHandle
	}
}

// indexBytes encodes uint16 indices little-endian for upload.
func indexBytes(indices []uint16) []byte {
	out := make([]byte, len(indices)*2)
	for idx, value := range indices {
		binary.LittleEndian.PutUint16(out[idx*2:], value)
	}
	return out
}

// vertexBytes encodes vertices as little-endian float32 quadruples,
// position then UV. Identical vertices always encode to identical bytes.
func vertexBytes(vertices []gfx.Vertex) []byte {
	out := make([]byte, 0, len(vertices)*16)
	var scratch [4]byte
	put := func(v float32) {
		binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(v))
		out = append(out, scratch[:]...)
	}
	for _, vertex := range vertices {
		put(vertex.Pos.X())
		put(vertex.Pos.Y())
		put(vertex.UV.X())
		put(vertex.UV.Y())
	}
	return out
}

// sliceUint32 reinterprets SPIR-V bytes as the uint32 words the driver
// expects. Little-endian, matching the byte order SPIR-V blobs ship in.
func sliceUint32(data []byte) []uint32 {
	out := make([]uint32, len(data)/4)
	for idx := range out {
		out[idx] = binary.LittleEndian.Uint32(data[idx*4:])
	}
	return out
}
