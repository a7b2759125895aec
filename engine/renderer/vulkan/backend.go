//go:build vulkan

package vulkan

import (
	stdmath "math"
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"
	"github.com/rotisserie/eris"
	"github.com/spf13/afero"

	"github.com/spaghettifunk/eae6320/engine/assets"
	"github.com/spaghettifunk/eae6320/engine/core"
	"github.com/spaghettifunk/eae6320/engine/platform"
	"github.com/spaghettifunk/eae6320/engine/renderer"
)

const constantBufferBinding = 0

type Backend struct {
	fs     afero.Fs
	logger *core.Logger
	debug  bool

	context        *VulkanContext
	shaderStages   []*VulkanShaderStage
	pipeline       *VulkanPipeline
	descriptors    *VulkanDescriptors
	vertexBuffer   *VulkanBuffer
	uniformBuffers []*VulkanBuffer
}

func New(fs afero.Fs, logger *core.Logger) *Backend {
	return &Backend{
		fs:     fs,
		logger: logger,
		context: &VulkanContext{
			Logger: logger,
		},
	}
}

// SetDebug enables the validation layer and the debug report callback. It
// must be called before Initialize.
func (b *Backend) SetDebug(debug bool) {
	b.debug = debug
}

func (b *Backend) ClientAPI() platform.ClientAPI {
	return platform.ClientAPIVulkan
}

func (b *Backend) Initialize(surface interface{}, width, height uint32) error {
	window, ok := surface.(*glfw.Window)
	if !ok {
		return eris.Errorf("the surface %T is not a Vulkan capable window", surface)
	}

	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		return eris.New("GetInstanceProcAddress is nil")
	}
	vk.SetGetInstanceProcAddr(procAddr)
	if err := vk.Init(); err != nil {
		return eris.Wrap(err, "failed to initialize vk")
	}

	b.context.FramebufferWidth = width
	b.context.FramebufferHeight = height

	if err := b.createInstance(window.GetRequiredInstanceExtensions()); err != nil {
		return err
	}
	if b.debug {
		if err := b.createDebugCallback(); err != nil {
			return err
		}
	}

	// Surface
	b.logger.Debug("Creating Vulkan surface...")
	handle, err := window.CreateWindowSurface(b.context.Instance, nil)
	if err != nil {
		return eris.Wrap(err, "Vulkan surface creation failed")
	}
	b.context.Surface = vk.SurfaceFromPointer(handle)
	b.logger.Debug("Vulkan surface created.")

	if err := DeviceCreate(b.context); err != nil {
		return err
	}

	sc, err := SwapchainCreate(b.context, width, height)
	if err != nil {
		return err
	}
	b.context.Swapchain = sc
	b.context.FramebufferWidth = sc.Extent.Width
	b.context.FramebufferHeight = sc.Extent.Height

	rp, err := RenderpassCreate(b.context, 0, 0, float32(sc.Extent.Width), float32(sc.Extent.Height), renderer.ClearColor)
	if err != nil {
		return err
	}
	b.context.MainRenderpass = rp

	if err := b.createFramebuffers(); err != nil {
		return err
	}
	if err := b.createCommandBuffers(); err != nil {
		return err
	}
	if err := b.createSyncObjects(); err != nil {
		return err
	}
	if err := b.createBuffers(); err != nil {
		return err
	}
	descriptors, err := NewUniformDescriptors(b.context, constantBufferBinding, b.uniformBuffers)
	if err != nil {
		return err
	}
	b.descriptors = descriptors
	if err := b.createPipeline(); err != nil {
		return err
	}

	b.logger.Info("Vulkan renderer initialized successfully.")
	return nil
}

func (b *Backend) createInstance(windowExtensions []string) error {
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 1, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString("eae6320"),
		PEngineName:        VulkanSafeString("eae6320"),
	}

	extensions := requiredInstanceExtensions(windowExtensions, b.debug)
	for _, e := range extensions {
		b.logger.Debug("Required extension: %s", e)
	}

	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: VulkanSafeStrings(extensions),
	}
	if runtime.GOOS == "darwin" {
		// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
		createInfo.Flags |= 1
	}

	if b.debug {
		layers := []string{"VK_LAYER_KHRONOS_validation"}
		if err := checkValidationLayers(b.logger, layers); err != nil {
			return err
		}
		createInfo.EnabledLayerCount = uint32(len(layers))
		createInfo.PpEnabledLayerNames = VulkanSafeStrings(layers)
	}

	if err := resultError(vk.CreateInstance(&createInfo, b.context.Allocator, &b.context.Instance), "vkCreateInstance"); err != nil {
		return err
	}
	if err := vk.InitInstance(b.context.Instance); err != nil {
		return eris.Wrap(err, "failed to load the instance functions")
	}
	b.logger.Info("Vulkan Instance created.")
	return nil
}

func checkValidationLayers(logger *core.Logger, required []string) error {
	var count uint32
	if err := resultError(vk.EnumerateInstanceLayerProperties(&count, nil), "vkEnumerateInstanceLayerProperties"); err != nil {
		return err
	}
	available := make([]vk.LayerProperties, count)
	if err := resultError(vk.EnumerateInstanceLayerProperties(&count, available), "vkEnumerateInstanceLayerProperties"); err != nil {
		return err
	}
	names := make(map[string]struct{}, count)
	for i := range available {
		available[i].Deref()
		names[vk.ToString(available[i].LayerName[:])] = struct{}{}
	}
	for _, layer := range required {
		if _, ok := names[layer]; !ok {
			return eris.Errorf("required validation layer is missing: %s", layer)
		}
		logger.Debug("Found validation layer %s.", layer)
	}
	return nil
}

func (b *Backend) createDebugCallback() error {
	logger := b.logger
	debugCreateInfo := vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
		PfnCallback: func(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
			switch {
			case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
				logger.Error("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
			case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
				logger.Warn("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
			default:
				logger.Info("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
			}
			return vk.Bool32(vk.False)
		},
	}
	var dbg vk.DebugReportCallback
	if err := resultError(vk.CreateDebugReportCallback(b.context.Instance, &debugCreateInfo, nil, &dbg), "vkCreateDebugReportCallbackEXT"); err != nil {
		return err
	}
	b.context.debugCallback = dbg
	b.logger.Debug("Vulkan debugger created.")
	return nil
}

func (b *Backend) createFramebuffers() error {
	swapchain := b.context.Swapchain
	swapchain.Framebuffers = make([]*VulkanFramebuffer, swapchain.ImageCount)
	for i := range swapchain.Framebuffers {
		fb, err := FramebufferCreate(b.context, b.context.MainRenderpass, swapchain.Extent.Width, swapchain.Extent.Height, []vk.ImageView{swapchain.Views[i]})
		if err != nil {
			return err
		}
		swapchain.Framebuffers[i] = fb
	}
	return nil
}

func (b *Backend) createCommandBuffers() error {
	b.context.GraphicsCommandBuffers = make([]*VulkanCommandBuffer, b.context.Swapchain.ImageCount)
	for i := range b.context.GraphicsCommandBuffers {
		cb, err := NewVulkanCommandBuffer(b.context, b.context.Device.GraphicsCommandPool, true)
		if err != nil {
			return err
		}
		b.context.GraphicsCommandBuffers[i] = cb
	}
	b.logger.Debug("Vulkan command buffers created.")
	return nil
}

func (b *Backend) createSyncObjects() error {
	frames := int(b.context.Swapchain.MaxFramesInFlight)
	b.context.ImageAvailableSemaphores = make([]vk.Semaphore, frames)
	b.context.QueueCompleteSemaphores = make([]vk.Semaphore, frames)
	b.context.InFlightFences = make([]*VulkanFence, frames)

	semaphoreCreateInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	for i := 0; i < frames; i++ {
		if err := resultError(vk.CreateSemaphore(b.context.Device.LogicalDevice, &semaphoreCreateInfo, b.context.Allocator, &b.context.ImageAvailableSemaphores[i]), "vkCreateSemaphore"); err != nil {
			return err
		}
		if err := resultError(vk.CreateSemaphore(b.context.Device.LogicalDevice, &semaphoreCreateInfo, b.context.Allocator, &b.context.QueueCompleteSemaphores[i]), "vkCreateSemaphore"); err != nil {
			return err
		}
		// Signaled so the first frame doesn't wait on a frame that was never submitted.
		f, err := NewFence(b.context, true)
		if err != nil {
			return err
		}
		b.context.InFlightFences[i] = f
	}

	// Owned by InFlightFences.
	b.context.ImagesInFlight = make([]*VulkanFence, b.context.Swapchain.ImageCount)
	return nil
}

func (b *Backend) createBuffers() error {
	vertices := renderer.MeshVertexData()
	vb, err := NewBuffer(b.context, uint64(len(vertices)*4), vk.BufferUsageVertexBufferBit)
	if err != nil {
		return err
	}
	b.vertexBuffer = vb
	if err := vb.LoadData(b.context, float32Bytes(vertices)); err != nil {
		return err
	}

	b.uniformBuffers = make([]*VulkanBuffer, b.context.Swapchain.MaxFramesInFlight)
	for i := range b.uniformBuffers {
		ub, err := NewBuffer(b.context, renderer.ConstantBufferSize, vk.BufferUsageUniformBufferBit)
		if err != nil {
			return err
		}
		b.uniformBuffers[i] = ub
	}
	return nil
}

func (b *Backend) createPipeline() error {
	vertex, err := NewShaderStage(b.context, b.fs, assets.VertexShaderBinaryPath, vk.ShaderStageVertexBit)
	if err != nil {
		return err
	}
	b.shaderStages = append(b.shaderStages, vertex)
	fragment, err := NewShaderStage(b.context, b.fs, assets.FragmentShaderBinaryPath, vk.ShaderStageFragmentBit)
	if err != nil {
		return err
	}
	b.shaderStages = append(b.shaderStages, fragment)

	stages := make([]vk.PipelineShaderStageCreateInfo, len(b.shaderStages))
	for i, s := range b.shaderStages {
		stages[i] = s.ShaderStageCreateInfo
	}

	config := &VulkanPipelineConfig{
		Renderpass: b.context.MainRenderpass,
		Stride:     renderer.MeshVertexStride,
		Attributes: []vk.VertexInputAttributeDescription{{
			Location: 0,
			Binding:  0,
			Format:   vk.FormatR32g32Sfloat,
			Offset:   0,
		}},
		DescriptorSetLayouts: []vk.DescriptorSetLayout{b.descriptors.Layout},
		Stages:               stages,
		Viewport:             b.viewport(),
		Scissor:              b.scissor(),
	}
	pipeline, err := NewGraphicsPipeline(b.context, config)
	if err != nil {
		return err
	}
	b.pipeline = pipeline
	return nil
}

// viewport flips Y so clip space matches OpenGL's.
func (b *Backend) viewport() vk.Viewport {
	return vk.Viewport{
		X:        0,
		Y:        float32(b.context.FramebufferHeight),
		Width:    float32(b.context.FramebufferWidth),
		Height:   -float32(b.context.FramebufferHeight),
		MinDepth: 0,
		MaxDepth: 1,
	}
}

func (b *Backend) scissor() vk.Rect2D {
	return vk.Rect2D{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: vk.Extent2D{
			Width:  b.context.FramebufferWidth,
			Height: b.context.FramebufferHeight,
		},
	}
}

func (b *Backend) RenderFrame(cb renderer.ConstantBuffer) error {
	ctx := b.context
	if b.pipeline == nil {
		return eris.New("the Vulkan backend was not initialized")
	}
	frame := ctx.CurrentFrame

	// Wait for the execution of the current frame to complete.
	if err := ctx.InFlightFences[frame].Wait(ctx, stdmath.MaxUint64); err != nil {
		return err
	}

	imageIndex, err := ctx.Swapchain.AcquireNextImageIndex(ctx, stdmath.MaxUint64, ctx.ImageAvailableSemaphores[frame])
	if err != nil {
		return err
	}
	ctx.ImageIndex = imageIndex

	if err := b.uniformBuffers[frame].LoadData(ctx, (*[renderer.ConstantBufferSize]byte)(unsafe.Pointer(&cb))[:]); err != nil {
		return err
	}

	commandBuffer := ctx.GraphicsCommandBuffers[imageIndex]
	commandBuffer.Reset()
	if err := commandBuffer.Begin(false, false, false); err != nil {
		return err
	}
	vk.CmdSetViewport(commandBuffer.Handle, 0, 1, []vk.Viewport{b.viewport()})
	vk.CmdSetScissor(commandBuffer.Handle, 0, 1, []vk.Rect2D{b.scissor()})

	ctx.MainRenderpass.Begin(commandBuffer, ctx.Swapchain.Framebuffers[imageIndex].Handle)
	b.pipeline.Bind(commandBuffer, vk.PipelineBindPointGraphics)
	vk.CmdBindDescriptorSets(commandBuffer.Handle, vk.PipelineBindPointGraphics, b.pipeline.PipelineLayout, 0, 1, []vk.DescriptorSet{b.descriptors.Sets[frame]}, 0, nil)
	vk.CmdBindVertexBuffers(commandBuffer.Handle, 0, 1, []vk.Buffer{b.vertexBuffer.Handle}, []vk.DeviceSize{0})
	vk.CmdDraw(commandBuffer.Handle, uint32(renderer.MeshVertexCount), 1, 0, 0)
	ctx.MainRenderpass.End(commandBuffer)

	if err := commandBuffer.End(); err != nil {
		return err
	}

	// Make sure the previous frame is not using this image.
	if f := ctx.ImagesInFlight[imageIndex]; f != nil {
		if err := f.Wait(ctx, stdmath.MaxUint64); err != nil {
			return err
		}
	}
	ctx.ImagesInFlight[imageIndex] = ctx.InFlightFences[frame]

	if err := ctx.InFlightFences[frame].Reset(ctx); err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{ctx.ImageAvailableSemaphores[frame]},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{commandBuffer.Handle},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{ctx.QueueCompleteSemaphores[frame]},
	}
	if err := resultError(vk.QueueSubmit(ctx.Device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, ctx.InFlightFences[frame].Handle), "vkQueueSubmit"); err != nil {
		return err
	}
	commandBuffer.UpdateSubmitted()

	return ctx.Swapchain.Present(ctx, ctx.Device.PresentQueue, ctx.QueueCompleteSemaphores[frame], imageIndex)
}

func (b *Backend) CleanUp() error {
	ctx := b.context
	if ctx.Device != nil && ctx.Device.LogicalDevice != nil {
		vk.DeviceWaitIdle(ctx.Device.LogicalDevice)

		if b.pipeline != nil {
			b.pipeline.Destroy(ctx)
			b.pipeline = nil
		}
		for _, s := range b.shaderStages {
			s.Destroy(ctx)
		}
		b.shaderStages = nil
		if b.descriptors != nil {
			b.descriptors.Destroy(ctx)
			b.descriptors = nil
		}
		for _, ub := range b.uniformBuffers {
			if ub != nil {
				ub.Destroy(ctx)
			}
		}
		b.uniformBuffers = nil
		if b.vertexBuffer != nil {
			b.vertexBuffer.Destroy(ctx)
			b.vertexBuffer = nil
		}

		for i := range ctx.InFlightFences {
			if ctx.ImageAvailableSemaphores[i] != nil {
				vk.DestroySemaphore(ctx.Device.LogicalDevice, ctx.ImageAvailableSemaphores[i], ctx.Allocator)
			}
			if ctx.QueueCompleteSemaphores[i] != nil {
				vk.DestroySemaphore(ctx.Device.LogicalDevice, ctx.QueueCompleteSemaphores[i], ctx.Allocator)
			}
			if ctx.InFlightFences[i] != nil {
				ctx.InFlightFences[i].Destroy(ctx)
			}
		}
		ctx.ImageAvailableSemaphores = nil
		ctx.QueueCompleteSemaphores = nil
		ctx.InFlightFences = nil
		ctx.ImagesInFlight = nil

		for _, cb := range ctx.GraphicsCommandBuffers {
			if cb != nil {
				cb.Free(ctx, ctx.Device.GraphicsCommandPool)
			}
		}
		ctx.GraphicsCommandBuffers = nil

		if ctx.Swapchain != nil {
			for _, fb := range ctx.Swapchain.Framebuffers {
				if fb != nil {
					fb.Destroy(ctx)
				}
			}
			ctx.Swapchain.Framebuffers = nil
		}
		if ctx.MainRenderpass != nil {
			ctx.MainRenderpass.Destroy(ctx)
			ctx.MainRenderpass = nil
		}
		if ctx.Swapchain != nil {
			ctx.Swapchain.Destroy(ctx)
			ctx.Swapchain = nil
		}
	}
	if ctx.Device != nil {
		DeviceDestroy(ctx)
		ctx.Device = nil
	}
	if ctx.Surface != nil {
		vk.DestroySurface(ctx.Instance, ctx.Surface, ctx.Allocator)
		ctx.Surface = nil
	}
	if ctx.debugCallback != nil {
		vk.DestroyDebugReportCallback(ctx.Instance, ctx.debugCallback, ctx.Allocator)
		ctx.debugCallback = nil
	}
	if ctx.Instance != nil {
		vk.DestroyInstance(ctx.Instance, ctx.Allocator)
		ctx.Instance = nil
	}
	return nil
}
