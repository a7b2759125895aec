//go:build vulkan

package vulkan

import (
	stdmath "math"

	vk "github.com/goki/vulkan"
	"github.com/rotisserie/eris"

	"github.com/spaghettifunk/eae6320/engine/math"
)

type VulkanSwapchain struct {
	ImageFormat       vk.SurfaceFormat
	MaxFramesInFlight uint8
	Handle            vk.Swapchain
	Extent            vk.Extent2D
	ImageCount        uint32
	Images            []vk.Image
	Views             []vk.ImageView

	// framebuffers used for on-screen rendering.
	Framebuffers []*VulkanFramebuffer
}

type VulkanSwapchainSupportInfo struct {
	Capabilities vk.SurfaceCapabilities
	Formats      []vk.SurfaceFormat
	PresentModes []vk.PresentMode
}

const maxFramesInFlight = 2

func SwapchainCreate(context *VulkanContext, width, height uint32) (*VulkanSwapchain, error) {
	support := context.Device.SwapchainSupport
	if len(support.Formats) == 0 {
		return nil, eris.New("the surface reports no formats")
	}

	swapchain := &VulkanSwapchain{
		MaxFramesInFlight: maxFramesInFlight,
		ImageFormat:       support.Formats[0],
	}

	// Choose a swap surface format.
	for _, format := range support.Formats {
		// Preferred formats
		if format.Format == vk.FormatB8g8r8a8Unorm && format.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			swapchain.ImageFormat = format
			break
		}
	}

	// FIFO is always available, and there is no frame pacing besides vsync.
	presentMode := vk.PresentModeFifo

	// Swapchain extent
	extent := vk.Extent2D{Width: width, Height: height}
	caps := support.Capabilities
	if caps.CurrentExtent.Width != stdmath.MaxUint32 {
		extent = caps.CurrentExtent
	}

	// Clamp to the value allowed by the GPU.
	extent.Width = math.Clamp(extent.Width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width)
	extent.Height = math.Clamp(extent.Height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height)
	swapchain.Extent = extent

	imageCount := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && imageCount > caps.MaxImageCount {
		imageCount = caps.MaxImageCount
	}

	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          context.Surface,
		MinImageCount:    imageCount,
		ImageFormat:      swapchain.ImageFormat.Format,
		ImageColorSpace:  swapchain.ImageFormat.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      presentMode,
		Clipped:          vk.True,
	}

	// Setup the queue family indices
	if context.Device.GraphicsQueueIndex != context.Device.PresentQueueIndex {
		createInfo.ImageSharingMode = vk.SharingModeConcurrent
		createInfo.QueueFamilyIndexCount = 2
		createInfo.PQueueFamilyIndices = []uint32{
			uint32(context.Device.GraphicsQueueIndex),
			uint32(context.Device.PresentQueueIndex),
		}
	} else {
		createInfo.ImageSharingMode = vk.SharingModeExclusive
	}

	var handle vk.Swapchain
	if err := resultError(vk.CreateSwapchain(context.Device.LogicalDevice, &createInfo, context.Allocator, &handle), "vkCreateSwapchainKHR"); err != nil {
		return nil, err
	}
	swapchain.Handle = handle

	// Start with a zero frame index.
	context.CurrentFrame = 0

	// Images
	if err := resultError(vk.GetSwapchainImages(context.Device.LogicalDevice, swapchain.Handle, &swapchain.ImageCount, nil), "vkGetSwapchainImagesKHR"); err != nil {
		swapchain.Destroy(context)
		return nil, err
	}
	swapchain.Images = make([]vk.Image, swapchain.ImageCount)
	if err := resultError(vk.GetSwapchainImages(context.Device.LogicalDevice, swapchain.Handle, &swapchain.ImageCount, swapchain.Images), "vkGetSwapchainImagesKHR"); err != nil {
		swapchain.Destroy(context)
		return nil, err
	}

	// Views
	swapchain.Views = make([]vk.ImageView, swapchain.ImageCount)
	for i := range swapchain.Images {
		viewInfo := vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    swapchain.Images[i],
			ViewType: vk.ImageViewType2d,
			Format:   swapchain.ImageFormat.Format,
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
		}
		if err := resultError(vk.CreateImageView(context.Device.LogicalDevice, &viewInfo, context.Allocator, &swapchain.Views[i]), "vkCreateImageView"); err != nil {
			swapchain.Destroy(context)
			return nil, err
		}
	}

	context.Logger.Info("Swapchain created with %d images at %dx%d.", swapchain.ImageCount, extent.Width, extent.Height)
	return swapchain, nil
}

// AcquireNextImageIndex returns the index of the image to draw into. The
// semaphore is signaled once the image is actually available.
func (vs *VulkanSwapchain) AcquireNextImageIndex(context *VulkanContext, timeoutNs uint64, imageAvailableSemaphore vk.Semaphore) (uint32, error) {
	var imageIndex uint32
	result := vk.AcquireNextImage(context.Device.LogicalDevice, vs.Handle, timeoutNs, imageAvailableSemaphore, nil, &imageIndex)
	if result != vk.Success && result != vk.Suboptimal {
		return 0, resultError(result, "vkAcquireNextImageKHR")
	}
	return imageIndex, nil
}

func (vs *VulkanSwapchain) Present(context *VulkanContext, presentQueue vk.Queue, renderCompleteSemaphore vk.Semaphore, imageIndex uint32) error {
	// Return the image to the swapchain for presentation.
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{renderCompleteSemaphore},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{vs.Handle},
		PImageIndices:      []uint32{imageIndex},
	}

	// Increment (and loop) the index.
	context.CurrentFrame = (context.CurrentFrame + 1) % uint32(vs.MaxFramesInFlight)

	result := vk.QueuePresent(presentQueue, &presentInfo)
	if result != vk.Success && result != vk.Suboptimal {
		return resultError(result, "vkQueuePresentKHR")
	}
	return nil
}

func (vs *VulkanSwapchain) Destroy(context *VulkanContext) {
	// Only destroy the views, not the images, since those are owned by the swapchain and are thus
	// destroyed when it is.
	for i := range vs.Views {
		if vs.Views[i] != nil {
			vk.DestroyImageView(context.Device.LogicalDevice, vs.Views[i], context.Allocator)
			vs.Views[i] = nil
		}
	}
	vs.Views = nil
	vs.Images = nil

	if vs.Handle != nil {
		vk.DestroySwapchain(context.Device.LogicalDevice, vs.Handle, context.Allocator)
		vs.Handle = nil
	}
}
