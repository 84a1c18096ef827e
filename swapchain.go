package rendervk

import vk "github.com/vulkan-go/vulkan"

// Swapchain owns the presentable images, their views, a shared depth
// buffer and one framebuffer per image, built against the render pass
// pair's swapchain-targeting variant.
type Swapchain struct {
	Handle       vk.Swapchain
	Extent       vk.Extent2D
	Images       []vk.Image
	ImageViews   []vk.ImageView
	Framebuffers []vk.Framebuffer
	DepthImage   *Image
}

// SelectSurfaceFormat picks the surface's first reported format, matching
// the common fallback to a packed sRGBA format when the surface reports
// no preference.
func SelectSurfaceFormat(physical vk.PhysicalDevice, surface vk.Surface) (vk.SurfaceFormat, error) {
	var count uint32
	vk.GetPhysicalDeviceSurfaceFormats(physical, surface, &count, nil)
	if count == 0 {
		return vk.SurfaceFormat{}, &VkError{Result: vk.ErrorFormatNotSupported}
	}
	formats := make([]vk.SurfaceFormat, count)
	vk.GetPhysicalDeviceSurfaceFormats(physical, surface, &count, formats)
	formats[0].Deref()
	if formats[0].Format == vk.FormatUndefined {
		return vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: formats[0].ColorSpace}, nil
	}
	return formats[0], nil
}

var depthFormatCandidates = []vk.Format{
	vk.FormatD32SfloatS8Uint,
	vk.FormatD32Sfloat,
	vk.FormatD24UnormS8Uint,
	vk.FormatD16UnormS8Uint,
	vk.FormatD16Unorm,
}

// SelectDepthFormat queries depthFormatCandidates in precision order and
// returns the first one the physical device supports as an optimally
// tiled depth/stencil attachment.
func SelectDepthFormat(physical vk.PhysicalDevice) (vk.Format, error) {
	for _, format := range depthFormatCandidates {
		var props vk.FormatProperties
		vk.GetPhysicalDeviceFormatProperties(physical, format, &props)
		props.Deref()
		if props.OptimalTilingFeatures&vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit) != 0 {
			return format, nil
		}
	}
	return vk.FormatUndefined, &VkError{Result: vk.ErrorFormatNotSupported}
}

// CreateSwapchain builds a new swapchain for display, requesting
// desiredImages images clamped to the surface's supported minimum and
// maximum image counts, tearing down old (if not vk.NullSwapchain) only
// after the replacement is created, matching Vulkan's recommended resize
// sequence.
func CreateSwapchain(device *Device, display *Display, pass *RenderPassPair, desiredImages int, old vk.Swapchain) (*Swapchain, error) {
	var capabilities vk.SurfaceCapabilities
	vk.GetPhysicalDeviceSurfaceCapabilities(device.Physical, display.Surface, &capabilities)
	capabilities.Deref()
	capabilities.CurrentExtent.Deref()

	extent := capabilities.CurrentExtent
	if extent.Width == vk.MaxUint32 {
		return nil, &VkError{Result: vk.ErrorInitializationFailed}
	}

	imageCount := uint32(desiredImages)
	if capabilities.MaxImageCount > 0 && imageCount > capabilities.MaxImageCount {
		imageCount = capabilities.MaxImageCount
	} else if imageCount < capabilities.MinImageCount {
		imageCount = capabilities.MinImageCount
	}

	preTransform := capabilities.CurrentTransform
	if capabilities.SupportedTransforms&vk.SurfaceTransformFlags(vk.SurfaceTransformIdentityBit) != 0 {
		preTransform = vk.SurfaceTransformIdentityBit
	}

	compositeAlpha := vk.CompositeAlphaOpaqueBit
	for _, candidate := range []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	} {
		if capabilities.SupportedCompositeAlpha&vk.CompositeAlphaFlags(candidate) != 0 {
			compositeAlpha = candidate
			break
		}
	}

	var handle vk.Swapchain
	ret := vk.CreateSwapchain(device.Handle, &vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          display.Surface,
		MinImageCount:    imageCount,
		ImageFormat:      display.SurfaceFormat.Format,
		ImageColorSpace:  display.SurfaceFormat.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     preTransform,
		CompositeAlpha:   compositeAlpha,
		PresentMode:      vk.PresentModeFifo,
		OldSwapchain:     old,
		Clipped:          vk.True,
	}, nil, &handle)
	if err := NewError(ret); err != nil {
		return nil, err
	}

	if old != vk.NullSwapchain {
		vk.DestroySwapchain(device.Handle, old, nil)
	}

	var count uint32
	vk.GetSwapchainImages(device.Handle, handle, &count, nil)
	images := make([]vk.Image, count)
	vk.GetSwapchainImages(device.Handle, handle, &count, images)

	views := make([]vk.ImageView, count)
	for i, image := range images {
		ret := vk.CreateImageView(device.Handle, &vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    image,
			ViewType: vk.ImageViewType2d,
			Format:   display.SurfaceFormat.Format,
			Components: vk.ComponentMapping{
				R: vk.ComponentSwizzleIdentity,
				G: vk.ComponentSwizzleIdentity,
				B: vk.ComponentSwizzleIdentity,
				A: vk.ComponentSwizzleIdentity,
			},
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: 1,
				LayerCount: 1,
			},
		}, nil, &views[i])
		if err := NewError(ret); err != nil {
			return nil, err
		}
	}

	depthImage, err := CreateImage(device.Handle, device.MemoryProps, ImageOptions{
		Extent: extent,
		Format: display.DepthFormat,
		Usage:  vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		Aspect: vk.ImageAspectFlags(vk.ImageAspectDepthBit),
	})
	if err != nil {
		return nil, err
	}

	framebuffers := make([]vk.Framebuffer, count)
	for i, view := range views {
		attachments := []vk.ImageView{view, depthImage.View}
		ret := vk.CreateFramebuffer(device.Handle, &vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      pass.Swapchain,
			AttachmentCount: uint32(len(attachments)),
			PAttachments:    attachments,
			Width:           extent.Width,
			Height:          extent.Height,
			Layers:          1,
		}, nil, &framebuffers[i])
		if err := NewError(ret); err != nil {
			return nil, err
		}
	}

	return &Swapchain{
		Handle:       handle,
		Extent:       extent,
		Images:       images,
		ImageViews:   views,
		Framebuffers: framebuffers,
		DepthImage:   depthImage,
	}, nil
}

// Destroy tears down everything but the swapchain handle itself, which the
// caller either reuses as OldSwapchain for CreateSwapchain or destroys
// directly when shutting down for good.
func (s *Swapchain) Destroy(device vk.Device) {
	for _, fb := range s.Framebuffers {
		vk.DestroyFramebuffer(device, fb, nil)
	}
	for _, view := range s.ImageViews {
		vk.DestroyImageView(device, view, nil)
	}
	if s.DepthImage != nil {
		s.DepthImage.Destroy(device)
	}
}
