package rendervk

import (
	vk "github.com/vulkan-go/vulkan"
)

// RenderPassPair holds the two render pass objects the graph package needs
// to keep a single pipeline/framebuffer family compatible across both
// swapchain-targeting and transient-targeting passes: Vulkan render pass
// compatibility only requires matching attachment format/sample-count, so
// the pair differs solely in the color attachment's FinalLayout.
type RenderPassPair struct {
	// Swapchain is used by passes whose render target is a swapchain
	// image; its color attachment ends in PresentSrcKhr.
	Swapchain vk.RenderPass
	// Transient is used by passes whose render target is an offscreen
	// TransientPool image later sampled by another pass; its color
	// attachment ends in ColorAttachmentOptimal, and the caller is
	// responsible for the explicit barrier to ShaderReadOnlyOptimal
	// once the pass's command buffer work for that image is recorded.
	Transient vk.RenderPass
}

// CreateRenderPassPair builds both render pass variants against a single
// color format, depth format and sample count.
func CreateRenderPassPair(device vk.Device, colorFormat, depthFormat vk.Format) (*RenderPassPair, error) {
	swapchain, err := createRenderPass(device, colorFormat, depthFormat, vk.ImageLayoutPresentSrc)
	if err != nil {
		return nil, err
	}
	transient, err := createRenderPass(device, colorFormat, depthFormat, vk.ImageLayoutColorAttachmentOptimal)
	if err != nil {
		vk.DestroyRenderPass(device, swapchain, nil)
		return nil, err
	}
	return &RenderPassPair{Swapchain: swapchain, Transient: transient}, nil
}

func createRenderPass(device vk.Device, colorFormat, depthFormat vk.Format, colorFinalLayout vk.ImageLayout) (vk.RenderPass, error) {
	attachments := []vk.AttachmentDescription{
		{
			Format:         colorFormat,
			Samples:        vk.SampleCount1Bit,
			LoadOp:         vk.AttachmentLoadOpClear,
			StoreOp:        vk.AttachmentStoreOpStore,
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  vk.ImageLayoutUndefined,
			FinalLayout:    colorFinalLayout,
		},
		{
			Format:         depthFormat,
			Samples:        vk.SampleCount1Bit,
			LoadOp:         vk.AttachmentLoadOpClear,
			StoreOp:        vk.AttachmentStoreOpDontCare,
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  vk.ImageLayoutUndefined,
			FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
		},
	}

	colorRef := []vk.AttachmentReference{{Attachment: 0, Layout: vk.ImageLayoutColorAttachmentOptimal}}
	depthRef := vk.AttachmentReference{Attachment: 1, Layout: vk.ImageLayoutDepthStencilAttachmentOptimal}

	subpasses := []vk.SubpassDescription{
		{
			PipelineBindPoint:       vk.PipelineBindPointGraphics,
			ColorAttachmentCount:    1,
			PColorAttachments:       colorRef,
			PDepthStencilAttachment: &depthRef,
		},
	}

	dependencies := []vk.SubpassDependency{
		{
			SrcSubpass:    vk.SubpassExternal,
			DstSubpass:    0,
			SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit),
			DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
			SrcAccessMask: vk.AccessFlags(vk.AccessMemoryReadBit),
			DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentReadBit) | vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
			DependencyFlags: vk.DependencyFlags(vk.DependencyByRegionBit),
		},
		{
			SrcSubpass:    0,
			DstSubpass:    vk.SubpassExternal,
			SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
			DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit),
			SrcAccessMask: vk.AccessFlags(vk.AccessColorAttachmentReadBit) | vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
			DstAccessMask: vk.AccessFlags(vk.AccessMemoryReadBit),
			DependencyFlags: vk.DependencyFlags(vk.DependencyByRegionBit),
		},
	}

	var pass vk.RenderPass
	ret := vk.CreateRenderPass(device, &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    uint32(len(subpasses)),
		PSubpasses:      subpasses,
		DependencyCount: uint32(len(dependencies)),
		PDependencies:   dependencies,
	}, nil, &pass)
	if err := NewError(ret); err != nil {
		return vk.NullRenderPass, err
	}
	return pass, nil
}
