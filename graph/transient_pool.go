package graph

import (
	vk "github.com/vulkan-go/vulkan"

	rendervk "github.com/andewx/rendergraph"
)

// TransientPool allocates and owns every offscreen color target a
// compiled graph uses: image, view, sampler and framebuffer, built
// against the render context's transient-targeting render pass and a
// shared depth view so transients stay framebuffer-compatible with the
// swapchain's own targets.
type TransientPool struct {
	device     vk.Device
	renderPass vk.RenderPass
	targets    map[TransientHandle]*TransientTarget
}

func NewTransientPool(device vk.Device, transientRenderPass vk.RenderPass) *TransientPool {
	return &TransientPool{
		device:     device,
		renderPass: transientRenderPass,
		targets:    make(map[TransientHandle]*TransientTarget),
	}
}

// Create realizes decl: a device image with its declared usage plus
// SAMPLED (so a later pass can bind it), a matching 2D color view, a
// default linear/clamp-to-edge sampler, and a framebuffer attaching
// [own_view, depthView].
func (p *TransientPool) Create(memProps vk.PhysicalDeviceMemoryProperties, handle TransientHandle, decl TransientTargetDecl, depthView vk.ImageView) (*TransientTarget, error) {
	usage := decl.Usage | vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit) | vk.ImageUsageFlags(vk.ImageUsageSampledBit)

	image, err := rendervk.CreateImage(p.device, memProps, rendervk.ImageOptions{
		Extent: vk.Extent2D{Width: decl.Width, Height: decl.Height},
		Format: decl.Format,
		Usage:  usage,
		Aspect: vk.ImageAspectFlags(vk.ImageAspectColorBit),
	})
	if err != nil {
		return nil, err
	}

	var sampler vk.Sampler
	ret := vk.CreateSampler(p.device, &vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               vk.FilterLinear,
		MinFilter:               vk.FilterLinear,
		MipmapMode:              vk.SamplerMipmapModeLinear,
		AddressModeU:            vk.SamplerAddressModeClampToEdge,
		AddressModeV:            vk.SamplerAddressModeClampToEdge,
		AddressModeW:            vk.SamplerAddressModeClampToEdge,
		MaxAnisotropy:           1.0,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		CompareOp:               vk.CompareOpAlways,
		MaxLod:                  0,
	}, nil, &sampler)
	if err := rendervk.NewError(ret); err != nil {
		image.Destroy(p.device)
		return nil, err
	}

	attachments := []vk.ImageView{image.View, depthView}
	var framebuffer vk.Framebuffer
	ret = vk.CreateFramebuffer(p.device, &vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      p.renderPass,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		Width:           decl.Width,
		Height:          decl.Height,
		Layers:          1,
	}, nil, &framebuffer)
	if err := rendervk.NewError(ret); err != nil {
		vk.DestroySampler(p.device, sampler, nil)
		image.Destroy(p.device)
		return nil, err
	}

	target := &TransientTarget{
		Decl:        decl,
		Image:       image.Handle,
		Memory:      image.Memory,
		View:        image.View,
		Sampler:     sampler,
		Framebuffer: framebuffer,
	}
	p.targets[handle] = target
	return target, nil
}

func (p *TransientPool) Get(handle TransientHandle) (*TransientTarget, bool) {
	t, ok := p.targets[handle]
	return t, ok
}

// All returns every realized transient, keyed by handle.
func (p *TransientPool) All() map[TransientHandle]*TransientTarget {
	return p.targets
}

// DestroyAll releases every transient this pool has allocated, in
// reverse-creation order within each target (framebuffer, sampler,
// image/view/memory), then clears the pool.
func (p *TransientPool) DestroyAll() {
	for _, t := range p.targets {
		vk.DestroyFramebuffer(p.device, t.Framebuffer, nil)
		vk.DestroySampler(p.device, t.Sampler, nil)
		vk.DestroyImageView(p.device, t.View, nil)
		vk.DestroyImage(p.device, t.Image, nil)
		vk.FreeMemory(p.device, t.Memory, nil)
	}
	p.targets = make(map[TransientHandle]*TransientTarget)
}
