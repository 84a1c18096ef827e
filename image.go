package rendervk

import vk "github.com/vulkan-go/vulkan"

// Image bundles the three Vulkan objects every offscreen render target or
// imported texture needs: the image itself, its backing device memory, and
// a view into it.
type Image struct {
	Handle vk.Image
	Memory vk.DeviceMemory
	View   vk.ImageView
	Format vk.Format
	Extent vk.Extent2D
}

// ImageOptions describes the image CreateImage should allocate. Samples
// defaults to vk.SampleCount1Bit when left zero.
type ImageOptions struct {
	Extent  vk.Extent2D
	Format  vk.Format
	Usage   vk.ImageUsageFlags
	Aspect  vk.ImageAspectFlags
	Samples vk.SampleCountFlagBits
}

// CreateImage allocates a 2D image, binds device-local memory to it and
// creates a matching 2D view, the shape every TransientPool color/depth
// target and every imported asset texture needs.
func CreateImage(device vk.Device, memProps vk.PhysicalDeviceMemoryProperties, opts ImageOptions) (*Image, error) {
	samples := opts.Samples
	if samples == 0 {
		samples = vk.SampleCount1Bit
	}

	var handle vk.Image
	ret := vk.CreateImage(device, &vk.ImageCreateInfo{
		SType:       vk.StructureTypeImageCreateInfo,
		ImageType:   vk.ImageType2d,
		Format:      opts.Format,
		Extent:      vk.Extent3D{Width: opts.Extent.Width, Height: opts.Extent.Height, Depth: 1},
		MipLevels:   1,
		ArrayLayers: 1,
		Samples:     samples,
		Tiling:      vk.ImageTilingOptimal,
		Usage:       opts.Usage,
		SharingMode: vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}, nil, &handle)
	if err := NewError(ret); err != nil {
		return nil, err
	}

	var requirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(device, handle, &requirements)
	requirements.Deref()

	typeIndex, ok := FindRequiredMemoryTypeFallback(memProps,
		vk.MemoryPropertyFlagBits(requirements.MemoryTypeBits), vk.MemoryPropertyFlagBits(vk.MemoryPropertyDeviceLocalBit))
	if !ok {
		vk.DestroyImage(device, handle, nil)
		return nil, &VkError{Result: vk.ErrorFeatureNotPresent}
	}

	var memory vk.DeviceMemory
	ret = vk.AllocateMemory(device, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: typeIndex,
	}, nil, &memory)
	if err := NewError(ret); err != nil {
		vk.DestroyImage(device, handle, nil)
		return nil, err
	}

	if err := NewError(vk.BindImageMemory(device, handle, memory, 0)); err != nil {
		vk.FreeMemory(device, memory, nil)
		vk.DestroyImage(device, handle, nil)
		return nil, err
	}

	var view vk.ImageView
	ret = vk.CreateImageView(device, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    handle,
		ViewType: vk.ImageViewType2d,
		Format:   opts.Format,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     opts.Aspect,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}, nil, &view)
	if err := NewError(ret); err != nil {
		vk.FreeMemory(device, memory, nil)
		vk.DestroyImage(device, handle, nil)
		return nil, err
	}

	return &Image{Handle: handle, Memory: memory, View: view, Format: opts.Format, Extent: opts.Extent}, nil
}

func (i *Image) Destroy(device vk.Device) {
	vk.DestroyImageView(device, i.View, nil)
	vk.DestroyImage(device, i.Handle, nil)
	vk.FreeMemory(device, i.Memory, nil)
}
