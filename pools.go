package rendervk

import vk "github.com/vulkan-go/vulkan"

// CommandPool wraps a single reset-enabled command pool bound to one queue
// family.
type CommandPool struct {
	Handle vk.CommandPool
}

func NewCommandPool(device vk.Device, familyIndex uint32) (*CommandPool, error) {
	var handle vk.CommandPool
	ret := vk.CreateCommandPool(device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: familyIndex,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}, nil, &handle)
	if err := NewError(ret); err != nil {
		return nil, err
	}
	return &CommandPool{Handle: handle}, nil
}

func (c *CommandPool) Destroy(device vk.Device) {
	vk.DestroyCommandPool(device, c.Handle, nil)
}

// NewDescriptorPool sizes a single shared descriptor pool from usage's
// DescriptorPool* knobs, matching the fixed-budget pool model the
// DescriptorResolver allocates every descriptor set from.
func NewDescriptorPool(device vk.Device, usage *Usage) (vk.DescriptorPool, error) {
	sizes := []vk.DescriptorPoolSize{
		{Type: vk.DescriptorTypeSampler, DescriptorCount: uint32(usage.Int_props["DescriptorPoolSampler"])},
		{Type: vk.DescriptorTypeCombinedImageSampler, DescriptorCount: uint32(usage.Int_props["DescriptorPoolCombinedImageSampler"])},
		{Type: vk.DescriptorTypeUniformBuffer, DescriptorCount: uint32(usage.Int_props["DescriptorPoolUniformBuffer"])},
		{Type: vk.DescriptorTypeStorageBuffer, DescriptorCount: uint32(usage.Int_props["DescriptorPoolStorageBuffer"])},
		{Type: vk.DescriptorTypeStorageImage, DescriptorCount: uint32(usage.Int_props["DescriptorPoolStorageImage"])},
	}

	var pool vk.DescriptorPool
	ret := vk.CreateDescriptorPool(device, &vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		Flags:         vk.DescriptorPoolCreateFlags(vk.DescriptorPoolCreateFreeDescriptorSetBit),
		MaxSets:       uint32(usage.Int_props["DescriptorPoolMaxSets"]),
		PoolSizeCount: uint32(len(sizes)),
		PPoolSizes:    sizes,
	}, nil, &pool)
	if err := NewError(ret); err != nil {
		return vk.NullDescriptorPool, err
	}
	return pool, nil
}
