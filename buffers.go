package rendervk

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// Buffer wraps a vk.Buffer and the device memory bound to it.
type Buffer struct {
	Handle vk.Buffer
	Memory vk.DeviceMemory
	Size   vk.DeviceSize
}

// CreateBuffer allocates a buffer of usage/size and binds memory satisfying
// properties to it, the constructor asset-import vertex/index buffers go
// through.
func CreateBuffer(device vk.Device, memProps vk.PhysicalDeviceMemoryProperties, size vk.DeviceSize, usage vk.BufferUsageFlags, properties vk.MemoryPropertyFlagBits) (*Buffer, error) {
	var handle vk.Buffer
	ret := vk.CreateBuffer(device, &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}, nil, &handle)
	if err := NewError(ret); err != nil {
		return nil, err
	}

	var requirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(device, handle, &requirements)
	requirements.Deref()

	typeIndex, ok := FindRequiredMemoryTypeFallback(memProps, vk.MemoryPropertyFlagBits(requirements.MemoryTypeBits), properties)
	if !ok {
		vk.DestroyBuffer(device, handle, nil)
		return nil, &VkError{Result: vk.ErrorFeatureNotPresent}
	}

	var memory vk.DeviceMemory
	ret = vk.AllocateMemory(device, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: typeIndex,
	}, nil, &memory)
	if err := NewError(ret); err != nil {
		vk.DestroyBuffer(device, handle, nil)
		return nil, err
	}

	if err := NewError(vk.BindBufferMemory(device, handle, memory, 0)); err != nil {
		vk.FreeMemory(device, memory, nil)
		vk.DestroyBuffer(device, handle, nil)
		return nil, err
	}

	return &Buffer{Handle: handle, Memory: memory, Size: size}, nil
}

// Upload maps the buffer's memory, copies data into it and unmaps,
// intended for host-visible staging and uniform buffers only.
func (b *Buffer) Upload(device vk.Device, data []byte) error {
	var mapped unsafe.Pointer
	ret := vk.MapMemory(device, b.Memory, 0, b.Size, 0, &mapped)
	if err := NewError(ret); err != nil {
		return err
	}
	dst := unsafe.Slice((*byte)(mapped), len(data))
	copy(dst, data)
	vk.UnmapMemory(device, b.Memory)
	return nil
}

func (b *Buffer) Destroy(device vk.Device) {
	vk.DestroyBuffer(device, b.Handle, nil)
	vk.FreeMemory(device, b.Memory, nil)
}
