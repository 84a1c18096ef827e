package graph

import (
	vk "github.com/vulkan-go/vulkan"

	rendervk "github.com/andewx/rendergraph"
)

// FrameSync is one in-flight-frame sync triple. Its fence starts
// SIGNALED so the first acquire for each slot never blocks on a
// submission that never happened.
type FrameSync struct {
	ImageAvailable vk.Semaphore
	RenderFinished vk.Semaphore
	InFlight       vk.Fence
}

// NewFrameSyncs builds count FrameSync triples.
func NewFrameSyncs(device vk.Device, count int) ([]FrameSync, error) {
	syncs := make([]FrameSync, count)
	for i := 0; i < count; i++ {
		var imageAvailable, renderFinished vk.Semaphore
		if err := rendervk.NewError(vk.CreateSemaphore(device, &vk.SemaphoreCreateInfo{
			SType: vk.StructureTypeSemaphoreCreateInfo,
		}, nil, &imageAvailable)); err != nil {
			destroyFrameSyncs(device, syncs[:i])
			return nil, err
		}
		if err := rendervk.NewError(vk.CreateSemaphore(device, &vk.SemaphoreCreateInfo{
			SType: vk.StructureTypeSemaphoreCreateInfo,
		}, nil, &renderFinished)); err != nil {
			vk.DestroySemaphore(device, imageAvailable, nil)
			destroyFrameSyncs(device, syncs[:i])
			return nil, err
		}
		var fence vk.Fence
		if err := rendervk.NewError(vk.CreateFence(device, &vk.FenceCreateInfo{
			SType: vk.StructureTypeFenceCreateInfo,
			Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
		}, nil, &fence)); err != nil {
			vk.DestroySemaphore(device, imageAvailable, nil)
			vk.DestroySemaphore(device, renderFinished, nil)
			destroyFrameSyncs(device, syncs[:i])
			return nil, err
		}
		syncs[i] = FrameSync{ImageAvailable: imageAvailable, RenderFinished: renderFinished, InFlight: fence}
	}
	return syncs, nil
}

func destroyFrameSyncs(device vk.Device, syncs []FrameSync) {
	for _, s := range syncs {
		if s.ImageAvailable != vk.NullSemaphore {
			vk.DestroySemaphore(device, s.ImageAvailable, nil)
		}
		if s.RenderFinished != vk.NullSemaphore {
			vk.DestroySemaphore(device, s.RenderFinished, nil)
		}
		if s.InFlight != vk.NullFence {
			vk.DestroyFence(device, s.InFlight, nil)
		}
	}
}
