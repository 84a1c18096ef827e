package graph

import (
	vk "github.com/vulkan-go/vulkan"

	rendervk "github.com/andewx/rendergraph"
)

const acquireTimeout = vk.MaxUint64

// SwapchainFrames wraps a rendervk.Swapchain and its per-in-flight-frame
// FrameSync triples, and carries the current-frame cursor Graph.Execute
// advances every call. Resize preserves frame_syncs and the command pool
// untouched, rebuilding only the swapchain, its views, depth image and
// framebuffers.
type SwapchainFrames struct {
	ctx            *rendervk.RenderContext
	Swapchain      *rendervk.Swapchain
	syncs          []FrameSync
	imagesInFlight []vk.Fence
	currentFrame   int
}

// NewSwapchainFrames builds the swapchain and one FrameSync per image.
func NewSwapchainFrames(ctx *rendervk.RenderContext, desiredImages int) (*SwapchainFrames, error) {
	swapchain, err := rendervk.CreateSwapchain(ctx.Device, ctx.Display, ctx.RenderPasses, desiredImages, vk.NullSwapchain)
	if err != nil {
		return nil, err
	}
	syncs, err := NewFrameSyncs(ctx.Device.Handle, len(swapchain.Images))
	if err != nil {
		swapchain.Destroy(ctx.Device.Handle)
		return nil, err
	}
	return &SwapchainFrames{
		ctx:            ctx,
		Swapchain:      swapchain,
		syncs:          syncs,
		imagesInFlight: make([]vk.Fence, len(swapchain.Images)),
	}, nil
}

// CurrentSync returns the FrameSync triple for the current frame slot.
func (f *SwapchainFrames) CurrentSync() FrameSync {
	return f.syncs[f.currentFrame]
}

// AcquireNext waits on the current slot's in-flight fence, acquires the
// next swapchain image, then waits on whichever fence last used that image
// (if any). A NeedsRecreate status means the caller must
// run Recreate and retry the frame; no image index is valid in that case.
func (f *SwapchainFrames) AcquireNext() (uint32, ExecuteStatus, error) {
	sync := f.syncs[f.currentFrame]
	device := f.ctx.Device.Handle

	fences := []vk.Fence{sync.InFlight}
	if ret := vk.WaitForFences(device, 1, fences, vk.True, acquireTimeout); rendervk.NewError(ret) != nil {
		return 0, Timeout, &ExecuteError{Status: Timeout, Err: rendervk.NewError(ret)}
	}

	var imageIndex uint32
	ret := vk.AcquireNextImage(device, f.Swapchain.Handle, acquireTimeout, sync.ImageAvailable, vk.NullFence, &imageIndex)
	switch ret {
	case vk.Success:
	case vk.Suboptimal, vk.ErrorOutOfDate:
		return 0, NeedsRecreate, &ExecuteError{Status: NeedsRecreate}
	default:
		if err := rendervk.NewError(ret); err != nil {
			return 0, DeviceLost, &ExecuteError{Status: DeviceLost, Err: err}
		}
	}

	if f.imagesInFlight[imageIndex] != vk.NullFence {
		inUse := []vk.Fence{f.imagesInFlight[imageIndex]}
		vk.WaitForFences(device, 1, inUse, vk.True, acquireTimeout)
	}
	f.imagesInFlight[imageIndex] = sync.InFlight

	vk.ResetFences(device, 1, fences)
	return imageIndex, Presented, nil
}

// Present submits the present request for imageIndex, waiting on
// waitSemaphore (normally the current frame's RenderFinished semaphore),
// then advances the frame cursor.
func (f *SwapchainFrames) Present(queue vk.Queue, imageIndex uint32, waitSemaphore vk.Semaphore) (ExecuteStatus, error) {
	defer func() { f.currentFrame = (f.currentFrame + 1) % len(f.syncs) }()

	swapchains := []vk.Swapchain{f.Swapchain.Handle}
	indices := []uint32{imageIndex}
	waits := []vk.Semaphore{waitSemaphore}

	results := make([]vk.Result, 1)
	ret := vk.QueuePresent(queue, &vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: uint32(len(waits)),
		PWaitSemaphores:    waits,
		SwapchainCount:     uint32(len(swapchains)),
		PSwapchains:        swapchains,
		PImageIndices:      indices,
		PResults:           results,
	})
	switch ret {
	case vk.Success:
		return Presented, nil
	case vk.Suboptimal, vk.ErrorOutOfDate:
		return NeedsRecreate, &ExecuteError{Status: NeedsRecreate}
	default:
		if err := rendervk.NewError(ret); err != nil {
			return DeviceLost, &ExecuteError{Status: DeviceLost, Err: err}
		}
		return Presented, nil
	}
}

// Recreate waits for the device to idle, tears down the old swapchain's
// framebuffers/views/depth image, then rebuilds at the display's current
// extent using the old handle as OldSwapchain. frame_syncs and the
// command pool are left untouched.
func (f *SwapchainFrames) Recreate() error {
	device := f.ctx.Device.Handle
	vk.DeviceWaitIdle(device)

	old := f.Swapchain
	oldHandle := old.Handle
	old.Destroy(device)

	swapchain, err := rendervk.CreateSwapchain(f.ctx.Device, f.ctx.Display, f.ctx.RenderPasses, len(f.syncs), oldHandle)
	if err != nil {
		return err
	}
	f.Swapchain = swapchain
	f.imagesInFlight = make([]vk.Fence, len(swapchain.Images))
	return nil
}

// Destroy releases the swapchain and every frame_sync triple.
func (f *SwapchainFrames) Destroy() {
	device := f.ctx.Device.Handle
	destroyFrameSyncs(device, f.syncs)
	f.Swapchain.Destroy(device)
	vk.DestroySwapchain(device, f.Swapchain.Handle, nil)
}
