package graph

import (
	vk "github.com/vulkan-go/vulkan"

	rendervk "github.com/andewx/rendergraph"
)

// SceneProvider is the only thing Graph.Execute asks of the caller's scene
// collaborator: a name-keyed lookup of the renderables each pass should
// draw this frame. A pass whose name has no entry draws nothing. Ordering,
// culling and transform resolution within a pass's list are the scene
// package's concern, not the graph's.
type SceneProvider interface {
	Renderables() map[string][]Renderable
}

// CompiledGraph is the output of GraphBuilder.Compile: a fixed, ordered
// list of passes plus the transient pool, descriptor resolver and swapchain
// frames it executes against. Every frame replays the same pass order; the
// only things that change are the acquired swapchain image and whatever
// the scene's Renderables() returns.
type CompiledGraph struct {
	ctx      *rendervk.RenderContext
	frames   *SwapchainFrames
	pool     *TransientPool
	resolver *DescriptorResolver
	passes   []Pass
	edges    []BindEdge

	// commandBuffers[slot][pass] is permanently associated with that
	// (frame slot, pass) pair once allocated; each is individually
	// reset/begun/ended every frame, and a slot's full row is batched
	// into that frame's single QueueSubmit.
	commandBuffers [][]vk.CommandBuffer
}

// commandBuffersFor lazily allocates one primary command buffer per
// (frame slot, pass) pair, reused (not reallocated) across Execute calls.
func (g *CompiledGraph) commandBuffersFor(slotCount int) ([][]vk.CommandBuffer, error) {
	if len(g.commandBuffers) == slotCount {
		return g.commandBuffers, nil
	}
	passCount := len(g.passes)
	flat := make([]vk.CommandBuffer, slotCount*passCount)
	if len(flat) > 0 {
		ret := vk.AllocateCommandBuffers(g.ctx.Device.Handle, &vk.CommandBufferAllocateInfo{
			SType:              vk.StructureTypeCommandBufferAllocateInfo,
			CommandPool:        g.ctx.CommandPool.Handle,
			Level:              vk.CommandBufferLevelPrimary,
			CommandBufferCount: uint32(len(flat)),
		}, flat)
		if err := rendervk.NewError(ret); err != nil {
			return nil, err
		}
	}
	buffers := make([][]vk.CommandBuffer, slotCount)
	for i := range buffers {
		buffers[i] = flat[i*passCount : (i+1)*passCount]
	}
	g.commandBuffers = buffers
	return buffers, nil
}

var clearValues = []vk.ClearValue{
	vk.NewClearValue([]float32{5.0 / 255.0, 5.0 / 255.0, 5.0 / 255.0, 1}),
	vk.NewClearDepthStencil(1, 0),
}

// Execute runs one frame: acquire, record every pass in declaration order
// into its own command buffer, submit every pass's buffer for this frame
// in one QueueSubmit, present once. It never returns a plain error for a
// transient present failure — callers branch on the returned ExecuteStatus
// and run Resize themselves when it is NeedsRecreate.
func (g *CompiledGraph) Execute(scene SceneProvider) (ExecuteStatus, error) {
	imageIndex, status, err := g.frames.AcquireNext()
	if status != Presented {
		return status, err
	}

	buffers, err := g.commandBuffersFor(len(g.frames.syncs))
	if err != nil {
		return DeviceLost, err
	}
	slotBuffers := buffers[g.frames.currentFrame]

	renderables := scene.Renderables()

	for i := range g.passes {
		pass := &g.passes[i]
		cmd := slotBuffers[i]

		vk.ResetCommandBuffer(cmd, vk.CommandBufferResetFlags(vk.CommandBufferResetReleaseResourcesBit))
		if ret := vk.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{
			SType: vk.StructureTypeCommandBufferBeginInfo,
			Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
		}); rendervk.NewError(ret) != nil {
			return DeviceLost, rendervk.NewError(ret)
		}

		framebuffer, renderPass, extent := g.targetFor(pass.Target, imageIndex)

		vk.CmdBeginRenderPass(cmd, &vk.RenderPassBeginInfo{
			SType:           vk.StructureTypeRenderPassBeginInfo,
			RenderPass:      renderPass,
			Framebuffer:     framebuffer,
			RenderArea:      vk.Rect2D{Offset: vk.Offset2D{}, Extent: extent},
			ClearValueCount: uint32(len(clearValues)),
			PClearValues:    clearValues,
		}, vk.SubpassContentsInline)

		ctx := newPassContext(cmd, pass, extent.Width, extent.Height)
		ctx.BindPipeline()
		pass.Recorder(ctx, renderables[pass.Name])

		vk.CmdEndRenderPass(cmd)

		if pass.Target.Kind == TargetTransient {
			target, _ := g.pool.Get(pass.Target.Transient)
			vk.CmdPipelineBarrier(cmd,
				vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
				vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit),
				0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{{
					SType:               vk.StructureTypeImageMemoryBarrier,
					SrcAccessMask:       vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
					DstAccessMask:       vk.AccessFlags(vk.AccessShaderReadBit),
					OldLayout:           vk.ImageLayoutColorAttachmentOptimal,
					NewLayout:           vk.ImageLayoutShaderReadOnlyOptimal,
					SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
					DstQueueFamilyIndex: vk.QueueFamilyIgnored,
					Image:               target.Image,
					SubresourceRange: vk.ImageSubresourceRange{
						AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
						LevelCount: 1,
						LayerCount: 1,
					},
				}})
		}

		if ret := vk.EndCommandBuffer(cmd); rendervk.NewError(ret) != nil {
			return DeviceLost, rendervk.NewError(ret)
		}
	}

	sync := g.frames.CurrentSync()
	waitSemaphores := []vk.Semaphore{sync.ImageAvailable}
	waitStages := []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)}
	signalSemaphores := []vk.Semaphore{sync.RenderFinished}
	queue := g.ctx.GraphicsQueue

	ret := vk.QueueSubmit(queue, 1, []vk.SubmitInfo{{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   uint32(len(waitSemaphores)),
		PWaitSemaphores:      waitSemaphores,
		PWaitDstStageMask:    waitStages,
		CommandBufferCount:   uint32(len(slotBuffers)),
		PCommandBuffers:      slotBuffers,
		SignalSemaphoreCount: uint32(len(signalSemaphores)),
		PSignalSemaphores:    signalSemaphores,
	}}, sync.InFlight)
	if err := rendervk.NewError(ret); err != nil {
		return DeviceLost, err
	}

	return g.frames.Present(queue, imageIndex, sync.RenderFinished)
}

func (g *CompiledGraph) targetFor(target RenderTarget, imageIndex uint32) (vk.Framebuffer, vk.RenderPass, vk.Extent2D) {
	if target.Kind == TargetSwapchain {
		return g.frames.Swapchain.Framebuffers[imageIndex], g.ctx.RenderPasses.Swapchain, g.frames.Swapchain.Extent
	}
	t, _ := g.pool.Get(target.Transient)
	return t.Framebuffer, g.ctx.RenderPasses.Transient, vk.Extent2D{Width: t.Decl.Width, Height: t.Decl.Height}
}

// Resize runs the full resize protocol: device-wait-idle (inside
// frames.Recreate), swapchain/depth/framebuffer rebuild, then rebuilds
// every transient at its declared extent (transients are resolution-
// independent of the swapchain by declaration, but share the swapchain's
// depth view, which Recreate just replaced) and refreshes every descriptor
// write that pointed at them.
func (g *CompiledGraph) Resize() error {
	if err := g.frames.Recreate(); err != nil {
		return err
	}

	decls := make(map[TransientHandle]TransientTargetDecl)
	for handle, target := range g.pool.All() {
		decls[handle] = target.Decl
	}
	g.pool.DestroyAll()

	depthView := g.frames.Swapchain.DepthImage.View
	for handle, decl := range decls {
		if _, err := g.pool.Create(g.ctx.Device.MemoryProps, handle, decl, depthView); err != nil {
			return transientAllocationError(uint32(handle), err)
		}
	}

	return g.resolver.Resolve(g.edges, g.pool.All())
}

// Destroy releases the descriptor resolver's layouts and every transient
// this graph owns. The swapchain frames and command pool are owned by
// the caller (SwapchainFrames and RenderContext respectively) and outlive
// any single compiled graph.
func (g *CompiledGraph) Destroy() {
	g.resolver.Destroy()
	g.pool.DestroyAll()
}
