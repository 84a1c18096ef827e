package graph

import vk "github.com/vulkan-go/vulkan"

// BoundSetDecl is one (set_index, set_handle) pair a PassDecl records at
// builder time; GraphBuilder.Compile resolves the handle to a concrete
// vk.DescriptorSet.
type BoundSetDecl struct {
	Index uint32
	Set   SetHandle
}

// Recorder is the user callback invoked once per pass per frame. It must
// not outlive the graph, must not begin/end render passes, submit, or
// touch synchronization primitives — PassContext deliberately exposes
// nothing that would let it.
type Recorder func(ctx *PassContext, renderables []Renderable)

// PassDecl is what GraphBuilder.AddPass accepts: an uncompiled pass
// description referencing handles instead of resolved Vulkan objects.
type PassDecl struct {
	Name               string
	Target             RenderTarget
	Pipeline           vk.Pipeline
	Kind               PipelineKind
	Layout             vk.PipelineLayout
	BoundSets          []BoundSetDecl
	PushConstantRanges []PushConstantRangeDecl
	Recorder           Recorder
}

// defaultPushConstantBudget is the budget PassBuilder.Build checks
// against when no render context is available to supply a configured
// one; it matches NewEngineUsage's default.
const defaultPushConstantBudget = 128

// validatePushConstantRanges checks that every declared range carries a
// shader stage mask, fits within budget, and does not overlap another
// range on the same pass.
func validatePushConstantRanges(name string, ranges []PushConstantRangeDecl, budget uint32) error {
	var used [][2]uint32
	for _, r := range ranges {
		if r.Stages == 0 {
			return configurationError(name, "push constant range at offset %d has no shader stage mask", r.Offset)
		}
		end := r.Offset + r.Size
		if end > budget {
			return configurationError(name, "push constant range [%d,%d) exceeds configured budget of %d bytes", r.Offset, end, budget)
		}
		for _, prev := range used {
			if r.Offset < prev[1] && prev[0] < end {
				return configurationError(name, "push constant ranges overlap: [%d,%d) and [%d,%d)", prev[0], prev[1], r.Offset, end)
			}
		}
		used = append(used, [2]uint32{r.Offset, end})
	}
	return nil
}

// PassBuilder accumulates a PassDecl fluently.
type PassBuilder struct {
	decl PassDecl
}

func NewPass(name string) *PassBuilder {
	return &PassBuilder{decl: PassDecl{Name: name, Kind: PipelineGraphics}}
}

func (b *PassBuilder) Target(t RenderTarget) *PassBuilder {
	b.decl.Target = t
	return b
}

func (b *PassBuilder) Graphics(pipeline vk.Pipeline, layout vk.PipelineLayout) *PassBuilder {
	b.decl.Pipeline = pipeline
	b.decl.Layout = layout
	b.decl.Kind = PipelineGraphics
	return b
}

func (b *PassBuilder) Compute(pipeline vk.Pipeline, layout vk.PipelineLayout) *PassBuilder {
	b.decl.Pipeline = pipeline
	b.decl.Layout = layout
	b.decl.Kind = PipelineCompute
	return b
}

func (b *PassBuilder) BindSet(index uint32, set SetHandle) *PassBuilder {
	b.decl.BoundSets = append(b.decl.BoundSets, BoundSetDecl{Index: index, Set: set})
	return b
}

// PushConstants records one push-constant range the pass's pipeline
// layout was built with, checked against the configured push-constant
// budget at Compile time.
func (b *PassBuilder) PushConstants(stages vk.ShaderStageFlags, offset, size uint32) *PassBuilder {
	b.decl.PushConstantRanges = append(b.decl.PushConstantRanges, PushConstantRangeDecl{Stages: stages, Offset: offset, Size: size})
	return b
}

func (b *PassBuilder) OnRecord(fn Recorder) *PassBuilder {
	b.decl.Recorder = fn
	return b
}

// Build validates that every field required to compile the pass has
// been set, returning a Configuration CompileError otherwise.
func (b *PassBuilder) Build() (PassDecl, error) {
	d := b.decl
	if d.Name == "" {
		return d, configurationError(d.Name, "pass has no name")
	}
	if d.Pipeline == vk.NullPipeline {
		return d, configurationError(d.Name, "pass has no pipeline")
	}
	if d.Layout == vk.NullPipelineLayout {
		return d, configurationError(d.Name, "pass has no pipeline layout")
	}
	if d.Recorder == nil {
		d.Recorder = func(*PassContext, []Renderable) {}
	}
	for i, bound := range d.BoundSets {
		if int(bound.Index) != i {
			return d, configurationError(d.Name, "bound set indices must be unique and contiguous from 0, got %d at position %d", bound.Index, i)
		}
	}
	if err := validatePushConstantRanges(d.Name, d.PushConstantRanges, defaultPushConstantBudget); err != nil {
		return d, err
	}
	return d, nil
}

// BoundSet is a compiled (set_index, descriptor set) pair.
type BoundSet struct {
	Index uint32
	Set   vk.DescriptorSet
}

// Pass is the immutable compiled record Graph.Execute replays every
// frame: a target, a pipeline, its layout, its resolved descriptor sets
// and the user recorder.
type Pass struct {
	Name      string
	Target    RenderTarget
	Pipeline  vk.Pipeline
	Kind      PipelineKind
	Layout    vk.PipelineLayout
	BoundSets []BoundSet
	Recorder  Recorder
}

// PassContext is passed by reference into each recorder. It exposes only
// what a recorder may legitimately do: bind the pass's own pipeline and
// sets, issue draws and push constants, query resolution, and escape to
// the raw command buffer for vertex/index binds or instanced draws.
type PassContext struct {
	cmd        vk.CommandBuffer
	pass       *Pass
	width      uint32
	height     uint32
}

func newPassContext(cmd vk.CommandBuffer, pass *Pass, width, height uint32) *PassContext {
	return &PassContext{cmd: cmd, pass: pass, width: width, height: height}
}

// BindPipeline binds the pass's pipeline and all of its declared
// descriptor sets starting at set 0, and sets dynamic viewport/scissor
// to the current resolution.
func (c *PassContext) BindPipeline() {
	bindPoint := vk.PipelineBindPointGraphics
	if c.pass.Kind == PipelineCompute {
		bindPoint = vk.PipelineBindPointCompute
	}
	vk.CmdBindPipeline(c.cmd, bindPoint, c.pass.Pipeline)

	if len(c.pass.BoundSets) > 0 {
		sets := make([]vk.DescriptorSet, len(c.pass.BoundSets))
		for _, bound := range c.pass.BoundSets {
			sets[bound.Index] = bound.Set
		}
		vk.CmdBindDescriptorSets(c.cmd, bindPoint, c.pass.Layout, 0, uint32(len(sets)), sets, 0, nil)
	}

	if c.pass.Kind == PipelineGraphics {
		vk.CmdSetViewport(c.cmd, 0, 1, []vk.Viewport{{
			X: 0, Y: 0,
			Width: float32(c.width), Height: float32(c.height),
			MinDepth: 0, MaxDepth: 1,
		}})
		vk.CmdSetScissor(c.cmd, 0, 1, []vk.Rect2D{{
			Offset: vk.Offset2D{},
			Extent: vk.Extent2D{Width: c.width, Height: c.height},
		}})
	}
}

func (c *PassContext) Draw(vertexCount uint32) {
	vk.CmdDraw(c.cmd, vertexCount, 1, 0, 0)
}

func (c *PassContext) DrawIndexed(indexCount uint32) {
	vk.CmdDrawIndexed(c.cmd, indexCount, 1, 0, 0, 0)
}

func (c *PassContext) PushConstants(stages vk.ShaderStageFlags, offset uint32, data []byte) {
	vk.CmdPushConstants(c.cmd, c.pass.Layout, stages, offset, uint32(len(data)), unsafePointer(data))
}

func (c *PassContext) Resolution() (uint32, uint32) {
	return c.width, c.height
}

// Cmd returns the underlying command buffer, for recorders that need to
// bind vertex/index buffers, issue instanced draws, or dispatch compute.
func (c *PassContext) Cmd() vk.CommandBuffer {
	return c.cmd
}
