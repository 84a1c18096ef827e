package graph

import vk "github.com/vulkan-go/vulkan"

// RenderTargetKind distinguishes a pass's render target: the swapchain's
// current image, or one of the builder's transient targets.
type RenderTargetKind int

const (
	TargetSwapchain RenderTargetKind = iota
	TargetTransient
)

// RenderTarget names where a pass draws. For TargetTransient, Transient
// must be a handle returned by GraphBuilder.CreateTransient.
type RenderTarget struct {
	Kind      RenderTargetKind
	Transient TransientHandle
}

// Swapchain builds a RenderTarget pointing at the swapchain image.
func Swapchain() RenderTarget { return RenderTarget{Kind: TargetSwapchain} }

// FrameBuffer builds a RenderTarget pointing at a transient.
func FrameBuffer(h TransientHandle) RenderTarget {
	return RenderTarget{Kind: TargetTransient, Transient: h}
}

// PipelineKind distinguishes the bind point a pass's pipeline was built
// for. Only Graphics is exercised by the executor; Compute is carried in
// the data model for pass builders that bypass Graph.Execute's render
// pass loop via PassContext.Cmd.
type PipelineKind int

const (
	PipelineGraphics PipelineKind = iota
	PipelineCompute
)

// TransientTargetDecl describes an offscreen color target the
// TransientPool allocates at compile time.
type TransientTargetDecl struct {
	Name   string
	Width  uint32
	Height uint32
	Format vk.Format
	Usage  vk.ImageUsageFlags
}

// TransientTarget is a TransientTargetDecl plus everything the pool
// resolved it to.
type TransientTarget struct {
	Decl       TransientTargetDecl
	Image      vk.Image
	Memory     vk.DeviceMemory
	View       vk.ImageView
	Sampler    vk.Sampler
	Framebuffer vk.Framebuffer
	// Producer is the index into CompiledGraph.passes of the pass that
	// targets this transient, set during compile validation.
	Producer int
}

// PushConstantRangeDecl declares one push-constant range a pass expects
// its pipeline layout to have been built with. GraphBuilder.Compile checks
// these against the render context's configured push-constant budget
// (Usage.Int_props["PushConstantBudgetBytes"]) since a vk.PipelineLayout
// handle carries no queryable record of its own create info.
type PushConstantRangeDecl struct {
	Stages vk.ShaderStageFlags
	Offset uint32
	Size   uint32
}

// DescriptorBindingDecl is one binding in a DescriptorSetDecl. It carries
// no count or type field: DescriptorResolver.CreateSet creates every
// binding with a count of 1 and type COMBINED_IMAGE_SAMPLER.
type DescriptorBindingDecl struct {
	Binding uint32
	Stages  vk.ShaderStageFlags
}

// DescriptorSetDecl is an ordered list of bindings a GraphBuilder.CreateSet
// call installs as one vk.DescriptorSetLayout.
type DescriptorSetDecl struct {
	Bindings []DescriptorBindingDecl
}

// BindEdge wires a transient's view into a descriptor set at compile
// time. The producing pass (the one whose RenderTarget names Transient)
// must precede, in pass insertion order, every pass that binds the set
// this edge targets.
type BindEdge struct {
	Binding   uint32
	Set       SetHandle
	Transient TransientHandle
}

// Renderable carries what a recorder needs to draw one object: a mesh
// handle, a material handle and an index into a transform array. The
// graph never interprets these fields itself; it is pure pass-through
// from the scene collaborator.
type Renderable struct {
	Mesh      uint32
	Material  uint32
	Transform uint32
}
