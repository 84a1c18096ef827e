package graph

import (
	vk "github.com/vulkan-go/vulkan"

	rendervk "github.com/andewx/rendergraph"
)

// GraphBuilder accumulates transient declarations, descriptor set
// declarations, passes and bind edges, then Compile resolves all of it
// into a CompiledGraph. Every handle a builder hands out is an index
// into its own declaration slice; handles from one builder are meaningless
// against another.
type GraphBuilder struct {
	ctx            *rendervk.RenderContext
	transientDecls []TransientTargetDecl
	setDecls       []DescriptorSetDecl
	passes         []PassDecl
	edges          []BindEdge
}

func NewGraphBuilder(ctx *rendervk.RenderContext) *GraphBuilder {
	return &GraphBuilder{ctx: ctx}
}

func (b *GraphBuilder) CreateTransient(decl TransientTargetDecl) TransientHandle {
	handle := TransientHandle(len(b.transientDecls))
	b.transientDecls = append(b.transientDecls, decl)
	return handle
}

func (b *GraphBuilder) CreateSet(decl DescriptorSetDecl) SetHandle {
	handle := SetHandle(len(b.setDecls))
	b.setDecls = append(b.setDecls, decl)
	return handle
}

func (b *GraphBuilder) AddPass(decl PassDecl) {
	b.passes = append(b.passes, decl)
}

func (b *GraphBuilder) Bind(edge BindEdge) {
	b.edges = append(b.edges, edge)
}

// Compile runs all four compile-time validations in order — configuration,
// duplicate producers, dangling binds, then transient allocation — and
// rolls back everything it allocated, in reverse creation order, on any
// failure. frames supplies the shared depth view every transient's
// framebuffer attaches alongside its own color view.
func (b *GraphBuilder) Compile(frames *SwapchainFrames) (*CompiledGraph, error) {
	if err := b.validateConfiguration(); err != nil {
		return nil, err
	}

	producers, err := b.validateProducers()
	if err != nil {
		return nil, err
	}

	if err := b.validateBinds(producers); err != nil {
		return nil, err
	}

	pool := NewTransientPool(b.ctx.Device.Handle, b.ctx.RenderPasses.Transient)
	depthView := frames.Swapchain.DepthImage.View
	for handle, decl := range b.transientDecls {
		target, err := pool.Create(b.ctx.Device.MemoryProps, TransientHandle(handle), decl, depthView)
		if err != nil {
			pool.DestroyAll()
			return nil, transientAllocationError(uint32(handle), err)
		}
		target.Producer = producers[TransientHandle(handle)]
	}

	resolver := NewDescriptorResolver(b.ctx.Device.Handle, b.ctx.DescriptorPool)
	for _, decl := range b.setDecls {
		if _, err := resolver.CreateSet(decl); err != nil {
			resolver.Destroy()
			pool.DestroyAll()
			return nil, err
		}
	}

	if err := resolver.Resolve(b.edges, pool.All()); err != nil {
		resolver.Destroy()
		pool.DestroyAll()
		return nil, err
	}

	passes := make([]Pass, len(b.passes))
	for i, decl := range b.passes {
		boundSets := make([]BoundSet, len(decl.BoundSets))
		for j, bs := range decl.BoundSets {
			boundSets[j] = BoundSet{Index: bs.Index, Set: resolver.Set(bs.Set)}
		}
		passes[i] = Pass{
			Name:      decl.Name,
			Target:    decl.Target,
			Pipeline:  decl.Pipeline,
			Kind:      decl.Kind,
			Layout:    decl.Layout,
			BoundSets: boundSets,
			Recorder:  decl.Recorder,
		}
	}

	return &CompiledGraph{
		ctx:      b.ctx,
		frames:   frames,
		pool:     pool,
		resolver: resolver,
		passes:   passes,
		edges:    b.edges,
	}, nil
}

// pushConstantBudget resolves the configured push-constant budget from
// the render context's Usage, falling back to the engine default when
// no context is available (e.g. a GraphBuilder built for unit testing).
func (b *GraphBuilder) pushConstantBudget() uint32 {
	if b.ctx != nil && b.ctx.Usage != nil {
		if budget, ok := b.ctx.Usage.Int_props["PushConstantBudgetBytes"]; ok {
			return uint32(budget)
		}
	}
	return defaultPushConstantBudget
}

// validateConfiguration is check 1 (required fields) and check 4
// (pipeline layout matches the union of bound set layouts plus declared
// push-constant ranges). Since a vk.PipelineLayout handle carries no
// queryable create info, "matches" is checked against what the pass
// itself declares: bound-set indices unique and contiguous from 0, and
// push-constant ranges that carry a stage mask, don't overlap, and fit
// within the context's configured budget.
func (b *GraphBuilder) validateConfiguration() error {
	budget := b.pushConstantBudget()
	for _, p := range b.passes {
		if p.Name == "" {
			return configurationError(p.Name, "pass has no name")
		}
		if p.Pipeline == vk.NullPipeline {
			return configurationError(p.Name, "pass has no pipeline")
		}
		if p.Layout == vk.NullPipelineLayout {
			return configurationError(p.Name, "pass has no pipeline layout")
		}
		for i, bound := range p.BoundSets {
			if int(bound.Index) != i {
				return configurationError(p.Name, "bound set indices must be unique and contiguous from 0, got %d at position %d", bound.Index, i)
			}
		}
		if err := validatePushConstantRanges(p.Name, p.PushConstantRanges, budget); err != nil {
			return err
		}
	}
	return nil
}

// validateProducers enforces that every declared transient has exactly
// one producing pass and that no transient has two.
func (b *GraphBuilder) validateProducers() (map[TransientHandle]int, error) {
	producers := make(map[TransientHandle]int)
	for i, p := range b.passes {
		if p.Target.Kind != TargetTransient {
			continue
		}
		if int(p.Target.Transient) >= len(b.transientDecls) {
			return nil, danglingBind(uint32(p.Target.Transient), "pass %q targets unknown transient %d", p.Name, p.Target.Transient)
		}
		if prev, exists := producers[p.Target.Transient]; exists {
			return nil, duplicateProducer(uint32(p.Target.Transient), "transient %d already produced by pass %q", p.Target.Transient, b.passes[prev].Name)
		}
		producers[p.Target.Transient] = i
	}
	for h := range b.transientDecls {
		if _, ok := producers[TransientHandle(h)]; !ok {
			return nil, danglingBind(uint32(h), "transient %d declared but never produced by any pass", h)
		}
	}
	return producers, nil
}

// validateBinds checks every bound-set and bind-edge handle resolves,
// and that each transient's producing pass precedes, in insertion order,
// every pass that binds a set the transient is wired into.
func (b *GraphBuilder) validateBinds(producers map[TransientHandle]int) error {
	for _, p := range b.passes {
		for _, bs := range p.BoundSets {
			if int(bs.Set) >= len(b.setDecls) {
				return danglingBind(uint32(bs.Set), "pass %q binds unknown set %d", p.Name, bs.Set)
			}
		}
	}
	for _, edge := range b.edges {
		if int(edge.Set) >= len(b.setDecls) {
			return danglingBind(uint32(edge.Set), "bind edge references unknown set %d", edge.Set)
		}
		if int(edge.Transient) >= len(b.transientDecls) {
			return danglingBind(uint32(edge.Transient), "bind edge references unknown transient %d", edge.Transient)
		}
		producerIdx := producers[edge.Transient]
		for i, p := range b.passes {
			for _, bs := range p.BoundSets {
				if bs.Set == edge.Set && i <= producerIdx {
					return danglingBind(uint32(edge.Transient), "pass %q binds set %d before producing pass %q has run", p.Name, edge.Set, b.passes[producerIdx].Name)
				}
			}
		}
	}
	return nil
}
