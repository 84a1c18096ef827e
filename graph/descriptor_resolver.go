package graph

import (
	vk "github.com/vulkan-go/vulkan"

	rendervk "github.com/andewx/rendergraph"
)

// DescriptorResolver owns every descriptor set layout and set a compiled
// graph uses. GraphBuilder.Compile calls CreateSet once per declared set,
// which installs a layout and allocates its set eagerly; Resolve runs
// after every transient exists and batches the
// writes for each BindEdge in one UpdateDescriptorSets call.
type DescriptorResolver struct {
	device  vk.Device
	pool    vk.DescriptorPool
	layouts []vk.DescriptorSetLayout
	sets    []vk.DescriptorSet
}

func NewDescriptorResolver(device vk.Device, pool vk.DescriptorPool) *DescriptorResolver {
	return &DescriptorResolver{device: device, pool: pool}
}

// CreateSet builds a vk.DescriptorSetLayout from decl's bindings (each a
// COMBINED_IMAGE_SAMPLER, per this core's shader convention) and allocates
// one set against it immediately, so later BindEdges have somewhere to
// write.
func (r *DescriptorResolver) CreateSet(decl DescriptorSetDecl) (SetHandle, error) {
	bindings := make([]vk.DescriptorSetLayoutBinding, len(decl.Bindings))
	for i, b := range decl.Bindings {
		bindings[i] = vk.DescriptorSetLayoutBinding{
			Binding:         b.Binding,
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: 1,
			StageFlags:      b.Stages,
		}
	}

	var layout vk.DescriptorSetLayout
	ret := vk.CreateDescriptorSetLayout(r.device, &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}, nil, &layout)
	if err := rendervk.NewError(ret); err != nil {
		return InvalidSet, err
	}

	sets := make([]vk.DescriptorSet, 1)
	layoutsForAlloc := []vk.DescriptorSetLayout{layout}
	ret = vk.AllocateDescriptorSets(r.device, &vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     r.pool,
		DescriptorSetCount: 1,
		PSetLayouts:        layoutsForAlloc,
	}, sets)
	if err := rendervk.NewError(ret); err != nil {
		vk.DestroyDescriptorSetLayout(r.device, layout, nil)
		return InvalidSet, err
	}

	handle := SetHandle(len(r.layouts))
	r.layouts = append(r.layouts, layout)
	r.sets = append(r.sets, sets[0])
	return handle, nil
}

// Resolve writes every edge's transient view/sampler into its declared
// set binding. It returns a dangling-bind CompileError naming the first
// unresolved handle without applying any partial writes.
func (r *DescriptorResolver) Resolve(edges []BindEdge, transients map[TransientHandle]*TransientTarget) error {
	writes := make([]vk.WriteDescriptorSet, 0, len(edges))
	imageInfos := make([]vk.DescriptorImageInfo, len(edges))

	for i, edge := range edges {
		if int(edge.Set) >= len(r.sets) {
			return danglingBind(uint32(edge.Set), "bind edge references unknown set %d", edge.Set)
		}
		target, ok := transients[edge.Transient]
		if !ok {
			return danglingBind(uint32(edge.Transient), "bind edge references unknown or unproduced transient %d", edge.Transient)
		}

		imageInfos[i] = vk.DescriptorImageInfo{
			Sampler:     target.Sampler,
			ImageView:   target.View,
			ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
		}
		writes = append(writes, vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          r.sets[edge.Set],
			DstBinding:      edge.Binding,
			DescriptorCount: 1,
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			PImageInfo:      imageInfos[i : i+1],
		})
	}

	if len(writes) == 0 {
		return nil
	}
	vk.UpdateDescriptorSets(r.device, uint32(len(writes)), writes, 0, nil)
	return nil
}

func (r *DescriptorResolver) Set(handle SetHandle) vk.DescriptorSet {
	return r.sets[handle]
}

func (r *DescriptorResolver) Layout(handle SetHandle) vk.DescriptorSetLayout {
	return r.layouts[handle]
}

// Destroy frees every set layout this resolver created. Descriptor sets
// themselves are freed when the owning vk.DescriptorPool is destroyed or
// reset.
func (r *DescriptorResolver) Destroy() {
	for _, l := range r.layouts {
		vk.DestroyDescriptorSetLayout(r.device, l, nil)
	}
	r.layouts = nil
	r.sets = nil
}
