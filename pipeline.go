package rendervk

import vk "github.com/vulkan-go/vulkan"

// PipelineOptions describes the fixed-function state a Pass's graphics
// pipeline needs beyond its shader stages, render pass and layout.
// Viewport and scissor are left dynamic so a pipeline survives a
// swapchain resize without rebuilding.
type PipelineOptions struct {
	RenderPass       vk.RenderPass
	Layout           vk.PipelineLayout
	Shaders          *ShaderProgram
	VertexBindings   []vk.VertexInputBindingDescription
	VertexAttributes []vk.VertexInputAttributeDescription
	Topology         vk.PrimitiveTopology
	CullMode         vk.CullModeFlagBits
	FrontFace        vk.FrontFace
	DepthTest        bool
	DepthWrite       bool
}

// CreatePipelineLayout builds a pipeline layout from a set of descriptor
// set layouts plus a single push-constant range sized pushConstantBytes,
// matching the push-constant budget every Pass shares.
func CreatePipelineLayout(device vk.Device, setLayouts []vk.DescriptorSetLayout, pushConstantBytes int) (vk.PipelineLayout, error) {
	info := vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: uint32(len(setLayouts)),
	}
	if len(setLayouts) > 0 {
		info.PSetLayouts = setLayouts
	}
	var ranges []vk.PushConstantRange
	if pushConstantBytes > 0 {
		ranges = []vk.PushConstantRange{{
			StageFlags: vk.ShaderStageFlags(vk.ShaderStageVertexBit) | vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
			Offset:     0,
			Size:       uint32(pushConstantBytes),
		}}
		info.PushConstantRangeCount = 1
		info.PPushConstantRanges = ranges
	}

	var layout vk.PipelineLayout
	ret := vk.CreatePipelineLayout(device, &info, nil, &layout)
	if err := NewError(ret); err != nil {
		return vk.NullPipelineLayout, err
	}
	return layout, nil
}

// BuildGraphicsPipeline builds a single-subpass graphics pipeline with
// dynamic viewport/scissor state, the shape every Pass compiles to.
func BuildGraphicsPipeline(device vk.Device, opts PipelineOptions) (vk.Pipeline, error) {
	stages := []vk.PipelineShaderStageCreateInfo{
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageVertexBit,
			Module: opts.Shaders.Vertex,
			PName:  safeString("main"),
		},
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageFragmentBit,
			Module: opts.Shaders.Fragment,
			PName:  safeString("main"),
		},
	}

	vertexInput := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(opts.VertexBindings)),
		PVertexBindingDescriptions:      opts.VertexBindings,
		VertexAttributeDescriptionCount: uint32(len(opts.VertexAttributes)),
		PVertexAttributeDescriptions:    opts.VertexAttributes,
	}

	topology := opts.Topology
	if topology == 0 {
		topology = vk.PrimitiveTopologyTriangleList
	}
	assembly := vk.PipelineInputAssemblyStateCreateInfo{
		SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology: topology,
	}

	frontFace := opts.FrontFace
	if frontFace == 0 {
		frontFace = vk.FrontFaceCounterClockwise
	}
	rasterizer := vk.PipelineRasterizationStateCreateInfo{
		SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
		PolygonMode: vk.PolygonModeFill,
		CullMode:    vk.CullModeFlags(opts.CullMode),
		FrontFace:   frontFace,
		LineWidth:   1.0,
	}

	multisample := vk.PipelineMultisampleStateCreateInfo{
		SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples: vk.SampleCount1Bit,
		MinSampleShading:     1.0,
	}

	colorBlendAttachment := vk.PipelineColorBlendAttachmentState{
		ColorWriteMask: vk.ColorComponentFlags(vk.ColorComponentRBit) |
			vk.ColorComponentFlags(vk.ColorComponentGBit) |
			vk.ColorComponentFlags(vk.ColorComponentBBit) |
			vk.ColorComponentFlags(vk.ColorComponentABit),
	}
	colorBlend := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{colorBlendAttachment},
	}

	depthStencil := vk.PipelineDepthStencilStateCreateInfo{
		SType:            vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:  vk.Bool32(boolToUint32(opts.DepthTest)),
		DepthWriteEnable: vk.Bool32(boolToUint32(opts.DepthWrite)),
		DepthCompareOp:   vk.CompareOpLess,
	}

	dynamicStates := []vk.DynamicState{vk.DynamicStateViewport, vk.DynamicStateScissor}
	dynamic := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(dynamicStates)),
		PDynamicStates:    dynamicStates,
	}

	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		ScissorCount:  1,
	}

	info := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(stages)),
		PStages:             stages,
		PVertexInputState:   &vertexInput,
		PInputAssemblyState: &assembly,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterizer,
		PMultisampleState:   &multisample,
		PColorBlendState:    &colorBlend,
		PDepthStencilState:  &depthStencil,
		PDynamicState:       &dynamic,
		Layout:              opts.Layout,
		RenderPass:          opts.RenderPass,
		Subpass:             0,
	}

	pipelines := []vk.Pipeline{vk.NullPipeline}
	ret := vk.CreateGraphicsPipelines(device, vk.NullPipelineCache, 1, []vk.GraphicsPipelineCreateInfo{info}, nil, pipelines)
	if err := NewError(ret); err != nil {
		return vk.NullPipeline, err
	}
	return pipelines[0], nil
}

func boolToUint32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
