package graph

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestPassBuilderRejectsMissingPipeline(t *testing.T) {
	_, err := NewPass("no-pipeline").Build()
	if err == nil {
		t.Fatalf("Build with no pipeline: err\nhave nil\nwant non-nil")
	}
	ce, ok := err.(*CompileError)
	if !ok {
		t.Fatalf("Build error type\nhave %T\nwant *CompileError", err)
	}
	if ce.Kind != ErrConfiguration {
		t.Fatalf("Build error kind\nhave %v\nwant %v", ce.Kind, ErrConfiguration)
	}
}

func TestPassBuilderRejectsMissingLayout(t *testing.T) {
	_, err := NewPass("no-layout").Graphics(vk.Pipeline(1), vk.NullPipelineLayout).Build()
	if err == nil {
		t.Fatalf("Build with no layout: err\nhave nil\nwant non-nil")
	}
}

func TestPassBuilderDefaultsRecorder(t *testing.T) {
	decl, err := NewPass("p").Graphics(vk.Pipeline(1), vk.PipelineLayout(1)).Build()
	if err != nil {
		t.Fatalf("Build: unexpected err %v", err)
	}
	if decl.Recorder == nil {
		t.Fatalf("Build: Recorder\nhave nil\nwant a no-op default")
	}
	decl.Recorder(nil, nil) // must not panic
}

func TestPassBuilderRejectsNonContiguousBoundSets(t *testing.T) {
	_, err := NewPass("p").
		Graphics(vk.Pipeline(1), vk.PipelineLayout(1)).
		BindSet(0, SetHandle(0)).
		BindSet(2, SetHandle(1)).
		Build()
	if err == nil {
		t.Fatalf("Build with non-contiguous bound sets: err\nhave nil\nwant non-nil")
	}
}

func TestPassBuilderAcceptsContiguousBoundSets(t *testing.T) {
	decl, err := NewPass("p").
		Graphics(vk.Pipeline(1), vk.PipelineLayout(1)).
		BindSet(0, SetHandle(0)).
		BindSet(1, SetHandle(1)).
		Build()
	if err != nil {
		t.Fatalf("Build: unexpected err %v", err)
	}
	if len(decl.BoundSets) != 2 {
		t.Fatalf("Build: len(BoundSets)\nhave %d\nwant 2", len(decl.BoundSets))
	}
}

func TestPassBuilderRejectsPushConstantRangeOverBudget(t *testing.T) {
	_, err := NewPass("p").
		Graphics(vk.Pipeline(1), vk.PipelineLayout(1)).
		PushConstants(vk.ShaderStageFlags(vk.ShaderStageVertexBit), 0, defaultPushConstantBudget+1).
		Build()
	if err == nil {
		t.Fatalf("Build with over-budget push constant range: err\nhave nil\nwant non-nil")
	}
	ce, ok := err.(*CompileError)
	if !ok || ce.Kind != ErrConfiguration {
		t.Fatalf("Build error\nhave %v\nwant ErrConfiguration", err)
	}
}

func TestPassBuilderRejectsOverlappingPushConstantRanges(t *testing.T) {
	_, err := NewPass("p").
		Graphics(vk.Pipeline(1), vk.PipelineLayout(1)).
		PushConstants(vk.ShaderStageFlags(vk.ShaderStageVertexBit), 0, 64).
		PushConstants(vk.ShaderStageFlags(vk.ShaderStageFragmentBit), 32, 32).
		Build()
	if err == nil {
		t.Fatalf("Build with overlapping push constant ranges: err\nhave nil\nwant non-nil")
	}
}

func TestPassBuilderRejectsPushConstantRangeWithNoStageMask(t *testing.T) {
	_, err := NewPass("p").
		Graphics(vk.Pipeline(1), vk.PipelineLayout(1)).
		PushConstants(0, 0, 16).
		Build()
	if err == nil {
		t.Fatalf("Build with zero stage mask: err\nhave nil\nwant non-nil")
	}
}

func TestPassBuilderAcceptsAdjacentPushConstantRanges(t *testing.T) {
	decl, err := NewPass("p").
		Graphics(vk.Pipeline(1), vk.PipelineLayout(1)).
		PushConstants(vk.ShaderStageFlags(vk.ShaderStageVertexBit), 0, 64).
		PushConstants(vk.ShaderStageFlags(vk.ShaderStageFragmentBit), 64, 64).
		Build()
	if err != nil {
		t.Fatalf("Build: unexpected err %v", err)
	}
	if len(decl.PushConstantRanges) != 2 {
		t.Fatalf("Build: len(PushConstantRanges)\nhave %d\nwant 2", len(decl.PushConstantRanges))
	}
}
