package graph

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func mustPass(t *testing.T, b *PassBuilder) PassDecl {
	t.Helper()
	decl, err := b.Build()
	if err != nil {
		t.Fatalf("Build: unexpected err %v", err)
	}
	return decl
}

func TestCompileRejectsUnknownPassConfiguration(t *testing.T) {
	b := NewGraphBuilder(nil)
	b.passes = append(b.passes, PassDecl{Name: "broken"}) // no pipeline/layout, bypassing PassBuilder

	if err := b.validateConfiguration(); err == nil {
		t.Fatalf("validateConfiguration: err\nhave nil\nwant non-nil")
	} else if ce, ok := err.(*CompileError); !ok || ce.Kind != ErrConfiguration {
		t.Fatalf("validateConfiguration: err\nhave %v\nwant ErrConfiguration", err)
	}
}

func TestCompileRejectsPushConstantRangeMismatch(t *testing.T) {
	b := NewGraphBuilder(nil) // nil ctx: budget falls back to defaultPushConstantBudget
	b.passes = append(b.passes, PassDecl{
		Name:     "over-budget",
		Pipeline: vk.Pipeline(1),
		Layout:   vk.PipelineLayout(1),
		PushConstantRanges: []PushConstantRangeDecl{
			{Stages: vk.ShaderStageFlags(vk.ShaderStageVertexBit), Offset: 0, Size: defaultPushConstantBudget + 64},
		},
	})

	err := b.validateConfiguration()
	if err == nil {
		t.Fatalf("validateConfiguration: err\nhave nil\nwant non-nil")
	}
	ce, ok := err.(*CompileError)
	if !ok || ce.Kind != ErrConfiguration {
		t.Fatalf("validateConfiguration: err\nhave %v\nwant ErrConfiguration", err)
	}
}

func TestCompileAcceptsPushConstantRangeWithinBudget(t *testing.T) {
	b := NewGraphBuilder(nil)
	b.passes = append(b.passes, PassDecl{
		Name:     "within-budget",
		Pipeline: vk.Pipeline(1),
		Layout:   vk.PipelineLayout(1),
		PushConstantRanges: []PushConstantRangeDecl{
			{Stages: vk.ShaderStageFlags(vk.ShaderStageVertexBit | vk.ShaderStageFragmentBit), Offset: 0, Size: defaultPushConstantBudget},
		},
	})

	if err := b.validateConfiguration(); err != nil {
		t.Fatalf("validateConfiguration: unexpected err %v", err)
	}
}

func TestCompileRejectsDuplicateProducer(t *testing.T) {
	b := NewGraphBuilder(nil)
	transient := b.CreateTransient(TransientTargetDecl{Name: "glow", Width: 256, Height: 256, Format: vk.FormatR8g8b8a8Unorm})

	b.AddPass(mustPass(t, NewPass("a").Target(FrameBuffer(transient)).Graphics(vk.Pipeline(1), vk.PipelineLayout(1))))
	b.AddPass(mustPass(t, NewPass("b").Target(FrameBuffer(transient)).Graphics(vk.Pipeline(1), vk.PipelineLayout(1))))

	_, err := b.validateProducers()
	if err == nil {
		t.Fatalf("validateProducers: err\nhave nil\nwant non-nil")
	}
	ce, ok := err.(*CompileError)
	if !ok || ce.Kind != ErrDuplicateProducer {
		t.Fatalf("validateProducers: err\nhave %v\nwant ErrDuplicateProducer", err)
	}
}

func TestCompileRejectsTransientWithNoProducer(t *testing.T) {
	b := NewGraphBuilder(nil)
	b.CreateTransient(TransientTargetDecl{Name: "orphan", Width: 128, Height: 128, Format: vk.FormatR8g8b8a8Unorm})
	b.AddPass(mustPass(t, NewPass("main").Target(Swapchain()).Graphics(vk.Pipeline(1), vk.PipelineLayout(1))))

	_, err := b.validateProducers()
	if err == nil {
		t.Fatalf("validateProducers: err\nhave nil\nwant non-nil")
	}
	ce, ok := err.(*CompileError)
	if !ok || ce.Kind != ErrDanglingBind {
		t.Fatalf("validateProducers: err\nhave %v\nwant ErrDanglingBind", err)
	}
}

func TestCompileRejectsDanglingBindEdge(t *testing.T) {
	b := NewGraphBuilder(nil)
	b.AddPass(mustPass(t, NewPass("main").Target(Swapchain()).Graphics(vk.Pipeline(1), vk.PipelineLayout(1))))
	b.Bind(BindEdge{Binding: 0, Set: SetHandle(0), Transient: TransientHandle(0)})

	producers, err := b.validateProducers()
	if err != nil {
		t.Fatalf("validateProducers: unexpected err %v", err)
	}
	if err := b.validateBinds(producers); err == nil {
		t.Fatalf("validateBinds: err\nhave nil\nwant non-nil (unknown set and transient)")
	}
}

func TestCompileRejectsConsumerBeforeProducer(t *testing.T) {
	b := NewGraphBuilder(nil)
	transient := b.CreateTransient(TransientTargetDecl{Name: "glow", Width: 256, Height: 256, Format: vk.FormatR8g8b8a8Unorm})
	set := b.CreateSet(DescriptorSetDecl{Bindings: []DescriptorBindingDecl{{Binding: 0, Stages: vk.ShaderStageFlags(vk.ShaderStageFragmentBit)}}})

	// consumer added before the pass that produces the transient it binds
	b.AddPass(mustPass(t, NewPass("consumer").Target(Swapchain()).Graphics(vk.Pipeline(1), vk.PipelineLayout(1)).BindSet(0, set)))
	b.AddPass(mustPass(t, NewPass("producer").Target(FrameBuffer(transient)).Graphics(vk.Pipeline(1), vk.PipelineLayout(1))))
	b.Bind(BindEdge{Binding: 0, Set: set, Transient: transient})

	producers, err := b.validateProducers()
	if err != nil {
		t.Fatalf("validateProducers: unexpected err %v", err)
	}
	if err := b.validateBinds(producers); err == nil {
		t.Fatalf("validateBinds: err\nhave nil\nwant non-nil (consumer precedes producer)")
	}
}

func TestCompileAcceptsProducerBeforeConsumer(t *testing.T) {
	b := NewGraphBuilder(nil)
	transient := b.CreateTransient(TransientTargetDecl{Name: "glow", Width: 256, Height: 256, Format: vk.FormatR8g8b8a8Unorm})
	set := b.CreateSet(DescriptorSetDecl{Bindings: []DescriptorBindingDecl{{Binding: 0, Stages: vk.ShaderStageFlags(vk.ShaderStageFragmentBit)}}})

	b.AddPass(mustPass(t, NewPass("producer").Target(FrameBuffer(transient)).Graphics(vk.Pipeline(1), vk.PipelineLayout(1))))
	b.AddPass(mustPass(t, NewPass("consumer").Target(Swapchain()).Graphics(vk.Pipeline(1), vk.PipelineLayout(1)).BindSet(0, set)))
	b.Bind(BindEdge{Binding: 0, Set: set, Transient: transient})

	producers, err := b.validateProducers()
	if err != nil {
		t.Fatalf("validateProducers: unexpected err %v", err)
	}
	if err := b.validateBinds(producers); err != nil {
		t.Fatalf("validateBinds: unexpected err %v", err)
	}
}
