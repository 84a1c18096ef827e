package rendervk

import "fmt"

const (
	MULTIGPU = "DeviceGroup"
)

// Usage defines a property bag of engine tuning knobs, corresponding
// loosely to a JSON object. It is how render-graph-level tunables
// (descriptor pool sizes, push-constant budget) reach the wrapper layer
// and the graph package without a dedicated config-file or flag-parsing
// dependency. There is no frames-in-flight key, and fence/acquire waits
// always use an infinite timeout regardless of FenceWaitTimeoutMillis.
type Usage struct {
	Name         string
	String_props map[string]string
	Int_props    map[string]int
	Bool_props   map[string]bool
	Float_props  map[string]float32
	Linked_usage *Usage
}

func NewUsage(name string, default_size uint) *Usage {
	var use Usage
	use.Name = name
	use.String_props = make(map[string]string, default_size)
	use.Int_props = make(map[string]int, default_size)
	use.Bool_props = make(map[string]bool, default_size)
	use.Float_props = make(map[string]float32, default_size)
	return &use
}

// NewEngineUsage seeds the named options the render context and graph
// read (all but FenceWaitTimeoutMillis, which nothing reads), with the
// defaults from the external-interfaces
// section of the governing specification.
func NewEngineUsage() *Usage {
	use := NewUsage("RenderGraph", 8)
	use.Int_props["DescriptorPoolSampler"] = 500
	use.Int_props["DescriptorPoolCombinedImageSampler"] = 5000
	use.Int_props["DescriptorPoolUniformBuffer"] = 5000
	use.Int_props["DescriptorPoolStorageBuffer"] = 500
	use.Int_props["DescriptorPoolStorageImage"] = 500
	use.Int_props["DescriptorPoolMaxSets"] = 100000
	use.Int_props["PushConstantBudgetBytes"] = 128
	use.Int_props["FenceWaitTimeoutMillis"] = 0 // 0 == infinite, matches u64::MAX wait
	return use
}

func (u *Usage) HasNext() bool {
	return u.Linked_usage != nil
}

func (u *Usage) GetLinkedUsage() (*Usage, error) {
	if !u.HasNext() {
		return nil, fmt.Errorf("usage %q has no linked usage", u.Name)
	}
	return u.Linked_usage, nil
}

// Print dumps the usage tree for debugging.
func (u *Usage) Print() {
	fmt.Print(u.String_props)
	fmt.Print(u.Bool_props)
	fmt.Print(u.Int_props)
	fmt.Print(u.Float_props)
	if u.HasNext() {
		u.Linked_usage.Print()
	}
}
