package rendervk

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// Device wraps a selected physical device and its created logical device,
// replacing the teacher's per-instance CoreDevice with a single owner of
// both halves of device state.
type Device struct {
	physicalDevices []vk.PhysicalDevice
	Physical        vk.PhysicalDevice
	Properties      vk.PhysicalDeviceProperties
	MemoryProps     vk.PhysicalDeviceMemoryProperties
	Handle          vk.Device
	Name            string
	Queues          *Queues
}

// SelectDevice enumerates the instance's physical devices and picks the
// first one exposing a graphics-capable queue family.
func SelectDevice(instance vk.Instance, name string) (*Device, error) {
	var count uint32
	ret := vk.EnumeratePhysicalDevices(instance, &count, nil)
	if err := NewError(ret); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, &VkError{Result: vk.ErrorInitializationFailed}
	}

	gpus := make([]vk.PhysicalDevice, count)
	ret = vk.EnumeratePhysicalDevices(instance, &count, gpus)
	if err := NewError(ret); err != nil {
		return nil, err
	}

	d := &Device{physicalDevices: gpus, Name: name}
	for _, gpu := range gpus {
		q := NewQueues(gpu)
		if q != nil && q.IsDeviceSuitable(uint32(vk.QueueGraphicsBit)) {
			d.Physical = gpu
			d.Queues = q
			break
		}
	}
	if d.Queues == nil {
		return nil, &VkError{Result: vk.ErrorFeatureNotPresent}
	}

	vk.GetPhysicalDeviceProperties(d.Physical, &d.Properties)
	d.Properties.Deref()
	vk.GetPhysicalDeviceMemoryProperties(d.Physical, &d.MemoryProps)
	d.MemoryProps.Deref()
	return d, nil
}

// CreateLogical creates the vk.Device for the previously selected physical
// device, enabling deviceExtensions and validationLayers.
func (d *Device) CreateLogical(deviceExtensions []string, validationLayers []string) error {
	extSet := NewBaseDeviceExtensions(nil, deviceExtensions, d.Physical)
	if ok, missing := extSet.HasRequired(); !ok {
		return fmt.Errorf("rendervk: device %q missing required extensions: %v", d.Name, missing)
	}
	enabledExtensions := extSet.GetExtensions()

	queueInfos := d.Queues.CreateInfos()

	var device vk.Device
	ret := vk.CreateDevice(d.Physical, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(enabledExtensions)),
		PpEnabledExtensionNames: safeStrings(enabledExtensions),
		EnabledLayerCount:       uint32(len(validationLayers)),
		PpEnabledLayerNames:     safeStrings(validationLayers),
	}, nil, &device)
	if err := NewError(ret); err != nil {
		return err
	}
	d.Handle = device
	d.Queues.CreateQueues(device)
	return nil
}

// Queues enumerates a physical device's queue families and tracks which
// ones this process has already claimed, replacing the teacher's
// CoreQueue.
type Queues struct {
	bound      []bool
	properties []vk.QueueFamilyProperties
	gpu        vk.PhysicalDevice
	queues     []vk.Queue
}

func NewQueues(gpu vk.PhysicalDevice) *Queues {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, nil)
	if count == 0 {
		return nil
	}
	q := &Queues{
		gpu:        gpu,
		properties: make([]vk.QueueFamilyProperties, count),
		bound:      make([]bool, count),
		queues:     make([]vk.Queue, count),
	}
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, q.properties)
	return q
}

// CreateInfos builds one queue-create-info per family, one queue each.
// Extend this if the engine ever needs more than one queue per family.
func (q *Queues) CreateInfos() []vk.DeviceQueueCreateInfo {
	infos := make([]vk.DeviceQueueCreateInfo, len(q.properties))
	priority := float32(0.5)
	for i := range infos {
		infos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: uint32(i),
			QueueCount:       1,
			PQueuePriorities: []float32{priority},
		}
	}
	return infos
}

func (q *Queues) IsDeviceSuitable(flagBits uint32) bool {
	has, _ := q.FindSuitable(flagBits)
	return has
}

func (q *Queues) FindSuitable(flagBits uint32) (bool, int) {
	for i, props := range q.properties {
		props.Deref()
		if props.QueueFlags&vk.QueueFlags(flagBits) == vk.QueueFlags(flagBits) {
			return true, i
		}
	}
	return false, 0
}

func (q *Queues) CreateQueues(device vk.Device) {
	for i := range q.properties {
		vk.GetDeviceQueue(device, uint32(i), 0, &q.queues[i])
	}
}

// BindGraphics claims the first unbound graphics-capable family.
func (q *Queues) BindGraphics() (vk.Queue, uint32, bool) {
	for i, props := range q.properties {
		props.Deref()
		if props.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 && !q.bound[i] {
			q.bound[i] = true
			return q.queues[i], uint32(i), true
		}
	}
	return vk.Queue(vk.NullHandle), 0, false
}

func (q *Queues) IsBound(index int) bool {
	return q.bound[index]
}
