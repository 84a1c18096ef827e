package graph

// TransientHandle identifies a TransientTargetDecl created by
// GraphBuilder.CreateTransient, resolved against the compiled graph's
// transient arena. Handles are opaque and generational only in the sense
// that each builder hands out ever-increasing indices; they are never
// reused within one builder's lifetime.
type TransientHandle uint32

// SetHandle identifies a DescriptorSetDecl created by
// GraphBuilder.CreateSet.
type SetHandle uint32

// LayoutHandle identifies a pipeline layout cached in a ResourceCache.
type LayoutHandle uint32

const invalidHandle = ^uint32(0)

// InvalidTransient is the all-ones handle value, which no builder hands
// out; compile validation rejects any pass that targets it.
const InvalidTransient = TransientHandle(invalidHandle)

// InvalidSet is returned by lookups that fail.
const InvalidSet = SetHandle(invalidHandle)
