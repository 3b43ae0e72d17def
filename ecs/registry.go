package ecs

import "reflect"

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage instance has its own ComponentRegistry, allowing multiple
// independent worlds to coexist without interference.
type ComponentRegistry struct {
	factories map[reflect.Type]func() column
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() column),
	}
}

// RegisterComponent registers a component type with the given registry.
// This must be called for each component type before it can be spawned.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.factories[reflect.TypeFor[T]()] = func() column {
		return &blockColumn[T]{}
	}
}

// Registered reports whether the component type has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

func (r *ComponentRegistry) newColumn(t reflect.Type) column {
	factory := r.factories[t]
	if factory == nil {
		panic("component type " + t.String() + " not registered")
	}
	return factory()
}

const blockSize = 64

// column is a type-erased component array addressed by archetype slot index.
// Slot allocation is owned by the Archetype, so every column of an archetype
// shares the same index space.
type column interface {
	set(index int, value any) bool
	zero(index int)
	get(index int) any
}

// blockColumn stores components in fixed-size blocks. Blocks are allocated
// individually and never moved, so pointers handed out by get stay valid
// while the archetype grows.
type blockColumn[T any] struct {
	blocks []*[blockSize]T
}

func (c *blockColumn[T]) set(index int, value any) bool {
	var item T
	switch v := value.(type) {
	case T:
		item = v
	case *T:
		item = *v
	default:
		return false
	}

	blockIdx := index / blockSize
	for blockIdx >= len(c.blocks) {
		c.blocks = append(c.blocks, new([blockSize]T))
	}
	c.blocks[blockIdx][index%blockSize] = item
	return true
}

func (c *blockColumn[T]) zero(index int) {
	blockIdx := index / blockSize
	if index < 0 || blockIdx >= len(c.blocks) {
		return
	}
	var zero T
	c.blocks[blockIdx][index%blockSize] = zero
}

// get returns a *T for the slot. Liveness is tracked by the archetype.
func (c *blockColumn[T]) get(index int) any {
	blockIdx := index / blockSize
	if index < 0 || blockIdx >= len(c.blocks) {
		return nil
	}
	return &c.blocks[blockIdx][index%blockSize]
}
