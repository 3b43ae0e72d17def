package ecs

import (
	"iter"
	"reflect"
	"slices"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// Archetype holds every entity sharing one exact set of component types.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []column

	live      []bool
	freeSlots []int
	count     int
}

// NewArchetype creates a new archetype with the given ID and sorted component types
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]column, len(types)),
	}
	for idx, typ := range types {
		a.columns[idx] = registry.newColumn(typ)
	}
	return a
}

// Spawn stores one entity and returns its slot index.
// Freed slots are reused before the archetype grows.
func (a *Archetype) Spawn(components []any) uint32 {
	var slot int
	if n := len(a.freeSlots); n > 0 {
		slot = a.freeSlots[n-1]
		a.freeSlots = a.freeSlots[:n-1]
	} else {
		slot = len(a.live)
		a.live = append(a.live, false)
	}

	for _, comp := range components {
		idx := a.columnIndex(componentType(comp))
		if idx == -1 || !a.columns[idx].set(slot, comp) {
			panic("component " + reflect.TypeOf(comp).String() + " does not belong to archetype")
		}
	}

	a.live[slot] = true
	a.count++
	return uint32(slot)
}

// Delete frees the slot. Returns false if the slot was not live.
func (a *Archetype) Delete(index uint32) bool {
	slot := int(index)
	if !a.Has(index) {
		return false
	}
	for _, col := range a.columns {
		col.zero(slot)
	}
	a.live[slot] = false
	a.freeSlots = append(a.freeSlots, slot)
	a.count--
	return true
}

// Has reports whether the slot holds a live entity.
func (a *Archetype) Has(index uint32) bool {
	slot := int(index)
	return slot < len(a.live) && a.live[slot]
}

// GetComponent returns a pointer to the component of the given type, or nil
func (a *Archetype) GetComponent(index uint32, compType reflect.Type) any {
	if !a.Has(index) {
		return nil
	}
	idx := a.columnIndex(compType)
	if idx == -1 {
		return nil
	}
	return a.columns[idx].get(int(index))
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return slices.Contains(a.types, compType)
}

func (a *Archetype) columnIndex(compType reflect.Type) int {
	for i, typ := range a.types {
		if typ == compType {
			return i
		}
	}
	return -1
}

// ID returns the archetype's unique identifier
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types for this archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities.
func (a *Archetype) Len() int {
	return a.count
}

// Iter returns an iterator over all live EntityIds in slot order
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for slot, live := range a.live {
			if !live {
				continue
			}
			if !yield(NewEntityId(a.id, uint32(slot))) {
				return
			}
		}
	}
}
