package ecs

import (
	"cmp"
	"iter"
	"reflect"
	"slices"
	"sort"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// Storage is the container for all entities, their components and singletons.
type Storage struct {
	archetypes *intmap.Map[uint32, *Archetype]
	order      []*Archetype // ascending ID
	singletons map[reflect.Type]*singletonEntry
	registry   *ComponentRegistry
}

type singletonEntry struct {
	typ     reflect.Type
	value   reflect.Value
	dataPtr unsafe.Pointer
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: intmap.New[uint32, *Archetype](16),
		singletons: make(map[reflect.Type]*singletonEntry),
		registry:   registry,
	}
}

// Spawn creates a new entity with the provided components.
// Components may be passed by value or by pointer; pointers are copied.
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	types := extractComponentTypes(components)
	archetypeId := hashTypesToUint32(types)

	archetype, exists := s.archetypes.Get(archetypeId)
	if !exists {
		archetype = NewArchetype(archetypeId, types, s.registry)
		s.archetypes.Put(archetypeId, archetype)
		pos, _ := slices.BinarySearchFunc(s.order, archetypeId, func(a *Archetype, id uint32) int {
			return cmp.Compare(a.id, id)
		})
		s.order = slices.Insert(s.order, pos, archetype)
	}

	return NewEntityId(archetypeId, archetype.Spawn(components))
}

// Delete removes all data related to the entity ID.
// Returns false if the entity was not alive.
func (s *Storage) Delete(id EntityId) bool {
	archetype, ok := s.archetypes.Get(id.ArchetypeId())
	if !ok {
		return false
	}
	return archetype.Delete(id.Index())
}

// Alive reports whether the entity ID refers to a live entity.
func (s *Storage) Alive(id EntityId) bool {
	archetype, ok := s.archetypes.Get(id.ArchetypeId())
	return ok && archetype.Has(id.Index())
}

// GetComponent returns the component for the given entity ID and component type
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	archetype, ok := s.archetypes.Get(id.ArchetypeId())
	if !ok {
		return nil
	}
	return archetype.GetComponent(id.Index(), compType)
}

// HasComponent checks if a live entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	archetype, ok := s.archetypes.Get(id.ArchetypeId())
	if !ok || !archetype.Has(id.Index()) {
		return false
	}
	return archetype.HasComponent(compType)
}

// Components returns pointers to all components of a live entity, ordered
// like its archetype's Types. Returns nil if the entity is not alive.
func (s *Storage) Components(id EntityId) []any {
	archetype, ok := s.archetypes.Get(id.ArchetypeId())
	if !ok || !archetype.Has(id.Index()) {
		return nil
	}
	components := make([]any, len(archetype.types))
	for i, col := range archetype.columns {
		components[i] = col.get(int(id.Index()))
	}
	return components
}

// Archetype returns the archetype with the given ID, or nil.
func (s *Storage) Archetype(id uint32) *Archetype {
	archetype, _ := s.archetypes.Get(id)
	return archetype
}

// GetArchetype returns the archetype for exactly the given component set, if one exists
func (s *Storage) GetArchetype(components ...any) *Archetype {
	archetype, _ := s.archetypes.Get(hashTypesToUint32(extractComponentTypes(components)))
	return archetype
}

// ArchetypeCount returns the number of archetypes created so far.
func (s *Storage) ArchetypeCount() int {
	return len(s.order)
}

// Archetypes iterates archetypes in ascending ID order.
func (s *Storage) Archetypes() iter.Seq[*Archetype] {
	return func(yield func(*Archetype) bool) {
		for _, archetype := range s.order {
			if !yield(archetype) {
				return
			}
		}
	}
}

// AddSingleton stores value as the singleton of its type, replacing any
// previous one. A pointer value is stored as-is; any other value is copied.
func (s *Storage) AddSingleton(value any) {
	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Ptr {
		ptr := reflect.New(v.Type())
		ptr.Elem().Set(v)
		v = ptr
	}

	typ := v.Type().Elem()
	s.singletons[typ] = &singletonEntry{
		typ:     typ,
		value:   v,
		dataPtr: v.UnsafePointer(),
	}
}

// ReadSingleton fills target, which must be a **T, with the stored singleton of type T.
// Returns false if no singleton of that type exists.
func (s *Storage) ReadSingleton(target any) bool {
	tv := reflect.ValueOf(target)
	if tv.Kind() != reflect.Ptr || tv.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton target must be a pointer to a pointer")
	}

	entry := s.getSingletonEntry(tv.Elem().Type().Elem())
	if entry == nil {
		return false
	}
	tv.Elem().Set(entry.value)
	return true
}

// RemoveSingleton deletes the singleton of the given type.
func (s *Storage) RemoveSingleton(typ reflect.Type) {
	delete(s.singletons, typ)
}

func (s *Storage) getSingletonEntry(typ reflect.Type) *singletonEntry {
	return s.singletons[typ]
}

func componentType(comp any) reflect.Type {
	compType := reflect.TypeOf(comp)
	if compType.Kind() == reflect.Ptr {
		compType = compType.Elem()
	}
	return compType
}

// extractComponentTypes extracts and sorts component types from a slice of components
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		compType := componentType(comp)

		// Components are value types: structs or named primitives
		switch compType.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
			panic("components cannot be pointers, maps, channels, or functions")
		}

		types = append(types, compType)
	}
	sort.Sort(byTypeName(types))
	return types
}

// hashTypesToUint32 generates an FNV-1a hash over the identities of a sorted slice of types
func hashTypesToUint32(types []reflect.Type) uint32 {
	var h uint32 = 2166136261
	const prime uint32 = 16777619

	for _, t := range types {
		ptr := uintptr((*iface)(unsafe.Pointer(&t)).data)
		val := uint32(ptr)
		if unsafe.Sizeof(ptr) == 8 {
			val ^= uint32(uint64(ptr) >> 32)
		}

		h ^= val
		h *= prime
	}

	return h
}

// ComponentReader is satisfied by Storage and lets helpers read components generically.
type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns a pointer to the entity's T component, or nil if absent.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}
