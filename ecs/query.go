package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// Query iterates every entity that has all of the components named by T.
//
// T must be a struct whose fields are pointers to component types, for example
//
//	ecs.Query[struct {
//		ecs.EntityId
//		*Position
//		*Velocity
//	}]
//
// A field of type EntityId receives the entity's ID. Named pointer fields can be
// tagged `ecs:"optional"`; they are set to nil when the entity lacks the component.
// Results are cached by Execute and served by Iter until the next Execute.
type Query[T any] struct {
	layout  *queryLayout
	storage *Storage

	archetypes     []*Archetype
	archetypeCount int

	ids   []EntityId
	items []T
	valid bool
}

type queryField struct {
	typ      reflect.Type
	offset   uintptr
	optional bool
}

type queryLayout struct {
	fields   []queryField
	idOffset uintptr
	hasId    bool
}

var entityIdType = reflect.TypeFor[EntityId]()

func newQueryLayout(structType reflect.Type) *queryLayout {
	if structType.Kind() != reflect.Struct {
		panic("Query type parameter must be a struct")
	}

	layout := &queryLayout{}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Type == entityIdType {
			layout.idOffset = field.Offset
			layout.hasId = true
			continue
		}

		if field.Type.Kind() != reflect.Ptr {
			panic("Query struct fields must be pointer types or ecs.EntityId")
		}

		optional := false
		if tag := field.Tag.Get("ecs"); tag != "" {
			if tag != "optional" || field.Anonymous {
				panic("invalid ecs tag on field " + field.Name + ": only named fields may be \"optional\"")
			}
			optional = true
		}

		layout.fields = append(layout.fields, queryField{
			typ:      field.Type.Elem(),
			offset:   field.Offset,
			optional: optional,
		})
	}
	return layout
}

func (l *queryLayout) matches(archetype *Archetype) bool {
	for _, f := range l.fields {
		if !f.optional && !archetype.HasComponent(f.typ) {
			return false
		}
	}
	return true
}

// fill writes component pointers for one entity into the struct at dst.
func (l *queryLayout) fill(dst unsafe.Pointer, archetype *Archetype, id EntityId) bool {
	if l.hasId {
		*(*EntityId)(unsafe.Add(dst, l.idOffset)) = id
	}

	for _, f := range l.fields {
		fieldPtr := (*unsafe.Pointer)(unsafe.Add(dst, f.offset))
		component := archetype.GetComponent(id.Index(), f.typ)
		if component == nil {
			if !f.optional {
				return false
			}
			*fieldPtr = nil
			continue
		}
		*fieldPtr = dataPointer(component)
	}
	return true
}

// NewQuery creates a Query bound to storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds or re-binds the Query to a storage.
// Called by the Scheduler during system registration.
func (q *Query[T]) Init(storage *Storage) {
	if q.layout == nil {
		q.layout = newQueryLayout(reflect.TypeFor[T]())
	}
	q.storage = storage
	q.archetypes = nil
	q.archetypeCount = -1
	q.valid = false
}

// Execute rebuilds the entity and component caches.
// The Scheduler calls it before every Execute of the owning system.
func (q *Query[T]) Execute() {
	if q.storage.ArchetypeCount() != q.archetypeCount {
		q.archetypes = q.archetypes[:0]
		for archetype := range q.storage.Archetypes() {
			if q.layout.matches(archetype) {
				q.archetypes = append(q.archetypes, archetype)
			}
		}
		q.archetypeCount = q.storage.ArchetypeCount()
	}

	q.ids = q.ids[:0]
	q.items = q.items[:0]

	var item T
	for _, archetype := range q.archetypes {
		for id := range archetype.Iter() {
			if !q.layout.fill(unsafe.Pointer(&item), archetype, id) {
				continue
			}
			q.ids = append(q.ids, id)
			q.items = append(q.items, item)
		}
	}

	q.valid = true
}

// Iter returns an iterator over the cached results.
// Panics if Execute has not been called.
func (q *Query[T]) Iter() iter.Seq[T] {
	if !q.valid {
		panic("Query.Iter() called before Query.Execute()")
	}

	return func(yield func(T) bool) {
		for i := range q.items {
			if !yield(q.items[i]) {
				return
			}
		}
	}
}

// All returns an iterator over entity IDs and cached results.
// Panics if Execute has not been called.
func (q *Query[T]) All() iter.Seq2[EntityId, T] {
	if !q.valid {
		panic("Query.All() called before Query.Execute()")
	}

	return func(yield func(EntityId, T) bool) {
		for i := range q.items {
			if !yield(q.ids[i], q.items[i]) {
				return
			}
		}
	}
}

// First returns the first cached result, if any.
func (q *Query[T]) First() (T, bool) {
	if !q.valid {
		panic("Query.First() called before Query.Execute()")
	}
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	return q.items[0], true
}

// Len returns the number of cached results.
func (q *Query[T]) Len() int {
	return len(q.items)
}

// Get populates the query struct for one entity without touching the cache.
func (q *Query[T]) Get(id EntityId) (T, bool) {
	var item T
	archetype, ok := q.storage.archetypes.Get(id.ArchetypeId())
	if !ok || !archetype.Has(id.Index()) || !q.layout.matches(archetype) {
		return item, false
	}
	ok = q.layout.fill(unsafe.Pointer(&item), archetype, id)
	return item, ok
}
