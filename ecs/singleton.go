package ecs

import (
	"reflect"
	"unsafe"
)

// Singleton provides direct access to a single component instance that is not
// associated with any entity. Use it for global game state and configuration.
type Singleton[T any] struct {
	storage      *Storage
	componentPtr unsafe.Pointer
}

// NewSingleton returns an accessor for the T singleton, creating it from the
// initializer (or the zero value) if it does not exist yet.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	typ := reflect.TypeFor[T]()

	if storage.getSingletonEntry(typ) == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(&value)
	}

	s := &Singleton[T]{storage: storage}
	s.updateCache()
	return s
}

// Init binds the accessor to a storage.
// Called by the Scheduler during system registration.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.updateCache()
}

// Get returns a pointer to the singleton component,
// or nil if it has not been added to storage.
func (s *Singleton[T]) Get() *T {
	if s.componentPtr == nil {
		s.updateCache()
	}
	return (*T)(s.componentPtr)
}

// Exists returns true if the singleton component has been added to storage
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}

func (s *Singleton[T]) updateCache() {
	if s.storage == nil {
		return
	}
	if entry := s.storage.getSingletonEntry(reflect.TypeFor[T]()); entry != nil {
		s.componentPtr = entry.dataPtr
	} else {
		s.componentPtr = nil
	}
}
