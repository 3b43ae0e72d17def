package ecs_test

import (
	"fmt"
	"reflect"

	"github.com/plus3/cuberun/ecs"
)

// ExampleStorage demonstrates the basic API for managing entities and components.
// Components are organized by archetype: entities with the same component types
// share one archetype and one set of component columns.
func ExampleStorage() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Health](registry)
	storage := ecs.NewStorage(registry)

	player := storage.Spawn(
		Position{X: 10, Y: 20},
		Velocity{DX: 1, DY: 0},
		Health{Current: 100, Max: 100},
	)

	pos := ecs.ReadComponent[Position](storage, player)
	fmt.Printf("Player spawned at (%.0f, %.0f)\n", pos.X, pos.Y)

	pos.X = 15
	pos.Y = 25
	fmt.Printf("Player moved to (%.0f, %.0f)\n", pos.X, pos.Y)

	storage.Delete(player)
	fmt.Println("Player alive:", storage.Alive(player))

	// Output:
	// Player spawned at (10, 20)
	// Player moved to (15, 25)
	// Player alive: false
}

// ExampleStorage_Delete shows that freed slots are reused by the next spawn
// into the same archetype, which hands out the same EntityId again.
func ExampleStorage_Delete() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	storage := ecs.NewStorage(registry)

	first := storage.Spawn(Position{X: 1})
	storage.Spawn(Position{X: 2})

	storage.Delete(first)
	again := storage.Spawn(Position{X: 3})

	fmt.Println("Reused id:", again == first)
	fmt.Println("Has position:", storage.HasComponent(again, reflect.TypeOf(Position{})))
	fmt.Printf("X: %.0f\n", ecs.ReadComponent[Position](storage, again).X)

	// Output:
	// Reused id: true
	// Has position: true
	// X: 3
}
