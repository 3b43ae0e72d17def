package ecs_test

import (
	"testing"

	"github.com/plus3/cuberun/ecs"
	"github.com/stretchr/testify/assert"
)

type testSpawnSystem struct {
	executed bool
	spawned  []ecs.EntityId
}

func (s *testSpawnSystem) Execute(frame *ecs.UpdateFrame) {
	s.executed = true
	frame.Commands.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 0.5, DY: 0.5})
	frame.Commands.SpawnThen(func(id ecs.EntityId) {
		s.spawned = append(s.spawned, id)
	}, Position{X: 3, Y: 4})
}

type testDeleteSystem struct {
	entityToDelete ecs.EntityId
	deleted        []ecs.EntityId
}

func (s *testDeleteSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.DeleteThen(s.entityToDelete, func(id ecs.EntityId) {
		s.deleted = append(s.deleted, id)
	})
	frame.Commands.DeleteThen(s.entityToDelete, func(id ecs.EntityId) {
		s.deleted = append(s.deleted, id)
	})
}

type testCountSystem struct {
	Entities ecs.Query[struct{ *Position }]
	seen     int
}

func (s *testCountSystem) Execute(frame *ecs.UpdateFrame) {
	s.seen = s.Entities.Len()
}

func TestCommands(t *testing.T) {
	t.Run("spawn entities", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)

		system := &testSpawnSystem{}
		scheduler.Register(system)

		query := ecs.NewQuery[struct{ *Position }](storage)
		query.Execute()
		assert.Equal(t, 0, query.Len(), "entities spawned before frame execution")

		scheduler.Once(1.0)

		query.Execute()
		assert.Equal(t, 2, query.Len())
		assert.True(t, system.executed)

		if assert.Len(t, system.spawned, 1) {
			assert.Equal(t, float32(3), ecs.ReadComponent[Position](storage, system.spawned[0]).X)
		}
	})

	t.Run("delete entities", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		e1 := storage.Spawn(Position{X: 1, Y: 2})
		e2 := storage.Spawn(Position{X: 3, Y: 4})

		system := &testDeleteSystem{entityToDelete: e1}
		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(system)

		scheduler.Once(1.0)

		assert.False(t, storage.Alive(e1))
		assert.True(t, storage.Alive(e2))
		assert.Equal(t, []ecs.EntityId{e1}, system.deleted, "callback only fires for the delete that removed the entity")
	})

	t.Run("later systems see earlier commands", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)

		counter := &testCountSystem{}
		scheduler.Register(&testSpawnSystem{})
		scheduler.Register(counter)

		scheduler.Once(1.0)
		assert.Equal(t, 2, counter.seen)
	})

	t.Run("flush order", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		victim := storage.Spawn(Position{X: 1})

		var order []string
		commands := &ecs.Commands{}
		commands.Defer(func() { order = append(order, "defer") })
		commands.SpawnThen(func(ecs.EntityId) { order = append(order, "spawn") }, Position{X: 2})
		commands.DeleteThen(victim, func(ecs.EntityId) { order = append(order, "delete") })
		assert.True(t, commands.Pending())

		commands.Flush(storage)

		assert.Equal(t, []string{"delete", "spawn", "defer"}, order)
		assert.False(t, commands.Pending())
	})
}
