package ecs_test

import (
	"testing"

	"github.com/plus3/cuberun/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	storage.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 0.5, DY: 0.5})
	storage.Spawn(Position{X: 3, Y: 4}, Velocity{DX: 1.0, DY: 1.0})
	storage.Spawn(Position{X: 5, Y: 6}, Velocity{DX: 1.5, DY: 1.5}, Health{Current: 100, Max: 100})
	storage.Spawn(Position{X: 7, Y: 8})

	query := ecs.NewQuery[struct {
		ecs.EntityId
		*Position
		*Velocity
	}](storage)

	t.Run("execute builds cache", func(t *testing.T) {
		query.Execute()

		count := 0
		for item := range query.Iter() {
			assert.NotZero(t, item.EntityId)
			assert.NotNil(t, item.Position)
			assert.NotNil(t, item.Velocity)
			count++
		}
		assert.Equal(t, 3, count)
		assert.Equal(t, 3, query.Len())
	})

	t.Run("panics without execute", func(t *testing.T) {
		fresh := ecs.NewQuery[struct{ *Position }](storage)
		assert.Panics(t, func() {
			for range fresh.Iter() {
			}
		})
		assert.Panics(t, func() { fresh.First() })
	})

	t.Run("results point into storage", func(t *testing.T) {
		query.Execute()
		for item := range query.Iter() {
			item.Position.X += 100
		}

		for id, item := range query.All() {
			assert.Equal(t, id, item.EntityId)
			assert.Equal(t, item.Position.X, ecs.ReadComponent[Position](storage, id).X)
			assert.GreaterOrEqual(t, item.Position.X, float32(100))
		}
	})

	t.Run("cache is stale until execute", func(t *testing.T) {
		query.Execute()
		storage.Spawn(Position{}, Velocity{})
		assert.Equal(t, 3, query.Len())

		query.Execute()
		assert.Equal(t, 4, query.Len())
	})

	t.Run("deleted entities disappear", func(t *testing.T) {
		query.Execute()
		first, ok := query.First()
		require.True(t, ok)

		storage.Delete(first.EntityId)
		query.Execute()
		for item := range query.Iter() {
			assert.NotEqual(t, first.EntityId, item.EntityId)
		}
	})
}

func TestQueryOptionalFields(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	withHealth := storage.Spawn(Position{X: 1}, Health{Current: 10})
	withoutHealth := storage.Spawn(Position{X: 2})

	query := ecs.NewQuery[struct {
		Id       ecs.EntityId
		Position *Position
		Health   *Health `ecs:"optional"`
	}](storage)
	query.Execute()

	seen := map[ecs.EntityId]bool{}
	for item := range query.Iter() {
		seen[item.Id] = item.Health != nil
	}
	assert.Equal(t, map[ecs.EntityId]bool{withHealth: true, withoutHealth: false}, seen)
}

func TestQueryGet(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 4}, Velocity{DX: 2})
	other := storage.Spawn(Position{X: 5})

	query := ecs.NewQuery[struct {
		*Position
		*Velocity
	}](storage)

	item, ok := query.Get(id)
	require.True(t, ok)
	assert.Equal(t, float32(4), item.Position.X)
	assert.Equal(t, float32(2), item.Velocity.DX)

	_, ok = query.Get(other)
	assert.False(t, ok)

	storage.Delete(id)
	_, ok = query.Get(id)
	assert.False(t, ok)
}

func TestQueryInvalidLayout(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { ecs.NewQuery[int](storage) })
	assert.Panics(t, func() { ecs.NewQuery[struct{ Position }](storage) })
	assert.Panics(t, func() {
		ecs.NewQuery[struct {
			Position *Position `ecs:"sometimes"`
		}](storage)
	})
}
