package ecs

// Commands buffers structural changes made while a system runs.
// The Scheduler applies them after the system returns, so queries never
// observe entities appearing or disappearing mid-iteration.
type Commands struct {
	spawns  []spawnCommand
	deletes []deleteCommand
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	components []any
	then       func(EntityId)
}

type deleteCommand struct {
	entity EntityId
	then   func(EntityId)
}

// Defer queues a function to run after all spawns and deletes are applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues an entity spawn operation with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// SpawnThen queues a spawn and calls then with the new entity's ID once it exists.
func (c *Commands) SpawnThen(then func(EntityId), components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components, then: then})
}

// Delete queues an entity deletion operation.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, deleteCommand{entity: entity})
}

// DeleteThen queues a deletion and calls then right after the entity is removed.
// then is not called if the entity was already gone.
func (c *Commands) DeleteThen(entity EntityId, then func(EntityId)) {
	c.deletes = append(c.deletes, deleteCommand{entity: entity, then: then})
}

// Pending reports whether any command is waiting to be flushed.
func (c *Commands) Pending() bool {
	return len(c.spawns)+len(c.deletes)+len(c.defers) > 0
}

// Flush applies deletes, then spawns, then deferred functions, and resets the buffer.
func (c *Commands) Flush(storage *Storage) {
	for _, cmd := range c.deletes {
		if storage.Delete(cmd.entity) && cmd.then != nil {
			cmd.then(cmd.entity)
		}
	}

	for _, cmd := range c.spawns {
		id := storage.Spawn(cmd.components...)
		if cmd.then != nil {
			cmd.then(id)
		}
	}

	for _, fn := range c.defers {
		fn()
	}

	clear(c.spawns)
	clear(c.deletes)
	clear(c.defers)
	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.defers = c.defers[:0]
}
