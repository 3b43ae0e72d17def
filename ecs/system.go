package ecs

// System represents a behavior that operates on entities with specific components.
// Systems may declare Query and Singleton fields, which the Scheduler binds on
// registration, and keep custom state between frames in any other field.
type System interface {
	Execute(frame *UpdateFrame)
}
