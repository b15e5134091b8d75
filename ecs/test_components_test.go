package ecs_test

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Health struct {
	Current int
	Max     int
}

type Name struct {
	Value string
}

type PlayerController struct{}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string

// Event types
type Damage struct {
	Amount int
}

type Collision struct {
	A, B uint64
}

// Same shape as Damage but a distinct declared type; must queue separately.
type Heal struct {
	Amount int
}
