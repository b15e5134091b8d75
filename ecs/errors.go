package ecs

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrDeadEntity reports a mutation against an id whose generation no
	// longer matches the live one at its slot.
	ErrDeadEntity = errors.New("ecs: entity is not alive")

	// ErrStaleEntity reports a destroy targeting an already-destroyed id.
	ErrStaleEntity = errors.New("ecs: stale entity id")
)

// AbsentComponentError reports a GetAll request for a component type that is
// not present on the entity. After a successful filter match this can only
// happen when a flush removed the component in between, so it indicates a
// consumer/query mismatch and is surfaced immediately, never swallowed.
//
// There is no DuplicateComponent error: Store.Add overwrites an existing
// component of the same type (last-write-wins).
type AbsentComponentError struct {
	Type reflect.Type
}

func (e *AbsentComponentError) Error() string {
	return fmt.Sprintf("ecs: component %s absent", e.Type)
}
