package ecs

import "iter"

// EntityID packs an entity's slot index (lower 32 bits) and its generation
// counter (upper 32 bits). Destroying an entity bumps the slot's generation,
// so a handle held across a destroy compares unequal to any id minted later
// for the same slot and can be detected as stale.
type EntityID uint64

// provisionalBit marks placeholder ids handed out by Commands.CreateEntity
// before the buffer has been flushed. Real ids never carry it: generations
// are bumped one at a time and would need 2^31 destroys of a single slot to
// reach it.
const provisionalBit EntityID = 1 << 63

func newEntityID(index, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

// Index extracts the slot index from the id.
func (e EntityID) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Generation extracts the generation counter from the id.
func (e EntityID) Generation() uint32 {
	return uint32(e>>32) & 0x7FFFFFFF
}

// Provisional reports whether the id is a placeholder minted by
// Commands.CreateEntity that has not been resolved by a flush yet.
func (e EntityID) Provisional() bool {
	return e&provisionalBit != 0
}

// Registry allocates and recycles entity ids and tracks liveness. It holds
// no component data and knows nothing about the Store; the destroy cascade
// (removing a dead entity's components) is driven by Commands.Flush.
type Registry struct {
	generations []uint32
	alive       []bool
	free        []uint32
	liveCount   int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Create allocates a fresh id. A freed slot is reused with its already
// bumped generation when one exists; otherwise a new slot is appended at
// generation zero.
func (r *Registry) Create() EntityID {
	if n := len(r.free); n > 0 {
		index := r.free[n-1]
		r.free = r.free[:n-1]
		r.alive[index] = true
		r.liveCount++
		return newEntityID(index, r.generations[index])
	}

	index := uint32(len(r.generations))
	r.generations = append(r.generations, 0)
	r.alive = append(r.alive, true)
	r.liveCount++
	return newEntityID(index, 0)
}

// Destroy invalidates id and marks its slot free for reuse. Destroying an id
// whose generation no longer matches returns ErrStaleEntity; this is a
// signal rather than a silent no-op so that use-after-destroy surfaces
// early. The policy is uniform across the package: Commands.Flush downgrades
// it to a logged warning, nothing swallows it silently.
func (r *Registry) Destroy(id EntityID) error {
	if !r.Alive(id) {
		return ErrStaleEntity
	}
	index := id.Index()
	r.generations[index]++
	r.alive[index] = false
	r.free = append(r.free, index)
	r.liveCount--
	return nil
}

// Alive reports whether id refers to a currently live entity.
func (r *Registry) Alive(id EntityID) bool {
	if id.Provisional() {
		return false
	}
	index := id.Index()
	if index >= uint32(len(r.generations)) {
		return false
	}
	return r.alive[index] && r.generations[index] == id.Generation()
}

// Each iterates every live entity in slot order. Query snapshots are built
// from this, which makes filter results stable per call.
func (r *Registry) Each() iter.Seq[EntityID] {
	return func(yield func(EntityID) bool) {
		for index, ok := range r.alive {
			if !ok {
				continue
			}
			if !yield(newEntityID(uint32(index), r.generations[index])) {
				return
			}
		}
	}
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	return r.liveCount
}
