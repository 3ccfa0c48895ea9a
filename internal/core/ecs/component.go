package ecs

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// PtrComponentStore is a generic typed map store for ECS components.
// No reflect, no interface{} — pure generics.
type PtrComponentStore[T any] struct {
	data map[EntityID]*T
}

func NewPtrComponentStore[T any]() *PtrComponentStore[T] {
	return &PtrComponentStore[T]{
		data: make(map[EntityID]*T, 256),
	}
}

func (s *PtrComponentStore[T]) Set(id EntityID, c *T) {
	s.data[id] = c
}

// SetBatch attaches one slot per entity in a single call. ids and slots must
// be the same length; the loader relies on this for whole-map attachment
// instead of per-entity Set loops.
func (s *PtrComponentStore[T]) SetBatch(ids []EntityID, slots []*T) {
	for i, id := range ids {
		s.data[id] = slots[i]
	}
}

func (s *PtrComponentStore[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *PtrComponentStore[T]) Remove(id EntityID) {
	delete(s.data, id)
}

func (s *PtrComponentStore[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *PtrComponentStore[T]) Len() int {
	return len(s.data)
}

func (s *PtrComponentStore[T]) Each(fn func(EntityID, *T)) {
	for id, c := range s.data {
		fn(id, c)
	}
}

// SlotPool recycles component value slots across map load/unload cycles so
// bulk create/destroy does not allocate one value per tile every time.
// Owned by a single goroutine for the duration of a cycle — no locks.
type SlotPool[T any] struct {
	free []*T
}

func NewSlotPool[T any](capacity int) *SlotPool[T] {
	return &SlotPool[T]{
		free: make([]*T, 0, capacity),
	}
}

// Rent returns a recycled slot, or a fresh zero-valued one if none is free.
func (p *SlotPool[T]) Rent() *T {
	if n := len(p.free); n > 0 {
		slot := p.free[n-1]
		p.free = p.free[:n-1]
		return slot
	}
	return new(T)
}

// RentBatch fills out with n slots, recycling before allocating.
func (p *SlotPool[T]) RentBatch(n int) []*T {
	out := make([]*T, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, p.Rent())
	}
	return out
}

// Return zeroes the slot and makes it available for reuse.
func (p *SlotPool[T]) Return(slot *T) {
	var zero T
	*slot = zero
	p.free = append(p.free, slot)
}

// FreeCount returns the number of slots currently available for rent.
func (p *SlotPool[T]) FreeCount() int {
	return len(p.free)
}
