package ecs

// World is the top-level ECS container. It owns the entity pool, the stores
// tracked for bulk removal, and a deferred destruction queue flushed by the
// cleanup phase each tick. Destroy is the synchronous path used when an
// entity must vanish in the same step that decided its fate.
type World struct {
	pool         *EntityPool
	stores       []Removable
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		stores:       make([]Removable, 0, 8),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

// Live returns the number of entities currently alive.
func (w *World) Live() int { return w.pool.Live() }

// Track registers stores whose entries are dropped when an entity is destroyed.
func (w *World) Track(stores ...Removable) {
	w.stores = append(w.stores, stores...)
}

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Destroy removes id from every tracked store and retires its handle
// immediately. Reports false for stale handles.
func (w *World) Destroy(id EntityID) bool {
	if !w.pool.Alive(id) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(id)
	}
	return w.pool.Destroy(id)
}

// MarkForDestruction queues an entity for end-of-tick cleanup.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// FlushDestroyQueue destroys every queued entity. Entities already destroyed
// through another path are skipped. Returns the number actually destroyed.
func (w *World) FlushDestroyQueue() int {
	n := 0
	for _, id := range w.destroyQueue {
		if w.Destroy(id) {
			n++
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
	return n
}
