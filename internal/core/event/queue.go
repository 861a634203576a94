package event

// Handler consumes resolution records. Drain calls it in a fixed order:
// every EnemyContact, then every CastleContact, then every GoldPickup.
type Handler interface {
	OnEnemyContact(EnemyContact)
	OnCastleContact(CastleContact)
	OnGoldPickup(GoldPickup)
}

// Queue is the in-tick buffer between detection and mutation. The collision
// engine appends; lifecycle drains once per tick.
type Queue struct {
	contacts []EnemyContact
	castle   []CastleContact
	pickups  []GoldPickup
}

func NewQueue() *Queue {
	return &Queue{
		contacts: make([]EnemyContact, 0, 32),
		castle:   make([]CastleContact, 0, 32),
		pickups:  make([]GoldPickup, 0, 32),
	}
}

func (q *Queue) PushEnemyContact(ev EnemyContact)   { q.contacts = append(q.contacts, ev) }
func (q *Queue) PushCastleContact(ev CastleContact) { q.castle = append(q.castle, ev) }
func (q *Queue) PushGoldPickup(ev GoldPickup)       { q.pickups = append(q.pickups, ev) }

func (q *Queue) Len() int {
	return len(q.contacts) + len(q.castle) + len(q.pickups)
}

// Drain delivers and clears every queued record.
func (q *Queue) Drain(h Handler) {
	for _, ev := range q.contacts {
		h.OnEnemyContact(ev)
	}
	for _, ev := range q.castle {
		h.OnCastleContact(ev)
	}
	for _, ev := range q.pickups {
		h.OnGoldPickup(ev)
	}
	q.Reset()
}

// Reset drops queued records without delivering them.
func (q *Queue) Reset() {
	q.contacts = q.contacts[:0]
	q.castle = q.castle[:0]
	q.pickups = q.pickups[:0]
}
