package world

import "time"

// Snapshot is the UI-facing summary, copied once per UI refresh.
type Snapshot struct {
	Mode         Mode
	Cause        Cause
	Entities     int
	Enemies      int
	Gold         int
	PlayerHealth float32
	CastleHealth float32
	Currency     float32
	Elapsed      time.Duration
}

func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Mode:     s.mode,
		Cause:    s.cause,
		Entities: s.ecs.Live(),
		Enemies:  s.Enemies.Len(),
		Gold:     s.Golds.Len(),
		Currency: s.ledger.Total(),
		Elapsed:  s.elapsed,
	}
	if h, ok := s.Healths.Get(s.player); ok {
		snap.PlayerHealth = h.Value()
	}
	if h, ok := s.Healths.Get(s.castle); ok {
		snap.CastleHealth = h.Value()
	}
	return snap
}
