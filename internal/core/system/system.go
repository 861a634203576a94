package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: collaborator hooks (player movement, weapon fire)
	PhaseMovement                // 1: enemy steering
	PhaseCollision               // 2: index rebuild + radius queries, emits resolution records
	PhaseResolve                 // 3: drain resolution records into health/currency
	PhasePostUpdate              // 4: death sweep, game-over check, spawning
	PhaseOutput                  // 5: notification bus flush
	PhaseCleanup                 // 6: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseMovement:
		return "movement"
	case PhaseCollision:
		return "collision"
	case PhaseResolve:
		return "resolve"
	case PhasePostUpdate:
		return "post-update"
	case PhaseOutput:
		return "output"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
