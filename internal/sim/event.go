package sim

import "fortress-arena/internal/fixed"

// EventKind classifies replay events.
type EventKind uint8

const (
	EventDamage EventKind = iota
	EventHeroDeath
	EventFortressDamage
	EventProjectileSpawn
)

// String returns the event kind name used in logs and exports.
func (k EventKind) String() string {
	switch k {
	case EventDamage:
		return "damage"
	case EventHeroDeath:
		return "hero_death"
	case EventFortressDamage:
		return "fortress_damage"
	case EventProjectileSpawn:
		return "projectile_spawn"
	default:
		return "unknown"
	}
}

// ReplayEvent is one entry of the append-only battle log. The flat layout
// keeps serialisation trivially byte-stable: unused fields are zero for
// kinds that do not carry them. Side is the receiving side for damage and
// death events and the firing side for projectile spawns.
type ReplayEvent struct {
	Tick        int32     `json:"tick"`
	Kind        EventKind `json:"kind"`
	Side        SideTag   `json:"side"`
	HeroID      string    `json:"heroId,omitempty"`
	TargetIndex int32     `json:"targetIndex"`
	Damage      int32     `json:"damage"`
	RemainingHP int32     `json:"remainingHp"`

	// Projectile spawn endpoints, Q16.16 raw representation.
	StartX  fixed.Val `json:"startX,omitempty"`
	StartY  fixed.Val `json:"startY,omitempty"`
	TargetX fixed.Val `json:"targetX,omitempty"`
	TargetY fixed.Val `json:"targetY,omitempty"`
}

// Recorder is the append-only replay log. Events are appended in the
// exact order the operations that produced them ran, so the log is
// strictly monotonic in tick and byte-identical across replays of the
// same inputs.
type Recorder struct {
	events []ReplayEvent
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{events: make([]ReplayEvent, 0, 256)}
}

// Append adds one event to the log.
func (r *Recorder) Append(ev ReplayEvent) {
	r.events = append(r.events, ev)
}

// Events returns the recorded log. Callers must treat it as read-only.
func (r *Recorder) Events() []ReplayEvent {
	return r.events
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	return len(r.events)
}
