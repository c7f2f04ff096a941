// Package sim implements the deterministic 1v1 fortress-arena combat
// core: world model, tick orchestration, targeting, movement, combat
// resolution, projectiles, replay recording and the chained run hash.
//
// The simulator is single-threaded and performs no I/O. Given the same
// seed, builds and config it produces bit-identical state, events and
// hash on every host; the verification driver relies on this to reject
// forged results.
package sim

import (
	"fortress-arena/internal/fixed"
)

// RulesetVersion identifies the static tables and balance constants this
// build was compiled against. It is folded into the chain hash so results
// produced under different rule sets can never verify against each other.
const RulesetVersion uint32 = 3

// Balance constants. Distances and ratios are Q16.16 field units.
const (
	// FortressAttackDistance gates hero melee on the enemy fortress.
	FortressAttackDistance fixed.Val = 4 << 16

	// FortressAttackRange is how far a fortress can shoot at heroes.
	FortressAttackRange fixed.Val = 15 << 16

	// FortressExclusionRadius is the disc around each fortress no live
	// hero's centre may occupy.
	FortressExclusionRadius fixed.Val = 3 << 16

	// FortressHitRadius is the fortress's projectile hit circle.
	FortressHitRadius fixed.Val = 1 << 16

	// HeroHitRadiusPad is added to a hero's collision radius for
	// projectile hit tests.
	HeroHitRadiusPad fixed.Val = 6554 // 0.1

	// DeadTargetHitRadius replaces the target circle when a projectile
	// resolves against a dead target's last position.
	DeadTargetHitRadius fixed.Val = 16384 // 0.25

	// HeroPreferredCombatDistanceRatio: heroes closer to their target
	// than range×ratio back off to hold the preferred distance.
	HeroPreferredCombatDistanceRatio fixed.Val = 52429 // 0.8

	// HeroMaxSpeed clamps velocity, units per tick.
	HeroMaxSpeed fixed.Val = 32768 // 0.5

	// Friction is applied to velocity each tick before the clamp.
	Friction fixed.Val = 58982 // 0.9

	// ArenaDamageScalar is the global 0.45 damage scalar in Q16.16.
	ArenaDamageScalar fixed.Val = 29491

	// ProjectileSpeed is fortress projectile travel per tick.
	ProjectileSpeed fixed.Val = 49152 // 0.75

	// FortressY is the fixed Y coordinate both fortresses sit on.
	FortressY fixed.Val = 7 << 16
)

// SideTag identifies the left or right player of a battle.
type SideTag uint8

const (
	SideLeft SideTag = iota
	SideRight
)

// String returns the side name.
func (s SideTag) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// Opponent returns the other side.
func (s SideTag) Opponent() SideTag {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// WinnerTag identifies the battle winner.
type WinnerTag uint8

const (
	WinnerNone WinnerTag = iota
	WinnerLeft
	WinnerRight
)

// String returns the winner name.
func (w WinnerTag) String() string {
	switch w {
	case WinnerLeft:
		return "left"
	case WinnerRight:
		return "right"
	default:
		return "none"
	}
}

// WinReason explains how the battle ended.
type WinReason uint8

const (
	WinReasonNone WinReason = iota
	WinReasonFortressDestroyed
	WinReasonTimeout
	WinReasonDraw
)

// String returns the reason name.
func (r WinReason) String() string {
	switch r {
	case WinReasonFortressDestroyed:
		return "fortress_destroyed"
	case WinReasonTimeout:
		return "timeout"
	case WinReasonDraw:
		return "draw"
	default:
		return "none"
	}
}

// HeroState tags what a hero instance is doing this tick.
type HeroState uint8

const (
	HeroIdle HeroState = iota
	HeroMoving
	HeroAttacking
	HeroDying
	HeroDead
)

// String returns the state name.
func (h HeroState) String() string {
	switch h {
	case HeroIdle:
		return "idle"
	case HeroMoving:
		return "moving"
	case HeroAttacking:
		return "attacking"
	case HeroDying:
		return "dying"
	case HeroDead:
		return "dead"
	default:
		return "unknown"
	}
}

// ArenaConfig is immutable after construction. Distances are Q16.16.
type ArenaConfig struct {
	TickHz                     int32     `json:"tickHz"`
	MaxTicks                   int32     `json:"maxTicks"`
	FieldWidth                 fixed.Val `json:"fieldWidth"`
	FieldHeight                fixed.Val `json:"fieldHeight"`
	FortressBaseHP             int32     `json:"fortressBaseHp"`
	FortressBaseDamage         int32     `json:"fortressBaseDamage"`
	FortressAttackInterval     int32     `json:"fortressAttackInterval"`
	FortressDistanceFromCenter fixed.Val `json:"fortressDistanceFromCenter"`
}

// DefaultArenaConfig returns the tournament rule set: 30 Hz, five-minute
// safety timeout, 50×15 field, fortresses 18 units out from center.
func DefaultArenaConfig() ArenaConfig {
	return ArenaConfig{
		TickHz:                     30,
		MaxTicks:                   9000,
		FieldWidth:                 fixed.FromInt(50),
		FieldHeight:                fixed.FromInt(15),
		FortressBaseHP:             2500,
		FortressBaseDamage:         30,
		FortressAttackInterval:     12,
		FortressDistanceFromCenter: fixed.FromInt(18),
	}
}

// ModifierSet is a side's additive bonus fractions, composed once at
// setup from the fortress class and the build descriptor.
type ModifierSet struct {
	CritChance       fixed.Val
	CritDamageBonus  fixed.Val
	DamageBonus      fixed.Val
	AttackSpeedBonus fixed.Val
}

// Stats accumulates a side's battle totals.
type Stats struct {
	DamageDealt    int32
	DamageReceived int32
	HeroesKilled   int32
	HeroesLost     int32
}

// Fortress is the stationary objective. Destroying it wins the battle.
type Fortress struct {
	Pos            fixed.Vec
	HP             int32
	MaxHP          int32
	Damage         int32
	Armor          int32
	Class          string
	ProjectileType string
	LastAttackTick int32
}

// Hero is a mobile combat unit. Instances are never reallocated; dead
// heroes keep their array index so target references stay valid.
type Hero struct {
	DefID string
	Tier  int
	Level int32

	HP    int32
	MaxHP int32

	Pos fixed.Vec
	Vel fixed.Vec

	Radius fixed.Val
	Mass   fixed.Val

	State          HeroState
	LastAttackTick int32

	// Effective composed stats (tier × level × upgrades applied).
	Damage      fixed.Val
	AttackSpeed fixed.Val
	Range       fixed.Val
	MoveSpeed   fixed.Val

	// Arena-scoped multipliers and per-hero fractions, fixed at setup.
	DamageMult      fixed.Val
	AttackSpeedMult fixed.Val
	RangeMult       fixed.Val
	CritChance      fixed.Val
	Armor           int32

	ArtifactID string

	// Per-hero damage tally for MVP selection.
	DamageDealt int32
}

// Alive reports whether the hero can act and be selected as a target.
// A hero that reached zero HP this tick is dying, no longer alive, but
// still resolvable by projectiles already bound to it.
func (h *Hero) Alive() bool {
	return h.HP > 0 && h.State != HeroDead
}

// TargetKind classifies a projectile's bound target.
type TargetKind uint8

const (
	TargetHero TargetKind = iota
	TargetFortress
)

// Projectile is an in-flight fortress attack. The target is carried as a
// (side, index) reference, never a pointer, so it survives target death:
// the projectile then resolves against the last known position or
// expires on its next step.
type Projectile struct {
	ID         uint32
	Type       string
	SourceKind string // "fortress" or "turret"
	Damage     int32
	Pos        fixed.Vec
	Speed      fixed.Val
	SpawnTick  int32

	TargetKind    TargetKind
	TargetSide    SideTag
	TargetIndex   int
	LastTargetPos fixed.Vec
}

// Side is one player's half of the arena state.
type Side struct {
	OwnerID     string
	OwnerName   string
	Fortress    Fortress
	Heroes      []Hero
	Projectiles []Projectile
	Modifiers   ModifierSet
	Stats       Stats
}

// LiveHeroes counts heroes still able to act.
func (s *Side) LiveHeroes() int32 {
	var n int32
	for i := range s.Heroes {
		if s.Heroes[i].Alive() {
			n++
		}
	}
	return n
}

// ArenaState is the complete mutable battle state. It is created by New,
// mutated only by Step, and frozen once Ended is set.
type ArenaState struct {
	Tick     int32
	MaxTicks int32
	RNGState uint32

	Left  Side
	Right Side

	Winner    WinnerTag
	WinReason WinReason
	Ended     bool
}

// SideFor returns the side for a tag.
func (a *ArenaState) SideFor(tag SideTag) *Side {
	if tag == SideLeft {
		return &a.Left
	}
	return &a.Right
}
