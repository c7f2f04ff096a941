// Package guild implements the 5v5 guild-arena battle: a pure
// hero-vs-hero variant with no fortresses and no projectiles, sharing the
// fixed-point layer, RNG stream and hash primitives with the 1v1 core.
// Power scores replace commander progression, and timeout resolution
// compares aggregate remaining HP.
package guild

import (
	"errors"
	"fmt"

	"fortress-arena/internal/data"
	"fortress-arena/internal/fixed"
	"fortress-arena/internal/sim"
)

// ErrInvalidInput wraps every construction-time validation failure.
var ErrInvalidInput = errors.New("invalid input")

// Battle constants. The 60-second timeout is tuned independently of the
// 1v1 arena's five-minute cap; do not unify them.
const (
	MaxTicks     int32 = 1800
	TickHz       int32 = 30
	TeamSize           = 5

	// MaxPowerScore bounds the power input so scaled stats stay inside
	// 32-bit fixed point.
	MaxPowerScore int32 = 100_000
	AttackRange  fixed.Val = 3 << 16
	CritChance         = 0.15
	CritBonus    fixed.Val = 98304 // 1.5 damage multiplier on crit
	KeyMomentCritCap   = 50
)

// FieldWidth and FieldHeight define the 20×15 guild arena.
var (
	FieldWidth  = fixed.FromInt(20)
	FieldHeight = fixed.FromInt(15)
)

// Team identifies the attacking or defending five.
type Team uint8

const (
	TeamAttackers Team = iota
	TeamDefenders
)

// String returns the team name.
func (t Team) String() string {
	if t == TeamAttackers {
		return "attackers"
	}
	return "defenders"
}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamAttackers {
		return TeamDefenders
	}
	return TeamAttackers
}

// Combatant is one roster entry: a hero reference with its owner and the
// power score that scales its stats.
type Combatant struct {
	OwnerID string `json:"ownerId"`
	HeroID  string `json:"heroId"`
	Tier    int    `json:"tier"`
	Power   int32  `json:"power"`
}

// fighter is the in-battle state for one combatant.
type fighter struct {
	Combatant

	HP    int32
	MaxHP int32

	Damage      fixed.Val
	MoveSpeed   fixed.Val
	AttackIntvl int32

	Pos fixed.Vec

	TargetIndex    int // enemy index; -1 when unset
	LastAttackTick int32
	DamageDealt    int32
}

func (f *fighter) alive() bool {
	return f.HP > 0
}

// Battle is one 5v5 guild-arena match in progress.
type Battle struct {
	tick  int32
	rng   *sim.RNG
	teams [2][]fighter

	ended  bool
	winner Team
	draw   bool

	chainSum  uint32
	chain     chainState
	killLog   []Kill
	moments   []KeyMoment
	critCount int
}

// chainState mirrors the 1v1 chain hash over sim.Hasher.
type chainState struct {
	h sim.Hasher
}

// New validates both rosters and builds the battle. Spawn jitter draws
// one RNG word per fighter, attackers first then defenders, each roster
// in index order.
func New(seed uint32, attackers, defenders []Combatant) (*Battle, error) {
	if seed == 0 {
		return nil, fmt.Errorf("%w: seed must be non-zero", ErrInvalidInput)
	}
	if err := validateRoster(attackers, "attackers"); err != nil {
		return nil, err
	}
	if err := validateRoster(defenders, "defenders"); err != nil {
		return nil, err
	}

	b := &Battle{
		rng:     sim.NewRNG(seed),
		killLog: make([]Kill, 0, 8),
		moments: make([]KeyMoment, 0, 16),
	}
	b.chain.h = sim.NewHasher()
	b.chain.h.WriteUint32(sim.RulesetVersion)

	b.teams[TeamAttackers] = b.spawnTeam(attackers, TeamAttackers)
	b.teams[TeamDefenders] = b.spawnTeam(defenders, TeamDefenders)

	b.moments = append(b.moments, KeyMoment{Tick: 0, Kind: MomentBattleStart})
	return b, nil
}

func validateRoster(roster []Combatant, label string) error {
	if len(roster) == 0 || len(roster) > TeamSize {
		return fmt.Errorf("%w: %s roster size %d out of [1,%d]", ErrInvalidInput, label, len(roster), TeamSize)
	}
	for _, c := range roster {
		if _, ok := data.GetHeroByID(c.HeroID); !ok {
			return fmt.Errorf("%w: %s unknown hero id %q", ErrInvalidInput, label, c.HeroID)
		}
		if c.Tier < 1 || c.Tier > 3 {
			return fmt.Errorf("%w: %s hero %q tier %d out of {1,2,3}", ErrInvalidInput, label, c.HeroID, c.Tier)
		}
		if c.Power < 0 || c.Power > MaxPowerScore {
			return fmt.Errorf("%w: %s hero %q power %d out of [0,%d]", ErrInvalidInput, label, c.HeroID, c.Power, MaxPowerScore)
		}
	}
	return nil
}

// spawnTeam places a roster on its edge of the field. Lateral offsets
// derive from the slot index plus one RNG draw per fighter, consumed in
// roster order.
func (b *Battle) spawnTeam(roster []Combatant, team Team) []fighter {
	x := fixed.FromFloat(1.5)
	if team == TeamDefenders {
		x = FieldWidth - fixed.FromFloat(1.5)
	}

	fighters := make([]fighter, 0, len(roster))
	for i, c := range roster {
		def, _ := data.GetHeroByID(c.HeroID)
		stats := data.CalculateHeroStats(def, c.Tier, 1)

		// Power scaling: max(1, power/1000).
		scale := fixed.Div(fixed.FromInt(c.Power), fixed.FromInt(1000))
		if scale < fixed.One {
			scale = fixed.One
		}

		// 64-bit intermediate: high power scores push scaled HP past
		// what a Q16.16 value can hold.
		hp := int32(int64(stats.HP) * int64(scale) >> fixed.Shift)
		damage := fixed.Mul(stats.Damage, scale)

		// Slot rows are evenly spaced; the jitter draw shifts each
		// fighter up to half a unit so stacked rosters do not overlap.
		u := b.rng.NextFloat()
		base := fixed.Div(fixed.Mul(fixed.FromInt(int32(i)+1), FieldHeight), fixed.FromInt(int32(TeamSize)+1))
		jitter := fixed.FromFloat(u - 0.5)
		y := fixed.Clamp(base+jitter, 0, FieldHeight)

		fighters = append(fighters, fighter{
			Combatant:      c,
			HP:             hp,
			MaxHP:          hp,
			Damage:         damage,
			MoveSpeed:      stats.MoveSpeed,
			AttackIntvl:    attackCadence(stats.AttackSpeed),
			Pos:            fixed.Vec{X: x, Y: y},
			TargetIndex:    -1,
			LastAttackTick: -9999,
		})
	}
	return fighters
}

func attackCadence(attackSpeed fixed.Val) int32 {
	if attackSpeed <= 0 {
		return TickHz
	}
	n := fixed.Div(fixed.FromInt(TickHz), attackSpeed).Int()
	if n < 1 {
		return 1
	}
	return n
}

// Step advances one tick. Team update order alternates by tick parity,
// matching the 1v1 arena's bias removal. Within a team, fighters act in
// index order; each acting fighter's RNG draws happen in the documented
// order: target reselection, then damage variance, then crit.
func (b *Battle) Step() {
	if b.ended {
		return
	}

	first, second := TeamAttackers, TeamDefenders
	if b.tick%2 == 1 {
		first, second = TeamDefenders, TeamAttackers
	}

	b.updateTeam(first)
	b.updateTeam(second)

	b.checkEnd()
	b.foldTick()
	b.tick++

	if b.ended {
		b.finalize()
	}
}

// Run steps to termination and builds the report.
func (b *Battle) Run() Report {
	for !b.ended {
		b.Step()
	}
	return b.buildReport()
}

func (b *Battle) updateTeam(team Team) {
	enemies := b.teams[team.Opponent()]

	for i := range b.teams[team] {
		f := &b.teams[team][i]
		if !f.alive() {
			continue
		}

		// Reselect when the kept target is unset or died: one uniform
		// draw indexes the live enemies.
		if f.TargetIndex < 0 || !enemies[f.TargetIndex].alive() {
			f.TargetIndex = b.pickTarget(enemies)
		}
		if f.TargetIndex < 0 {
			continue // no live enemies; the end check will close the battle
		}

		target := &b.teams[team.Opponent()][f.TargetIndex]
		delta := target.Pos.Sub(f.Pos)
		distSq := delta.LengthSq()
		rangeSq := fixed.Mul(AttackRange, AttackRange)

		if distSq > rangeSq {
			dir := delta.Normalize()
			f.Pos = f.Pos.Add(dir.Scale(f.MoveSpeed))
			f.Pos.X = fixed.Clamp(f.Pos.X, 0, FieldWidth)
			f.Pos.Y = fixed.Clamp(f.Pos.Y, 0, FieldHeight)
			continue
		}

		if b.tick-f.LastAttackTick < f.AttackIntvl {
			continue
		}
		b.attack(team, f, target)
	}
}

// pickTarget samples floor(u × liveCount) over the live enemies.
func (b *Battle) pickTarget(enemies []fighter) int {
	live := make([]int, 0, TeamSize)
	for i := range enemies {
		if enemies[i].alive() {
			live = append(live, i)
		}
	}
	if len(live) == 0 {
		return -1
	}
	u := b.rng.NextFloat()
	pick := int(u * float64(len(live)))
	if pick >= len(live) {
		pick = len(live) - 1
	}
	return live[pick]
}

// attack rolls variance then crit, applies damage, and records kills and
// key moments.
func (b *Battle) attack(team Team, f *fighter, target *fighter) {
	f.LastAttackTick = b.tick

	// ±10% damage variance: 0.9 + 0.2·(word/2³²) in Q16.16, computed in
	// integers as (9·2³² + 2·word) / 655360.
	w := int64(b.rng.Next())
	variance := fixed.Val(((int64(9) << 32) + 2*w) / 655360)
	dmgFP := fixed.Mul(f.Damage, variance)

	crit := b.rng.NextFloat() < CritChance
	if crit {
		dmgFP = fixed.Mul(dmgFP, CritBonus)
	}

	dmg := dmgFP.Int()
	if dmg < 1 {
		dmg = 1
	}
	if dmg > target.HP {
		dmg = target.HP
	}

	target.HP -= dmg
	f.DamageDealt += dmg

	if crit && b.critCount < KeyMomentCritCap {
		b.critCount++
		b.moments = append(b.moments, KeyMoment{
			Tick:   b.tick,
			Kind:   MomentCrit,
			Actor:  f.HeroID,
			Victim: target.HeroID,
			Damage: dmg,
		})
	}

	if target.HP == 0 {
		b.killLog = append(b.killLog, Kill{
			Tick:        b.tick,
			KillerOwner: f.OwnerID,
			KillerHero:  f.HeroID,
			VictimOwner: target.OwnerID,
			VictimHero:  target.HeroID,
		})
		b.moments = append(b.moments, KeyMoment{
			Tick:   b.tick,
			Kind:   MomentKill,
			Actor:  f.HeroID,
			Victim: target.HeroID,
			Damage: dmg,
		})
	}
}

// checkEnd resolves elimination, then the timeout by aggregate HP.
func (b *Battle) checkEnd() {
	attAlive := teamAlive(b.teams[TeamAttackers])
	defAlive := teamAlive(b.teams[TeamDefenders])

	switch {
	case attAlive == 0 && defAlive == 0:
		b.ended, b.draw = true, true
	case defAlive == 0:
		b.ended, b.winner = true, TeamAttackers
	case attAlive == 0:
		b.ended, b.winner = true, TeamDefenders
	case b.tick+1 >= MaxTicks:
		attHP := teamHP(b.teams[TeamAttackers])
		defHP := teamHP(b.teams[TeamDefenders])
		b.ended = true
		switch {
		case attHP > defHP:
			b.winner = TeamAttackers
		case defHP > attHP:
			b.winner = TeamDefenders
		default:
			b.draw = true
		}
	}
}

func teamAlive(fs []fighter) int {
	n := 0
	for i := range fs {
		if fs[i].alive() {
			n++
		}
	}
	return n
}

func teamHP(fs []fighter) int64 {
	var sum int64
	for i := range fs {
		if fs[i].HP > 0 {
			sum += int64(fs[i].HP)
		}
	}
	return sum
}

// foldTick mixes the tick state into the chain hash: tick, RNG state,
// then each fighter's HP and position in team-then-index order.
func (b *Battle) foldTick() {
	h := sim.NewHasher()
	h.WriteInt32(b.tick)
	h.WriteUint32(b.rng.State())
	for _, team := range [2]Team{TeamAttackers, TeamDefenders} {
		for i := range b.teams[team] {
			f := &b.teams[team][i]
			h.WriteInt32(f.HP)
			h.WriteInt32(int32(f.Pos.X))
			h.WriteInt32(int32(f.Pos.Y))
		}
	}
	b.chain.h.WriteUint32(h.Sum32())
}

func (b *Battle) finalize() {
	b.moments = append(b.moments, KeyMoment{Tick: b.tick, Kind: MomentBattleEnd})
	b.chain.h.WriteInt32(b.tick)
	if b.draw {
		b.chain.h.WriteUint32(0xffffffff)
	} else {
		b.chain.h.WriteUint32(uint32(b.winner))
	}
	b.chainSum = b.chain.h.Sum32()
}

// Tick returns the current tick count.
func (b *Battle) Tick() int32 {
	return b.tick
}

// Ended reports whether the battle has terminated.
func (b *Battle) Ended() bool {
	return b.ended
}
