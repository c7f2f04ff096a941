package sim

import (
	"fmt"

	"fortress-arena/internal/fixed"
)

// Simulation owns one battle: configuration, world state, the RNG, the
// replay recorder and the running chain hash. It is not safe for
// concurrent use; run independent battles on independent instances.
type Simulation struct {
	cfg   ArenaConfig
	state ArenaState
	rng   *RNG
	rec   *Recorder

	chain         chainHash
	finalHash     uint32
	projectileSeq uint32
}

// New validates the inputs and constructs a battle. All validation
// happens here; a constructed Simulation cannot fail.
func New(seed uint32, left, right BuildSpec, cfg ArenaConfig) (*Simulation, error) {
	if seed == 0 {
		return nil, errZeroSeed()
	}
	if err := left.validate("left"); err != nil {
		return nil, err
	}
	if err := right.validate("right"); err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:   cfg,
		rng:   NewRNG(seed),
		rec:   NewRecorder(),
		chain: newChainHash(RulesetVersion),
	}
	s.state = ArenaState{
		MaxTicks: cfg.MaxTicks,
		RNGState: seed,
		Left:     newSide(&left, &cfg, SideLeft),
		Right:    newSide(&right, &cfg, SideRight),
	}
	return s, nil
}

func errZeroSeed() error {
	return fmt.Errorf("%w: seed must be non-zero", ErrInvalidInput)
}

// State exposes the battle state, read-only by convention.
func (s *Simulation) State() *ArenaState {
	return &s.state
}

// Events exposes the replay log recorded so far.
func (s *Simulation) Events() []ReplayEvent {
	return s.rec.Events()
}

// Config returns the arena configuration.
func (s *Simulation) Config() ArenaConfig {
	return s.cfg
}

// Hash returns the chained run hash. Before termination it reflects the
// ticks folded so far; after termination it is the final signature both
// sides of a verification compare.
func (s *Simulation) Hash() uint32 {
	if s.state.Ended {
		return s.finalHash
	}
	return s.chain.sum()
}

// Step advances the battle one tick. Side update order alternates by
// tick parity so identical builds do not carry a structural first-mover
// advantage. Once the battle has ended, Step is a no-op and no field
// mutates.
func (s *Simulation) Step() {
	if s.state.Ended {
		return
	}

	s.rng.SetState(s.state.RNGState)
	s.promoteDying()

	first, second := SideLeft, SideRight
	if s.state.Tick%2 == 1 {
		first, second = SideRight, SideLeft
	}

	s.updateSide(first)
	s.updateSide(second)

	s.updateProjectiles(SideLeft)
	s.updateProjectiles(SideRight)

	s.checkEnd()

	s.state.RNGState = s.rng.State()
	s.foldTick()
	s.state.Tick++

	if s.state.Ended {
		s.finalize()
	}
}

// Run steps the battle to termination and returns the result. The
// maxTicks timeout guarantees the loop is bounded.
func (s *Simulation) Run() Result {
	for !s.state.Ended {
		s.Step()
	}
	return s.buildResult()
}

// promoteDying moves heroes that died last tick to the dead state, so a
// kill makes its victim non-attackable from the following tick onward.
func (s *Simulation) promoteDying() {
	for _, tag := range [2]SideTag{SideLeft, SideRight} {
		side := s.state.SideFor(tag)
		for i := range side.Heroes {
			if side.Heroes[i].State == HeroDying {
				side.Heroes[i].State = HeroDead
			}
		}
	}
}

// updateSide runs one side's hero loop then its fortress attack step.
func (s *Simulation) updateSide(tag SideTag) {
	side := s.state.SideFor(tag)
	enemy := s.state.SideFor(tag.Opponent())

	for i := range side.Heroes {
		h := &side.Heroes[i]
		if !h.Alive() {
			continue
		}
		h.State = HeroIdle

		tgt := selectHeroTarget(enemy, h)
		s.heroTryAttack(tag, i, tgt)

		// A hero in striking range of the fortress stands its ground,
		// whether it fired this tick or is waiting out its cooldown;
		// everyone else keeps moving. Clamp and exclusion run for every
		// hero so the boundary invariants hold even while stationary.
		if tgt.Kind == targetFortress {
			h.Vel = fixed.Vec{}
			s.clampToField(h)
			s.enforceExclusion(h, &s.state.Left.Fortress)
			s.enforceExclusion(h, &s.state.Right.Fortress)
			continue
		}
		s.moveHero(h, tgt)
	}

	s.fortressTryAttack(tag)
}

// checkEnd evaluates the end conditions: simultaneous destruction is a
// draw, single destruction a win, and the safety timeout resolves on the
// higher fortress HP fraction.
func (s *Simulation) checkEnd() {
	leftDown := s.state.Left.Fortress.HP <= 0
	rightDown := s.state.Right.Fortress.HP <= 0

	switch {
	case leftDown && rightDown:
		s.end(WinnerNone, WinReasonDraw)
	case rightDown:
		s.end(WinnerLeft, WinReasonFortressDestroyed)
	case leftDown:
		s.end(WinnerRight, WinReasonFortressDestroyed)
	case s.state.Tick+1 >= s.state.MaxTicks:
		s.resolveTimeout()
	}
}

// resolveTimeout compares fortress HP fractions. Real arithmetic is fine
// here: the comparison is final and never re-hashed.
func (s *Simulation) resolveTimeout() {
	leftPct := float64(s.state.Left.Fortress.HP) / float64(s.state.Left.Fortress.MaxHP)
	rightPct := float64(s.state.Right.Fortress.HP) / float64(s.state.Right.Fortress.MaxHP)

	switch {
	case leftPct > rightPct:
		s.end(WinnerLeft, WinReasonTimeout)
	case rightPct > leftPct:
		s.end(WinnerRight, WinReasonTimeout)
	default:
		s.end(WinnerNone, WinReasonDraw)
	}
}

func (s *Simulation) end(w WinnerTag, r WinReason) {
	s.state.Winner = w
	s.state.WinReason = r
	s.state.Ended = true
}

// foldTick hashes the tick's state in the documented field order and
// folds the digest into the chain. Field order is the conformance
// contract: tick, rngState, then per side (left, right): fortress hp and
// lastAttackTick, side totals, each hero's hp/position/state, and each
// in-flight projectile's id, position and damage.
func (s *Simulation) foldTick() {
	h := NewHasher()
	h.WriteInt32(s.state.Tick)
	h.WriteUint32(s.state.RNGState)

	for _, tag := range [2]SideTag{SideLeft, SideRight} {
		side := s.state.SideFor(tag)
		h.WriteInt32(side.Fortress.HP)
		h.WriteInt32(side.Fortress.LastAttackTick)
		h.WriteInt32(side.Stats.DamageDealt)
		h.WriteInt32(side.Stats.DamageReceived)
		for i := range side.Heroes {
			hero := &side.Heroes[i]
			h.WriteInt32(hero.HP)
			h.WriteInt32(int32(hero.Pos.X))
			h.WriteInt32(int32(hero.Pos.Y))
			h.WriteUint32(uint32(hero.State))
		}
		for i := range side.Projectiles {
			p := &side.Projectiles[i]
			h.WriteUint32(p.ID)
			h.WriteInt32(int32(p.Pos.X))
			h.WriteInt32(int32(p.Pos.Y))
			h.WriteInt32(p.Damage)
		}
	}

	s.chain.fold(h.Sum32())
}

// finalize folds the result summary into the chain and freezes the final
// hash. Field order: tick, winner, winReason, duration, then each side's
// final fortress HP and total damage.
func (s *Simulation) finalize() {
	s.chain.h.WriteInt32(s.state.Tick)
	s.chain.h.foldByte(byte(s.state.Winner))
	s.chain.h.foldByte(byte(s.state.WinReason))
	s.chain.h.WriteInt32(s.state.Tick)
	s.chain.h.WriteInt32(s.state.Left.Fortress.HP)
	s.chain.h.WriteInt32(s.state.Left.Stats.DamageDealt)
	s.chain.h.WriteInt32(s.state.Right.Fortress.HP)
	s.chain.h.WriteInt32(s.state.Right.Stats.DamageDealt)
	s.finalHash = s.chain.sum()
}
