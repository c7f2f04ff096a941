package sim

import "fortress-arena/internal/fixed"

// moveHero integrates one hero for one tick: desired direction from the
// targeting decision, preferred-combat-distance offset against hero
// targets, friction, speed clamp, position integration, field clamp, and
// fortress exclusion against both fortresses.
func (s *Simulation) moveHero(h *Hero, tgt tickTarget) {
	epsSq := fixed.Mul(fixed.Epsilon, fixed.Epsilon)

	goal := tgt.Pos
	if tgt.Kind == targetNone {
		h.Vel = fixed.Vec{}
		return
	}

	if tgt.Kind == targetHero {
		// Hold the preferred combat distance: when too close to the
		// enemy, the movement goal is relocated along the away-from-
		// enemy direction so models do not overlap.
		attackRange := fixed.Mul(h.Range, h.RangeMult)
		preferred := fixed.Mul(attackRange, HeroPreferredCombatDistanceRatio)
		delta := h.Pos.Sub(tgt.Pos)
		if delta.LengthSq() < fixed.Mul(preferred, preferred) {
			away := delta.Normalize()
			goal = tgt.Pos.Add(away.Scale(preferred))
		}
	}

	toGoal := goal.Sub(h.Pos)
	if toGoal.LengthSq() <= epsSq {
		h.Vel = fixed.Vec{}
		return
	}

	dir := toGoal.Normalize()
	v := dir.Scale(h.MoveSpeed)
	v = v.Scale(Friction)

	// Clamp speed.
	maxSq := fixed.Mul(HeroMaxSpeed, HeroMaxSpeed)
	if v.LengthSq() > maxSq {
		v = v.Normalize().Scale(HeroMaxSpeed)
	}

	h.Vel = v
	h.Pos = h.Pos.Add(v)
	if h.State != HeroAttacking {
		h.State = HeroMoving
	}

	s.clampToField(h)
	s.enforceExclusion(h, &s.state.Left.Fortress)
	s.enforceExclusion(h, &s.state.Right.Fortress)
}

// clampToField keeps a hero inside [0, fieldWidth] × [0, fieldHeight].
func (s *Simulation) clampToField(h *Hero) {
	h.Pos.X = fixed.Clamp(h.Pos.X, 0, s.cfg.FieldWidth)
	h.Pos.Y = fixed.Clamp(h.Pos.Y, 0, s.cfg.FieldHeight)
}

// enforceExclusion pushes a hero whose centre is strictly inside a
// fortress's exclusion disc radially out to the boundary and zeroes its
// velocity. A hero coincident with the fortress centre (squared distance
// at or below Mul(Epsilon, Epsilon), which truncates to zero) is left in
// place: there is no radial direction to push along and a square root
// there would not be portable.
func (s *Simulation) enforceExclusion(h *Hero, f *Fortress) {
	delta := h.Pos.Sub(f.Pos)
	dsq := delta.LengthSq()
	rsq := fixed.Mul(FortressExclusionRadius, FortressExclusionRadius)
	epsSq := fixed.Mul(fixed.Epsilon, fixed.Epsilon)

	if dsq >= rsq || dsq <= epsSq {
		return
	}

	out := delta.Normalize()
	h.Pos = f.Pos.Add(out.Scale(FortressExclusionRadius))
	h.Vel = fixed.Vec{}
	s.clampToField(h)
}
