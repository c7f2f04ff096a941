package sim

import "fortress-arena/internal/fixed"

// Projectile engine. Fortress attacks spawn a projectile bound to a
// (side, index) target reference; per tick each in-flight projectile
// ray-marches toward the target's current position and resolves by a
// ray-to-circle intersection with a clamped parameter, so a target that
// moves between the old and new projectile positions is still hit.

// spawnProjectile creates a projectile at the fortress aimed at the
// selected target and records the spawn event.
func (s *Simulation) spawnProjectile(tag SideTag, f *Fortress, tgt tickTarget, damage int32) {
	side := s.state.SideFor(tag)

	s.projectileSeq++
	p := Projectile{
		ID:         s.projectileSeq,
		Type:       f.ProjectileType,
		SourceKind: "fortress",
		Damage:     damage,
		Pos:        f.Pos,
		Speed:      ProjectileSpeed,
		SpawnTick:  s.state.Tick,
		TargetSide: tag.Opponent(),
	}
	if tgt.Kind == targetHero {
		p.TargetKind = TargetHero
		p.TargetIndex = tgt.HeroIndex
	} else {
		p.TargetKind = TargetFortress
		p.TargetIndex = -1
	}
	p.LastTargetPos = tgt.Pos

	side.Projectiles = append(side.Projectiles, p)

	s.rec.Append(ReplayEvent{
		Tick:    s.state.Tick,
		Kind:    EventProjectileSpawn,
		Side:    tag,
		Damage:  damage,
		StartX:  f.Pos.X,
		StartY:  f.Pos.Y,
		TargetX: tgt.Pos.X,
		TargetY: tgt.Pos.Y,
	})
}

// updateProjectiles steps every in-flight projectile of one side,
// removing those that hit or expired with the in-place filter idiom so
// no allocation happens in the tick loop.
func (s *Simulation) updateProjectiles(tag SideTag) {
	side := s.state.SideFor(tag)

	n := 0
	for i := range side.Projectiles {
		p := &side.Projectiles[i]
		if s.stepProjectile(tag, p) {
			side.Projectiles[n] = *p
			n++
		}
	}
	side.Projectiles = side.Projectiles[:n]
}

// stepProjectile advances one projectile by one tick. Returns false when
// the projectile must be removed (hit, immediate resolution, or expiry
// against a dead target).
func (s *Simulation) stepProjectile(tag SideTag, p *Projectile) bool {
	targetSide := s.state.SideFor(p.TargetSide)

	// Resolve the current target circle. A dead hero target is resolved
	// against its last known position with a tiny radius; if that step
	// misses, the projectile expires rather than chasing a corpse.
	var targetPos fixed.Vec
	var hitRadius fixed.Val
	targetDead := false

	switch p.TargetKind {
	case TargetFortress:
		targetPos = targetSide.Fortress.Pos
		hitRadius = FortressHitRadius
	default:
		h := &targetSide.Heroes[p.TargetIndex]
		if h.HP > 0 {
			targetPos = h.Pos
			p.LastTargetPos = h.Pos
			hitRadius = h.Radius + HeroHitRadiusPad
		} else {
			targetPos = p.LastTargetPos
			hitRadius = DeadTargetHitRadius
			targetDead = true
		}
	}

	delta := targetPos.Sub(p.Pos)
	epsSq := fixed.Mul(fixed.Epsilon, fixed.Epsilon)
	if delta.LengthSq() <= epsSq {
		// Coincident with the target: resolve immediately.
		s.deliverProjectile(tag, p, targetDead)
		return false
	}

	dir := delta.Normalize()
	next := p.Pos.Add(dir.Scale(p.Speed))

	if rayHitsCircle(p.Pos, next, targetPos, hitRadius) {
		s.deliverProjectile(tag, p, targetDead)
		return false
	}

	if targetDead {
		// Missed the last known position; nothing left to hit.
		return false
	}

	p.Pos = next
	return true
}

// deliverProjectile applies a projectile's damage through the normal
// mitigation path. Hits on a target that died in flight burn the
// projectile without crediting damage to anyone.
func (s *Simulation) deliverProjectile(tag SideTag, p *Projectile, targetDead bool) {
	if targetDead {
		return
	}
	if p.TargetKind == TargetFortress {
		s.applyFortressDamage(tag, p.TargetSide, p.Damage)
		return
	}
	s.applyHeroDamage(tag, p.TargetSide, p.TargetIndex, p.Damage)
}

// rayHitsCircle tests the segment from → to against a circle at center
// with the given radius, using the clamped parameter t ∈ [0, 1] so the
// projectile cannot pass through a target that moved between endpoints.
func rayHitsCircle(from, to, center fixed.Vec, radius fixed.Val) bool {
	d := to.Sub(from)
	f := from.Sub(center)

	dd := d.LengthSq()
	if dd == 0 {
		return f.LengthSq() <= fixed.Mul(radius, radius)
	}

	t := fixed.Div(-f.Dot(d), dd)
	t = fixed.Clamp(t, 0, fixed.One)

	closest := from.Add(d.Scale(t))
	return fixed.DistSq(closest, center) <= fixed.Mul(radius, radius)
}
