package sim

import (
	"fortress-arena/internal/data"
	"fortress-arena/internal/fixed"
)

// Combat resolution: cadence gating, crit rolls, the arena damage scalar
// and armor mitigation. All damage amounts are plain int32 once rolled;
// the fractional composition happens in Q16.16 with truncation.

// attackInterval converts an effective attack speed (attacks/sec) into a
// tick cadence: max(1, floor(tickHz / effectiveAttackSpeed)).
func attackInterval(tickHz int32, effectiveAttackSpeed fixed.Val) int32 {
	if effectiveAttackSpeed <= 0 {
		return tickHz
	}
	interval := fixed.Div(fixed.FromInt(tickHz), effectiveAttackSpeed).Int()
	if interval < 1 {
		return 1
	}
	return interval
}

// heroAttackInterval computes the hero's cadence under its arena
// attack-speed multiplier and the side's attack-speed bonus.
func (s *Simulation) heroAttackInterval(side *Side, h *Hero) int32 {
	eff := fixed.Mul(fixed.Mul(h.AttackSpeed, h.AttackSpeedMult), fixed.One+side.Modifiers.AttackSpeedBonus)
	return attackInterval(s.cfg.TickHz, eff)
}

// rollDamage runs the damage pipeline for one attack:
//
//  1. base   = floor(damageStat × (1 + damageBonus))
//  2. crit   = nextFloat() < critChance          (one draw, always taken)
//  3. raw    = floor(base × arenaMult × (1 + critDamageBonus if crit))
//  4. scaled = max(1, floor(raw × 0.45))
//
// Armor mitigation happens on receipt, not here, because the projectile
// engine needs the pre-mitigation amount in flight.
func (s *Simulation) rollDamage(mods *ModifierSet, damageStat fixed.Val, critChance, arenaMult fixed.Val) (int32, bool) {
	base := fixed.Mul(damageStat, fixed.One+mods.DamageBonus).Int()

	crit := s.rng.NextFloat() < critChance.Float()

	rawFP := fixed.Mul(fixed.FromInt(base), arenaMult)
	if crit {
		rawFP = fixed.Mul(rawFP, fixed.One+mods.CritDamageBonus)
	}
	raw := rawFP.Int()

	scaled := int32((int64(raw) * int64(ArenaDamageScalar)) >> fixed.Shift)
	if scaled < 1 {
		scaled = 1
	}
	return scaled, crit
}

// mitigate applies armor on receipt: the armor value is capped, then the
// delivered amount is max(1, floor(d × 100 / (100 + armor))).
func mitigate(d, armor int32) int32 {
	if armor > data.MaxArmorCap {
		armor = data.MaxArmorCap
	}
	if armor < 0 {
		armor = 0
	}
	delivered := d * 100 / (100 + armor)
	if delivered < 1 {
		delivered = 1
	}
	return delivered
}

// applyHeroDamage delivers a pre-mitigation amount to a hero, updating
// both sides' totals and recording events, and returns the delivered
// amount. The hero death transition fires exactly once, on the drop from
// positive HP to zero; heroes already at zero absorb late projectile
// hits without a second death.
func (s *Simulation) applyHeroDamage(attackerTag SideTag, targetTag SideTag, idx int, d int32) int32 {
	attacker := s.state.SideFor(attackerTag)
	defender := s.state.SideFor(targetTag)
	h := &defender.Heroes[idx]

	// Overkill is clamped to the remaining HP so damage totals reconcile
	// exactly with HP loss; a target already at zero absorbs nothing.
	delivered := mitigate(d, h.Armor)
	if delivered > h.HP {
		delivered = h.HP
	}
	if delivered <= 0 {
		return 0
	}
	wasAlive := h.HP > 0

	h.HP -= delivered

	attacker.Stats.DamageDealt += delivered
	defender.Stats.DamageReceived += delivered

	s.rec.Append(ReplayEvent{
		Tick:        s.state.Tick,
		Kind:        EventDamage,
		Side:        targetTag,
		HeroID:      h.DefID,
		TargetIndex: int32(idx),
		Damage:      delivered,
		RemainingHP: h.HP,
	})

	if wasAlive && h.HP == 0 {
		h.State = HeroDying
		h.Vel = fixed.Vec{}
		attacker.Stats.HeroesKilled++
		defender.Stats.HeroesLost++
		s.rec.Append(ReplayEvent{
			Tick:        s.state.Tick,
			Kind:        EventHeroDeath,
			Side:        targetTag,
			HeroID:      h.DefID,
			TargetIndex: int32(idx),
			Damage:      delivered,
		})
	}
	return delivered
}

// applyFortressDamage delivers a pre-mitigation amount to a fortress and
// returns the delivered amount.
func (s *Simulation) applyFortressDamage(attackerTag SideTag, targetTag SideTag, d int32) int32 {
	attacker := s.state.SideFor(attackerTag)
	defender := s.state.SideFor(targetTag)
	f := &defender.Fortress

	delivered := mitigate(d, f.Armor)
	if delivered > f.HP {
		delivered = f.HP
	}
	if delivered <= 0 {
		return 0
	}
	f.HP -= delivered

	attacker.Stats.DamageDealt += delivered
	defender.Stats.DamageReceived += delivered

	s.rec.Append(ReplayEvent{
		Tick:        s.state.Tick,
		Kind:        EventFortressDamage,
		Side:        targetTag,
		Damage:      delivered,
		RemainingHP: f.HP,
	})
	return delivered
}

// heroTryAttack executes a cadence-gated attack against the selected
// target. Hero attacks in the 1v1 arena deal damage immediately; only
// fortresses fire projectiles. Returns whether an attack happened.
func (s *Simulation) heroTryAttack(tag SideTag, idx int, tgt tickTarget) bool {
	side := s.state.SideFor(tag)
	h := &side.Heroes[idx]

	if tgt.Kind != targetHero && tgt.Kind != targetFortress {
		return false
	}
	if s.state.Tick-h.LastAttackTick < s.heroAttackInterval(side, h) {
		return false
	}

	dmg, _ := s.rollDamage(&side.Modifiers, h.Damage, h.CritChance, h.DamageMult)
	h.LastAttackTick = s.state.Tick
	h.State = HeroAttacking

	var delivered int32
	if tgt.Kind == targetFortress {
		delivered = s.applyFortressDamage(tag, tag.Opponent(), dmg)
	} else {
		delivered = s.applyHeroDamage(tag, tag.Opponent(), tgt.HeroIndex, dmg)
	}
	h.DamageDealt += delivered
	return true
}

// fortressTryAttack runs one side's fortress attack step: cadence check,
// target selection, crit roll, projectile spawn.
func (s *Simulation) fortressTryAttack(tag SideTag) {
	side := s.state.SideFor(tag)
	f := &side.Fortress
	if f.HP <= 0 {
		return
	}
	if s.state.Tick-f.LastAttackTick < s.cfg.FortressAttackInterval {
		return
	}

	enemy := s.state.SideFor(tag.Opponent())
	tgt := selectFortressTarget(enemy, f)

	dmg, _ := s.rollDamage(&side.Modifiers, fixed.FromInt(f.Damage), side.Modifiers.CritChance, fixed.One)
	f.LastAttackTick = s.state.Tick

	s.spawnProjectile(tag, f, tgt, dmg)
}
