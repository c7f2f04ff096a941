package sim

import "fortress-arena/internal/fixed"

// targetKind classifies a tick's selected target.
type targetKind uint8

const (
	targetNone targetKind = iota
	targetHero
	targetFortress
	targetMove
)

// tickTarget is the per-tick targeting decision for one hero or fortress.
// HeroIndex is only meaningful for targetHero.
type tickTarget struct {
	Kind      targetKind
	HeroIndex int
	Pos       fixed.Vec
}

// selectHeroTarget ranks a hero's options: the enemy fortress when close
// enough to strike it, else the nearest live enemy hero inside attack
// range, else a move order toward the enemy fortress. Distance ties break
// to the lowest enemy array index, which keeps selection deterministic.
func selectHeroTarget(enemy *Side, h *Hero) tickTarget {
	fortDist := fixed.DistSq(h.Pos, enemy.Fortress.Pos)
	if fortDist <= fixed.Mul(FortressAttackDistance, FortressAttackDistance) {
		return tickTarget{Kind: targetFortress, Pos: enemy.Fortress.Pos}
	}

	attackRange := fixed.Mul(h.Range, h.RangeMult)
	rangeSq := fixed.Mul(attackRange, attackRange)

	best := -1
	var bestDist fixed.Val
	for i := range enemy.Heroes {
		e := &enemy.Heroes[i]
		if !e.Alive() {
			continue
		}
		d := fixed.DistSq(h.Pos, e.Pos)
		if d > rangeSq {
			continue
		}
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best >= 0 {
		return tickTarget{Kind: targetHero, HeroIndex: best, Pos: enemy.Heroes[best].Pos}
	}

	return tickTarget{Kind: targetMove, Pos: enemy.Fortress.Pos}
}

// selectFortressTarget picks the closest live enemy hero within fortress
// attack range, falling back to the enemy fortress itself. Same tie-break
// rule as hero targeting.
func selectFortressTarget(enemy *Side, f *Fortress) tickTarget {
	rangeSq := fixed.Mul(FortressAttackRange, FortressAttackRange)

	best := -1
	var bestDist fixed.Val
	for i := range enemy.Heroes {
		e := &enemy.Heroes[i]
		if !e.Alive() {
			continue
		}
		d := fixed.DistSq(f.Pos, e.Pos)
		if d > rangeSq {
			continue
		}
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best >= 0 {
		return tickTarget{Kind: targetHero, HeroIndex: best, Pos: enemy.Heroes[best].Pos}
	}
	return tickTarget{Kind: targetFortress, Pos: enemy.Fortress.Pos}
}
