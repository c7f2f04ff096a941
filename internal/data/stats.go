package data

import "fortress-arena/internal/fixed"

// BaseStats is the composed stat block for a hero at a given tier and
// level. Fractional stats are Q16.16; HP is integer.
type BaseStats struct {
	Damage      fixed.Val
	AttackSpeed fixed.Val
	Range       fixed.Val
	MoveSpeed   fixed.Val
	HP          int32
}

// Armor constants shared by stat composition and the combat resolver.
const (
	HeroBaseArmor             int32 = 5
	HeroArmorPerTier          int32 = 5
	FortressBaseArmor         int32 = 15
	FortressArmorPer10Levels  int32 = 5
	MaxArmorCap               int32 = 60
)

// tierMultipliers indexes tier 1..3.
var tierMultipliers = [4]fixed.Val{0, fixed.One, fixed.FromFloat(1.25), fixed.FromFloat(1.5)}

// levelGrowthStep is the per-level growth fraction applied to damage and
// HP above level 1, ~0.02 in Q16.16.
const levelGrowthStep fixed.Val = 1310

// TierMultiplier returns the Q16.16 stat multiplier for a tier in {1,2,3}.
// Out-of-range tiers are a validation failure upstream; this clamps so a
// bad tier can never index past the table.
func TierMultiplier(tier int) fixed.Val {
	if tier < 1 {
		tier = 1
	}
	if tier > 3 {
		tier = 3
	}
	return tierMultipliers[tier]
}

// CalculateHeroStats composes a hero's effective stats from its
// definition, tier and level. Every multiplication runs in Q16.16 with
// truncation toward zero, matching the wire rule exactly:
//
//	finalStat = baseStat × tierMultiplier(tier) × levelMultiplier(level)
//
// Attack speed, range and move speed scale with tier only; damage and HP
// scale with tier and level.
func CalculateHeroStats(def HeroDefinition, tier int, level int32) BaseStats {
	tm := TierMultiplier(tier)
	lm := fixed.One + fixed.Val(int64(clampLevel(level)-1)*int64(levelGrowthStep))

	hp := fixed.Mul(fixed.Mul(fixed.FromInt(def.BaseHP), tm), lm).Int()

	return BaseStats{
		Damage:      fixed.Mul(fixed.Mul(def.BaseDamage, tm), lm),
		AttackSpeed: fixed.Mul(def.AttackSpeed, tm),
		Range:       fixed.Mul(def.Range, tm),
		MoveSpeed:   fixed.Mul(def.MoveSpeed, tm),
		HP:          hp,
	}
}

// ApplyUpgrade scales one composed stat by (1 + upgradeFraction) with the
// same truncation rule as composition.
func ApplyUpgrade(stat fixed.Val, upgradeFraction fixed.Val) fixed.Val {
	return fixed.Mul(stat, fixed.One+upgradeFraction)
}

// HeroArmor computes a hero's armor at a tier, scaled by an additive armor
// bonus fraction and truncated.
func HeroArmor(tier int, armorBonus fixed.Val) int32 {
	base := HeroBaseArmor + int32(tier-1)*HeroArmorPerTier
	return fixed.Mul(fixed.FromInt(base), fixed.One+armorBonus).Int()
}

// FortressArmor computes fortress armor from commander level, scaled by an
// additive armor bonus fraction and truncated.
func FortressArmor(level int32, armorBonus fixed.Val) int32 {
	base := FortressBaseArmor + (clampLevel(level)/10)*FortressArmorPer10Levels
	return fixed.Mul(fixed.FromInt(base), fixed.One+armorBonus).Int()
}
