package sim

import (
	"errors"
	"fmt"

	"fortress-arena/internal/data"
	"fortress-arena/internal/fixed"
)

// ErrInvalidInput is the sentinel wrapped by every construction-time
// validation failure. Once New succeeds, Step and Run cannot fail.
var ErrInvalidInput = errors.New("invalid input")

// UpgradeVector is a hero's stat upgrade fractions, Q16.16 additive.
type UpgradeVector struct {
	Damage      fixed.Val `json:"damage"`
	HP          fixed.Val `json:"hp"`
	AttackSpeed fixed.Val `json:"attackSpeed"`
	Range       fixed.Val `json:"range"`
	MoveSpeed   fixed.Val `json:"moveSpeed"`
}

// HeroConfig is the optional per-hero configuration of a build.
type HeroConfig struct {
	Tier       int           `json:"tier"`
	Upgrades   UpgradeVector `json:"upgrades"`
	ArtifactID string        `json:"artifactId,omitempty"`
}

// BuildSpec describes one player's loadout. Assembled by the account
// service; the simulator only validates and consumes it.
type BuildSpec struct {
	OwnerID        string   `json:"ownerId"`
	OwnerName      string   `json:"ownerName"`
	FortressClass  string   `json:"fortressClass"`
	CommanderLevel int32    `json:"commanderLevel"`
	HeroIDs        []string `json:"heroIds"`

	// HeroConfigs is keyed by hero id; heroes without an entry default
	// to tier 1, no upgrades, no artifact.
	HeroConfigs map[string]HeroConfig `json:"heroConfigs,omitempty"`

	// DamageBonus and HPBonus are build-wide additive fractions applied
	// on top of the fortress class modifiers, Q16.16 raw on the wire.
	DamageBonus fixed.Val `json:"damageBonus,omitempty"`
	HPBonus     fixed.Val `json:"hpBonus,omitempty"`
}

// validate checks a build against the static tables.
func (b *BuildSpec) validate(label string) error {
	if len(b.HeroIDs) == 0 {
		return fmt.Errorf("%w: %s build has empty hero list", ErrInvalidInput, label)
	}
	if b.CommanderLevel < 1 || b.CommanderLevel > data.MaxCommanderLevel {
		return fmt.Errorf("%w: %s commander level %d out of [1,100]", ErrInvalidInput, label, b.CommanderLevel)
	}
	if _, ok := data.GetFortressClass(b.FortressClass); !ok {
		return fmt.Errorf("%w: %s unknown fortress class %q", ErrInvalidInput, label, b.FortressClass)
	}
	for _, id := range b.HeroIDs {
		if _, ok := data.GetHeroByID(id); !ok {
			return fmt.Errorf("%w: %s unknown hero id %q", ErrInvalidInput, label, id)
		}
		cfg, ok := b.HeroConfigs[id]
		if !ok {
			continue
		}
		if cfg.Tier != 0 && (cfg.Tier < 1 || cfg.Tier > 3) {
			return fmt.Errorf("%w: %s hero %q tier %d out of {1,2,3}", ErrInvalidInput, label, id, cfg.Tier)
		}
		if cfg.ArtifactID != "" {
			if _, ok := data.GetArtifact(cfg.ArtifactID); !ok {
				return fmt.Errorf("%w: %s hero %q unknown artifact %q", ErrInvalidInput, label, id, cfg.ArtifactID)
			}
		}
	}
	return nil
}

// heroSpawnOffsets spreads heroes vertically around the fortress line by
// slot index. Values keep spawn positions inside the field and outside
// the exclusion disc for the default config.
var heroSpawnOffsets = [8]fixed.Val{
	0,
	fixed.FromInt(-2),
	fixed.FromInt(2),
	fixed.FromInt(-4),
	fixed.FromInt(4),
	fixed.FromFloat(-5.5),
	fixed.FromFloat(5.5),
	fixed.FromInt(-1),
}

// newSide builds one side's state from a validated build. Stat
// composition is pure: multipliers are computed once here and never
// mutated during the run.
func newSide(b *BuildSpec, cfg *ArenaConfig, tag SideTag) Side {
	class, _ := data.GetFortressClass(b.FortressClass)

	mods := ModifierSet{
		CritChance:       class.CritChance,
		CritDamageBonus:  class.CritDamageBonus,
		DamageBonus:      class.DamageBonus + b.DamageBonus,
		AttackSpeedBonus: class.AttackSpeedBonus,
	}

	centerX := cfg.FieldWidth / 2
	fortX := centerX - cfg.FortressDistanceFromCenter
	heroX := fortX + fixed.FromInt(4)
	if tag == SideRight {
		fortX = centerX + cfg.FortressDistanceFromCenter
		heroX = fortX - fixed.FromInt(4)
	}

	// HP composition runs in 64-bit integer space: a Q16.16 intermediate
	// would overflow past 32767 HP, which tank builds exceed easily.
	// The truncation at each multiply matches the fixed-point rule.
	mult := data.FortressStatMultiplier(b.CommanderLevel)
	fortHP := int32(int64(cfg.FortressBaseHP) * int64(mult) >> fixed.Shift)
	fortHP = int32(int64(fortHP) * int64(fixed.One+b.HPBonus) >> fixed.Shift)
	fortHP += data.CalculateTotalHpBonus(b.CommanderLevel)
	fortDamage := int32(int64(cfg.FortressBaseDamage)*int64(mult)>>fixed.Shift) +
		data.CalculateTotalDamageBonus(b.CommanderLevel)

	fortress := Fortress{
		Pos:            fixed.Vec{X: fortX, Y: FortressY},
		HP:             fortHP,
		MaxHP:          fortHP,
		Damage:         fortDamage,
		Armor:          data.FortressArmor(b.CommanderLevel, class.ArmorBonus),
		Class:          b.FortressClass,
		ProjectileType: class.ProjectileType,
		LastAttackTick: -cfg.FortressAttackInterval,
	}

	slots := data.GetMaxHeroSlots(b.CommanderLevel)
	ids := b.HeroIDs
	if len(ids) > slots {
		ids = ids[:slots]
	}

	heroes := make([]Hero, 0, len(ids))
	for i, id := range ids {
		def, _ := data.GetHeroByID(id)
		hc := b.HeroConfigs[id]
		tier := hc.Tier
		if tier == 0 {
			tier = 1
		}

		stats := data.CalculateHeroStats(def, tier, b.CommanderLevel)
		damage := data.ApplyUpgrade(stats.Damage, hc.Upgrades.Damage)
		attackSpeed := data.ApplyUpgrade(stats.AttackSpeed, hc.Upgrades.AttackSpeed)
		rng := data.ApplyUpgrade(stats.Range, hc.Upgrades.Range)
		moveSpeed := data.ApplyUpgrade(stats.MoveSpeed, hc.Upgrades.MoveSpeed)
		hp := int32(int64(stats.HP) * int64(fixed.One+hc.Upgrades.HP) >> fixed.Shift)
		hp = int32(int64(hp) * int64(fixed.One+b.HPBonus) >> fixed.Shift)

		crit := def.CritChance + class.CritChance
		dmgMult := fixed.One
		asMult := fixed.One
		rangeMult := fixed.One
		armorBonus := class.ArmorBonus
		if hc.ArtifactID != "" {
			art, _ := data.GetArtifact(hc.ArtifactID)
			crit += art.CritChanceBonus
			dmgMult += art.DamageBonus
			asMult += art.AttackSpeedBonus
			rangeMult += art.RangeBonus
			armorBonus += art.ArmorBonus
		}

		y := fixed.Clamp(FortressY+heroSpawnOffsets[i&7], 0, cfg.FieldHeight)
		heroes = append(heroes, Hero{
			DefID:           id,
			Tier:            tier,
			Level:           b.CommanderLevel,
			HP:              hp,
			MaxHP:           hp,
			Pos:             fixed.Vec{X: heroX, Y: y},
			Radius:          def.Radius,
			Mass:            def.Mass,
			State:           HeroIdle,
			LastAttackTick:  -9999,
			Damage:          damage,
			AttackSpeed:     attackSpeed,
			Range:           rng,
			MoveSpeed:       moveSpeed,
			DamageMult:      dmgMult,
			AttackSpeedMult: asMult,
			RangeMult:       rangeMult,
			CritChance:      crit,
			Armor:           data.HeroArmor(tier, armorBonus),
			ArtifactID:      hc.ArtifactID,
		})
	}

	return Side{
		OwnerID:     b.OwnerID,
		OwnerName:   b.OwnerName,
		Fortress:    fortress,
		Heroes:      heroes,
		Projectiles: make([]Projectile, 0, 16),
		Modifiers:   mods,
	}
}
