// Package data holds the read-only static tables the simulator consumes:
// hero definitions, fortress class descriptors, artifacts, and commander
// progression. Client and server must ship bit-identical copies of these
// tables; any change is a rule-set version bump.
package data

import (
	"sort"

	"fortress-arena/internal/fixed"
)

// HeroDefinition is the immutable template a hero instance is built from.
// Fractional stats are Q16.16; HP is integer hit points.
type HeroDefinition struct {
	ID          string
	Name        string
	Class       string    // fortress class affinity, cosmetic in battle
	BaseHP      int32
	BaseDamage  fixed.Val // damage per attack
	AttackSpeed fixed.Val // attacks per second
	Range       fixed.Val // attack range in field units
	MoveSpeed   fixed.Val // movement in field units per tick
	Radius      fixed.Val // collision radius
	Mass        fixed.Val
	CritChance  fixed.Val // base crit fraction
}

// heroes is the full catalogue keyed by id.
// Range must stay below FortressAttackRange so fortresses out-range heroes.
var heroes = map[string]HeroDefinition{
	"storm": {
		ID:          "storm",
		Name:        "Stormcaller",
		Class:       "lightning",
		BaseHP:      420,
		BaseDamage:  fixed.FromInt(45),
		AttackSpeed: fixed.FromFloat(1.2),
		Range:       fixed.FromFloat(4.5),
		MoveSpeed:   fixed.FromFloat(0.20),
		Radius:      fixed.FromFloat(0.5),
		Mass:        fixed.One,
		CritChance:  fixed.FromFloat(0.10),
	},
	"forge": {
		ID:          "forge",
		Name:        "Forgemaster",
		Class:       "tech",
		BaseHP:      520,
		BaseDamage:  fixed.FromInt(38),
		AttackSpeed: fixed.FromFloat(0.9),
		Range:       fixed.FromFloat(2.2),
		MoveSpeed:   fixed.FromFloat(0.16),
		Radius:      fixed.FromFloat(0.6),
		Mass:        fixed.FromFloat(1.4),
		CritChance:  fixed.FromFloat(0.05),
	},
	"titan": {
		ID:          "titan",
		Name:        "Titan",
		Class:       "natural",
		BaseHP:      900,
		BaseDamage:  fixed.FromInt(28),
		AttackSpeed: fixed.FromFloat(0.6),
		Range:       fixed.FromFloat(1.8),
		MoveSpeed:   fixed.FromFloat(0.12),
		Radius:      fixed.FromFloat(0.8),
		Mass:        fixed.FromInt(2),
		CritChance:  fixed.FromFloat(0.03),
	},
	"vanguard": {
		ID:          "vanguard",
		Name:        "Vanguard",
		Class:       "fire",
		BaseHP:      640,
		BaseDamage:  fixed.FromInt(34),
		AttackSpeed: fixed.FromFloat(0.8),
		Range:       fixed.FromFloat(1.6),
		MoveSpeed:   fixed.FromFloat(0.22),
		Radius:      fixed.FromFloat(0.7),
		Mass:        fixed.FromFloat(1.6),
		CritChance:  fixed.FromFloat(0.06),
	},
	"scout": {
		ID:          "scout",
		Name:        "Scout",
		Class:       "void",
		BaseHP:      300,
		BaseDamage:  fixed.FromInt(22),
		AttackSpeed: fixed.FromFloat(1.5),
		Range:       fixed.FromFloat(3.0),
		MoveSpeed:   fixed.FromFloat(0.30),
		Radius:      fixed.FromFloat(0.45),
		Mass:        fixed.FromFloat(0.8),
		CritChance:  fixed.FromFloat(0.15),
	},
	"ember": {
		ID:          "ember",
		Name:        "Ember Witch",
		Class:       "fire",
		BaseHP:      380,
		BaseDamage:  fixed.FromInt(50),
		AttackSpeed: fixed.FromFloat(0.7),
		Range:       fixed.FromFloat(5.0),
		MoveSpeed:   fixed.FromFloat(0.18),
		Radius:      fixed.FromFloat(0.5),
		Mass:        fixed.One,
		CritChance:  fixed.FromFloat(0.08),
	},
	"warden": {
		ID:          "warden",
		Name:        "Warden",
		Class:       "ice",
		BaseHP:      760,
		BaseDamage:  fixed.FromInt(26),
		AttackSpeed: fixed.FromFloat(0.7),
		Range:       fixed.FromFloat(1.5),
		MoveSpeed:   fixed.FromFloat(0.14),
		Radius:      fixed.FromFloat(0.75),
		Mass:        fixed.FromFloat(1.8),
		CritChance:  fixed.FromFloat(0.04),
	},
	"shade": {
		ID:          "shade",
		Name:        "Shade",
		Class:       "plasma",
		BaseHP:      340,
		BaseDamage:  fixed.FromInt(42),
		AttackSpeed: fixed.FromFloat(1.1),
		Range:       fixed.FromFloat(2.5),
		MoveSpeed:   fixed.FromFloat(0.26),
		Radius:      fixed.FromFloat(0.5),
		Mass:        fixed.FromFloat(0.9),
		CritChance:  fixed.FromFloat(0.20),
	},
}

// GetHeroByID looks up a hero definition. The catalogue is total over
// valid ids; a false return means the caller passed an id that never
// existed and must be rejected at input validation.
func GetHeroByID(id string) (HeroDefinition, bool) {
	def, ok := heroes[id]
	return def, ok
}

// AllHeroIDs returns the catalogue ids in stable sorted order.
func AllHeroIDs() []string {
	ids := make([]string, 0, len(heroes))
	for id := range heroes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
