package data

import "fortress-arena/internal/fixed"

// FortressClassDescriptor describes a fortress class: the projectile type
// its attacks spawn and the additive side modifiers the class confers.
// All fractions are Q16.16.
type FortressClassDescriptor struct {
	ID               string
	Name             string
	ProjectileType   string
	DamageBonus      fixed.Val
	CritChance       fixed.Val
	CritDamageBonus  fixed.Val
	AttackSpeedBonus fixed.Val
	ArmorBonus       fixed.Val
}

// fortressClasses is keyed by the class tag used in build descriptors.
var fortressClasses = map[string]FortressClassDescriptor{
	"fire": {
		ID:              "fire",
		Name:            "Fire Citadel",
		ProjectileType:  "fireball",
		DamageBonus:     fixed.FromFloat(0.10),
		CritChance:      fixed.FromFloat(0.05),
		CritDamageBonus: fixed.FromFloat(0.50),
	},
	"ice": {
		ID:             "ice",
		Name:           "Ice Bastion",
		ProjectileType: "shard",
		ArmorBonus:     fixed.FromFloat(0.20),
		CritChance:     fixed.FromFloat(0.03),
	},
	"lightning": {
		ID:               "lightning",
		Name:             "Storm Spire",
		ProjectileType:   "bolt",
		AttackSpeedBonus: fixed.FromFloat(0.15),
		CritChance:       fixed.FromFloat(0.08),
	},
	"tech": {
		ID:             "tech",
		Name:           "Tech Foundry",
		ProjectileType: "rocket",
		DamageBonus:    fixed.FromFloat(0.06),
		ArmorBonus:     fixed.FromFloat(0.10),
		CritChance:     fixed.FromFloat(0.04),
	},
	"natural": {
		ID:             "natural",
		Name:           "Grove Keep",
		ProjectileType: "thorn",
		ArmorBonus:     fixed.FromFloat(0.15),
		DamageBonus:    fixed.FromFloat(0.04),
	},
	"void": {
		ID:              "void",
		Name:            "Void Gate",
		ProjectileType:  "rift",
		CritChance:      fixed.FromFloat(0.12),
		CritDamageBonus: fixed.FromFloat(0.30),
	},
	"plasma": {
		ID:               "plasma",
		Name:             "Plasma Array",
		ProjectileType:   "beam",
		AttackSpeedBonus: fixed.FromFloat(0.10),
		DamageBonus:      fixed.FromFloat(0.08),
	},
}

// GetFortressClass looks up a class descriptor by tag.
func GetFortressClass(id string) (FortressClassDescriptor, bool) {
	c, ok := fortressClasses[id]
	return c, ok
}
