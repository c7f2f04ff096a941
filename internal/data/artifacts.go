package data

import "fortress-arena/internal/fixed"

// Artifact is an equippable trinket granting arena-scoped multipliers to
// the hero carrying it. Fractions are Q16.16 and additive onto the hero's
// multipliers at setup; artifacts never mutate anything mid-battle.
type Artifact struct {
	ID              string
	Name            string
	DamageBonus     fixed.Val
	AttackSpeedBonus fixed.Val
	RangeBonus      fixed.Val
	CritChanceBonus fixed.Val
	ArmorBonus      fixed.Val
}

var artifacts = map[string]Artifact{
	"ember_sigil": {
		ID:              "ember_sigil",
		Name:            "Ember Sigil",
		CritChanceBonus: fixed.FromFloat(0.05),
		DamageBonus:     fixed.FromFloat(0.04),
	},
	"titan_plate": {
		ID:         "titan_plate",
		Name:       "Titan Plate",
		ArmorBonus: fixed.FromFloat(0.25),
	},
	"falcon_eye": {
		ID:         "falcon_eye",
		Name:       "Falcon Eye",
		RangeBonus: fixed.FromFloat(0.15),
	},
	"quick_gauntlet": {
		ID:               "quick_gauntlet",
		Name:             "Quick Gauntlet",
		AttackSpeedBonus: fixed.FromFloat(0.12),
	},
}

// GetArtifact looks up an artifact by id.
func GetArtifact(id string) (Artifact, bool) {
	a, ok := artifacts[id]
	return a, ok
}
