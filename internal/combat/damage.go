package combat

import (
	"math/rand"

	"survivalcore/internal/config"
	"survivalcore/internal/model"
)

// Outcome is the result of DamageFor: how much damage to apply and,
// for harvest targets, what resource to grant the attacker.
type Outcome struct {
	Damage        float64
	YieldQuantity int
	YieldResource string
}

func rollRange(rng *rand.Rand, r model.Range) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

func rollYield(rng *rand.Rand, y model.YieldRange) int {
	if y.Max <= y.Min {
		return y.Min
	}
	return y.Min + rng.Intn(y.Max-y.Min+1)
}

// DamageFor implements §4.2.2's per-(item_def, target_type) damage
// table.
func DamageFor(rng *rand.Rand, def *model.ItemDefinition, targetType model.TargetType) Outcome {
	if def.PrimaryTargetType != nil && *def.PrimaryTargetType == targetType {
		return Outcome{
			Damage:        rollRange(rng, def.PrimaryDamage),
			YieldQuantity: rollYield(rng, def.PrimaryYield),
			YieldResource: def.PrimaryYield.Resource,
		}
	}

	if (targetType == model.TargetPlayer || targetType == model.TargetAnimal || isDeployableTargetType(targetType)) && def.PvPDamage != nil {
		return Outcome{Damage: rollRange(rng, *def.PvPDamage)}
	}

	if targetType == model.TargetPlayerCorpse {
		return Outcome{Damage: config.CorpseFixedDamage}
	}

	if targetType == model.TargetGrass {
		return Outcome{Damage: config.GrassDamage}
	}

	if def.IsGenericTool() && (targetType == model.TargetTree || targetType == model.TargetStone) {
		resource := "Wood"
		if targetType == model.TargetStone {
			resource = "Stone"
		}
		return Outcome{
			Damage:        0.5 * def.PrimaryDamage.Min,
			YieldQuantity: config.GenericToolYieldMin + rng.Intn(config.GenericToolYieldMax-config.GenericToolYieldMin+1),
			YieldResource: resource,
		}
	}

	return Outcome{Damage: 1}
}
