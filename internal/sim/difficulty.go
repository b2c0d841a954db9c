package sim

import (
	"math/rand"

	"closerlab/internal/model"
)

// Tier bands over the difficulty index. Higher index = easier sale.
const (
	easyMin      = 43.0
	realisticMin = 36.0
	hardMin      = 30.0
	expertMin    = 25.0
	indexMax     = 50.0
)

// ClampDimension bounds a raw dimension value to 0-10.
func ClampDimension(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

// ComputeDifficulty returns the difficulty index and tier for five numeric
// dimensions. The index is their exact sum (0-50); authorityLevel is an
// enum, not summed — it shapes behaviour initialization only.
func ComputeDifficulty(alignment, pain, need, funnel, execution float64) (float64, model.DifficultyTier) {
	index := ClampDimension(alignment) + ClampDimension(pain) + ClampDimension(need) +
		ClampDimension(funnel) + ClampDimension(execution)
	return index, TierOf(index)
}

// TierOf maps an index onto its band: 43-50 easy, 36-42 realistic,
// 30-35 hard, 25-29 expert, below 25 near_impossible.
func TierOf(index float64) model.DifficultyTier {
	switch {
	case index >= easyMin:
		return model.TierEasy
	case index >= realisticMin:
		return model.TierRealistic
	case index >= hardMin:
		return model.TierHard
	case index >= expertMin:
		return model.TierExpert
	default:
		return model.TierNearImpossible
	}
}

// NewProfile builds an immutable DifficultyProfile from raw inputs: clamps
// every dimension, validates the authority enum, derives index and tier.
func NewProfile(in model.ProfileInputs) model.DifficultyProfile {
	p := model.DifficultyProfile{
		PositionProblemAlignment: ClampDimension(in.PositionProblemAlignment),
		PainAmbitionIntensity:    ClampDimension(in.PainAmbitionIntensity),
		PerceivedNeedForHelp:     ClampDimension(in.PerceivedNeedForHelp),
		FunnelContextScore:       ClampDimension(in.FunnelContextScore),
		ExecutionResistance:      ClampDimension(in.ExecutionResistance),
		AuthorityLevel:           model.ParseAuthorityLevel(in.AuthorityLevel),
	}
	p.DifficultyIndex, p.DifficultyTier = ComputeDifficulty(
		p.PositionProblemAlignment, p.PainAmbitionIntensity, p.PerceivedNeedForHelp,
		p.FunnelContextScore, p.ExecutionResistance)
	return p
}

// tierBand returns the inclusive index range for a tier.
func tierBand(tier model.DifficultyTier) (lo, hi float64) {
	switch tier {
	case model.TierEasy:
		return easyMin, indexMax
	case model.TierRealistic:
		return realisticMin, easyMin - 1
	case model.TierHard:
		return hardMin, realisticMin - 1
	case model.TierExpert:
		return expertMin, hardMin - 1
	default:
		return 0, expertMin - 1
	}
}

// RandomProfileForTier samples five dimension values whose sum lands inside
// the tier's band, then re-runs the deterministic compute to confirm before
// returning. The caller owns the rng, so a fixed seed reproduces a fixed
// prospect.
func RandomProfileForTier(tier model.DifficultyTier, rng *rand.Rand) model.DifficultyProfile {
	lo, hi := tierBand(tier)
	target := lo + rng.Float64()*(hi-lo)

	dims := spreadAcrossDimensions(target, rng)
	authorities := []model.AuthorityLevel{model.AuthorityAdvisee, model.AuthorityPeer, model.AuthorityAdvisor}

	p := model.DifficultyProfile{
		PositionProblemAlignment: dims[0],
		PainAmbitionIntensity:    dims[1],
		PerceivedNeedForHelp:     dims[2],
		FunnelContextScore:       dims[3],
		ExecutionResistance:      dims[4],
		AuthorityLevel:           authorities[rng.Intn(len(authorities))],
	}
	p.DifficultyIndex, p.DifficultyTier = ComputeDifficulty(
		p.PositionProblemAlignment, p.PainAmbitionIntensity, p.PerceivedNeedForHelp,
		p.FunnelContextScore, p.ExecutionResistance)

	if p.DifficultyTier != tier {
		// Scaling drift can only come from float rounding at a band edge;
		// nudging onto the band midpoint keeps the sample valid.
		mid := (lo + hi) / 2
		even := mid / 5
		p.PositionProblemAlignment = even
		p.PainAmbitionIntensity = even
		p.PerceivedNeedForHelp = even
		p.FunnelContextScore = even
		p.ExecutionResistance = even
		p.DifficultyIndex, p.DifficultyTier = ComputeDifficulty(even, even, even, even, even)
	}
	return p
}

// spreadAcrossDimensions splits target across five 0-10 dimensions with
// random proportions, redistributing any overflow above the per-dimension cap.
func spreadAcrossDimensions(target float64, rng *rand.Rand) [5]float64 {
	var weights [5]float64
	sum := 0.0
	for i := range weights {
		weights[i] = 0.2 + rng.Float64() // keep proportions away from zero
		sum += weights[i]
	}

	var dims [5]float64
	for i := range dims {
		dims[i] = target * weights[i] / sum
	}

	// Cap at 10 and push the excess onto dimensions with headroom.
	for pass := 0; pass < 5; pass++ {
		excess := 0.0
		for i := range dims {
			if dims[i] > 10 {
				excess += dims[i] - 10
				dims[i] = 10
			}
		}
		if excess == 0 {
			break
		}
		for i := range dims {
			if dims[i] < 10 {
				room := 10 - dims[i]
				give := excess / 2
				if give > room {
					give = room
				}
				dims[i] += give
				excess -= give
				if excess <= 0 {
					break
				}
			}
		}
	}
	return dims
}
