package userdb

// decayBonus is the strict increment a Δ=0 hit adds before decaying toward
// orig; forgetHorizon is the lifetime distance past which a hit returns at
// most orig plus a small residual.
const (
	decayBonus    = 20
	forgetHorizon = 5000
	maxFreqRatio  = 10
)

// DecayedIncrement computes the post-hit user_freq: strictly increasing at
// Δ=0 (two hits beat one), asymptotic decay of old usage toward orig as Δ
// grows, clamped to 10x max.
//
// user' = orig + (user - orig + bonus) / (1 + Δ/forgetHorizon)
//
// At Δ=0 this adds the full bonus on top of the previous increment, so
// repeated Δ=0 hits keep climbing. As Δ grows the fraction shrinks toward
// zero, so user' settles toward orig + a small residual for an isolated
// hit after a long gap.
func DecayedIncrement(user, delta, max, orig int64) int64 {
	if delta < 0 {
		delta = 0
	}
	numerator := (user - orig + decayBonus) * forgetHorizon
	denominator := forgetHorizon + delta
	decayed := numerator / denominator
	result := orig + decayed
	clampMax := max * maxFreqRatio
	if clampMax > 0 && result > clampMax {
		result = clampMax
	}
	return result
}
