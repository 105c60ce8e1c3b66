package spline

import "gonum.org/v1/gonum/mat"

// NaturalPenalty returns Ω with Ω_jk = ∫ N_j''(t) N_k''(t) dt for the natural
// basis. The second derivatives are linear between knots and zero outside
// [ξ_1, ξ_K], so Simpson's rule on each knot interval is exact.
func NaturalPenalty(b *Natural) *mat.SymDense {
	K := b.Dim()
	omega := mat.NewSymDense(K, nil)
	knots := b.knots
	for i := 0; i+1 < len(knots); i++ {
		lo, hi := knots[i], knots[i+1]
		w := (hi - lo) / 6
		fa := b.SecondDerivative(lo)
		fm := b.SecondDerivative((lo + hi) / 2)
		fb := b.SecondDerivative(hi)
		for j := 2; j < K; j++ {
			for k := j; k < K; k++ {
				v := w * (fa[j]*fa[k] + 4*fm[j]*fm[k] + fb[j]*fb[k])
				omega.SetSym(j, k, omega.At(j, k)+v)
			}
		}
	}
	return omega
}
