package ptexfilter

import (
	"math"

	"github.com/chewxy/math32"

	"github.com/naisuuuu/ptexfilter/kernel"
)

// boxBuilder builds rectangular box kernels. The box is convolved with the
// texels as area samples, so the effective kernel is trapezoidal: interior
// texels weigh 1 and the two edge texels weigh their fractional coverage.
type boxBuilder struct{}

func (boxBuilder) buildKernel(k *kernel.Separable, u, v, uw, vw float32, faceRes kernel.Res) {
	// clamp the filter width to [one texel, the whole face]
	uw = math32.Max(math32.Min(uw, 1), 1/float32(faceRes.U()))
	vw = math32.Max(math32.Min(vw, 1), 1/float32(faceRes.V()))

	// pick the working res for the filter width
	k.Res = kernel.NewRes(kernel.Log2Ceil(float64(uw)), kernel.Log2Ceil(float64(vw)))

	// convert to pixel coords
	up := float64(u) * float64(k.Res.U())
	vp := float64(v) * float64(k.Res.V())
	uwp := float64(uw) * float64(k.Res.U())
	vwp := float64(vw) * float64(k.Res.V())

	// integer pixel extent: [u,v] +/- [uw/2,vw/2]
	u1, u2 := up-0.5*uwp, up+0.5*uwp
	v1, v2 := vp-0.5*vwp, vp+0.5*vwp
	u1f, u2c := math.Floor(u1), math.Ceil(u2)
	v1f, v2c := math.Floor(v1), math.Ceil(v2)
	k.U = int(u1f)
	k.V = int(v1f)
	k.UW = int(u2c) - k.U
	k.VW = int(v2c) - k.V

	k.Ku = boxWeights(k.UW, 1-(u1-u1f), 1-(u2c-u2))
	k.Kv = boxWeights(k.VW, 1-(v1-v1f), 1-(v2c-v2))
}

// boxWeights fills a weight vector with the fractional coverage f1 and f2 at
// the ends and 1 in the interior.
func boxWeights(size int, f1, f2 float64) []float64 {
	w := make([]float64, size)
	if size == 1 {
		w[0] = f1 + f2 - 1
		return w
	}
	w[0] = f1
	for i := 1; i < size-1; i++ {
		w[i] = 1
	}
	w[size-1] = f2
	return w
}
