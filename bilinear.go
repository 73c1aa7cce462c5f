package ptexfilter

import (
	"math"

	"github.com/chewxy/math32"

	"github.com/naisuuuu/ptexfilter/kernel"
)

// bilinearBuilder builds two-tap linear kernels on the working resolution
// whose signal period is closest to the filter width.
type bilinearBuilder struct{}

// The next-higher res is used when the fractional part of the log2 res
// exceeds log2(1/.75); rounding by 1-log2(1/.75) picks the res closest to the
// filter width in signal-period terms.
const bilinearRoundWidth = 0.5849625007211563

func (bilinearBuilder) buildKernel(k *kernel.Separable, u, v, uw, vw float32, faceRes kernel.Res) {
	// clamp the filter width to [one texel, the whole face]
	uw = math32.Max(math32.Min(uw, 1), 1/float32(faceRes.U()))
	vw = math32.Max(math32.Min(vw, 1), 1/float32(faceRes.V()))

	ulog2 := int8(math.Log2(1/float64(uw)) + bilinearRoundWidth)
	vlog2 := int8(math.Log2(1/float64(vw)) + bilinearRoundWidth)
	k.Res = kernel.NewRes(ulog2, vlog2)

	// convert to pixel coords
	upix := float64(u)*float64(k.Res.U()) - 0.5
	vpix := float64(v)*float64(k.Res.V()) - 0.5
	ufloor := math.Floor(upix)
	vfloor := math.Floor(vpix)
	k.U = int(ufloor)
	k.V = int(vfloor)
	k.UW = 2
	k.VW = 2

	ufrac := upix - ufloor
	vfrac := vpix - vfloor
	k.Ku = []float64{1 - ufrac, ufrac}
	k.Kv = []float64{1 - vfrac, vfrac}
}
