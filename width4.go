package ptexfilter

import (
	"math"

	"github.com/chewxy/math32"

	"github.com/naisuuuu/ptexfilter/kernel"
)

// kernelFunc is a 1-D reconstruction kernel evaluated at normalized offset x,
// with optional coefficients c.
type kernelFunc func(x float64, c *[7]float64) float64

// width4Builder builds separable kernels spanning 4 to 8 texels per axis. The
// kernel width is four times the filter width and the working resolution is
// chosen so that each axis covers between 4 and 8 texels. Filter widths too
// large to handle collapse the affected axis to a two-tap Hermite smoothstep.
type width4Builder struct {
	k kernelFunc
	c *[7]float64
}

func (b width4Builder) buildKernel(k *kernel.Separable, u, v, uw, vw float32, faceRes kernel.Res) {
	var ulog2, vlog2 int8
	b.buildAxis(&ulog2, &k.U, &k.UW, &k.Ku, u, uw, faceRes.ULog2)
	b.buildAxis(&vlog2, &k.V, &k.VW, &k.Kv, v, vw, faceRes.VLog2)
	k.Res = kernel.NewRes(ulog2, vlog2)
}

// buildAxis builds one axis; "u" names may stand for either axis.
func (b width4Builder) buildAxis(reslog2 *int8, ku, kuw *int, kw *[]float64, u, uw float32, faceLog2 int8) {
	// a kernel of half-width > .5 would straddle both neighbors; collapse the
	// axis to a smoothed two-tap interpolant on the 1x1 grid instead
	if uw > 0.5 {
		*reslog2 = 0
		upix := float64(u) - 0.5
		ui := math.Floor(upix)
		*ku = int(ui)
		*kuw = 2
		w0 := 1 - kernel.Smoothstep(upix-ui, 0, 1)
		*kw = []float64{w0, 1 - w0}
		return
	}

	// clamp the filter width to no smaller than a texel, and to no larger than
	// 5/4 * 1/4 = .3125, the largest width that won't require samples from
	// both neighbors at once
	uw = math32.Max(uw, 1/float32(int(1)<<uint(faceLog2)))
	uw = math32.Min(uw, 0.3125)

	// pick the working res for the filter width
	*reslog2 = kernel.Log2Ceil(float64(uw))
	resu := 1 << uint(*reslog2)

	// convert to pixel coords
	upix := float64(u)*float64(resu) - 0.5
	uwpix := float64(uw) * float64(resu)

	// integer pixel extent: upix +/- 2*uw, extended to cover even texel pairs
	dupix := 2 * uwpix
	u1 := int(math.Ceil(upix-dupix)) &^ 1
	u2 := (int(math.Ceil(upix+dupix)) + 1) &^ 1
	*ku = u1
	*kuw = u2 - u1

	// klerp: lerp the weights towards the next-lower res so the kernel stays
	// smooth as the filter width crosses resolution levels
	uwhi := 2 / float64(resu)
	uwlo := uwhi * 0.5
	lerp2 := (float64(uw) - uwlo) / uwlo
	lerp1 := 1 - lerp2

	w := make([]float64, u2-u1)
	step := 1 / uwpix
	x1 := (float64(u1) - upix) * step
	for i := 0; i < len(w); i += 2 {
		xa := x1 + float64(i)*step
		xb := xa + step
		xc := (xa + xb) * 0.5
		ka, kb, kc := b.k(xa, b.c), b.k(xb, b.c), b.k(xc, b.c)
		w[i] = ka*lerp1 + kc*lerp2
		w[i+1] = kb*lerp1 + kc*lerp2
	}
	*kw = w
}

// newBicubic returns a separable filter over the cubic BC-spline family with
// B = 1 - sharpness and C = (1-B)/2. See Mitchell and Netravali,
// "Reconstruction Filters in Computer Graphics", Computer Graphics, Vol. 22,
// No. 4, pp. 221-228.
func newBicubic(tx TextureSource, sharpness float32) Filter {
	b := 1 - float64(sharpness)
	c := &[7]float64{
		1.5 - b,
		1.5*b - 2.5,
		1 - b/3,
		b/3 - 0.5,
		2.5 - 1.5*b,
		2*b - 4,
		2 - 2*b/3,
	}
	return newSeparable(tx, width4Builder{k: cubicKernel, c: c})
}

func cubicKernel(x float64, c *[7]float64) float64 {
	x = math.Abs(x)
	switch {
	case x < 1:
		return (c[0]*x+c[1])*x*x + c[2]
	case x < 2:
		return ((c[3]*x+c[4])*x+c[5])*x + c[6]
	default:
		return 0
	}
}

func gaussianKernel(x float64, _ *[7]float64) float64 {
	return math.Exp(-2 * x * x)
}
