// Package ptexfilter evaluates filtered samples of per-face indexed surface
// textures. Each face of a surface carries its own power-of-two texel grid;
// neighboring faces may differ in resolution and meet at arbitrary edge
// orientations. A filter builds a separable reconstruction kernel around a
// sample position, splits it across face boundaries, and accumulates texel
// contributions normalized by the surviving kernel weight.
package ptexfilter

// FilterKind selects the reconstruction kernel used by a filter.
type FilterKind int

const (
	// KindDefault is the Mitchell cubic.
	KindDefault FilterKind = iota
	KindPoint
	KindBilinear
	KindBox
	KindGaussian
	KindBicubic
	KindBSpline
	KindCatmullRom
	KindMitchell
)

// Options adjust how a filter reconstructs samples.
//
// Sharpness applies to KindBicubic only; the named cubics pin their own value.
// Lerp and NoEdgeBlend are accepted for compatibility and ignored: edge
// blending is the driver's split policy and always active.
type Options struct {
	Filter      FilterKind
	Sharpness   float32
	Lerp        bool
	NoEdgeBlend bool
}

// Filter evaluates filtered texture samples.
//
// Eval writes up to nChan channels into result, reading texture channels
// starting at firstChan. (u, v) is the sample position on face faceID in
// normalized [0, 1] coordinates and (uw, vw) are the filter half-widths. A
// nil result, non-positive nChan or out-of-range faceID is a no-op.
type Filter interface {
	Eval(result []float32, firstChan, nChan int, faceID int, u, v, uw, vw float32)
}

// GetFilter returns a filter evaluating tx with the given options. Triangular
// textures are always point-sampled. The filter borrows tx, which must outlive
// it.
func GetFilter(tx TextureSource, opts Options) Filter {
	if tx != nil && tx.MeshType() == MeshTriangle {
		return &pointFilterTri{tx: tx}
	}
	switch opts.Filter {
	case KindPoint:
		return &pointFilter{tx: tx}
	case KindBilinear:
		return newSeparable(tx, bilinearBuilder{})
	case KindBox:
		return newSeparable(tx, boxBuilder{})
	case KindGaussian:
		return newSeparable(tx, width4Builder{k: gaussianKernel})
	case KindBicubic:
		return newBicubic(tx, opts.Sharpness)
	case KindBSpline:
		return newBicubic(tx, 0)
	case KindCatmullRom:
		return newBicubic(tx, 1)
	default:
		return newBicubic(tx, 2.0/3.0)
	}
}
