// Package kernel implements the separable reconstruction kernels shared by the
// filter implementations. A kernel is an integer texel footprint at a working
// resolution together with a weight vector per axis; filters build one per
// sample and the driver clips, splits and reorients it across face boundaries
// before applying it to texel data.
package kernel

// Res is a resolution pair stored as log2 sizes. Face grids and kernel working
// grids are always a power of two texels along each axis.
type Res struct {
	ULog2 int8
	VLog2 int8
}

// NewRes returns the resolution with the given log2 sizes.
func NewRes(ulog2, vlog2 int8) Res {
	return Res{ULog2: ulog2, VLog2: vlog2}
}

// U returns the size in texels along u.
func (r Res) U() int { return 1 << uint(r.ULog2) }

// V returns the size in texels along v.
func (r Res) V() int { return 1 << uint(r.VLog2) }

// Size returns the total number of texels.
func (r Res) Size() int { return r.U() * r.V() }

// Swapped returns the resolution with the axes exchanged.
func (r Res) Swapped() Res { return Res{ULog2: r.VLog2, VLog2: r.ULog2} }

// Valid reports whether both log2 sizes are in the addressable range.
func (r Res) Valid() bool {
	return r.ULog2 >= 0 && r.ULog2 <= 30 && r.VLog2 >= 0 && r.VLog2 <= 30
}
