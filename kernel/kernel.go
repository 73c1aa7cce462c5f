package kernel

import "math"

// PixelSource supplies texel data to a kernel application. It is the narrow
// slice of a texture that the kernel math needs; the full texture interface
// lives with the filters.
type PixelSource interface {
	// GetPixel writes nChan channel values of texel (u, v) of face faceID into
	// result, starting at channel firstChan. Coordinates are in bounds.
	GetPixel(faceID, u, v int, result []float32, firstChan, nChan int)
}

// Separable is an axis-aligned reconstruction kernel. The footprint starts at
// texel (U, V) on a Res-sized grid and covers UW x VW texels; the effective
// weight of texel (U+i, V+j) is Ku[i]*Kv[j]. Footprints may extend outside the
// grid until the driver has split them across face boundaries.
type Separable struct {
	Res    Res
	U, V   int
	UW, VW int
	Ku, Kv []float64
}

// Valid reports whether the kernel has a non-empty footprint and finite weights.
func (k *Separable) Valid() bool {
	if k.UW <= 0 || k.VW <= 0 || len(k.Ku) < k.UW || len(k.Kv) < k.VW {
		return false
	}
	for _, w := range k.Ku[:k.UW] {
		if math.IsInf(w, 0) || math.IsNaN(w) {
			return false
		}
	}
	for _, w := range k.Kv[:k.VW] {
		if math.IsInf(w, 0) || math.IsNaN(w) {
			return false
		}
	}
	return true
}

// Weight returns the sum of the outer product of the axis weights.
func (k *Separable) Weight() float64 {
	return sum(k.Ku[:k.UW]) * sum(k.Kv[:k.VW])
}

// StripZeros trims zero weights from the ends of both axes.
func (k *Separable) StripZeros() {
	for k.UW > 0 && k.Ku[0] == 0 {
		k.Ku = k.Ku[1:]
		k.U++
		k.UW--
	}
	for k.UW > 0 && k.Ku[k.UW-1] == 0 {
		k.UW--
	}
	for k.VW > 0 && k.Kv[0] == 0 {
		k.Kv = k.Kv[1:]
		k.V++
		k.VW--
	}
	for k.VW > 0 && k.Kv[k.VW-1] == 0 {
		k.VW--
	}
}

// ClipU crops the footprint to texel range [a, b) along u, dropping the
// weights that fall outside. Remaining weights are untouched.
func (k *Separable) ClipU(a, b int) {
	if k.U < a {
		n := a - k.U
		if n >= k.UW {
			k.UW = 0
			return
		}
		k.Ku = k.Ku[n:]
		k.U = a
		k.UW -= n
	}
	if k.U+k.UW > b {
		k.UW = b - k.U
		if k.UW < 0 {
			k.UW = 0
		}
	}
}

// ClipV crops the footprint to texel range [a, b) along v.
func (k *Separable) ClipV(a, b int) {
	if k.V < a {
		n := a - k.V
		if n >= k.VW {
			k.VW = 0
			return
		}
		k.Kv = k.Kv[n:]
		k.V = a
		k.VW -= n
	}
	if k.V+k.VW > b {
		k.VW = b - k.V
		if k.VW < 0 {
			k.VW = 0
		}
	}
}

// SplitL peels the portion of the footprint left of the grid (u < 0) into a
// new kernel expressed in the frame of an equal-res neighbor across the left
// edge, and trims the receiver to u >= 0.
func (k *Separable) SplitL() Separable {
	n := -k.U
	if n > k.UW {
		n = k.UW
	}
	s := Separable{
		Res: k.Res,
		U:   k.U + k.Res.U(),
		V:   k.V,
		UW:  n,
		VW:  k.VW,
		Ku:  append([]float64(nil), k.Ku[:n]...),
		Kv:  append([]float64(nil), k.Kv[:k.VW]...),
	}
	k.Ku = k.Ku[n:]
	k.U += n
	k.UW -= n
	return s
}

// SplitR peels the portion right of the grid (u >= Res.U()) into a new kernel
// in the right neighbor's frame and trims the receiver.
func (k *Separable) SplitR() Separable {
	n := k.U + k.UW - k.Res.U()
	if n > k.UW {
		n = k.UW
	}
	off := k.UW - n
	s := Separable{
		Res: k.Res,
		U:   k.U + off - k.Res.U(),
		V:   k.V,
		UW:  n,
		VW:  k.VW,
		Ku:  append([]float64(nil), k.Ku[off:k.UW]...),
		Kv:  append([]float64(nil), k.Kv[:k.VW]...),
	}
	k.UW = off
	return s
}

// SplitB peels the portion below the grid (v < 0) into a new kernel in the
// bottom neighbor's frame and trims the receiver.
func (k *Separable) SplitB() Separable {
	n := -k.V
	if n > k.VW {
		n = k.VW
	}
	s := Separable{
		Res: k.Res,
		U:   k.U,
		V:   k.V + k.Res.V(),
		UW:  k.UW,
		VW:  n,
		Ku:  append([]float64(nil), k.Ku[:k.UW]...),
		Kv:  append([]float64(nil), k.Kv[:n]...),
	}
	k.Kv = k.Kv[n:]
	k.V += n
	k.VW -= n
	return s
}

// SplitT peels the portion above the grid (v >= Res.V()) into a new kernel in
// the top neighbor's frame and trims the receiver.
func (k *Separable) SplitT() Separable {
	n := k.V + k.VW - k.Res.V()
	if n > k.VW {
		n = k.VW
	}
	off := k.VW - n
	s := Separable{
		Res: k.Res,
		U:   k.U,
		V:   k.V + off - k.Res.V(),
		UW:  k.UW,
		VW:  n,
		Ku:  append([]float64(nil), k.Ku[:k.UW]...),
		Kv:  append([]float64(nil), k.Kv[off:k.VW]...),
	}
	k.VW = off
	return s
}

// FlipU mirrors the kernel across the grid's vertical center line.
func (k *Separable) FlipU() {
	k.U = k.Res.U() - k.U - k.UW
	reverse(k.Ku[:k.UW])
}

// FlipV mirrors the kernel across the grid's horizontal center line.
func (k *Separable) FlipV() {
	k.V = k.Res.V() - k.V - k.VW
	reverse(k.Kv[:k.VW])
}

func (k *Separable) swapUV() {
	k.Res = k.Res.Swapped()
	k.U, k.V = k.V, k.U
	k.UW, k.VW = k.VW, k.UW
	k.Ku, k.Kv = k.Kv, k.Ku
}

// Rotate reorients the kernel by n quarter turns within its grid.
func (k *Separable) Rotate(n int) {
	switch n & 3 {
	case 1:
		k.swapUV()
		k.FlipV()
	case 2:
		k.FlipU()
		k.FlipV()
	case 3:
		k.swapUV()
		k.FlipU()
	}
}

// Reorient maps a kernel split across edge eid of its face into the frame of
// the neighbor whose matching edge is aeid. The kernel must already be
// translated into the canonical (unrotated) neighbor frame by one of the
// split operations.
func (k *Separable) Reorient(eid, aeid int) {
	k.Rotate(eid - aeid + 2)
}

// AdjustRes resamples the kernel to a different working resolution, halving or
// doubling each axis until it matches. Halving sums weights over texel pairs;
// doubling splits each weight evenly over its pair. The kernel's total weight
// is preserved.
func (k *Separable) AdjustRes(target Res) {
	for k.Res.ULog2 > target.ULog2 {
		k.downresU()
	}
	for k.Res.ULog2 < target.ULog2 {
		k.upresU()
	}
	for k.Res.VLog2 > target.VLog2 {
		k.downresV()
	}
	for k.Res.VLog2 < target.VLog2 {
		k.upresV()
	}
}

func (k *Separable) downresU() {
	buf := k.Ku
	src, dst := 0, 0
	w := k.UW
	// an odd origin leaves the leading weight alone in its pair
	if k.U&1 != 0 {
		src++
		dst++
		w--
	}
	for ; w >= 2; w -= 2 {
		buf[dst] = buf[src] + buf[src+1]
		dst++
		src += 2
	}
	if w != 0 {
		buf[dst] = buf[src]
		dst++
	}
	k.U >>= 1
	k.UW = dst
	k.Res.ULog2--
}

func (k *Separable) downresV() {
	buf := k.Kv
	src, dst := 0, 0
	w := k.VW
	if k.V&1 != 0 {
		src++
		dst++
		w--
	}
	for ; w >= 2; w -= 2 {
		buf[dst] = buf[src] + buf[src+1]
		dst++
		src += 2
	}
	if w != 0 {
		buf[dst] = buf[src]
		dst++
	}
	k.V >>= 1
	k.VW = dst
	k.Res.VLog2--
}

func (k *Separable) upresU() {
	fine := make([]float64, 2*k.UW)
	for i, w := range k.Ku[:k.UW] {
		fine[2*i] = 0.5 * w
		fine[2*i+1] = 0.5 * w
	}
	k.Ku = fine
	k.U *= 2
	k.UW *= 2
	k.Res.ULog2++
}

func (k *Separable) upresV() {
	fine := make([]float64, 2*k.VW)
	for i, w := range k.Kv[:k.VW] {
		fine[2*i] = 0.5 * w
		fine[2*i+1] = 0.5 * w
	}
	k.Kv = fine
	k.V *= 2
	k.VW *= 2
	k.Res.VLog2++
}

// AdjustMainToSubface moves a kernel that crossed edge eid of a full face onto
// the grid of the adjacent subface pair. The subface grid is one log2 step
// below the kernel's in both axes; texel size is unchanged. It reports whether
// the kernel center landed on the primary subface (the one recorded in the
// full face's adjacency); when false the kernel has been shifted into the
// secondary subface's frame and the caller must retarget.
func (k *Separable) AdjustMainToSubface(eid int) bool {
	k.Res.ULog2--
	k.Res.VLog2--
	ru, rv := k.Res.U(), k.Res.V()

	// crossing a left or bottom edge, the canonical translation assumed a
	// full-size neighbor; pull the origin back by the halved extent
	switch eid & 3 {
	case 0:
		k.V -= rv
	case 3:
		k.U -= ru
	}

	// the primary subface occupies the start of the full face's edge in
	// counter-clockwise order
	primary := false
	switch eid & 3 {
	case 0:
		primary = 2*k.U+k.UW < 2*ru
		if !primary {
			k.U -= ru
		}
	case 1:
		primary = 2*k.V+k.VW < 2*rv
		if !primary {
			k.V -= rv
		}
	case 2:
		primary = 2*k.U+k.UW >= 2*ru
		if primary {
			k.U -= ru
		}
	case 3:
		primary = 2*k.V+k.VW >= 2*rv
		if primary {
			k.V -= rv
		}
	}
	return primary
}

// AdjustSubfaceToMain moves a kernel that crossed edge eid of a subface onto
// the grid of the adjacent full face, one log2 step above. primary tells which
// half of the full face's edge this subface occupies.
func (k *Separable) AdjustSubfaceToMain(eid int, primary bool) {
	ru, rv := k.Res.U(), k.Res.V()
	switch eid & 3 {
	case 0:
		k.V += rv
		if primary {
			k.U += ru
		}
	case 1:
		if primary {
			k.V += rv
		}
	case 2:
		if !primary {
			k.U += ru
		}
	case 3:
		k.U += ru
		if !primary {
			k.V += rv
		}
	}
	k.Res.ULog2++
	k.Res.VLog2++
}

// Apply accumulates the weighted texels under the footprint into acc and
// returns the weight applied. px is scratch space for one pixel; len(px) and
// len(acc) select the channel count. The footprint must lie inside the grid.
func (k *Separable) Apply(src PixelSource, faceID, firstChan int, acc []float64, px []float32) float64 {
	if k.UW <= 0 || k.VW <= 0 {
		return 0
	}
	for j := 0; j < k.VW; j++ {
		kv := k.Kv[j]
		if kv == 0 {
			continue
		}
		for i := 0; i < k.UW; i++ {
			ku := k.Ku[i]
			if ku == 0 {
				continue
			}
			src.GetPixel(faceID, k.U+i, k.V+j, px, firstChan, len(px))
			w := ku * kv
			for c, p := range px {
				acc[c] += w * float64(p)
			}
		}
	}
	return k.Weight()
}

// ApplyConst accumulates the kernel's total weight times a constant pixel into
// acc and returns the weight applied.
func (k *Separable) ApplyConst(pixel []float32, acc []float64) float64 {
	if k.UW <= 0 || k.VW <= 0 {
		return 0
	}
	w := k.Weight()
	for c, p := range pixel {
		acc[c] += w * float64(p)
	}
	return w
}

func sum(w []float64) float64 {
	var s float64
	for _, v := range w {
		s += v
	}
	return s
}

func reverse(w []float64) {
	for i, j := 0, len(w)-1; i < j; i, j = i+1, j-1 {
		w[i], w[j] = w[j], w[i]
	}
}
