package ptexfilter

import (
	"github.com/chewxy/math32"

	"github.com/naisuuuu/ptexfilter/kernel"
)

// kernelBuilder populates a kernel for one sample in face-local coordinates.
// The kernel's working resolution may differ from the face resolution; the
// driver resamples it onto the face grid before splitting.
type kernelBuilder interface {
	buildKernel(k *kernel.Separable, u, v, uw, vw float32, faceRes kernel.Res)
}

// separableFilter drives a kernel builder: it splits the built kernel across
// face boundaries, accumulates weighted texel sums from every face touched,
// and normalizes by the surviving weight.
type separableFilter struct {
	tx      TextureSource
	builder kernelBuilder
}

func newSeparable(tx TextureSource, b kernelBuilder) *separableFilter {
	return &separableFilter{tx: tx, builder: b}
}

func (f *separableFilter) Eval(result []float32, firstChan, nChan int, faceID int, u, v, uw, vw float32) {
	if f.tx == nil || result == nil || nChan <= 0 || firstChan < 0 {
		return
	}
	if faceID < 0 || faceID >= f.tx.NumFaces() {
		return
	}
	if nChan > len(result) {
		nChan = len(result)
	}
	n := f.tx.NumChannels() - firstChan
	if n > nChan {
		n = nChan
	}
	if n <= 0 {
		return
	}

	for i := range result[:nChan] {
		result[i] = 0
	}
	out := result[:n]

	fi := f.tx.FaceInfo(faceID)

	// a constant neighborhood needs no filtering
	if fi.IsNeighborhoodConstant() {
		f.tx.GetPixel(faceID, 0, 0, out, firstChan, n)
		return
	}

	u = math32.Min(math32.Max(u, 0), 1)
	v = math32.Min(math32.Max(v, 0), 1)
	uw = math32.Abs(uw)
	vw = math32.Abs(vw)

	var k kernel.Separable
	f.builder.buildKernel(&k, u, v, uw, vw, fi.Res)
	k.StripZeros()
	if !k.Valid() {
		return
	}

	st := evalState{
		tx:        f.tx,
		firstChan: firstChan,
		acc:       make([]float64, n),
		px:        make([]float32, n),
	}

	// express the kernel on the face's native grid
	k.AdjustRes(fi.Res)
	st.splitApply(&k, faceID, fi, 0)

	if st.weight == 0 {
		return
	}
	scale := 1 / st.weight
	for c := range out {
		out[c] = float32(st.acc[c] * scale)
	}
}

// evalState carries the accumulator of a single Eval call through the split
// recursion.
type evalState struct {
	tx        TextureSource
	firstChan int
	weight    float64
	acc       []float64
	px        []float32
}

// A kernel piece crosses at most two edges on its way to the face it lands on
// (one axis split plus one corner), with one extra hop each for a secondary
// subface and a sibling subface. Anything deeper is clipped in place.
const maxSplitDepth = 4

// splitApply peels the out-of-bounds slabs of k off to the adjacent faces and
// applies the in-bounds remainder to the current face. The u axis is split
// first, so corner pieces reach the diagonal neighbor through exactly one
// path.
func (s *evalState) splitApply(k *kernel.Separable, faceID int, fi *FaceInfo, depth int) {
	if k.UW <= 0 || k.VW <= 0 {
		return
	}
	if depth < maxSplitDepth {
		if k.U < 0 {
			p := k.SplitL()
			s.applyAcrossEdge(&p, faceID, fi, EdgeLeft, depth)
		}
		if k.U+k.UW > k.Res.U() {
			p := k.SplitR()
			s.applyAcrossEdge(&p, faceID, fi, EdgeRight, depth)
		}
		if k.V < 0 {
			p := k.SplitB()
			s.applyAcrossEdge(&p, faceID, fi, EdgeBottom, depth)
		}
		if k.V+k.VW > k.Res.V() {
			p := k.SplitT()
			s.applyAcrossEdge(&p, faceID, fi, EdgeTop, depth)
		}
	} else {
		k.ClipU(0, k.Res.U())
		k.ClipV(0, k.Res.V())
	}
	s.apply(k, faceID, fi)
}

// applyAcrossEdge carries a kernel piece that crossed edge eid of the current
// face into the adjacent face's frame and recurses. Pieces crossing an open
// edge are dropped; the surviving weight normalizes the result.
func (s *evalState) applyAcrossEdge(k *kernel.Separable, faceID int, fi *FaceInfo, eid EdgeID, depth int) {
	afid := int(fi.AdjFace(eid))
	if afid < 0 {
		return
	}
	aeid := fi.AdjEdge(eid)
	afi := s.tx.FaceInfo(afid)
	rot := int(eid) - int(aeid) + 2

	if fi.IsSubface() != afi.IsSubface() {
		if afi.IsSubface() {
			// full face to subface pair; the recorded neighbor is the primary
			if !k.AdjustMainToSubface(int(eid)) {
				// walk from the primary to the secondary subface
				neid := (aeid + 3) & 3
				nafid := int(afi.AdjFace(neid))
				if nafid < 0 {
					return
				}
				naeid := afi.AdjEdge(neid)
				rot += int(neid) - int(naeid) + 2
				afid = nafid
				afi = s.tx.FaceInfo(nafid)
			}
		} else {
			// subface to full face; the full face records only the primary
			primary := afi.AdjFace(aeid) == int32(faceID)
			k.AdjustSubfaceToMain(int(eid), primary)
		}
	}

	k.Rotate(rot)
	k.AdjustRes(afi.Res)
	s.splitApply(k, afid, afi, depth+1)
}

func (s *evalState) apply(k *kernel.Separable, faceID int, fi *FaceInfo) {
	if k.UW <= 0 || k.VW <= 0 {
		return
	}
	if fi.IsConstant() {
		s.tx.GetPixel(faceID, 0, 0, s.px, s.firstChan, len(s.px))
		s.weight += k.ApplyConst(s.px, s.acc)
		return
	}
	s.weight += k.Apply(s.tx, faceID, s.firstChan, s.acc, s.px)
}
