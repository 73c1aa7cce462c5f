// Package texture provides an in-memory TextureSource implementation used by
// tests, tools and embedders: faces are added one at a time, linked into a
// surface, and validated. Textures can be filled from raw texels, constant
// values, images, or YAML manifests.
package texture

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/naisuuuu/ptexfilter"
	"github.com/naisuuuu/ptexfilter/kernel"
)

// Log is the package logger for loading diagnostics. It discards everything by
// default; assign a configured zerolog.Logger to enable it.
var Log = zerolog.Nop()

var (
	ErrInvalidRes      = errors.New("invalid face resolution")
	ErrInvalidChannels = errors.New("invalid channel count")
	ErrPixelCount      = errors.New("pixel data does not match face resolution")
	ErrBadFaceID       = errors.New("face id out of range")
	ErrBadLink         = errors.New("bad adjacency link")
)

// Texture is an in-memory per-face texture. It implements
// ptexfilter.TextureSource; call Finalize after building to validate the
// surface and precompute the constancy flags.
type Texture struct {
	mesh     ptexfilter.MeshType
	channels int
	faces    []face
}

type face struct {
	info ptexfilter.FaceInfo
	// pix is row-major res.U()*res.V()*channels texel data; nil for constant
	// faces, which store their single pixel in value.
	pix   []float32
	value []float32
}

// New creates an empty texture with the given mesh type and channel count.
func New(mesh ptexfilter.MeshType, channels int) *Texture {
	return &Texture{mesh: mesh, channels: channels}
}

// AddFace appends a face with row-major texel data and returns its id. The
// pixel slice is retained, not copied.
func (t *Texture) AddFace(res kernel.Res, pix []float32) (int, error) {
	if !res.Valid() {
		return -1, fmt.Errorf("%w: %dx%d log2", ErrInvalidRes, res.ULog2, res.VLog2)
	}
	if len(pix) != res.Size()*t.channels {
		return -1, fmt.Errorf("%w: got %d, want %d", ErrPixelCount, len(pix), res.Size()*t.channels)
	}
	t.faces = append(t.faces, face{
		info: ptexfilter.FaceInfo{Res: res, AdjFaces: [4]int32{-1, -1, -1, -1}},
		pix:  pix,
	})
	return len(t.faces) - 1, nil
}

// AddConstantFace appends a face whose texels all hold value and returns its
// id.
func (t *Texture) AddConstantFace(res kernel.Res, value ...float32) (int, error) {
	if !res.Valid() {
		return -1, fmt.Errorf("%w: %dx%d log2", ErrInvalidRes, res.ULog2, res.VLog2)
	}
	if len(value) != t.channels {
		return -1, fmt.Errorf("%w: got %d, want %d", ErrInvalidChannels, len(value), t.channels)
	}
	t.faces = append(t.faces, face{
		info: ptexfilter.FaceInfo{
			Res:      res,
			AdjFaces: [4]int32{-1, -1, -1, -1},
			Flags:    ptexfilter.FlagConstant,
		},
		value: value,
	})
	return len(t.faces) - 1, nil
}

// Link joins edge aEdge of face a to edge bEdge of face b, recording the
// adjacency on both faces.
func (t *Texture) Link(a int, aEdge ptexfilter.EdgeID, b int, bEdge ptexfilter.EdgeID) error {
	if a < 0 || a >= len(t.faces) || b < 0 || b >= len(t.faces) {
		return ErrBadFaceID
	}
	fa, fb := &t.faces[a].info, &t.faces[b].info
	fa.AdjFaces[aEdge&3] = int32(b)
	fa.SetAdjEdge(aEdge, bEdge)
	fb.AdjFaces[bEdge&3] = int32(a)
	fb.SetAdjEdge(bEdge, aEdge)
	return nil
}

// LinkSubfaces joins edge edge of a full face to a pair of subfaces forming a
// T-junction. The primary subface occupies the start of the edge in
// counter-clockwise order and is the neighbor recorded on the full face; both
// subfaces point back at it. The subfaces are linked to each other as siblings
// and flagged. All three faces are assumed to be laid out in the same
// orientation.
func (t *Texture) LinkSubfaces(main int, edge ptexfilter.EdgeID, primary, secondary int) error {
	if main < 0 || main >= len(t.faces) ||
		primary < 0 || primary >= len(t.faces) ||
		secondary < 0 || secondary >= len(t.faces) {
		return ErrBadFaceID
	}
	aeid := (edge + 2) & 3
	fm := &t.faces[main].info
	fp := &t.faces[primary].info
	fs := &t.faces[secondary].info

	fm.AdjFaces[edge&3] = int32(primary)
	fm.SetAdjEdge(edge, aeid)
	fp.AdjFaces[aeid&3] = int32(main)
	fp.SetAdjEdge(aeid, edge)
	fs.AdjFaces[aeid&3] = int32(main)
	fs.SetAdjEdge(aeid, edge)
	fp.Flags |= ptexfilter.FlagSubface
	fs.Flags |= ptexfilter.FlagSubface

	// sibling link: walking from the primary towards the far end of the main
	// face's edge lands on the secondary
	neid := (aeid + 3) & 3
	fp.AdjFaces[neid&3] = int32(secondary)
	fp.SetAdjEdge(neid, (neid+2)&3)
	fs.AdjFaces[(neid+2)&3] = int32(primary)
	fs.SetAdjEdge((neid+2)&3, neid)
	return nil
}

// Finalize validates the surface and computes the neighborhood-constancy
// flags. It must be called after all faces are added and linked.
func (t *Texture) Finalize() error {
	for id := range t.faces {
		f := &t.faces[id].info
		for e := ptexfilter.EdgeID(0); e < 4; e++ {
			af := f.AdjFace(e)
			if af < 0 {
				continue
			}
			if int(af) >= len(t.faces) {
				return fmt.Errorf("%w: face %d edge %d points at %d", ErrBadLink, id, e, af)
			}
			// subface pairs share a main-face edge that records only the
			// primary, so reciprocity only holds between equal levels
			nf := &t.faces[af].info
			if f.IsSubface() == nf.IsSubface() && nf.AdjFace(f.AdjEdge(e)) != int32(id) {
				return fmt.Errorf("%w: face %d edge %d not reciprocated by %d", ErrBadLink, id, e, af)
			}
		}
	}
	for id := range t.faces {
		t.setNbConstant(id)
	}
	Log.Debug().Int("faces", len(t.faces)).Int("channels", t.channels).Msg("finalized texture")
	return nil
}

// setNbConstant flags face id when it and everything a filter kernel anchored
// on it can reach (two rings of edge neighbors) are constant and equal.
func (t *Texture) setNbConstant(id int) {
	f := &t.faces[id]
	f.info.Flags &^= ptexfilter.FlagNbConstant
	if !f.info.IsConstant() {
		return
	}
	seen := map[int]bool{id: true}
	ring := []int{id}
	for hop := 0; hop < 2; hop++ {
		var next []int
		for _, fid := range ring {
			fi := &t.faces[fid].info
			for e := ptexfilter.EdgeID(0); e < 4; e++ {
				af := int(fi.AdjFace(e))
				if af < 0 || seen[af] {
					continue
				}
				seen[af] = true
				next = append(next, af)
			}
		}
		ring = next
	}
	for fid := range seen {
		nb := &t.faces[fid]
		if !nb.info.IsConstant() || !equalValues(nb.value, f.value) {
			return
		}
	}
	f.info.Flags |= ptexfilter.FlagNbConstant
}

func equalValues(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MeshType implements ptexfilter.TextureSource.
func (t *Texture) MeshType() ptexfilter.MeshType { return t.mesh }

// NumFaces implements ptexfilter.TextureSource.
func (t *Texture) NumFaces() int { return len(t.faces) }

// NumChannels implements ptexfilter.TextureSource.
func (t *Texture) NumChannels() int { return t.channels }

// FaceInfo implements ptexfilter.TextureSource.
func (t *Texture) FaceInfo(faceID int) *ptexfilter.FaceInfo {
	return &t.faces[faceID].info
}

// GetPixel implements ptexfilter.TextureSource.
func (t *Texture) GetPixel(faceID, u, v int, result []float32, firstChan, nChan int) {
	if faceID < 0 || faceID >= len(t.faces) || nChan <= 0 || firstChan < 0 {
		return
	}
	if nChan > len(result) {
		nChan = len(result)
	}
	n := t.channels - firstChan
	if n > nChan {
		n = nChan
	}
	for i := 0; i < nChan; i++ {
		result[i] = 0
	}
	if n <= 0 {
		return
	}
	f := &t.faces[faceID]
	if f.value != nil {
		copy(result[:n], f.value[firstChan:firstChan+n])
		return
	}
	res := f.info.Res
	u = clampInt(u, 0, res.U()-1)
	v = clampInt(v, 0, res.V()-1)
	off := (v*res.U()+u)*t.channels + firstChan
	copy(result[:n], f.pix[off:off+n])
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
