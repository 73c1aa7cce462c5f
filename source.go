package ptexfilter

import "github.com/naisuuuu/ptexfilter/kernel"

// MeshType selects the face parameterization of a texture.
type MeshType int

const (
	MeshQuad MeshType = iota
	MeshTriangle
)

// EdgeID identifies one edge of a face, in counter-clockwise order.
type EdgeID int

const (
	EdgeBottom EdgeID = iota
	EdgeRight
	EdgeTop
	EdgeLeft
)

// FaceFlags is the bit set of per-face properties.
type FaceFlags uint8

const (
	// FlagSubface marks a face that is one quadrant of a coarser parent,
	// forming a T-junction with a full-size neighbor.
	FlagSubface FaceFlags = 1 << iota
	// FlagConstant marks a face whose texels all hold one value.
	FlagConstant
	// FlagNbConstant marks a face whose entire neighborhood is constant and
	// equal, allowing filtering to be skipped.
	FlagNbConstant
	// FlagHasEdits marks a face with sparse edits applied by the source.
	FlagHasEdits
)

// FaceInfo describes one face of a textured surface: its texel resolution, its
// four edge neighbors and how each neighbor's frame joins this one.
type FaceInfo struct {
	Res kernel.Res
	// AdjFaces holds the neighbor face id per edge, -1 when the edge is open.
	AdjFaces [4]int32
	// AdjEdges packs the matching edge of each neighbor, 2 bits per edge.
	AdjEdges uint8
	Flags    FaceFlags
}

// AdjFace returns the neighbor face id across edge e, or -1.
func (f *FaceInfo) AdjFace(e EdgeID) int32 { return f.AdjFaces[e&3] }

// AdjEdge returns the edge of the neighbor across e that joins this face.
func (f *FaceInfo) AdjEdge(e EdgeID) EdgeID {
	return EdgeID(f.AdjEdges >> (2 * uint(e&3)) & 3)
}

// SetAdjEdge records the matching edge of the neighbor across e.
func (f *FaceInfo) SetAdjEdge(e, adj EdgeID) {
	shift := 2 * uint(e&3)
	f.AdjEdges = f.AdjEdges&^(3<<shift) | uint8(adj&3)<<shift
}

// IsSubface reports whether the face is a quadrant subface.
func (f *FaceInfo) IsSubface() bool { return f.Flags&FlagSubface != 0 }

// IsConstant reports whether all texels of the face hold one value.
func (f *FaceInfo) IsConstant() bool { return f.Flags&FlagConstant != 0 }

// IsNeighborhoodConstant reports whether the face and its whole neighborhood
// are constant and equal.
func (f *FaceInfo) IsNeighborhoodConstant() bool { return f.Flags&FlagNbConstant != 0 }

// TextureSource provides per-face texel data to the filters. Implementations
// must permit concurrent reads for a filter to be shared across goroutines.
type TextureSource interface {
	// MeshType returns the face parameterization.
	MeshType() MeshType
	// NumFaces returns the face count.
	NumFaces() int
	// NumChannels returns the channel count.
	NumChannels() int
	// FaceInfo returns the descriptor of face faceID.
	FaceInfo(faceID int) *FaceInfo
	// GetPixel writes nChan channel values of texel (u, v) into result,
	// starting at channel firstChan. Coordinates are guaranteed in bounds by
	// the caller; channels beyond the texture are zero-filled.
	GetPixel(faceID, u, v int, result []float32, firstChan, nChan int)
}
